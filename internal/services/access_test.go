package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/campusforge/portal-export/internal/platform/apierr"
	"github.com/campusforge/portal-export/internal/platform/logger"
)

const testSecret = "test-secret"

func testAccessService(t *testing.T) AccessService {
	t.Helper()
	t.Setenv("JWT_SECRET_KEY", testSecret)
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("failed to init logger: %v", err)
	}
	svc, err := NewAccessService(log)
	if err != nil {
		t.Fatalf("failed to init access service: %v", err)
	}
	return svc
}

func signToken(t *testing.T, claims AccessClaims, secret string) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	return token
}

func TestVerifyAccessValidToken(t *testing.T) {
	svc := testAccessService(t)
	userID := uuid.New()
	token := signToken(t, AccessClaims{
		UserID: userID.String(),
		Role:   "student",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}, testSecret)

	profile, err := svc.VerifyAccess(context.Background(), token)
	if err != nil {
		t.Fatalf("VerifyAccess failed: %v", err)
	}
	if profile.UserID != userID || profile.Role != "student" {
		t.Fatalf("unexpected profile: %+v", profile)
	}
}

func TestVerifyAccessRejections(t *testing.T) {
	svc := testAccessService(t)
	expired := signToken(t, AccessClaims{
		UserID: uuid.NewString(),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	}, testSecret)
	wrongKey := signToken(t, AccessClaims{UserID: uuid.NewString()}, "other-secret")
	badUserID := signToken(t, AccessClaims{
		UserID: "not-a-uuid",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}, testSecret)

	for name, token := range map[string]string{
		"empty":       "",
		"garbage":     "not.a.jwt",
		"expired":     expired,
		"wrong key":   wrongKey,
		"bad user id": badUserID,
	} {
		_, err := svc.VerifyAccess(context.Background(), token)
		var classified *apierr.Error
		if !errors.As(err, &classified) || classified.Kind != apierr.KindAuthRequired {
			t.Fatalf("%s: expected auth_required, got %v", name, err)
		}
	}
}
