// Package services holds request-scoped business services sitting between
// the HTTP layer and the export pipeline.
package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/campusforge/portal-export/internal/platform/apierr"
	"github.com/campusforge/portal-export/internal/platform/envutil"
	"github.com/campusforge/portal-export/internal/platform/logger"
)

// Profile identifies the authenticated caller of an export request.
type Profile struct {
	UserID uuid.UUID
	Role   string
}

type AccessClaims struct {
	UserID string `json:"user_id"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

type AccessService interface {
	// VerifyAccess validates a bearer token and returns the caller profile.
	VerifyAccess(ctx context.Context, token string) (*Profile, error)
}

type accessService struct {
	log          *logger.Logger
	jwtSecretKey string
}

func NewAccessService(log *logger.Logger) (AccessService, error) {
	secret := envutil.String("JWT_SECRET_KEY", "")
	if secret == "" {
		return nil, fmt.Errorf("missing env var JWT_SECRET_KEY")
	}
	return &accessService{
		log:          log.With("service", "AccessService"),
		jwtSecretKey: secret,
	}, nil
}

func (as *accessService) VerifyAccess(_ context.Context, token string) (*Profile, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, apierr.Newf(apierr.KindAuthRequired, "authentification requise", "missing bearer token")
	}

	claims := &AccessClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(as.jwtSecretKey), nil
	})
	if err != nil || !parsed.Valid {
		return nil, apierr.New(apierr.KindAuthRequired, "authentification requise", fmt.Errorf("invalid or expired token: %w", err))
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return nil, apierr.New(apierr.KindAuthRequired, "authentification requise", fmt.Errorf("malformed user id in token: %w", err))
	}
	return &Profile{UserID: userID, Role: claims.Role}, nil
}
