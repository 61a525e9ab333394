package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/campusforge/portal-export/internal/http/response"
	"github.com/campusforge/portal-export/internal/platform/logger"
	"github.com/campusforge/portal-export/internal/services"
)

const profileContextKey = "access_profile"

type AuthMiddleware struct {
	log    *logger.Logger
	access services.AccessService
}

func NewAuthMiddleware(log *logger.Logger, access services.AccessService) *AuthMiddleware {
	return &AuthMiddleware{log: log.With("Middleware", "AuthMiddleware"), access: access}
}

// RequireAuth verifies the bearer token and stores the caller profile on the
// gin context for handlers downstream.
func (am *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		profile, err := am.access.VerifyAccess(c.Request.Context(), extractToken(c))
		if err != nil {
			response.RespondError(c, err)
			c.Abort()
			return
		}
		c.Set(profileContextKey, profile)
		c.Next()
	}
}

// Profile returns the authenticated caller stored by RequireAuth, or nil on
// an unauthenticated route.
func Profile(c *gin.Context) *services.Profile {
	v, ok := c.Get(profileContextKey)
	if !ok {
		return nil
	}
	profile, _ := v.(*services.Profile)
	return profile
}

// extractToken accepts both the Authorization header and a token query
// parameter, which browser-initiated downloads rely on.
func extractToken(c *gin.Context) string {
	if qToken := c.Query("token"); qToken != "" {
		return qToken
	}
	authHeader := c.GetHeader("Authorization")
	if len(authHeader) > 7 && strings.EqualFold(authHeader[:7], "Bearer ") {
		return authHeader[7:]
	}
	return ""
}
