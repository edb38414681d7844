package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	apperrors "github.com/getmentor/webhook-admin/pkg/errors"
	"github.com/getmentor/webhook-admin/pkg/jwt"
	"github.com/getmentor/webhook-admin/pkg/logger"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ClaimsContextKey stores the validated token claims in the gin context
const ClaimsContextKey = "auth_claims"

// ErrClaimsNotFound is returned by GetClaims outside of authenticated routes
var ErrClaimsNotFound = errors.New("auth claims not found in context")

// AdminAuthMiddleware requires a bearer JWT whose role is one of roles
func AdminAuthMiddleware(tokenManager *jwt.TokenManager, roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			logger.Warn("Missing authentication token",
				zap.String("path", c.Request.URL.Path),
				zap.String("client_ip", c.ClientIP()),
			)
			_ = c.Error(fmt.Errorf("missing bearer token")) //nolint:errcheck
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Missing authentication token"})
			c.Abort()
			return
		}

		claims, err := tokenManager.ValidateToken(token)
		if err != nil {
			logger.Warn("Invalid authentication token",
				zap.String("path", c.Request.URL.Path),
				zap.String("client_ip", c.ClientIP()),
				zap.Error(err),
			)
			_ = c.Error(fmt.Errorf("invalid bearer token: %w", err)) //nolint:errcheck
			if errors.Is(err, jwt.ErrExpiredToken) {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "Token expired"})
			} else {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid authentication token"})
			}
			c.Abort()
			return
		}

		if !hasRole(claims.Role, roles) {
			logger.Warn("Insufficient role",
				zap.String("path", c.Request.URL.Path),
				zap.String("subject", claims.Subject),
				zap.String("role", claims.Role),
			)
			_ = c.Error(apperrors.AccessDeniedError(fmt.Sprintf("role %q", claims.Role))) //nolint:errcheck
			c.JSON(http.StatusForbidden, gin.H{"error": "Insufficient privileges"})
			c.Abort()
			return
		}

		c.Set(ClaimsContextKey, claims)
		c.Next()
	}
}

// GetClaims returns the claims stored by AdminAuthMiddleware
func GetClaims(c *gin.Context) (*jwt.Claims, error) {
	value, exists := c.Get(ClaimsContextKey)
	if !exists {
		return nil, ErrClaimsNotFound
	}
	claims, ok := value.(*jwt.Claims)
	if !ok {
		return nil, ErrClaimsNotFound
	}
	return claims, nil
}

func bearerToken(header string) (string, bool) {
	const prefix = "Bearer "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return "", false
	}
	token := strings.TrimSpace(header[len(prefix):])
	return token, token != ""
}

func hasRole(role string, allowed []string) bool {
	for _, r := range allowed {
		if jwt.TimingSafeCompare(role, r) {
			return true
		}
	}
	return false
}
