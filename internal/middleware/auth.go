package middleware

import (
	"errors"
	"net/http"
	"strings"

	"trusthire/internal/domain/account"
	"trusthire/internal/logger"
	appErrors "trusthire/pkg/errors"
	"trusthire/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const principalKey = "principal"

// Principal is the authenticated caller, taken from the token as issued.
type Principal struct {
	ID    uuid.UUID
	Email string
	Role  account.Role
}

// AuthMiddleware verifies the bearer token and attaches the Principal.
func AuthMiddleware(tokens *utils.TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortUnauthorized(c, "missing_header")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
			abortUnauthorized(c, "malformed_header")
			return
		}

		claims, err := tokens.Verify(strings.TrimSpace(parts[1]))
		if err != nil {
			reason := "invalid_token"
			if errors.Is(err, appErrors.ErrTokenExpired) {
				reason = "expired_token"
			}
			abortUnauthorized(c, reason)
			return
		}

		role, err := account.ParseRole(claims.Role)
		if err != nil {
			abortUnauthorized(c, "unknown_role")
			return
		}

		c.Set(principalKey, &Principal{
			ID:    claims.UserID,
			Email: claims.Email,
			Role:  role,
		})

		c.Next()
	}
}

func abortUnauthorized(c *gin.Context, reason string) {
	logger.WithRequestID(GetRequestID(c)).Debug("Authentication failed",
		zap.String("reason", reason),
		zap.String("path", c.Request.URL.Path),
	)
	utils.ErrorResponse(c, http.StatusUnauthorized, appErrors.CodeUnauthorized, appErrors.AuthFailedMessage)
	c.Abort()
}

// GetPrincipal returns the caller set by AuthMiddleware.
func GetPrincipal(c *gin.Context) (*Principal, bool) {
	value, exists := c.Get(principalKey)
	if !exists {
		return nil, false
	}
	p, ok := value.(*Principal)
	return p, ok && p != nil
}
