package middleware

import (
	"net/http"

	"trusthire/internal/domain/account"
	appErrors "trusthire/pkg/errors"
	"trusthire/pkg/utils"

	"github.com/gin-gonic/gin"
)

// Authorize is an exact role match; no role implies another.
func Authorize(p *Principal, required account.Role) error {
	if p == nil {
		return appErrors.ErrUnauthorized
	}
	if p.Role != required {
		return appErrors.ErrForbidden
	}
	return nil
}

// RequireRole must run after AuthMiddleware.
func RequireRole(required account.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, _ := GetPrincipal(c)

		switch err := Authorize(p, required); err {
		case nil:
			c.Next()
		case appErrors.ErrUnauthorized:
			utils.ErrorResponse(c, http.StatusUnauthorized, appErrors.CodeUnauthorized, appErrors.AuthFailedMessage)
			c.Abort()
		default:
			utils.ErrorResponse(c, http.StatusForbidden, appErrors.CodeForbidden, "Insufficient permissions")
			c.Abort()
		}
	}
}

func AdminOnly() gin.HandlerFunc {
	return RequireRole(account.RoleAdmin)
}
