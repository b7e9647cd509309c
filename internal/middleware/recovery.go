package middleware

import (
	"net/http"

	"trusthire/internal/logger"
	appErrors "trusthire/pkg/errors"
	"trusthire/pkg/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RecoveryMiddleware turns a handler panic into a generic 500.
func RecoveryMiddleware() gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(nil, func(c *gin.Context, recovered any) {
		logger.WithRequestID(GetRequestID(c)).Error("Panic recovered",
			zap.Any("panic", recovered),
			zap.String("path", c.Request.URL.Path),
			zap.Stack("stack"),
		)
		utils.ErrorResponse(c, http.StatusInternalServerError, appErrors.CodeInternal, "Internal server error")
		c.Abort()
	})
}
