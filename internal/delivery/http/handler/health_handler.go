package handler

import (
	"context"
	"net/http"
	"time"

	"trusthire/internal/logger"
	appErrors "trusthire/pkg/errors"
	"trusthire/pkg/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const healthTimeout = 2 * time.Second

// HealthChecker reports whether the backing store is reachable.
type HealthChecker interface {
	Health(ctx context.Context) error
}

type HealthHandler struct {
	checker HealthChecker
	driver  string
}

// NewHealthHandler accepts a nil checker for stores that cannot go away.
func NewHealthHandler(checker HealthChecker, driver string) *HealthHandler {
	return &HealthHandler{checker: checker, driver: driver}
}

func (h *HealthHandler) Health(c *gin.Context) {
	if h.checker != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), healthTimeout)
		defer cancel()

		if err := h.checker.Health(ctx); err != nil {
			logger.Error("Health check failed", zap.Error(err))
			utils.ErrorResponse(c, http.StatusServiceUnavailable, appErrors.CodeInternal, "Database unavailable")
			return
		}
	}

	utils.SuccessResponse(c, http.StatusOK, "", gin.H{
		"status":   "ok",
		"database": h.driver,
	})
}
