package routes

import (
	"context"

	"trusthire/internal/config"
	"trusthire/internal/delivery/http/handler"
	"trusthire/internal/logger"
	"trusthire/internal/metrics"
	"trusthire/internal/middleware"
	accountUsecase "trusthire/internal/usecase/account"
	notificationUsecase "trusthire/internal/usecase/notification"
	"trusthire/pkg/utils"

	"github.com/gin-gonic/gin"
)

// Dependencies are the collaborators the HTTP layer is built from.
type Dependencies struct {
	Config        *config.Config
	Accounts      *accountUsecase.Service
	Notifications *notificationUsecase.Service
	Tokens        *utils.TokenManager
	Metrics       *metrics.Metrics
	Health        handler.HealthChecker
}

// SetupRoutes builds the engine. ctx bounds the background work of the rate
// limiters.
func SetupRoutes(ctx context.Context, deps Dependencies) *gin.Engine {
	cfg := deps.Config
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	generalLimiter := middleware.NewRateLimiter(cfg.RateLimit.GeneralRPS, cfg.RateLimit.GeneralBurst)
	otpLimiter := middleware.NewRateLimiter(cfg.RateLimit.OTPRPS, cfg.RateLimit.OTPBurst)
	go generalLimiter.Run(ctx)
	go otpLimiter.Run(ctx)

	router := gin.New()

	// Order: recovery, request ID, logging, security headers, CORS, request size limit, general rate limit
	router.Use(middleware.RecoveryMiddleware())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.SecurityHeadersMiddleware())
	router.Use(middleware.CORSMiddleware(&cfg.CORS))
	router.Use(middleware.RequestSizeLimitMiddleware(middleware.DefaultMaxRequestSize))
	router.Use(middleware.RateLimitMiddleware(generalLimiter))

	healthHandler := handler.NewHealthHandler(deps.Health, cfg.Database.Driver)
	router.GET("/health", healthHandler.Health)
	if deps.Metrics != nil {
		router.GET("/metrics", gin.WrapH(deps.Metrics.Handler()))
	}

	accountHandler := handler.NewAccountHandler(deps.Accounts)
	adminHandler := handler.NewAdminHandler(deps.Accounts)
	notificationHandler := handler.NewNotificationHandler(deps.Notifications)

	api := router.Group("/api")
	{
		accountHandler.RegisterRoutes(api, middleware.RateLimitMiddleware(otpLimiter))
		adminHandler.RegisterPublicRoutes(api.Group("/admin"))

		protected := api.Group("")
		protected.Use(middleware.AuthMiddleware(deps.Tokens))
		{
			accountHandler.RegisterProtectedRoutes(protected)
			notificationHandler.RegisterRoutes(protected)

			admin := protected.Group("/admin")
			admin.Use(middleware.AdminOnly())
			{
				adminHandler.RegisterRoutes(admin)
			}
		}
	}

	logger.Info("All routes initialized")
	return router
}
