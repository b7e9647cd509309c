package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"trusthire/internal/config"
	"trusthire/internal/delivery/http/handler"
	domainAccount "trusthire/internal/domain/account"
	domainNotification "trusthire/internal/domain/notification"
	"trusthire/internal/events"
	"trusthire/internal/infrastructure/database/memory"
	"trusthire/internal/infrastructure/database/postgres"
	"trusthire/internal/logger"
	"trusthire/internal/metrics"
	"trusthire/internal/notify"
	"trusthire/internal/otp"
	"trusthire/internal/routes"
	accountUsecase "trusthire/internal/usecase/account"
	notificationUsecase "trusthire/internal/usecase/notification"
	"trusthire/pkg/utils"

	"go.uber.org/zap"
)

const shutdownTimeout = 30 * time.Second

type storage struct {
	accounts      domainAccount.Repository
	notifications domainNotification.Repository
	health        handler.HealthChecker
	close         func()
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString("Failed to load configuration: " + err.Error() + "\n")
		os.Exit(1)
	}

	env := cfg.Server.Environment
	if env == "" {
		env = "development"
	}
	if err := logger.Init(env); err != nil {
		os.Stderr.WriteString("Failed to initialize logger: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting application",
		zap.String("environment", env),
		zap.String("db_driver", cfg.Database.Driver),
	)

	if err := cfg.Validate(); err != nil {
		logger.Fatal("Invalid configuration", zap.Error(err))
	}

	tokens, err := utils.NewTokenManager(cfg.JWT.Secret, cfg.JWT.TTL)
	if err != nil {
		logger.Fatal("Failed to initialize token manager", zap.Error(err))
	}

	store, err := openStorage(cfg)
	if err != nil {
		logger.Fatal("Failed to initialize storage", zap.Error(err))
	}
	defer store.close()

	publisher := openPublisher(&cfg.MQTT)
	defer publisher.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	otpManager := otp.NewManager(cfg.OTP.TTL)
	m := metrics.New()
	notifications := notificationUsecase.NewService(store.notifications)
	accounts := accountUsecase.NewService(accountUsecase.Deps{
		Accounts: store.accounts,
		OTP:      otpManager,
		Tokens:   tokens,
		Delivery: newDispatcher(cfg, otpManager.TTL()),
		Notifier: notifications,
		Events:   publisher,
		Metrics:  m,
	})

	if err := accounts.Bootstrap(ctx, cfg.Bootstrap); err != nil {
		logger.Fatal("Failed to seed accounts", zap.Error(err))
	}
	go accounts.StartCodeSweep(ctx, cfg.OTP.SweepInterval, cfg.OTP.SweepGrace)

	router := routes.SetupRoutes(ctx, routes.Dependencies{
		Config:        cfg,
		Accounts:      accounts,
		Notifications: notifications,
		Tokens:        tokens,
		Metrics:       m,
		Health:        store.health,
	})

	host := cfg.Server.Host
	if host == "" {
		host = "0.0.0.0"
	}
	port := cfg.Server.Port
	if port == "" {
		port = "8080"
	}
	addr := net.JoinHostPort(host, port)

	server := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("Server starting", zap.String("address", addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("Shutdown Server ...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Failed to shutdown server", zap.Error(err))
		return
	}

	logger.Info("Server exited properly")
}

func openStorage(cfg *config.Config) (*storage, error) {
	if cfg.Database.Driver == config.DriverMemory {
		logger.Warn("Using in-memory storage, data is lost on restart")
		return &storage{
			accounts:      memory.NewAccountRepository(),
			notifications: memory.NewNotificationRepository(),
			close:         func() {},
		}, nil
	}

	db, err := postgres.NewDB(cfg)
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return &storage{
		accounts:      postgres.NewAccountRepository(db),
		notifications: postgres.NewNotificationRepository(db),
		health:        db,
		close: func() {
			if err := db.Close(); err != nil {
				logger.Error("Failed to close database connection", zap.Error(err))
			}
		},
	}, nil
}

// newDispatcher wires the configured channels; a channel without credentials
// falls through to the log sender.
func newDispatcher(cfg *config.Config, ttl time.Duration) *notify.Dispatcher {
	validity := formatValidity(ttl)

	var email, sms notify.Sender
	if cfg.SMTP.EmailEnabled() {
		sender, err := notify.NewEmailSender(&cfg.SMTP, validity)
		if err != nil {
			logger.Error("Email delivery disabled", zap.Error(err))
		} else {
			email = sender
		}
	} else {
		logger.Warn("SMTP not configured, OTP codes will only be logged")
	}

	if cfg.Twilio.SMSEnabled() {
		sms = notify.NewSMSSender(&cfg.Twilio, validity)
	}

	return notify.NewDispatcher(email, sms)
}

func openPublisher(cfg *config.MQTTConfig) events.Publisher {
	if cfg.Broker == "" {
		return events.NoopPublisher{}
	}

	publisher := events.NewMQTTPublisher(cfg)
	if err := publisher.Connect(cfg.ConnectTimeout); err != nil {
		logger.Warn("MQTT unavailable, account events disabled",
			zap.String("broker", cfg.Broker),
			zap.Error(err),
		)
		return events.NoopPublisher{}
	}
	return publisher
}

func formatValidity(ttl time.Duration) string {
	minutes := int(ttl.Round(time.Minute) / time.Minute)
	if minutes == 1 {
		return "1 minute"
	}
	return fmt.Sprintf("%d minutes", minutes)
}
