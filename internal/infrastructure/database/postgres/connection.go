package postgres

import (
	"context"
	"fmt"
	"time"

	"trusthire/internal/config"
	"trusthire/internal/infrastructure/database/postgres/models"
	"trusthire/internal/logger"

	_ "github.com/jackc/pgx/v5/stdlib"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

const (
	maxOpenConns    = 25
	maxIdleConns    = 5
	connMaxLifetime = 5 * time.Minute
)

type DB struct {
	*gorm.DB
	queryTimeout  time.Duration
	retryAttempts uint64
}

func NewDB(cfg *config.Config) (*DB, error) {
	gormLogLevel := gormLogger.Info
	if cfg.IsProduction() {
		gormLogLevel = gormLogger.Warn
	}

	db, err := gorm.Open(postgres.Open(cfg.Database.DSN()), &gorm.Config{
		Logger:         gormLogger.Default.LogMode(gormLogLevel),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("error getting sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(maxOpenConns)
	sqlDB.SetMaxIdleConns(maxIdleConns)
	sqlDB.SetConnMaxLifetime(connMaxLifetime)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("error connecting to database: %w", err)
	}

	logger.Info("Database connection established",
		zap.String("host", cfg.Database.Host),
		zap.String("database", cfg.Database.DBName),
		zap.Int("max_open_connections", maxOpenConns),
		zap.Int("max_idle_connections", maxIdleConns),
	)

	return Wrap(db, cfg.Database.QueryTimeout, cfg.Database.RetryAttempts), nil
}

// Wrap adopts an already opened gorm handle.
func Wrap(db *gorm.DB, queryTimeout time.Duration, retryAttempts uint64) *DB {
	return &DB{DB: db, queryTimeout: queryTimeout, retryAttempts: retryAttempts}
}

// AutoMigrate creates or updates the account and notification tables.
func (d *DB) AutoMigrate() error {
	if err := d.DB.AutoMigrate(&models.AccountModel{}, &models.NotificationModel{}); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}

func (d *DB) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (d *DB) Health(ctx context.Context) error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
