package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"moviehub/internal/config"
	"moviehub/internal/microservices/http-api/models"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// OpenGorm connects to Postgres, applies the schema and seeds the default role.
func OpenGorm(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*gorm.DB, error) {
	logLevel := gormlogger.Warn
	if cfg.IsDevelopment() {
		logLevel = gormlogger.Info
	}

	db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{
		Logger: NewGormLogger(logger, logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql handle: %w", err)
	}
	sqlDB.SetMaxOpenConns(cfg.DBMaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.DBMaxOpenConns / 2)
	sqlDB.SetConnMaxIdleTime(5 * time.Minute)

	// Verify the connection
	if err := sqlDB.PingContext(ctx); err != nil {
		// close the db handle if ping fails to avoid resource leak
		sqlDB.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := Migrate(ctx, db); err != nil {
		sqlDB.Close()
		return nil, err
	}

	logger.Info("Connected to the database successfully")
	return db, nil
}

// Migrate creates or updates tables for every model and makes sure the
// default role exists.
func Migrate(ctx context.Context, db *gorm.DB) error {
	if err := db.WithContext(ctx).AutoMigrate(models.All()...); err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	role := models.Role{Name: models.DefaultRole}
	if err := db.WithContext(ctx).Where("name = ?", role.Name).FirstOrCreate(&role).Error; err != nil {
		return fmt.Errorf("failed to seed default role: %w", err)
	}
	return nil
}

// Close releases the underlying connection pool.
func Close(db *gorm.DB) error {
	if db == nil {
		return errors.New("nil database")
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
