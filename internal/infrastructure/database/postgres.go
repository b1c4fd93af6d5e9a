package database

import (
	"fmt"

	"github.com/sangkips/cleanops-api/internal/config"
	"github.com/sangkips/cleanops-api/internal/domain/entity"
	"github.com/sangkips/cleanops-api/pkg/logger"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// NewPostgresDB creates a new PostgreSQL database connection
func NewPostgresDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  cfg.DSN(),
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		Logger: logger.NewGormLogger(logger.GormLevel(cfg.LogLevel), cfg.SlowThreshold),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	zap.L().Info("connected to postgres",
		zap.String("host", cfg.Host),
		zap.String("database", cfg.Name),
	)
	return db, nil
}

// Models lists every persisted entity in migration order
func Models() []interface{} {
	return []interface{}{
		// Identity
		&entity.Permission{},
		&entity.Role{},
		&entity.User{},
		&entity.PasswordResetToken{},
		&entity.Tenant{},
		&entity.TenantMembership{},

		// Lookups
		&entity.ServiceType{},

		// CRM
		&entity.Client{},
		&entity.Property{},
		&entity.Lead{},

		// Work
		&entity.Estimate{},
		&entity.EstimateLineItem{},
		&entity.Job{},
		&entity.JobLineItem{},
		&entity.JobVisit{},

		// Billing
		&entity.Invoice{},
		&entity.InvoiceLineItem{},
		&entity.Payment{},

		// System
		&entity.IdempotencyKey{},
	}
}

// AutoMigrate runs GORM auto-migration for all entities
func AutoMigrate(db *gorm.DB) error {
	zap.L().Info("running database migrations")

	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	zap.L().Info("database migrations completed")
	return nil
}
