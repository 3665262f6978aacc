// Package database owns the PostgreSQL connection, the create-database step
// and the versioned schema migrations.
package database

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"invoice-ocr/pkg/config"
	"invoice-ocr/pkg/logger"
)

const slowQueryThreshold = 200 * time.Millisecond

// Database wraps the gorm connection pool shared by all requests
type Database struct {
	DB  *gorm.DB
	log *zap.Logger
}

// Open connects to the application database and applies pool settings
func Open(cfg config.DatabaseConfig, log *zap.Logger) (*Database, error) {
	gormCfg := &gorm.Config{
		Logger: logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.LogLevel), slowQueryThreshold),
	}
	return openDialector(postgres.Open(cfg.DSN()), gormCfg, cfg, log)
}

func openDialector(dialector gorm.Dialector, gormCfg *gorm.Config, cfg config.DatabaseConfig, log *zap.Logger) (*Database, error) {
	db, err := gorm.Open(dialector, gormCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	log.Info("database connected",
		zap.String("host", cfg.Host),
		zap.Int("port", cfg.Port),
		zap.String("database", cfg.Name),
	)
	return &Database{DB: db, log: log}, nil
}

// Ping checks that the database is reachable
func (d *Database) Ping(ctx context.Context) error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Close releases every pooled connection
func (d *Database) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	d.log.Info("closing database connection")
	return sqlDB.Close()
}
