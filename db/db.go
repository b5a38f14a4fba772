package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/meinhoongagan/clinic-app/config"
	"github.com/meinhoongagan/clinic-app/ledger"
	"github.com/meinhoongagan/clinic-app/logger"
)

// ErrNotFound is returned by every lookup in this package when no row matches.
var ErrNotFound = ledger.ErrRecordNotFound

// Open establishes the DB connection without running migrations.
func Open(cfg *config.Config, log *logger.Logger) (*gorm.DB, error) {
	conn, err := gorm.Open(postgres.Open(cfg.Database.URL), gormConfig(cfg.IsLocal()))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := conn.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	log.WithComponent("db").Info("Database connection established")
	return conn, nil
}

func gormConfig(verbose bool) *gorm.Config {
	level := gormlogger.Warn
	if verbose {
		level = gormlogger.Info
	}
	return &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
		// Postgres errors come back as gorm.ErrDuplicatedKey and friends.
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(level),
	}
}

// Ping checks that the database answers.
func Ping(ctx context.Context, conn *gorm.DB) error {
	sqlDB, err := conn.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	default:
		return err
	}
}
