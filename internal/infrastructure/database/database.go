package database

import (
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
	"gorm.io/plugin/dbresolver"

	"github.com/janhq/jan-crm/internal/infrastructure/logger"
)

// Config holds database configuration
type Config struct {
	DatabaseURL string
	// ReadURL routes queries to a replica when set.
	ReadURL     string
	MaxIdle     int
	MaxOpen     int
	MaxLifetime time.Duration
	LogLevel    gormlogger.LogLevel
}

// Connect opens the primary connection and registers the read replica.
func Connect(cfg Config) (*gorm.DB, error) {
	log := logger.GetLogger()

	db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(cfg.LogLevel),
		TranslateError: true,
	})
	if err != nil {
		log.Error().
			Str("error_code", "3f6a1c92-0d47-4b8e-a2c5-7e91d3b60f11").
			Err(err).
			Msg("unable to connect to database")
		return nil, err
	}

	if cfg.ReadURL != "" {
		resolver := dbresolver.Register(dbresolver.Config{
			Replicas: []gorm.Dialector{postgres.Open(cfg.ReadURL)},
			Policy:   dbresolver.RandomPolicy{},
		}).
			SetMaxIdleConns(cfg.MaxIdle).
			SetMaxOpenConns(cfg.MaxOpen).
			SetConnMaxLifetime(cfg.MaxLifetime)
		if err := db.Use(resolver); err != nil {
			log.Error().
				Str("error_code", "3f6a1c92-0d47-4b8e-a2c5-7e91d3b60f12").
				Err(err).
				Msg("unable to register read replica")
			return nil, err
		}
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxIdleConns(cfg.MaxIdle)
	sqlDB.SetMaxOpenConns(cfg.MaxOpen)
	sqlDB.SetConnMaxLifetime(cfg.MaxLifetime)

	log.Info().Bool("replica", cfg.ReadURL != "").Msg("Successfully connected to database")
	return db, nil
}

// Ping checks that the primary answers.
func Ping(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}
