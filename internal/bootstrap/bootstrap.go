// Package bootstrap opens the remote data platform selected by configuration.
package bootstrap

import (
	"context"

	"github.com/rs/zerolog"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/janhq/jan-crm/internal/config"
	"github.com/janhq/jan-crm/internal/domain/backend"
	"github.com/janhq/jan-crm/internal/infrastructure/backend/instrumented"
	"github.com/janhq/jan-crm/internal/infrastructure/backend/memory"
	"github.com/janhq/jan-crm/internal/infrastructure/backend/pgstore"
	"github.com/janhq/jan-crm/internal/infrastructure/backend/supabase"
	"github.com/janhq/jan-crm/internal/infrastructure/database"
	"github.com/janhq/jan-crm/internal/infrastructure/logger"
)

// Backend is the connector selected by BACKEND_MODE.
type Backend struct {
	Connector backend.Connector
	db        *gorm.DB
}

// Ready reports whether the backend can serve requests. Only the postgres
// backend has anything to check.
func (b *Backend) Ready(ctx context.Context) error {
	if b.db == nil {
		return nil
	}
	return database.Ping(b.db.WithContext(ctx))
}

// Close releases the database pool, if any.
func (b *Backend) Close() {
	if b.db == nil {
		return
	}
	if sqlDB, err := b.db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

// Redactor builds the PII redactor for backend logs.
func Redactor(cfg *config.Config) *logger.Redactor {
	salt := cfg.JWTSecret
	if salt == "" {
		salt = cfg.ServiceName
	}
	return logger.NewRedactor(logger.PIILevel(cfg.LogPIILevel), salt)
}

// DatabaseConfig maps service configuration onto the database pool settings.
func DatabaseConfig(cfg *config.Config) database.Config {
	return database.Config{
		DatabaseURL: cfg.DatabaseURL,
		ReadURL:     cfg.DatabaseReadURL,
		MaxIdle:     cfg.DBMaxIdleConns,
		MaxOpen:     cfg.DBMaxOpenConns,
		MaxLifetime: cfg.DBConnLifetime,
		LogLevel:    gormlogger.Warn,
	}
}

// OpenDatabase connects to postgres and applies migrations when AUTO_MIGRATE is set.
func OpenDatabase(ctx context.Context, cfg *config.Config, migrate bool) (*gorm.DB, error) {
	db, err := database.Connect(DatabaseConfig(cfg))
	if err != nil {
		return nil, err
	}
	if migrate {
		if err := database.AutoMigrate(ctx, db); err != nil {
			if sqlDB, closeErr := db.DB(); closeErr == nil {
				_ = sqlDB.Close()
			}
			return nil, err
		}
	}
	return db, nil
}

// Open builds the connector for cfg.BackendMode, wrapped with tracing and metrics.
func Open(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*Backend, error) {
	var out Backend
	switch cfg.BackendMode {
	case config.BackendSupabase:
		conn, err := supabase.New(ctx, supabase.Config{
			URL:      cfg.SupabaseURL,
			AnonKey:  cfg.SupabaseAnonKey,
			JWKSURL:  cfg.SupabaseJWKSURL,
			Redactor: Redactor(cfg),
		}, log)
		if err != nil {
			return nil, err
		}
		out.Connector = conn
	case config.BackendPostgres:
		db, err := OpenDatabase(ctx, cfg, cfg.AutoMigrate)
		if err != nil {
			return nil, err
		}
		out.db = db
		out.Connector = pgstore.New(db, cfg.JWTSecret, cfg.SessionTTL)
	default:
		log.Warn().Msg("memory backend in use; data is lost on restart")
		var opts []memory.Option
		if cfg.SessionTTL > 0 {
			opts = append(opts, memory.WithSessionTTL(cfg.SessionTTL))
		}
		out.Connector = memory.New(opts...)
	}
	out.Connector = instrumented.Wrap(out.Connector, log)
	return &out, nil
}
