package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	iofs "github.com/golang-migrate/migrate/v4/source/iofs"
	"gorm.io/gorm"

	"github.com/janhq/jan-crm/internal/infrastructure/logger"
	"github.com/janhq/jan-crm/migrations"
)

// Direction selects which way migrations run.
type Direction int

const (
	Up Direction = iota
	Down
)

const (
	crmSchema       = "crm"
	migrationsTable = "schema_migrations"
)

// AutoMigrate applies all pending SQL migrations bundled with the service.
func AutoMigrate(ctx context.Context, gormDB *gorm.DB) error {
	return Run(ctx, gormDB, Up)
}

// migrator pairs a golang-migrate instance with the resources it holds.
type migrator struct {
	*migrate.Migrate
}

// openMigrator binds the embedded migrations to a dedicated connection in the
// crm schema. The caller must close the returned migrator.
func openMigrator(ctx context.Context, gormDB *gorm.DB) (*migrator, error) {
	if err := gormDB.WithContext(ctx).Exec("CREATE SCHEMA IF NOT EXISTS " + crmSchema).Error; err != nil {
		log := logger.GetLogger()
		log.Warn().Err(err).Msg("create crm schema")
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		return nil, fmt.Errorf("retrieve sql db: %w", err)
	}
	conn, err := sqlDB.Conn(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire dedicated connection: %w", err)
	}
	driver, err := postgres.WithConnection(ctx, conn, &postgres.Config{
		MigrationsTable: migrationsTable,
		SchemaName:      crmSchema,
	})
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("initialize postgres driver: %w", err)
	}
	source, err := iofs.New(migrations.FS, ".")
	if err != nil {
		_ = driver.Close()
		return nil, fmt.Errorf("load embedded migrations: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", source, "postgres", driver)
	if err != nil {
		_ = source.Close()
		_ = driver.Close()
		return nil, fmt.Errorf("create migrator: %w", err)
	}
	return &migrator{Migrate: m}, nil
}

func (m *migrator) close() error {
	sourceErr, dbErr := m.Close()
	return errors.Join(sourceErr, dbErr)
}

// Version reports the applied schema version. A schema with nothing applied
// reports version 0.
func Version(ctx context.Context, gormDB *gorm.DB) (version uint, dirty bool, err error) {
	m, err := openMigrator(ctx, gormDB)
	if err != nil {
		return 0, false, err
	}
	defer func() { err = errors.Join(err, m.close()) }()

	version, dirty, err = m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, nil
	}
	return version, dirty, err
}

// Run moves the crm schema fully up or fully down. A dirty schema left by an
// interrupted run is forced back to its recorded version first.
func Run(ctx context.Context, gormDB *gorm.DB, direction Direction) (err error) {
	log := logger.GetLogger()

	m, err := openMigrator(ctx, gormDB)
	if err != nil {
		return err
	}
	defer func() { err = errors.Join(err, m.close()) }()

	before, dirty, verr := m.Version()
	if verr == nil && dirty {
		log.Warn().Uint("version", before).Msg("crm schema is dirty, forcing recorded version")
		if err := m.Force(int(before)); err != nil {
			return fmt.Errorf("force version %d: %w", before, err)
		}
	}

	step := m.Up
	if direction == Down {
		step = m.Down
	}
	if err := step(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			log.Debug().Uint("version", before).Msg("crm schema unchanged")
			return nil
		}
		return fmt.Errorf("apply migrations: %w", err)
	}

	after, _, verr := m.Version()
	if errors.Is(verr, migrate.ErrNilVersion) {
		after = 0
	}
	log.Info().Uint("from", before).Uint("to", after).Msg("crm schema migrated")
	return nil
}
