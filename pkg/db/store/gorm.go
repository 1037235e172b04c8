package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/clipdex/clipdex/pkg/db/migrations"
)

// GormStore implements MetadataStore on top of GORM. It supports the pure-Go
// SQLite driver for local and test deployments and Postgres (with pgvector)
// for production.
type GormStore struct {
	db     *gorm.DB
	driver string
}

// Config selects and configures the database backend.
type Config struct {
	// Driver is "sqlite" or "postgres".
	Driver string
	// Path is the SQLite database file (or ":memory:").
	Path string
	// DSN is the Postgres connection string.
	DSN string
	// MaxOpenConns limits the connection pool; SQLite is capped at one writer.
	MaxOpenConns int
	LogLevel     logger.LogLevel
}

// DB returns the underlying GORM database instance.
func (s *GormStore) DB() *gorm.DB {
	return s.db
}

// NewStore opens a metadata store for the configured backend.
func NewStore(cfg Config) (*GormStore, error) {
	if cfg.LogLevel == 0 {
		cfg.LogLevel = logger.Silent
	}

	gormCfg := &gorm.Config{
		Logger: logger.Default.LogMode(cfg.LogLevel),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	}

	var (
		db  *gorm.DB
		err error
	)

	switch cfg.Driver {
	case "", "sqlite":
		if cfg.Path == "" {
			return nil, fmt.Errorf("sqlite path is required")
		}
		db, err = gorm.Open(sqlite.Open(cfg.Path), gormCfg)
	case "postgres":
		if cfg.DSN == "" {
			return nil, fmt.Errorf("postgres dsn is required")
		}
		db, err = gorm.Open(postgres.Open(cfg.DSN), gormCfg)
	default:
		return nil, fmt.Errorf("unsupported metadata driver %q", cfg.Driver)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", cfg.Driver, err)
	}

	return &GormStore{db: db, driver: db.Dialector.Name()}, nil
}

// Connect initializes the connection pool and verifies connectivity.
func (s *GormStore) Connect(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}

	if s.driver == "sqlite" {
		// SQLite only supports 1 writer
		sqlDB.SetMaxOpenConns(1)
		sqlDB.SetMaxIdleConns(1)
	} else {
		sqlDB.SetMaxOpenConns(25)
		sqlDB.SetMaxIdleConns(5)
	}
	sqlDB.SetConnMaxLifetime(time.Hour)

	return sqlDB.PingContext(ctx)
}

// Close closes the database connection.
func (s *GormStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}
	return sqlDB.Close()
}

// Migrate runs all pending schema migrations.
func (s *GormStore) Migrate(ctx context.Context) error {
	return migrations.NewMigrator(s.db).Migrate(ctx)
}

// Health checks database connectivity.
func (s *GormStore) Health(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}
	return sqlDB.PingContext(ctx)
}

// notFound translates the GORM sentinel into the given typed failure.
func notFound(err, typed error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return typed
	}
	return err
}
