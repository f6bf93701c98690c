package database

import (
	"context"
	"fmt"
	"log"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mrlokans/taskmanager/internal/config"
	"github.com/mrlokans/taskmanager/internal/entities"
)

type Database struct {
	DB *gorm.DB
}

// NewDatabase opens the configured store and migrates the schema.
func NewDatabase(cfg config.Database) (*Database, error) {
	return open(cfg, logger.Default.LogMode(logger.Warn))
}

// NewQuietDatabase is NewDatabase with gorm logging disabled, for tests and tooling.
func NewQuietDatabase(cfg config.Database) (*Database, error) {
	return open(cfg, logger.Default.LogMode(logger.Silent))
}

func open(cfg config.Database, gormLogger logger.Interface) (*Database, error) {
	dialector, err := dialectorFor(cfg)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         gormLogger,
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	err = db.AutoMigrate(
		&entities.User{},
		&entities.Task{},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	log.Printf("Database initialized successfully (driver: %s)", driverName(cfg))

	return &Database{DB: db}, nil
}

func driverName(cfg config.Database) config.DatabaseDriver {
	if cfg.Driver == "" {
		return config.DatabaseDriverSQLite
	}
	return cfg.Driver
}

func dialectorFor(cfg config.Database) (gorm.Dialector, error) {
	switch driverName(cfg) {
	case config.DatabaseDriverSQLite:
		if cfg.Path == "" {
			return nil, fmt.Errorf("database path is required for the sqlite driver")
		}
		// Foreign keys are off by default in SQLite
		return sqlite.Open(cfg.Path + "?_foreign_keys=on"), nil
	case config.DatabaseDriverPostgres:
		if cfg.DSN == "" {
			return nil, fmt.Errorf("database DSN is required for the postgres driver")
		}
		return postgres.Open(cfg.DSN), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

// Ping checks connectivity of the underlying connection pool.
func (d *Database) Ping(ctx context.Context) error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (d *Database) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
