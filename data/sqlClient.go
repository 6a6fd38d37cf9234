package data

import (
	"embed"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/KotFed0t/portfolio_tracker/config"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/jackc/pgx/v5/stdlib" // pgx driver
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3" // sqlite3 driver
)

const (
	DriverSQLite = "sqlite3"
	DriverPgx    = "pgx"

	connTimeout = time.Second
)

//go:embed migrations
var migrations embed.FS

// NewSQLClient opens the holdings store, verifies the connection and brings the
// schema up to date. The sqlite3 file is created when it does not exist yet.
func NewSQLClient(cfg *config.Config) (*sqlx.DB, error) {
	driverName := cfg.Store.Driver
	if driverName != DriverSQLite && driverName != DriverPgx {
		return nil, fmt.Errorf("unsupported store driver %q", driverName)
	}

	connAttempts := max(cfg.Store.ConnAttempts, 1)
	var db *sqlx.DB
	var err error

	for connAttempts > 0 {
		db, err = sqlx.Connect(driverName, cfg.Store.DSN)
		if err == nil {
			break
		}

		connAttempts--
		slog.Info("store is trying to connect", slog.String("driver", driverName), slog.Int("attempts left", connAttempts))

		if connAttempts > 0 {
			time.Sleep(connTimeout)
		}
	}

	if err != nil {
		slog.Error("store connect failed", slog.String("driver", driverName), slog.String("err", err.Error()))
		return nil, fmt.Errorf("connect %s store: %w", driverName, err)
	}

	// sqlite3 allows a single writer; pgx keeps one connection for the migration driver.
	switch {
	case driverName == DriverSQLite:
		db.SetMaxOpenConns(1)
	case cfg.Store.MaxOpenConns > 0:
		db.SetMaxOpenConns(max(cfg.Store.MaxOpenConns, 2))
	}
	db.SetConnMaxLifetime(time.Duration(cfg.Store.ConnMaxLifetime) * time.Second)
	slog.Info("store connected", slog.String("driver", driverName))

	if err = migrateSchema(db, driverName); err != nil {
		_ = db.Close()
		return nil, err
	}
	slog.Info("store migrated successfully", slog.String("driver", driverName))

	return db, nil
}

func migrateSchema(db *sqlx.DB, driverName string) error {
	var (
		driver database.Driver
		err    error
	)

	switch driverName {
	case DriverSQLite:
		driver, err = sqlite3.WithInstance(db.DB, &sqlite3.Config{})
	case DriverPgx:
		driver, err = postgres.WithInstance(db.DB, &postgres.Config{})
	}
	if err != nil {
		slog.Error("store migration failed on WithInstance", slog.String("driver", driverName), slog.String("err", err.Error()))
		return fmt.Errorf("migration driver: %w", err)
	}

	source, err := iofs.New(migrations, "migrations/"+driverName)
	if err != nil {
		slog.Error("store migration failed on iofs.New", slog.String("driver", driverName), slog.String("err", err.Error()))
		return fmt.Errorf("migration source: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, driverName, driver)
	if err != nil {
		slog.Error("store migration failed on migrate.NewWithInstance", slog.String("driver", driverName), slog.String("err", err.Error()))
		return fmt.Errorf("migration init: %w", err)
	}

	err = m.Up()
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		slog.Error("store migration failed on m.Up()", slog.String("driver", driverName), slog.String("err", err.Error()))
		return fmt.Errorf("migration up: %w", err)
	}

	return nil
}
