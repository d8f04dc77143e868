package database

import (
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"

	"github.com/golang-migrate/migrate/v4"
	pgxmigrate "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

// Direction selects which way a migration run moves the schema.
type Direction string

const (
	Up   Direction = "up"
	Down Direction = "down"
)

// Migrator applies the SQL migrations in an fs.FS to the configured database.
// It opens a dedicated connection so closing the migrator never touches the
// service pool.
type Migrator struct {
	m      *migrate.Migrate
	logger *slog.Logger
}

// NewMigrator prepares a migrator over the *.sql files in dir of fsys.
func NewMigrator(cfg *Config, fsys fs.FS, dir string, logger *slog.Logger) (*Migrator, error) {
	src, err := iofs.New(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("migration source: %w", err)
	}

	conn, err := sql.Open("pgx", cfg.Dsn())
	if err != nil {
		src.Close()
		return nil, fmt.Errorf("open database: %w", err)
	}

	driver, err := pgxmigrate.WithInstance(conn, &pgxmigrate.Config{})
	if err != nil {
		src.Close()
		conn.Close()
		return nil, fmt.Errorf("migration driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, "pgx5", driver)
	if err != nil {
		src.Close()
		driver.Close()
		return nil, fmt.Errorf("migration instance: %w", err)
	}

	return &Migrator{
		m:      m,
		logger: logger.With("system", "migrations"),
	}, nil
}

// Run moves the schema fully in the given direction. An already current
// schema is not an error.
func (g *Migrator) Run(dir Direction) error {
	var err error
	switch dir {
	case Up:
		err = g.m.Up()
	case Down:
		err = g.m.Down()
	default:
		return fmt.Errorf("unknown migration direction: %s", dir)
	}

	if errors.Is(err, migrate.ErrNoChange) {
		g.logger.Info("schema up to date", "direction", dir)
		return nil
	}
	if err != nil {
		return fmt.Errorf("migrate %s: %w", dir, err)
	}

	version, _, _ := g.Version()
	g.logger.Info("migrations applied", "direction", dir, "version", version)
	return nil
}

// Version reports the applied schema version and whether it is dirty.
// A database without migrations reports version 0.
func (g *Migrator) Version() (uint, bool, error) {
	v, dirty, err := g.m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, nil
	}
	return v, dirty, err
}

// Close releases the migration source and its dedicated connection.
func (g *Migrator) Close() error {
	srcErr, dbErr := g.m.Close()
	return errors.Join(srcErr, dbErr)
}

// Migrate runs every pending up migration and closes the migrator.
func Migrate(cfg *Config, fsys fs.FS, dir string, logger *slog.Logger) error {
	g, err := NewMigrator(cfg, fsys, dir, logger)
	if err != nil {
		return err
	}
	defer g.Close()
	return g.Run(Up)
}
