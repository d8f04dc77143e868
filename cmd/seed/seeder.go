// Package main provides the seed command for populating the database with
// demo collectors and their stamps. Seeders run in registration order,
// individually or together within a single transaction.
package main

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"os"
)

//go:embed seeds/*.json
var seedFiles embed.FS

// Seeder defines the interface for database seeders.
type Seeder interface {
	Name() string
	Description() string

	// Seed executes the seeding logic within the provided transaction.
	Seed(ctx context.Context, tx *sql.Tx) error

	// SetFile overrides the embedded seed file.
	SetFile(path string)
}

// seeders is ordered: stamps reference the users seeded before them.
var seeders []Seeder

func registerSeeder(s Seeder) {
	seeders = append(seeders, s)
}

func getSeeder(name string) (Seeder, bool) {
	for _, s := range seeders {
		if s.Name() == name {
			return s, true
		}
	}
	return nil, false
}

// runSeeder executes a single seeder by name within a transaction.
func runSeeder(ctx context.Context, db *sql.DB, name string) error {
	seeder, ok := getSeeder(name)
	if !ok {
		return fmt.Errorf("seeder not found: %s", name)
	}
	return inTx(ctx, db, seeder)
}

// runAllSeeders executes all registered seeders within a single transaction.
// If any seeder fails, the entire transaction is rolled back.
func runAllSeeders(ctx context.Context, db *sql.DB) error {
	return inTx(ctx, db, seeders...)
}

func inTx(ctx context.Context, db *sql.DB, run ...Seeder) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	for _, seeder := range run {
		if err := seeder.Seed(ctx, tx); err != nil {
			tx.Rollback()
			return fmt.Errorf("seed %s: %w", seeder.Name(), err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	return nil
}

// readSeed returns the external file when set, else the embedded default.
func readSeed(file, embedded string) ([]byte, error) {
	if file != "" {
		content, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("read seed file: %w", err)
		}
		return content, nil
	}

	content, err := seedFiles.ReadFile("seeds/" + embedded)
	if err != nil {
		return nil, fmt.Errorf("read embedded seed file: %w", err)
	}
	return content, nil
}
