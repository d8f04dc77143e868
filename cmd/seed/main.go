package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log"
	"os"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/JaimeStill/philatopia/internal/config"
)

const EnvDatabaseDSN = "DATABASE_DSN"

func main() {
	var (
		dsn  = flag.String("dsn", "", "Database connection string (default: config.toml)")
		all  = flag.Bool("all", false, "Run all seeders")
		only = flag.String("seeder", "", "Run a single seeder by name")
		file = flag.String("file", "", "External seed file for -seeder (overrides embedded)")
		list = flag.Bool("list", false, "List available seeders")
	)
	flag.Parse()

	if *list {
		fmt.Println("Available seeders:")
		for _, s := range seeders {
			fmt.Printf("  - %s: %s\n", s.Name(), s.Description())
		}
		return
	}

	if *dsn == "" {
		*dsn = os.Getenv(EnvDatabaseDSN)
	}
	if *dsn == "" {
		resolved, err := configDsn()
		if err != nil {
			log.Fatalf("database connection string required: use -dsn, %s or config.toml: %v", EnvDatabaseDSN, err)
		}
		*dsn = resolved
	}

	db, err := sql.Open("pgx", *dsn)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	ctx := context.Background()

	switch {
	case *all:
		if err := runAllSeeders(ctx, db); err != nil {
			log.Fatalf("seeding failed: %v", err)
		}
		fmt.Println("all seeders completed successfully")

	case *only != "":
		if *file != "" {
			if seeder, ok := getSeeder(*only); ok {
				seeder.SetFile(*file)
			}
		}
		if err := runSeeder(ctx, db, *only); err != nil {
			log.Fatalf("seeding failed: %v", err)
		}
		fmt.Printf("%s seeded successfully\n", *only)

	default:
		fmt.Println("usage: seed [-dsn <connection-string>] [-all|-seeder <name>] [-file <path>] [-list]")
		flag.PrintDefaults()
	}
}

func configDsn() (string, error) {
	cfg, err := config.Load()
	if err != nil {
		return "", err
	}
	if err := cfg.Finalize(); err != nil {
		return "", err
	}
	return cfg.Database.Dsn(), nil
}
