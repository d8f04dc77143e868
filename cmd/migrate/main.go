// Command migrate applies or rolls back the embedded schema migrations.
//
//	migrate up       apply every pending migration
//	migrate down     roll back every migration
//	migrate version  print the applied version
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/JaimeStill/philatopia/internal/config"
	"github.com/JaimeStill/philatopia/internal/migrations"
	"github.com/JaimeStill/philatopia/pkg/database"
	"github.com/JaimeStill/philatopia/pkg/logging"
)

func main() {
	flag.Usage = func() {
		fmt.Fprintln(os.Stderr, "usage: migrate <up|down|version>")
	}
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fail("load configuration", err)
	}
	if err := cfg.Finalize(); err != nil {
		fail("invalid configuration", err)
	}

	logger := logging.New(&cfg.Logging)

	g, err := database.NewMigrator(&cfg.Database, migrations.FS, migrations.Dir, logger)
	if err != nil {
		fail("open migrator", err)
	}
	defer g.Close()

	switch cmd := flag.Arg(0); cmd {
	case "up":
		err = g.Run(database.Up)
	case "down":
		err = g.Run(database.Down)
	case "version":
		var (
			v     uint
			dirty bool
		)
		v, dirty, err = g.Version()
		if err == nil {
			fmt.Printf("version %d (dirty: %t)\n", v, dirty)
		}
	default:
		flag.Usage()
		os.Exit(2)
	}

	if err != nil {
		fail("migrate", err)
	}
}

func fail(msg string, err error) {
	fmt.Fprintf(os.Stderr, "%s: %v\n", msg, err)
	os.Exit(1)
}
