// Command server runs the Philatopia API and collection pages.
package main

import (
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/JaimeStill/philatopia/internal/config"
)

func main() {
	specPath := flag.String("openapi", "", "write the OpenAPI document to `path` and exit")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fatal("failed to load configuration", err)
	}
	if err := cfg.Finalize(); err != nil {
		fatal("invalid configuration", err)
	}

	srv, err := NewServer(cfg)
	if err != nil {
		fatal("failed to create server", err)
	}

	if *specPath != "" {
		if err := srv.WriteSpec(*specPath); err != nil {
			fatal("failed to write openapi document", err)
		}
		return
	}

	if err := srv.Start(); err != nil {
		fatal("failed to start server", err)
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	if err := srv.Shutdown(cfg.ShutdownTimeoutDuration()); err != nil {
		fatal("shutdown failed", err)
	}
}

func fatal(msg string, err error) {
	slog.Error(msg, "error", err)
	os.Exit(1)
}
