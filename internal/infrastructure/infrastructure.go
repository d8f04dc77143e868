// Package infrastructure assembles the shared systems every module depends on:
// lifecycle coordination, logging, the database pool, blob storage, metrics,
// session tokens and the image store.
package infrastructure

import (
	"fmt"
	"log/slog"

	"github.com/JaimeStill/philatopia/internal/auth"
	"github.com/JaimeStill/philatopia/internal/config"
	"github.com/JaimeStill/philatopia/internal/images"
	"github.com/JaimeStill/philatopia/internal/migrations"
	"github.com/JaimeStill/philatopia/pkg/database"
	"github.com/JaimeStill/philatopia/pkg/lifecycle"
	"github.com/JaimeStill/philatopia/pkg/logging"
	"github.com/JaimeStill/philatopia/pkg/metrics"
	"github.com/JaimeStill/philatopia/pkg/storage"
)

// Infrastructure holds the core systems required by all modules.
type Infrastructure struct {
	Lifecycle *lifecycle.Coordinator
	Logger    *slog.Logger
	Database  database.System
	Storage   storage.System
	Metrics   *metrics.Metrics
	Tokens    *auth.Tokens
	Images    images.System

	cfg *config.Config
}

// New creates an Infrastructure from a finalized configuration.
// Nothing touches the network until Start.
func New(cfg *config.Config) (*Infrastructure, error) {
	lc := lifecycle.New()
	logger := logging.New(&cfg.Logging)

	db, err := database.New(&cfg.Database, logger)
	if err != nil {
		return nil, fmt.Errorf("database init failed: %w", err)
	}

	store, err := storage.New(&cfg.Storage, logger)
	if err != nil {
		return nil, fmt.Errorf("storage init failed: %w", err)
	}

	m := metrics.New()

	imgs := images.New(
		db.Connection(),
		store,
		cfg.Storage.Naming,
		cfg.Storage.PublicPrefix,
		logger,
		m,
	)

	return &Infrastructure{
		Lifecycle: lc,
		Logger:    logger,
		Database:  db,
		Storage:   store,
		Metrics:   m,
		Tokens:    auth.NewTokens(&cfg.Auth),
		Images:    imgs,
		cfg:       cfg,
	}, nil
}

// Start connects the database and storage, then applies pending migrations
// when auto_migrate is set.
func (i *Infrastructure) Start() error {
	if err := i.Database.Start(i.Lifecycle); err != nil {
		return fmt.Errorf("database start failed: %w", err)
	}
	if err := i.Storage.Start(i.Lifecycle); err != nil {
		return fmt.Errorf("storage start failed: %w", err)
	}
	if i.cfg.Database.AutoMigrate {
		if err := database.Migrate(&i.cfg.Database, migrations.FS, migrations.Dir, i.Logger); err != nil {
			return fmt.Errorf("migrate failed: %w", err)
		}
	}
	return nil
}
