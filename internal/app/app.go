package app

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/tamsinv/vitrine/internal/config"
	"github.com/tamsinv/vitrine/internal/logging"
	"github.com/tamsinv/vitrine/internal/notify"
	"github.com/tamsinv/vitrine/internal/prefs"
	"github.com/tamsinv/vitrine/internal/shop"
	"github.com/tamsinv/vitrine/internal/storage"
	"github.com/tamsinv/vitrine/internal/storefront"
	"github.com/tamsinv/vitrine/internal/ui"
)

// Options configure the vitrine application.
type Options struct {
	ConfigPath string
	PrefsPath  string // empty uses default ~/.config/vitrine/prefs.toml
	ServerURL  string // overrides the configured storefront URL when set
}

// Run boots the vitrine TUI until the context is cancelled.
func Run(ctx context.Context, opts Options) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if opts.ServerURL != "" {
		cfg.ServerURL = opts.ServerURL
	}

	userPrefs, _ := prefs.Load(opts.PrefsPath)

	logger, err := logging.New(cfg.LogPath())
	if err != nil {
		// The TUI owns the terminal, so a broken log file is not fatal.
		logger = zap.NewNop()
	}
	defer func() { _ = logger.Sync() }()

	client, err := storefront.NewClient(cfg.ServerURL)
	if err != nil {
		return fmt.Errorf("init storefront client: %w", err)
	}

	local, err := storage.NewFileStore(cfg.DataDir)
	if err != nil {
		return fmt.Errorf("init local storage: %w", err)
	}

	store := shop.New(shop.Options{
		Backend: client,
		Local:   local,
		Notices: notify.NewSink(),
		Logger:  logger,
	})

	logger.Info("starting vitrine",
		zap.String("server", cfg.ServerURL),
		zap.String("data_dir", cfg.DataDir))

	uiOpts := ui.Options{
		Context:   ctx,
		Client:    client,
		Store:     store,
		Config:    &cfg,
		ThemeName: userPrefs.Theme,
		PrefsPath: opts.PrefsPath,
		Prefs:     userPrefs,
	}
	return ui.Run(uiOpts)
}
