package app

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/panjf2000/ants/v2"

	"github.com/five82/sift/internal/config"
	"github.com/five82/sift/internal/indexd"
	"github.com/five82/sift/internal/prefs"
	"github.com/five82/sift/internal/state"
	"github.com/five82/sift/internal/ui"
)

// Options configure the sift application. Zero values fall back to the
// config file and its defaults.
type Options struct {
	ConfigPath string
	PrefsPath  string // empty uses ~/.config/sift/prefs.toml
	Host       string
	Port       int
	Query      string
	OpenID     string
	Logger     *slog.Logger
}

// Resolve loads the config file and applies option overrides.
func Resolve(opts Options) (config.Config, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return config.Config{}, fmt.Errorf("load config: %w", err)
	}
	if host := strings.TrimSpace(opts.Host); host != "" {
		cfg.Host = host
	}
	if opts.Port != 0 {
		if opts.Port < 0 || opts.Port > 65535 {
			return config.Config{}, fmt.Errorf("port %d out of range", opts.Port)
		}
		cfg.Port = opts.Port
	}
	return cfg, nil
}

// Run boots the sift TUI until the user quits or the context is cancelled.
func Run(ctx context.Context, cfg config.Config, opts Options) error {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	userPrefs := prefs.Load(opts.PrefsPath)

	client, err := indexd.NewClient(cfg.Address(), cfg.RequestTimeout)
	if err != nil {
		return fmt.Errorf("init index client: %w", err)
	}

	pool, err := ants.NewPool(cfg.MutationWorkers)
	if err != nil {
		return fmt.Errorf("init mutation pool: %w", err)
	}
	defer pool.Release()

	store := &state.Store{}
	StartPoller(ctx, store, client, cfg.PollInterval, logger)

	logger.Info("sift starting",
		"server", client.BaseURL(),
		"workers", cfg.MutationWorkers,
		"poll_interval", cfg.PollInterval.String(),
	)

	return ui.Run(ui.Options{
		Context:      ctx,
		Client:       client,
		Store:        store,
		Pool:         pool,
		Logger:       logger,
		ThemeName:    userPrefs.Theme,
		Compact:      userPrefs.Compact,
		PrefsPath:    opts.PrefsPath,
		LogPath:      cfg.LogPath(),
		InitialQuery: opts.Query,
		OpenID:       indexd.ItemID(strings.TrimSpace(opts.OpenID)),
	})
}
