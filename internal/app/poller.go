package app

import (
	"context"
	"log/slog"
	"time"

	"github.com/five82/sift/internal/indexd"
	"github.com/five82/sift/internal/state"
)

const defaultPollInterval = 5 * time.Second

// SettingsFetcher is the part of the index client the health poller needs.
type SettingsFetcher interface {
	FetchSettings(ctx context.Context) (indexd.Settings, error)
}

// StartPoller launches a background goroutine that refreshes the health
// store at a fixed cadence. It returns immediately.
func StartPoller(ctx context.Context, store *state.Store, client SettingsFetcher, interval time.Duration, logger *slog.Logger) {
	if interval <= 0 {
		interval = defaultPollInterval
	}
	if logger == nil {
		logger = slog.Default()
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			refresh(ctx, store, client, logger)
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
		}
	}()
}

func refresh(ctx context.Context, store *state.Store, client SettingsFetcher, logger *slog.Logger) {
	settings, err := client.FetchSettings(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		store.Update(nil, err)
		logger.Warn("health poll failed", "err", err)
		return
	}
	store.Update(&settings, nil)
}
