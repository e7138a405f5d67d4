package app

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/five82/sift/internal/indexd"
	"github.com/five82/sift/internal/state"
)

type fakeFetcher struct {
	mu    sync.Mutex
	calls int
	errs  []error
}

func (f *fakeFetcher) FetchSettings(context.Context) (indexd.Settings, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	idx := f.calls
	f.calls++
	if idx < len(f.errs) && f.errs[idx] != nil {
		return indexd.Settings{}, f.errs[idx]
	}
	return indexd.Settings{Port: 7172, IndexerEnabled: true}, nil
}

func (f *fakeFetcher) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRefresh_TracksFailuresAndRecovery(t *testing.T) {
	boom := errors.New("connection refused")
	fetcher := &fakeFetcher{errs: []error{boom, boom, nil}}
	store := &state.Store{}
	ctx := context.Background()

	refresh(ctx, store, fetcher, quietLogger())
	snap := store.Snapshot()
	if snap.ConsecutiveFailures != 1 || snap.IsOffline() {
		t.Fatalf("after one failure: failures=%d offline=%v", snap.ConsecutiveFailures, snap.IsOffline())
	}
	if !errors.Is(snap.LastError, boom) {
		t.Fatalf("LastError = %v, want %v", snap.LastError, boom)
	}

	refresh(ctx, store, fetcher, quietLogger())
	if !store.Snapshot().IsOffline() {
		t.Fatalf("expected offline after two failures")
	}

	refresh(ctx, store, fetcher, quietLogger())
	snap = store.Snapshot()
	if snap.IsOffline() || snap.LastError != nil {
		t.Fatalf("expected recovery, got failures=%d err=%v", snap.ConsecutiveFailures, snap.LastError)
	}
	if !snap.HasSettings || snap.Settings.Port != 7172 || !snap.Settings.IndexerEnabled {
		t.Fatalf("settings not stored: %#v", snap.Settings)
	}
}

func TestRefresh_CancelledContextLeavesStoreAlone(t *testing.T) {
	fetcher := &fakeFetcher{errs: []error{context.Canceled}}
	store := &state.Store{}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	refresh(ctx, store, fetcher, quietLogger())
	if got := store.Snapshot().ConsecutiveFailures; got != 0 {
		t.Fatalf("ConsecutiveFailures = %d, want 0", got)
	}
}

func TestStartPoller_PollsUntilCancelled(t *testing.T) {
	fetcher := &fakeFetcher{}
	store := &state.Store{}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	StartPoller(ctx, store, fetcher, 10*time.Millisecond, quietLogger())

	deadline := time.Now().Add(2 * time.Second)
	for fetcher.Calls() < 3 {
		if time.Now().After(deadline) {
			t.Fatalf("poller made %d calls, want at least 3", fetcher.Calls())
		}
		time.Sleep(5 * time.Millisecond)
	}
	if !store.Snapshot().HasSettings {
		t.Fatalf("store was never populated")
	}

	cancel()
	time.Sleep(30 * time.Millisecond)
	settled := fetcher.Calls()
	time.Sleep(50 * time.Millisecond)
	if fetcher.Calls() != settled {
		t.Fatalf("poller kept running after cancel: %d -> %d", settled, fetcher.Calls())
	}
}
