package state

import (
	"fmt"
	"sync"
	"time"

	"github.com/five82/sift/internal/indexd"
)

// Snapshot represents the latest server health data available to the UI.
type Snapshot struct {
	Settings            indexd.Settings
	HasSettings         bool
	LastUpdated         time.Time
	LastError           error
	ConsecutiveFailures int // Number of consecutive poll failures
}

// IsOffline returns true when the server has been unreachable for multiple polls.
func (s Snapshot) IsOffline() bool {
	return s.ConsecutiveFailures >= 2
}

// Store coordinates concurrent updates to the snapshot. The health poller
// writes from its own goroutine while the UI reads on its tick.
type Store struct {
	mu       sync.RWMutex
	snapshot Snapshot
}

// Update replaces the stored snapshot. When err is non-nil the previous
// settings are kept but the error is recorded for visibility.
func (s *Store) Update(settings *indexd.Settings, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil {
		s.snapshot.LastError = err
		s.snapshot.LastUpdated = time.Now()
		s.snapshot.ConsecutiveFailures++
		return
	}

	if settings != nil {
		s.snapshot.Settings = cloneSettings(*settings)
		s.snapshot.HasSettings = true
	} else {
		s.snapshot.Settings = indexd.Settings{}
		s.snapshot.HasSettings = false
	}
	s.snapshot.LastError = nil
	s.snapshot.LastUpdated = time.Now()
	s.snapshot.ConsecutiveFailures = 0
}

// Snapshot returns a copy of the current snapshot.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := s.snapshot
	snap.Settings = cloneSettings(s.snapshot.Settings)
	if s.snapshot.LastError != nil {
		snap.LastError = fmt.Errorf("%w", s.snapshot.LastError)
	}
	return snap
}

func cloneSettings(in indexd.Settings) indexd.Settings {
	out := in
	if in.IgnoreDomains != nil {
		out.IgnoreDomains = append([]string(nil), in.IgnoreDomains...)
	}
	if in.IgnoreStrings != nil {
		out.IgnoreStrings = append([]string(nil), in.IgnoreStrings...)
	}
	return out
}
