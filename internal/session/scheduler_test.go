package session

import (
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/five82/sift/internal/indexd"
	"github.com/five82/sift/internal/state"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestScheduler() (*Scheduler, *state.Session) {
	st := state.NewSession()
	return NewScheduler(st, WithLogger(quietLogger())), st
}

func resultFor(urls ...string) indexd.SearchResult {
	items := make([]indexd.SearchItem, 0, len(urls))
	for _, u := range urls {
		items = append(items, indexd.SearchItem{URL: u, Title: u})
	}
	return indexd.SearchResult{Results: items}
}

func TestScheduler_SubmitFromIdleIssuesFetch(t *testing.T) {
	s, st := newTestScheduler()

	f, ok := s.Submit("  cat  ")
	require.True(t, ok)
	assert.Equal(t, "cat", f.Query)
	assert.Equal(t, SlotInFlight, s.State())
	assert.True(t, st.IsLoading())
	assert.Equal(t, "cat", s.Query())
}

func TestScheduler_CoalescesInputWhileInFlight(t *testing.T) {
	s, st := newTestScheduler()

	first, ok := s.Submit("c")
	require.True(t, ok)

	var fetched []string
	for _, q := range []string{"ca", "cat", "cats", "catsu"} {
		_, issued := s.Submit(q)
		assert.False(t, issued, "no fetch expected for %q while in flight", q)
	}
	queued, ok := s.Queued()
	require.True(t, ok)
	assert.Equal(t, "catsu", queued)
	assert.Equal(t, SlotQueued, s.State())

	next, ok := s.OnResponse(Outcome{Seq: first.Seq, Result: resultFor("http://c")})
	require.True(t, ok)
	fetched = append(fetched, next.Query)
	assert.False(t, st.HasResults(), "response for a superseded query must not be applied")

	_, ok = s.OnResponse(Outcome{Seq: next.Seq, Result: resultFor("http://catsu")})
	assert.False(t, ok)

	assert.Equal(t, []string{"catsu"}, fetched)
	assert.Equal(t, SlotIdle, s.State())
	require.Equal(t, 1, st.ItemCount())
	assert.Equal(t, "catsu", st.Query())
}

func TestScheduler_CatDogScenario(t *testing.T) {
	s, st := newTestScheduler()

	cat, ok := s.Submit("cat")
	require.True(t, ok)
	assert.Equal(t, "cat", cat.Query)
	assert.Equal(t, SlotInFlight, s.State())

	_, ok = s.Submit("dog")
	assert.False(t, ok)
	assert.Equal(t, SlotQueued, s.State())

	dog, ok := s.OnResponse(Outcome{Seq: cat.Seq, Result: resultFor("http://cat")})
	require.True(t, ok)
	assert.Equal(t, "dog", dog.Query)
	assert.Equal(t, SlotInFlight, s.State())
	_, queued := s.Queued()
	assert.False(t, queued)
	assert.False(t, st.HasResults())

	_, ok = s.OnResponse(Outcome{Seq: dog.Seq, Result: resultFor("http://dog1", "http://dog2")})
	assert.False(t, ok)
	assert.Equal(t, SlotIdle, s.State())
	assert.False(t, st.IsLoading())
	require.Equal(t, 2, st.ItemCount())
	item, _ := st.Item(0)
	assert.Equal(t, "http://dog1", item.URL)
	assert.Equal(t, "dog", st.Query())
}

func TestScheduler_QueuedQueryDiscardsFailedResponseToo(t *testing.T) {
	s, st := newTestScheduler()

	first, _ := s.Submit("cat")
	s.Submit("dog")

	next, ok := s.OnResponse(Outcome{Seq: first.Seq, Err: errors.New("boom")})
	require.True(t, ok)
	assert.Equal(t, "dog", next.Query)
	assert.True(t, st.IsLoading())
}

func TestScheduler_FailureKeepsPreviousResult(t *testing.T) {
	s, st := newTestScheduler()

	f, _ := s.Submit("cat")
	s.OnResponse(Outcome{Seq: f.Seq, Result: resultFor("http://cat")})
	require.Equal(t, 1, st.ItemCount())

	f, ok := s.Submit("cats")
	require.True(t, ok)
	_, ok = s.OnResponse(Outcome{Seq: f.Seq, Err: errors.New("decode response: bad json")})
	assert.False(t, ok)

	assert.Equal(t, SlotIdle, s.State())
	assert.False(t, st.IsLoading())
	require.Equal(t, 1, st.ItemCount())
	assert.Equal(t, "cat", st.Query())
}

func TestScheduler_EmptySubmitClearsFromAnyState(t *testing.T) {
	cases := []struct {
		name  string
		setup func(s *Scheduler) []Fetch
	}{
		{"idle", func(s *Scheduler) []Fetch { return nil }},
		{"in flight", func(s *Scheduler) []Fetch {
			f, _ := s.Submit("cat")
			return []Fetch{f}
		}},
		{"queued", func(s *Scheduler) []Fetch {
			f, _ := s.Submit("cat")
			s.Submit("dog")
			return []Fetch{f}
		}},
		{"after result", func(s *Scheduler) []Fetch {
			f, _ := s.Submit("cat")
			s.OnResponse(Outcome{Seq: f.Seq, Result: resultFor("http://cat")})
			return nil
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s, st := newTestScheduler()
			outstanding := tc.setup(s)

			_, ok := s.Submit("   ")
			assert.False(t, ok)
			assert.False(t, st.HasResults())
			assert.False(t, st.IsLoading())
			assert.Equal(t, SlotIdle, s.State())
			_, queued := s.Queued()
			assert.False(t, queued)
			assert.Empty(t, s.Query())

			// Late responses cannot revive the cleared result.
			for _, f := range outstanding {
				_, ok := s.OnResponse(Outcome{Seq: f.Seq, Result: resultFor("http://late")})
				assert.False(t, ok)
			}
			assert.False(t, st.HasResults())
			assert.False(t, st.IsLoading())
		})
	}
}

func TestScheduler_SubmitAfterClearIgnoresOldResponse(t *testing.T) {
	s, st := newTestScheduler()

	old, _ := s.Submit("cat")
	s.Submit("")
	fresh, ok := s.Submit("dog")
	require.True(t, ok)

	_, ok = s.OnResponse(Outcome{Seq: old.Seq, Result: resultFor("http://cat")})
	assert.False(t, ok)
	assert.False(t, st.HasResults())
	assert.Equal(t, SlotInFlight, s.State())

	s.OnResponse(Outcome{Seq: fresh.Seq, Result: resultFor("http://dog")})
	assert.Equal(t, "dog", st.Query())
}

func TestScheduler_ForceRefetchSupersedesEverything(t *testing.T) {
	s, st := newTestScheduler()

	first, _ := s.Submit("cat")
	s.Submit("dog")

	forced, ok := s.ForceRefetch("dog")
	require.True(t, ok)
	assert.Equal(t, "dog", forced.Query)
	assert.Greater(t, forced.Seq, first.Seq)
	_, queued := s.Queued()
	assert.False(t, queued)
	assert.Equal(t, SlotInFlight, s.State())

	// The older in-flight answer arrives late and is ignored.
	_, ok = s.OnResponse(Outcome{Seq: first.Seq, Result: resultFor("http://cat")})
	assert.False(t, ok)
	assert.False(t, st.HasResults())
	assert.Equal(t, SlotInFlight, s.State())

	s.OnResponse(Outcome{Seq: forced.Seq, Result: resultFor("http://dog")})
	assert.Equal(t, SlotIdle, s.State())
	assert.Equal(t, "dog", st.Query())
}

func TestScheduler_ForceRefetchEmptyIssuesNothing(t *testing.T) {
	s, _ := newTestScheduler()
	_, ok := s.ForceRefetch("  ")
	assert.False(t, ok)
	assert.Equal(t, SlotIdle, s.State())
}

func TestScheduler_DuplicateResponseIgnored(t *testing.T) {
	s, st := newTestScheduler()

	f, _ := s.Submit("cat")
	s.OnResponse(Outcome{Seq: f.Seq, Result: resultFor("http://cat")})
	_, ok := s.OnResponse(Outcome{Seq: f.Seq, Result: resultFor("http://x", "http://y")})
	assert.False(t, ok)
	assert.Equal(t, 1, st.ItemCount())
}

func TestSlotStateString(t *testing.T) {
	assert.Equal(t, "idle", SlotIdle.String())
	assert.Equal(t, "in_flight", SlotInFlight.String())
	assert.Equal(t, "in_flight_queued", SlotQueued.String())
}
