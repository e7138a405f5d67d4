package session

import (
	"log/slog"
	"strings"

	"github.com/five82/sift/internal/indexd"
	"github.com/five82/sift/internal/state"
)

// SlotState describes the single search request slot.
type SlotState int

const (
	// SlotIdle means no recognized search request is outstanding.
	SlotIdle SlotState = iota
	// SlotInFlight means one search request is outstanding.
	SlotInFlight
	// SlotQueued means a request is outstanding and a newer query waits behind it.
	SlotQueued
)

// String returns a label for logs.
func (s SlotState) String() string {
	switch s {
	case SlotInFlight:
		return "in_flight"
	case SlotQueued:
		return "in_flight_queued"
	default:
		return "idle"
	}
}

// Fetch describes a search call the host must issue. Seq identifies the call
// so its Outcome can be matched when it comes back.
type Fetch struct {
	Seq   uint64
	Query string
}

// Outcome is the result of a Fetch as delivered back to the scheduler.
// A nil Err means Result is the server's answer.
type Outcome struct {
	Seq    uint64
	Result indexd.SearchResult
	Err    error
}

// Scheduler owns the search request slot for one session. It coalesces rapid
// input into a single trailing request and makes sure only the answer to the
// most recently requested query is applied to the session state.
//
// Scheduler performs no I/O: operations return the Fetch the host should
// issue, and the host reports back through OnResponse. All methods must be
// called from one goroutine.
type Scheduler struct {
	state  *state.Session
	logger *slog.Logger

	slot     SlotState
	inFlight uint64 // seq of the recognized outstanding fetch, 0 when none
	pending  string // query of the recognized outstanding fetch
	queued   string
	current  string
	seq      uint64
}

// Option configures a Scheduler or Dispatcher.
type Option func(*options)

type options struct {
	logger *slog.Logger
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger == nil {
			logger = slog.Default()
		}
		o.logger = logger
	}
}

func buildOptions(opts []Option) options {
	o := options{logger: slog.Default()}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// NewScheduler creates an idle scheduler that commits results into st.
func NewScheduler(st *state.Session, opts ...Option) *Scheduler {
	if st == nil {
		st = state.NewSession()
	}
	o := buildOptions(opts)
	return &Scheduler{
		state:  st,
		logger: o.logger,
	}
}

// Session returns the state the scheduler commits into.
func (s *Scheduler) Session() *state.Session {
	return s.state
}

// Submit handles new search input. Empty input clears the session and
// forgets any outstanding request; otherwise the query is fetched right away
// when idle, or queued behind the outstanding request, replacing any query
// already waiting there.
func (s *Scheduler) Submit(query string) (Fetch, bool) {
	query = strings.TrimSpace(query)
	if query == "" {
		s.state.Clear()
		s.queued = ""
		s.current = ""
		s.inFlight = 0
		s.pending = ""
		s.slot = SlotIdle
		s.logger.Debug("search cleared")
		return Fetch{}, false
	}

	s.current = query
	if s.slot == SlotIdle {
		return s.issue(query), true
	}
	s.queued = query
	s.slot = SlotQueued
	s.logger.Debug("search queued", "query", query, "behind", s.inFlight)
	return Fetch{}, false
}

// OnResponse consumes the outcome of a previously issued Fetch. Outcomes that
// no longer correspond to the recognized request are dropped. When a query is
// queued the outcome is dropped and the queued query is returned as the next
// Fetch; otherwise a successful result is applied and a failed one ignored.
func (s *Scheduler) OnResponse(out Outcome) (Fetch, bool) {
	if s.slot == SlotIdle || out.Seq != s.inFlight {
		s.logger.Debug("discarding superseded search response", "seq", out.Seq, "current", s.inFlight)
		return Fetch{}, false
	}
	answered := s.pending
	s.inFlight = 0
	s.pending = ""

	if s.queued != "" {
		next := s.queued
		s.logger.Debug("discarding response in favour of queued search", "seq", out.Seq, "queued", next)
		return s.issue(next), true
	}

	s.slot = SlotIdle
	if out.Err != nil {
		s.state.SetLoading(false)
		s.logger.Warn("search request failed", "query", answered, "seq", out.Seq, "err", out.Err)
		return Fetch{}, false
	}
	s.state.Apply(answered, out.Result)
	s.logger.Debug("search result applied", "query", answered, "items", len(out.Result.Results))
	return Fetch{}, false
}

// ForceRefetch issues a fetch for query regardless of the slot state,
// dropping any queued query. Any response still outstanding becomes stale.
// An empty query issues nothing.
func (s *Scheduler) ForceRefetch(query string) (Fetch, bool) {
	query = strings.TrimSpace(query)
	if query == "" {
		s.logger.Debug("forced refetch skipped for empty query")
		return Fetch{}, false
	}
	s.current = query
	return s.issue(query), true
}

// Query returns the most recently requested non-empty query, or "" after the
// input was cleared.
func (s *Scheduler) Query() string {
	return s.current
}

// State returns the slot state.
func (s *Scheduler) State() SlotState {
	return s.slot
}

// Queued returns the query waiting behind the outstanding request.
func (s *Scheduler) Queued() (string, bool) {
	return s.queued, s.queued != ""
}

// InFlight returns the sequence number of the recognized outstanding fetch.
func (s *Scheduler) InFlight() (uint64, bool) {
	return s.inFlight, s.inFlight != 0
}

func (s *Scheduler) issue(query string) Fetch {
	s.seq++
	s.inFlight = s.seq
	s.pending = query
	s.queued = ""
	s.slot = SlotInFlight
	s.state.SetLoading(true)
	s.logger.Debug("search issued", "query", query, "seq", s.seq)
	return Fetch{Seq: s.seq, Query: query}
}
