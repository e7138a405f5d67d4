package state

import (
	"time"

	"github.com/five82/sift/internal/indexd"
)

// Session holds the committed search result for one mounted search surface
// and the flags derived from it. It has no network or scheduling knowledge
// and is only touched from the UI update loop, so it carries no lock.
type Session struct {
	result    indexd.SearchResult
	query     string
	loading   bool
	updatedAt time.Time
}

// NewSession returns an empty, idle session.
func NewSession() *Session {
	return &Session{}
}

// Apply replaces the committed result wholesale with result, recorded as the
// answer to query. It also ends the loading state.
func (s *Session) Apply(query string, result indexd.SearchResult) {
	s.result = result.Clone()
	s.query = query
	s.loading = false
	s.updatedAt = time.Now()
}

// Clear drops the committed result and ends the loading state.
func (s *Session) Clear() {
	s.result = indexd.SearchResult{}
	s.query = ""
	s.loading = false
	s.updatedAt = time.Now()
}

// SetLoading marks whether a recognized search request is outstanding.
func (s *Session) SetLoading(loading bool) {
	s.loading = loading
}

// IsLoading reports whether a search request is outstanding.
func (s *Session) IsLoading() bool {
	return s.loading
}

// HasResults reports whether the committed result contains any item.
func (s *Session) HasResults() bool {
	return len(s.result.Results) > 0
}

// ItemCount returns the number of items in the committed result.
func (s *Session) ItemCount() int {
	return len(s.result.Results)
}

// Result returns a copy of the committed result.
func (s *Session) Result() indexd.SearchResult {
	return s.result.Clone()
}

// Item returns the item at idx, if any.
func (s *Session) Item(idx int) (indexd.SearchItem, bool) {
	if idx < 0 || idx >= len(s.result.Results) {
		return indexd.SearchItem{}, false
	}
	return s.result.Results[idx], true
}

// Query returns the query the committed result answers.
func (s *Session) Query() string {
	return s.query
}

// UpdatedAt returns when the result was last applied or cleared.
func (s *Session) UpdatedAt() time.Time {
	return s.updatedAt
}
