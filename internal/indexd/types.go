package indexd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

const indexTimestampLayout = "2006-01-02 15:04:05"

// ItemID identifies an indexed document. The server has emitted both numeric
// and string identifiers, so both decode into the same form.
type ItemID string

// UnmarshalJSON accepts a JSON string, number or null.
func (id *ItemID) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*id = ""
		return nil
	}
	if trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return fmt.Errorf("decode item id: %w", err)
		}
		*id = ItemID(strings.TrimSpace(s))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(trimmed, &n); err != nil {
		return fmt.Errorf("decode item id: %w", err)
	}
	*id = ItemID(n.String())
	return nil
}

// String returns the identifier as text.
func (id ItemID) String() string {
	return string(id)
}

// SearchItem mirrors one entry of the /search results array.
type SearchItem struct {
	ID             ItemID   `json:"id"`
	Title          string   `json:"title"`
	URL            string   `json:"url"`
	Summary        string   `json:"summary"`
	Description    string   `json:"description"`
	AddedAt        string   `json:"added_at"`
	LastAccessedAt string   `json:"last_accessed_at"`
	Keywords       []string `json:"keywords"`
	Tags           []string `json:"tags"`
	Bookmarked     int64    `json:"bookmarked"`
	Pinned         int64    `json:"pinned"`
	Duplicate      int64    `json:"duplicate"`
	AccessedCount  int64    `json:"accessed_count"`
}

// IsPinned reports whether the pinned flag is set.
func (i SearchItem) IsPinned() bool { return i.Pinned == 1 }

// IsBookmarked reports whether the bookmarked flag is set.
func (i SearchItem) IsBookmarked() bool { return i.Bookmarked == 1 }

// IsDuplicate reports whether the server marked the item as a duplicate.
func (i SearchItem) IsDuplicate() bool { return i.Duplicate == 1 }

// ParsedAddedAt returns the parsed AddedAt timestamp.
func (i SearchItem) ParsedAddedAt() time.Time {
	return parseTime(i.AddedAt)
}

// ParsedLastAccessedAt returns the parsed LastAccessedAt timestamp.
func (i SearchItem) ParsedLastAccessedAt() time.Time {
	return parseTime(i.LastAccessedAt)
}

// KeywordChips returns keywords suitable for display: trimmed, without a
// leading path slash, empties dropped.
func (i SearchItem) KeywordChips() []string {
	if len(i.Keywords) == 0 {
		return nil
	}
	out := make([]string, 0, len(i.Keywords))
	for _, kw := range i.Keywords {
		kw = strings.TrimPrefix(strings.TrimSpace(kw), "/")
		if kw == "" {
			continue
		}
		out = append(out, kw)
	}
	return out
}

// ResultMeta carries optional result-count metadata.
type ResultMeta struct {
	DocumentCount int64 `json:"document_count"`
}

// SearchResult mirrors the /search response.
type SearchResult struct {
	Results []SearchItem `json:"results"`
	Meta    *ResultMeta  `json:"meta,omitempty"`
}

// DocumentCount returns the server-reported count, or -1 when absent.
func (r SearchResult) DocumentCount() int64 {
	if r.Meta == nil {
		return -1
	}
	return r.Meta.DocumentCount
}

// Clone returns a deep copy so callers can hold results independently.
func (r SearchResult) Clone() SearchResult {
	out := SearchResult{}
	if r.Meta != nil {
		meta := *r.Meta
		out.Meta = &meta
	}
	if len(r.Results) == 0 {
		return out
	}
	out.Results = make([]SearchItem, len(r.Results))
	for idx, item := range r.Results {
		item.Keywords = cloneStrings(item.Keywords)
		item.Tags = cloneStrings(item.Tags)
		out.Results[idx] = item
	}
	return out
}

// Settings mirrors the /settings payload.
type Settings struct {
	Port           int      `json:"port"`
	IgnoreDomains  []string `json:"ignore_domains"`
	IgnoreStrings  []string `json:"ignore_strings"`
	IndexerEnabled bool     `json:"indexer_enabled"`
}

// Attribute fields accepted by /attributes.
const (
	FieldPinned     = "pinned"
	FieldHide       = "hide"
	FieldHideDomain = "hide_domain"
	FieldBookmarked = "bookmarked"
	FieldTag        = "tag"
)

// TagAction selects the /attributes_array operation.
type TagAction string

const (
	TagAdd    TagAction = "add"
	TagRemove TagAction = "remove"
)

// Valid reports whether the action is understood by the server.
func (a TagAction) Valid() bool {
	return a == TagAdd || a == TagRemove
}

// FormatPort renders a port for display.
func (s Settings) FormatPort() string {
	if s.Port <= 0 {
		return "-"
	}
	return strconv.Itoa(s.Port)
}

func cloneStrings(values []string) []string {
	if values == nil {
		return nil
	}
	dup := make([]string, len(values))
	copy(dup, values)
	return dup
}

func parseTime(value string) time.Time {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339} {
		if t, err := time.Parse(layout, value); err == nil {
			return t
		}
	}
	if t, err := time.ParseInLocation(indexTimestampLayout, value, time.Local); err == nil {
		return t
	}
	return time.Time{}
}
