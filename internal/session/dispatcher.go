package session

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/five82/sift/internal/indexd"
)

// TagDelimiter commits the staged tag text when it ends a fragment.
const TagDelimiter = " "

var (
	// ErrUnknownField is returned for attribute names the server does not accept.
	ErrUnknownField = errors.New("unknown attribute field")
	// ErrInvalidValue is returned for attribute values other than 0 and 1.
	ErrInvalidValue = errors.New("attribute value must be 0 or 1")
	// ErrURLRequired is returned when a mutation has no target item.
	ErrURLRequired = errors.New("item url required")
)

// MutationKind distinguishes attribute writes from tag writes.
type MutationKind int

const (
	MutationAttribute MutationKind = iota
	MutationTag
)

// Mutation describes a write call the host must issue.
type Mutation struct {
	Kind   MutationKind
	URL    string
	Field  string
	Value  int              // attribute writes
	Tag    string           // tag writes
	Action indexd.TagAction // tag writes
}

// String returns a short description for logs.
func (m Mutation) String() string {
	if m.Kind == MutationTag {
		return fmt.Sprintf("tag %s %q on %s", m.Action, m.Tag, m.URL)
	}
	return fmt.Sprintf("%s=%d on %s", m.Field, m.Value, m.URL)
}

// Dispatcher turns user actions into attribute and tag writes. It keeps the
// per-item tag staging buffers and, when a write completes, asks the
// scheduler for a forced refetch of whatever query is current at that moment.
//
// Like Scheduler, Dispatcher performs no I/O and must be used from one goroutine.
type Dispatcher struct {
	scheduler *Scheduler
	logger    *slog.Logger
	staged    map[string]string
}

// NewDispatcher creates a dispatcher that refreshes through scheduler.
func NewDispatcher(scheduler *Scheduler, opts ...Option) *Dispatcher {
	o := buildOptions(opts)
	return &Dispatcher{
		scheduler: scheduler,
		logger:    o.logger,
		staged:    make(map[string]string),
	}
}

// SubmitAttribute validates and returns an attribute write. The displayed
// item is not changed locally; the forced refetch on completion brings the
// new value in.
func (d *Dispatcher) SubmitAttribute(itemURL, field string, value int) (Mutation, error) {
	if strings.TrimSpace(itemURL) == "" {
		return Mutation{}, ErrURLRequired
	}
	switch field {
	case indexd.FieldPinned, indexd.FieldHide, indexd.FieldHideDomain, indexd.FieldBookmarked:
	default:
		return Mutation{}, fmt.Errorf("%w: %q", ErrUnknownField, field)
	}
	if value != 0 && value != 1 {
		return Mutation{}, fmt.Errorf("%w: got %d", ErrInvalidValue, value)
	}
	return Mutation{Kind: MutationAttribute, URL: itemURL, Field: field, Value: value}, nil
}

// SubmitTag appends fragment to the item's staging buffer. When fragment ends
// with TagDelimiter the buffered text is committed as a tag add and the
// buffer is reset; otherwise nothing is sent and the buffer is kept for display.
func (d *Dispatcher) SubmitTag(itemURL, fragment string) (Mutation, bool) {
	if itemURL == "" || fragment == "" {
		return Mutation{}, false
	}
	buf := d.staged[itemURL] + fragment
	if !strings.HasSuffix(fragment, TagDelimiter) {
		d.staged[itemURL] = buf
		return Mutation{}, false
	}

	delete(d.staged, itemURL)
	tag := strings.TrimSpace(buf)
	if tag == "" {
		return Mutation{}, false
	}
	return Mutation{
		Kind:   MutationTag,
		URL:    itemURL,
		Field:  indexd.FieldTag,
		Tag:    tag,
		Action: indexd.TagAdd,
	}, true
}

// EraseTag drops the last character of the item's staging buffer.
func (d *Dispatcher) EraseTag(itemURL string) {
	buf, ok := d.staged[itemURL]
	if !ok {
		return
	}
	_, size := utf8.DecodeLastRuneInString(buf)
	buf = buf[:len(buf)-size]
	if buf == "" {
		delete(d.staged, itemURL)
		return
	}
	d.staged[itemURL] = buf
}

// DiscardTag empties the item's staging buffer without sending anything.
func (d *Dispatcher) DiscardTag(itemURL string) {
	delete(d.staged, itemURL)
}

// Staged returns the uncommitted tag text for the item.
func (d *Dispatcher) Staged(itemURL string) string {
	return d.staged[itemURL]
}

// RemoveTag returns a tag removal for the exact tag string.
func (d *Dispatcher) RemoveTag(itemURL, tag string) (Mutation, bool) {
	if itemURL == "" || tag == "" {
		return Mutation{}, false
	}
	return Mutation{
		Kind:   MutationTag,
		URL:    itemURL,
		Field:  indexd.FieldTag,
		Tag:    tag,
		Action: indexd.TagRemove,
	}, true
}

// Complete records that m finished and returns the forced refetch for the
// query current now. Success and failure are handled alike.
func (d *Dispatcher) Complete(m Mutation, err error) (Fetch, bool) {
	if err != nil {
		d.logger.Warn("mutation failed", "mutation", m.String(), "err", err)
	} else {
		d.logger.Debug("mutation done", "mutation", m.String())
	}
	return d.scheduler.ForceRefetch(d.scheduler.Query())
}
