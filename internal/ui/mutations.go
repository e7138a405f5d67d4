package ui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/sift/internal/indexd"
	"github.com/five82/sift/internal/session"
)

type mutationDoneMsg struct {
	mutation session.Mutation
	err      error
}

// toggleAttribute flips a boolean flag on the selected item.
func (m Model) toggleAttribute(field string) (tea.Model, tea.Cmd) {
	item, ok := m.selectedItem()
	if !ok {
		return m, nil
	}
	value := 1
	switch field {
	case indexd.FieldPinned:
		if item.IsPinned() {
			value = 0
		}
	case indexd.FieldBookmarked:
		if item.IsBookmarked() {
			value = 0
		}
	}
	return m.submitAttribute(item.URL, field, value)
}

// setAttribute sets a one-way flag such as hide on the selected item.
func (m Model) setAttribute(field string) (tea.Model, tea.Cmd) {
	item, ok := m.selectedItem()
	if !ok {
		return m, nil
	}
	return m.submitAttribute(item.URL, field, 1)
}

func (m Model) submitAttribute(itemURL, field string, value int) (tea.Model, tea.Cmd) {
	mut, err := m.dispatcher.SubmitAttribute(itemURL, field, value)
	if err != nil {
		m.setError(err.Error())
		return m, nil
	}
	m.setNotice(mut.String())
	cmd := m.mutationCmd(mut)
	return m, cmd
}

func (m Model) enterTagMode() (tea.Model, tea.Cmd) {
	item, ok := m.selectedItem()
	if !ok || item.URL == "" {
		return m, nil
	}
	m.mode = ModeTag
	m.tagURL = item.URL
	m.input.Blur()
	return m, nil
}

func (m *Model) leaveTagMode() {
	m.mode = ModeSearch
	m.tagURL = ""
	m.input.Focus()
}

// handleTagKey feeds typed text into the tag staging buffer of the item that
// was selected when tag mode started.
func (m Model) handleTagKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.dispatcher.DiscardTag(m.tagURL)
		m.leaveTagMode()
		return m, nil
	case tea.KeyTab:
		m.leaveTagMode()
		return m, nil
	case tea.KeyEnter:
		url := m.tagURL
		m.leaveTagMode()
		return m.submitTagFragment(url, session.TagDelimiter)
	case tea.KeyBackspace:
		m.dispatcher.EraseTag(m.tagURL)
		return m, nil
	case tea.KeySpace:
		return m.submitTagFragment(m.tagURL, session.TagDelimiter)
	case tea.KeyRunes:
		if msg.Alt {
			return m, nil
		}
		return m.submitTagFragment(m.tagURL, string(msg.Runes))
	}
	if keyMatches(msg, m.keys.RemoveLastTag) {
		return m.removeLastTag()
	}
	return m, nil
}

func (m Model) submitTagFragment(itemURL, fragment string) (tea.Model, tea.Cmd) {
	mut, ok := m.dispatcher.SubmitTag(itemURL, fragment)
	if !ok {
		return m, nil
	}
	m.setNotice(mut.String())
	cmd := m.mutationCmd(mut)
	return m, cmd
}

// removeLastTag removes the last tag of the selected item.
func (m Model) removeLastTag() (tea.Model, tea.Cmd) {
	itemURL := m.tagURL
	var tags []string
	if itemURL == "" {
		item, ok := m.selectedItem()
		if !ok {
			return m, nil
		}
		itemURL, tags = item.URL, item.Tags
	} else if item, ok := m.selectedItem(); ok && item.URL == itemURL {
		tags = item.Tags
	}
	if len(tags) == 0 {
		return m, nil
	}
	mut, ok := m.dispatcher.RemoveTag(itemURL, tags[len(tags)-1])
	if !ok {
		return m, nil
	}
	m.setNotice(mut.String())
	cmd := m.mutationCmd(mut)
	return m, cmd
}

// mutationCmd runs a write on the worker pool and reports completion.
func (m *Model) mutationCmd(mut session.Mutation) tea.Cmd {
	if m.client == nil {
		return nil
	}
	m.inflight++
	client := m.client
	pool := m.pool
	ctx := m.ctx
	return func() tea.Msg {
		done := make(chan error, 1)
		if err := pool.Submit(func() { done <- applyMutation(ctx, client, mut) }); err != nil {
			return mutationDoneMsg{mutation: mut, err: fmt.Errorf("schedule mutation: %w", err)}
		}
		select {
		case err := <-done:
			return mutationDoneMsg{mutation: mut, err: err}
		case <-ctx.Done():
			return mutationDoneMsg{mutation: mut, err: ctx.Err()}
		}
	}
}

func applyMutation(ctx context.Context, client indexd.Gateway, mut session.Mutation) error {
	if mut.Kind == session.MutationTag {
		return client.MutateTag(ctx, mut.URL, mut.Tag, mut.Action)
	}
	return client.SetAttribute(ctx, mut.URL, mut.Field, mut.Value)
}

func (m Model) handleMutationDone(msg mutationDoneMsg) (tea.Model, tea.Cmd) {
	if m.inflight > 0 {
		m.inflight--
	}
	if msg.err != nil {
		m.setError(fmt.Sprintf("%s failed: %v", msg.mutation, msg.err))
	} else {
		m.setNotice(msg.mutation.String() + " done")
	}
	fetch, ok := m.dispatcher.Complete(msg.mutation, msg.err)
	if !ok {
		return m, nil
	}
	return m, m.searchCmd(fetch)
}
