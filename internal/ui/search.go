package ui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/sift/internal/indexd"
	"github.com/five82/sift/internal/session"
)

type searchResultMsg struct {
	outcome session.Outcome
}

// submitQuery hands the current input to the scheduler and returns the
// search to run, if any.
func (m *Model) submitQuery(value string) tea.Cmd {
	m.lastInput = value
	fetch, ok := m.scheduler.Submit(value)
	if !m.scheduler.Session().HasResults() {
		m.selected = 0
		m.offset = 0
	}
	if !ok {
		return nil
	}
	return m.searchCmd(fetch)
}

// searchCmd runs one search request off the update loop.
func (m Model) searchCmd(fetch session.Fetch) tea.Cmd {
	if m.client == nil {
		return nil
	}
	client := m.client
	ctx := m.ctx
	return func() tea.Msg {
		result, err := client.Search(ctx, fetch.Query)
		return searchResultMsg{outcome: session.Outcome{Seq: fetch.Seq, Result: result, Err: err}}
	}
}

func (m Model) handleSearchResult(msg searchResultMsg) (tea.Model, tea.Cmd) {
	next, ok := m.scheduler.OnResponse(msg.outcome)
	m.ensureVisible()
	if ok {
		return m, m.searchCmd(next)
	}
	return m, nil
}

func (m Model) selectedItem() (indexd.SearchItem, bool) {
	return m.scheduler.Session().Item(m.selected)
}

func (m *Model) moveSelection(delta int) {
	count := m.scheduler.Session().ItemCount()
	if count == 0 {
		m.selected = 0
		m.offset = 0
		return
	}
	m.selected = clamp(m.selected+delta, 0, count-1)
	m.ensureVisible()
}

// ensureVisible clamps the selection to the current results and scrolls the
// list so the selected item is on screen.
func (m *Model) ensureVisible() {
	count := m.scheduler.Session().ItemCount()
	if count == 0 {
		m.selected = 0
		m.offset = 0
		return
	}
	m.selected = clamp(m.selected, 0, count-1)
	page := m.pageSize()
	if m.selected < m.offset {
		m.offset = m.selected
	}
	if m.selected >= m.offset+page {
		m.offset = m.selected - page + 1
	}
	m.offset = clamp(m.offset, 0, maxInt(0, count-page))
}

// itemHeight is the number of lines one result occupies.
func (m Model) itemHeight() int {
	if m.compact {
		return 1
	}
	return 4
}

// pageSize is the number of results that fit in the list area.
func (m Model) pageSize() int {
	rows := m.contentHeight() - 3 // input line, list border
	return maxInt(1, rows/m.itemHeight())
}

// contentHeight is the height left after header, command bar and footer.
func (m Model) contentHeight() int {
	return maxInt(3, m.height-3)
}

func keyMatches(msg tea.KeyMsg, binding key.Binding) bool {
	return key.Matches(msg, binding)
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
