package ui

import (
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/sift/internal/logtail"
)

type logEntriesMsg struct {
	entries []logtail.Entry
	err     error
}

func (m Model) readLogsCmd() tea.Cmd {
	path := m.logPath
	return func() tea.Msg {
		if path == "" {
			return logEntriesMsg{}
		}
		entries, err := logtail.ReadEntries(path, LogTailLines)
		return logEntriesMsg{entries: entries, err: err}
	}
}

func (m Model) handleLogsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case keyMatches(msg, m.keys.Escape), keyMatches(msg, m.keys.Logs):
		m.mode = ModeSearch
		m.input.Focus()
		return m, nil
	case keyMatches(msg, m.keys.Settings):
		m.mode = ModeSettings
		return m, nil
	case keyMatches(msg, m.keys.Up):
		m.logViewport.ScrollUp(1)
	case keyMatches(msg, m.keys.Down):
		m.logViewport.ScrollDown(1)
	case keyMatches(msg, m.keys.PageUp):
		m.logViewport.PageUp()
	case keyMatches(msg, m.keys.PageDown):
		m.logViewport.PageDown()
	case msg.String() == "home", msg.String() == "g":
		m.logViewport.GotoTop()
	case msg.String() == "end", msg.String() == "G":
		m.logViewport.GotoBottom()
	}
	return m, nil
}

func (m *Model) resizeLogViewport() {
	m.logViewport.Width = maxInt(1, m.width-4)
	m.logViewport.Height = maxInt(1, m.contentHeight()-2)
	m.refreshLogViewport()
}

// refreshLogViewport re-renders entries, keeping the view pinned to the
// bottom when it already was.
func (m *Model) refreshLogViewport() {
	if m.logViewport.Width == 0 {
		return
	}
	atBottom := m.logViewport.AtBottom() || m.logViewport.TotalLineCount() == 0
	m.logViewport.SetContent(m.renderLogContent())
	if atBottom {
		m.logViewport.GotoBottom()
	}
}

func (m Model) renderLogContent() string {
	styles := m.theme.Styles()
	if m.logErr != nil {
		return styles.DangerText.Render("read log: " + m.logErr.Error())
	}
	if m.logPath == "" {
		return styles.MutedText.Render("No log file configured.")
	}
	if len(m.logEntries) == 0 {
		return styles.MutedText.Render("Log is empty: " + m.logPath)
	}
	lines := make([]string, 0, len(m.logEntries))
	for _, entry := range m.logEntries {
		lines = append(lines, m.renderLogLine(entry, styles))
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderLogLine(entry logtail.Entry, styles Styles) string {
	if entry.Level == "" && entry.Time.IsZero() {
		return styles.Text.Render(entry.Message)
	}
	var parts []string
	if !entry.Time.IsZero() {
		parts = append(parts, styles.FaintText.Render(entry.Time.Local().Format("15:04:05")))
	}
	levelStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.LevelColor(entry.Level))).Bold(true)
	parts = append(parts, levelStyle.Render(padRight(entry.Level, 5)))
	parts = append(parts, styles.Text.Render(entry.Message))

	attrs := append([]logtail.Attr(nil), entry.Attrs...)
	sort.SliceStable(attrs, func(i, j int) bool {
		return attrs[i].Key == "err" && attrs[j].Key != "err"
	})
	for _, a := range attrs {
		valueStyle := styles.MutedText
		if a.Key == "err" {
			valueStyle = styles.DangerText
		}
		parts = append(parts, styles.AccentText.Render(a.Key)+styles.FaintText.Render("=")+valueStyle.Render(a.Value))
	}
	return strings.Join(parts, " ")
}

// renderLogs renders the diagnostics view.
func (m Model) renderLogs(width, height int) string {
	return m.renderBox("Diagnostics · "+truncateMiddle(m.logPath, maxInt(10, width-20)), m.logViewport.View(), width, height, true)
}
