package ui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/sift/internal/indexd"
)

type settingsSavedMsg struct {
	settings indexd.Settings
	err      error
}

func (m Model) handleSettingsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case keyMatches(msg, m.keys.Escape), keyMatches(msg, m.keys.Settings):
		m.mode = ModeSearch
		m.input.Focus()
		return m, nil
	case keyMatches(msg, m.keys.Logs):
		m.mode = ModeLogs
		return m, m.readLogsCmd()
	case keyMatches(msg, m.keys.ToggleIndexer):
		if !m.snapshot.HasSettings {
			m.setError("server settings not loaded yet")
			return m, nil
		}
		next := m.snapshot.Settings
		next.IndexerEnabled = !next.IndexerEnabled
		m.setNotice("saving settings")
		return m, m.saveSettingsCmd(next)
	}
	return m, nil
}

func (m Model) saveSettingsCmd(settings indexd.Settings) tea.Cmd {
	if m.client == nil {
		return nil
	}
	client := m.client
	ctx := m.ctx
	return func() tea.Msg {
		err := client.SaveSettings(ctx, settings)
		return settingsSavedMsg{settings: settings, err: err}
	}
}

func (m Model) handleSettingsSaved(msg settingsSavedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.logger.Warn("save settings failed", "err", msg.err)
		m.setError("save settings: " + msg.err.Error())
		return m, nil
	}
	if m.store != nil {
		m.store.Update(&msg.settings, nil)
		m.snapshot = m.store.Snapshot()
	}
	if msg.settings.IndexerEnabled {
		m.setNotice("indexer enabled")
	} else {
		m.setNotice("indexer disabled")
	}
	return m, nil
}

// renderSettings renders the server settings panel.
func (m Model) renderSettings(width, height int) string {
	styles := m.theme.Styles()
	var b strings.Builder

	if !m.snapshot.HasSettings {
		msg := "Waiting for server settings..."
		if m.snapshot.LastError != nil {
			msg = "Server unreachable: " + m.snapshot.LastError.Error()
		}
		b.WriteString(styles.WarningText.Render(msg))
		return m.renderBox("Server Settings", b.String(), width, height, true)
	}

	s := m.snapshot.Settings
	row := func(label, value string, valueStyle func(...string) string) {
		b.WriteString(styles.MutedText.Render(padRight(label, 18)))
		b.WriteString(valueStyle(value))
		b.WriteString("\n")
	}

	row("Port", s.FormatPort(), styles.Text.Render)
	if s.IndexerEnabled {
		row("Indexer", "enabled", styles.SuccessText.Render)
	} else {
		row("Indexer", "disabled", styles.DangerText.Render)
	}
	row("Ignored domains", listOrDash(s.IgnoreDomains, width-24), styles.Text.Render)
	row("Ignored strings", listOrDash(s.IgnoreStrings, width-24), styles.Text.Render)
	if !m.snapshot.LastUpdated.IsZero() {
		row("Updated", m.snapshot.LastUpdated.Format("15:04:05"), styles.FaintText.Render)
	}
	b.WriteString("\n")
	b.WriteString(styles.AccentText.Render("i"))
	b.WriteString(styles.MutedText.Render(" toggle indexer   "))
	b.WriteString(styles.AccentText.Render("esc"))
	b.WriteString(styles.MutedText.Render(" back"))

	return m.renderBox("Server Settings", b.String(), width, height, true)
}

func listOrDash(values []string, limit int) string {
	if len(values) == 0 {
		return "-"
	}
	return truncate(strings.Join(values, ", "), maxInt(10, limit))
}
