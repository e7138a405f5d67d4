package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// renderHeader renders the status bar: server health and search state.
func (m Model) renderHeader() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)
	sep := bg.Spaces(2)

	parts := []string{bg.Render("sift", styles.Logo)}
	parts = append(parts, m.healthSegment(styles, bg))

	sess := m.scheduler.Session()
	switch {
	case sess.IsLoading():
		parts = append(parts, bg.Render("searching…", styles.WarningText))
	case sess.HasResults():
		count := fmt.Sprintf("%d results", sess.ItemCount())
		if docs := sess.Result().DocumentCount(); docs >= 0 {
			count += fmt.Sprintf(" of %d docs", docs)
		}
		parts = append(parts, bg.Render(count, styles.Text))
	}
	if queued, ok := m.scheduler.Queued(); ok && m.width >= LayoutCompactWidth {
		parts = append(parts, bg.Render("next: "+truncate(queued, 20), styles.FaintText))
	}
	if m.inflight > 0 {
		parts = append(parts, bg.Render(fmt.Sprintf("%d writes", m.inflight), styles.InfoText))
	}

	return lipgloss.NewStyle().
		Background(lipgloss.Color(m.theme.Surface)).
		Foreground(lipgloss.Color(m.theme.Text)).
		Padding(0, 1).
		Width(m.width).
		Render(strings.Join(parts, sep))
}

func (m Model) healthSegment(styles Styles, bg BgStyle) string {
	snap := m.snapshot
	switch {
	case snap.IsOffline():
		return bg.Render("● "+classifyConnectionError(snap.LastError), styles.DangerText)
	case !snap.HasSettings && snap.LastError == nil:
		return bg.Render("connecting…", styles.WarningText)
	case !snap.HasSettings:
		return bg.Render("● retrying", styles.WarningText)
	}
	label := "● online"
	if m.width >= LayoutCompactWidth {
		label += " :" + snap.Settings.FormatPort()
	}
	out := bg.Render(label, styles.SuccessText)
	if !snap.Settings.IndexerEnabled {
		out += bg.Space() + bg.Render("indexer off", styles.WarningText)
	}
	return out
}

// classifyConnectionError maps transport errors to a short label.
func classifyConnectionError(err error) string {
	if err == nil {
		return "OFFLINE"
	}
	msg := err.Error()
	switch {
	case strings.Contains(msg, "connection refused"):
		return "OFFLINE"
	case strings.Contains(msg, "no such host"):
		return "HOST NOT FOUND"
	case strings.Contains(msg, "timeout"), strings.Contains(msg, "deadline exceeded"):
		return "TIMEOUT"
	default:
		return "ERROR"
	}
}

// renderCommandBar renders the key hints for the active mode.
func (m Model) renderCommandBar() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)

	type cmd struct{ key, desc string }
	var commands []cmd

	switch m.mode {
	case ModeTag:
		commands = []cmd{
			{"space/enter", "Add tag"},
			{"bksp", "Erase"},
			{"ctrl+r", "Remove last"},
			{"tab", "Done"},
			{"esc", "Cancel"},
		}
	case ModeSettings:
		commands = []cmd{
			{"i", "Indexer"},
			{"ctrl+l", "Logs"},
			{"esc", "Back"},
		}
	case ModeLogs:
		commands = []cmd{
			{"up/down", "Scroll"},
			{"g/G", "Top/Bottom"},
			{"ctrl+s", "Settings"},
			{"esc", "Back"},
		}
	default:
		commands = []cmd{
			{"enter", "View"},
			{"^p", "Pin"},
			{"^b", "Bookmark"},
			{"^x", "Hide"},
			{"^d", "Hide domain"},
			{"tab", "Tag"},
			{"^s", "Settings"},
			{"^l", "Logs"},
			{"f1", "Help"},
		}
	}

	colon := bg.Sep(":")
	segments := make([]string, 0, len(commands)+1)
	for _, c := range commands {
		segments = append(segments, bg.Render(c.key, styles.AccentText)+colon+bg.Render(c.desc, styles.MutedText))
	}
	segments = append(segments, bg.Render("^t", styles.AccentText)+colon+bg.Render(m.theme.Name, styles.FaintText))

	return styles.Header.Width(m.width).Render(strings.Join(segments, bg.Spaces(2)))
}
