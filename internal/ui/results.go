package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/sift/internal/indexd"
)

// renderMain renders header, command bar, the active screen and footer.
func (m Model) renderMain() string {
	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderCommandBar())
	b.WriteString("\n")

	height := m.contentHeight()
	switch m.mode {
	case ModeSettings:
		b.WriteString(m.renderSettings(m.width, height))
	case ModeLogs:
		b.WriteString(m.renderLogs(m.width, height))
	default:
		b.WriteString(m.renderSearch(m.width, height))
	}
	b.WriteString("\n")
	b.WriteString(m.renderFooter())
	return b.String()
}

// renderSearch renders the query input above the result list.
func (m Model) renderSearch(width, height int) string {
	inputLine := m.input.View()
	listHeight := maxInt(3, height-1)
	title := "Results"
	if q := m.scheduler.Session().Query(); q != "" {
		title = "Results · " + truncate(q, maxInt(10, width/3))
	}
	return inputLine + "\n" + m.renderBox(title, m.renderResults(width-4), width, listHeight, m.mode == ModeSearch || m.mode == ModeTag)
}

func (m Model) renderResults(width int) string {
	styles := m.theme.Styles()
	sess := m.scheduler.Session()

	if sess.ItemCount() == 0 {
		switch {
		case sess.IsLoading():
			return styles.MutedText.Render("Searching...")
		case m.scheduler.Query() == "":
			return styles.MutedText.Render("Type to search the index.")
		case sess.HasResults():
			return styles.MutedText.Render("No matches.")
		default:
			return styles.MutedText.Render("No results yet.")
		}
	}

	page := m.pageSize()
	end := minInt(sess.ItemCount(), m.offset+page)
	now := time.Now()
	var blocks []string
	for idx := m.offset; idx < end; idx++ {
		item, ok := sess.Item(idx)
		if !ok {
			break
		}
		blocks = append(blocks, m.renderItem(item, idx == m.selected, width, now))
	}
	return strings.Join(blocks, "\n")
}

// renderItem renders one result as a fixed number of lines.
func (m Model) renderItem(item indexd.SearchItem, selected bool, width int, now time.Time) string {
	styles := m.theme.Styles()
	width = maxInt(20, width)

	marker := "  "
	if selected {
		marker = "▌ "
	}
	flags := ""
	if item.IsPinned() {
		flags += "★"
	}
	if item.IsBookmarked() {
		flags += "◆"
	}
	if item.IsDuplicate() {
		flags += "≡"
	}
	if flags != "" {
		flags += " "
	}

	title := strings.TrimSpace(item.Title)
	if title == "" {
		title = item.URL
	}
	age := humanizeAge(item.ParsedAddedAt(), now)
	titleWidth := width - len([]rune(marker)) - len([]rune(flags)) - len([]rune(age)) - 1
	titleLine := styles.AccentText.Render(marker) +
		styles.WarningText.Render(flags) +
		styles.Text.Bold(selected).Render(padRight(truncate(title, titleWidth), maxInt(0, titleWidth))) +
		" " + styles.FaintText.Render(age)

	if selected {
		titleLine = lipgloss.NewStyle().Background(lipgloss.Color(m.theme.SelectionBg)).Width(width).Render(titleLine)
	}
	if m.compact {
		return titleLine
	}

	urlLine := "  " + styles.MutedText.Render(truncateMiddle(item.URL, width-2))

	summary := item.Summary
	if strings.TrimSpace(summary) == "" {
		summary = item.Description
	}
	summaryLine := "  " + styles.Text.Render(truncate(singleLine(summary), width-2))

	chipsLine := "  " + m.renderChips(item, width-2)
	return strings.Join([]string{titleLine, urlLine, summaryLine, chipsLine}, "\n")
}

// renderChips renders tags, the staged tag text when tagging, and keywords.
func (m Model) renderChips(item indexd.SearchItem, width int) string {
	styles := m.theme.Styles()
	var parts []string
	used := 0
	add := func(text string, style lipgloss.Style) bool {
		n := len([]rune(text)) + 1
		if used+n > width {
			return false
		}
		used += n
		parts = append(parts, style.Render(text))
		return true
	}

	for _, tag := range item.Tags {
		if !add("#"+tag, styles.TagText) {
			break
		}
	}
	if m.mode == ModeTag && m.tagURL == item.URL {
		add("+"+m.dispatcher.Staged(item.URL)+"▏", styles.WarningText)
	}
	for _, kw := range item.KeywordChips() {
		if !add(kw, styles.FaintText) {
			break
		}
	}
	if item.AccessedCount > 0 {
		add(fmt.Sprintf("×%d", item.AccessedCount), styles.FaintText)
	}
	return strings.Join(parts, " ")
}

// renderBox draws content inside a rounded border with a title.
func (m Model) renderBox(title, content string, width, height int, focused bool) string {
	border := m.theme.Border
	if focused {
		border = m.theme.BorderFocus
	}
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(border)).
		Padding(0, 1).
		Width(maxInt(1, width-2)).
		Height(maxInt(1, height-2)).
		MaxHeight(maxInt(1, height))
	heading := m.theme.Styles().AccentText.Bold(true).Render(truncate(title, maxInt(1, width-6)))
	rendered := box.Render(content)

	lines := strings.SplitN(rendered, "\n", 2)
	if len(lines) < 2 {
		return rendered
	}
	top := lipgloss.NewStyle().Foreground(lipgloss.Color(border)).Render("╭─ ") + heading + " "
	fill := width - lipgloss.Width(top) - 1
	if fill > 0 {
		top += lipgloss.NewStyle().Foreground(lipgloss.Color(border)).Render(strings.Repeat("─", fill) + "╮")
	}
	return top + "\n" + lines[1]
}

// renderFooter renders the last notice or error.
func (m Model) renderFooter() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	text := m.notice
	style := styles.MutedText
	if m.noticeErr {
		style = styles.DangerText
	}
	if text == "" {
		text = fmt.Sprintf("server %s", m.serverLabel())
		style = styles.FaintText
	}
	return styles.Footer.Width(m.width).Render(style.Render(truncate(text, maxInt(1, m.width-2))))
}

func (m Model) serverLabel() string {
	if m.snapshot.HasSettings {
		return "port " + m.snapshot.Settings.FormatPort()
	}
	return "unknown"
}
