package ui

import (
	"context"
	"fmt"
	"io"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/noborus/ov/oviewer"

	"github.com/five82/sift/internal/indexd"
)

type viewContentMsg struct {
	id      indexd.ItemID
	title   string
	content string
	err     error
}

type pagerClosedMsg struct {
	err error
}

// openSelected fetches the stored content of the selected item.
func (m Model) openSelected() (tea.Model, tea.Cmd) {
	item, ok := m.selectedItem()
	if !ok {
		return m, nil
	}
	if item.ID == "" {
		m.setError("item has no stored content")
		return m, nil
	}
	title := item.Title
	if strings.TrimSpace(title) == "" {
		title = item.URL
	}
	m.setNotice("loading " + truncate(title, 40))
	return m, m.fetchViewCmd(item.ID, title)
}

func (m Model) fetchViewCmd(id indexd.ItemID, title string) tea.Cmd {
	if m.client == nil {
		return nil
	}
	client := m.client
	parent := m.ctx
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(parent, ViewFetchTimeout)
		defer cancel()
		content, err := client.FetchView(ctx, id)
		return viewContentMsg{id: id, title: title, content: content, err: err}
	}
}

// handleViewContent hands fetched content to the pager, which takes over the
// terminal until the user quits it.
func (m Model) handleViewContent(msg viewContentMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.logger.Warn("view fetch failed", "id", msg.id.String(), "err", msg.err)
		m.setError(fmt.Sprintf("view %s failed: %v", msg.id, msg.err))
		return m, nil
	}
	m.setNotice("")
	if strings.TrimSpace(msg.content) == "" {
		m.setError(fmt.Sprintf("item %s has no stored content", msg.id))
		return m, nil
	}
	return m, tea.Exec(m.pager(msg.title, msg.content), func(err error) tea.Msg {
		return pagerClosedMsg{err: err}
	})
}

// pagerCommand shows text in an ov pager. It implements tea.ExecCommand.
type pagerCommand struct {
	title   string
	content string
}

// NewPagerCommand returns the default pager for raw item content.
func NewPagerCommand(title, content string) tea.ExecCommand {
	return &pagerCommand{title: title, content: content}
}

func (p *pagerCommand) Run() error {
	text := p.content
	if p.title != "" {
		text = p.title + "\n" + strings.Repeat("─", minInt(len([]rune(p.title)), 80)) + "\n\n" + text
	}
	root, err := oviewer.NewRoot(strings.NewReader(text))
	if err != nil {
		return fmt.Errorf("open pager: %w", err)
	}
	config := oviewer.NewConfig()
	config.IsWriteOnExit = false
	config.IsWriteOriginal = false
	root.SetConfig(config)
	if err := root.Run(); err != nil {
		return fmt.Errorf("run pager: %w", err)
	}
	return nil
}

// ov opens the terminal itself.
func (p *pagerCommand) SetStdin(io.Reader)  {}
func (p *pagerCommand) SetStdout(io.Writer) {}
func (p *pagerCommand) SetStderr(io.Writer) {}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
