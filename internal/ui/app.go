package ui

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/sift/internal/indexd"
	"github.com/five82/sift/internal/logtail"
	"github.com/five82/sift/internal/prefs"
	"github.com/five82/sift/internal/session"
	"github.com/five82/sift/internal/state"
)

// Mode is the active screen.
type Mode int

const (
	ModeSearch Mode = iota
	ModeTag
	ModeSettings
	ModeLogs
)

// Submitter runs tasks on a bounded worker pool. *ants.Pool satisfies it.
type Submitter interface {
	Submit(task func()) error
}

// PagerFunc builds the command that shows raw item content. It runs with the
// terminal released by Bubble Tea.
type PagerFunc func(title, content string) tea.ExecCommand

// Options configures the UI.
type Options struct {
	Context      context.Context
	Client       indexd.Gateway
	Store        *state.Store
	Pool         Submitter
	Logger       *slog.Logger
	Pager        PagerFunc
	PollTick     time.Duration
	ThemeName    string
	Compact      bool
	PrefsPath    string
	LogPath      string
	InitialQuery string
	OpenID       indexd.ItemID
}

// Model is the root application state for Bubble Tea.
type Model struct {
	ctx       context.Context
	client    indexd.Gateway
	store     *state.Store
	pool      Submitter
	logger    *slog.Logger
	pager     PagerFunc
	prefsPath string
	logPath   string
	pollTick  time.Duration

	scheduler  *session.Scheduler
	dispatcher *session.Dispatcher

	keys    keyMap
	theme   Theme
	compact bool
	mode    Mode
	width   int
	height  int
	ready   bool

	input     textinput.Model
	lastInput string
	selected  int
	offset    int
	tagURL    string

	snapshot state.Snapshot
	inflight int

	logViewport viewport.Model
	logEntries  []logtail.Entry
	logErr      error

	notice    string
	noticeErr bool

	showHelp bool

	initialQuery string
	openID       indexd.ItemID
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	pollTick := opts.PollTick
	if pollTick <= 0 {
		pollTick = DefaultUIInterval
	}
	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}
	pool := opts.Pool
	if pool == nil {
		pool = goSubmitter{}
	}
	pager := opts.Pager
	if pager == nil {
		pager = NewPagerCommand
	}

	scheduler := session.NewScheduler(state.NewSession(), session.WithLogger(logger))
	dispatcher := session.NewDispatcher(scheduler, session.WithLogger(logger))

	ti := textinput.New()
	ti.Placeholder = "Search..."
	ti.Prompt = "› "
	ti.CharLimit = 512
	ti.Focus()

	return Model{
		ctx:          ctx,
		client:       opts.Client,
		store:        opts.Store,
		pool:         pool,
		logger:       logger,
		pager:        pager,
		prefsPath:    prefsPath,
		logPath:      opts.LogPath,
		pollTick:     pollTick,
		scheduler:    scheduler,
		dispatcher:   dispatcher,
		keys:         DefaultKeyMap(),
		theme:        GetTheme(opts.ThemeName),
		compact:      opts.Compact,
		mode:         ModeSearch,
		input:        ti,
		initialQuery: strings.TrimSpace(opts.InitialQuery),
		openID:       opts.OpenID,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		textinput.Blink,
		tickCmd(m.pollTick),
	}
	if m.store != nil {
		cmds = append(cmds, fetchSnapshotCmd(m.store))
	}
	if m.initialQuery != "" {
		query := m.initialQuery
		cmds = append(cmds, func() tea.Msg { return seedQueryMsg(query) })
	}
	if m.openID != "" {
		cmds = append(cmds, m.fetchViewCmd(m.openID, m.openID.String()))
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.input.Width = maxInt(10, m.width-6)
		if !m.ready {
			m.logViewport = viewport.New(maxInt(1, m.width-4), maxInt(1, m.contentHeight()-2))
		}
		m.ready = true
		m.resizeLogViewport()
		m.ensureVisible()
		return m, nil

	case tickMsg:
		return m.handleTick()

	case snapshotMsg:
		m.snapshot = state.Snapshot(msg)
		return m, nil

	case seedQueryMsg:
		m.input.SetValue(string(msg))
		m.input.CursorEnd()
		cmd := m.submitQuery(string(msg))
		return m, cmd

	case searchResultMsg:
		return m.handleSearchResult(msg)

	case mutationDoneMsg:
		return m.handleMutationDone(msg)

	case viewContentMsg:
		return m.handleViewContent(msg)

	case pagerClosedMsg:
		if msg.err != nil {
			m.setError("pager: " + msg.err.Error())
		}
		return m, nil

	case settingsSavedMsg:
		return m.handleSettingsSaved(msg)

	case logEntriesMsg:
		m.logEntries = msg.entries
		m.logErr = msg.err
		m.refreshLogViewport()
		return m, nil
	}

	if m.mode == ModeSearch {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.showHelp {
		return m.renderHelp()
	}
	return m.renderMain()
}

// handleKey routes keyboard input to the active mode.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		m.showHelp = false
		return m, nil
	}

	switch {
	case keyMatches(msg, m.keys.Quit):
		return m, tea.Quit
	case keyMatches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil
	case keyMatches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		m.savePrefs()
		m.refreshLogViewport()
		return m, nil
	case keyMatches(msg, m.keys.ToggleDense):
		m.compact = !m.compact
		m.savePrefs()
		m.ensureVisible()
		return m, nil
	}

	switch m.mode {
	case ModeTag:
		return m.handleTagKey(msg)
	case ModeSettings:
		return m.handleSettingsKey(msg)
	case ModeLogs:
		return m.handleLogsKey(msg)
	default:
		return m.handleSearchKey(msg)
	}
}

// handleSearchKey handles the results screen: navigation and item actions
// first, everything else goes to the query input.
func (m Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	count := m.scheduler.Session().ItemCount()

	switch {
	case keyMatches(msg, m.keys.Up):
		m.moveSelection(-1)
		return m, nil
	case keyMatches(msg, m.keys.Down):
		m.moveSelection(1)
		return m, nil
	case keyMatches(msg, m.keys.PageUp):
		m.moveSelection(-m.pageSize())
		return m, nil
	case keyMatches(msg, m.keys.PageDown):
		m.moveSelection(m.pageSize())
		return m, nil
	case keyMatches(msg, m.keys.Settings):
		m.mode = ModeSettings
		m.input.Blur()
		return m, nil
	case keyMatches(msg, m.keys.Logs):
		m.mode = ModeLogs
		m.input.Blur()
		return m, m.readLogsCmd()
	case keyMatches(msg, m.keys.Escape):
		return m, nil
	}

	if count > 0 {
		switch {
		case keyMatches(msg, m.keys.Open):
			return m.openSelected()
		case keyMatches(msg, m.keys.TogglePin):
			return m.toggleAttribute(indexd.FieldPinned)
		case keyMatches(msg, m.keys.ToggleMark):
			return m.toggleAttribute(indexd.FieldBookmarked)
		case keyMatches(msg, m.keys.Hide):
			return m.setAttribute(indexd.FieldHide)
		case keyMatches(msg, m.keys.HideDomain):
			return m.setAttribute(indexd.FieldHideDomain)
		case keyMatches(msg, m.keys.TagMode):
			return m.enterTagMode()
		case keyMatches(msg, m.keys.RemoveLastTag):
			return m.removeLastTag()
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if value := m.input.Value(); value != m.lastInput {
		search := m.submitQuery(value)
		return m, tea.Batch(cmd, search)
	}
	return m, cmd
}

// handleTick refreshes health data and, while visible, the diagnostics log.
func (m Model) handleTick() (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	if m.store != nil {
		cmds = append(cmds, fetchSnapshotCmd(m.store))
	}
	if m.mode == ModeLogs {
		cmds = append(cmds, m.readLogsCmd())
	}
	cmds = append(cmds, tickCmd(m.pollTick))
	return m, tea.Batch(cmds...)
}

func (m *Model) savePrefs() {
	if m.prefsPath == "" {
		return
	}
	if err := prefs.Save(m.prefsPath, prefs.Prefs{Theme: m.theme.Name, Compact: m.compact}); err != nil {
		m.logger.Warn("save prefs failed", "path", m.prefsPath, "err", err)
	}
}

func (m *Model) setNotice(text string) {
	m.notice = text
	m.noticeErr = false
}

func (m *Model) setError(text string) {
	m.notice = text
	m.noticeErr = true
}

// Messages

type tickMsg time.Time

type snapshotMsg state.Snapshot

type seedQueryMsg string

// Commands

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func fetchSnapshotCmd(store *state.Store) tea.Cmd {
	return func() tea.Msg {
		return snapshotMsg(store.Snapshot())
	}
}

// goSubmitter runs each task on its own goroutine when no pool is configured.
type goSubmitter struct{}

func (goSubmitter) Submit(task func()) error {
	go task()
	return nil
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	m := New(opts)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(m.ctx))
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && m.ctx.Err() != nil {
		return nil
	}
	return err
}
