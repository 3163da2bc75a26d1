package ui

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/five82/lookout/internal/logsapi"
	"github.com/five82/lookout/internal/prefs"
	"github.com/five82/lookout/internal/session"
)

// Options configures the UI.
type Options struct {
	Context      context.Context
	Fetcher      logsapi.Fetcher
	Session      *session.State
	Endpoint     string
	PollTick     time.Duration
	FetchTimeout time.Duration
	ThemeName    string
	PrefsPath    string
	Logger       *zap.Logger
}

// Model is the root application state for Bubble Tea. The session is shared
// between copies of the model; only Update touches it.
type Model struct {
	// Configuration
	ctx          context.Context
	fetcher      logsapi.Fetcher
	session      *session.State
	endpoint     string
	prefsPath    string
	pollTick     time.Duration
	fetchTimeout time.Duration
	log          *zap.Logger
	copyText     func(string) error

	// UI state
	theme  Theme
	keys   keyMap
	width  int
	height int
	ready  bool

	logViewport viewport.Model
	searchInput textinput.Model
	searching   bool

	// copied shows the clipboard indicator until the matching clear message.
	copied    bool
	copiedSeq int

	showHelp bool
	modal    Modal
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	pollTick := opts.PollTick
	if pollTick <= 0 {
		pollTick = DefaultPollInterval
	}

	fetchTimeout := opts.FetchTimeout
	if fetchTimeout <= 0 {
		fetchTimeout = LogFetchTimeout
	}

	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}

	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	st := opts.Session
	if st == nil {
		st = session.New(session.Config{Logger: logger})
	}

	ti := textinput.New()
	ti.Placeholder = "Search logs..."
	ti.Prompt = "/"
	ti.CharLimit = 100

	return Model{
		ctx:          ctx,
		fetcher:      opts.Fetcher,
		session:      st,
		endpoint:     opts.Endpoint,
		prefsPath:    prefsPath,
		pollTick:     pollTick,
		fetchTimeout: fetchTimeout,
		log:          logger,
		copyText:     clipboard.WriteAll,
		theme:        GetTheme(opts.ThemeName),
		keys:         DefaultKeyMap(),
		searchInput:  ti,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{tickCmd(m.pollTick)}
	if eff := m.session.Start(); eff.Fetch != nil {
		cmds = append(cmds, m.fetchCmd(*eff.Fetch))
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		if m.modal != nil || m.showHelp || !m.ready {
			return m, nil
		}
		var cmd tea.Cmd
		m.logViewport, cmd = m.logViewport.Update(msg)
		m.observeScroll()
		return m, cmd

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if !m.ready {
			m.initLogViewport()
		}
		m.ready = true
		m.resizeLogViewport()
		m.refreshLogViewport()
		if m.session.Following() {
			m.logViewport.GotoBottom()
		}
		m.observeScroll()
		return m, nil

	case tea.FocusMsg:
		return m, m.dispatch(session.VisibilityChanged{Visible: true})

	case tea.BlurMsg:
		return m, m.dispatch(session.VisibilityChanged{Visible: false})

	case tickMsg:
		return m, tea.Batch(m.dispatch(session.TickElapsed{}), tickCmd(m.pollTick))

	case fetchResultMsg:
		return m, m.dispatch(session.FetchCompleted{
			Generation: msg.generation,
			Batch:      msg.batch,
			Err:        msg.err,
		})

	case maxLinesSubmittedMsg:
		cmd := m.dispatch(session.MaxLinesChanged{MaxLines: msg.maxLines})
		m.resetSearchInput()
		return m, cmd

	case copyResultMsg:
		return m, m.handleCopyResult(msg)

	case copiedClearMsg:
		if msg.seq == m.copiedSeq {
			m.copied = false
		}
		return m, nil
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

	if m.modal != nil {
		return m.modal.View(m.theme, m.width, m.height)
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderCommandBar())
	b.WriteString("\n")
	b.WriteString(m.renderLogs())
	return b.String()
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		// Any key closes help
		m.showHelp = false
		return m, nil
	}

	if m.modal != nil {
		modal, cmd, done := m.modal.Update(msg, m.keys)
		if done {
			m.modal = nil
		} else {
			m.modal = modal
		}
		return m, cmd
	}

	if m.searching {
		return m.handleSearchInput(msg)
	}

	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit

	case "h", "?":
		m.showHelp = true
		return m, nil

	case "T":
		m.theme = GetTheme(NextTheme(m.theme.Name))
		m.savePrefs()
		m.refreshLogViewport()
		return m, nil

	case "m":
		m.modal = newMaxLinesModal(m.session.MaxLines())
		return m, textinput.Blink

	case "y":
		return m, m.copyVisible()
	}

	return m.handleLogsKey(msg)
}

// dispatch feeds one event to the session and carries out its effects.
func (m *Model) dispatch(ev session.Event) tea.Cmd {
	return m.apply(m.session.Dispatch(ev))
}

func (m *Model) apply(eff session.Effects) tea.Cmd {
	if m.ready {
		if eff.Changed {
			m.refreshLogViewport()
		}
		if eff.SnapToBottom {
			m.logViewport.GotoBottom()
		}
		if eff.Reveal {
			m.reveal(eff.RevealIndex)
		}
		if eff.Changed || eff.SnapToBottom || eff.Reveal {
			m.observeScroll()
		}
	}
	if eff.PersistMaxLines {
		m.savePrefs()
	}
	if eff.Fetch == nil {
		return nil
	}
	return m.fetchCmd(*eff.Fetch)
}

func (m *Model) savePrefs() {
	p := prefs.Prefs{MaxLines: m.session.MaxLines(), Theme: m.theme.Name}
	if err := prefs.Save(m.prefsPath, p); err != nil {
		m.log.Warn("save preferences failed", zap.String("path", m.prefsPath), zap.Error(err))
	}
}

// copyVisible puts the visible rendered lines on the clipboard. The write runs
// as a command and reports back with copyResultMsg.
func (m Model) copyVisible() tea.Cmd {
	text := strings.Join(m.session.VisibleLines(), "\n")
	copyText := m.copyText
	return func() tea.Msg {
		return copyResultMsg{err: copyText(text)}
	}
}

func (m *Model) handleCopyResult(msg copyResultMsg) tea.Cmd {
	if msg.err != nil {
		m.log.Warn("copy to clipboard failed", zap.Error(msg.err))
		return nil
	}
	m.copied = true
	m.copiedSeq++
	seq := m.copiedSeq
	return tea.Tick(CopiedIndicatorDuration, func(time.Time) tea.Msg {
		return copiedClearMsg{seq: seq}
	})
}

// Messages

type tickMsg time.Time

type fetchResultMsg struct {
	generation string
	batch      logsapi.Batch
	err        error
}

type copyResultMsg struct {
	err error
}

type copiedClearMsg struct {
	seq int
}

// Commands

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m Model) fetchCmd(req session.FetchRequest) tea.Cmd {
	ctx, fetcher, timeout := m.ctx, m.fetcher, m.fetchTimeout
	return func() tea.Msg {
		if fetcher == nil {
			return fetchResultMsg{generation: req.Generation, err: errNoFetcher}
		}
		ctx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()

		batch, err := fetcher.FetchLogs(ctx, req.Query)
		return fetchResultMsg{generation: req.Generation, batch: batch, err: err}
	}
}

var errNoFetcher = errors.New("no log source configured")

// Run starts the Bubble Tea program and blocks until the user quits or the
// context is cancelled.
func Run(opts Options) error {
	m := New(opts)
	p := tea.NewProgram(m,
		tea.WithAltScreen(),
		tea.WithReportFocus(),
		tea.WithMouseCellMotion(),
		tea.WithContext(m.ctx),
	)
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && m.ctx.Err() != nil {
		return nil
	}
	return err
}
