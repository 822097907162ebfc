// Package tui provides the interactive week grid for rota.
package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"go.uber.org/zap"

	"github.com/javiermolinar/rota/internal/board"
	"github.com/javiermolinar/rota/internal/config"
	"github.com/javiermolinar/rota/internal/grid"
	"github.com/javiermolinar/rota/internal/reconcile"
	"github.com/javiermolinar/rota/internal/roster"
	"github.com/javiermolinar/rota/internal/tui/commands"
	"github.com/javiermolinar/rota/internal/tui/theme"
)

// Mode represents the current interaction mode.
type Mode int

const (
	ModeNormal Mode = iota
	ModePrompt      // bulk range input is focused
)

// Model is the main TUI model.
type Model struct {
	// Dependencies
	repo       roster.Repository
	config     *config.Config
	board      *board.Board
	reconciler *reconcile.Reconciler
	projector  *roster.Projector
	log        *zap.Logger
	now        func() time.Time
	viewer     *time.Location

	styles *Styles

	// State
	cursor     grid.Cell
	mode       Mode
	removeMode bool // sticky remove: every gesture removes
	loading    bool
	prompt     textinput.Model

	// Terminal dimensions and layout
	width        int
	height       int
	colWidth     int
	scrollOffset int

	// Messages
	statusMsg   string
	statusError bool
	statusTime  time.Time
}

// ModelOption configures optional model behavior.
type ModelOption func(*Model)

// WithLogger sets the logger shared by the board and reconciler.
func WithLogger(log *zap.Logger) ModelOption {
	return func(m *Model) {
		if log != nil {
			m.log = log
		}
	}
}

// WithClock injects the time source.
func WithClock(now func() time.Time) ModelOption {
	return func(m *Model) { m.now = now }
}

// WithViewerZone sets the zone reset markers are projected into.
func WithViewerZone(loc *time.Location) ModelOption {
	return func(m *Model) { m.viewer = loc }
}

// New creates a new TUI model showing the current week.
func New(repo roster.Repository, cfg *config.Config, opts ...ModelOption) (Model, error) {
	m := Model{
		repo:     repo,
		config:   cfg,
		log:      zap.NewNop(),
		now:      time.Now,
		colWidth: minColWidth,
	}
	for _, opt := range opts {
		opt(&m)
	}

	projector, err := cfg.Projector(m.viewer)
	if err != nil {
		return Model{}, fmt.Errorf("building reset projector: %w", err)
	}
	m.projector = projector

	t, err := theme.Load(cfg.UI.Theme)
	if err != nil {
		return Model{}, err
	}
	m.styles = NewStyles(t)

	today := m.now()
	m.board = board.New(cfg.Window(), cfg.Identity(), today,
		board.WithLogger(m.log),
		board.WithClock(m.now),
	)
	m.reconciler = reconcile.New(repo,
		reconcile.WithLogger(m.log),
		reconcile.WithConcurrency(cfg.Sync.Concurrency),
		reconcile.WithTimeout(cfg.SyncTimeout()),
	)
	m.loading = true
	m.focusNow()

	ti := textinput.New()
	ti.Placeholder = "[date] start end [notes...]   prefix with - to remove"
	ti.Prompt = "bulk> "
	ti.CharLimit = roster.MaxNotesLength + 32
	m.prompt = ti

	return m, nil
}

// Init loads the visible week.
func (m Model) Init() tea.Cmd {
	return m.loadCmd(board.LoadRequest{
		Generation: m.board.Generation(),
		Start:      m.board.Days()[0],
		End:        m.board.Days()[roster.DaysPerWeek-1],
	})
}

func (m Model) loadCmd(req board.LoadRequest) tea.Cmd {
	return commands.LoadWeek(m.repo, req)
}

// focusNow moves the cursor to today's column and the current hour.
func (m *Model) focusNow() {
	now := m.now()
	if day := m.board.Window().DayIndex(m.board.Anchor(), now); day >= 0 {
		m.cursor.Day = day
	}
	if row := m.board.Window().HourRow(now.Hour()); row >= 0 {
		m.cursor.Row = row
	}
	m.ensureCursorVisible()
}

// Board exposes the roster session, mainly for tests.
func (m Model) Board() *board.Board { return m.board }

// Run starts the TUI. It blocks until the user quits.
func Run(repo roster.Repository, cfg *config.Config, noColor bool, opts ...ModelOption) error {
	if noColor {
		lipgloss.SetColorProfile(termenv.Ascii)
	}

	model, err := New(repo, cfg, opts...)
	if err != nil {
		return err
	}

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err = p.Run()
	return err
}
