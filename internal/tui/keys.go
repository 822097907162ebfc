package tui

import (
	"errors"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/javiermolinar/rota/internal/reconcile"
	"github.com/javiermolinar/rota/internal/roster"
	"github.com/javiermolinar/rota/internal/tui/commands"
)

// handleKeyMsg handles keyboard input.
func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.log.Debug("key", zap.String("key", msg.String()), zap.Int("mode", int(m.mode)))

	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}
	if m.mode == ModePrompt {
		return m.handlePromptKeys(msg)
	}
	return m.handleNormalKeys(msg)
}

// handleNormalKeys handles keys in normal mode.
func (m Model) handleNormalKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit

	// Navigation
	case "h", "left":
		m.cursor.Day = max(0, m.cursor.Day-1)
	case "l", "right":
		m.cursor.Day = min(roster.DaysPerWeek-1, m.cursor.Day+1)
	case "k", "up":
		m.cursor.Row = max(0, m.cursor.Row-1)
		m.ensureCursorVisible()
	case "j", "down":
		m.cursor.Row = min(roster.HoursPerDay-1, m.cursor.Row+1)
		m.ensureCursorVisible()
	case "pgup", "ctrl+u":
		m.cursor.Row = max(0, m.cursor.Row-m.visibleRows())
		m.ensureCursorVisible()
	case "pgdown", "ctrl+d":
		m.cursor.Row = min(roster.HoursPerDay-1, m.cursor.Row+m.visibleRows())
		m.ensureCursorVisible()

	// Week navigation
	case "n", "L", "shift+right":
		m.loading = true
		return m, m.loadCmd(m.board.Shift(1))
	case "p", "H", "shift+left":
		m.loading = true
		return m, m.loadCmd(m.board.Shift(-1))
	case "t":
		req, reload := m.board.Goto(m.now())
		m.focusNow()
		if reload {
			m.loading = true
			return m, m.loadCmd(req)
		}
	case "R":
		m.loading = true
		return m, m.loadCmd(m.board.Reload())

	// Editing
	case " ", "enter":
		if !m.board.Loaded() {
			return m, m.notLoaded()
		}
		return m, m.persist(m.board.Toggle(m.cursor))
	case "x":
		m.removeMode = !m.removeMode
	case "b":
		m.mode = ModePrompt
		m.prompt.SetValue("")
		return m, m.prompt.Focus()
	case "r":
		if len(m.board.Failed()) == 0 {
			return m, commands.Status("Nothing to retry")
		}
		if !m.board.Loaded() {
			return m, m.notLoaded()
		}
		return m, m.persist(m.board.RetryFailed())
	case "y":
		text := m.board.Export()
		return m, commands.Copy(text, strings.Count(text, "\n"))
	case "esc":
		m.removeMode = false
	}

	return m, nil
}

// handlePromptKeys handles keys while the bulk prompt is focused.
func (m Model) handlePromptKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.closePrompt()
		return m, nil
	case tea.KeyEnter:
		input := m.prompt.Value()
		m.closePrompt()
		return m.runBulk(input)
	}

	var cmd tea.Cmd
	m.prompt, cmd = m.prompt.Update(msg)
	return m, cmd
}

func (m *Model) closePrompt() {
	m.mode = ModeNormal
	m.prompt.Blur()
	m.prompt.SetValue("")
}

// runBulk validates and applies a bulk range request. Invalid requests
// leave the store untouched and report why.
func (m Model) runBulk(input string) (tea.Model, tea.Cmd) {
	req, err := parseBulkInput(input, m.board.Keys()[m.cursor.Day], m.now())
	if err != nil {
		m.setStatus(err.Error(), true)
		return m, clearStatusAfter(errorTTL)
	}

	var batch reconcile.Batch
	if req.Remove {
		batch, err = m.board.BulkUnassign(req.Date, req.Start, req.End)
	} else {
		batch, err = m.board.BulkAssign(req.Date, req.Start, req.End, req.Notes)
	}
	if err != nil {
		var verr *roster.ValidationError
		if errors.As(err, &verr) {
			m.log.Debug("bulk request rejected", zap.String("field", verr.Field), zap.Error(verr.Err))
		}
		m.setStatus(err.Error(), true)
		return m, clearStatusAfter(errorTTL)
	}

	verb := "Assigned"
	if req.Remove {
		verb = "Removed"
	}
	m.setStatus(verb+" "+req.Date+" "+req.Start+"-"+req.End, false)
	return m, tea.Batch(m.persist(batch), clearStatusAfter(statusTTL))
}
