package tui

import (
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/javiermolinar/rota/internal/grid"
	"github.com/javiermolinar/rota/internal/reconcile"
	"github.com/javiermolinar/rota/internal/tui/commands"
)

// handleMouseMsg drives the selection gesture. Presses start it, motion
// extends it over entered cells and the release resolves it, wherever on
// screen the button comes up.
func (m Model) handleMouseMsg(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if m.mode == ModePrompt {
		return m, nil
	}

	cell, inside := m.cellAt(msg.X, msg.Y)

	switch msg.Action {
	case tea.MouseActionPress:
		switch msg.Button {
		case tea.MouseButtonWheelUp:
			m.scrollOffset--
			m.clampScroll()
			return m, nil
		case tea.MouseButtonWheelDown:
			m.scrollOffset++
			m.clampScroll()
			return m, nil
		case tea.MouseButtonLeft:
			if !inside {
				return m, nil
			}
			if !m.board.Loaded() {
				return m, m.notLoaded()
			}
			removeHeld := msg.Alt || msg.Ctrl || m.removeMode
			if m.board.PointerDown(cell, removeHeld) {
				m.cursor = cell
			}
		}
		return m, nil

	case tea.MouseActionMotion:
		if inside {
			m.board.PointerEnter(cell)
		}
		return m, nil

	case tea.MouseActionRelease:
		if state, _ := m.board.Gesture(); state == grid.StateIdle {
			return m, nil
		}
		if inside {
			m.board.PointerEnter(cell)
			return m, m.persist(m.board.PointerUp())
		}
		return m, m.persistAll(m.board.ReleaseOutside())
	}

	return m, nil
}

// persist hands a resolved batch to the reconciler.
func (m Model) persist(batch reconcile.Batch) tea.Cmd {
	if batch.Empty() {
		return nil
	}
	m.log.Debug("persisting batch",
		zap.String("batch", batch.ID.String()),
		zap.Int("ops", len(batch.Ops)),
	)
	return commands.Sync(m.reconciler, batch)
}

// notLoaded reports an edit refused because the week has no data yet.
func (m *Model) notLoaded() tea.Cmd {
	if m.loading {
		m.setStatus("Week is still loading", false)
		return clearStatusAfter(statusTTL)
	}
	m.setStatus("Week is not loaded, press R to reload", true)
	return clearStatusAfter(errorTTL)
}

func (m Model) persistAll(batches []reconcile.Batch) tea.Cmd {
	if len(batches) > 0 {
		m.log.Debug("gesture released off grid", zap.Int("batches", len(batches)))
	}
	return commands.SyncAll(m.reconciler, batches)
}
