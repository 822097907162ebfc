package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/javiermolinar/rota/internal/roster"
	"github.com/javiermolinar/rota/internal/tui/commands"
)

const (
	statusTTL = 3 * time.Second
	errorTTL  = 5 * time.Second
)

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case tea.MouseMsg:
		return m.handleMouseMsg(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.colWidth = m.calculateColWidth()
		m.prompt.Width = max(10, m.width-len(m.prompt.Prompt)-2)
		m.ensureCursorVisible()
		return m, nil

	case commands.WeekLoadedMsg:
		if m.board.Replace(msg.Generation, msg.Records) {
			m.loading = false
		}
		return m, nil

	case commands.SyncedMsg:
		report := msg.Report
		current := m.board.Settle(report)
		if err := report.Err(); err != nil {
			m.log.Warn("batch partially failed",
				zap.String("batch", report.BatchID.String()),
				zap.Bool("current_week", current),
				zap.Error(err),
			)
			m.setStatus(failedStatus(report.FailedRefs()), true)
			return m, clearStatusAfter(errorTTL)
		}
		return m, nil

	case commands.CopiedMsg:
		m.setStatus(fmt.Sprintf("Copied roster (%d lines)", msg.Lines), false)
		return m, clearStatusAfter(statusTTL)

	case commands.ErrMsg:
		m.loading = false
		m.log.Error("command failed", zap.Error(msg.Err))
		m.setStatus(fmt.Sprintf("Error: %v", msg.Err), true)
		return m, clearStatusAfter(errorTTL)

	case commands.StatusMsgCmd:
		m.setStatus(msg.Msg, false)
		return m, clearStatusAfter(statusTTL)

	case commands.ClearStatusMsg:
		if !m.now().Before(m.statusTime) {
			m.statusMsg = ""
			m.statusError = false
		}
		return m, nil
	}

	if m.mode == ModePrompt {
		var cmd tea.Cmd
		m.prompt, cmd = m.prompt.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *Model) setStatus(text string, isErr bool) {
	m.statusMsg = text
	m.statusError = isErr
	ttl := statusTTL
	if isErr {
		ttl = errorTTL
	}
	m.statusTime = m.now().Add(ttl)
}

// failedStatus names the cells of a failed batch, eliding past a few.
func failedStatus(refs []roster.SlotRef) string {
	const shown = 3
	names := make([]string, 0, shown)
	for _, ref := range refs[:min(len(refs), shown)] {
		names = append(names, fmt.Sprintf("%s %02d:00", ref.Date, ref.Hour))
	}
	list := strings.Join(names, ", ")
	if len(refs) > shown {
		list += fmt.Sprintf(" +%d more", len(refs)-shown)
	}
	return fmt.Sprintf("%d slot update(s) failed (%s), press r to retry", len(refs), list)
}

func clearStatusAfter(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return commands.ClearStatusMsg{}
	})
}
