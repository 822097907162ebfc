// Package commands provides TUI command constructors and message types.
package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/javiermolinar/rota/internal/board"
	"github.com/javiermolinar/rota/internal/reconcile"
	"github.com/javiermolinar/rota/internal/roster"
)

// loadTimeout bounds a week query.
const loadTimeout = 15 * time.Second

// WeekLoadedMsg carries the records of one week query.
type WeekLoadedMsg struct {
	Generation uint64
	Records    []roster.Record
}

// SyncedMsg carries the outcome of persisting one batch.
type SyncedMsg struct {
	Report reconcile.Report
}

// CopiedMsg is sent after the roster was placed on the clipboard.
type CopiedMsg struct {
	Lines int
}

// ErrMsg is sent when an error occurs.
type ErrMsg struct {
	Err error
}

// StatusMsgCmd is sent for temporary status messages.
type StatusMsgCmd struct {
	Msg string
}

// ClearStatusMsg is sent to clear the status message.
type ClearStatusMsg struct{}

// LoadWeek runs the range query for req.
func LoadWeek(repo roster.Repository, req board.LoadRequest) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
		defer cancel()

		records, err := repo.QueryRange(ctx, req.Start, req.End)
		if err != nil {
			return ErrMsg{Err: fmt.Errorf("loading week of %s: %w", roster.DateKeyOf(req.Start), err)}
		}
		return WeekLoadedMsg{Generation: req.Generation, Records: records}
	}
}

// Sync persists batch in the background. Empty batches produce no command.
func Sync(rec *reconcile.Reconciler, batch reconcile.Batch) tea.Cmd {
	if batch.Empty() {
		return nil
	}
	return func() tea.Msg {
		return SyncedMsg{Report: rec.Run(context.Background(), batch)}
	}
}

// SyncAll persists several batches, one command each.
func SyncAll(rec *reconcile.Reconciler, batches []reconcile.Batch) tea.Cmd {
	cmds := make([]tea.Cmd, 0, len(batches))
	for _, b := range batches {
		if cmd := Sync(rec, b); cmd != nil {
			cmds = append(cmds, cmd)
		}
	}
	return tea.Batch(cmds...)
}

// Copy writes text to the system clipboard.
func Copy(text string, lines int) tea.Cmd {
	return func() tea.Msg {
		if err := clipboard.WriteAll(text); err != nil {
			return ErrMsg{Err: fmt.Errorf("copying roster: %w", err)}
		}
		return CopiedMsg{Lines: lines}
	}
}

// Status sends a temporary status message.
func Status(format string, args ...any) tea.Cmd {
	msg := fmt.Sprintf(format, args...)
	return func() tea.Msg {
		return StatusMsgCmd{Msg: msg}
	}
}
