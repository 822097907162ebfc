package ui

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/javiermolinar/rota/internal/board"
	"github.com/javiermolinar/rota/internal/reconcile"
	"github.com/javiermolinar/rota/internal/roster"
)

func (a *App) assignCmd() *cobra.Command {
	var (
		date  string
		from  string
		to    string
		notes string
	)

	cmd := &cobra.Command{
		Use:   "assign",
		Short: "Take a range of hours on one day",
		Long: `Assign yourself to every hour from --from to --to inclusive.

Ranges may not cross midnight. Hours you already hold keep their slot and
get the new notes.

Example:
  rota assign --date=2025-01-10 --from=9 --to=17 --notes="front desk"`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runBatch(cmd.Context(), cmd.OutOrStdout(), date, "Assigned", func(b *board.Board, day roster.DateKey) (reconcile.Batch, error) {
				return b.BulkAssign(day.String(), from, to, notes)
			})
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "Date (YYYY-MM-DD or today, tomorrow, monday..., default: today)")
	cmd.Flags().StringVar(&from, "from", "", "First hour (0-23, required)")
	cmd.Flags().StringVar(&to, "to", "", "Last hour (0-23, required)")
	cmd.Flags().StringVar(&notes, "notes", "", "Free-text notes for each slot")

	_ = cmd.MarkFlagRequired("from")
	_ = cmd.MarkFlagRequired("to")

	return cmd
}

func (a *App) unassignCmd() *cobra.Command {
	var (
		date string
		from string
		to   string
	)

	cmd := &cobra.Command{
		Use:   "unassign",
		Short: "Drop a range of hours on one day",
		Long: `Remove yourself from every hour from --from to --to inclusive.

Example:
  rota unassign --date=tomorrow --from=12 --to=13`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runBatch(cmd.Context(), cmd.OutOrStdout(), date, "Removed", func(b *board.Board, day roster.DateKey) (reconcile.Batch, error) {
				return b.BulkUnassign(day.String(), from, to)
			})
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "Date (YYYY-MM-DD or relative, default: today)")
	cmd.Flags().StringVar(&from, "from", "", "First hour (0-23, required)")
	cmd.Flags().StringVar(&to, "to", "", "Last hour (0-23, required)")

	_ = cmd.MarkFlagRequired("from")
	_ = cmd.MarkFlagRequired("to")

	return cmd
}

func (a *App) toggleCmd() *cobra.Command {
	var (
		date string
		hour string
	)

	cmd := &cobra.Command{
		Use:   "toggle",
		Short: "Take or drop a single hour",
		Long: `Toggle your assignment for one hour, like clicking a cell.

Example:
  rota toggle --date=2025-01-10 --hour=14`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runBatch(cmd.Context(), cmd.OutOrStdout(), date, "Toggled", func(b *board.Board, day roster.DateKey) (reconcile.Batch, error) {
				h, err := roster.ParseHour(hour)
				if err != nil {
					return reconcile.Batch{}, &roster.ValidationError{Field: "hour", Value: hour, Err: err}
				}
				cell, ok := b.CellOf(day, h)
				if !ok {
					return reconcile.Batch{}, fmt.Errorf("slot %s %02d:00 is not on the grid", day, h)
				}
				return b.Toggle(cell), nil
			})
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "Date (YYYY-MM-DD or relative, default: today)")
	cmd.Flags().StringVar(&hour, "hour", "", "Hour (0-23, required)")

	_ = cmd.MarkFlagRequired("hour")

	return cmd
}

// batchFunc produces the changes for one command against a loaded board.
type batchFunc func(b *board.Board, day roster.DateKey) (reconcile.Batch, error)

// runBatch loads the week of dateFlag, applies fn and persists the result.
// Failed cells are reported and turn into a non-nil error.
func (a *App) runBatch(ctx context.Context, w io.Writer, dateFlag, verb string, fn batchFunc) error {
	anchor, err := parseDateFlag(dateFlag, a.now())
	if err != nil {
		return err
	}
	b, err := a.loadBoard(ctx, anchor)
	if err != nil {
		return err
	}

	batch, err := fn(b, roster.DateKeyOf(anchor))
	if err != nil {
		return err
	}

	report := a.reconciler().Run(ctx, batch)
	b.Settle(report)
	a.log.Debug("batch settled",
		zap.String("batch", batch.ID.String()),
		zap.Int("ok", len(report.Succeeded)),
		zap.Int("failed", len(report.Failures)),
		zap.Duration("elapsed", report.Elapsed),
	)

	printReport(w, verb, report)
	return report.Err()
}
