package ui

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/javiermolinar/rota/internal/board"
	"github.com/javiermolinar/rota/internal/dateutil"
	"github.com/javiermolinar/rota/internal/reconcile"
	"github.com/javiermolinar/rota/internal/roster"
)

// weekOpts configures the week table.
type weekOpts struct {
	Markers map[int]bool // local hours where a reset falls
	Width   int          // maximum line width (0 = no limit)
	Empty   bool         // also print unoccupied hours
}

// printWeek prints the board's week grouped by day, hours in display
// order starting at the shift start.
func printWeek(w io.Writer, b *board.Board, opts weekOpts) {
	days := b.Days()
	header := fmt.Sprintf("WEEK: %s - %s", days[0].Format("Mon Jan 2"), days[roster.DaysPerWeek-1].Format("Mon Jan 2, 2006"))
	rule := strings.Repeat("─", min(max(opts.Width, 40), 74))

	fmt.Fprintf(w, "\n  %s\n", formatHeader(header))
	fmt.Fprintln(w, rule)

	keys := b.Keys()
	self := b.Actor().ID
	total := 0
	for i, day := range days {
		var rows []string
		for _, hour := range b.Hours() {
			slot := b.Store().Slot(keys[i], hour)
			if len(slot) == 0 && !opts.Empty {
				continue
			}
			rows = append(rows, formatRow(hour, slot, self, opts))
			total += len(slot)
		}
		if len(rows) == 0 {
			continue
		}
		fmt.Fprintf(w, "  %s\n", formatHeader(day.Format("Mon Jan 2")))
		for _, row := range rows {
			fmt.Fprintln(w, row)
		}
		fmt.Fprintln(w)
	}

	if total == 0 {
		fmt.Fprintln(w, "  No shifts assigned this week.")
	}
	fmt.Fprintln(w, rule)
	fmt.Fprintf(w, "  Assignments: %d  |  Yours: %d\n", total, countMine(b))
}

func formatRow(hour int, slot []roster.Assignment, self string, opts weekOpts) string {
	marker := "  "
	if opts.Markers[hour] {
		marker = formatReset("▸ ")
	}

	names := make([]string, 0, len(slot))
	plain := 0
	for _, a := range slot {
		name := displayName(a)
		plain += len(name) + 2
		if opts.Width > 0 && plain > opts.Width-12 {
			names = append(names, formatMuted(fmt.Sprintf("+%d more", len(slot)-len(names))))
			break
		}
		if a.UserID == self {
			name = formatMine(name)
		}
		names = append(names, name)
	}
	if len(names) == 0 {
		names = append(names, formatMuted("-"))
	}
	return fmt.Sprintf("    %s%02d:00  %s", marker, hour, strings.Join(names, ", "))
}

func displayName(a roster.Assignment) string {
	name := a.UserName
	if name == "" {
		name = a.UserID
	}
	if a.Notes != "" {
		name += " (" + a.Notes + ")"
	}
	return name
}

func countMine(b *board.Board) int {
	n := 0
	self := b.Actor().ID
	for _, rec := range b.Store().Records() {
		if rec.UserID == self {
			n++
		}
	}
	return n
}

// printReport summarizes a settled batch.
func printReport(w io.Writer, verb string, report reconcile.Report) {
	if len(report.Succeeded) == 0 && len(report.Failures) == 0 {
		fmt.Fprintln(w, formatMuted("Nothing to change."))
		return
	}
	if n := len(report.Succeeded); n > 0 {
		fmt.Fprintln(w, formatOK(fmt.Sprintf("%s %d slot(s).", verb, n)))
	}
	for _, f := range report.Failures {
		fmt.Fprintf(w, "  %s %s: %v\n", formatFailed("✗"), f.Op.Ref, f.Err)
	}
}

// parseDateFlag accepts YYYY-MM-DD or a relative date; empty means today.
func parseDateFlag(s string, now time.Time) (time.Time, error) {
	d, err := dateutil.ParseRelativeDate(s, now)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return d, nil
}

// formatOffset renders a UTC offset as "+02:00".
func formatOffset(d time.Duration) string {
	sign := "+"
	if d < 0 {
		sign = "-"
		d = -d
	}
	return fmt.Sprintf("%s%02d:%02d", sign, int(d.Hours()), int(d.Minutes())%60)
}
