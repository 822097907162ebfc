package board

import (
	"fmt"
	"strings"

	"github.com/javiermolinar/rota/internal/roster"
)

// Export renders the visible week as plain text, one line per occupied
// slot, days in column order and hours in display order.
func (b *Board) Export() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Roster %s - %s\n", b.keys[0], b.keys[roster.DaysPerWeek-1])

	for i, day := range b.days {
		var lines []string
		for _, hour := range b.hours {
			slot := b.store.Slot(b.keys[i], hour)
			if len(slot) == 0 {
				continue
			}
			lines = append(lines, fmt.Sprintf("  %02d:00  %s", hour, formatSlot(slot)))
		}
		if len(lines) == 0 {
			continue
		}
		fmt.Fprintf(&sb, "\n%s\n", day.Format("Mon Jan 2"))
		sb.WriteString(strings.Join(lines, "\n"))
		sb.WriteString("\n")
	}
	return sb.String()
}

func formatSlot(slot []roster.Assignment) string {
	names := make([]string, len(slot))
	for i, a := range slot {
		name := a.UserName
		if name == "" {
			name = a.UserID
		}
		if a.Notes != "" {
			name += " (" + a.Notes + ")"
		}
		names[i] = name
	}
	return strings.Join(names, ", ")
}
