package tui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/javiermolinar/rota/internal/dateutil"
	"github.com/javiermolinar/rota/internal/grid"
	"github.com/javiermolinar/rota/internal/roster"
)

const helpText = "←↓↑→ move  space toggle  drag select (alt: remove)  x remove mode  b bulk  r retry  n/p week  t today  y copy  q quit"

// View renders the grid, title and footer.
func (m Model) View() string {
	lines := make([]string, 0, gridTop+m.visibleRows()+footerLines)
	lines = append(lines, m.renderTitle(), m.renderHeader())
	lines = append(lines, m.renderRows()...)
	lines = append(lines, m.renderFooter()...)
	return m.styles.App.Render(strings.Join(lines, "\n"))
}

func (m Model) renderTitle() string {
	days := m.board.Days()
	title := fmt.Sprintf("rota  %s - %s  %s",
		days[0].Format("Jan 2"),
		days[roster.DaysPerWeek-1].Format("Jan 2, 2006"),
		m.board.Actor().DisplayName,
	)
	if m.loading {
		title += "  loading..."
	}
	out := m.styles.Title.Render(title)

	if _, mode := m.board.Gesture(); m.removeMode || (m.gestureActive() && mode == grid.ModeRemove) {
		out += " " + m.styles.TitleRemove.Render("REMOVE")
	}
	if n := len(m.board.Failed()); n > 0 {
		out += " " + m.styles.StatusError.Render(strconv.Itoa(n)+" unsynced")
	}
	return out
}

func (m Model) renderHeader() string {
	var sb strings.Builder
	sb.WriteString(m.styles.HourGutter.Render(strings.Repeat(" ", gutterWidth)))

	today := m.now()
	for _, day := range m.board.Days() {
		label := fit(day.Format("Mon 2"), m.colWidth)
		style := m.styles.DayHeader
		if dateutil.SameDay(day, today) {
			style = m.styles.DayToday
		}
		sb.WriteString(style.Render(label))
	}
	return sb.String()
}

func (m Model) renderRows() []string {
	now := m.now()

	visible := m.visibleRows()
	rows := make([]string, 0, visible)
	for r := m.scrollOffset; r < m.scrollOffset+visible && r < roster.HoursPerDay; r++ {
		hour := m.board.Window().HourAt(r)

		var sb strings.Builder
		gutter := m.styles.HourGutter
		if hour == now.Hour() {
			gutter = m.styles.HourNow
		}
		sb.WriteString(gutter.Render(fmt.Sprintf("%02d:00", hour)))
		if m.projector.IsMarker(hour, now) {
			sb.WriteString(m.styles.ResetMarker.Render(" ▸"))
		} else {
			sb.WriteString(m.styles.HourGutter.Render("  "))
		}

		for d := 0; d < roster.DaysPerWeek; d++ {
			cell := grid.Cell{Day: d, Row: r}
			sb.WriteString(m.renderCell(cell))
		}
		rows = append(rows, sb.String())
	}
	return rows
}

func (m Model) renderCell(cell grid.Cell) string {
	slot := m.board.Slot(cell)
	label := cellLabel(slot, m.board.Actor().ID)
	style := m.cellStyle(cell, len(slot) > 0)
	return style.Render(fit(label, m.colWidth))
}

// cellStyle gives the in-progress selection precedence over stored state.
// The cursor reverses whichever style applies.
func (m Model) cellStyle(cell grid.Cell, occupied bool) lipgloss.Style {
	if m.board.IsSelected(cell) {
		if _, mode := m.board.Gesture(); mode == grid.ModeRemove {
			return m.styles.SelectRemove
		}
		return m.styles.SelectAdd
	}

	var style lipgloss.Style
	switch {
	case m.board.IsFailed(cell):
		style = m.styles.FailedCell
	case m.board.Mine(cell):
		style = m.styles.MineCell
	case occupied:
		style = m.styles.OthersCell
	case m.isPast(cell):
		style = m.styles.PastCell
	default:
		style = m.styles.EmptyCell
	}
	if cell == m.cursor {
		style = style.Reverse(true)
	}
	return style
}

func (m Model) isPast(cell grid.Cell) bool {
	date, hour, ok := m.board.CellRef(cell)
	if !ok {
		return false
	}
	slotEnd := date.Time(m.now().Location()).Add(time.Duration(hour+1) * time.Hour)
	return slotEnd.Before(m.now())
}

// cellLabel lists occupants, the acting user first as "me".
func cellLabel(slot []roster.Assignment, self string) string {
	if len(slot) == 0 {
		return "·"
	}
	names := make([]string, 0, len(slot))
	for _, a := range slot {
		if a.UserID == self {
			names = append([]string{"me"}, names...)
			continue
		}
		name := a.UserName
		if name == "" {
			name = a.UserID
		}
		names = append(names, name)
	}
	return strings.Join(names, ",")
}

// fit truncates s to width cells and pads it with spaces.
func fit(s string, width int) string {
	s = ansi.Truncate(" "+s, width-1, "…")
	if pad := width - ansi.StringWidth(s); pad > 0 {
		s += strings.Repeat(" ", pad)
	}
	return s
}

func (m Model) renderFooter() []string {
	status := m.styles.Status.Render(m.cursorSummary())
	if m.statusMsg != "" {
		style := m.styles.Status
		if m.statusError {
			style = m.styles.StatusError
		}
		status = style.Render(m.statusMsg)
	}

	prompt := ""
	if m.mode == ModePrompt {
		prompt = m.styles.Prompt.Render(m.prompt.View())
	}

	width := max(m.width, defaultWidth)
	return []string{
		prompt,
		ansi.Truncate(status, width, "…"),
		m.styles.Help.Render(ansi.Truncate(helpText, width, "…")),
	}
}

// cursorSummary describes the slot under the cursor.
func (m Model) cursorSummary() string {
	date, hour, ok := m.board.CellRef(m.cursor)
	if !ok {
		return ""
	}
	slot := m.board.Slot(m.cursor)
	if len(slot) == 0 {
		return fmt.Sprintf("%s %02d:00  free", date, hour)
	}
	parts := make([]string, len(slot))
	for i, a := range slot {
		name := a.UserName
		if name == "" {
			name = a.UserID
		}
		if a.Notes != "" {
			name += " (" + a.Notes + ")"
		}
		parts[i] = name
	}
	return fmt.Sprintf("%s %02d:00  %s", date, hour, strings.Join(parts, ", "))
}

func (m Model) gestureActive() bool {
	state, _ := m.board.Gesture()
	return state != grid.StateIdle
}
