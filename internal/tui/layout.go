package tui

import (
	"github.com/javiermolinar/rota/internal/grid"
	"github.com/javiermolinar/rota/internal/roster"
)

// Screen geometry. The grid starts below the title and day header; the
// hour gutter holds "HH:00" plus a reset marker.
const (
	titleLines   = 1
	headerLines  = 1
	gridTop      = titleLines + headerLines
	footerLines  = 3
	gutterWidth  = 7
	minColWidth  = 6
	maxColWidth  = 24
	defaultWidth = gutterWidth + roster.DaysPerWeek*minColWidth
)

func (m Model) calculateColWidth() int {
	width := m.width
	if width <= 0 {
		width = defaultWidth
	}
	w := (width - gutterWidth) / roster.DaysPerWeek
	return max(minColWidth, min(maxColWidth, w))
}

// visibleRows returns how many hour rows fit on screen.
func (m Model) visibleRows() int {
	if m.height <= 0 {
		return roster.HoursPerDay
	}
	rows := m.height - gridTop - footerLines
	return max(1, min(roster.HoursPerDay, rows))
}

func (m *Model) ensureCursorVisible() {
	visible := m.visibleRows()
	if m.cursor.Row < m.scrollOffset {
		m.scrollOffset = m.cursor.Row
	}
	if m.cursor.Row >= m.scrollOffset+visible {
		m.scrollOffset = m.cursor.Row - visible + 1
	}
	m.clampScroll()
}

func (m *Model) clampScroll() {
	maxOffset := max(0, roster.HoursPerDay-m.visibleRows())
	m.scrollOffset = max(0, min(maxOffset, m.scrollOffset))
}

// cellAt maps a terminal coordinate to a grid cell.
func (m Model) cellAt(x, y int) (grid.Cell, bool) {
	if x < gutterWidth || y < gridTop {
		return grid.Cell{}, false
	}
	row := y - gridTop
	if row >= m.visibleRows() {
		return grid.Cell{}, false
	}
	day := (x - gutterWidth) / m.colWidth
	if day >= roster.DaysPerWeek {
		return grid.Cell{}, false
	}
	return grid.Cell{Day: day, Row: row + m.scrollOffset}, row+m.scrollOffset < roster.HoursPerDay
}
