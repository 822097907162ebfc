// Package grid turns raw pointer events over the week grid into toggle and
// batch operations.
package grid

import (
	"slices"
	"time"
)

// ClickThreshold is the longest press that still counts as a quick click.
const ClickThreshold = 200 * time.Millisecond

// Cell addresses a grid cell by display position: Day is the column within
// the week, Row is the index into the ordered hours.
type Cell struct {
	Day int
	Row int
}

// State is the gesture state.
type State int

const (
	StateIdle State = iota
	StatePointerDown
	StateDragging
)

func (s State) String() string {
	switch s {
	case StatePointerDown:
		return "pointer-down"
	case StateDragging:
		return "dragging"
	default:
		return "idle"
	}
}

// Mode is the effect a drag applies to its cells.
type Mode int

const (
	ModeAdd Mode = iota
	ModeRemove
)

func (m Mode) String() string {
	if m == ModeRemove {
		return "remove"
	}
	return "add"
}

// Kind classifies a resolved gesture.
type Kind int

const (
	KindNone   Kind = iota // nothing to apply
	KindToggle             // quick click: toggle Cells[0]
	KindBatch              // drag: apply Mode to every cell
)

// Outcome is the result of a resolved gesture.
type Outcome struct {
	Kind  Kind
	Mode  Mode
	Cells []Cell
}

// Controller is the press/drag/release state machine.
//
// Idle -> PointerDown on Press, PointerDown -> Dragging on Enter over
// another cell, and back to Idle on Release. The remove modifier is sampled
// once at press time.
type Controller struct {
	days int
	rows int
	now  func() time.Time

	hub       *ReleaseHub
	onRelease func(Outcome)
	cancel    func()

	state     State
	origin    Cell
	current   Cell
	pressedAt time.Time
	moved     bool
	remove    bool
	selection map[Cell]struct{}
}

// Option configures a Controller.
type Option func(*Controller)

// WithClock injects the time source.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) { c.now = now }
}

// WithReleaseHub makes gestures resolve on releases outside the grid too.
// onRelease receives the outcome of a gesture the hub resolved.
func WithReleaseHub(hub *ReleaseHub, onRelease func(Outcome)) Option {
	return func(c *Controller) {
		c.hub = hub
		c.onRelease = onRelease
	}
}

// NewController creates a controller for a days x rows grid.
func NewController(days, rows int, opts ...Option) *Controller {
	c := &Controller{
		days: days,
		rows: rows,
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// State returns the current gesture state.
func (c *Controller) State() State {
	return c.state
}

// Active reports whether a gesture is in progress.
func (c *Controller) Active() bool {
	return c.state != StateIdle
}

// Mode returns the mode fixed at press time.
func (c *Controller) Mode() Mode {
	if c.remove {
		return ModeRemove
	}
	return ModeAdd
}

// Contains reports whether cell lies inside the grid.
func (c *Controller) Contains(cell Cell) bool {
	return cell.Day >= 0 && cell.Day < c.days && cell.Row >= 0 && cell.Row < c.rows
}

// Press starts a gesture on cell. A gesture already in progress is
// discarded. Returns false if cell is outside the grid.
func (c *Controller) Press(cell Cell, removeHeld bool) bool {
	if !c.Contains(cell) {
		return false
	}
	c.reset()

	c.state = StatePointerDown
	c.origin = cell
	c.current = cell
	c.pressedAt = c.now()
	c.remove = removeHeld
	c.selection = map[Cell]struct{}{cell: {}}

	if c.hub != nil {
		c.cancel = c.hub.Subscribe(c.releaseOutside)
	}
	return true
}

// Enter records the pointer moving over cell.
func (c *Controller) Enter(cell Cell) {
	if c.state == StateIdle || !c.Contains(cell) || cell == c.current {
		return
	}
	c.moved = true
	c.state = StateDragging
	c.current = cell

	rect := Rectangle(c.origin, cell)
	c.selection = make(map[Cell]struct{}, len(rect))
	for _, sc := range rect {
		c.selection[sc] = struct{}{}
	}
}

// Release resolves the gesture and returns the controller to Idle.
func (c *Controller) Release() Outcome {
	if c.state == StateIdle {
		return Outcome{}
	}
	defer c.reset()

	elapsed := c.now().Sub(c.pressedAt)
	if !c.moved && elapsed < ClickThreshold {
		return Outcome{Kind: KindToggle, Mode: ModeAdd, Cells: []Cell{c.origin}}
	}
	if len(c.selection) > 1 {
		return Outcome{Kind: KindBatch, Mode: c.Mode(), Cells: c.Selected()}
	}
	return Outcome{}
}

// Cancel abandons the gesture without an outcome.
func (c *Controller) Cancel() {
	c.reset()
}

// Selected returns the selected cells ordered by day, then row.
func (c *Controller) Selected() []Cell {
	cells := make([]Cell, 0, len(c.selection))
	for cell := range c.selection {
		cells = append(cells, cell)
	}
	sortCells(cells)
	return cells
}

// IsSelected reports whether cell is in the current selection.
func (c *Controller) IsSelected(cell Cell) bool {
	_, ok := c.selection[cell]
	return ok
}

func (c *Controller) releaseOutside() {
	out := c.Release()
	if out.Kind != KindNone && c.onRelease != nil {
		c.onRelease(out)
	}
}

func (c *Controller) reset() {
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	c.state = StateIdle
	c.pressedAt = time.Time{}
	c.moved = false
	c.remove = false
	c.selection = nil
}

// Rectangle returns every cell in the rectangle spanned by a and b,
// inclusive, ordered by day then row.
func Rectangle(a, b Cell) []Cell {
	minDay, maxDay := min(a.Day, b.Day), max(a.Day, b.Day)
	minRow, maxRow := min(a.Row, b.Row), max(a.Row, b.Row)

	cells := make([]Cell, 0, (maxDay-minDay+1)*(maxRow-minRow+1))
	for d := minDay; d <= maxDay; d++ {
		for r := minRow; r <= maxRow; r++ {
			cells = append(cells, Cell{Day: d, Row: r})
		}
	}
	return cells
}

func sortCells(cells []Cell) {
	slices.SortFunc(cells, func(a, b Cell) int {
		if a.Day != b.Day {
			return a.Day - b.Day
		}
		return a.Row - b.Row
	})
}
