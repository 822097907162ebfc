// Package board holds the interactive roster session: the visible week, its
// store, the gesture controller and the bookkeeping of unsynced cells.
package board

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/javiermolinar/rota/internal/grid"
	"github.com/javiermolinar/rota/internal/reconcile"
	"github.com/javiermolinar/rota/internal/roster"
)

// ErrNotLoaded is returned for edits on a week whose assignments have not
// been loaded yet.
var ErrNotLoaded = errors.New("week is not loaded yet")

// LoadRequest describes the range query that rebuilds the store.
type LoadRequest struct {
	Generation uint64
	Start      time.Time
	End        time.Time
}

// Board is the state behind the week grid. It is not safe for concurrent
// use; all methods are called from the UI loop. Persistence happens outside
// through the batches it returns.
type Board struct {
	window roster.WeekWindow
	actor  roster.Actor
	log    *zap.Logger
	now    func() time.Time

	anchor     time.Time
	days       [roster.DaysPerWeek]time.Time
	keys       [roster.DaysPerWeek]roster.DateKey
	hours      [roster.HoursPerDay]int
	store      roster.Store
	generation uint64
	loaded     bool

	hub       *grid.ReleaseHub
	selection *grid.Controller
	pending   []reconcile.Batch

	failed map[roster.SlotRef]unsynced
}

// unsynced is a failed call and the generation of the batch that made it.
type unsynced struct {
	failure    reconcile.Failure
	generation uint64
}

// Option configures a Board.
type Option func(*Board)

// WithLogger sets the logger.
func WithLogger(log *zap.Logger) Option {
	return func(b *Board) { b.log = log }
}

// WithClock injects the time source used for gestures.
func WithClock(now func() time.Time) Option {
	return func(b *Board) { b.now = now }
}

// WithReleaseHub shares a pointer-release hub with the caller.
func WithReleaseHub(hub *grid.ReleaseHub) Option {
	return func(b *Board) { b.hub = hub }
}

// New creates a board showing the week containing anchor. The acting user
// is resolved once here and kept for the session.
func New(window roster.WeekWindow, identity roster.Identity, anchor time.Time, opts ...Option) *Board {
	b := &Board{
		window: window,
		actor:  identity.CurrentActingUser(),
		log:    zap.NewNop(),
		now:    time.Now,
		hours:  window.OrderedHours(),
		failed: make(map[roster.SlotRef]unsynced),
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.hub == nil {
		b.hub = grid.NewReleaseHub()
	}
	b.selection = grid.NewController(roster.DaysPerWeek, roster.HoursPerDay,
		grid.WithClock(b.now),
		grid.WithReleaseHub(b.hub, func(out grid.Outcome) {
			b.pending = append(b.pending, b.apply(out))
		}),
	)
	b.setWeek(anchor)
	return b
}

// Actor returns the acting user.
func (b *Board) Actor() roster.Actor { return b.actor }

// Window returns the week layout.
func (b *Board) Window() roster.WeekWindow { return b.window }

// Anchor returns the anchor date.
func (b *Board) Anchor() time.Time { return b.anchor }

// Days returns the visible days.
func (b *Board) Days() [roster.DaysPerWeek]time.Time { return b.days }

// Keys returns the visible date keys.
func (b *Board) Keys() [roster.DaysPerWeek]roster.DateKey { return b.keys }

// Hours returns the display row order.
func (b *Board) Hours() [roster.HoursPerDay]int { return b.hours }

// Store returns the current store.
func (b *Board) Store() roster.Store { return b.store }

// Generation returns the load generation; it changes on every rebuild.
func (b *Board) Generation() uint64 { return b.generation }

// Loaded reports whether the current generation has been populated.
func (b *Board) Loaded() bool { return b.loaded }

// Hub returns the release hub gestures subscribe to.
func (b *Board) Hub() *grid.ReleaseHub { return b.hub }

// Goto moves the anchor. It returns a load request and true when the anchor
// lands in a different week; the store is emptied until Replace.
func (b *Board) Goto(anchor time.Time) (LoadRequest, bool) {
	if b.loaded && b.window.SameWeek(b.anchor, anchor) {
		b.anchor = anchor
		return LoadRequest{}, false
	}
	b.setWeek(anchor)
	return b.request(), true
}

// Shift moves the anchor by whole weeks.
func (b *Board) Shift(weeks int) LoadRequest {
	b.setWeek(b.anchor.AddDate(0, 0, 7*weeks))
	return b.request()
}

// Reload discards the store and returns a request for the same week.
func (b *Board) Reload() LoadRequest {
	b.setWeek(b.anchor)
	return b.request()
}

// Replace installs the result of a range query. Results for an older
// generation are dropped and false is returned.
func (b *Board) Replace(generation uint64, records []roster.Record) bool {
	if generation != b.generation {
		b.log.Debug("dropping stale week load",
			zap.Uint64("generation", generation),
			zap.Uint64("current", b.generation),
		)
		return false
	}
	b.store = roster.FromRecords(records, b.keys[:]...)
	b.loaded = true
	return true
}

// Load runs the range query synchronously.
func (b *Board) Load(ctx context.Context, repo roster.Repository) error {
	req := b.request()
	records, err := repo.QueryRange(ctx, req.Start, req.End)
	if err != nil {
		return fmt.Errorf("loading week of %s: %w", roster.DateKeyOf(req.Start), err)
	}
	b.Replace(req.Generation, records)
	return nil
}

func (b *Board) setWeek(anchor time.Time) {
	b.selection.Cancel()
	b.anchor = anchor
	b.days = b.window.Days(anchor)
	b.keys = b.window.Keys(anchor)
	b.store = roster.NewStore()
	b.generation++
	b.loaded = false
	b.pending = nil
}

func (b *Board) request() LoadRequest {
	return LoadRequest{Generation: b.generation, Start: b.days[0], End: b.days[roster.DaysPerWeek-1]}
}

// CellRef resolves a display cell to its storage date and canonical hour.
func (b *Board) CellRef(cell grid.Cell) (roster.DateKey, int, bool) {
	if !b.selection.Contains(cell) {
		return "", 0, false
	}
	return b.keys[cell.Day], b.hours[cell.Row], true
}

// CellOf returns the display cell of a storage slot in the visible week.
func (b *Board) CellOf(date roster.DateKey, hour int) (grid.Cell, bool) {
	row := b.window.HourRow(hour)
	if row < 0 {
		return grid.Cell{}, false
	}
	for i, k := range b.keys {
		if k == date {
			return grid.Cell{Day: i, Row: row}, true
		}
	}
	return grid.Cell{}, false
}

// Slot returns the assignments shown in cell.
func (b *Board) Slot(cell grid.Cell) []roster.Assignment {
	date, hour, ok := b.CellRef(cell)
	if !ok {
		return nil
	}
	return b.store.Slot(date, hour)
}

// Mine reports whether the acting user occupies cell.
func (b *Board) Mine(cell grid.Cell) bool {
	date, hour, ok := b.CellRef(cell)
	return ok && b.store.Has(date, hour, b.actor.ID)
}

// PointerDown starts a gesture. Presses are refused until the week has
// loaded, since the toggle direction depends on the stored slots.
func (b *Board) PointerDown(cell grid.Cell, removeHeld bool) bool {
	if !b.loaded {
		return false
	}
	return b.selection.Press(cell, removeHeld)
}

// PointerEnter extends the gesture over cell.
func (b *Board) PointerEnter(cell grid.Cell) {
	b.selection.Enter(cell)
}

// PointerUp resolves the gesture inside the grid. The store is updated
// before the returned batch is handed to persistence.
func (b *Board) PointerUp() reconcile.Batch {
	return b.apply(b.selection.Release())
}

// ReleaseOutside broadcasts a release that happened off the grid and
// returns whatever batches the resolved gestures produced.
func (b *Board) ReleaseOutside() []reconcile.Batch {
	b.hub.Release()
	return b.TakePending()
}

// TakePending returns and clears batches resolved through the hub.
func (b *Board) TakePending() []reconcile.Batch {
	out := b.pending
	b.pending = nil
	return out
}

// Gesture returns the gesture state and mode for rendering.
func (b *Board) Gesture() (grid.State, grid.Mode) {
	return b.selection.State(), b.selection.Mode()
}

// IsSelected reports whether cell is in the in-progress selection.
func (b *Board) IsSelected(cell grid.Cell) bool {
	return b.selection.IsSelected(cell)
}

// Toggle assigns the actor to cell if absent, or removes them if present.
// It produces an empty batch while the week is loading.
func (b *Board) Toggle(cell grid.Cell) reconcile.Batch {
	return b.apply(grid.Outcome{Kind: grid.KindToggle, Cells: []grid.Cell{cell}})
}

func (b *Board) apply(out grid.Outcome) reconcile.Batch {
	if !b.loaded {
		b.log.Debug("ignoring gesture before week load", zap.Uint64("generation", b.generation))
		return reconcile.NewBatch(b.generation)
	}

	var ops []reconcile.Op

	switch out.Kind {
	case grid.KindToggle:
		for _, cell := range out.Cells {
			date, hour, ok := b.CellRef(cell)
			if !ok {
				continue
			}
			if b.store.Has(date, hour, b.actor.ID) {
				ops = append(ops, b.unassign(date, hour))
			} else {
				ops = append(ops, b.assign(date, hour, b.actor.Assignment("")))
			}
		}
	case grid.KindBatch:
		for _, cell := range out.Cells {
			date, hour, ok := b.CellRef(cell)
			if !ok {
				continue
			}
			if out.Mode == grid.ModeRemove {
				ops = append(ops, b.unassign(date, hour))
				continue
			}
			a := b.actor.Assignment("")
			if existing, found := b.store.Lookup(date, hour, b.actor.ID); found {
				a.Notes = existing.Notes
			}
			ops = append(ops, b.assign(date, hour, a))
		}
	default:
		return reconcile.NewBatch(b.generation)
	}

	b.log.Debug("gesture applied",
		zap.Int("kind", int(out.Kind)),
		zap.String("mode", out.Mode.String()),
		zap.Int("cells", len(out.Cells)),
	)
	return reconcile.NewBatch(b.generation, ops...)
}

func (b *Board) assign(date roster.DateKey, hour int, a roster.Assignment) reconcile.Op {
	b.store = b.store.Assign(date, hour, a)
	return reconcile.WriteOp(date, hour, a)
}

func (b *Board) unassign(date roster.DateKey, hour int) reconcile.Op {
	b.store = b.store.Unassign(date, hour, b.actor.ID)
	return reconcile.DeleteOp(roster.SlotRef{Date: date, Hour: hour, UserID: b.actor.ID})
}

// BulkAssign validates and applies a contiguous hour range for the actor.
// Dates outside the visible week are persisted without touching the store.
func (b *Board) BulkAssign(date, start, end, notes string) (reconcile.Batch, error) {
	r, err := roster.ParseBulkRange(date, start, end, notes)
	if err != nil {
		return reconcile.Batch{}, err
	}
	if err := b.editable(r.Date); err != nil {
		return reconcile.Batch{}, err
	}

	if b.visible(r.Date) {
		b.store = r.Apply(b.store, b.actor)
	}
	a := b.actor.Assignment(r.Notes)
	ops := make([]reconcile.Op, 0, len(r.Hours()))
	for _, h := range r.Hours() {
		ops = append(ops, reconcile.WriteOp(r.Date, h, a))
	}
	return reconcile.NewBatch(b.generation, ops...), nil
}

// BulkUnassign removes the actor from a contiguous hour range.
func (b *Board) BulkUnassign(date, start, end string) (reconcile.Batch, error) {
	r, err := roster.ParseBulkRange(date, start, end, "")
	if err != nil {
		return reconcile.Batch{}, err
	}
	if err := b.editable(r.Date); err != nil {
		return reconcile.Batch{}, err
	}
	if b.visible(r.Date) {
		b.store = r.Remove(b.store, b.actor)
	}
	ops := make([]reconcile.Op, 0, len(r.Hours()))
	for _, ref := range r.Refs(b.actor) {
		ops = append(ops, reconcile.DeleteOp(ref))
	}
	return reconcile.NewBatch(b.generation, ops...), nil
}

func (b *Board) visible(date roster.DateKey) bool {
	return slices.Contains(b.keys[:], date)
}

// editable rejects edits to the visible week before it has loaded. Other
// weeks never touch the store and are always accepted.
func (b *Board) editable(date roster.DateKey) error {
	if !b.loaded && b.visible(date) {
		return ErrNotLoaded
	}
	return nil
}

// Settle folds a persistence report back into the board. Failures are
// recorded whatever week is showing, so a write that fails after the user
// paged away can still be retried. It returns false for reports from an
// older generation.
func (b *Board) Settle(report reconcile.Report) bool {
	for _, op := range report.Succeeded {
		if u, ok := b.failed[op.Ref]; ok && u.generation <= report.Generation {
			delete(b.failed, op.Ref)
		}
	}
	for _, f := range report.Failures {
		if u, ok := b.failed[f.Op.Ref]; ok && u.generation > report.Generation {
			continue
		}
		b.failed[f.Op.Ref] = unsynced{failure: f, generation: report.Generation}
	}

	if report.Generation != b.generation {
		b.log.Debug("settled report for previous week",
			zap.String("batch", report.BatchID.String()),
			zap.Int("failed", len(report.Failures)),
		)
		return false
	}
	return true
}

// Failed returns the unsynced cells of every week, ordered by date, hour
// and user.
func (b *Board) Failed() []reconcile.Failure {
	out := make([]reconcile.Failure, 0, len(b.failed))
	for _, u := range b.failed {
		out = append(out, u.failure)
	}
	slices.SortFunc(out, func(x, y reconcile.Failure) int {
		return compareRefs(x.Op.Ref, y.Op.Ref)
	})
	return out
}

// IsFailed reports whether the actor's entry in cell failed to sync.
func (b *Board) IsFailed(cell grid.Cell) bool {
	date, hour, ok := b.CellRef(cell)
	if !ok {
		return false
	}
	_, failed := b.failed[roster.SlotRef{Date: date, Hour: hour, UserID: b.actor.ID}]
	return failed
}

// RetryFailed rebuilds a batch for every unsynced cell. Cells edited in the
// current generation push their local state again; the rest replay the
// failed call. Nothing is retried while the week is loading.
func (b *Board) RetryFailed() reconcile.Batch {
	if !b.loaded {
		return reconcile.NewBatch(b.generation)
	}

	failed := b.Failed()
	ops := make([]reconcile.Op, 0, len(failed))
	for _, f := range failed {
		ref := f.Op.Ref
		if !b.visible(ref.Date) {
			ops = append(ops, f.Op)
			continue
		}
		if b.failed[ref].generation != b.generation {
			// The week was reloaded since; show the intent again.
			b.replay(f.Op)
			ops = append(ops, f.Op)
			continue
		}
		if a, ok := b.store.Lookup(ref.Date, ref.Hour, ref.UserID); ok {
			ops = append(ops, reconcile.WriteOp(ref.Date, ref.Hour, a))
			continue
		}
		ops = append(ops, reconcile.DeleteOp(ref))
	}
	return reconcile.NewBatch(b.generation, ops...)
}

func (b *Board) replay(op reconcile.Op) {
	ref := op.Ref
	if op.Kind == reconcile.KindDelete {
		b.store = b.store.Unassign(ref.Date, ref.Hour, ref.UserID)
		return
	}
	b.store = b.store.Assign(ref.Date, ref.Hour, op.Record().Assignment())
}

func compareRefs(x, y roster.SlotRef) int {
	if c := strings.Compare(string(x.Date), string(y.Date)); c != 0 {
		return c
	}
	if x.Hour != y.Hour {
		return x.Hour - y.Hour
	}
	return strings.Compare(x.UserID, y.UserID)
}
