// Package reconcile mirrors local roster mutations to the repository.
package reconcile

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/javiermolinar/rota/internal/roster"
)

const (
	// DefaultConcurrency caps the in-flight persistence calls of one batch.
	DefaultConcurrency = 8
	// DefaultTimeout bounds a single persistence call.
	DefaultTimeout = 15 * time.Second
)

// Kind is the persistence operation type.
type Kind int

const (
	KindWrite Kind = iota
	KindDelete
)

func (k Kind) String() string {
	if k == KindDelete {
		return "delete"
	}
	return "write"
}

// Op is one persistence call for one (date, hour, user) triple.
type Op struct {
	Kind     Kind
	Ref      roster.SlotRef
	UserName string
	Notes    string
}

// WriteOp returns an upsert of a into the slot.
func WriteOp(date roster.DateKey, hour int, a roster.Assignment) Op {
	return Op{
		Kind:     KindWrite,
		Ref:      roster.SlotRef{Date: date, Hour: hour, UserID: a.UserID},
		UserName: a.UserName,
		Notes:    a.Notes,
	}
}

// DeleteOp returns a delete of ref.
func DeleteOp(ref roster.SlotRef) Op {
	return Op{Kind: KindDelete, Ref: ref}
}

// Record returns the row a write op persists.
func (o Op) Record() roster.Record {
	return roster.Record{
		Date:     o.Ref.Date,
		Hour:     o.Ref.Hour,
		UserID:   o.Ref.UserID,
		UserName: o.UserName,
		Notes:    o.Notes,
	}
}

func (o Op) String() string {
	return fmt.Sprintf("%s %s", o.Kind, o.Ref)
}

// Batch groups the ops produced by one gesture or bulk request.
type Batch struct {
	ID         uuid.UUID
	Generation uint64 // board generation the batch was produced in
	Ops        []Op
}

// NewBatch returns a batch with a fresh ID.
func NewBatch(generation uint64, ops ...Op) Batch {
	return Batch{ID: uuid.New(), Generation: generation, Ops: ops}
}

// Empty reports whether the batch has nothing to persist.
func (b Batch) Empty() bool {
	return len(b.Ops) == 0
}

// Failure is a persistence call that did not succeed.
type Failure struct {
	Op  Op
	Err error
}

func (f Failure) Error() string {
	return fmt.Sprintf("%s: %v", f.Op, f.Err)
}

func (f Failure) Unwrap() error { return f.Err }

// Report is the settled result of a batch.
type Report struct {
	BatchID    uuid.UUID
	Generation uint64
	Succeeded  []Op
	Failures   []Failure
	Elapsed    time.Duration
}

// OK reports whether every call succeeded.
func (r Report) OK() bool {
	return len(r.Failures) == 0
}

// Err joins the per-cell failures, or returns nil.
func (r Report) Err() error {
	if r.OK() {
		return nil
	}
	errs := make([]error, len(r.Failures))
	for i, f := range r.Failures {
		errs[i] = f
	}
	return fmt.Errorf("%d of %d slot updates failed: %w",
		len(r.Failures), len(r.Failures)+len(r.Succeeded), errors.Join(errs...))
}

// FailedRefs returns the keys of the failed calls.
func (r Report) FailedRefs() []roster.SlotRef {
	refs := make([]roster.SlotRef, len(r.Failures))
	for i, f := range r.Failures {
		refs[i] = f.Op.Ref
	}
	return refs
}

// Reconciler issues persistence calls for batches.
type Reconciler struct {
	repo        roster.Repository
	log         *zap.Logger
	concurrency int
	timeout     time.Duration
}

// Option configures a Reconciler.
type Option func(*Reconciler)

// WithLogger sets the logger.
func WithLogger(log *zap.Logger) Option {
	return func(r *Reconciler) { r.log = log }
}

// WithConcurrency caps in-flight calls per batch. Values < 1 mean unbounded.
func WithConcurrency(n int) Option {
	return func(r *Reconciler) { r.concurrency = n }
}

// WithTimeout bounds each call. Zero disables the per-call deadline.
func WithTimeout(d time.Duration) Option {
	return func(r *Reconciler) { r.timeout = d }
}

// New creates a Reconciler over repo.
func New(repo roster.Repository, opts ...Option) *Reconciler {
	r := &Reconciler{
		repo:        repo,
		log:         zap.NewNop(),
		concurrency: DefaultConcurrency,
		timeout:     DefaultTimeout,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run issues every op of b concurrently and waits for all of them to settle.
// Failures never abort the remaining calls.
func (r *Reconciler) Run(ctx context.Context, b Batch) Report {
	start := time.Now()
	results := make([]error, len(b.Ops))

	var g errgroup.Group
	if r.concurrency > 0 {
		g.SetLimit(r.concurrency)
	}
	for i, op := range b.Ops {
		g.Go(func() error {
			results[i] = r.apply(ctx, op)
			return nil
		})
	}
	_ = g.Wait()

	report := Report{
		BatchID:    b.ID,
		Generation: b.Generation,
		Elapsed:    time.Since(start),
	}
	for i, op := range b.Ops {
		if results[i] != nil {
			report.Failures = append(report.Failures, Failure{Op: op, Err: results[i]})
			r.log.Warn("slot update failed",
				zap.String("batch", b.ID.String()),
				zap.String("op", op.Kind.String()),
				zap.String("date", op.Ref.Date.String()),
				zap.Int("hour", op.Ref.Hour),
				zap.String("user", op.Ref.UserID),
				zap.Error(results[i]),
			)
			continue
		}
		report.Succeeded = append(report.Succeeded, op)
	}

	r.log.Debug("batch settled",
		zap.String("batch", b.ID.String()),
		zap.Uint64("generation", b.Generation),
		zap.Int("ops", len(b.Ops)),
		zap.Int("failed", len(report.Failures)),
		zap.Duration("elapsed", report.Elapsed),
	)
	return report
}

func (r *Reconciler) apply(ctx context.Context, op Op) error {
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	switch op.Kind {
	case KindWrite:
		if err := r.repo.WriteSlotAssignment(ctx, op.Record()); err != nil {
			return fmt.Errorf("writing slot assignment: %w", err)
		}
	case KindDelete:
		if err := r.repo.DeleteSlotAssignment(ctx, op.Ref); err != nil {
			return fmt.Errorf("deleting slot assignment: %w", err)
		}
	default:
		return fmt.Errorf("unknown op kind %d", op.Kind)
	}
	return nil
}
