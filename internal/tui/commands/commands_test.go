package commands

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/javiermolinar/rota/internal/board"
	"github.com/javiermolinar/rota/internal/reconcile"
	"github.com/javiermolinar/rota/internal/roster"
)

type stubRepo struct {
	records []roster.Record
	err     error
	writes  atomic.Int32
}

func (s *stubRepo) QueryRange(context.Context, time.Time, time.Time) ([]roster.Record, error) {
	return s.records, s.err
}

func (s *stubRepo) WriteSlotAssignment(context.Context, roster.Record) error {
	s.writes.Add(1)
	return s.err
}

func (s *stubRepo) DeleteSlotAssignment(context.Context, roster.SlotRef) error { return s.err }

func (s *stubRepo) Close() error { return nil }

func testRequest() board.LoadRequest {
	return board.LoadRequest{
		Generation: 7,
		Start:      time.Date(2024, 6, 2, 0, 0, 0, 0, time.UTC),
		End:        time.Date(2024, 6, 8, 0, 0, 0, 0, time.UTC),
	}
}

func TestLoadWeek(t *testing.T) {
	repo := &stubRepo{records: []roster.Record{{Date: "2024-06-03", Hour: 9, UserID: "alice"}}}

	msg := LoadWeek(repo, testRequest())()

	loaded, ok := msg.(WeekLoadedMsg)
	if !ok {
		t.Fatalf("got %T, want WeekLoadedMsg", msg)
	}
	if loaded.Generation != 7 {
		t.Errorf("Generation = %d, want 7", loaded.Generation)
	}
	if len(loaded.Records) != 1 {
		t.Errorf("Records = %v", loaded.Records)
	}
}

func TestLoadWeek_Error(t *testing.T) {
	boom := errors.New("boom")
	msg := LoadWeek(&stubRepo{err: boom}, testRequest())()

	errMsg, ok := msg.(ErrMsg)
	if !ok {
		t.Fatalf("got %T, want ErrMsg", msg)
	}
	if !errors.Is(errMsg.Err, boom) {
		t.Errorf("error %v should wrap boom", errMsg.Err)
	}
}

func TestSync(t *testing.T) {
	repo := &stubRepo{}
	rec := reconcile.New(repo)

	if cmd := Sync(rec, reconcile.NewBatch(1)); cmd != nil {
		t.Error("empty batch should not produce a command")
	}

	batch := reconcile.NewBatch(1,
		reconcile.WriteOp("2024-06-03", 9, roster.Assignment{UserID: "alice"}),
		reconcile.WriteOp("2024-06-03", 10, roster.Assignment{UserID: "alice"}),
	)
	msg := Sync(rec, batch)()

	synced, ok := msg.(SyncedMsg)
	if !ok {
		t.Fatalf("got %T, want SyncedMsg", msg)
	}
	if !synced.Report.OK() || len(synced.Report.Succeeded) != 2 {
		t.Errorf("report = %+v", synced.Report)
	}
	if synced.Report.BatchID != batch.ID {
		t.Error("report should carry the batch id")
	}
	if n := repo.writes.Load(); n != 2 {
		t.Errorf("writes = %d, want 2", n)
	}
}

func TestSyncAll_SkipsEmpty(t *testing.T) {
	rec := reconcile.New(&stubRepo{})
	if cmd := SyncAll(rec, []reconcile.Batch{reconcile.NewBatch(1)}); cmd != nil {
		t.Error("only empty batches should produce no command")
	}
}

func TestStatus(t *testing.T) {
	msg := Status("saved %d", 3)()
	if got := msg.(StatusMsgCmd).Msg; got != "saved 3" {
		t.Errorf("Msg = %q", got)
	}
}
