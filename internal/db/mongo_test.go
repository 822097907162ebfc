package db

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"github.com/javiermolinar/rota/internal/roster"
)

func TestMongo(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("ensure indexes", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		if err := NewMongoCollection(mt.Coll).EnsureIndexes(context.Background()); err != nil {
			mt.Errorf("EnsureIndexes failed: %v", err)
		}
	})

	mt.Run("query range decodes documents", func(mt *mtest.T) {
		ns := mt.Coll.Database().Name() + "." + mt.Coll.Name()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch,
			bson.D{
				{Key: "slot_date", Value: "2024-06-03"},
				{Key: "hour", Value: 14},
				{Key: "user_id", Value: "alice"},
				{Key: "user_name", Value: "Alice"},
				{Key: "notes", Value: "desk"},
			},
			bson.D{
				{Key: "slot_date", Value: "2024-06-03"},
				{Key: "hour", Value: 14},
				{Key: "user_id", Value: "bob"},
				{Key: "user_name", Value: "Bob"},
				{Key: "notes", Value: ""},
			},
		))

		day := time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC)
		got, err := NewMongoCollection(mt.Coll).QueryRange(context.Background(), day, day)
		if err != nil {
			mt.Fatalf("QueryRange failed: %v", err)
		}

		want := []roster.Record{
			{Date: "2024-06-03", Hour: 14, UserID: "alice", UserName: "Alice", Notes: "desk"},
			{Date: "2024-06-03", Hour: 14, UserID: "bob", UserName: "Bob"},
		}
		if len(got) != len(want) {
			mt.Fatalf("got %d records, want %d", len(got), len(want))
		}
		for i := range want {
			if got[i] != want[i] {
				mt.Errorf("record %d = %+v, want %+v", i, got[i], want[i])
			}
		}
	})

	mt.Run("query range rejects corrupt dates", func(mt *mtest.T) {
		ns := mt.Coll.Database().Name() + "." + mt.Coll.Name()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch,
			bson.D{
				{Key: "slot_date", Value: "June 3"},
				{Key: "hour", Value: 1},
				{Key: "user_id", Value: "alice"},
			},
		))

		day := time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC)
		_, err := NewMongoCollection(mt.Coll).QueryRange(context.Background(), day, day)
		if !errors.Is(err, roster.ErrInvalidDate) {
			mt.Errorf("got %v, want ErrInvalidDate", err)
		}
	})

	mt.Run("write upserts", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 1},
			bson.E{Key: "nModified", Value: 0},
		))

		rec := roster.Record{Date: "2024-06-03", Hour: 9, UserID: "alice", UserName: "Alice"}
		if err := NewMongoCollection(mt.Coll).WriteSlotAssignment(context.Background(), rec); err != nil {
			mt.Errorf("WriteSlotAssignment failed: %v", err)
		}
	})

	mt.Run("write surfaces server errors", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index:   0,
			Code:    11000,
			Message: "duplicate key error",
		}))

		rec := roster.Record{Date: "2024-06-03", Hour: 9, UserID: "alice"}
		err := NewMongoCollection(mt.Coll).WriteSlotAssignment(context.Background(), rec)
		if !mongo.IsDuplicateKeyError(err) {
			mt.Errorf("expected duplicate key error, got %v", err)
		}
	})

	mt.Run("write validates before sending", func(mt *mtest.T) {
		rec := roster.Record{Date: "2024-06-03", Hour: 30, UserID: "alice"}
		err := NewMongoCollection(mt.Coll).WriteSlotAssignment(context.Background(), rec)
		if !errors.Is(err, roster.ErrInvalidHour) {
			mt.Errorf("got %v, want ErrInvalidHour", err)
		}
	})

	mt.Run("delete", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}))

		ref := roster.SlotRef{Date: "2024-06-03", Hour: 9, UserID: "alice"}
		if err := NewMongoCollection(mt.Coll).DeleteSlotAssignment(context.Background(), ref); err != nil {
			mt.Errorf("DeleteSlotAssignment failed: %v", err)
		}
	})

	mt.Run("delete surfaces command errors", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{
			Code:    2,
			Name:    "BadValue",
			Message: "boom",
		}))

		ref := roster.SlotRef{Date: "2024-06-03", Hour: 9, UserID: "alice"}
		if err := NewMongoCollection(mt.Coll).DeleteSlotAssignment(context.Background(), ref); err == nil {
			mt.Error("expected error")
		}
	})

	mt.Run("close without owned client", func(mt *mtest.T) {
		if err := NewMongoCollection(mt.Coll).Close(); err != nil {
			mt.Errorf("Close failed: %v", err)
		}
	})
}
