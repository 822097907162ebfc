package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/javiermolinar/rota/internal/roster"
)

// Collection is the MongoDB collection holding slot assignments.
const Collection = "slot_assignments"

const connectTimeout = 10 * time.Second

// slotDocument is the stored shape of one assignment.
type slotDocument struct {
	Date      string    `bson:"slot_date"`
	Hour      int       `bson:"hour"`
	UserID    string    `bson:"user_id"`
	UserName  string    `bson:"user_name"`
	Notes     string    `bson:"notes"`
	CreatedAt time.Time `bson:"created_at"`
	UpdatedAt time.Time `bson:"updated_at"`
}

// Mongo implements roster.Repository on a shared MongoDB collection, for
// teams that keep one roster across machines.
type Mongo struct {
	client *mongo.Client
	coll   *mongo.Collection
	now    func() time.Time
}

// NewMongo connects to uri, verifies the connection and makes sure the
// unique slot index exists.
func NewMongo(ctx context.Context, uri, database string) (*Mongo, error) {
	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connecting to mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("pinging mongo: %w", err)
	}

	m := NewMongoCollection(client.Database(database).Collection(Collection))
	m.client = client
	if err := m.EnsureIndexes(ctx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	return m, nil
}

// NewMongoCollection wraps an existing collection. The caller owns the
// client and its lifetime.
func NewMongoCollection(coll *mongo.Collection) *Mongo {
	return &Mongo{coll: coll, now: time.Now}
}

// EnsureIndexes creates the unique (slot_date, hour, user_id) index.
func (m *Mongo) EnsureIndexes(ctx context.Context) error {
	model := mongo.IndexModel{
		Keys: bson.D{
			{Key: "slot_date", Value: 1},
			{Key: "hour", Value: 1},
			{Key: "user_id", Value: 1},
		},
		Options: options.Index().SetUnique(true).SetName("slot_user_unique"),
	}
	if _, err := m.coll.Indexes().CreateOne(ctx, model); err != nil {
		return fmt.Errorf("creating slot index: %w", err)
	}
	return nil
}

// QueryRange returns every assignment whose date falls in [start, end].
func (m *Mongo) QueryRange(ctx context.Context, start, end time.Time) ([]roster.Record, error) {
	filter := bson.M{"slot_date": bson.M{
		"$gte": roster.DateKeyOf(start).String(),
		"$lte": roster.DateKeyOf(end).String(),
	}}
	opts := options.Find().SetSort(bson.D{
		{Key: "slot_date", Value: 1},
		{Key: "hour", Value: 1},
		{Key: "created_at", Value: 1},
		{Key: "_id", Value: 1},
	})

	cursor, err := m.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("querying assignments: %w", err)
	}
	defer func() { _ = cursor.Close(ctx) }()

	var records []roster.Record
	for cursor.Next(ctx) {
		var doc slotDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decoding assignment: %w", err)
		}
		key, err := roster.ParseDateKey(doc.Date)
		if err != nil {
			return nil, fmt.Errorf("parsing slot date: %w", err)
		}
		records = append(records, roster.Record{
			Date:     key,
			Hour:     doc.Hour,
			UserID:   doc.UserID,
			UserName: doc.UserName,
			Notes:    doc.Notes,
		})
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("iterating assignments: %w", err)
	}
	return records, nil
}

// WriteSlotAssignment upserts one assignment keyed by date, hour and user.
func (m *Mongo) WriteSlotAssignment(ctx context.Context, r roster.Record) error {
	if err := checkRef(r.Ref()); err != nil {
		return err
	}

	now := m.now().UTC()
	update := bson.M{
		"$set": bson.M{
			"user_name":  r.UserName,
			"notes":      r.Notes,
			"updated_at": now,
		},
		"$setOnInsert": bson.M{"created_at": now},
	}

	_, err := m.coll.UpdateOne(ctx, refFilter(r.Ref()), update, options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("writing assignment %s: %w", r.Ref(), err)
	}
	return nil
}

// DeleteSlotAssignment removes one assignment; a missing document is fine.
func (m *Mongo) DeleteSlotAssignment(ctx context.Context, ref roster.SlotRef) error {
	if err := checkRef(ref); err != nil {
		return err
	}
	if _, err := m.coll.DeleteOne(ctx, refFilter(ref)); err != nil {
		return fmt.Errorf("deleting assignment %s: %w", ref, err)
	}
	return nil
}

// Close disconnects the client if this repository created it.
func (m *Mongo) Close() error {
	if m.client == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()
	if err := m.client.Disconnect(ctx); err != nil && !errors.Is(err, mongo.ErrClientDisconnected) {
		return fmt.Errorf("disconnecting mongo: %w", err)
	}
	return nil
}

func refFilter(ref roster.SlotRef) bson.M {
	return bson.M{
		"slot_date": ref.Date.String(),
		"hour":      ref.Hour,
		"user_id":   ref.UserID,
	}
}
