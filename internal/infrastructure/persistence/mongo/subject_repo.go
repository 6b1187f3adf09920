// Package mongo implements the MongoDB storage for subject records.
package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/gradepulse/gradepulse/internal/domain/shared"
	"github.com/gradepulse/gradepulse/internal/domain/subject"
)

// ══════════════════════════════════════════════════════════════════════════════
// CONNECTION
// ══════════════════════════════════════════════════════════════════════════════

// Client is the driver client returned by Connect.
type Client = mongo.Client

// Config holds MongoDB connection configuration.
type Config struct {
	URI            string
	Database       string
	Collection     string
	Counters       string
	ConnectTimeout time.Duration
	MaxPoolSize    uint64
	MinPoolSize    uint64
	MaxIdleTime    time.Duration
}

// DefaultConfig returns defaults for a local MongoDB.
func DefaultConfig() Config {
	return Config{
		URI:            "mongodb://localhost:27017",
		Database:       "gradepulse",
		Collection:     "subjects",
		Counters:       "counters",
		ConnectTimeout: 20 * time.Second,
		MaxPoolSize:    50,
		MinPoolSize:    1,
		MaxIdleTime:    30 * time.Second,
	}
}

// Connect opens a client and pings the primary.
func Connect(ctx context.Context, cfg Config) (*mongo.Client, error) {
	clientOptions := options.Client().
		ApplyURI(cfg.URI).
		SetMaxPoolSize(cfg.MaxPoolSize).
		SetMinPoolSize(cfg.MinPoolSize).
		SetMaxConnIdleTime(cfg.MaxIdleTime).
		SetServerSelectionTimeout(10 * time.Second).
		SetConnectTimeout(cfg.ConnectTimeout)

	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("mongo: failed to connect: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo: failed to ping: %w", err)
	}

	return client, nil
}

// Disconnect closes client with a bounded timeout.
func Disconnect(client *mongo.Client) error {
	if client == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return client.Disconnect(ctx)
}

// ══════════════════════════════════════════════════════════════════════════════
// SUBJECT REPOSITORY IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

// subjectDoc is the stored document shape.
type subjectDoc struct {
	ID       string  `bson:"_id"`
	Seq      int64   `bson:"seq"`
	Name     string  `bson:"name"`
	Marks    float64 `bson:"marks"`
	Credits  float64 `bson:"credits"`
	ExamType string  `bson:"exam_type"`
	GPA      int     `bson:"gpa"`
}

func (d subjectDoc) record() subject.Record {
	return subject.Record{
		ID:       d.ID,
		Name:     d.Name,
		Marks:    d.Marks,
		Credits:  d.Credits,
		ExamType: subject.ExamType(d.ExamType),
	}.Normalize()
}

// counterDoc holds the last sequence number handed out for a collection.
type counterDoc struct {
	ID    string `bson:"_id"`
	Value int64  `bson:"value"`
}

// nextSeqQuery builds the atomic increment for the counter named key.
// The counter document is created on first use.
func nextSeqQuery(key string) (bson.M, bson.M, *options.FindOneAndUpdateOptions) {
	filter := bson.M{"_id": key}
	update := bson.M{"$inc": bson.M{"value": int64(1)}}
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)
	return filter, update, opts
}

// SubjectRepository implements subject.Repository for MongoDB.
type SubjectRepository struct {
	col      *mongo.Collection
	counters *mongo.Collection
	seqKey   string
}

// NewSubjectRepository creates a repository over the configured collection.
func NewSubjectRepository(client *mongo.Client, cfg Config) *SubjectRepository {
	if cfg.Counters == "" {
		cfg.Counters = DefaultConfig().Counters
	}
	db := client.Database(cfg.Database)
	return &SubjectRepository{
		col:      db.Collection(cfg.Collection),
		counters: db.Collection(cfg.Counters),
		seqKey:   cfg.Collection,
	}
}

// nextSeq returns the next insertion sequence number. The increment is
// atomic on the server, so concurrent writers never share a value.
func (r *SubjectRepository) nextSeq(ctx context.Context) (int64, error) {
	filter, update, opts := nextSeqQuery(r.seqKey)

	var doc counterDoc
	if err := r.counters.FindOneAndUpdate(ctx, filter, update, opts).Decode(&doc); err != nil {
		return 0, fmt.Errorf("failed to allocate subject sequence: %w", err)
	}
	return doc.Value, nil
}

// Ping checks the primary is reachable.
func (r *SubjectRepository) Ping(ctx context.Context) error {
	return r.col.Database().Client().Ping(ctx, readpref.Primary())
}

// EnsureIndexes creates the ordering index. It is idempotent.
func (r *SubjectRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "seq", Value: 1}},
		Options: options.Index().SetName("subjects_seq"),
	})
	if err != nil {
		return fmt.Errorf("mongo: failed to create index: %w", err)
	}
	return nil
}

// List returns all subjects in creation order.
func (r *SubjectRepository) List(ctx context.Context) ([]subject.Record, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "seq", Value: 1}})

	cursor, err := r.col.Find(ctx, bson.M{}, findOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to list subjects: %w", err)
	}
	defer cursor.Close(ctx)

	records := make([]subject.Record, 0)
	for cursor.Next(ctx) {
		var doc subjectDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode subject: %w", err)
		}
		records = append(records, doc.record())
	}

	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate subjects: %w", err)
	}
	return records, nil
}

// Get returns one subject by id.
func (r *SubjectRepository) Get(ctx context.Context, id string) (subject.Record, error) {
	var doc subjectDoc
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return subject.Record{}, shared.ErrSubjectNotFound
		}
		return subject.Record{}, fmt.Errorf("failed to get subject: %w", err)
	}
	return doc.record(), nil
}

// Create inserts a subject.
func (r *SubjectRepository) Create(ctx context.Context, rec subject.Record) error {
	rec = rec.Normalize()
	seq, err := r.nextSeq(ctx)
	if err != nil {
		return err
	}
	doc := subjectDoc{
		ID:       rec.ID,
		Seq:      seq,
		Name:     rec.Name,
		Marks:    rec.Marks,
		Credits:  rec.Credits,
		ExamType: string(rec.ExamType),
		GPA:      rec.GPA,
	}

	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return shared.WrapError("subject", "Create", shared.ErrAlreadyExists, "subject id already exists", err)
		}
		return fmt.Errorf("failed to create subject: %w", err)
	}
	return nil
}

// UpdateMarks sets marks and the derived GPA and returns the new document.
func (r *SubjectRepository) UpdateMarks(ctx context.Context, id string, marks float64) (subject.Record, error) {
	update := bson.M{
		"$set": bson.M{
			"marks": marks,
			"gpa":   subject.GradePoint(marks),
		},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc subjectDoc
	if err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return subject.Record{}, shared.ErrSubjectNotFound
		}
		return subject.Record{}, fmt.Errorf("failed to update marks: %w", err)
	}
	return doc.record(), nil
}

// Delete removes a subject.
func (r *SubjectRepository) Delete(ctx context.Context, id string) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete subject: %w", err)
	}
	if res.DeletedCount == 0 {
		return shared.ErrSubjectNotFound
	}
	return nil
}

var _ subject.Repository = (*SubjectRepository)(nil)
