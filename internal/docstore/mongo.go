// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package docstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/olegiv/pathway-go/internal/store"
)

const (
	slugIndexName = "slug_unique"
	seqIndexName  = "seq_unique"
)

// MongoStore keeps each collection in a MongoDB collection of the same
// name. Documents are stored as {_id, slug?, seq?, body, createdAt, updatedAt}.
type MongoStore struct {
	client *mongo.Client
	db     *mongo.Database
	logger *slog.Logger

	indexed sync.Map // collection name -> struct{}
	now     func() time.Time
}

// OpenMongo connects to uri and verifies the connection with a ping.
func OpenMongo(ctx context.Context, uri, database string, logger *slog.Logger) (*MongoStore, error) {
	opts := options.Client().ApplyURI(uri)
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("connecting to mongodb: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("pinging mongodb: %w", err)
	}
	return NewMongoStore(client, database, logger), nil
}

// NewMongoStore wraps an already connected client.
func NewMongoStore(client *mongo.Client, database string, logger *slog.Logger) *MongoStore {
	return &MongoStore{
		client: client,
		db:     client.Database(database),
		logger: logger,
		now:    func() time.Time { return time.Now().UTC().Truncate(time.Millisecond) },
	}
}

type mongoDoc struct {
	ID        any       `bson:"_id"`
	Slug      string    `bson:"slug,omitempty"`
	Seq       int64     `bson:"seq,omitempty"`
	Body      bson.Raw  `bson:"body"`
	CreatedAt time.Time `bson:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt"`
}

func (m mongoDoc) document() (Document, error) {
	body, err := bson.MarshalExtJSON(m.Body, false, false)
	if err != nil {
		return Document{}, fmt.Errorf("encoding body: %w", err)
	}
	d := Document{
		Slug:      m.Slug,
		Seq:       m.Seq,
		Body:      body,
		CreatedAt: m.CreatedAt.UTC(),
		UpdatedAt: m.UpdatedAt.UTC(),
	}
	switch id := m.ID.(type) {
	case primitive.ObjectID:
		d.ID = id.Hex()
	case string:
		d.ID = id
	default:
		d.ID = fmt.Sprint(id)
	}
	return d, nil
}

func toBSON(body json.RawMessage) (bson.D, error) {
	var d bson.D
	if err := bson.UnmarshalExtJSON(body, false, &d); err != nil {
		return nil, fmt.Errorf("decoding body: %w", err)
	}
	return d, nil
}

func (s *MongoStore) collection(ctx context.Context, name string) *mongo.Collection {
	c := s.db.Collection(name)
	if _, done := s.indexed.Load(name); done {
		return c
	}
	_, err := c.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "slug", Value: 1}},
			Options: options.Index().SetUnique(true).SetName(slugIndexName).
				SetPartialFilterExpression(bson.M{"slug": bson.M{"$exists": true}}),
		},
		{
			Keys: bson.D{{Key: "seq", Value: 1}},
			Options: options.Index().SetUnique(true).SetName(seqIndexName).
				SetPartialFilterExpression(bson.M{"seq": bson.M{"$exists": true}}),
		},
		{
			Keys:    bson.D{{Key: "createdAt", Value: -1}},
			Options: options.Index().SetName("created_at"),
		},
	})
	if err != nil {
		s.logger.Warn("ensuring document indexes", "collection", name, "error", err)
		return c
	}
	s.indexed.Store(name, struct{}{})
	return c
}

func (q Query) mongoFilter() bson.M {
	filter := bson.M{}
	for field, value := range q.Equals {
		filter["body."+field] = value
	}
	if q.Search != "" && len(q.SearchFields) > 0 {
		pattern := primitive.Regex{Pattern: regexp.QuoteMeta(q.Search), Options: "i"}
		ors := make(bson.A, 0, len(q.SearchFields))
		for _, f := range q.SearchFields {
			ors = append(ors, bson.M{"body." + f: pattern})
		}
		filter["$or"] = ors
	}
	return filter
}

func (q Query) mongoSort() bson.D {
	sort := bson.D{}
	seen := map[string]bool{}
	for _, s := range q.Sort {
		dir := 1
		if s.Desc {
			dir = -1
		}
		key := "body." + s.Field
		switch s.Field {
		case FieldCreatedAt:
			key = "createdAt"
		case FieldSeq:
			key = "seq"
		}
		if seen[key] {
			continue
		}
		seen[key] = true
		sort = append(sort, bson.E{Key: key, Value: dir})
	}
	if !seen["createdAt"] {
		sort = append(sort, bson.E{Key: "createdAt", Value: -1})
	}
	return append(sort, bson.E{Key: "_id", Value: -1})
}

// Find returns documents matching q.
func (s *MongoStore) Find(ctx context.Context, coll string, q Query) ([]Document, error) {
	if err := q.check(); err != nil {
		return nil, err
	}
	opts := options.Find().SetSort(q.mongoSort())
	if q.Limit > 0 {
		opts.SetLimit(int64(q.Limit)).SetSkip(int64(q.Offset))
	}

	cur, err := s.collection(ctx, coll).Find(ctx, q.mongoFilter(), opts)
	if err != nil {
		return nil, classifyMongo("finding documents", err)
	}
	defer func() { _ = cur.Close(ctx) }()

	docs := []Document{}
	for cur.Next(ctx) {
		var m mongoDoc
		if err := cur.Decode(&m); err != nil {
			return nil, fmt.Errorf("decoding document: %w", err)
		}
		d, err := m.document()
		if err != nil {
			return nil, err
		}
		docs = append(docs, d)
	}
	if err := cur.Err(); err != nil {
		return nil, classifyMongo("iterating documents", err)
	}
	return docs, nil
}

// Count returns how many documents match q.
func (s *MongoStore) Count(ctx context.Context, coll string, q Query) (int64, error) {
	if err := q.check(); err != nil {
		return 0, err
	}
	n, err := s.collection(ctx, coll).CountDocuments(ctx, q.mongoFilter())
	if err != nil {
		return 0, classifyMongo("counting documents", err)
	}
	return n, nil
}

func (s *MongoStore) findOne(ctx context.Context, coll string, filter bson.M) (Document, error) {
	var m mongoDoc
	if err := s.collection(ctx, coll).FindOne(ctx, filter).Decode(&m); err != nil {
		return Document{}, classifyMongo("getting document", err)
	}
	return m.document()
}

// Get loads a document by its hex ObjectID. Malformed ids are never found.
func (s *MongoStore) Get(ctx context.Context, coll, id string) (Document, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return Document{}, store.ErrNotFound
	}
	return s.findOne(ctx, coll, bson.M{"_id": oid})
}

// GetBySlug loads a document by slug.
func (s *MongoStore) GetBySlug(ctx context.Context, coll, slug string) (Document, error) {
	if slug == "" {
		return Document{}, store.ErrNotFound
	}
	return s.findOne(ctx, coll, bson.M{"slug": slug})
}

// GetBySeq loads a document by its sequential id.
func (s *MongoStore) GetBySeq(ctx context.Context, coll string, seq int64) (Document, error) {
	if seq <= 0 {
		return Document{}, store.ErrNotFound
	}
	return s.findOne(ctx, coll, bson.M{"seq": seq})
}

func (s *MongoStore) nextSeq(ctx context.Context, c *mongo.Collection) (int64, error) {
	var top struct {
		Seq int64 `bson:"seq"`
	}
	opts := options.FindOne().SetSort(bson.D{{Key: "seq", Value: -1}}).SetProjection(bson.M{"seq": 1})
	err := c.FindOne(ctx, bson.M{"seq": bson.M{"$exists": true}}, opts).Decode(&top)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return 1, nil
	}
	if err != nil {
		return 0, classifyMongo("reading max sequence", err)
	}
	return top.Seq + 1, nil
}

// Insert stores a new document. Sequential inserts that lose a race on the
// unique seq index are retried with a fresh maximum.
func (s *MongoStore) Insert(ctx context.Context, coll string, doc Document, sequential bool) (Document, error) {
	body, err := toBSON(doc.Body)
	if err != nil {
		return Document{}, err
	}
	c := s.collection(ctx, coll)

	for attempt := 0; ; attempt++ {
		now := s.now()
		oid := primitive.NewObjectID()
		rec := bson.D{
			{Key: "_id", Value: oid},
			{Key: "body", Value: body},
			{Key: "createdAt", Value: now},
			{Key: "updatedAt", Value: now},
		}
		if doc.Slug != "" {
			rec = append(rec, bson.E{Key: "slug", Value: doc.Slug})
		}
		var seq int64
		if sequential {
			if seq, err = s.nextSeq(ctx, c); err != nil {
				return Document{}, err
			}
			rec = append(rec, bson.E{Key: "seq", Value: seq})
		}

		_, err = c.InsertOne(ctx, rec)
		if err == nil {
			return Document{ID: oid.Hex(), Slug: doc.Slug, Seq: seq, Body: doc.Body, CreatedAt: now, UpdatedAt: now}, nil
		}
		if sequential && isSeqCollision(err) && attempt < seqRetries {
			s.logger.Debug("sequence collision, retrying", "collection", coll, "seq", seq)
			continue
		}
		return Document{}, classifyMongo("inserting document", err)
	}
}

// Replace overwrites slug and body of an existing document.
func (s *MongoStore) Replace(ctx context.Context, coll string, doc Document) (Document, error) {
	oid, err := primitive.ObjectIDFromHex(doc.ID)
	if err != nil {
		return Document{}, store.ErrNotFound
	}
	body, err := toBSON(doc.Body)
	if err != nil {
		return Document{}, err
	}

	update := bson.M{"$set": bson.M{"body": body, "updatedAt": s.now()}}
	if doc.Slug != "" {
		update["$set"].(bson.M)["slug"] = doc.Slug
	} else {
		update["$unset"] = bson.M{"slug": ""}
	}

	var m mongoDoc
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	if err := s.collection(ctx, coll).FindOneAndUpdate(ctx, bson.M{"_id": oid}, update, opts).Decode(&m); err != nil {
		return Document{}, classifyMongo("replacing document", err)
	}
	return m.document()
}

// Delete removes a document.
func (s *MongoStore) Delete(ctx context.Context, coll, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return store.ErrNotFound
	}
	res, err := s.collection(ctx, coll).DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return classifyMongo("deleting document", err)
	}
	if res.DeletedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}

const singletonKey = "default"

// Singleton upserts with $setOnInsert so concurrent first reads converge
// on one document.
func (s *MongoStore) Singleton(ctx context.Context, coll string, defaults json.RawMessage) (Document, error) {
	body, err := toBSON(defaults)
	if err != nil {
		return Document{}, err
	}
	now := s.now()
	update := bson.M{"$setOnInsert": bson.M{"body": body, "createdAt": now, "updatedAt": now}}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var m mongoDoc
	if err := s.db.Collection(coll).FindOneAndUpdate(ctx, bson.M{"_id": singletonKey}, update, opts).Decode(&m); err != nil {
		return Document{}, classifyMongo("getting singleton", err)
	}
	return m.document()
}

// SaveSingleton replaces the singleton body, creating it when absent.
func (s *MongoStore) SaveSingleton(ctx context.Context, coll string, body json.RawMessage) (Document, error) {
	b, err := toBSON(body)
	if err != nil {
		return Document{}, err
	}
	now := s.now()
	update := bson.M{
		"$set":         bson.M{"body": b, "updatedAt": now},
		"$setOnInsert": bson.M{"createdAt": now},
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var m mongoDoc
	if err := s.db.Collection(coll).FindOneAndUpdate(ctx, bson.M{"_id": singletonKey}, update, opts).Decode(&m); err != nil {
		return Document{}, classifyMongo("saving singleton", err)
	}
	return m.document()
}

// Ping checks the cluster connection.
func (s *MongoStore) Ping(ctx context.Context) error {
	return classifyMongo("pinging mongodb", s.client.Ping(ctx, nil))
}

// Close disconnects the client.
func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func isSeqCollision(err error) bool {
	return mongo.IsDuplicateKeyError(err) && strings.Contains(err.Error(), seqIndexName)
}

func classifyMongo(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return store.ErrNotFound
	case mongo.IsDuplicateKeyError(err):
		if strings.Contains(err.Error(), seqIndexName) {
			return store.Conflict("id", "sequence already taken")
		}
		return store.Conflict("slug", "slug already exists")
	case mongo.IsNetworkError(err), mongo.IsTimeout(err),
		errors.Is(err, mongo.ErrClientDisconnected),
		strings.Contains(err.Error(), "server selection"):
		return fmt.Errorf("%s: %w: %v", op, store.ErrUnavailable, err)
	}
	return store.Classify(op, err)
}
