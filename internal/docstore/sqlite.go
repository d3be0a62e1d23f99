// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package docstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/olegiv/pathway-go/internal/store"
)

// SQLiteStore keeps documents in the documents table of the relational
// database.
type SQLiteStore struct {
	db  *sql.DB
	now func() time.Time
}

// NewSQLiteStore wraps a migrated database.
func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db, now: func() time.Time { return time.Now().UTC() }}
}

const docColumns = `id, slug, COALESCE(seq, 0), body, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDoc(r rowScanner) (Document, error) {
	var d Document
	var body string
	if err := r.Scan(&d.ID, &d.Slug, &d.Seq, &body, &d.CreatedAt, &d.UpdatedAt); err != nil {
		return Document{}, err
	}
	d.Body = json.RawMessage(body)
	return d, nil
}

func jsonPath(field string) string { return "$." + field }

func (q Query) sqliteWhere(coll string) (string, []any) {
	clauses := []string{"collection = ?"}
	args := []any{coll}

	for field, value := range q.Equals {
		clauses = append(clauses, "json_extract(body, ?) = ?")
		if b, ok := value.(bool); ok {
			value = 0
			if b {
				value = 1
			}
		}
		args = append(args, jsonPath(field), value)
	}

	if q.Search != "" && len(q.SearchFields) > 0 {
		pattern := "%" + escapeLike(strings.ToLower(q.Search)) + "%"
		ors := make([]string, 0, len(q.SearchFields))
		for _, f := range q.SearchFields {
			ors = append(ors, `LOWER(COALESCE(json_extract(body, ?), '')) LIKE ? ESCAPE '\'`)
			args = append(args, jsonPath(f), pattern)
		}
		clauses = append(clauses, "("+strings.Join(ors, " OR ")+")")
	}

	return " WHERE " + strings.Join(clauses, " AND "), args
}

func (q Query) sqliteOrder() string {
	parts := make([]string, 0, len(q.Sort)+2)
	for _, s := range q.Sort {
		var expr string
		switch s.Field {
		case FieldCreatedAt:
			expr = "created_at"
		case FieldSeq:
			expr = "seq"
		default:
			// field names are checked against fieldName before use
			expr = fmt.Sprintf("json_extract(body, '$.%s')", s.Field)
		}
		if s.Desc {
			expr += " DESC"
		}
		parts = append(parts, expr)
	}
	parts = append(parts, "created_at DESC", "rowid DESC")
	return " ORDER BY " + strings.Join(parts, ", ")
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

// Find returns documents matching q.
func (s *SQLiteStore) Find(ctx context.Context, coll string, q Query) ([]Document, error) {
	if err := q.check(); err != nil {
		return nil, err
	}
	where, args := q.sqliteWhere(coll)
	query := "SELECT " + docColumns + " FROM documents" + where + q.sqliteOrder()
	if q.Limit > 0 {
		query += " LIMIT ? OFFSET ?"
		args = append(args, q.Limit, q.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, store.Classify("finding documents", err)
	}
	defer func() { _ = rows.Close() }()

	docs := []Document{}
	for rows.Next() {
		d, err := scanDoc(rows)
		if err != nil {
			return nil, store.Classify("scanning document", err)
		}
		docs = append(docs, d)
	}
	if err := rows.Err(); err != nil {
		return nil, store.Classify("iterating documents", err)
	}
	return docs, nil
}

// Count returns how many documents match q, ignoring Limit and Offset.
func (s *SQLiteStore) Count(ctx context.Context, coll string, q Query) (int64, error) {
	if err := q.check(); err != nil {
		return 0, err
	}
	where, args := q.sqliteWhere(coll)
	var n int64
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM documents"+where, args...).Scan(&n); err != nil {
		return 0, store.Classify("counting documents", err)
	}
	return n, nil
}

// Get loads a document by id. Ids that are not UUIDs are never found.
func (s *SQLiteStore) Get(ctx context.Context, coll, id string) (Document, error) {
	if _, err := uuid.Parse(id); err != nil {
		return Document{}, store.ErrNotFound
	}
	row := s.db.QueryRowContext(ctx, "SELECT "+docColumns+" FROM documents WHERE collection = ? AND id = ?", coll, id)
	d, err := scanDoc(row)
	return d, store.Classify("getting document", err)
}

// GetBySlug loads a document by slug.
func (s *SQLiteStore) GetBySlug(ctx context.Context, coll, slug string) (Document, error) {
	if slug == "" {
		return Document{}, store.ErrNotFound
	}
	row := s.db.QueryRowContext(ctx, "SELECT "+docColumns+" FROM documents WHERE collection = ? AND slug = ?", coll, slug)
	d, err := scanDoc(row)
	return d, store.Classify("getting document by slug", err)
}

// GetBySeq loads a document by its sequential id.
func (s *SQLiteStore) GetBySeq(ctx context.Context, coll string, seq int64) (Document, error) {
	if seq <= 0 {
		return Document{}, store.ErrNotFound
	}
	row := s.db.QueryRowContext(ctx, "SELECT "+docColumns+" FROM documents WHERE collection = ? AND seq = ?", coll, seq)
	d, err := scanDoc(row)
	return d, store.Classify("getting document by seq", err)
}

// Insert stores a new document. The sequence is computed inside the INSERT
// statement, which SQLite executes under its write lock.
func (s *SQLiteStore) Insert(ctx context.Context, coll string, doc Document, sequential bool) (Document, error) {
	now := s.now()
	doc.ID = uuid.NewString()
	doc.CreatedAt, doc.UpdatedAt = now, now

	var err error
	if sequential {
		err = s.db.QueryRowContext(ctx, `
			INSERT INTO documents (id, collection, slug, seq, body, created_at, updated_at)
			VALUES (?, ?, ?, (SELECT COALESCE(MAX(seq), 0) + 1 FROM documents WHERE collection = ?), ?, ?, ?)
			RETURNING seq`,
			doc.ID, coll, doc.Slug, coll, string(doc.Body), now, now).Scan(&doc.Seq)
	} else {
		doc.Seq = 0
		_, err = s.db.ExecContext(ctx, `
			INSERT INTO documents (id, collection, slug, seq, body, created_at, updated_at)
			VALUES (?, ?, ?, NULL, ?, ?, ?)`,
			doc.ID, coll, doc.Slug, string(doc.Body), now, now)
	}
	if err != nil {
		return Document{}, classifyDocErr("inserting document", err)
	}
	return doc, nil
}

// Replace overwrites the slug and body of an existing document.
func (s *SQLiteStore) Replace(ctx context.Context, coll string, doc Document) (Document, error) {
	if _, err := uuid.Parse(doc.ID); err != nil {
		return Document{}, store.ErrNotFound
	}
	now := s.now()
	res, err := s.db.ExecContext(ctx, `
		UPDATE documents SET slug = ?, body = ?, updated_at = ?
		WHERE collection = ? AND id = ?`,
		doc.Slug, string(doc.Body), now, coll, doc.ID)
	if err != nil {
		return Document{}, classifyDocErr("replacing document", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return Document{}, store.ErrNotFound
	}
	return s.Get(ctx, coll, doc.ID)
}

// Delete removes a document.
func (s *SQLiteStore) Delete(ctx context.Context, coll, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return store.ErrNotFound
	}
	res, err := s.db.ExecContext(ctx, "DELETE FROM documents WHERE collection = ? AND id = ?", coll, id)
	if err != nil {
		return store.Classify("deleting document", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return store.ErrNotFound
	}
	return nil
}

func singletonID(coll string) string { return "singleton:" + coll }

// Singleton returns the collection's document, creating it from defaults.
// ON CONFLICT DO NOTHING keeps concurrent first reads from creating two.
func (s *SQLiteStore) Singleton(ctx context.Context, coll string, defaults json.RawMessage) (Document, error) {
	id := singletonID(coll)
	now := s.now()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO documents (id, collection, slug, seq, body, created_at, updated_at)
		VALUES (?, ?, '', NULL, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING`,
		id, coll, string(defaults), now, now)
	if err != nil {
		return Document{}, store.Classify("creating singleton", err)
	}
	row := s.db.QueryRowContext(ctx, "SELECT "+docColumns+" FROM documents WHERE id = ?", id)
	d, err := scanDoc(row)
	return d, store.Classify("getting singleton", err)
}

// SaveSingleton upserts the collection's document.
func (s *SQLiteStore) SaveSingleton(ctx context.Context, coll string, body json.RawMessage) (Document, error) {
	id := singletonID(coll)
	now := s.now()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO documents (id, collection, slug, seq, body, created_at, updated_at)
		VALUES (?, ?, '', NULL, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET body = excluded.body, updated_at = excluded.updated_at`,
		id, coll, string(body), now, now)
	if err != nil {
		return Document{}, store.Classify("saving singleton", err)
	}
	row := s.db.QueryRowContext(ctx, "SELECT "+docColumns+" FROM documents WHERE id = ?", id)
	d, err := scanDoc(row)
	return d, store.Classify("getting singleton", err)
}

// Ping checks the database connection.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	return store.Classify("pinging database", s.db.PingContext(ctx))
}

// Close is a no-op; the database handle is owned by the caller.
func (s *SQLiteStore) Close(context.Context) error { return nil }

func classifyDocErr(op string, err error) error {
	if store.IsUniqueViolation(err) {
		if strings.Contains(err.Error(), "documents.seq") {
			return store.Conflict("id", "sequence already taken")
		}
		return store.Conflict("slug", "slug already exists")
	}
	return store.Classify(op, err)
}
