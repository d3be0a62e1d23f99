// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package docstore stores content-shaped entities as JSON documents grouped
// into named collections.
//
// Two backends implement Store: MongoStore for deployments with a MongoDB
// cluster and SQLiteStore, which keeps documents in the relational database
// when no MongoDB URI is configured. Both enforce per-collection slug and
// sequence uniqueness and report failures with the store package errors.
package docstore

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"time"
)

// Document is one stored record. Body holds the entity as JSON.
type Document struct {
	ID        string
	Slug      string
	Seq       int64
	Body      json.RawMessage
	CreatedAt time.Time
	UpdatedAt time.Time
}

// SortField orders results by a body field or by one of the reserved
// names FieldCreatedAt and FieldSeq.
type SortField struct {
	Field string
	Desc  bool
}

// Reserved field names usable in sorts.
const (
	FieldCreatedAt = "createdAt"
	FieldSeq       = "seq"
)

// Query selects documents within a collection. Equals and Search apply to
// top-level body fields.
type Query struct {
	Equals       map[string]any
	Search       string
	SearchFields []string
	Sort         []SortField
	Limit        int
	Offset       int
}

// Store is the document persistence contract.
type Store interface {
	Find(ctx context.Context, coll string, q Query) ([]Document, error)
	Count(ctx context.Context, coll string, q Query) (int64, error)
	Get(ctx context.Context, coll, id string) (Document, error)
	GetBySlug(ctx context.Context, coll, slug string) (Document, error)
	GetBySeq(ctx context.Context, coll string, seq int64) (Document, error)
	// Insert stores doc under a new id. When sequential is true the store
	// assigns Seq as one more than the collection's current maximum.
	Insert(ctx context.Context, coll string, doc Document, sequential bool) (Document, error)
	// Replace overwrites slug and body of an existing document.
	Replace(ctx context.Context, coll string, doc Document) (Document, error)
	Delete(ctx context.Context, coll, id string) error
	// Singleton returns the collection's only document, inserting defaults
	// when it does not exist yet.
	Singleton(ctx context.Context, coll string, defaults json.RawMessage) (Document, error)
	// SaveSingleton replaces the body of the collection's only document.
	SaveSingleton(ctx context.Context, coll string, body json.RawMessage) (Document, error)
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

// seqRetries bounds retries when two inserts race for the same sequence.
const seqRetries = 5

var fieldName = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_]*$`)

func (q Query) check() error {
	for f := range q.Equals {
		if !fieldName.MatchString(f) {
			return fmt.Errorf("docstore: invalid field name %q", f)
		}
	}
	for _, f := range q.SearchFields {
		if !fieldName.MatchString(f) {
			return fmt.Errorf("docstore: invalid search field %q", f)
		}
	}
	for _, s := range q.Sort {
		if !fieldName.MatchString(s.Field) {
			return fmt.Errorf("docstore: invalid sort field %q", s.Field)
		}
	}
	return nil
}
