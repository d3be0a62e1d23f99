// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package repository provides typed persistence for every entity.
//
// Relational entities are stored in SQLite tables with hand-written SQL.
// Content entities are stored as JSON documents through a docstore.Store.
// All repositories report failures with the store package errors:
// store.ErrNotFound, store.ErrConflict and store.ErrUnavailable.
package repository

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/olegiv/pathway-go/internal/docstore"
	"github.com/olegiv/pathway-go/internal/model"
)

// ListOptions selects a page of records.
type ListOptions struct {
	// Search is a case-insensitive substring matched against the
	// entity's name or title fields.
	Search string
	// Page is 1-based. Zero means the first page.
	Page int
	// Limit is the page size. Zero returns every matching record.
	Limit int

	Status   string
	Featured *bool
	Category string
	Active   *bool
	// Published restricts to published records when true and to drafts
	// when false.
	Published *bool
	// Upcoming restricts time-bound records to those not yet over at Now.
	Upcoming bool
	Now      time.Time
}

// Offset returns the number of records skipped before the page.
func (o ListOptions) Offset() int {
	if o.Page <= 1 || o.Limit <= 0 {
		return 0
	}
	return (o.Page - 1) * o.Limit
}

func (o ListOptions) now() time.Time {
	if o.Now.IsZero() {
		return time.Now().UTC()
	}
	return o.Now.UTC()
}

// docQuery translates the options into a document query. Only filters
// named in allowed are applied; the rest do not exist on the entity.
func (o ListOptions) docQuery(search []string, sort []docstore.SortField, allowed ...string) docstore.Query {
	q := docstore.Query{
		Equals:       map[string]any{},
		Search:       strings.TrimSpace(o.Search),
		SearchFields: search,
		Sort:         sort,
		Limit:        o.Limit,
		Offset:       o.Offset(),
	}
	for _, f := range allowed {
		switch f {
		case "status":
			if o.Status != "" {
				q.Equals["status"] = o.Status
			}
		case "featured":
			if o.Featured != nil {
				q.Equals["featured"] = *o.Featured
			}
		case "category":
			if o.Category != "" {
				q.Equals["category"] = o.Category
			}
		case "active":
			if o.Active != nil {
				q.Equals["active"] = *o.Active
			}
		case "published":
			if o.Published != nil {
				q.Equals["published"] = *o.Published
			}
		}
	}
	return q
}

// where accumulates SQL filter clauses and their arguments.
type where struct {
	clauses []string
	args    []any
}

func (w *where) add(clause string, args ...any) {
	w.clauses = append(w.clauses, clause)
	w.args = append(w.args, args...)
}

// search matches term as a case-insensitive substring of any column.
func (w *where) search(term string, cols ...string) {
	term = strings.TrimSpace(term)
	if term == "" || len(cols) == 0 {
		return
	}
	pattern := "%" + escapeLike(strings.ToLower(term)) + "%"
	ors := make([]string, len(cols))
	for i, c := range cols {
		ors[i] = "LOWER(" + c + `) LIKE ? ESCAPE '\'`
		w.args = append(w.args, pattern)
	}
	w.clauses = append(w.clauses, "("+strings.Join(ors, " OR ")+")")
}

func (w *where) String() string {
	if len(w.clauses) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(w.clauses, " AND ")
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

// page appends LIMIT/OFFSET when the options ask for a page.
func page(query string, args []any, o ListOptions) (string, []any) {
	if o.Limit <= 0 {
		return query, args
	}
	return query + " LIMIT ? OFFSET ?", append(args, o.Limit, o.Offset())
}

type rowScanner interface {
	Scan(dest ...any) error
}

// validID reports whether id can name a relational record.
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

func encodeList(v []string) string {
	if v == nil {
		v = []string{}
	}
	b, _ := json.Marshal(v)
	return string(b)
}

func decodeList(s string) []string {
	out := []string{}
	if s != "" {
		_ = json.Unmarshal([]byte(s), &out)
	}
	return out
}

func boolPtr(b bool) *bool { return &b }

func nowUTC() time.Time { return time.Now().UTC() }

func checkEntity(v any) error {
	if c, ok := v.(model.Checker); ok {
		return c.Check()
	}
	return nil
}
