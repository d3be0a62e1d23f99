// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/olegiv/pathway-go/internal/docstore"
	"github.com/olegiv/pathway-go/internal/model"
	"github.com/olegiv/pathway-go/internal/store"
)

// docEntity constrains PT to a pointer to T carrying document metadata.
type docEntity[T any] interface {
	*T
	model.Document
}

// DocConfig describes how one collection is queried.
type DocConfig struct {
	// Collection is the document collection name.
	Collection string
	// Sequential entities are addressed by a derived integer id.
	Sequential bool
	// Search lists the body fields matched by ListOptions.Search.
	Search []string
	// Sort is applied before the default recency order.
	Sort []docstore.SortField
	// Filters names the ListOptions filters the entity supports.
	Filters []string
}

// Documents is a repository for entities stored as JSON documents.
type Documents[T any, PT docEntity[T]] struct {
	store docstore.Store
	cfg   DocConfig
}

// NewDocuments creates a document repository over s.
func NewDocuments[T any, PT docEntity[T]](s docstore.Store, cfg DocConfig) *Documents[T, PT] {
	return &Documents[T, PT]{store: s, cfg: cfg}
}

// Collection returns the collection name.
func (r *Documents[T, PT]) Collection() string { return r.cfg.Collection }

// metaKeys are kept on the document record, not in the body.
var metaKeys = []string{"id", "createdAt", "updatedAt"}

func encodeBody(v any) (json.RawMessage, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, err
	}
	for _, k := range metaKeys {
		delete(fields, k)
	}
	return json.Marshal(fields)
}

func (r *Documents[T, PT]) decode(d docstore.Document) (T, error) {
	var v T
	if err := json.Unmarshal(d.Body, &v); err != nil {
		return v, fmt.Errorf("decoding %s document %s: %w", r.cfg.Collection, d.ID, err)
	}
	p := PT(&v)
	p.SetDocumentID(d.ID)
	p.SetSequence(d.Seq)
	p.SetTimestamps(d.CreatedAt, d.UpdatedAt)
	return v, nil
}

func (r *Documents[T, PT]) encode(v *T) (docstore.Document, error) {
	p := PT(v)
	body, err := encodeBody(v)
	if err != nil {
		return docstore.Document{}, fmt.Errorf("encoding %s document: %w", r.cfg.Collection, err)
	}
	d := docstore.Document{ID: p.DocumentID(), Seq: p.Sequence(), Body: body}
	if s, ok := any(p).(model.Sluggable); ok {
		d.Slug = s.GetSlug()
	}
	return d, nil
}

// List returns a page of entities and the total match count.
func (r *Documents[T, PT]) List(ctx context.Context, opts ListOptions) ([]T, int64, error) {
	q := opts.docQuery(r.cfg.Search, r.cfg.Sort, r.cfg.Filters...)
	total, err := r.store.Count(ctx, r.cfg.Collection, q)
	if err != nil {
		return nil, 0, err
	}
	docs, err := r.store.Find(ctx, r.cfg.Collection, q)
	if err != nil {
		return nil, 0, err
	}
	out := make([]T, 0, len(docs))
	for _, d := range docs {
		v, err := r.decode(d)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, v)
	}
	return out, total, nil
}

// fetch resolves a public id: the store id, or the sequential integer for
// sequential collections.
func (r *Documents[T, PT]) fetch(ctx context.Context, id string) (docstore.Document, error) {
	if !r.cfg.Sequential {
		return r.store.Get(ctx, r.cfg.Collection, id)
	}
	n, err := strconv.ParseInt(id, 10, 64)
	if err != nil || n <= 0 {
		return docstore.Document{}, store.ErrNotFound
	}
	return r.store.GetBySeq(ctx, r.cfg.Collection, n)
}

// Get loads an entity by public id.
func (r *Documents[T, PT]) Get(ctx context.Context, id string) (T, error) {
	d, err := r.fetch(ctx, id)
	if err != nil {
		var zero T
		return zero, err
	}
	return r.decode(d)
}

// GetBySlug loads an entity by slug.
func (r *Documents[T, PT]) GetBySlug(ctx context.Context, slug string) (T, error) {
	d, err := r.store.GetBySlug(ctx, r.cfg.Collection, slug)
	if err != nil {
		var zero T
		return zero, err
	}
	return r.decode(d)
}

// Create stores v and returns it with its assigned id and timestamps.
func (r *Documents[T, PT]) Create(ctx context.Context, v T) (T, error) {
	var zero T
	if err := checkEntity(PT(&v)); err != nil {
		return zero, err
	}
	d, err := r.encode(&v)
	if err != nil {
		return zero, err
	}
	saved, err := r.store.Insert(ctx, r.cfg.Collection, d, r.cfg.Sequential)
	if err != nil {
		return zero, err
	}
	return r.decode(saved)
}

// Update loads the entity, applies fn and writes it back.
func (r *Documents[T, PT]) Update(ctx context.Context, id string, fn func(PT) error) (T, error) {
	var zero T
	d, err := r.fetch(ctx, id)
	if err != nil {
		return zero, err
	}
	v, err := r.decode(d)
	if err != nil {
		return zero, err
	}
	if err := fn(PT(&v)); err != nil {
		return zero, err
	}
	if err := checkEntity(PT(&v)); err != nil {
		return zero, err
	}
	next, err := r.encode(&v)
	if err != nil {
		return zero, err
	}
	next.ID = d.ID
	saved, err := r.store.Replace(ctx, r.cfg.Collection, next)
	if err != nil {
		return zero, err
	}
	return r.decode(saved)
}

// Delete removes the entity with the public id.
func (r *Documents[T, PT]) Delete(ctx context.Context, id string) error {
	d, err := r.fetch(ctx, id)
	if err != nil {
		return err
	}
	return r.store.Delete(ctx, r.cfg.Collection, d.ID)
}

// Count returns how many entities match opts.
func (r *Documents[T, PT]) Count(ctx context.Context, opts ListOptions) (int64, error) {
	return r.store.Count(ctx, r.cfg.Collection, opts.docQuery(r.cfg.Search, nil, r.cfg.Filters...))
}

// Singleton is a repository for a collection holding exactly one document.
type Singleton[T any, PT docEntity[T]] struct {
	store    docstore.Store
	coll     string
	defaults func() T
}

// NewSingleton creates a singleton repository. defaults is stored on the
// first read.
func NewSingleton[T any, PT docEntity[T]](s docstore.Store, coll string, defaults func() T) *Singleton[T, PT] {
	return &Singleton[T, PT]{store: s, coll: coll, defaults: defaults}
}

func (r *Singleton[T, PT]) decode(d docstore.Document) (T, error) {
	// start from the defaults so fields added later get their default value
	v := r.defaults()
	if err := json.Unmarshal(d.Body, &v); err != nil {
		return v, fmt.Errorf("decoding %s: %w", r.coll, err)
	}
	p := PT(&v)
	p.SetDocumentID(d.ID)
	p.SetTimestamps(d.CreatedAt, d.UpdatedAt)
	return v, nil
}

// Get returns the document, creating it from defaults when absent.
func (r *Singleton[T, PT]) Get(ctx context.Context) (T, error) {
	def := r.defaults()
	body, err := encodeBody(&def)
	if err != nil {
		return def, err
	}
	d, err := r.store.Singleton(ctx, r.coll, body)
	if err != nil {
		var zero T
		return zero, err
	}
	return r.decode(d)
}

// Update applies fn to the current value and saves the result.
func (r *Singleton[T, PT]) Update(ctx context.Context, fn func(PT) error) (T, error) {
	var zero T
	v, err := r.Get(ctx)
	if err != nil {
		return zero, err
	}
	if err := fn(PT(&v)); err != nil {
		return zero, err
	}
	body, err := encodeBody(&v)
	if err != nil {
		return zero, err
	}
	d, err := r.store.SaveSingleton(ctx, r.coll, body)
	if err != nil {
		return zero, err
	}
	return r.decode(d)
}
