// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/olegiv/pathway-go/internal/model"
	"github.com/olegiv/pathway-go/internal/store"
	"github.com/olegiv/pathway-go/internal/util"
)

const testimonialColumns = `id, author, quote, source, avatar_url, rating, published_at, created_at, updated_at`

// Testimonials stores student quotes.
type Testimonials struct {
	db *sql.DB
}

// NewTestimonials creates a testimonial repository.
func NewTestimonials(db *sql.DB) *Testimonials {
	return &Testimonials{db: db}
}

func scanTestimonial(r rowScanner) (model.Testimonial, error) {
	var t model.Testimonial
	var rating sql.NullInt64
	var published sql.NullTime
	err := r.Scan(&t.ID, &t.Author, &t.Quote, &t.Source, &t.AvatarURL, &rating, &published, &t.CreatedAt, &t.UpdatedAt)
	t.Rating = util.IntPtr(rating)
	t.PublishedAt = util.TimePtr(published)
	return t, err
}

// List returns testimonials newest first. Published selects records with
// a publication time at or before Now.
func (r *Testimonials) List(ctx context.Context, opts ListOptions) ([]model.Testimonial, int64, error) {
	var w where
	w.search(opts.Search, "author", "quote", "source")
	if opts.Published != nil {
		if *opts.Published {
			w.add("published_at IS NOT NULL AND published_at <= ?", opts.now())
		} else {
			w.add("published_at IS NULL")
		}
	}

	var total int64
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM testimonials"+w.String(), w.args...).Scan(&total); err != nil {
		return nil, 0, store.Classify("counting testimonials", err)
	}

	query, args := page("SELECT "+testimonialColumns+" FROM testimonials"+w.String()+" ORDER BY created_at DESC, rowid DESC", w.args, opts)
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, store.Classify("listing testimonials", err)
	}
	defer func() { _ = rows.Close() }()

	list := []model.Testimonial{}
	for rows.Next() {
		t, err := scanTestimonial(rows)
		if err != nil {
			return nil, 0, store.Classify("scanning testimonial", err)
		}
		list = append(list, t)
	}
	return list, total, store.Classify("iterating testimonials", rows.Err())
}

// Get loads a testimonial by id.
func (r *Testimonials) Get(ctx context.Context, id string) (model.Testimonial, error) {
	if !validID(id) {
		return model.Testimonial{}, store.ErrNotFound
	}
	t, err := scanTestimonial(r.db.QueryRowContext(ctx, "SELECT "+testimonialColumns+" FROM testimonials WHERE id = ?", id))
	return t, store.Classify("getting testimonial", err)
}

// Create stores a new testimonial.
func (r *Testimonials) Create(ctx context.Context, t model.Testimonial) (model.Testimonial, error) {
	now := nowUTC()
	t.ID = uuid.NewString()
	t.CreatedAt, t.UpdatedAt = now, now
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO testimonials (`+testimonialColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.Author, t.Quote, t.Source, t.AvatarURL, util.NullInt64FromIntPtr(t.Rating),
		util.NullTimeFromPtr(t.PublishedAt), t.CreatedAt, t.UpdatedAt)
	if err != nil {
		return model.Testimonial{}, store.Classify("creating testimonial", err)
	}
	return t, nil
}

// Update loads the testimonial, applies fn and writes the result.
func (r *Testimonials) Update(ctx context.Context, id string, fn func(*model.Testimonial) error) (model.Testimonial, error) {
	t, err := r.Get(ctx, id)
	if err != nil {
		return model.Testimonial{}, err
	}
	if err := fn(&t); err != nil {
		return model.Testimonial{}, err
	}
	t.UpdatedAt = nowUTC()
	_, err = r.db.ExecContext(ctx, `
		UPDATE testimonials SET author = ?, quote = ?, source = ?, avatar_url = ?, rating = ?,
			published_at = ?, updated_at = ?
		WHERE id = ?`,
		t.Author, t.Quote, t.Source, t.AvatarURL, util.NullInt64FromIntPtr(t.Rating),
		util.NullTimeFromPtr(t.PublishedAt), t.UpdatedAt, t.ID)
	if err != nil {
		return model.Testimonial{}, store.Classify("updating testimonial", err)
	}
	return t, nil
}

// Delete removes a testimonial.
func (r *Testimonials) Delete(ctx context.Context, id string) error {
	return deleteRow(ctx, r.db, "testimonials", id)
}

// Count returns the number of testimonials.
func (r *Testimonials) Count(ctx context.Context) (int64, error) {
	return countRows(ctx, r.db, "testimonials", "", nil)
}
