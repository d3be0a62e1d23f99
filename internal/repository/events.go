// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/olegiv/pathway-go/internal/model"
	"github.com/olegiv/pathway-go/internal/store"
)

const eventColumns = `id, title, slug, description, start_date_time, end_date_time, venue, city, cover_image,
	capacity, seats_remaining, status, featured, created_at, updated_at`

// Events stores events. Seat counts are also changed by Registrations.
type Events struct {
	db *sql.DB
}

// NewEvents creates an event repository.
func NewEvents(db *sql.DB) *Events {
	return &Events{db: db}
}

func scanEvent(r rowScanner) (model.Event, error) {
	var e model.Event
	err := r.Scan(&e.ID, &e.Title, &e.Slug, &e.Description, &e.StartDateTime, &e.EndDateTime, &e.Venue,
		&e.City, &e.CoverImage, &e.Capacity, &e.SeatsRemaining, &e.Status, &e.Featured, &e.CreatedAt, &e.UpdatedAt)
	e.StartDateTime, e.EndDateTime = e.StartDateTime.UTC(), e.EndDateTime.UTC()
	return e, err
}

// List returns events newest first. Upcoming lists events that have not
// ended, soonest first.
func (r *Events) List(ctx context.Context, opts ListOptions) ([]model.Event, int64, error) {
	var w where
	w.search(opts.Search, "title", "city", "venue")
	if opts.Status != "" {
		w.add("status = ?", opts.Status)
	}
	if opts.Featured != nil {
		w.add("featured = ?", *opts.Featured)
	}
	order := " ORDER BY created_at DESC, rowid DESC"
	if opts.Upcoming {
		w.add("end_date_time > ?", opts.now())
		order = " ORDER BY start_date_time ASC, rowid ASC"
	}

	var total int64
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM events"+w.String(), w.args...).Scan(&total); err != nil {
		return nil, 0, store.Classify("counting events", err)
	}

	query, args := page("SELECT "+eventColumns+" FROM events"+w.String()+order, w.args, opts)
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, store.Classify("listing events", err)
	}
	defer func() { _ = rows.Close() }()

	events := []model.Event{}
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, 0, store.Classify("scanning event", err)
		}
		events = append(events, e)
	}
	return events, total, store.Classify("iterating events", rows.Err())
}

// Get loads an event by id.
func (r *Events) Get(ctx context.Context, id string) (model.Event, error) {
	if !validID(id) {
		return model.Event{}, store.ErrNotFound
	}
	e, err := scanEvent(r.db.QueryRowContext(ctx, "SELECT "+eventColumns+" FROM events WHERE id = ?", id))
	return e, store.Classify("getting event", err)
}

// GetBySlug loads an event by slug.
func (r *Events) GetBySlug(ctx context.Context, slug string) (model.Event, error) {
	e, err := scanEvent(r.db.QueryRowContext(ctx, "SELECT "+eventColumns+" FROM events WHERE slug = ?", slug))
	return e, store.Classify("getting event by slug", err)
}

// Create stores a new event.
func (r *Events) Create(ctx context.Context, e model.Event) (model.Event, error) {
	if err := e.Check(); err != nil {
		return model.Event{}, err
	}
	now := nowUTC()
	e.ID = uuid.NewString()
	e.CreatedAt, e.UpdatedAt = now, now
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO events (`+eventColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.Title, e.Slug, e.Description, e.StartDateTime.UTC(), e.EndDateTime.UTC(), e.Venue, e.City,
		e.CoverImage, e.Capacity, e.SeatsRemaining, e.Status, e.Featured, e.CreatedAt, e.UpdatedAt)
	if err != nil {
		return model.Event{}, store.Classify("creating event", err)
	}
	return e, nil
}

// Update loads the event, applies fn and writes the result. The change to
// seatsRemaining is written as a delta so registrations made meanwhile are
// not lost; a delta that would leave the count outside [0, capacity]
// fails with a conflict.
func (r *Events) Update(ctx context.Context, id string, fn func(*model.Event) error) (model.Event, error) {
	e, err := r.Get(ctx, id)
	if err != nil {
		return model.Event{}, err
	}
	before := e.SeatsRemaining
	if err := fn(&e); err != nil {
		return model.Event{}, err
	}
	if err := e.Check(); err != nil {
		return model.Event{}, err
	}
	delta := e.SeatsRemaining - before

	res, err := r.db.ExecContext(ctx, `
		UPDATE events SET title = ?, slug = ?, description = ?, start_date_time = ?, end_date_time = ?,
			venue = ?, city = ?, cover_image = ?, capacity = ?, seats_remaining = seats_remaining + ?,
			status = ?, featured = ?, updated_at = ?
		WHERE id = ? AND seats_remaining + ? BETWEEN 0 AND ?`,
		e.Title, e.Slug, e.Description, e.StartDateTime.UTC(), e.EndDateTime.UTC(), e.Venue, e.City,
		e.CoverImage, e.Capacity, delta, e.Status, e.Featured, nowUTC(),
		e.ID, delta, e.Capacity)
	if err != nil {
		return model.Event{}, store.Classify("updating event", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return model.Event{}, store.Conflict("seatsRemaining", "seats remaining changed; reload the event and try again")
	}
	return r.Get(ctx, id)
}

// Delete removes an event. Events with registrations cannot be deleted.
func (r *Events) Delete(ctx context.Context, id string) error {
	return deleteRow(ctx, r.db, "events", id)
}

// Count returns the number of events.
func (r *Events) Count(ctx context.Context) (int64, error) {
	return countRows(ctx, r.db, "events", "", nil)
}
