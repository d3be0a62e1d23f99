// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/olegiv/pathway-go/internal/model"
	"github.com/olegiv/pathway-go/internal/store"
)

const officeColumns = `id, name, city, address, phone, email, map_url, headquarters, display_order, created_at, updated_at`

// Offices stores branch locations. City is unique regardless of case.
type Offices struct {
	db *sql.DB
}

// NewOffices creates an office repository.
func NewOffices(db *sql.DB) *Offices {
	return &Offices{db: db}
}

func scanOffice(r rowScanner) (model.Office, error) {
	var o model.Office
	err := r.Scan(&o.ID, &o.Name, &o.City, &o.Address, &o.Phone, &o.Email, &o.MapURL, &o.Headquarters,
		&o.Order, &o.CreatedAt, &o.UpdatedAt)
	return o, err
}

// List returns offices by display order.
func (r *Offices) List(ctx context.Context, opts ListOptions) ([]model.Office, int64, error) {
	var w where
	w.search(opts.Search, "name", "city")

	var total int64
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM offices"+w.String(), w.args...).Scan(&total); err != nil {
		return nil, 0, store.Classify("counting offices", err)
	}

	query, args := page("SELECT "+officeColumns+" FROM offices"+w.String()+
		" ORDER BY display_order ASC, created_at DESC, rowid DESC", w.args, opts)
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, store.Classify("listing offices", err)
	}
	defer func() { _ = rows.Close() }()

	offices := []model.Office{}
	for rows.Next() {
		o, err := scanOffice(rows)
		if err != nil {
			return nil, 0, store.Classify("scanning office", err)
		}
		offices = append(offices, o)
	}
	return offices, total, store.Classify("iterating offices", rows.Err())
}

// Get loads an office by id.
func (r *Offices) Get(ctx context.Context, id string) (model.Office, error) {
	if !validID(id) {
		return model.Office{}, store.ErrNotFound
	}
	o, err := scanOffice(r.db.QueryRowContext(ctx, "SELECT "+officeColumns+" FROM offices WHERE id = ?", id))
	return o, store.Classify("getting office", err)
}

// Create stores a new office.
func (r *Offices) Create(ctx context.Context, o model.Office) (model.Office, error) {
	now := nowUTC()
	o.ID = uuid.NewString()
	o.CreatedAt, o.UpdatedAt = now, now
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO offices (`+officeColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		o.ID, o.Name, o.City, o.Address, o.Phone, o.Email, o.MapURL, o.Headquarters, o.Order,
		o.CreatedAt, o.UpdatedAt)
	if err != nil {
		return model.Office{}, officeErr("creating office", err)
	}
	return o, nil
}

// Update loads the office, applies fn and writes the result.
func (r *Offices) Update(ctx context.Context, id string, fn func(*model.Office) error) (model.Office, error) {
	o, err := r.Get(ctx, id)
	if err != nil {
		return model.Office{}, err
	}
	if err := fn(&o); err != nil {
		return model.Office{}, err
	}
	o.UpdatedAt = nowUTC()
	_, err = r.db.ExecContext(ctx, `
		UPDATE offices SET name = ?, city = ?, address = ?, phone = ?, email = ?, map_url = ?,
			headquarters = ?, display_order = ?, updated_at = ?
		WHERE id = ?`,
		o.Name, o.City, o.Address, o.Phone, o.Email, o.MapURL, o.Headquarters, o.Order, o.UpdatedAt, o.ID)
	if err != nil {
		return model.Office{}, officeErr("updating office", err)
	}
	return o, nil
}

// Delete removes an office.
func (r *Offices) Delete(ctx context.Context, id string) error {
	return deleteRow(ctx, r.db, "offices", id)
}

func officeErr(op string, err error) error {
	err = store.Classify(op, err)
	var ce *store.ConflictError
	if errors.As(err, &ce) && ce.Field == "city" {
		return store.Conflict("city", "an office in this city already exists")
	}
	return err
}
