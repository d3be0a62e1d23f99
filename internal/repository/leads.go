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

const leadColumns = `id, name, email, phone, country_interest, service_interest, message, purpose, status,
	notes, source, utm_source, utm_medium, utm_campaign, referrer, geo_country, device, browser, created_at, updated_at`

// Leads stores enquiries captured from the public site.
type Leads struct {
	db *sql.DB
}

// NewLeads creates a lead repository.
func NewLeads(db *sql.DB) *Leads {
	return &Leads{db: db}
}

func scanLead(r rowScanner) (model.Lead, error) {
	var l model.Lead
	var countries, services string
	err := r.Scan(&l.ID, &l.Name, &l.Email, &l.Phone, &countries, &services, &l.Message, &l.Purpose, &l.Status,
		&l.Notes, &l.Source, &l.UTMSource, &l.UTMMedium, &l.UTMCampaign, &l.Referrer,
		&l.GeoCountry, &l.Device, &l.Browser, &l.CreatedAt, &l.UpdatedAt)
	l.CountryInterest = decodeList(countries)
	l.ServiceInterest = decodeList(services)
	return l, err
}

// List returns leads newest first.
func (r *Leads) List(ctx context.Context, opts ListOptions) ([]model.Lead, int64, error) {
	var w where
	w.search(opts.Search, "name", "email", "phone", "message")
	if opts.Status != "" {
		w.add("status = ?", opts.Status)
	}
	if opts.Category != "" {
		w.add("purpose = ?", opts.Category)
	}

	var total int64
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM leads"+w.String(), w.args...).Scan(&total); err != nil {
		return nil, 0, store.Classify("counting leads", err)
	}

	query, args := page("SELECT "+leadColumns+" FROM leads"+w.String()+" ORDER BY created_at DESC, rowid DESC", w.args, opts)
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, store.Classify("listing leads", err)
	}
	defer func() { _ = rows.Close() }()

	leads := []model.Lead{}
	for rows.Next() {
		l, err := scanLead(rows)
		if err != nil {
			return nil, 0, store.Classify("scanning lead", err)
		}
		leads = append(leads, l)
	}
	return leads, total, store.Classify("iterating leads", rows.Err())
}

// Get loads a lead by id.
func (r *Leads) Get(ctx context.Context, id string) (model.Lead, error) {
	if !validID(id) {
		return model.Lead{}, store.ErrNotFound
	}
	l, err := scanLead(r.db.QueryRowContext(ctx, "SELECT "+leadColumns+" FROM leads WHERE id = ?", id))
	return l, store.Classify("getting lead", err)
}

// Create stores a new lead.
func (r *Leads) Create(ctx context.Context, l model.Lead) (model.Lead, error) {
	now := nowUTC()
	l.ID = uuid.NewString()
	l.CreatedAt, l.UpdatedAt = now, now
	if l.Status == "" {
		l.Status = model.LeadNew
	}
	l.CountryInterest = decodeList(encodeList(l.CountryInterest))
	l.ServiceInterest = decodeList(encodeList(l.ServiceInterest))
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO leads (`+leadColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		l.ID, l.Name, l.Email, l.Phone, encodeList(l.CountryInterest), encodeList(l.ServiceInterest),
		l.Message, l.Purpose, l.Status, l.Notes, l.Source, l.UTMSource, l.UTMMedium, l.UTMCampaign,
		l.Referrer, l.GeoCountry, l.Device, l.Browser, l.CreatedAt, l.UpdatedAt)
	if err != nil {
		return model.Lead{}, store.Classify("creating lead", err)
	}
	return l, nil
}

// Update loads the lead, applies fn and writes the result.
func (r *Leads) Update(ctx context.Context, id string, fn func(*model.Lead) error) (model.Lead, error) {
	l, err := r.Get(ctx, id)
	if err != nil {
		return model.Lead{}, err
	}
	if err := fn(&l); err != nil {
		return model.Lead{}, err
	}
	l.UpdatedAt = nowUTC()
	_, err = r.db.ExecContext(ctx, `
		UPDATE leads SET name = ?, email = ?, phone = ?, country_interest = ?, service_interest = ?,
			message = ?, purpose = ?, status = ?, notes = ?, updated_at = ?
		WHERE id = ?`,
		l.Name, l.Email, l.Phone, encodeList(l.CountryInterest), encodeList(l.ServiceInterest),
		l.Message, l.Purpose, l.Status, l.Notes, l.UpdatedAt, l.ID)
	if err != nil {
		return model.Lead{}, store.Classify("updating lead", err)
	}
	return l, nil
}

// Delete removes a lead.
func (r *Leads) Delete(ctx context.Context, id string) error {
	return deleteRow(ctx, r.db, "leads", id)
}

// Count returns the number of leads, restricted to status when non-empty.
func (r *Leads) Count(ctx context.Context, status model.LeadStatus) (int64, error) {
	if status == "" {
		return countRows(ctx, r.db, "leads", "", nil)
	}
	return countRows(ctx, r.db, "leads", "status", status)
}
