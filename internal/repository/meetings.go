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

const meetingColumns = `id, full_name, phone, email, scheduled_date_time, urgency, status, message, notes, created_at, updated_at`

// Meetings stores consultation requests.
type Meetings struct {
	db *sql.DB
}

// NewMeetings creates a meeting request repository.
func NewMeetings(db *sql.DB) *Meetings {
	return &Meetings{db: db}
}

func scanMeeting(r rowScanner) (model.MeetingRequest, error) {
	var m model.MeetingRequest
	err := r.Scan(&m.ID, &m.FullName, &m.Phone, &m.Email, &m.ScheduledDateTime, &m.Urgency, &m.Status,
		&m.Message, &m.Notes, &m.CreatedAt, &m.UpdatedAt)
	m.ScheduledDateTime = m.ScheduledDateTime.UTC()
	return m, err
}

// List returns meeting requests newest first. Upcoming lists only future
// slots, soonest first.
func (r *Meetings) List(ctx context.Context, opts ListOptions) ([]model.MeetingRequest, int64, error) {
	var w where
	w.search(opts.Search, "full_name", "phone", "email")
	if opts.Status != "" {
		w.add("status = ?", opts.Status)
	}
	order := " ORDER BY created_at DESC, rowid DESC"
	if opts.Upcoming {
		w.add("scheduled_date_time > ?", opts.now())
		order = " ORDER BY scheduled_date_time ASC, rowid ASC"
	}

	var total int64
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM meeting_requests"+w.String(), w.args...).Scan(&total); err != nil {
		return nil, 0, store.Classify("counting meetings", err)
	}

	query, args := page("SELECT "+meetingColumns+" FROM meeting_requests"+w.String()+order, w.args, opts)
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, store.Classify("listing meetings", err)
	}
	defer func() { _ = rows.Close() }()

	meetings := []model.MeetingRequest{}
	for rows.Next() {
		m, err := scanMeeting(rows)
		if err != nil {
			return nil, 0, store.Classify("scanning meeting", err)
		}
		meetings = append(meetings, m)
	}
	return meetings, total, store.Classify("iterating meetings", rows.Err())
}

// Get loads a meeting request by id.
func (r *Meetings) Get(ctx context.Context, id string) (model.MeetingRequest, error) {
	if !validID(id) {
		return model.MeetingRequest{}, store.ErrNotFound
	}
	m, err := scanMeeting(r.db.QueryRowContext(ctx, "SELECT "+meetingColumns+" FROM meeting_requests WHERE id = ?", id))
	return m, store.Classify("getting meeting", err)
}

// Create stores a new meeting request.
func (r *Meetings) Create(ctx context.Context, m model.MeetingRequest) (model.MeetingRequest, error) {
	now := nowUTC()
	m.ID = uuid.NewString()
	m.CreatedAt, m.UpdatedAt = now, now
	m.ScheduledDateTime = m.ScheduledDateTime.UTC()
	if m.Status == "" {
		m.Status = model.MeetingPending
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO meeting_requests (`+meetingColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		m.ID, m.FullName, m.Phone, m.Email, m.ScheduledDateTime, m.Urgency, m.Status,
		m.Message, m.Notes, m.CreatedAt, m.UpdatedAt)
	if err != nil {
		return model.MeetingRequest{}, store.Classify("creating meeting", err)
	}
	return m, nil
}

// Update loads the meeting request, applies fn and writes the result.
func (r *Meetings) Update(ctx context.Context, id string, fn func(*model.MeetingRequest) error) (model.MeetingRequest, error) {
	m, err := r.Get(ctx, id)
	if err != nil {
		return model.MeetingRequest{}, err
	}
	if err := fn(&m); err != nil {
		return model.MeetingRequest{}, err
	}
	m.UpdatedAt = nowUTC()
	_, err = r.db.ExecContext(ctx, `
		UPDATE meeting_requests SET full_name = ?, phone = ?, email = ?, scheduled_date_time = ?,
			urgency = ?, status = ?, message = ?, notes = ?, updated_at = ?
		WHERE id = ?`,
		m.FullName, m.Phone, m.Email, m.ScheduledDateTime.UTC(), m.Urgency, m.Status,
		m.Message, m.Notes, m.UpdatedAt, m.ID)
	if err != nil {
		return model.MeetingRequest{}, store.Classify("updating meeting", err)
	}
	return m, nil
}

// Delete removes a meeting request.
func (r *Meetings) Delete(ctx context.Context, id string) error {
	return deleteRow(ctx, r.db, "meeting_requests", id)
}

// Count returns the number of meeting requests in status, or all when empty.
func (r *Meetings) Count(ctx context.Context, status model.MeetingStatus) (int64, error) {
	if status == "" {
		return countRows(ctx, r.db, "meeting_requests", "", nil)
	}
	return countRows(ctx, r.db, "meeting_requests", "status", status)
}
