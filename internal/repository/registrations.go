// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/olegiv/pathway-go/internal/model"
	"github.com/olegiv/pathway-go/internal/store"
)

const registrationColumns = `id, event_id, full_name, email, phone, study_level, interested_country, status, payment, created_at, updated_at`

// ErrEventFull is returned when a registration needs a seat and none is left.
var ErrEventFull = store.Conflict("eventId", "event is full")

// Registrations stores event registrations and keeps the event's
// seats_remaining in step inside the same transaction.
type Registrations struct {
	db *sql.DB
}

// NewRegistrations creates a registration repository.
func NewRegistrations(db *sql.DB) *Registrations {
	return &Registrations{db: db}
}

func scanRegistration(r rowScanner) (model.EventRegistration, error) {
	var reg model.EventRegistration
	var payment string
	err := r.Scan(&reg.ID, &reg.EventID, &reg.FullName, &reg.Email, &reg.Phone, &reg.StudyLevel,
		&reg.InterestedCountry, &reg.Status, &payment, &reg.CreatedAt, &reg.UpdatedAt)
	if err == nil && payment != "" {
		err = json.Unmarshal([]byte(payment), &reg.Payment)
	}
	return reg, err
}

func encodePayment(p model.Payment) string {
	b, _ := json.Marshal(p)
	return string(b)
}

// ListByEvent returns an event's registrations, oldest first.
func (r *Registrations) ListByEvent(ctx context.Context, eventID string, opts ListOptions) ([]model.EventRegistration, int64, error) {
	if !validID(eventID) {
		return nil, 0, store.ErrNotFound
	}
	var w where
	w.add("event_id = ?", eventID)
	w.search(opts.Search, "full_name", "email", "phone")
	if opts.Status != "" {
		w.add("status = ?", opts.Status)
	}

	var total int64
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM event_registrations"+w.String(), w.args...).Scan(&total); err != nil {
		return nil, 0, store.Classify("counting registrations", err)
	}

	query, args := page("SELECT "+registrationColumns+" FROM event_registrations"+w.String()+
		" ORDER BY created_at ASC, rowid ASC", w.args, opts)
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, store.Classify("listing registrations", err)
	}
	defer func() { _ = rows.Close() }()

	regs := []model.EventRegistration{}
	for rows.Next() {
		reg, err := scanRegistration(rows)
		if err != nil {
			return nil, 0, store.Classify("scanning registration", err)
		}
		regs = append(regs, reg)
	}
	return regs, total, store.Classify("iterating registrations", rows.Err())
}

// Get loads a registration by id.
func (r *Registrations) Get(ctx context.Context, id string) (model.EventRegistration, error) {
	if !validID(id) {
		return model.EventRegistration{}, store.ErrNotFound
	}
	reg, err := scanRegistration(r.db.QueryRowContext(ctx,
		"SELECT "+registrationColumns+" FROM event_registrations WHERE id = ?", id))
	return reg, store.Classify("getting registration", err)
}

// Create stores a registration. When its status holds a seat, one seat is
// taken from the event in the same transaction, or ErrEventFull is returned.
func (r *Registrations) Create(ctx context.Context, reg model.EventRegistration) (model.EventRegistration, error) {
	if !validID(reg.EventID) {
		return model.EventRegistration{}, store.ErrNotFound
	}
	now := nowUTC()
	reg.ID = uuid.NewString()
	reg.CreatedAt, reg.UpdatedAt = now, now
	if reg.Status == "" {
		reg.Status = model.RegistrationPending
	}

	// Each transaction writes before it reads so that SQLite takes the
	// write lock up front instead of failing a lock upgrade.
	err := r.inTx(ctx, func(tx *sql.Tx) error {
		var err error
		if reg.Status.HoldsSeat() {
			err = adjustSeats(ctx, tx, reg.EventID, -1)
		} else {
			err = touchEvent(ctx, tx, reg.EventID)
		}
		if err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO event_registrations (`+registrationColumns+`)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			reg.ID, reg.EventID, reg.FullName, reg.Email, reg.Phone, reg.StudyLevel, reg.InterestedCountry,
			reg.Status, encodePayment(reg.Payment), reg.CreatedAt, reg.UpdatedAt)
		return store.Classify("creating registration", err)
	})
	if err != nil {
		return model.EventRegistration{}, err
	}
	return reg, nil
}

// Update applies fn to the registration. Moving into a seat-holding status
// takes a seat; moving out of one gives it back.
func (r *Registrations) Update(ctx context.Context, id string, fn func(*model.EventRegistration) error) (model.EventRegistration, error) {
	if !validID(id) {
		return model.EventRegistration{}, store.ErrNotFound
	}
	var reg model.EventRegistration
	err := r.inTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, "UPDATE event_registrations SET updated_at = updated_at WHERE id = ?", id)
		if err != nil {
			return store.Classify("locking registration", err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return store.ErrNotFound
		}
		reg, err = scanRegistration(tx.QueryRowContext(ctx,
			"SELECT "+registrationColumns+" FROM event_registrations WHERE id = ?", id))
		if err != nil {
			return store.Classify("getting registration", err)
		}
		held := reg.Status.HoldsSeat()
		eventID := reg.EventID
		if err := fn(&reg); err != nil {
			return err
		}
		reg.EventID = eventID

		switch holds := reg.Status.HoldsSeat(); {
		case holds && !held:
			err = adjustSeats(ctx, tx, reg.EventID, -1)
		case !holds && held:
			err = adjustSeats(ctx, tx, reg.EventID, +1)
		}
		if err != nil {
			return err
		}

		reg.UpdatedAt = nowUTC()
		_, err = tx.ExecContext(ctx, `
			UPDATE event_registrations SET full_name = ?, email = ?, phone = ?, study_level = ?,
				interested_country = ?, status = ?, payment = ?, updated_at = ?
			WHERE id = ?`,
			reg.FullName, reg.Email, reg.Phone, reg.StudyLevel, reg.InterestedCountry, reg.Status,
			encodePayment(reg.Payment), reg.UpdatedAt, reg.ID)
		return store.Classify("updating registration", err)
	})
	if err != nil {
		return model.EventRegistration{}, err
	}
	return reg, nil
}

// Delete removes a registration, returning its seat when it held one.
func (r *Registrations) Delete(ctx context.Context, id string) error {
	if !validID(id) {
		return store.ErrNotFound
	}
	return r.inTx(ctx, func(tx *sql.Tx) error {
		var eventID string
		var status model.RegistrationStatus
		err := tx.QueryRowContext(ctx, "DELETE FROM event_registrations WHERE id = ? RETURNING event_id, status", id).
			Scan(&eventID, &status)
		if err != nil {
			return store.Classify("deleting registration", err)
		}
		if status.HoldsSeat() {
			return adjustSeats(ctx, tx, eventID, +1)
		}
		return nil
	})
}

// inTx runs fn in a transaction, committing when fn returns nil.
func (r *Registrations) inTx(ctx context.Context, fn func(*sql.Tx) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return store.Classify("beginning transaction", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return store.Classify("committing transaction", err)
	}
	return nil
}

func eventExists(ctx context.Context, tx *sql.Tx, eventID string) error {
	var one int
	err := tx.QueryRowContext(ctx, "SELECT 1 FROM events WHERE id = ?", eventID).Scan(&one)
	return store.Classify("checking event", err)
}

// touchEvent takes the write lock and checks that the event exists.
func touchEvent(ctx context.Context, tx *sql.Tx, eventID string) error {
	res, err := tx.ExecContext(ctx, "UPDATE events SET updated_at = updated_at WHERE id = ?", eventID)
	if err != nil {
		return store.Classify("checking event", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return store.ErrNotFound
	}
	return nil
}

// adjustSeats moves the event's seat count by delta. Taking a seat from a
// full event returns ErrEventFull; returning a seat never exceeds capacity.
func adjustSeats(ctx context.Context, tx *sql.Tx, eventID string, delta int) error {
	var res sql.Result
	var err error
	if delta < 0 {
		res, err = tx.ExecContext(ctx, `
			UPDATE events SET seats_remaining = seats_remaining - 1, updated_at = ?
			WHERE id = ? AND seats_remaining > 0`, nowUTC(), eventID)
	} else {
		res, err = tx.ExecContext(ctx, `
			UPDATE events SET seats_remaining = MIN(seats_remaining + 1, capacity), updated_at = ?
			WHERE id = ?`, nowUTC(), eventID)
	}
	if err != nil {
		return store.Classify("adjusting seats", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return store.Classify("adjusting seats", err)
	}
	if n == 0 {
		if delta < 0 {
			if err := eventExists(ctx, tx, eventID); errors.Is(err, store.ErrNotFound) {
				return err
			}
			return ErrEventFull
		}
		return fmt.Errorf("adjusting seats: event %s: %w", eventID, store.ErrNotFound)
	}
	return nil
}
