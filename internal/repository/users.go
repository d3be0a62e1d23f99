// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/olegiv/pathway-go/internal/model"
	"github.com/olegiv/pathway-go/internal/store"
	"github.com/olegiv/pathway-go/internal/util"
)

const userColumns = `id, name, email, password_hash, role, active, last_login_at, created_at, updated_at`

// Users stores staff accounts.
type Users struct {
	db *sql.DB
}

// NewUsers creates a user repository.
func NewUsers(db *sql.DB) *Users {
	return &Users{db: db}
}

func scanUser(r rowScanner) (model.User, error) {
	var u model.User
	var lastLogin sql.NullTime
	err := r.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role, &u.Active, &lastLogin, &u.CreatedAt, &u.UpdatedAt)
	u.LastLoginAt = util.TimePtr(lastLogin)
	return u, err
}

// List returns users matching opts. Status filters by role.
func (r *Users) List(ctx context.Context, opts ListOptions) ([]model.User, int64, error) {
	var w where
	w.search(opts.Search, "name", "email")
	if opts.Status != "" {
		w.add("role = ?", opts.Status)
	}
	if opts.Active != nil {
		w.add("active = ?", *opts.Active)
	}

	var total int64
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM users"+w.String(), w.args...).Scan(&total); err != nil {
		return nil, 0, store.Classify("counting users", err)
	}

	query, args := page("SELECT "+userColumns+" FROM users"+w.String()+" ORDER BY created_at DESC, rowid DESC", w.args, opts)
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, store.Classify("listing users", err)
	}
	defer func() { _ = rows.Close() }()

	users := []model.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, 0, store.Classify("scanning user", err)
		}
		users = append(users, u)
	}
	return users, total, store.Classify("iterating users", rows.Err())
}

// Get loads a user by id.
func (r *Users) Get(ctx context.Context, id string) (model.User, error) {
	if !validID(id) {
		return model.User{}, store.ErrNotFound
	}
	u, err := scanUser(r.db.QueryRowContext(ctx, "SELECT "+userColumns+" FROM users WHERE id = ?", id))
	return u, store.Classify("getting user", err)
}

// GetByEmail loads a user by email, ignoring case.
func (r *Users) GetByEmail(ctx context.Context, email string) (model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	u, err := scanUser(r.db.QueryRowContext(ctx, "SELECT "+userColumns+" FROM users WHERE email = ?", email))
	return u, store.Classify("getting user by email", err)
}

// Create stores u. PasswordHash must already be set.
func (r *Users) Create(ctx context.Context, u model.User) (model.User, error) {
	now := nowUTC()
	u.ID = uuid.NewString()
	u.CreatedAt, u.UpdatedAt = now, now
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO users (id, name, email, password_hash, role, active, last_login_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		u.ID, u.Name, u.Email, u.PasswordHash, u.Role, u.Active, util.NullTimeFromPtr(u.LastLoginAt), u.CreatedAt, u.UpdatedAt)
	if err != nil {
		return model.User{}, store.Classify("creating user", err)
	}
	return u, nil
}

// Update loads the user, applies fn and writes the result.
func (r *Users) Update(ctx context.Context, id string, fn func(*model.User) error) (model.User, error) {
	u, err := r.Get(ctx, id)
	if err != nil {
		return model.User{}, err
	}
	if err := fn(&u); err != nil {
		return model.User{}, err
	}
	u.UpdatedAt = nowUTC()
	_, err = r.db.ExecContext(ctx, `
		UPDATE users SET name = ?, email = ?, password_hash = ?, role = ?, active = ?, updated_at = ?
		WHERE id = ?`,
		u.Name, u.Email, u.PasswordHash, u.Role, u.Active, u.UpdatedAt, u.ID)
	if err != nil {
		return model.User{}, store.Classify("updating user", err)
	}
	return u, nil
}

// TouchLogin records a successful login.
func (r *Users) TouchLogin(ctx context.Context, id string, at time.Time) error {
	_, err := r.db.ExecContext(ctx, "UPDATE users SET last_login_at = ? WHERE id = ?", at.UTC(), id)
	return store.Classify("recording login", err)
}

// Delete removes a user.
func (r *Users) Delete(ctx context.Context, id string) error {
	return deleteRow(ctx, r.db, "users", id)
}

// deleteRow removes one row by id from table.
func deleteRow(ctx context.Context, db *sql.DB, table, id string) error {
	if !validID(id) {
		return store.ErrNotFound
	}
	res, err := db.ExecContext(ctx, "DELETE FROM "+table+" WHERE id = ?", id)
	if err != nil {
		return store.Classify("deleting from "+table, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return store.ErrNotFound
	}
	return nil
}

// countRows counts rows of table, optionally restricted by one equality.
func countRows(ctx context.Context, db *sql.DB, table, column string, value any) (int64, error) {
	query := "SELECT COUNT(*) FROM " + table
	var args []any
	if column != "" {
		query += " WHERE " + column + " = ?"
		args = append(args, value)
	}
	var n int64
	if err := db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, store.Classify("counting "+table, err)
	}
	return n, nil
}
