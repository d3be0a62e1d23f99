// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/olegiv/pathway-go/internal/auth"
)

// AdminSeed describes the first staff account created on an empty database.
type AdminSeed struct {
	Email    string
	Password string
	Name     string
}

// SeedAdmin creates an admin user unless a user with that email already
// exists. It returns true when a user was created.
func SeedAdmin(ctx context.Context, db *sql.DB, seed AdminSeed) (bool, error) {
	email := strings.ToLower(strings.TrimSpace(seed.Email))
	if email == "" {
		return false, errors.New("admin email is required")
	}
	if err := auth.ValidatePassword(seed.Password); err != nil {
		return false, fmt.Errorf("admin password: %w", err)
	}

	var existing string
	err := db.QueryRowContext(ctx, `SELECT id FROM users WHERE email = ?`, email).Scan(&existing)
	if err == nil {
		slog.Info("admin user already exists, skipping seed", "email", email)
		return false, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return false, fmt.Errorf("checking for admin user: %w", err)
	}

	hash, err := auth.HashPassword(seed.Password)
	if err != nil {
		return false, fmt.Errorf("hashing password: %w", err)
	}

	name := strings.TrimSpace(seed.Name)
	if name == "" {
		name = "Administrator"
	}

	now := time.Now().UTC()
	id := uuid.NewString()
	_, err = db.ExecContext(ctx, `
		INSERT INTO users (id, name, email, password_hash, role, active, created_at, updated_at)
		VALUES (?, ?, ?, ?, 'admin', 1, ?, ?)`,
		id, name, email, hash, now, now)
	if err != nil {
		return false, Classify("creating admin user", err)
	}

	slog.Info("created admin user", "id", id, "email", email)
	return true, nil
}
