// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"
	"strings"
)

// Errors shared by every repository regardless of backend.
var (
	// ErrNotFound is returned when a record is absent or its id is not
	// valid for the backing store.
	ErrNotFound = errors.New("not found")
	// ErrConflict is returned when a write would violate a unique or
	// referential constraint.
	ErrConflict = errors.New("conflict")
	// ErrUnavailable is returned when the backing store cannot be reached.
	ErrUnavailable = errors.New("store unavailable")
)

// ConflictError names the constraint that rejected a write.
type ConflictError struct {
	Field   string
	Message string
}

func (e *ConflictError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Field != "" {
		return e.Field + " already exists"
	}
	return ErrConflict.Error()
}

// Is lets errors.Is(err, ErrConflict) match any ConflictError.
func (e *ConflictError) Is(target error) bool {
	return target == ErrConflict
}

// Conflict builds a ConflictError for field with an optional message.
func Conflict(field, message string) error {
	return &ConflictError{Field: field, Message: message}
}

// Classify maps a database/sql error onto the shared taxonomy. Errors that
// fit no category are wrapped with op and returned as-is.
func Classify(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrConflict), errors.Is(err, ErrUnavailable):
		return err
	case errors.Is(err, sql.ErrNoRows):
		return ErrNotFound
	case IsUniqueViolation(err):
		return &ConflictError{Field: uniqueColumn(err.Error())}
	case strings.Contains(err.Error(), "FOREIGN KEY constraint failed"):
		return &ConflictError{Message: "record is referenced by other records"}
	case IsUnavailable(err):
		return fmt.Errorf("%s: %w: %v", op, ErrUnavailable, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}

// IsUniqueViolation reports whether err comes from a UNIQUE constraint.
func IsUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// IsUnavailable reports whether err means the store could not be reached.
func IsUnavailable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrUnavailable) ||
		errors.Is(err, driver.ErrBadConn) ||
		errors.Is(err, sql.ErrConnDone) ||
		errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	msg := err.Error()
	for _, s := range []string{"database is closed", "unable to open database", "database is locked", "connection refused"} {
		if strings.Contains(msg, s) {
			return true
		}
	}
	return false
}

// uniqueColumn extracts the column from "UNIQUE constraint failed: table.col".
func uniqueColumn(msg string) string {
	_, rest, ok := strings.Cut(msg, "UNIQUE constraint failed: ")
	if !ok {
		return ""
	}
	first, _, _ := strings.Cut(rest, ",")
	first, _, _ = strings.Cut(first, " ")
	if _, col, ok := strings.Cut(first, "."); ok {
		return col
	}
	return first
}
