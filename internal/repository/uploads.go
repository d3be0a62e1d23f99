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

const uploadColumns = `id, filename, size, mime_type, width, height, provider, external_id, url, uploaded_by, created_at, updated_at`

// Uploads stores metadata for files held by the image host.
type Uploads struct {
	db *sql.DB
}

// NewUploads creates an upload repository.
func NewUploads(db *sql.DB) *Uploads {
	return &Uploads{db: db}
}

func scanUpload(r rowScanner) (model.Upload, error) {
	var u model.Upload
	var by sql.NullString
	err := r.Scan(&u.ID, &u.Filename, &u.Size, &u.MimeType, &u.Width, &u.Height, &u.Provider,
		&u.ExternalID, &u.URL, &by, &u.CreatedAt, &u.UpdatedAt)
	u.UploadedBy = by.String
	return u, err
}

// NewID returns an id for an upload that has not been stored yet, so the
// image host key can be derived before the row exists.
func (r *Uploads) NewID() string {
	return uuid.NewString()
}

// List returns uploads newest first.
func (r *Uploads) List(ctx context.Context, opts ListOptions) ([]model.Upload, int64, error) {
	var w where
	w.search(opts.Search, "filename")
	if opts.Category != "" {
		w.add("mime_type = ?", opts.Category)
	}

	var total int64
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM uploads"+w.String(), w.args...).Scan(&total); err != nil {
		return nil, 0, store.Classify("counting uploads", err)
	}

	query, args := page("SELECT "+uploadColumns+" FROM uploads"+w.String()+" ORDER BY created_at DESC, rowid DESC", w.args, opts)
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, store.Classify("listing uploads", err)
	}
	defer func() { _ = rows.Close() }()

	uploads := []model.Upload{}
	for rows.Next() {
		u, err := scanUpload(rows)
		if err != nil {
			return nil, 0, store.Classify("scanning upload", err)
		}
		uploads = append(uploads, u)
	}
	return uploads, total, store.Classify("iterating uploads", rows.Err())
}

// Get loads an upload by id.
func (r *Uploads) Get(ctx context.Context, id string) (model.Upload, error) {
	if !validID(id) {
		return model.Upload{}, store.ErrNotFound
	}
	u, err := scanUpload(r.db.QueryRowContext(ctx, "SELECT "+uploadColumns+" FROM uploads WHERE id = ?", id))
	return u, store.Classify("getting upload", err)
}

// Create stores u. A blank ID is replaced with a new one.
func (r *Uploads) Create(ctx context.Context, u model.Upload) (model.Upload, error) {
	now := nowUTC()
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	u.CreatedAt, u.UpdatedAt = now, now
	by := util.NullStringFromValue(u.UploadedBy)
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO uploads (`+uploadColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		u.ID, u.Filename, u.Size, u.MimeType, u.Width, u.Height, u.Provider, u.ExternalID, u.URL, by,
		u.CreatedAt, u.UpdatedAt)
	if err != nil {
		return model.Upload{}, store.Classify("creating upload", err)
	}
	return u, nil
}

// Delete removes an upload record. The stored file is removed by the caller.
func (r *Uploads) Delete(ctx context.Context, id string) error {
	return deleteRow(ctx, r.db, "uploads", id)
}
