// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package imagehost stores uploaded binaries outside the database, either
// on local disk behind the site's /uploads route or in an S3 bucket.
package imagehost

import (
	"context"
	"errors"
	"path"
	"strings"
	"time"

	"github.com/olegiv/pathway-go/internal/util"
)

// Provider names recorded on upload rows.
const (
	ProviderLocal = "local"
	ProviderS3    = "s3"
)

// ErrInvalidKey is returned for keys that could escape the storage root.
var ErrInvalidKey = errors.New("invalid object key")

// Object is a stored file.
type Object struct {
	Key string
	URL string
}

// Host stores and removes objects.
type Host interface {
	// Put stores data under key and returns its public location.
	Put(ctx context.Context, key, contentType string, data []byte) (Object, error)
	// Delete removes the object. Missing objects are not an error.
	Delete(ctx context.Context, key string) error
	// Provider names the backend.
	Provider() string
}

// Key builds the object key for an upload:
// uploads/2026/03/<id>-<slugified-name>.<ext>.
func Key(id, filename string, at time.Time) string {
	return path.Join("uploads", util.UploadKey(id, filename, at))
}

// cleanKey rejects absolute keys and parent references.
func cleanKey(key string) (string, error) {
	if key == "" || strings.HasPrefix(key, "/") || strings.Contains(key, "\\") {
		return "", ErrInvalidKey
	}
	c := path.Clean(key)
	if c == "." || c == ".." || strings.HasPrefix(c, "../") {
		return "", ErrInvalidKey
	}
	return c, nil
}

func joinURL(base, key string) string {
	return strings.TrimRight(base, "/") + "/" + key
}
