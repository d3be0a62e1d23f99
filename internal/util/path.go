// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package util

import (
	"fmt"
	"path"
	"path/filepath"
	"strings"
	"time"
)

// SanitizeFilename keeps only the base name of a client-supplied filename,
// so "../../etc/passwd" becomes "passwd".
func SanitizeFilename(filename string) (string, error) {
	safe := filepath.Base(strings.ReplaceAll(filename, `\`, "/"))
	if safe == "." || safe == ".." || safe == "" || safe == string(filepath.Separator) {
		return "", fmt.Errorf("invalid filename: %q", filename)
	}
	return safe, nil
}

// SafeJoinPath joins components onto basePath and rejects any result that
// escapes it.
func SafeJoinPath(basePath string, components ...string) (string, error) {
	absBase, err := filepath.Abs(filepath.Clean(basePath))
	if err != nil {
		return "", fmt.Errorf("invalid base path: %w", err)
	}
	full := filepath.Join(append([]string{absBase}, components...)...)
	if full != absBase && !strings.HasPrefix(full, absBase+string(filepath.Separator)) {
		return "", fmt.Errorf("path traversal detected: path escapes base directory")
	}
	return full, nil
}

// UploadKey builds the object key for an uploaded file:
// "2026/03/<id>-<slugified-name>.<ext>". Keys always use forward slashes.
func UploadKey(id, filename string, at time.Time) string {
	ext := strings.ToLower(path.Ext(filename))
	stem := Slugify(strings.TrimSuffix(filename, path.Ext(filename)))
	if stem == "" {
		stem = "file"
	}
	if len(stem) > 60 {
		stem = strings.TrimRight(stem[:60], "-")
	}
	return fmt.Sprintf("%04d/%02d/%s-%s%s", at.Year(), int(at.Month()), id, stem, ext)
}
