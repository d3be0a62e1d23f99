// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package imagehost

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/olegiv/pathway-go/internal/util"
)

// Local writes objects under a directory served by the application.
type Local struct {
	dir     string
	baseURL string
}

// NewLocal creates a local host rooted at dir. URLs are baseURL + "/" + key.
func NewLocal(dir, baseURL string) (*Local, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolving uploads dir: %w", err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("creating uploads dir: %w", err)
	}
	return &Local{dir: abs, baseURL: baseURL}, nil
}

// Dir returns the absolute storage root.
func (l *Local) Dir() string { return l.dir }

// Provider implements Host.
func (l *Local) Provider() string { return ProviderLocal }

func (l *Local) path(key string) (string, error) {
	k, err := cleanKey(key)
	if err != nil {
		return "", err
	}
	target, err := util.SafeJoinPath(l.dir, filepath.FromSlash(k))
	if err != nil {
		return "", ErrInvalidKey
	}
	return target, nil
}

// Put implements Host. The file is written to a temp name and renamed so
// readers never see a partial file.
func (l *Local) Put(_ context.Context, key, _ string, data []byte) (Object, error) {
	target, err := l.path(key)
	if err != nil {
		return Object{}, err
	}
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return Object{}, fmt.Errorf("creating directory: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(target), ".upload-*")
	if err != nil {
		return Object{}, fmt.Errorf("creating temp file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return Object{}, fmt.Errorf("writing upload: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return Object{}, fmt.Errorf("closing upload: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		_ = os.Remove(tmp.Name())
		return Object{}, fmt.Errorf("chmod upload: %w", err)
	}
	if err := os.Rename(tmp.Name(), target); err != nil {
		_ = os.Remove(tmp.Name())
		return Object{}, fmt.Errorf("saving upload: %w", err)
	}

	k, _ := cleanKey(key)
	return Object{Key: k, URL: joinURL(l.baseURL, k)}, nil
}

// Delete implements Host.
func (l *Local) Delete(_ context.Context, key string) error {
	target, err := l.path(key)
	if err != nil {
		return err
	}
	if err := os.Remove(target); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("deleting upload: %w", err)
	}
	return nil
}
