// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"bytes"
	"fmt"
	"io/fs"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/olegiv/pathway-go/internal/middleware"
)

// assetMaxAge is the cache lifetime of fingerprinted front-end assets.
const assetMaxAge = 31536000

// SPA serves the front-end build: files that exist are served directly and
// every other path gets index.html so the client router can take over.
type SPA struct {
	files  fs.FS
	assets http.Handler
	index  []byte
	mod    time.Time
}

// NewSPA creates an SPA over fsys, which must contain index.html.
func NewSPA(fsys fs.FS) (*SPA, error) {
	index, err := fs.ReadFile(fsys, "index.html")
	if err != nil {
		return nil, fmt.Errorf("reading index.html: %w", err)
	}
	return &SPA{
		files:  fsys,
		assets: middleware.StaticCache(assetMaxAge)(http.FileServer(http.FS(fsys))),
		index:  index,
		mod:    time.Now(),
	}, nil
}

// ServeHTTP implements http.Handler.
func (s *SPA) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		WriteError(w, http.StatusMethodNotAllowed, "method_not_allowed", "Method not allowed", nil)
		return
	}

	name := strings.TrimPrefix(path.Clean("/"+r.URL.Path), "/")
	if name != "" && name != "index.html" && path.Ext(name) != "" {
		if st, err := fs.Stat(s.files, name); err == nil && !st.IsDir() {
			s.assets.ServeHTTP(w, r)
			return
		}
		http.NotFound(w, r)
		return
	}
	s.Shell(w, r)
}

// Shell writes index.html.
func (s *SPA) Shell(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	http.ServeContent(w, r, "index.html", s.mod, bytes.NewReader(s.index))
}
