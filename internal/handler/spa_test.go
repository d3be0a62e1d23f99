// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSPA(t *testing.T) *SPA {
	t.Helper()
	spa, err := NewSPA(fstest.MapFS{
		"index.html":    {Data: []byte("<html>shell</html>")},
		"assets/app.js": {Data: []byte("console.log(1)")},
	})
	require.NoError(t, err)
	return spa
}

func TestSPA(t *testing.T) {
	spa := newTestSPA(t)

	tests := []struct {
		name       string
		method     string
		path       string
		wantStatus int
		wantBody   string
		wantCache  string
	}{
		{"root", http.MethodGet, "/", http.StatusOK, "<html>shell</html>", "no-cache"},
		{"client route", http.MethodGet, "/destinations/canada", http.StatusOK, "<html>shell</html>", "no-cache"},
		{"login shell", http.MethodGet, "/login", http.StatusOK, "<html>shell</html>", "no-cache"},
		{"asset", http.MethodGet, "/assets/app.js", http.StatusOK, "console.log(1)", "public, max-age=31536000"},
		{"missing asset", http.MethodGet, "/assets/missing.js", http.StatusNotFound, "", ""},
		{"post", http.MethodPost, "/", http.StatusMethodNotAllowed, "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			spa.ServeHTTP(w, httptest.NewRequest(tt.method, tt.path, nil))

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantBody != "" {
				assert.Equal(t, tt.wantBody, w.Body.String())
			}
			if tt.wantCache != "" {
				assert.Equal(t, tt.wantCache, w.Header().Get("Cache-Control"))
			}
		})
	}
}

func TestNewSPA_MissingIndex(t *testing.T) {
	_, err := NewSPA(fstest.MapFS{})
	assert.Error(t, err)
}
