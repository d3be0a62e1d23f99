// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package logging

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContextHandler_AddsRequestAttrs(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, "info")

	var ctx context.Context
	h := chimw.RequestID(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		ctx = WithPath(r.Context(), r.URL.Path)
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/home", nil))
	require.NotNil(t, ctx)

	logger.ErrorContext(ctx, "aggregation failed", "section", "events")

	out := buf.String()
	assert.Contains(t, out, "msg=\"aggregation failed\"")
	assert.Contains(t, out, "section=events")
	assert.Contains(t, out, "request_id=")
	assert.Contains(t, out, "path=/api/home")
}

func TestContextHandler_NoRequestContext(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, "info")

	logger.Info("starting")

	assert.NotContains(t, buf.String(), "request_id=")
	assert.NotContains(t, buf.String(), "path=")
}

func TestContextHandler_WithAttrsAndGroup(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, "debug").With("component", "home").WithGroup("cache")

	ctx := WithPath(context.Background(), "/api/home")
	logger.DebugContext(ctx, "miss", "key", "home:v1")

	out := buf.String()
	assert.Contains(t, out, "component=home")
	assert.Contains(t, out, "cache.key=home:v1")
	assert.Contains(t, out, "path=/api/home")
}

func TestContextHandler_Level(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, "warn")

	logger.Info("hidden")
	logger.Warn("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{" error ", slog.LevelError},
		{"", slog.LevelInfo},
		{"verbose", slog.LevelInfo},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLevel(tt.in))
		})
	}
}

func TestPathFrom_Empty(t *testing.T) {
	assert.Equal(t, "", PathFrom(context.Background()))
}
