// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package api provides the public and admin JSON endpoints for every
// content and lead entity.
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/olegiv/pathway-go/internal/repository"
	"github.com/olegiv/pathway-go/internal/service"
)

// Deps holds the collaborators of the API handlers.
type Deps struct {
	Repos    *repository.Repositories
	Home     *service.HomeService
	Leads    *service.LeadService
	Uploads  *service.UploadService
	Markdown *service.Markdown
	// BaseURL is the public site URL, used in ticket QR codes.
	BaseURL string
	// FormLimiter throttles the public form endpoints. Nil disables it.
	FormLimiter func(http.Handler) http.Handler
	Logger      *slog.Logger
}

// Handler holds shared dependencies for all API handlers.
type Handler struct {
	Deps
	now func() time.Time
}

// NewHandler creates a new API handler.
func NewHandler(d Deps) *Handler {
	if d.Logger == nil {
		d.Logger = slog.Default()
	}
	if d.Markdown == nil {
		d.Markdown = service.NewMarkdown()
	}
	return &Handler{
		Deps: d,
		now:  func() time.Time { return time.Now().UTC() },
	}
}

// contentChanged drops the cached homepage after a content write.
func (h *Handler) contentChanged(ctx context.Context) {
	if h.Home != nil {
		h.Home.Invalidate(ctx)
	}
}

// timedValidator is implemented by payloads whose rules depend on the
// current time.
type timedValidator interface {
	ValidateAt(now time.Time) error
}

func (h *Handler) validate(v interface{ Validate() error }) error {
	if tv, ok := v.(timedValidator); ok {
		return tv.ValidateAt(h.now())
	}
	return v.Validate()
}

func (h *Handler) formLimit(next http.HandlerFunc) http.Handler {
	if h.FormLimiter == nil {
		return next
	}
	return h.FormLimiter(next)
}
