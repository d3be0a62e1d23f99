// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/olegiv/pathway-go/internal/handler"
	"github.com/olegiv/pathway-go/internal/service"
	"github.com/olegiv/pathway-go/internal/store"
)

// homeResponse is the envelope of the homepage aggregate.
type homeResponse struct {
	Success bool              `json:"success"`
	Data    *service.HomeData `json:"data,omitempty"`
	Error   string            `json:"error,omitempty"`
}

// HomeAggregate handles GET /api/home.
func (h *Handler) HomeAggregate(w http.ResponseWriter, r *http.Request) {
	data, err := h.Home.Get(r.Context())
	if err != nil {
		status, msg := http.StatusInternalServerError, "failed to load homepage"
		if errors.Is(err, store.ErrUnavailable) {
			status, msg = http.StatusServiceUnavailable, "content store unavailable"
		}
		slog.ErrorContext(r.Context(), "homepage aggregate failed", "error", err)
		w.Header().Set("Cache-Control", "no-store")
		handler.WriteJSON(w, status, homeResponse{Error: msg})
		return
	}

	w.Header().Set("Cache-Control", "public, max-age=300")
	handler.WriteJSON(w, http.StatusOK, homeResponse{Success: true, Data: data})
}
