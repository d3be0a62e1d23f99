// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"fmt"
	"net/http"

	"github.com/olegiv/pathway-go/internal/export"
	"github.com/olegiv/pathway-go/internal/handler"
	"github.com/olegiv/pathway-go/internal/middleware"
	"github.com/olegiv/pathway-go/internal/model"
	"github.com/olegiv/pathway-go/internal/service"
)

// captureResponse reports whether the lead was stored.
type captureResponse struct {
	Data      model.Lead `json:"data"`
	Persisted bool       `json:"persisted"`
}

// CaptureLead handles POST /api/leads.
func (h *Handler) CaptureLead(w http.ResponseWriter, r *http.Request) {
	var in model.LeadInput
	if err := handler.DecodeJSON(w, r, &in); err != nil {
		handler.WriteErr(w, r, err)
		return
	}
	in.Normalize()
	if err := in.Validate(); err != nil {
		handler.WriteErr(w, r, err)
		return
	}

	res, err := h.Leads.Capture(r.Context(), in, service.ClientInfo{
		IP:        middleware.ClientIP(r),
		UserAgent: r.UserAgent(),
		Referrer:  r.Referer(),
	})
	if err != nil {
		handler.WriteErr(w, r, err)
		return
	}

	status := http.StatusOK
	if res.Persisted {
		status = http.StatusCreated
	}
	handler.WriteJSON(w, status, captureResponse{Data: res.Lead, Persisted: res.Persisted})
}

// ExportLeads handles GET /admin/api/leads/export.xlsx. Search and status
// filters apply; paging does not.
func (h *Handler) ExportLeads(w http.ResponseWriter, r *http.Request) {
	opts, err := handler.ParseListOptions(r, true)
	if err != nil {
		handler.WriteErr(w, r, err)
		return
	}
	opts.Page, opts.Limit = 1, 0

	leads, _, err := h.Repos.Leads.List(r.Context(), opts)
	if err != nil {
		handler.WriteErr(w, r, err)
		return
	}

	filename := fmt.Sprintf("leads-%s.xlsx", h.now().Format("2006-01-02"))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	w.Header().Set("Cache-Control", "no-store")
	if err := export.WriteLeads(w, leads); err != nil {
		h.Logger.ErrorContext(r.Context(), "lead export failed", "error", err, "rows", len(leads))
	}
}
