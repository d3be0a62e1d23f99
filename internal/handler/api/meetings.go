// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"net/http"

	"github.com/olegiv/pathway-go/internal/handler"
	"github.com/olegiv/pathway-go/internal/model"
)

// ScheduleMeeting handles POST /api/meetings. The slot must lie strictly
// in the future.
func (h *Handler) ScheduleMeeting(w http.ResponseWriter, r *http.Request) {
	settings, err := h.Repos.SystemSettings.Get(r.Context())
	if err != nil {
		handler.WriteErr(w, r, err)
		return
	}
	if !settings.MeetingSchedulingEnabled {
		handler.WriteError(w, http.StatusServiceUnavailable, "scheduling_disabled",
			"meeting scheduling is currently disabled", nil)
		return
	}

	var in model.MeetingInput
	if err := handler.DecodeJSON(w, r, &in); err != nil {
		handler.WriteErr(w, r, err)
		return
	}
	in.Normalize()
	if err := in.ValidateAt(h.now()); err != nil {
		handler.WriteErr(w, r, err)
		return
	}

	m, err := h.Repos.Meetings.Create(r.Context(), in.Build())
	if err != nil {
		handler.WriteErr(w, r, err)
		return
	}
	h.Logger.InfoContext(r.Context(), "meeting requested", "meeting_id", m.ID, "urgency", m.Urgency)
	handler.WriteCreated(w, m)
}
