// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"net/http"
	"strconv"

	"github.com/olegiv/pathway-go/internal/handler"
	"github.com/olegiv/pathway-go/internal/model"
	"github.com/olegiv/pathway-go/internal/service"
	"github.com/olegiv/pathway-go/internal/store"
)

// RegisterForEvent handles POST /api/events/{slug}/registrations. Public
// registrations always start pending and cannot set payment state.
func (h *Handler) RegisterForEvent(w http.ResponseWriter, r *http.Request) {
	slug, err := handler.SlugParam(r)
	if err != nil {
		handler.WriteErr(w, r, err)
		return
	}
	event, err := h.Repos.Events.GetBySlug(r.Context(), slug)
	if err == nil && event.Status == model.EventDraft {
		err = store.ErrNotFound
	}
	if err != nil {
		handler.WriteErr(w, r, err)
		return
	}
	if !event.OpenForRegistration(h.now()) {
		handler.WriteErr(w, r, store.Conflict("eventId", "event is not open for registration"))
		return
	}

	var in model.RegistrationInput
	if err := handler.DecodeJSON(w, r, &in); err != nil {
		handler.WriteErr(w, r, err)
		return
	}
	in.EventID = event.ID
	in.Status = model.RegistrationPending
	in.Payment.Status = ""
	in.Payment.Reference = ""

	h.createRegistration(w, r, in)
}

// CreateRegistration handles POST /admin/api/events/{id}/registrations.
func (h *Handler) CreateRegistration(w http.ResponseWriter, r *http.Request) {
	eventID, err := handler.IDParam(r)
	if err != nil {
		handler.WriteErr(w, r, err)
		return
	}
	var in model.RegistrationInput
	if err := handler.DecodeJSON(w, r, &in); err != nil {
		handler.WriteErr(w, r, err)
		return
	}
	in.EventID = eventID

	h.createRegistration(w, r, in)
}

func (h *Handler) createRegistration(w http.ResponseWriter, r *http.Request, in model.RegistrationInput) {
	in.Normalize()
	if err := in.Validate(); err != nil {
		handler.WriteErr(w, r, err)
		return
	}
	reg, err := h.Repos.Registrations.Create(r.Context(), in.Build())
	if err != nil {
		handler.WriteErr(w, r, err)
		return
	}
	// Seat counts are shown on the homepage.
	h.contentChanged(r.Context())
	h.Logger.InfoContext(r.Context(), "event registration created", "registration_id", reg.ID, "event_id", reg.EventID)
	handler.WriteCreated(w, reg)
}

// ListRegistrations handles GET /admin/api/events/{id}/registrations.
func (h *Handler) ListRegistrations(w http.ResponseWriter, r *http.Request) {
	eventID, err := handler.IDParam(r)
	if err != nil {
		handler.WriteErr(w, r, err)
		return
	}
	opts, err := handler.ParseListOptions(r, true)
	if err != nil {
		handler.WriteErr(w, r, err)
		return
	}
	if _, err := h.Repos.Events.Get(r.Context(), eventID); err != nil {
		handler.WriteErr(w, r, err)
		return
	}

	regs, total, err := h.Repos.Registrations.ListByEvent(r.Context(), eventID, opts)
	if err != nil {
		handler.WriteErr(w, r, err)
		return
	}
	handler.WriteList(w, regs, handler.NewMeta(total, opts))
}

// GetRegistration handles GET /admin/api/registrations/{id}.
func (h *Handler) GetRegistration(w http.ResponseWriter, r *http.Request) {
	getHandler[model.EventRegistration](h.Repos.Registrations, nil)(w, r)
}

// UpdateRegistration handles PATCH and PUT /admin/api/registrations/{id}.
// The repository keeps the event's seat count in step with status changes.
func (h *Handler) UpdateRegistration(w http.ResponseWriter, r *http.Request) {
	updateHandler[model.EventRegistration, model.RegistrationPatch](h, h.Repos.Registrations, true)(w, r)
}

// DeleteRegistration handles DELETE /admin/api/registrations/{id}.
func (h *Handler) DeleteRegistration(w http.ResponseWriter, r *http.Request) {
	deleteHandler(h, h.Repos.Registrations, true)(w, r)
}

// Ticket serves the QR code ticket of a registration as a PNG.
func (h *Handler) Ticket(w http.ResponseWriter, r *http.Request) {
	id, err := handler.IDParam(r)
	if err != nil {
		handler.WriteErr(w, r, err)
		return
	}
	reg, err := h.Repos.Registrations.Get(r.Context(), id)
	if err != nil {
		handler.WriteErr(w, r, err)
		return
	}
	png, err := service.TicketPNG(h.BaseURL, reg)
	if err != nil {
		handler.WriteErr(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(len(png)))
	w.Header().Set("Cache-Control", "private, max-age=3600")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(png)
}
