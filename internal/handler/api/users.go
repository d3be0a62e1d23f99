// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"net/http"

	"github.com/olegiv/pathway-go/internal/auth"
	"github.com/olegiv/pathway-go/internal/handler"
	"github.com/olegiv/pathway-go/internal/middleware"
	"github.com/olegiv/pathway-go/internal/model"
	"github.com/olegiv/pathway-go/internal/validate"
)

// CreateUser handles POST /admin/api/users.
func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var in model.UserInput
	if err := handler.DecodeJSON(w, r, &in); err != nil {
		handler.WriteErr(w, r, err)
		return
	}
	in.Normalize()
	if err := in.Validate(); err != nil {
		handler.WriteErr(w, r, err)
		return
	}

	u := in.Build()
	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		handler.WriteErr(w, r, err)
		return
	}
	u.PasswordHash = hash

	u, err = h.Repos.Users.Create(r.Context(), u)
	if err != nil {
		handler.WriteErr(w, r, err)
		return
	}
	h.Logger.InfoContext(r.Context(), "user created", "user_id", u.ID, "role", u.Role,
		"created_by", middleware.GetUser(r).ID)
	handler.WriteCreated(w, u)
}

// UpdateUser handles PATCH and PUT /admin/api/users/{id}. Users cannot
// change their own role or deactivate themselves.
func (h *Handler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	id, err := handler.IDParam(r)
	if err != nil {
		handler.WriteErr(w, r, err)
		return
	}
	var p model.UserPatch
	if err := handler.DecodeJSON(w, r, &p); err != nil {
		handler.WriteErr(w, r, err)
		return
	}
	p.Normalize()
	if err := p.Validate(); err != nil {
		handler.WriteErr(w, r, err)
		return
	}

	var hash string
	if p.Password != nil {
		if hash, err = auth.HashPassword(*p.Password); err != nil {
			handler.WriteErr(w, r, err)
			return
		}
	}

	current := middleware.GetUser(r)
	u, err := h.Repos.Users.Update(r.Context(), id, func(u *model.User) error {
		if u.ID == current.ID && p.ChangesRoleOrStatus(u) {
			return selfChangeError("cannot change your own role or status")
		}
		p.Apply(u)
		if hash != "" {
			u.PasswordHash = hash
		}
		return nil
	})
	if err != nil {
		handler.WriteErr(w, r, err)
		return
	}
	h.Logger.InfoContext(r.Context(), "user updated", "user_id", u.ID, "updated_by", current.ID)
	handler.WriteData(w, u)
}

// DeleteUser handles DELETE /admin/api/users/{id}.
func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id, err := handler.IDParam(r)
	if err != nil {
		handler.WriteErr(w, r, err)
		return
	}
	current := middleware.GetUser(r)
	if id == current.ID {
		handler.WriteErr(w, r, selfChangeError("cannot delete your own account"))
		return
	}
	if err := h.Repos.Users.Delete(r.Context(), id); err != nil {
		handler.WriteErr(w, r, err)
		return
	}
	h.Logger.InfoContext(r.Context(), "user deleted", "user_id", id, "deleted_by", current.ID)
	handler.WriteDeleted(w)
}

// selfChangeError is a 400 for actions users may not take on themselves.
func selfChangeError(msg string) error {
	return validate.Errors{"id": msg}
}
