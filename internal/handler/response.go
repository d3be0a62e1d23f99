// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package handler holds the HTTP plumbing shared by every JSON endpoint:
// response envelopes, error mapping, body decoding, list query parsing,
// session endpoints, health checks and the SPA shell.
package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"sync/atomic"

	"github.com/olegiv/pathway-go/internal/store"
	"github.com/olegiv/pathway-go/internal/validate"
)

// Response is the success envelope.
type Response struct {
	Data     any   `json:"data"`
	Meta     *Meta `json:"meta,omitempty"`
	Degraded bool  `json:"degraded,omitempty"`
}

// Meta describes one page of a list.
type Meta struct {
	Total int64 `json:"total"`
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Pages int   `json:"pages"`
}

// ErrorResponse is the error envelope.
type ErrorResponse struct {
	Error  string            `json:"error"`
	Code   string            `json:"code"`
	Errors map[string]string `json:"errors,omitempty"`
	Detail string            `json:"detail,omitempty"`
}

var showErrorDetail atomic.Bool

// SetErrorDetail controls whether 500 responses carry the raw error text.
// It is switched on in development only.
func SetErrorDetail(on bool) {
	showErrorDetail.Store(on)
}

// WriteJSON writes v with the given status code.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteData writes {"data": v} with 200.
func WriteData(w http.ResponseWriter, v any) {
	WriteJSON(w, http.StatusOK, Response{Data: v})
}

// WriteCreated writes {"data": v} with 201.
func WriteCreated(w http.ResponseWriter, v any) {
	WriteJSON(w, http.StatusCreated, Response{Data: v})
}

// WriteList writes a page of items with its pagination metadata.
func WriteList[T any](w http.ResponseWriter, items []T, meta Meta) {
	if items == nil {
		items = []T{}
	}
	WriteJSON(w, http.StatusOK, Response{Data: items, Meta: &meta})
}

// WriteDegradedList writes an empty page flagged as degraded. Public lists
// use it when the store is down so pages still render.
func WriteDegradedList(w http.ResponseWriter, meta Meta) {
	meta.Total, meta.Pages = 0, 0
	WriteJSON(w, http.StatusOK, Response{Data: []any{}, Meta: &meta, Degraded: true})
}

// WriteDeleted writes {"success": true}.
func WriteDeleted(w http.ResponseWriter) {
	WriteJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// WriteError writes an error envelope.
func WriteError(w http.ResponseWriter, status int, code, message string, fields map[string]string) {
	w.Header().Set("Cache-Control", "no-store")
	WriteJSON(w, status, ErrorResponse{Error: message, Code: code, Errors: fields})
}

// WriteErr maps err onto a status code and writes the error envelope.
// Unexpected errors are logged with the request context and answered with
// a generic message.
func WriteErr(w http.ResponseWriter, r *http.Request, err error) {
	var verrs validate.Errors
	var conflict *store.ConflictError

	switch {
	case errors.As(err, &verrs):
		WriteError(w, http.StatusBadRequest, "validation_error", "Validation failed", verrs)
	case errors.Is(err, store.ErrNotFound):
		WriteError(w, http.StatusNotFound, "not_found", "Not found", nil)
	case errors.As(err, &conflict):
		var fields map[string]string
		if conflict.Field != "" {
			fields = map[string]string{conflict.Field: conflict.Error()}
		}
		WriteError(w, http.StatusConflict, "conflict", conflict.Error(), fields)
	case errors.Is(err, store.ErrConflict):
		WriteError(w, http.StatusConflict, "conflict", "Conflict", nil)
	case errors.Is(err, store.ErrUnavailable):
		slog.WarnContext(r.Context(), "store unavailable", "error", err)
		WriteError(w, http.StatusServiceUnavailable, "unavailable", "Service temporarily unavailable", nil)
	default:
		slog.ErrorContext(r.Context(), "request failed", "method", r.Method, "error", err)
		resp := ErrorResponse{Error: "Internal server error", Code: "internal_error"}
		if showErrorDetail.Load() {
			resp.Detail = err.Error()
		}
		w.Header().Set("Cache-Control", "no-store")
		WriteJSON(w, http.StatusInternalServerError, resp)
	}
}

// WriteBadRequest writes a 400 with a single field error.
func WriteBadRequest(w http.ResponseWriter, field, message string) {
	WriteError(w, http.StatusBadRequest, "bad_request", message, map[string]string{field: message})
}
