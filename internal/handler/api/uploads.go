// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/olegiv/pathway-go/internal/handler"
	"github.com/olegiv/pathway-go/internal/middleware"
	"github.com/olegiv/pathway-go/internal/service"
	"github.com/olegiv/pathway-go/internal/validate"
)

// multipartOverhead covers the form boundaries and headers around the file.
const multipartOverhead = 1 << 20

// Upload handles POST /admin/api/uploads with the image in the "file"
// multipart field.
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, service.MaxUploadSize+multipartOverhead)
	if err := r.ParseMultipartForm(service.MaxUploadSize); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			handler.WriteErr(w, r, validate.Errors{
				"file": fmt.Sprintf("must be at most %d MB", service.MaxUploadSize>>20),
			})
			return
		}
		handler.WriteBadRequest(w, "file", "expected a multipart form")
		return
	}
	defer func() {
		if r.MultipartForm != nil {
			_ = r.MultipartForm.RemoveAll()
		}
	}()

	file, header, err := r.FormFile("file")
	if err != nil {
		handler.WriteBadRequest(w, "file", "is required")
		return
	}
	defer func() { _ = file.Close() }()

	data, err := io.ReadAll(file)
	if err != nil {
		handler.WriteErr(w, r, fmt.Errorf("reading upload: %w", err))
		return
	}

	up, err := h.Uploads.Upload(r.Context(), header.Filename, data, middleware.GetUser(r).ID)
	if err != nil {
		handler.WriteErr(w, r, err)
		return
	}
	handler.WriteCreated(w, up)
}

// DeleteUpload handles DELETE /admin/api/uploads/{id}, removing the stored
// file and its record.
func (h *Handler) DeleteUpload(w http.ResponseWriter, r *http.Request) {
	id, err := handler.IDParam(r)
	if err != nil {
		handler.WriteErr(w, r, err)
		return
	}
	if err := h.Uploads.Delete(r.Context(), id); err != nil {
		handler.WriteErr(w, r, err)
		return
	}
	handler.WriteDeleted(w)
}
