// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/olegiv/pathway-go/internal/handler"
	"github.com/olegiv/pathway-go/internal/model"
	"github.com/olegiv/pathway-go/internal/repository"
	"github.com/olegiv/pathway-go/internal/store"
)

// Repository capabilities used by the generic handlers. Relational and
// document repositories both satisfy them.
type (
	lister[T any] interface {
		List(ctx context.Context, opts repository.ListOptions) ([]T, int64, error)
	}
	getter[T any] interface {
		Get(ctx context.Context, id string) (T, error)
	}
	creator[T any] interface {
		Create(ctx context.Context, v T) (T, error)
	}
	updater[T any] interface {
		Update(ctx context.Context, id string, fn func(*T) error) (T, error)
	}
	deleter interface {
		Delete(ctx context.Context, id string) error
	}
	crudStore[T any] interface {
		lister[T]
		getter[T]
		creator[T]
		updater[T]
		deleter
	}
)

// scope adjusts parsed list options, for example to hide drafts.
type scope func(*repository.ListOptions)

// detailResponse carries an entity and its rendered markdown fields.
type detailResponse struct {
	Data any               `json:"data"`
	HTML map[string]string `json:"html,omitempty"`
}

// listHandler serves a page of records. Public lists answer an
// unavailable store with an empty degraded page.
func listHandler[T any](s lister[T], admin bool, sc scope) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		opts, err := handler.ParseListOptions(r, admin)
		if err != nil {
			handler.WriteErr(w, r, err)
			return
		}
		if sc != nil {
			sc(&opts)
		}

		items, total, err := s.List(r.Context(), opts)
		if err != nil {
			if !admin && errors.Is(err, store.ErrUnavailable) {
				slog.WarnContext(r.Context(), "serving degraded list", "error", err)
				handler.WriteDegradedList(w, handler.NewMeta(0, opts))
				return
			}
			handler.WriteErr(w, r, err)
			return
		}
		handler.WriteList(w, items, handler.NewMeta(total, opts))
	}
}

// getHandler serves one record by {id}. Records failing visible are
// reported as not found.
func getHandler[T any](s getter[T], visible func(*T) bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := handler.IDParam(r)
		if err != nil {
			handler.WriteErr(w, r, err)
			return
		}
		v, err := s.Get(r.Context(), id)
		if err == nil && visible != nil && !visible(&v) {
			err = store.ErrNotFound
		}
		if err != nil {
			handler.WriteErr(w, r, err)
			return
		}
		handler.WriteData(w, v)
	}
}

// slugHandler serves one public record by {slug} together with the HTML
// rendering of the fields returned by render.
func slugHandler[T any](h *Handler, get func(context.Context, string) (T, error), visible func(*T) bool,
	render func(*T) map[string]string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slug, err := handler.SlugParam(r)
		if err != nil {
			handler.WriteErr(w, r, err)
			return
		}
		v, err := get(r.Context(), slug)
		if err == nil && visible != nil && !visible(&v) {
			err = store.ErrNotFound
		}
		if err != nil {
			handler.WriteErr(w, r, err)
			return
		}

		resp := detailResponse{Data: v}
		if render != nil {
			html, err := h.Markdown.RenderFields(render(&v))
			if err != nil {
				handler.WriteErr(w, r, err)
				return
			}
			resp.HTML = html
		}
		handler.WriteJSON(w, http.StatusOK, resp)
	}
}

// createHandler decodes an Input payload, validates it and stores the
// built entity.
func createHandler[T any, IN any, PIN interface {
	*IN
	model.Input[T]
}](h *Handler, s creator[T], content bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in IN
		if err := handler.DecodeJSON(w, r, &in); err != nil {
			handler.WriteErr(w, r, err)
			return
		}
		p := PIN(&in)
		p.Normalize()
		if err := h.validate(p); err != nil {
			handler.WriteErr(w, r, err)
			return
		}

		v, err := s.Create(r.Context(), p.Build())
		if err != nil {
			handler.WriteErr(w, r, err)
			return
		}
		if content {
			h.contentChanged(r.Context())
		}
		handler.WriteCreated(w, v)
	}
}

// updateHandler decodes a Patch payload and applies it to the record with
// {id}. PUT and PATCH share it; absent fields keep their stored value.
func updateHandler[T any, P any, PP interface {
	*P
	model.Patch[T]
}](h *Handler, s updater[T], content bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := handler.IDParam(r)
		if err != nil {
			handler.WriteErr(w, r, err)
			return
		}
		var patch P
		if err := handler.DecodeJSON(w, r, &patch); err != nil {
			handler.WriteErr(w, r, err)
			return
		}
		p := PP(&patch)
		p.Normalize()
		if err := h.validate(p); err != nil {
			handler.WriteErr(w, r, err)
			return
		}

		v, err := s.Update(r.Context(), id, func(e *T) error {
			p.Apply(e)
			return nil
		})
		if err != nil {
			handler.WriteErr(w, r, err)
			return
		}
		if content {
			h.contentChanged(r.Context())
		}
		handler.WriteData(w, v)
	}
}

// deleteHandler removes the record with {id}.
func deleteHandler(h *Handler, s deleter, content bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := handler.IDParam(r)
		if err != nil {
			handler.WriteErr(w, r, err)
			return
		}
		if err := s.Delete(r.Context(), id); err != nil {
			handler.WriteErr(w, r, err)
			return
		}
		if content {
			h.contentChanged(r.Context())
		}
		handler.WriteDeleted(w)
	}
}

// singletonStore is the capability set of a singleton repository.
type singletonStore[T any] interface {
	Get(ctx context.Context) (T, error)
	Update(ctx context.Context, fn func(*T) error) (T, error)
}

// settingsPtr is a pointer to a singleton that normalises and validates
// itself after the payload is decoded onto it.
type settingsPtr[T any] interface {
	*T
	Normalize()
	Validate() error
}

func singletonGetHandler[T any](s singletonStore[T]) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		v, err := s.Get(r.Context())
		if err != nil {
			handler.WriteErr(w, r, err)
			return
		}
		handler.WriteData(w, v)
	}
}

// singletonPutHandler decodes the payload onto the stored value, so
// fields missing from the body keep their current value.
func singletonPutHandler[T any, PT settingsPtr[T]](h *Handler, s singletonStore[T]) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, err := handler.ReadBody(w, r)
		if err != nil {
			handler.WriteErr(w, r, err)
			return
		}
		v, err := s.Update(r.Context(), func(cur *T) error {
			if err := handler.Unmarshal(body, cur); err != nil {
				return err
			}
			p := PT(cur)
			p.Normalize()
			return p.Validate()
		})
		if err != nil {
			handler.WriteErr(w, r, err)
			return
		}
		h.contentChanged(r.Context())
		handler.WriteData(w, v)
	}
}
