// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/pathway-go/internal/repository"
	"github.com/olegiv/pathway-go/internal/store"
	"github.com/olegiv/pathway-go/internal/validate"
)

// Page size limits for list endpoints.
const (
	DefaultLimit = 20
	MaxLimit     = 100
)

// ParseListOptions reads search, pagination and filter parameters from the
// query string. Status, published and active filters are only honoured
// for admin callers; public handlers set them explicitly.
func ParseListOptions(r *http.Request, admin bool) (repository.ListOptions, error) {
	q := r.URL.Query()
	v := validate.New()

	opts := repository.ListOptions{
		Search:   strings.TrimSpace(q.Get("search")),
		Page:     1,
		Limit:    DefaultLimit,
		Category: strings.ToLower(strings.TrimSpace(q.Get("category"))),
	}
	v.MaxLen("search", opts.Search, 200)

	if s := q.Get("page"); s != "" {
		n, err := strconv.Atoi(s)
		v.Check(err == nil && n >= 1, "page", "must be a positive integer")
		if n >= 1 {
			opts.Page = n
		}
	}
	if s := q.Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		v.Check(err == nil && n >= 1, "limit", "must be a positive integer")
		if n >= 1 {
			opts.Limit = min(n, MaxLimit)
		}
	}

	opts.Featured = parseBool(v, q.Get("featured"), "featured")
	if up := parseBool(v, q.Get("upcoming"), "upcoming"); up != nil {
		opts.Upcoming = *up
	}

	if admin {
		opts.Status = strings.ToLower(strings.TrimSpace(q.Get("status")))
		opts.Published = parseBool(v, q.Get("published"), "published")
		opts.Active = parseBool(v, q.Get("active"), "active")
	}

	return opts, v.Err()
}

func parseBool(v *validate.Validator, s, field string) *bool {
	if s == "" {
		return nil
	}
	b, err := strconv.ParseBool(s)
	if err != nil {
		v.Add(field, "must be true or false")
		return nil
	}
	return &b
}

// NewMeta builds pagination metadata for a page of opts.
func NewMeta(total int64, opts repository.ListOptions) Meta {
	m := Meta{Total: total, Page: max(opts.Page, 1), Limit: opts.Limit}
	switch {
	case opts.Limit > 0:
		m.Pages = int((total + int64(opts.Limit) - 1) / int64(opts.Limit))
	case total > 0:
		m.Pages = 1
	}
	return m
}

// IDParam returns the {id} route parameter. An empty id is reported as
// not found.
func IDParam(r *http.Request) (string, error) {
	id := strings.TrimSpace(chi.URLParam(r, "id"))
	if id == "" {
		return "", store.ErrNotFound
	}
	return id, nil
}

// SlugParam returns the {slug} route parameter, lowercased.
func SlugParam(r *http.Request) (string, error) {
	slug := strings.ToLower(strings.TrimSpace(chi.URLParam(r, "slug")))
	if slug == "" {
		return "", store.ErrNotFound
	}
	return slug, nil
}
