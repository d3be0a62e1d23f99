// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/pathway-go/internal/auth"
	"github.com/olegiv/pathway-go/internal/cache"
	"github.com/olegiv/pathway-go/internal/docstore"
	"github.com/olegiv/pathway-go/internal/imagehost"
	"github.com/olegiv/pathway-go/internal/imaging"
	"github.com/olegiv/pathway-go/internal/middleware"
	"github.com/olegiv/pathway-go/internal/model"
	"github.com/olegiv/pathway-go/internal/repository"
	"github.com/olegiv/pathway-go/internal/service"
	"github.com/olegiv/pathway-go/internal/store"
	"github.com/olegiv/pathway-go/internal/testutil"
)

// testNow is the fixed request time seen by the handlers.
var testNow = time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)

// roleHeader selects the signed-in user of a test request.
const roleHeader = "X-Test-Role"

// flakyDocs wraps a docstore and reports one collection as unreachable.
type flakyDocs struct {
	docstore.Store
	failColl atomic.Value
}

func (f *flakyDocs) failing(coll string) bool {
	v, _ := f.failColl.Load().(string)
	return v != "" && v == coll
}

func (f *flakyDocs) Find(ctx context.Context, coll string, q docstore.Query) ([]docstore.Document, error) {
	if f.failing(coll) {
		return nil, store.ErrUnavailable
	}
	return f.Store.Find(ctx, coll, q)
}

func (f *flakyDocs) Count(ctx context.Context, coll string, q docstore.Query) (int64, error) {
	if f.failing(coll) {
		return 0, store.ErrUnavailable
	}
	return f.Store.Count(ctx, coll, q)
}

type apiFixture struct {
	repos   *repository.Repositories
	docs    *flakyDocs
	h       *Handler
	router  http.Handler
	admin   model.User
	support model.User
}

// newAPIFixture wires the handlers to a migrated database with a SQLite
// document store. persistLeads selects the lead store.
func newAPIFixture(t *testing.T, persistLeads bool) *apiFixture {
	t.Helper()
	db := testutil.TestDB(t)
	docs := &flakyDocs{Store: docstore.NewSQLiteStore(db)}
	repos := repository.New(db, docs)
	logger := testutil.TestLoggerSilent()

	memCache := cache.NewMemoryCache(cache.MemoryCacheOptions{DefaultTTL: time.Minute})
	t.Cleanup(func() { _ = memCache.Close() })

	host, err := imagehost.NewLocal(t.TempDir(), "/uploads")
	require.NoError(t, err)

	h := NewHandler(Deps{
		Repos:   repos,
		Home:    service.NewHomeService(repos, memCache, service.HomeCacheTTL, logger),
		Leads:   service.NewLeadService(repos.Leads, repos.SystemSettings, nil, persistLeads, logger),
		Uploads: service.NewUploadService(repos.Uploads, host, imaging.NewProcessor(0), logger),
		BaseURL: "https://pathway.test",
		Logger:  logger,
	})
	h.now = func() time.Time { return testNow }

	f := &apiFixture{repos: repos, docs: docs, h: h}
	f.admin = f.createUser(t, "admin@example.com", model.RoleAdmin)
	f.support = f.createUser(t, "support@example.com", model.RoleSupport)

	r := chi.NewRouter()
	r.Use(f.signIn)
	r.Route("/api", h.PublicRoutes)
	r.Route("/admin/api", h.AdminRoutes)
	f.router = r
	return f
}

func (f *apiFixture) createUser(t *testing.T, email string, role model.Role) model.User {
	t.Helper()
	hash, err := auth.HashPassword("correct-horse-battery-42")
	require.NoError(t, err)
	u, err := f.repos.Users.Create(context.Background(), model.User{
		Name: string(role), Email: email, PasswordHash: hash, Role: role, Active: true,
	})
	require.NoError(t, err)
	return u
}

// signIn attaches the user named by roleHeader, standing in for the
// session middleware.
func (f *apiFixture) signIn(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch model.Role(r.Header.Get(roleHeader)) {
		case model.RoleAdmin:
			u := f.admin
			r = middleware.WithUser(r, &u)
		case model.RoleSupport:
			u := f.support
			r = middleware.WithUser(r, &u)
		}
		next.ServeHTTP(w, r)
	})
}

// do sends a request as role ("" for anonymous). A non-empty body is sent
// as JSON.
func (f *apiFixture) do(t *testing.T, role model.Role, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	r := httptest.NewRequest(method, path, rd)
	if body != "" {
		r.Header.Set("Content-Type", "application/json")
	}
	if role != "" {
		r.Header.Set(roleHeader, string(role))
	}
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, r)
	return w
}

// decode unmarshals a recorded JSON response into a generic map.
func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body), "body: %s", w.Body.String())
	return body
}

// dataOf returns the "data" object of a single-entity response.
func dataOf(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	data, ok := decode(t, w)["data"].(map[string]any)
	require.True(t, ok, "body: %s", w.Body.String())
	return data
}

// seedEvent stores an event running a day after testNow.
func (f *apiFixture) seedEvent(t *testing.T, slug string, status model.EventStatus, capacity int) model.Event {
	t.Helper()
	e, err := f.repos.Events.Create(context.Background(), model.Event{
		Title:          "Info session " + slug,
		Slug:           slug,
		Description:    "Meet **universities**.",
		StartDateTime:  testNow.Add(24 * time.Hour),
		EndDateTime:    testNow.Add(26 * time.Hour),
		Capacity:       capacity,
		SeatsRemaining: capacity,
		Status:         status,
	})
	require.NoError(t, err)
	return e
}
