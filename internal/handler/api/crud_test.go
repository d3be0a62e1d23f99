// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/pathway-go/internal/model"
	"github.com/olegiv/pathway-go/internal/repository"
)

func TestDestinations_Lifecycle(t *testing.T) {
	f := newAPIFixture(t, true)

	w := f.do(t, model.RoleAdmin, http.MethodPost, "/admin/api/destinations",
		`{"country":"Canada","overview":"# Why Canada\n\nGreat *universities*."}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := dataOf(t, w)
	id := created["id"].(string)
	assert.Equal(t, "canada", created["slug"])
	assert.Equal(t, true, created["published"])

	w = f.do(t, "", http.MethodGet, "/api/destinations", "")
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Len(t, body["data"], 1)
	assert.Equal(t, float64(1), body["meta"].(map[string]any)["total"])

	w = f.do(t, "", http.MethodGet, "/api/destinations/Canada", "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	body = decode(t, w)
	assert.Equal(t, id, body["data"].(map[string]any)["id"])
	assert.Contains(t, body["html"].(map[string]any)["overview"], "<h1")
	assert.Contains(t, body["html"].(map[string]any)["overview"], "<em>universities</em>")

	// Unpublishing hides it from the public site but not from staff.
	w = f.do(t, model.RoleAdmin, http.MethodPatch, "/admin/api/destinations/"+id, `{"published":false}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "Canada", dataOf(t, w)["country"])

	w = f.do(t, "", http.MethodGet, "/api/destinations/canada", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	w = f.do(t, "", http.MethodGet, "/api/destinations", "")
	assert.Equal(t, float64(0), decode(t, w)["meta"].(map[string]any)["total"])
	w = f.do(t, model.RoleSupport, http.MethodGet, "/admin/api/destinations", "")
	assert.Equal(t, float64(1), decode(t, w)["meta"].(map[string]any)["total"])

	w = f.do(t, model.RoleAdmin, http.MethodDelete, "/admin/api/destinations/"+id, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true}`, w.Body.String())

	w = f.do(t, model.RoleAdmin, http.MethodGet, "/admin/api/destinations/"+id, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "not_found", decode(t, w)["code"])
}

func TestCreate_Rejects(t *testing.T) {
	f := newAPIFixture(t, true)

	tests := []struct {
		name      string
		body      string
		wantField string
	}{
		{"missing required field", `{"summary":"no country"}`, "country"},
		{"unknown field", `{"country":"Canada","colour":"red"}`, "colour"},
		{"bad slug", `{"country":"Canada","slug":"Not A Slug!"}`, "slug"},
		{"malformed json", `{"country":`, "body"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := f.do(t, model.RoleAdmin, http.MethodPost, "/admin/api/destinations", tt.body)

			require.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
			body := decode(t, w)
			assert.Equal(t, "validation_error", body["code"])
			assert.Contains(t, body["errors"], tt.wantField)
		})
	}
}

func TestCreate_DuplicateSlugConflicts(t *testing.T) {
	f := newAPIFixture(t, true)

	w := f.do(t, model.RoleAdmin, http.MethodPost, "/admin/api/services", `{"name":"Visa","title":"Visa help"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = f.do(t, model.RoleAdmin, http.MethodPost, "/admin/api/services", `{"name":"Visa","title":"Other"}`)
	assert.Equal(t, http.StatusConflict, w.Code, w.Body.String())
	assert.Equal(t, "conflict", decode(t, w)["code"])
}

func TestAdminRoutes_Roles(t *testing.T) {
	f := newAPIFixture(t, true)
	lead, err := f.repos.Leads.Create(t.Context(), model.Lead{Name: "Asha", Phone: "+880 1711 000000", Status: model.LeadNew})
	require.NoError(t, err)

	tests := []struct {
		name       string
		role       model.Role
		method     string
		path       string
		body       string
		wantStatus int
	}{
		{"anonymous read", "", http.MethodGet, "/admin/api/leads", "", http.StatusUnauthorized},
		{"support read", model.RoleSupport, http.MethodGet, "/admin/api/leads", "", http.StatusOK},
		{"support updates lead", model.RoleSupport, http.MethodPatch, "/admin/api/leads/" + lead.ID, `{"status":"contacted"}`, http.StatusOK},
		{"support deletes lead", model.RoleSupport, http.MethodDelete, "/admin/api/leads/" + lead.ID, "", http.StatusForbidden},
		{"support creates content", model.RoleSupport, http.MethodPost, "/admin/api/awards", `{"title":"Best agency","year":2025}`, http.StatusForbidden},
		{"support edits settings", model.RoleSupport, http.MethodPut, "/admin/api/system-settings", `{"siteName":"x"}`, http.StatusForbidden},
		{"support manages users", model.RoleSupport, http.MethodPost, "/admin/api/users", `{}`, http.StatusForbidden},
		{"admin reads users", model.RoleAdmin, http.MethodGet, "/admin/api/users", "", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := f.do(t, tt.role, tt.method, tt.path, tt.body)
			assert.Equal(t, tt.wantStatus, w.Code, w.Body.String())
		})
	}
}

func TestPublicLists_HideDrafts(t *testing.T) {
	f := newAPIFixture(t, true)
	ctx := t.Context()

	_, err := f.repos.Scholarships.Create(ctx, model.Scholarship{Title: "Open award", Slug: "open", Status: model.StatusPublished})
	require.NoError(t, err)
	_, err = f.repos.Scholarships.Create(ctx, model.Scholarship{Title: "Draft award", Slug: "draft", Status: model.StatusDraft})
	require.NoError(t, err)
	f.seedEvent(t, "published-event", model.EventPublished, 10)
	f.seedEvent(t, "draft-event", model.EventDraft, 10)

	tests := []struct {
		path      string
		wantTotal float64
	}{
		{"/api/scholarships", 1},
		{"/api/scholarships?status=draft", 1},
		{"/api/events", 1},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			w := f.do(t, "", http.MethodGet, tt.path, "")
			require.Equal(t, http.StatusOK, w.Code, w.Body.String())
			assert.Equal(t, tt.wantTotal, decode(t, w)["meta"].(map[string]any)["total"])
		})
	}

	w := f.do(t, "", http.MethodGet, "/api/scholarships/draft", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	w = f.do(t, "", http.MethodGet, "/api/events/draft-event", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	w = f.do(t, "", http.MethodGet, "/api/events/published-event", "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = f.do(t, model.RoleAdmin, http.MethodGet, "/admin/api/scholarships?status=draft", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(1), decode(t, w)["meta"].(map[string]any)["total"])
}

func TestPublicList_DegradesWhenStoreUnavailable(t *testing.T) {
	f := newAPIFixture(t, true)
	f.docs.failColl.Store("destinations")

	w := f.do(t, "", http.MethodGet, "/api/destinations?page=2&limit=5", "")

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.JSONEq(t, `{"data":[],"meta":{"total":0,"page":2,"limit":5,"pages":0},"degraded":true}`, w.Body.String())

	// Staff screens report the outage instead.
	w = f.do(t, model.RoleAdmin, http.MethodGet, "/admin/api/destinations", "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, "unavailable", decode(t, w)["code"])
}

func TestRelationalList_DegradesWhenDatabaseDown(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()
	mock.ExpectQuery("SELECT COUNT").WillReturnError(errors.New("dial tcp 10.0.0.5:5432: connection refused"))

	r := chi.NewRouter()
	r.Get("/offices", listHandler[model.Office](repository.NewOffices(db), false, nil))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/offices", nil))

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, true, decode(t, w)["degraded"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListOptions_Rejected(t *testing.T) {
	f := newAPIFixture(t, true)

	w := f.do(t, "", http.MethodGet, "/api/team?page=zero", "")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decode(t, w)["errors"], "page")
}

func TestSingletons(t *testing.T) {
	f := newAPIFixture(t, true)

	w := f.do(t, "", http.MethodGet, "/api/contact-info", "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = f.do(t, model.RoleAdmin, http.MethodGet, "/admin/api/home-settings", "")
	require.Equal(t, http.StatusOK, w.Code)
	sections := dataOf(t, w)["sections"].(map[string]any)
	assert.Equal(t, true, sections["services"])

	w = f.do(t, model.RoleAdmin, http.MethodPut, "/admin/api/home-settings", `{"heroTagline":"  Study abroad  "}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	data := dataOf(t, w)
	assert.Equal(t, "Study abroad", data["heroTagline"])
	// Fields missing from the payload keep their stored value.
	assert.Equal(t, true, data["sections"].(map[string]any)["services"])

	w = f.do(t, model.RoleAdmin, http.MethodPatch, "/admin/api/contact-info", `{"email":"not-an-email"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
	assert.Contains(t, decode(t, w)["errors"], "email")
}
