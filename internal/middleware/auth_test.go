// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/pathway-go/internal/logging"
	"github.com/olegiv/pathway-go/internal/model"
	"github.com/olegiv/pathway-go/internal/session"
	"github.com/olegiv/pathway-go/internal/store"
	"github.com/olegiv/pathway-go/internal/testutil"
)

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
})

func TestAdminGate(t *testing.T) {
	admin := &model.User{ID: "u1", Role: model.RoleAdmin, Active: true}
	support := &model.User{ID: "u2", Role: model.RoleSupport, Active: true}
	outsider := &model.User{ID: "u3", Role: model.Role("student"), Active: true}

	tests := []struct {
		name         string
		path         string
		accept       string
		user         *model.User
		wantStatus   int
		wantLocation string
	}{
		{"admin home anonymous", "/admin", "", nil, http.StatusSeeOther, "/login"},
		{"admin page anonymous", "/admin/leads", "", nil, http.StatusSeeOther, "/login"},
		{"admin page unknown role", "/admin/leads", "", outsider, http.StatusSeeOther, "/login"},
		{"admin api anonymous", "/admin/api/leads", "", nil, http.StatusUnauthorized, ""},
		{"admin page json client", "/admin/leads", "application/json", nil, http.StatusUnauthorized, ""},
		{"admin page admin", "/admin/leads", "", admin, http.StatusOK, ""},
		{"admin page support", "/admin", "", support, http.StatusOK, ""},
		{"login anonymous", "/login", "", nil, http.StatusOK, ""},
		{"login as staff", "/login", "", support, http.StatusSeeOther, "/admin"},
		{"login unknown role", "/login", "", outsider, http.StatusOK, ""},
		{"public api", "/api/home", "", nil, http.StatusOK, ""},
		{"prefix lookalike", "/administrator", "", nil, http.StatusOK, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.accept != "" {
				req.Header.Set("Accept", tt.accept)
			}
			if tt.user != nil {
				req = WithUser(req, tt.user)
			}
			rec := httptest.NewRecorder()

			AdminGate(okHandler).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantLocation, rec.Header().Get("Location"))
			if tt.wantStatus == http.StatusUnauthorized {
				var body map[string]string
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
				assert.Equal(t, "unauthorized", body["code"])
			}
		})
	}
}

func TestRequireRole(t *testing.T) {
	tests := []struct {
		name       string
		roles      []model.Role
		user       *model.User
		wantStatus int
	}{
		{"admin on admin route", []model.Role{model.RoleAdmin}, &model.User{Role: model.RoleAdmin}, http.StatusOK},
		{"support on admin route", []model.Role{model.RoleAdmin}, &model.User{Role: model.RoleSupport}, http.StatusForbidden},
		{"support on staff route", model.Roles, &model.User{Role: model.RoleSupport}, http.StatusOK},
		{"anonymous", model.Roles, nil, http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodDelete, "/admin/api/users/x", nil)
			if tt.user != nil {
				req = WithUser(req, tt.user)
			}
			rec := httptest.NewRecorder()

			RequireRole(tt.roles...)(okHandler).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

type stubUsers struct {
	users map[string]model.User
	err   error
}

func (s stubUsers) Get(_ context.Context, id string) (model.User, error) {
	if s.err != nil {
		return model.User{}, s.err
	}
	u, ok := s.users[id]
	if !ok {
		return model.User{}, store.ErrNotFound
	}
	return u, nil
}

func TestLoadUser(t *testing.T) {
	users := stubUsers{users: map[string]model.User{
		"active":   {ID: "active", Role: model.RoleAdmin, Active: true},
		"inactive": {ID: "inactive", Role: model.RoleAdmin, Active: false},
	}}

	tests := []struct {
		name       string
		loader     UserLoader
		sessionID  string
		wantUser   string
		wantStatus int
	}{
		{"no session", users, "", "", http.StatusOK},
		{"active user", users, "active", "active", http.StatusOK},
		{"inactive user", users, "inactive", "", http.StatusOK},
		{"deleted user", users, "gone", "", http.StatusOK},
		{"store down", stubUsers{err: store.ErrUnavailable}, "active", "", http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sm := session.New(testutil.TestMemoryDB(t), true)

			var got string
			inner := LoadUser(sm, tt.loader)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if u := GetUser(r); u != nil {
					got = u.ID
				}
				w.WriteHeader(http.StatusOK)
			}))
			h := sm.LoadAndSave(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if tt.sessionID != "" {
					sm.Put(r.Context(), session.KeyUserID, tt.sessionID)
				}
				inner.ServeHTTP(w, r)
			}))

			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin", nil))

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantUser, got)
		})
	}
}

func TestRequestPath(t *testing.T) {
	var got string
	h := RequestPath(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = logging.PathFrom(r.Context())
	}))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/leads?x=1", nil))

	assert.Equal(t, "/api/leads", got)
}

func TestWantsJSON(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/admin/api", nil)
	assert.True(t, WantsJSON(req))

	req = httptest.NewRequest(http.MethodGet, "/admin", nil)
	assert.False(t, WantsJSON(req))

	req.Header.Set("Accept", "application/json, text/plain")
	assert.True(t, WantsJSON(req))
}

func TestWriteError(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, http.StatusTooManyRequests, "rate_limited", "slow down")

	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"error":"slow down","code":"rate_limited"}`, rec.Body.String())
}
