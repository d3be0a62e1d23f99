// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package middleware provides HTTP middleware for authentication,
// authorization, and request context handling.
package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"slices"
	"strings"

	"github.com/alexedwards/scs/v2"

	"github.com/olegiv/pathway-go/internal/logging"
	"github.com/olegiv/pathway-go/internal/model"
	"github.com/olegiv/pathway-go/internal/session"
	"github.com/olegiv/pathway-go/internal/store"
)

// ContextKey is a type for context keys to avoid collisions.
type ContextKey string

// ContextKeyUser holds the signed-in *model.User.
const ContextKeyUser ContextKey = "user"

// Paths the admin gate routes between.
const (
	LoginPath     = "/login"
	AdminPath     = "/admin"
	AdminAPIPath  = "/admin/api"
	adminPrefixed = AdminPath + "/"
)

// UserLoader loads staff accounts by id.
type UserLoader interface {
	Get(ctx context.Context, id string) (model.User, error)
}

// LoadUser creates middleware that loads the session's user into the
// request context. Sessions pointing at a missing or inactive account are
// destroyed and the request continues anonymously.
func LoadUser(sm *scs.SessionManager, users UserLoader) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID := sm.GetString(r.Context(), session.KeyUserID)
			if userID == "" {
				next.ServeHTTP(w, r)
				return
			}

			user, err := users.Get(r.Context(), userID)
			switch {
			case err == nil && user.Active:
				ctx := context.WithValue(r.Context(), ContextKeyUser, &user)
				next.ServeHTTP(w, r.WithContext(ctx))
			case err == nil || errors.Is(err, store.ErrNotFound):
				_ = sm.Destroy(r.Context())
				next.ServeHTTP(w, r)
			default:
				slog.ErrorContext(r.Context(), "loading session user", "user_id", userID, "error", err)
				WriteError(w, http.StatusServiceUnavailable, "unavailable", "Service temporarily unavailable")
			}
		})
	}
}

// GetUser retrieves the current user from the request context.
// Returns nil if no user is in context.
func GetUser(r *http.Request) *model.User {
	user, _ := r.Context().Value(ContextKeyUser).(*model.User)
	return user
}

// WithUser returns a copy of r carrying user, as LoadUser would.
func WithUser(r *http.Request, user *model.User) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), ContextKeyUser, user))
}

// RequestPath creates middleware that stores the request path in the context.
// This is used by the logging handler to include the URL in error logs.
func RequestPath(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, r.WithContext(logging.WithPath(r.Context(), r.URL.Path)))
	})
}

func isAdminPath(path string) bool {
	return path == AdminPath || strings.HasPrefix(path, adminPrefixed)
}

// WantsJSON reports whether the client expects a JSON answer rather than a
// redirect.
func WantsJSON(r *http.Request) bool {
	if strings.HasPrefix(r.URL.Path, AdminAPIPath+"/") || r.URL.Path == AdminAPIPath {
		return true
	}
	return strings.Contains(r.Header.Get("Accept"), "application/json")
}

// AdminGate routes requests by two facts: whether a user is signed in and
// whether their role is a staff role.
//
//	admin path, no staff user   -> 303 /login (401 JSON for API clients)
//	/login, staff user          -> 303 /admin
//	anything else               -> next
//
// It must run after LoadUser.
func AdminGate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user := GetUser(r)
		staff := user != nil && user.Role.IsStaff()

		switch {
		case isAdminPath(r.URL.Path) && !staff:
			if WantsJSON(r) {
				WriteError(w, http.StatusUnauthorized, "unauthorized", "Authentication required")
				return
			}
			http.Redirect(w, r, LoginPath, http.StatusSeeOther)
		case r.URL.Path == LoginPath && staff:
			http.Redirect(w, r, AdminPath, http.StatusSeeOther)
		default:
			next.ServeHTTP(w, r)
		}
	})
}

// RequireRole creates middleware that admits only users holding one of
// roles. Anonymous requests get 401, other roles 403.
func RequireRole(roles ...model.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user := GetUser(r)
			if user == nil {
				WriteError(w, http.StatusUnauthorized, "unauthorized", "Authentication required")
				return
			}

			if !slices.Contains(roles, user.Role) {
				slog.WarnContext(r.Context(), "access denied",
					"status", http.StatusForbidden,
					"method", r.Method,
					"user_id", user.ID,
					"user_role", user.Role,
					"required_roles", roles,
					"remote_addr", r.RemoteAddr,
				)
				WriteError(w, http.StatusForbidden, "forbidden", "Insufficient permissions")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequireAdmin is shorthand for RequireRole(model.RoleAdmin).
func RequireAdmin() func(http.Handler) http.Handler {
	return RequireRole(model.RoleAdmin)
}

// RequireStaff admits admin and support users.
func RequireStaff() func(http.Handler) http.Handler {
	return RequireRole(model.Roles...)
}
