// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"errors"
	"fmt"
	"log/slog"
	"mime"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/alexedwards/scs/v2"

	"github.com/olegiv/pathway-go/internal/auth"
	"github.com/olegiv/pathway-go/internal/middleware"
	"github.com/olegiv/pathway-go/internal/model"
	"github.com/olegiv/pathway-go/internal/repository"
	"github.com/olegiv/pathway-go/internal/session"
	"github.com/olegiv/pathway-go/internal/store"
)

// AuthHandler handles the session endpoints.
type AuthHandler struct {
	users           *repository.Users
	sessionManager  *scs.SessionManager
	loginProtection *middleware.LoginProtection
	now             func() time.Time
}

// NewAuthHandler creates a new AuthHandler. lp may be nil.
func NewAuthHandler(users *repository.Users, sm *scs.SessionManager, lp *middleware.LoginProtection) *AuthHandler {
	return &AuthHandler{
		users:           users,
		sessionManager:  sm,
		loginProtection: lp,
		now:             func() time.Time { return time.Now().UTC() },
	}
}

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SessionInfo is returned by the session endpoints.
type SessionInfo struct {
	Authenticated bool        `json:"authenticated"`
	User          *model.User `json:"user,omitempty"`
}

var errInvalidCredentials = errors.New("invalid email or password")

// Login handles POST /login with a form or a JSON body. JSON callers get
// the session info; form callers are redirected.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	jsonBody := isJSONRequest(r)
	wantsJSON := jsonBody || middleware.WantsJSON(r)

	var creds credentials
	if jsonBody {
		if err := DecodeJSON(w, r, &creds); err != nil {
			WriteErr(w, r, err)
			return
		}
	} else {
		r.Body = http.MaxBytesReader(w, r.Body, MaxBodySize)
		if err := r.ParseForm(); err != nil {
			h.loginFailed(w, r, wantsJSON, http.StatusBadRequest, "Invalid form data")
			return
		}
		creds = credentials{Email: r.PostFormValue("email"), Password: r.PostFormValue("password")}
	}
	creds.Email = strings.ToLower(strings.TrimSpace(creds.Email))

	if creds.Email == "" || creds.Password == "" {
		h.loginFailed(w, r, wantsJSON, http.StatusBadRequest, "Email and password are required")
		return
	}

	if h.loginProtection != nil {
		if locked, remaining := h.loginProtection.IsAccountLocked(creds.Email); locked {
			slog.WarnContext(r.Context(), "login attempt on locked account", "email", creds.Email)
			h.loginFailed(w, r, wantsJSON, http.StatusTooManyRequests,
				"Account temporarily locked. Try again in "+formatDuration(remaining))
			return
		}
	}

	user, err := h.authenticate(r, creds)
	if err != nil {
		if !errors.Is(err, errInvalidCredentials) {
			WriteErr(w, r, err)
			return
		}
		msg := "Invalid email or password"
		if h.loginProtection != nil {
			if locked, d := h.loginProtection.RecordFailedAttempt(creds.Email); locked {
				slog.WarnContext(r.Context(), "account locked after failed attempts", "email", creds.Email, "duration", d.String())
				h.loginFailed(w, r, wantsJSON, http.StatusTooManyRequests,
					"Too many failed attempts. Try again in "+formatDuration(d))
				return
			}
		}
		h.loginFailed(w, r, wantsJSON, http.StatusUnauthorized, msg)
		return
	}

	if h.loginProtection != nil {
		h.loginProtection.RecordSuccessfulLogin(creds.Email)
	}

	if auth.NeedsRehash(user.PasswordHash) {
		if hash, err := auth.HashPassword(creds.Password); err == nil {
			if _, err := h.users.Update(r.Context(), user.ID, func(u *model.User) error {
				u.PasswordHash = hash
				return nil
			}); err != nil {
				slog.ErrorContext(r.Context(), "failed to re-hash password", "error", err, "user_id", user.ID)
			}
		}
	}

	now := h.now()
	if err := h.users.TouchLogin(r.Context(), user.ID, now); err != nil {
		slog.ErrorContext(r.Context(), "failed to update last login time", "error", err, "user_id", user.ID)
	} else {
		user.LastLoginAt = &now
	}

	// A fresh token prevents session fixation.
	if err := h.sessionManager.RenewToken(r.Context()); err != nil {
		WriteErr(w, r, fmt.Errorf("renewing session: %w", err))
		return
	}
	h.sessionManager.Put(r.Context(), session.KeyUserID, user.ID)
	h.sessionManager.Put(r.Context(), session.KeyRole, string(user.Role))

	slog.InfoContext(r.Context(), "user logged in", "user_id", user.ID, "role", user.Role)

	if wantsJSON {
		WriteData(w, SessionInfo{Authenticated: true, User: &user})
		return
	}
	http.Redirect(w, r, middleware.AdminPath, http.StatusSeeOther)
}

// authenticate returns errInvalidCredentials for unknown, inactive or
// wrongly authenticated accounts alike.
func (h *AuthHandler) authenticate(r *http.Request, creds credentials) (model.User, error) {
	user, err := h.users.GetByEmail(r.Context(), creds.Email)
	if errors.Is(err, store.ErrNotFound) {
		auth.BurnCycles(creds.Password)
		slog.DebugContext(r.Context(), "login attempt for unknown user", "email", creds.Email)
		return model.User{}, errInvalidCredentials
	}
	if err != nil {
		return model.User{}, err
	}

	ok, err := auth.CheckPassword(creds.Password, user.PasswordHash)
	if err != nil {
		slog.ErrorContext(r.Context(), "password check error", "error", err, "user_id", user.ID)
		return model.User{}, errInvalidCredentials
	}
	if !ok || !user.Active || !user.Role.IsStaff() {
		slog.DebugContext(r.Context(), "login rejected", "user_id", user.ID, "active", user.Active)
		return model.User{}, errInvalidCredentials
	}
	return user, nil
}

func (h *AuthHandler) loginFailed(w http.ResponseWriter, r *http.Request, wantsJSON bool, status int, msg string) {
	if wantsJSON {
		code := "invalid_credentials"
		switch status {
		case http.StatusBadRequest:
			code = "bad_request"
		case http.StatusTooManyRequests:
			code = "locked"
		}
		WriteError(w, status, code, msg, nil)
		return
	}
	http.Redirect(w, r, middleware.LoginPath+"?error="+url.QueryEscape(msg), http.StatusSeeOther)
}

// Logout handles POST /logout.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	userID := h.sessionManager.GetString(r.Context(), session.KeyUserID)
	if err := h.sessionManager.Destroy(r.Context()); err != nil {
		slog.ErrorContext(r.Context(), "session destroy error", "error", err)
	}
	if userID != "" {
		slog.InfoContext(r.Context(), "user logged out", "user_id", userID)
	}

	if isJSONRequest(r) || middleware.WantsJSON(r) {
		WriteData(w, SessionInfo{})
		return
	}
	http.Redirect(w, r, middleware.LoginPath, http.StatusSeeOther)
}

// Session handles GET /api/session.
func (h *AuthHandler) Session(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Cache-Control", "no-store")
	user := middleware.GetUser(r)
	if user == nil {
		WriteData(w, SessionInfo{})
		return
	}
	WriteData(w, SessionInfo{Authenticated: true, User: user})
}

func isJSONRequest(r *http.Request) bool {
	mt, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mt == "application/json"
}

// formatDuration formats a duration into a human-readable string.
func formatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%d seconds", int(d.Seconds()))
	}
	if d < time.Hour {
		mins := int(d.Minutes())
		if mins == 1 {
			return "1 minute"
		}
		return fmt.Sprintf("%d minutes", mins)
	}
	hours := int(d.Hours())
	if hours == 1 {
		return "1 hour"
	}
	return fmt.Sprintf("%d hours", hours)
}
