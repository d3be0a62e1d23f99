// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"
)

// maxLockoutDuration caps the doubling lockout.
const maxLockoutDuration = 24 * time.Hour

// maxTrackedAccounts bounds the lockout table; stale entries are pruned
// once it grows past this.
const maxTrackedAccounts = 10000

// LoginProtectionConfig tunes staff login throttling.
type LoginProtectionConfig struct {
	// IPRateLimit is login POSTs per second per client IP.
	IPRateLimit float64
	IPBurst     int
	// MaxFailedAttempts within AttemptWindow locks the account.
	MaxFailedAttempts int
	// LockoutDuration is the first lockout; each further lockout doubles it.
	LockoutDuration time.Duration
	AttemptWindow   time.Duration
}

// DefaultLoginProtectionConfig allows one login POST every two seconds per
// IP (burst 5) and locks an account for 15 minutes after 5 failures in 15
// minutes.
func DefaultLoginProtectionConfig() LoginProtectionConfig {
	return LoginProtectionConfig{
		IPRateLimit:       0.5,
		IPBurst:           5,
		MaxFailedAttempts: 5,
		LockoutDuration:   15 * time.Minute,
		AttemptWindow:     15 * time.Minute,
	}
}

func (c LoginProtectionConfig) withDefaults() LoginProtectionConfig {
	d := DefaultLoginProtectionConfig()
	if c.IPRateLimit <= 0 {
		c.IPRateLimit = d.IPRateLimit
	}
	if c.IPBurst <= 0 {
		c.IPBurst = d.IPBurst
	}
	if c.MaxFailedAttempts <= 0 {
		c.MaxFailedAttempts = d.MaxFailedAttempts
	}
	if c.LockoutDuration <= 0 {
		c.LockoutDuration = d.LockoutDuration
	}
	if c.AttemptWindow <= 0 {
		c.AttemptWindow = d.AttemptWindow
	}
	return c
}

// accountState is the failure history of one staff email.
type accountState struct {
	failures    int
	windowStart time.Time
	lockedUntil time.Time
	lockouts    int
}

// stale reports whether the state no longer affects any decision.
func (s *accountState) stale(now time.Time, window time.Duration) bool {
	return !now.Before(s.lockedUntil) && now.Sub(s.windowStart) > window
}

// LoginProtection throttles login POSTs per IP and locks staff accounts
// after repeated failures.
type LoginProtection struct {
	cfg      LoginProtectionConfig
	perIP    *RateLimiter
	mu       sync.Mutex
	accounts map[string]*accountState
	now      func() time.Time
}

// NewLoginProtection creates a LoginProtection. Zero config fields take
// their defaults.
func NewLoginProtection(cfg LoginProtectionConfig) *LoginProtection {
	cfg = cfg.withDefaults()
	return &LoginProtection{
		cfg:      cfg,
		perIP:    NewRateLimiter(cfg.IPRateLimit, cfg.IPBurst),
		accounts: make(map[string]*accountState),
		now:      time.Now,
	}
}

// accountKey normalizes an email so case and spacing do not split one
// account's history.
func accountKey(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// IsAccountLocked reports whether email is locked and for how much longer.
func (lp *LoginProtection) IsAccountLocked(email string) (bool, time.Duration) {
	lp.mu.Lock()
	defer lp.mu.Unlock()

	s, ok := lp.accounts[accountKey(email)]
	if !ok {
		return false, 0
	}
	if left := s.lockedUntil.Sub(lp.now()); left > 0 {
		return true, left
	}
	return false, 0
}

// RecordFailedAttempt counts a failed login for email. When the failure
// triggers a lockout it returns true and the lockout length.
func (lp *LoginProtection) RecordFailedAttempt(email string) (bool, time.Duration) {
	k := accountKey(email)
	now := lp.now()

	lp.mu.Lock()
	defer lp.mu.Unlock()

	lp.pruneLocked(now)

	s, ok := lp.accounts[k]
	if !ok {
		s = &accountState{windowStart: now}
		lp.accounts[k] = s
	}
	if now.Sub(s.windowStart) > lp.cfg.AttemptWindow {
		s.failures = 0
		s.windowStart = now
	}
	s.failures++

	if s.failures < lp.cfg.MaxFailedAttempts {
		return false, 0
	}

	d := lockoutFor(lp.cfg.LockoutDuration, s.lockouts)
	s.lockedUntil = now.Add(d)
	s.lockouts++
	s.failures = 0
	s.windowStart = now

	slog.Warn("staff account locked after failed logins", "email", k, "lockouts", s.lockouts, "duration", d)
	return true, d
}

// RecordSuccessfulLogin forgets the failure history of email.
func (lp *LoginProtection) RecordSuccessfulLogin(email string) {
	lp.mu.Lock()
	delete(lp.accounts, accountKey(email))
	lp.mu.Unlock()
}

// RemainingAttempts returns how many more failures email may have before
// it is locked.
func (lp *LoginProtection) RemainingAttempts(email string) int {
	lp.mu.Lock()
	defer lp.mu.Unlock()

	s, ok := lp.accounts[accountKey(email)]
	if !ok || lp.now().Sub(s.windowStart) > lp.cfg.AttemptWindow {
		return lp.cfg.MaxFailedAttempts
	}
	return max(lp.cfg.MaxFailedAttempts-s.failures, 0)
}

// pruneLocked drops stale accounts once the table is large. lp.mu must be
// held.
func (lp *LoginProtection) pruneLocked(now time.Time) {
	if len(lp.accounts) < maxTrackedAccounts {
		return
	}
	for k, s := range lp.accounts {
		if s.stale(now, lp.cfg.AttemptWindow) {
			delete(lp.accounts, k)
		}
	}
}

// lockoutFor doubles base once per earlier lockout, capped at a day.
func lockoutFor(base time.Duration, earlier int) time.Duration {
	d := base
	for range earlier {
		d *= 2
		if d >= maxLockoutDuration {
			return maxLockoutDuration
		}
	}
	return d
}

// Middleware rate limits login POSTs per client IP. Other methods pass.
func (lp *LoginProtection) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodPost {
				if ip := ClientIP(r); !lp.perIP.Allow(ip) {
					slog.WarnContext(r.Context(), "login rate limit exceeded", "ip", ip)
					WriteError(w, http.StatusTooManyRequests, "rate_limited", "Too many login attempts. Please wait and try again.")
					return
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}
