// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"net/http"
	"strconv"
	"strings"
)

// directive is one policy entry. Policies are slices so header output is
// stable.
type directive struct {
	name, value string
}

// SecurityHeadersConfig describes the headers added to every response.
type SecurityHeadersConfig struct {
	IsDevelopment bool
	// PageCSP applies to the admin shell and uploaded files.
	PageCSP string
	// APICSP applies under APIPrefixes; JSON responses never load anything.
	APICSP      string
	APIPrefixes []string
	// HSTSMaxAge in seconds; 0 or development disables HSTS.
	HSTSMaxAge            int
	HSTSIncludeSubDomains bool
	FrameOptions          string
	ReferrerPolicy        string
	PermissionsPolicy     string
}

// DefaultSecurityHeadersConfig returns the policy for the admin SPA and the
// JSON API. Images may come from the configured image host over https.
func DefaultSecurityHeadersConfig(isDev bool) SecurityHeadersConfig {
	page := []directive{
		{"default-src", "'self'"},
		{"script-src", "'self'"},
		{"style-src", "'self' 'unsafe-inline'"},
		{"img-src", "'self' data: blob: https:"},
		{"font-src", "'self' data:"},
		{"connect-src", "'self'"},
		{"object-src", "'none'"},
		{"base-uri", "'self'"},
		{"form-action", "'self'"},
		{"frame-ancestors", "'none'"},
	}
	if isDev {
		page = withDirective(page, "script-src", "'self' 'unsafe-inline' 'unsafe-eval'")
		page = withDirective(page, "connect-src", "'self' ws://localhost:3000")
	}

	return SecurityHeadersConfig{
		IsDevelopment: isDev,
		PageCSP:       joinDirectives(page, " ", "; "),
		APICSP: joinDirectives([]directive{
			{"default-src", "'none'"},
			{"frame-ancestors", "'none'"},
		}, " ", "; "),
		APIPrefixes:           []string{"/api/", AdminAPIPath + "/"},
		HSTSMaxAge:            365 * 24 * 60 * 60,
		HSTSIncludeSubDomains: !isDev,
		FrameOptions:          "DENY",
		ReferrerPolicy:        "strict-origin-when-cross-origin",
		PermissionsPolicy: joinDirectives([]directive{
			{"camera", "()"},
			{"geolocation", "()"},
			{"microphone", "()"},
			{"payment", "()"},
			{"usb", "()"},
			{"browsing-topics", "()"},
		}, "=", ", "),
	}
}

// withDirective replaces the value of name in ds.
func withDirective(ds []directive, name, value string) []directive {
	out := make([]directive, len(ds))
	copy(out, ds)
	for i := range out {
		if out[i].name == name {
			out[i].value = value
		}
	}
	return out
}

func joinDirectives(ds []directive, kv, sep string) string {
	parts := make([]string, len(ds))
	for i, d := range ds {
		parts[i] = d.name + kv + d.value
	}
	return strings.Join(parts, sep)
}

// staticHeaders returns the headers that do not depend on the request.
func (cfg SecurityHeadersConfig) staticHeaders() http.Header {
	h := http.Header{}
	h.Set("X-Content-Type-Options", "nosniff")
	h.Set("Cross-Origin-Opener-Policy", "same-origin")
	if cfg.FrameOptions != "" {
		h.Set("X-Frame-Options", cfg.FrameOptions)
	}
	if cfg.ReferrerPolicy != "" {
		h.Set("Referrer-Policy", cfg.ReferrerPolicy)
	}
	if cfg.PermissionsPolicy != "" {
		h.Set("Permissions-Policy", cfg.PermissionsPolicy)
	}
	if !cfg.IsDevelopment && cfg.HSTSMaxAge > 0 {
		hsts := "max-age=" + strconv.Itoa(cfg.HSTSMaxAge)
		if cfg.HSTSIncludeSubDomains {
			hsts += "; includeSubDomains"
		}
		h.Set("Strict-Transport-Security", hsts)
	}
	return h
}

func (cfg SecurityHeadersConfig) cspFor(path string) string {
	for _, p := range cfg.APIPrefixes {
		if strings.HasPrefix(path, p) {
			return cfg.APICSP
		}
	}
	return cfg.PageCSP
}

// SecurityHeaders adds the configured security headers to every response.
func SecurityHeaders(cfg SecurityHeadersConfig) func(http.Handler) http.Handler {
	static := cfg.staticHeaders()
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			for k, v := range static {
				h[k] = v
			}
			if csp := cfg.cspFor(r.URL.Path); csp != "" {
				h.Set("Content-Security-Policy", csp)
			}
			next.ServeHTTP(w, r)
		})
	}
}
