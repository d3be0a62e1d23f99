// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package validate collects field-level validation errors.
//
// A Validator accumulates the first failure per field; Err returns nil when
// every rule passed, or an Errors map keyed by JSON field name.
package validate

import (
	"fmt"
	"net/mail"
	"net/url"
	"regexp"
	"slices"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/olegiv/pathway-go/internal/util"
)

// Errors maps a JSON field name to a human-readable message.
type Errors map[string]string

func (e Errors) Error() string {
	if len(e) == 0 {
		return "validation failed"
	}
	fields := make([]string, 0, len(e))
	for f := range e {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, f+": "+e[f])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

var phonePattern = regexp.MustCompile(`^\+?[0-9 ()\-.]{7,20}$`)

// Validator accumulates errors for one input value.
type Validator struct {
	errs Errors
}

// New returns an empty Validator.
func New() *Validator {
	return &Validator{errs: Errors{}}
}

// Add records msg for field unless the field already failed.
func (v *Validator) Add(field, msg string) {
	if _, ok := v.errs[field]; !ok {
		v.errs[field] = msg
	}
}

// Check records msg for field when ok is false.
func (v *Validator) Check(ok bool, field, msg string) {
	if !ok {
		v.Add(field, msg)
	}
}

// Valid reports whether no rule has failed yet.
func (v *Validator) Valid() bool { return len(v.errs) == 0 }

// Err returns the collected errors, or nil.
func (v *Validator) Err() error {
	if len(v.errs) == 0 {
		return nil
	}
	return v.errs
}

// Required fails when value is blank.
func (v *Validator) Required(field, value string) {
	v.Check(strings.TrimSpace(value) != "", field, "is required")
}

// MaxLen fails when value is longer than n characters.
func (v *Validator) MaxLen(field, value string, n int) {
	v.Check(utf8.RuneCountInString(value) <= n, field, fmt.Sprintf("must be at most %d characters", n))
}

// Email fails for a non-empty value that is not a bare address.
func (v *Validator) Email(field, value string) {
	if value == "" {
		return
	}
	addr, err := mail.ParseAddress(value)
	v.Check(err == nil && addr.Address == value && strings.Contains(value, "."), field, "must be a valid email address")
}

// Phone fails unless value matches the loose international pattern.
func (v *Validator) Phone(field, value string) {
	if value == "" {
		v.Add(field, "is required")
		return
	}
	v.Check(phonePattern.MatchString(value), field, "must be a valid phone number")
}

// OptionalPhone applies Phone only when value is non-empty.
func (v *Validator) OptionalPhone(field, value string) {
	if value != "" {
		v.Phone(field, value)
	}
}

// Slug fails unless value is a lowercase hyphenated slug.
func (v *Validator) Slug(field, value string) {
	if value == "" {
		v.Add(field, "is required")
		return
	}
	v.Check(util.IsValidSlug(value), field, "must contain only lowercase letters, numbers and single hyphens")
}

// URL fails for a non-empty value that is neither an absolute http(s) URL
// nor a site-relative path.
func (v *Validator) URL(field, value string) {
	if value == "" {
		return
	}
	if strings.HasPrefix(value, "/") && !strings.HasPrefix(value, "//") {
		return
	}
	u, err := url.Parse(value)
	v.Check(err == nil && (u.Scheme == "http" || u.Scheme == "https") && u.Host != "", field, "must be a valid URL")
}

// Range fails when n is outside [lo, hi].
func (v *Validator) Range(field string, n, lo, hi int) {
	v.Check(n >= lo && n <= hi, field, fmt.Sprintf("must be between %d and %d", lo, hi))
}

// Min fails when n < lo.
func (v *Validator) Min(field string, n, lo int) {
	v.Check(n >= lo, field, fmt.Sprintf("must be at least %d", lo))
}

// Future fails unless t is strictly after now.
func (v *Validator) Future(field string, t, now time.Time) {
	if t.IsZero() {
		v.Add(field, "is required")
		return
	}
	v.Check(t.After(now), field, "must be in the future")
}

// Date fails unless value is a YYYY-MM-DD calendar date.
func (v *Validator) Date(field, value string) {
	if value == "" {
		return
	}
	_, err := time.Parse(time.DateOnly, value)
	v.Check(err == nil, field, "must be a date in YYYY-MM-DD format")
}

// NonEmpty fails when list has no non-blank entries.
func (v *Validator) NonEmpty(field string, list []string) {
	v.Check(slices.ContainsFunc(list, func(s string) bool { return strings.TrimSpace(s) != "" }), field, "must contain at least one entry")
}

// OneOf fails unless value is one of allowed.
func OneOf[T ~string](v *Validator, field string, value T, allowed ...T) {
	if slices.Contains(allowed, value) {
		return
	}
	names := make([]string, len(allowed))
	for i, a := range allowed {
		names[i] = string(a)
	}
	v.Add(field, "must be one of: "+strings.Join(names, ", "))
}
