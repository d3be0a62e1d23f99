// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package util holds small helpers shared across packages: slugs, upload
// paths and nullable column conversions.
package util

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/mozillazg/go-unidecode"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	slugPattern     = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)
	nonSlugChars    = regexp.MustCompile(`[^a-z0-9-]+`)
	multipleHyphens = regexp.MustCompile(`-{2,}`)
)

// Slugify converts a title into a URL-friendly slug. Accents are stripped
// and non-Latin scripts are transliterated, so "Việt Nam" and "Москва"
// become "viet-nam" and "moskva".
func Slugify(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	result, _, _ := transform.String(t, s)

	if !isASCII(result) {
		result = unidecode.Unidecode(result)
	}

	result = strings.ToLower(result)
	result = strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) || r == '_' || r == '/' || r == '.' {
			return '-'
		}
		return r
	}, result)
	result = nonSlugChars.ReplaceAllString(result, "")
	result = multipleHyphens.ReplaceAllString(result, "-")
	return strings.Trim(result, "-")
}

// NormalizeSlug trims and lowercases a client-supplied slug without
// otherwise rewriting it; validation decides whether the result is usable.
func NormalizeSlug(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// IsValidSlug reports whether s is lowercase alphanumerics separated by
// single hyphens.
func IsValidSlug(s string) bool {
	return slugPattern.MatchString(s)
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return false
		}
	}
	return true
}
