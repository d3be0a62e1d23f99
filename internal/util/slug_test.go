// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package util

import "testing"

func TestSlugify(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"simple title", "Study in New Zealand", "study-in-new-zealand"},
		{"punctuation", "Visa: What's Required?", "visa-whats-required"},
		{"numbers", "Intake 2026", "intake-2026"},
		{"accents", "Café résumé", "cafe-resume"},
		{"vietnamese", "Việt Nam", "viet-nam"},
		{"cyrillic", "Москва", "moskva"},
		{"multiple spaces", "Hello   World", "hello-world"},
		{"separators", "UK/Ireland_guide.v2", "uk-ireland-guide-v2"},
		{"trim hyphens", "--Hello--", "hello"},
		{"empty", "", ""},
		{"only symbols", "!!!", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Slugify(tt.input); got != tt.expected {
				t.Errorf("Slugify(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestIsValidSlug(t *testing.T) {
	tests := []struct {
		input    string
		expected bool
	}{
		{"new-zealand", true},
		{"page-123", true},
		{"hello", true},
		{"123", true},
		{"", false},
		{"New-Zealand", false},
		{"hello world", false},
		{"hello!world", false},
		{"-hello", false},
		{"hello-", false},
		{"hello--world", false},
		{"héllo", false},
	}

	for _, tt := range tests {
		if got := IsValidSlug(tt.input); got != tt.expected {
			t.Errorf("IsValidSlug(%q) = %v, want %v", tt.input, got, tt.expected)
		}
	}
}

func TestNormalizeSlug(t *testing.T) {
	if got := NormalizeSlug("  New-Zealand "); got != "new-zealand" {
		t.Errorf("NormalizeSlug = %q", got)
	}
}
