// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package util

import (
	"database/sql"
	"testing"
	"time"
)

func TestNullTimeRoundTrip(t *testing.T) {
	if NullTimeFromPtr(nil).Valid {
		t.Error("nil pointer should be NULL")
	}
	if TimePtr(sql.NullTime{}) != nil {
		t.Error("NULL should map to nil")
	}

	loc := time.FixedZone("NZST", 12*3600)
	in := time.Date(2026, 3, 1, 9, 0, 0, 0, loc)
	nt := NullTimeFromPtr(&in)
	if !nt.Valid || nt.Time.Location() != time.UTC {
		t.Fatalf("NullTimeFromPtr = %+v, want valid UTC", nt)
	}
	if got := TimePtr(nt); got == nil || !got.Equal(in) {
		t.Errorf("TimePtr = %v, want %v", got, in)
	}
}

func TestNullIntRoundTrip(t *testing.T) {
	if NullInt64FromIntPtr(nil).Valid {
		t.Error("nil pointer should be NULL")
	}
	v := 4
	n := NullInt64FromIntPtr(&v)
	if got := IntPtr(n); got == nil || *got != 4 {
		t.Errorf("IntPtr = %v", got)
	}
	if IntPtr(sql.NullInt64{}) != nil {
		t.Error("NULL should map to nil")
	}
}

func TestNullStringFromValue(t *testing.T) {
	if NullStringFromValue("").Valid {
		t.Error("empty string should be NULL")
	}
	if ns := NullStringFromValue("u1"); !ns.Valid || ns.String != "u1" {
		t.Errorf("NullStringFromValue = %+v", ns)
	}
}
