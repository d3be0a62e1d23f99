// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/pathway-go/internal/validate"
)

func fieldErrors(t *testing.T, err error) validate.Errors {
	t.Helper()
	var errs validate.Errors
	require.True(t, errors.As(err, &errs), "expected validate.Errors, got %v", err)
	return errs
}

func TestDestinationInput_SlugNormalisation(t *testing.T) {
	in := DestinationInput{Country: "New Zealand", Slug: "  New-Zealand "}
	in.Normalize()
	require.NoError(t, in.Validate())
	assert.Equal(t, "new-zealand", in.Slug)
	assert.True(t, *in.Published)

	derived := DestinationInput{Country: "Việt Nam"}
	derived.Normalize()
	assert.Equal(t, "viet-nam", derived.Slug)
}

func TestDestinationInput_BadSlug(t *testing.T) {
	in := DestinationInput{Country: "NZ", Slug: "new zealand!"}
	in.Normalize()
	errs := fieldErrors(t, in.Validate())
	assert.Contains(t, errs, "slug")
}

func TestStatusEnumsRejectUnknownValues(t *testing.T) {
	bogus := "bogus"
	tests := []struct {
		name  string
		field string
		err   func() error
	}{
		{"lead patch", "status", func() error {
			s := LeadStatus(bogus)
			return (&LeadPatch{Status: &s}).Validate()
		}},
		{"lead purpose", "purpose", func() error {
			in := LeadInput{Phone: "+64 21 555 0199", Purpose: LeadPurpose(bogus)}
			return in.Validate()
		}},
		{"meeting patch", "status", func() error {
			s := MeetingStatus("pending")
			return (&MeetingPatch{Status: &s}).Validate()
		}},
		{"scholarship", "status", func() error {
			in := ScholarshipInput{Title: "Merit", Status: PublishStatus(bogus)}
			in.Normalize()
			return in.Validate()
		}},
		{"article patch", "status", func() error {
			s := PublishStatus("Published")
			return (&ArticlePatch{Status: &s}).Validate()
		}},
		{"event", "status", func() error {
			start := time.Now().Add(time.Hour)
			in := EventInput{Title: "Fair", StartDateTime: start, EndDateTime: start.Add(time.Hour), Status: EventStatus(bogus)}
			in.Normalize()
			return in.Validate()
		}},
		{"registration", "status", func() error {
			s := RegistrationStatus("noshow")
			return (&RegistrationPatch{Status: &s}).Validate()
		}},
		{"user role", "role", func() error {
			r := Role("editor")
			return (&UserPatch{Role: &r}).Validate()
		}},
		{"partner kind", "kind", func() error {
			k := PartnerKind(bogus)
			return (&PartnerPatch{Kind: &k}).Validate()
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := fieldErrors(t, tt.err())
			assert.Contains(t, errs, tt.field)
		})
	}
}

func TestMeetingInput_FutureAndDefaults(t *testing.T) {
	now := time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC)

	past := MeetingInput{FullName: "Ana", Phone: "+64 21 555 0199", ScheduledDateTime: now}
	past.Normalize()
	errs := fieldErrors(t, past.ValidateAt(now))
	assert.Equal(t, "must be in the future", errs["scheduledDateTime"])

	future := past
	future.ScheduledDateTime = now.Add(24 * time.Hour)
	require.NoError(t, future.ValidateAt(now))

	m := future.Build()
	assert.Equal(t, MeetingPending, m.Status)
	assert.Equal(t, UrgencyMedium, m.Urgency)
}

func TestMeetingPatch_OnlyChecksSuppliedTime(t *testing.T) {
	now := time.Now()
	status := MeetingCompleted
	require.NoError(t, (&MeetingPatch{Status: &status}).ValidateAt(now))

	past := now.Add(-time.Minute)
	errs := fieldErrors(t, (&MeetingPatch{ScheduledDateTime: &past}).ValidateAt(now))
	assert.Contains(t, errs, "scheduledDateTime")
}

func TestPatchLeavesUnspecifiedFields(t *testing.T) {
	d := Destination{Country: "Australia", Slug: "australia", Summary: "Sun", PopularCourses: []string{"Nursing"}, Published: true}
	var p DestinationPatch
	require.NoError(t, json.Unmarshal([]byte(`{"summary":"Sun and surf"}`), &p))
	p.Normalize()
	require.NoError(t, p.Validate())
	p.Apply(&d)

	assert.Equal(t, "Sun and surf", d.Summary)
	assert.Equal(t, "Australia", d.Country)
	assert.Equal(t, "australia", d.Slug)
	assert.Equal(t, []string{"Nursing"}, d.PopularCourses)
	assert.True(t, d.Published)
}

func TestLeadInput(t *testing.T) {
	in := LeadInput{
		Name:            " Ana ",
		Email:           "",
		Phone:           "+64 21 555 0199",
		CountryInterest: []string{"NZ", " NZ", "", "Australia"},
	}
	in.Normalize()
	require.NoError(t, in.Validate())

	l := in.Build()
	assert.Equal(t, "Ana", l.Name)
	assert.Equal(t, []string{"NZ", "Australia"}, l.CountryInterest)
	assert.Equal(t, PurposeEnquiry, l.Purpose)
	assert.Equal(t, LeadNew, l.Status)
	assert.Equal(t, "website", l.Source)

	bad := LeadInput{Email: "nope", Phone: "abc"}
	bad.Normalize()
	errs := fieldErrors(t, bad.Validate())
	assert.Contains(t, errs, "email")
	assert.Contains(t, errs, "phone")
}

func TestEventInput_SeatsDefaultToCapacity(t *testing.T) {
	start := time.Now().Add(48 * time.Hour)
	in := EventInput{Title: "Auckland Fair", StartDateTime: start, EndDateTime: start.Add(3 * time.Hour), Capacity: 50}
	in.Normalize()
	require.NoError(t, in.Validate())
	e := in.Build()
	assert.Equal(t, 50, e.SeatsRemaining)
	assert.Equal(t, "auckland-fair", e.Slug)
	assert.Equal(t, EventDraft, e.Status)

	backwards := in
	backwards.EndDateTime = start.Add(-time.Hour)
	errs := fieldErrors(t, backwards.Validate())
	assert.Contains(t, errs, "endDateTime")
}

func TestEventPatch_CapacityMovesSeats(t *testing.T) {
	start := time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC)
	e := Event{
		Title: "Fair", Slug: "fair", Status: EventPublished,
		StartDateTime: start, EndDateTime: start.Add(3 * time.Hour),
		Capacity: 50, SeatsRemaining: 10,
	}
	c := 60
	(&EventPatch{Capacity: &c}).Apply(&e)
	assert.Equal(t, 20, e.SeatsRemaining)
	require.NoError(t, e.Check())

	c = 30
	(&EventPatch{Capacity: &c}).Apply(&e)
	assert.Equal(t, -10, e.SeatsRemaining)
	assert.Error(t, e.Check())
}

func TestRegistrationStatus_HoldsSeat(t *testing.T) {
	assert.True(t, RegistrationPending.HoldsSeat())
	assert.True(t, RegistrationConfirmed.HoldsSeat())
	assert.False(t, RegistrationCancelled.HoldsSeat())
	assert.False(t, RegistrationAttended.HoldsSeat())
	assert.False(t, RegistrationNoShow.HoldsSeat())
}

func TestTestimonialPatch_NullUnpublishes(t *testing.T) {
	published := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	rating := 5
	tm := Testimonial{Author: "Ana", Quote: "Great", PublishedAt: &published, Rating: &rating}

	var keep TestimonialPatch
	require.NoError(t, json.Unmarshal([]byte(`{"quote":"Great help"}`), &keep))
	keep.Apply(&tm)
	require.NotNil(t, tm.PublishedAt)
	require.NotNil(t, tm.Rating)

	var clear TestimonialPatch
	require.NoError(t, json.Unmarshal([]byte(`{"publishedAt":null,"rating":null}`), &clear))
	require.NoError(t, clear.Validate())
	clear.Apply(&tm)
	assert.Nil(t, tm.PublishedAt)
	assert.Nil(t, tm.Rating)
	assert.Equal(t, "Great help", tm.Quote)
}

func TestTeamMemberInput_ExpertiseRequired(t *testing.T) {
	in := TeamMemberInput{Name: "Mere", Role: "Counsellor", Expertise: []string{" "}}
	in.Normalize()
	errs := fieldErrors(t, in.Validate())
	assert.Contains(t, errs, "expertise")
}

func TestArticle_PublishedAtStamp(t *testing.T) {
	in := ArticleInput{Title: "Visa tips", Status: StatusPublished}
	in.Normalize()
	a := in.Build()
	require.NotNil(t, a.PublishedAt)
	first := *a.PublishedAt

	s := StatusArchived
	(&ArticlePatch{Status: &s}).Apply(&a)
	s = StatusPublished
	(&ArticlePatch{Status: &s}).Apply(&a)
	assert.Equal(t, first, *a.PublishedAt)
}

func TestSeqMetaHidesDocID(t *testing.T) {
	a := Award{Title: "Best Agency"}
	a.SetSequence(3)
	a.SetDocumentID("65f0c0ffee")
	b, err := json.Marshal(&a)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":3,"title":"Best Agency","issuer":"","year":0,"image":"","createdAt":"0001-01-01T00:00:00Z","updatedAt":"0001-01-01T00:00:00Z"}`, string(b))
}

func TestUserJSONOmitsPasswordHash(t *testing.T) {
	b, err := json.Marshal(User{ID: "u1", Email: "a@b.co", PasswordHash: "secret", Role: RoleAdmin})
	require.NoError(t, err)
	assert.NotContains(t, string(b), "secret")
	assert.NotContains(t, string(b), "passwordHash")
}

func TestUserPatch_ChangesRoleOrStatus(t *testing.T) {
	u := User{Role: RoleAdmin, Active: true}
	same := RoleAdmin
	assert.False(t, (&UserPatch{Role: &same}).ChangesRoleOrStatus(&u))
	other := RoleSupport
	assert.True(t, (&UserPatch{Role: &other}).ChangesRoleOrStatus(&u))
	off := false
	assert.True(t, (&UserPatch{Active: &off}).ChangesRoleOrStatus(&u))
}

func TestSettingsDefaults(t *testing.T) {
	h := DefaultHomeSettings()
	assert.True(t, h.Sections.Services)
	assert.NotNil(t, h.Slides)

	s := DefaultSystemSettings()
	assert.True(t, s.LeadCaptureEnabled)
	require.NoError(t, s.Validate())

	c := DefaultContactInfo()
	c.Socials.X = "not a url"
	errs := fieldErrors(t, c.Validate())
	assert.Contains(t, errs, "socials.x")
}
