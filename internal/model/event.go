// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"time"

	"github.com/olegiv/pathway-go/internal/util"
	"github.com/olegiv/pathway-go/internal/validate"
)

// EventStatus is the lifecycle of an event.
type EventStatus string

const (
	EventDraft     EventStatus = "draft"
	EventPublished EventStatus = "published"
	EventCancelled EventStatus = "cancelled"
	EventCompleted EventStatus = "completed"
)

// EventStatuses lists every EventStatus.
var EventStatuses = []EventStatus{EventDraft, EventPublished, EventCancelled, EventCompleted}

// Event is a fair, seminar or webinar with limited seats.
type Event struct {
	ID             string      `json:"id"`
	Title          string      `json:"title"`
	Slug           string      `json:"slug"`
	Description    string      `json:"description"`
	StartDateTime  time.Time   `json:"startDateTime"`
	EndDateTime    time.Time   `json:"endDateTime"`
	Venue          string      `json:"venue"`
	City           string      `json:"city"`
	CoverImage     string      `json:"coverImage"`
	Capacity       int         `json:"capacity"`
	SeatsRemaining int         `json:"seatsRemaining"`
	Status         EventStatus `json:"status"`
	Featured       bool        `json:"featured"`
	CreatedAt      time.Time   `json:"createdAt"`
	UpdatedAt      time.Time   `json:"updatedAt"`
}

func (e *Event) GetSlug() string { return e.Slug }

// Check enforces the rules spanning several fields.
func (e *Event) Check() error {
	v := validate.New()
	v.Check(e.EndDateTime.After(e.StartDateTime), "endDateTime", "must be after startDateTime")
	v.Min("capacity", e.Capacity, 0)
	v.Min("seatsRemaining", e.SeatsRemaining, 0)
	v.Check(e.SeatsRemaining <= e.Capacity, "seatsRemaining", "must not exceed capacity")
	return v.Err()
}

// OpenForRegistration reports whether new registrations are accepted at now.
func (e *Event) OpenForRegistration(now time.Time) bool {
	return e.Status == EventPublished && e.EndDateTime.After(now)
}

// EventInput creates an event.
type EventInput struct {
	Title          string      `json:"title"`
	Slug           string      `json:"slug"`
	Description    string      `json:"description"`
	StartDateTime  time.Time   `json:"startDateTime"`
	EndDateTime    time.Time   `json:"endDateTime"`
	Venue          string      `json:"venue"`
	City           string      `json:"city"`
	CoverImage     string      `json:"coverImage"`
	Capacity       int         `json:"capacity"`
	SeatsRemaining *int        `json:"seatsRemaining"`
	Status         EventStatus `json:"status"`
	Featured       bool        `json:"featured"`
}

func (in *EventInput) Normalize() {
	trimAll(&in.Title, &in.Venue, &in.City, &in.CoverImage)
	normalizeSlug(&in.Slug, in.Title)
	if in.Status == "" {
		in.Status = EventDraft
	}
	if in.SeatsRemaining == nil {
		n := in.Capacity
		in.SeatsRemaining = &n
	}
}

func (in *EventInput) Validate() error {
	v := validate.New()
	v.Required("title", in.Title)
	v.MaxLen("title", in.Title, 200)
	v.Slug("slug", in.Slug)
	v.Check(!in.StartDateTime.IsZero(), "startDateTime", "is required")
	v.Check(!in.EndDateTime.IsZero(), "endDateTime", "is required")
	v.URL("coverImage", in.CoverImage)
	validate.OneOf(v, "status", in.Status, EventStatuses...)
	if err := v.Err(); err != nil {
		return err
	}
	e := in.Build()
	return e.Check()
}

func (in *EventInput) Build() Event {
	return Event{
		Title:          in.Title,
		Slug:           in.Slug,
		Description:    in.Description,
		StartDateTime:  in.StartDateTime.UTC(),
		EndDateTime:    in.EndDateTime.UTC(),
		Venue:          in.Venue,
		City:           in.City,
		CoverImage:     in.CoverImage,
		Capacity:       in.Capacity,
		SeatsRemaining: *in.SeatsRemaining,
		Status:         in.Status,
		Featured:       in.Featured,
	}
}

// EventPatch updates an event. Changing capacity moves seatsRemaining by
// the same delta unless seatsRemaining is also supplied.
type EventPatch struct {
	Title          *string      `json:"title"`
	Slug           *string      `json:"slug"`
	Description    *string      `json:"description"`
	StartDateTime  *time.Time   `json:"startDateTime"`
	EndDateTime    *time.Time   `json:"endDateTime"`
	Venue          *string      `json:"venue"`
	City           *string      `json:"city"`
	CoverImage     *string      `json:"coverImage"`
	Capacity       *int         `json:"capacity"`
	SeatsRemaining *int         `json:"seatsRemaining"`
	Status         *EventStatus `json:"status"`
	Featured       *bool        `json:"featured"`
}

func (p *EventPatch) Normalize() {
	trimAll(p.Title, p.Venue, p.City, p.CoverImage)
	if p.Slug != nil {
		*p.Slug = util.NormalizeSlug(*p.Slug)
	}
}

func (p *EventPatch) Validate() error {
	v := validate.New()
	if p.Title != nil {
		v.Required("title", *p.Title)
		v.MaxLen("title", *p.Title, 200)
	}
	if p.Slug != nil {
		v.Slug("slug", *p.Slug)
	}
	if p.CoverImage != nil {
		v.URL("coverImage", *p.CoverImage)
	}
	if p.Capacity != nil {
		v.Min("capacity", *p.Capacity, 0)
	}
	if p.SeatsRemaining != nil {
		v.Min("seatsRemaining", *p.SeatsRemaining, 0)
	}
	if p.Status != nil {
		validate.OneOf(v, "status", *p.Status, EventStatuses...)
	}
	return v.Err()
}

func (p *EventPatch) Apply(e *Event) {
	set(&e.Title, p.Title)
	set(&e.Slug, p.Slug)
	set(&e.Description, p.Description)
	if p.StartDateTime != nil {
		e.StartDateTime = p.StartDateTime.UTC()
	}
	if p.EndDateTime != nil {
		e.EndDateTime = p.EndDateTime.UTC()
	}
	set(&e.Venue, p.Venue)
	set(&e.City, p.City)
	set(&e.CoverImage, p.CoverImage)
	if p.Capacity != nil {
		if p.SeatsRemaining == nil {
			e.SeatsRemaining += *p.Capacity - e.Capacity
		}
		e.Capacity = *p.Capacity
	}
	set(&e.SeatsRemaining, p.SeatsRemaining)
	set(&e.Status, p.Status)
	set(&e.Featured, p.Featured)
}
