// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"time"

	"github.com/olegiv/pathway-go/internal/validate"
)

// MeetingStatus is the lifecycle of a meeting request.
type MeetingStatus string

const (
	MeetingPending   MeetingStatus = "PENDING"
	MeetingConfirmed MeetingStatus = "CONFIRMED"
	MeetingCompleted MeetingStatus = "COMPLETED"
	MeetingCancelled MeetingStatus = "CANCELLED"
)

// MeetingStatuses lists every MeetingStatus.
var MeetingStatuses = []MeetingStatus{MeetingPending, MeetingConfirmed, MeetingCompleted, MeetingCancelled}

// Urgency is how soon the visitor wants to talk.
type Urgency string

const (
	UrgencyLow    Urgency = "LOW"
	UrgencyMedium Urgency = "MEDIUM"
	UrgencyHigh   Urgency = "HIGH"
)

// Urgencies lists every Urgency.
var Urgencies = []Urgency{UrgencyLow, UrgencyMedium, UrgencyHigh}

// MeetingRequest is a visitor asking for a consultation slot.
type MeetingRequest struct {
	ID                string        `json:"id"`
	FullName          string        `json:"fullName"`
	Phone             string        `json:"phone"`
	Email             string        `json:"email,omitempty"`
	ScheduledDateTime time.Time     `json:"scheduledDateTime"`
	Urgency           Urgency       `json:"urgency"`
	Status            MeetingStatus `json:"status"`
	Message           string        `json:"message"`
	Notes             string        `json:"notes"`
	CreatedAt         time.Time     `json:"createdAt"`
	UpdatedAt         time.Time     `json:"updatedAt"`
}

// MeetingInput is the public scheduling payload.
type MeetingInput struct {
	FullName          string    `json:"fullName"`
	Phone             string    `json:"phone"`
	Email             string    `json:"email"`
	ScheduledDateTime time.Time `json:"scheduledDateTime"`
	Urgency           Urgency   `json:"urgency"`
	Message           string    `json:"message"`
}

func (in *MeetingInput) Normalize() {
	trimAll(&in.FullName, &in.Phone, &in.Message)
	lower(&in.Email)
	if in.Urgency == "" {
		in.Urgency = UrgencyMedium
	}
}

// Validate checks the payload against the current time.
func (in *MeetingInput) Validate() error {
	return in.ValidateAt(time.Now())
}

// ValidateAt checks the payload, requiring the slot to be after now.
func (in *MeetingInput) ValidateAt(now time.Time) error {
	v := validate.New()
	v.Required("fullName", in.FullName)
	v.MaxLen("fullName", in.FullName, 120)
	v.Phone("phone", in.Phone)
	v.Email("email", in.Email)
	v.Future("scheduledDateTime", in.ScheduledDateTime, now)
	validate.OneOf(v, "urgency", in.Urgency, Urgencies...)
	v.MaxLen("message", in.Message, 5000)
	return v.Err()
}

func (in *MeetingInput) Build() MeetingRequest {
	return MeetingRequest{
		FullName:          in.FullName,
		Phone:             in.Phone,
		Email:             in.Email,
		ScheduledDateTime: in.ScheduledDateTime.UTC(),
		Urgency:           in.Urgency,
		Status:            MeetingPending,
		Message:           in.Message,
	}
}

// MeetingPatch updates a meeting request.
type MeetingPatch struct {
	FullName          *string        `json:"fullName"`
	Phone             *string        `json:"phone"`
	Email             *string        `json:"email"`
	ScheduledDateTime *time.Time     `json:"scheduledDateTime"`
	Urgency           *Urgency       `json:"urgency"`
	Status            *MeetingStatus `json:"status"`
	Message           *string        `json:"message"`
	Notes             *string        `json:"notes"`
}

func (p *MeetingPatch) Normalize() {
	trimAll(p.FullName, p.Phone, p.Message, p.Notes)
	lower(p.Email)
}

// Validate checks present fields against the current time.
func (p *MeetingPatch) Validate() error {
	return p.ValidateAt(time.Now())
}

// ValidateAt checks present fields; a new slot must be after now.
func (p *MeetingPatch) ValidateAt(now time.Time) error {
	v := validate.New()
	if p.FullName != nil {
		v.Required("fullName", *p.FullName)
		v.MaxLen("fullName", *p.FullName, 120)
	}
	if p.Phone != nil {
		v.Phone("phone", *p.Phone)
	}
	if p.Email != nil {
		v.Email("email", *p.Email)
	}
	if p.ScheduledDateTime != nil {
		v.Future("scheduledDateTime", *p.ScheduledDateTime, now)
	}
	if p.Urgency != nil {
		validate.OneOf(v, "urgency", *p.Urgency, Urgencies...)
	}
	if p.Status != nil {
		validate.OneOf(v, "status", *p.Status, MeetingStatuses...)
	}
	if p.Message != nil {
		v.MaxLen("message", *p.Message, 5000)
	}
	if p.Notes != nil {
		v.MaxLen("notes", *p.Notes, 5000)
	}
	return v.Err()
}

func (p *MeetingPatch) Apply(m *MeetingRequest) {
	set(&m.FullName, p.FullName)
	set(&m.Phone, p.Phone)
	set(&m.Email, p.Email)
	if p.ScheduledDateTime != nil {
		m.ScheduledDateTime = p.ScheduledDateTime.UTC()
	}
	set(&m.Urgency, p.Urgency)
	set(&m.Status, p.Status)
	set(&m.Message, p.Message)
	set(&m.Notes, p.Notes)
}
