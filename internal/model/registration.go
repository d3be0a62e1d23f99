// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"strings"
	"time"

	"github.com/olegiv/pathway-go/internal/validate"
)

// RegistrationStatus is the state of an event registration.
type RegistrationStatus string

const (
	RegistrationPending   RegistrationStatus = "pending"
	RegistrationConfirmed RegistrationStatus = "confirmed"
	RegistrationCancelled RegistrationStatus = "cancelled"
	RegistrationAttended  RegistrationStatus = "attended"
	RegistrationNoShow    RegistrationStatus = "no-show"
)

// RegistrationStatuses lists every RegistrationStatus.
var RegistrationStatuses = []RegistrationStatus{
	RegistrationPending, RegistrationConfirmed, RegistrationCancelled, RegistrationAttended, RegistrationNoShow,
}

// HoldsSeat reports whether a registration in status s reserves a seat.
func (s RegistrationStatus) HoldsSeat() bool {
	return s == RegistrationPending || s == RegistrationConfirmed
}

// PaymentStatus is the state of a registration fee.
type PaymentStatus string

const (
	PaymentUnpaid   PaymentStatus = "unpaid"
	PaymentPaid     PaymentStatus = "paid"
	PaymentRefunded PaymentStatus = "refunded"
	PaymentWaived   PaymentStatus = "waived"
)

// PaymentStatuses lists every PaymentStatus.
var PaymentStatuses = []PaymentStatus{PaymentUnpaid, PaymentPaid, PaymentRefunded, PaymentWaived}

// Payment is the fee attached to a registration.
type Payment struct {
	Required  bool          `json:"required"`
	Amount    int64         `json:"amount"`
	Currency  string        `json:"currency"`
	Status    PaymentStatus `json:"status"`
	Reference string        `json:"reference,omitempty"`
}

func (p *Payment) normalize() {
	p.Currency = strings.ToUpper(strings.TrimSpace(p.Currency))
	p.Reference = strings.TrimSpace(p.Reference)
	if p.Status == "" {
		if p.Required {
			p.Status = PaymentUnpaid
		} else {
			p.Status = PaymentWaived
		}
	}
}

func (p *Payment) validate(v *validate.Validator) {
	v.Check(p.Amount >= 0, "payment.amount", "must not be negative")
	if p.Required {
		v.Check(len(p.Currency) == 3, "payment.currency", "must be a 3-letter ISO currency code")
	}
	validate.OneOf(v, "payment.status", p.Status, PaymentStatuses...)
}

// EventRegistration is an attendee's place at an event.
type EventRegistration struct {
	ID                string             `json:"id"`
	EventID           string             `json:"eventId"`
	FullName          string             `json:"fullName"`
	Email             string             `json:"email"`
	Phone             string             `json:"phone"`
	StudyLevel        string             `json:"studyLevel"`
	InterestedCountry string             `json:"interestedCountry"`
	Status            RegistrationStatus `json:"status"`
	Payment           Payment            `json:"payment"`
	CreatedAt         time.Time          `json:"createdAt"`
	UpdatedAt         time.Time          `json:"updatedAt"`
}

// RegistrationInput registers an attendee. EventID comes from the route.
type RegistrationInput struct {
	EventID           string             `json:"eventId"`
	FullName          string             `json:"fullName"`
	Email             string             `json:"email"`
	Phone             string             `json:"phone"`
	StudyLevel        string             `json:"studyLevel"`
	InterestedCountry string             `json:"interestedCountry"`
	Status            RegistrationStatus `json:"status"`
	Payment           Payment            `json:"payment"`
}

func (in *RegistrationInput) Normalize() {
	trimAll(&in.EventID, &in.FullName, &in.Phone, &in.StudyLevel, &in.InterestedCountry)
	lower(&in.Email)
	if in.Status == "" {
		in.Status = RegistrationPending
	}
	in.Payment.normalize()
}

func (in *RegistrationInput) Validate() error {
	v := validate.New()
	v.Required("eventId", in.EventID)
	v.Required("fullName", in.FullName)
	v.MaxLen("fullName", in.FullName, 120)
	v.Required("email", in.Email)
	v.Email("email", in.Email)
	v.OptionalPhone("phone", in.Phone)
	validate.OneOf(v, "status", in.Status, RegistrationStatuses...)
	in.Payment.validate(v)
	return v.Err()
}

func (in *RegistrationInput) Build() EventRegistration {
	return EventRegistration{
		EventID:           in.EventID,
		FullName:          in.FullName,
		Email:             in.Email,
		Phone:             in.Phone,
		StudyLevel:        in.StudyLevel,
		InterestedCountry: in.InterestedCountry,
		Status:            in.Status,
		Payment:           in.Payment,
	}
}

// RegistrationPatch updates a registration. Seat accounting for status
// changes happens in the repository.
type RegistrationPatch struct {
	FullName          *string             `json:"fullName"`
	Email             *string             `json:"email"`
	Phone             *string             `json:"phone"`
	StudyLevel        *string             `json:"studyLevel"`
	InterestedCountry *string             `json:"interestedCountry"`
	Status            *RegistrationStatus `json:"status"`
	Payment           *Payment            `json:"payment"`
}

func (p *RegistrationPatch) Normalize() {
	trimAll(p.FullName, p.Phone, p.StudyLevel, p.InterestedCountry)
	lower(p.Email)
	if p.Payment != nil {
		p.Payment.normalize()
	}
}

func (p *RegistrationPatch) Validate() error {
	v := validate.New()
	if p.FullName != nil {
		v.Required("fullName", *p.FullName)
		v.MaxLen("fullName", *p.FullName, 120)
	}
	if p.Email != nil {
		v.Required("email", *p.Email)
		v.Email("email", *p.Email)
	}
	if p.Phone != nil {
		v.OptionalPhone("phone", *p.Phone)
	}
	if p.Status != nil {
		validate.OneOf(v, "status", *p.Status, RegistrationStatuses...)
	}
	if p.Payment != nil {
		p.Payment.validate(v)
	}
	return v.Err()
}

func (p *RegistrationPatch) Apply(r *EventRegistration) {
	set(&r.FullName, p.FullName)
	set(&r.Email, p.Email)
	set(&r.Phone, p.Phone)
	set(&r.StudyLevel, p.StudyLevel)
	set(&r.InterestedCountry, p.InterestedCountry)
	set(&r.Status, p.Status)
	set(&r.Payment, p.Payment)
}
