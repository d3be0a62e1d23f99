// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"time"

	"github.com/olegiv/pathway-go/internal/validate"
)

// LeadStatus tracks a lead through the sales pipeline.
type LeadStatus string

const (
	LeadNew       LeadStatus = "new"
	LeadContacted LeadStatus = "contacted"
	LeadQualified LeadStatus = "qualified"
	LeadConverted LeadStatus = "converted"
	LeadClosed    LeadStatus = "closed"
)

// LeadStatuses lists every LeadStatus.
var LeadStatuses = []LeadStatus{LeadNew, LeadContacted, LeadQualified, LeadConverted, LeadClosed}

// LeadPurpose is why the visitor got in touch.
type LeadPurpose string

const (
	PurposeEnquiry      LeadPurpose = "enquiry"
	PurposeConsultation LeadPurpose = "consultation"
	PurposeCallback     LeadPurpose = "callback"
	PurposeApplication  LeadPurpose = "application"
	PurposeOther        LeadPurpose = "other"
)

// LeadPurposes lists every LeadPurpose.
var LeadPurposes = []LeadPurpose{PurposeEnquiry, PurposeConsultation, PurposeCallback, PurposeApplication, PurposeOther}

// Lead is an enquiry captured from the public site.
type Lead struct {
	ID              string      `json:"id"`
	Name            string      `json:"name"`
	Email           string      `json:"email"`
	Phone           string      `json:"phone"`
	CountryInterest []string    `json:"countryInterest"`
	ServiceInterest []string    `json:"serviceInterest"`
	Message         string      `json:"message"`
	Purpose         LeadPurpose `json:"purpose"`
	Status          LeadStatus  `json:"status"`
	Notes           string      `json:"notes"`
	Source          string      `json:"source"`
	UTMSource       string      `json:"utmSource"`
	UTMMedium       string      `json:"utmMedium"`
	UTMCampaign     string      `json:"utmCampaign"`
	Referrer        string      `json:"referrer"`
	GeoCountry      string      `json:"geoCountry"`
	Device          string      `json:"device"`
	Browser         string      `json:"browser"`
	CreatedAt       time.Time   `json:"createdAt"`
	UpdatedAt       time.Time   `json:"updatedAt"`
}

// LeadInput is the public enquiry form payload.
type LeadInput struct {
	Name            string      `json:"name"`
	Email           string      `json:"email"`
	Phone           string      `json:"phone"`
	CountryInterest []string    `json:"countryInterest"`
	ServiceInterest []string    `json:"serviceInterest"`
	Message         string      `json:"message"`
	Purpose         LeadPurpose `json:"purpose"`
	Source          string      `json:"source"`
	UTMSource       string      `json:"utmSource"`
	UTMMedium       string      `json:"utmMedium"`
	UTMCampaign     string      `json:"utmCampaign"`
	Referrer        string      `json:"referrer"`
}

func (in *LeadInput) Normalize() {
	trimAll(&in.Name, &in.Phone, &in.Message, &in.Source, &in.UTMSource, &in.UTMMedium, &in.UTMCampaign, &in.Referrer)
	lower(&in.Email)
	in.CountryInterest = cleanList(in.CountryInterest)
	in.ServiceInterest = cleanList(in.ServiceInterest)
	if in.Purpose == "" {
		in.Purpose = PurposeEnquiry
	}
	if in.Source == "" {
		in.Source = "website"
	}
}

func (in *LeadInput) Validate() error {
	v := validate.New()
	v.MaxLen("name", in.Name, 120)
	v.Email("email", in.Email)
	v.Phone("phone", in.Phone)
	v.MaxLen("message", in.Message, 5000)
	v.Check(len(in.CountryInterest) <= 20, "countryInterest", "must have at most 20 entries")
	v.Check(len(in.ServiceInterest) <= 20, "serviceInterest", "must have at most 20 entries")
	validate.OneOf(v, "purpose", in.Purpose, LeadPurposes...)
	for _, f := range []struct{ name, value string }{
		{"source", in.Source}, {"utmSource", in.UTMSource}, {"utmMedium", in.UTMMedium},
		{"utmCampaign", in.UTMCampaign}, {"referrer", in.Referrer},
	} {
		v.MaxLen(f.name, f.value, 500)
	}
	return v.Err()
}

func (in *LeadInput) Build() Lead {
	return Lead{
		Name:            in.Name,
		Email:           in.Email,
		Phone:           in.Phone,
		CountryInterest: in.CountryInterest,
		ServiceInterest: in.ServiceInterest,
		Message:         in.Message,
		Purpose:         in.Purpose,
		Status:          LeadNew,
		Source:          in.Source,
		UTMSource:       in.UTMSource,
		UTMMedium:       in.UTMMedium,
		UTMCampaign:     in.UTMCampaign,
		Referrer:        in.Referrer,
	}
}

// LeadPatch is the admin update payload.
type LeadPatch struct {
	Name            *string      `json:"name"`
	Email           *string      `json:"email"`
	Phone           *string      `json:"phone"`
	CountryInterest *[]string    `json:"countryInterest"`
	ServiceInterest *[]string    `json:"serviceInterest"`
	Message         *string      `json:"message"`
	Purpose         *LeadPurpose `json:"purpose"`
	Status          *LeadStatus  `json:"status"`
	Notes           *string      `json:"notes"`
}

func (p *LeadPatch) Normalize() {
	trimAll(p.Name, p.Phone, p.Message, p.Notes)
	lower(p.Email)
	cleanListPtr(p.CountryInterest)
	cleanListPtr(p.ServiceInterest)
}

func (p *LeadPatch) Validate() error {
	v := validate.New()
	if p.Name != nil {
		v.MaxLen("name", *p.Name, 120)
	}
	if p.Email != nil {
		v.Email("email", *p.Email)
	}
	if p.Phone != nil {
		v.Phone("phone", *p.Phone)
	}
	if p.Message != nil {
		v.MaxLen("message", *p.Message, 5000)
	}
	if p.Notes != nil {
		v.MaxLen("notes", *p.Notes, 5000)
	}
	if p.Purpose != nil {
		validate.OneOf(v, "purpose", *p.Purpose, LeadPurposes...)
	}
	if p.Status != nil {
		validate.OneOf(v, "status", *p.Status, LeadStatuses...)
	}
	return v.Err()
}

func (p *LeadPatch) Apply(l *Lead) {
	set(&l.Name, p.Name)
	set(&l.Email, p.Email)
	set(&l.Phone, p.Phone)
	set(&l.CountryInterest, p.CountryInterest)
	set(&l.ServiceInterest, p.ServiceInterest)
	set(&l.Message, p.Message)
	set(&l.Purpose, p.Purpose)
	set(&l.Status, p.Status)
	set(&l.Notes, p.Notes)
}
