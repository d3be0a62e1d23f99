// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"github.com/olegiv/pathway-go/internal/util"
	"github.com/olegiv/pathway-go/internal/validate"
)

// Scholarship is a funding opportunity.
type Scholarship struct {
	DocMeta
	Title       string        `json:"title"`
	Slug        string        `json:"slug"`
	Provider    string        `json:"provider"`
	Amount      string        `json:"amount"`
	Description string        `json:"description"`
	Eligibility string        `json:"eligibility"`
	Benefits    string        `json:"benefits"`
	Deadline    string        `json:"deadline,omitempty"`
	Countries   []string      `json:"countries"`
	Tags        []string      `json:"tags"`
	Status      PublishStatus `json:"status"`
	Featured    bool          `json:"featured"`
}

func (s *Scholarship) GetSlug() string { return s.Slug }

// ScholarshipInput creates a scholarship.
type ScholarshipInput struct {
	Title       string        `json:"title"`
	Slug        string        `json:"slug"`
	Provider    string        `json:"provider"`
	Amount      string        `json:"amount"`
	Description string        `json:"description"`
	Eligibility string        `json:"eligibility"`
	Benefits    string        `json:"benefits"`
	Deadline    string        `json:"deadline"`
	Countries   []string      `json:"countries"`
	Tags        []string      `json:"tags"`
	Status      PublishStatus `json:"status"`
	Featured    bool          `json:"featured"`
}

func (in *ScholarshipInput) Normalize() {
	trimAll(&in.Title, &in.Provider, &in.Amount, &in.Deadline)
	normalizeSlug(&in.Slug, in.Title)
	in.Countries = cleanList(in.Countries)
	in.Tags = cleanList(in.Tags)
	if in.Status == "" {
		in.Status = StatusDraft
	}
}

func (in *ScholarshipInput) Validate() error {
	v := validate.New()
	v.Required("title", in.Title)
	v.MaxLen("title", in.Title, 200)
	v.Slug("slug", in.Slug)
	v.Date("deadline", in.Deadline)
	validate.OneOf(v, "status", in.Status, PublishStatuses...)
	return v.Err()
}

func (in *ScholarshipInput) Build() Scholarship {
	return Scholarship{
		Title:       in.Title,
		Slug:        in.Slug,
		Provider:    in.Provider,
		Amount:      in.Amount,
		Description: in.Description,
		Eligibility: in.Eligibility,
		Benefits:    in.Benefits,
		Deadline:    in.Deadline,
		Countries:   in.Countries,
		Tags:        in.Tags,
		Status:      in.Status,
		Featured:    in.Featured,
	}
}

// ScholarshipPatch updates a scholarship.
type ScholarshipPatch struct {
	Title       *string        `json:"title"`
	Slug        *string        `json:"slug"`
	Provider    *string        `json:"provider"`
	Amount      *string        `json:"amount"`
	Description *string        `json:"description"`
	Eligibility *string        `json:"eligibility"`
	Benefits    *string        `json:"benefits"`
	Deadline    *string        `json:"deadline"`
	Countries   *[]string      `json:"countries"`
	Tags        *[]string      `json:"tags"`
	Status      *PublishStatus `json:"status"`
	Featured    *bool          `json:"featured"`
}

func (p *ScholarshipPatch) Normalize() {
	trimAll(p.Title, p.Provider, p.Amount, p.Deadline)
	if p.Slug != nil {
		*p.Slug = util.NormalizeSlug(*p.Slug)
	}
	cleanListPtr(p.Countries)
	cleanListPtr(p.Tags)
}

func (p *ScholarshipPatch) Validate() error {
	v := validate.New()
	if p.Title != nil {
		v.Required("title", *p.Title)
		v.MaxLen("title", *p.Title, 200)
	}
	if p.Slug != nil {
		v.Slug("slug", *p.Slug)
	}
	if p.Deadline != nil {
		v.Date("deadline", *p.Deadline)
	}
	if p.Status != nil {
		validate.OneOf(v, "status", *p.Status, PublishStatuses...)
	}
	return v.Err()
}

func (p *ScholarshipPatch) Apply(s *Scholarship) {
	set(&s.Title, p.Title)
	set(&s.Slug, p.Slug)
	set(&s.Provider, p.Provider)
	set(&s.Amount, p.Amount)
	set(&s.Description, p.Description)
	set(&s.Eligibility, p.Eligibility)
	set(&s.Benefits, p.Benefits)
	set(&s.Deadline, p.Deadline)
	set(&s.Countries, p.Countries)
	set(&s.Tags, p.Tags)
	set(&s.Status, p.Status)
	set(&s.Featured, p.Featured)
}
