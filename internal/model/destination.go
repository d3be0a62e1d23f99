// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"github.com/olegiv/pathway-go/internal/util"
	"github.com/olegiv/pathway-go/internal/validate"
)

// FAQ is a question and answer pair.
type FAQ struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// Destination is a country guide.
type Destination struct {
	DocMeta
	Country        string   `json:"country"`
	Slug           string   `json:"slug"`
	HeroImage      string   `json:"heroImage"`
	Summary        string   `json:"summary"`
	Overview       string   `json:"overview"`
	Costs          string   `json:"costs"`
	Intakes        string   `json:"intakes"`
	Visa           string   `json:"visa"`
	Scholarships   string   `json:"scholarships"`
	PopularCourses []string `json:"popularCourses"`
	FAQs           []FAQ    `json:"faqs"`
	Featured       bool     `json:"featured"`
	Published      bool     `json:"published"`
}

func (d *Destination) GetSlug() string { return d.Slug }

// DestinationInput creates a destination.
type DestinationInput struct {
	Country        string   `json:"country"`
	Slug           string   `json:"slug"`
	HeroImage      string   `json:"heroImage"`
	Summary        string   `json:"summary"`
	Overview       string   `json:"overview"`
	Costs          string   `json:"costs"`
	Intakes        string   `json:"intakes"`
	Visa           string   `json:"visa"`
	Scholarships   string   `json:"scholarships"`
	PopularCourses []string `json:"popularCourses"`
	FAQs           []FAQ    `json:"faqs"`
	Featured       bool     `json:"featured"`
	Published      *bool    `json:"published"`
}

func (in *DestinationInput) Normalize() {
	trimAll(&in.Country, &in.HeroImage, &in.Summary)
	normalizeSlug(&in.Slug, in.Country)
	in.PopularCourses = cleanList(in.PopularCourses)
	in.FAQs = cleanFAQs(in.FAQs)
	if in.Published == nil {
		t := true
		in.Published = &t
	}
}

func (in *DestinationInput) Validate() error {
	v := validate.New()
	v.Required("country", in.Country)
	v.MaxLen("country", in.Country, 120)
	v.Slug("slug", in.Slug)
	v.URL("heroImage", in.HeroImage)
	v.MaxLen("summary", in.Summary, 500)
	validateFAQs(v, in.FAQs)
	return v.Err()
}

func (in *DestinationInput) Build() Destination {
	return Destination{
		Country:        in.Country,
		Slug:           in.Slug,
		HeroImage:      in.HeroImage,
		Summary:        in.Summary,
		Overview:       in.Overview,
		Costs:          in.Costs,
		Intakes:        in.Intakes,
		Visa:           in.Visa,
		Scholarships:   in.Scholarships,
		PopularCourses: in.PopularCourses,
		FAQs:           in.FAQs,
		Featured:       in.Featured,
		Published:      *in.Published,
	}
}

// DestinationPatch updates a destination.
type DestinationPatch struct {
	Country        *string   `json:"country"`
	Slug           *string   `json:"slug"`
	HeroImage      *string   `json:"heroImage"`
	Summary        *string   `json:"summary"`
	Overview       *string   `json:"overview"`
	Costs          *string   `json:"costs"`
	Intakes        *string   `json:"intakes"`
	Visa           *string   `json:"visa"`
	Scholarships   *string   `json:"scholarships"`
	PopularCourses *[]string `json:"popularCourses"`
	FAQs           *[]FAQ    `json:"faqs"`
	Featured       *bool     `json:"featured"`
	Published      *bool     `json:"published"`
}

func (p *DestinationPatch) Normalize() {
	trimAll(p.Country, p.HeroImage, p.Summary)
	if p.Slug != nil {
		*p.Slug = util.NormalizeSlug(*p.Slug)
	}
	cleanListPtr(p.PopularCourses)
	if p.FAQs != nil {
		*p.FAQs = cleanFAQs(*p.FAQs)
	}
}

func (p *DestinationPatch) Validate() error {
	v := validate.New()
	if p.Country != nil {
		v.Required("country", *p.Country)
		v.MaxLen("country", *p.Country, 120)
	}
	if p.Slug != nil {
		v.Slug("slug", *p.Slug)
	}
	if p.HeroImage != nil {
		v.URL("heroImage", *p.HeroImage)
	}
	if p.Summary != nil {
		v.MaxLen("summary", *p.Summary, 500)
	}
	if p.FAQs != nil {
		validateFAQs(v, *p.FAQs)
	}
	return v.Err()
}

func (p *DestinationPatch) Apply(d *Destination) {
	set(&d.Country, p.Country)
	set(&d.Slug, p.Slug)
	set(&d.HeroImage, p.HeroImage)
	set(&d.Summary, p.Summary)
	set(&d.Overview, p.Overview)
	set(&d.Costs, p.Costs)
	set(&d.Intakes, p.Intakes)
	set(&d.Visa, p.Visa)
	set(&d.Scholarships, p.Scholarships)
	set(&d.PopularCourses, p.PopularCourses)
	set(&d.FAQs, p.FAQs)
	set(&d.Featured, p.Featured)
	set(&d.Published, p.Published)
}

func cleanFAQs(in []FAQ) []FAQ {
	out := make([]FAQ, 0, len(in))
	for _, f := range in {
		trimAll(&f.Question, &f.Answer)
		if f.Question == "" && f.Answer == "" {
			continue
		}
		out = append(out, f)
	}
	return out
}

func validateFAQs(v *validate.Validator, faqs []FAQ) {
	for _, f := range faqs {
		if f.Question == "" || f.Answer == "" {
			v.Add("faqs", "every entry needs a question and an answer")
			return
		}
	}
}
