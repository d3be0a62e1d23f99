// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"github.com/olegiv/pathway-go/internal/util"
	"github.com/olegiv/pathway-go/internal/validate"
)

// Feature is an icon, a title and a short description.
type Feature struct {
	Icon        string `json:"icon"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// ProcessStep is one numbered step of a service process.
type ProcessStep struct {
	Step        int    `json:"step"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Service is a consultancy offering.
type Service struct {
	DocMeta
	Name        string        `json:"name"`
	Slug        string        `json:"slug"`
	Title       string        `json:"title"`
	Subtitle    string        `json:"subtitle"`
	Description string        `json:"description"`
	Icon        string        `json:"icon"`
	Features    []Feature     `json:"features"`
	Benefits    []string      `json:"benefits"`
	Process     []ProcessStep `json:"process"`
	CTALabel    string        `json:"ctaLabel"`
	CTAText     string        `json:"ctaText"`
	Featured    bool          `json:"featured"`
	Published   bool          `json:"published"`
}

func (s *Service) GetSlug() string { return s.Slug }

// ServiceInput creates a service.
type ServiceInput struct {
	Name        string        `json:"name"`
	Slug        string        `json:"slug"`
	Title       string        `json:"title"`
	Subtitle    string        `json:"subtitle"`
	Description string        `json:"description"`
	Icon        string        `json:"icon"`
	Features    []Feature     `json:"features"`
	Benefits    []string      `json:"benefits"`
	Process     []ProcessStep `json:"process"`
	CTALabel    string        `json:"ctaLabel"`
	CTAText     string        `json:"ctaText"`
	Featured    bool          `json:"featured"`
	Published   *bool         `json:"published"`
}

func (in *ServiceInput) Normalize() {
	trimAll(&in.Name, &in.Title, &in.Subtitle, &in.Icon, &in.CTALabel, &in.CTAText)
	normalizeSlug(&in.Slug, in.Name)
	if in.Title == "" {
		in.Title = in.Name
	}
	in.Benefits = cleanList(in.Benefits)
	in.Process = numberSteps(in.Process)
	if in.Published == nil {
		t := true
		in.Published = &t
	}
}

func (in *ServiceInput) Validate() error {
	v := validate.New()
	v.Required("name", in.Name)
	v.MaxLen("name", in.Name, 120)
	v.Slug("slug", in.Slug)
	v.MaxLen("title", in.Title, 200)
	v.MaxLen("subtitle", in.Subtitle, 300)
	validateFeatures(v, "features", in.Features)
	validateSteps(v, in.Process)
	return v.Err()
}

func (in *ServiceInput) Build() Service {
	return Service{
		Name:        in.Name,
		Slug:        in.Slug,
		Title:       in.Title,
		Subtitle:    in.Subtitle,
		Description: in.Description,
		Icon:        in.Icon,
		Features:    in.Features,
		Benefits:    in.Benefits,
		Process:     in.Process,
		CTALabel:    in.CTALabel,
		CTAText:     in.CTAText,
		Featured:    in.Featured,
		Published:   *in.Published,
	}
}

// ServicePatch updates a service.
type ServicePatch struct {
	Name        *string        `json:"name"`
	Slug        *string        `json:"slug"`
	Title       *string        `json:"title"`
	Subtitle    *string        `json:"subtitle"`
	Description *string        `json:"description"`
	Icon        *string        `json:"icon"`
	Features    *[]Feature     `json:"features"`
	Benefits    *[]string      `json:"benefits"`
	Process     *[]ProcessStep `json:"process"`
	CTALabel    *string        `json:"ctaLabel"`
	CTAText     *string        `json:"ctaText"`
	Featured    *bool          `json:"featured"`
	Published   *bool          `json:"published"`
}

func (p *ServicePatch) Normalize() {
	trimAll(p.Name, p.Title, p.Subtitle, p.Icon, p.CTALabel, p.CTAText)
	if p.Slug != nil {
		*p.Slug = util.NormalizeSlug(*p.Slug)
	}
	cleanListPtr(p.Benefits)
	if p.Process != nil {
		*p.Process = numberSteps(*p.Process)
	}
}

func (p *ServicePatch) Validate() error {
	v := validate.New()
	if p.Name != nil {
		v.Required("name", *p.Name)
		v.MaxLen("name", *p.Name, 120)
	}
	if p.Slug != nil {
		v.Slug("slug", *p.Slug)
	}
	if p.Title != nil {
		v.MaxLen("title", *p.Title, 200)
	}
	if p.Subtitle != nil {
		v.MaxLen("subtitle", *p.Subtitle, 300)
	}
	if p.Features != nil {
		validateFeatures(v, "features", *p.Features)
	}
	if p.Process != nil {
		validateSteps(v, *p.Process)
	}
	return v.Err()
}

func (p *ServicePatch) Apply(s *Service) {
	set(&s.Name, p.Name)
	set(&s.Slug, p.Slug)
	set(&s.Title, p.Title)
	set(&s.Subtitle, p.Subtitle)
	set(&s.Description, p.Description)
	set(&s.Icon, p.Icon)
	set(&s.Features, p.Features)
	set(&s.Benefits, p.Benefits)
	set(&s.Process, p.Process)
	set(&s.CTALabel, p.CTALabel)
	set(&s.CTAText, p.CTAText)
	set(&s.Featured, p.Featured)
	set(&s.Published, p.Published)
}

func validateFeatures(v *validate.Validator, field string, fs []Feature) {
	for _, f := range fs {
		if f.Title == "" {
			v.Add(field, "every entry needs a title")
			return
		}
	}
}

func validateSteps(v *validate.Validator, steps []ProcessStep) {
	for _, s := range steps {
		if s.Title == "" {
			v.Add("process", "every step needs a title")
			return
		}
	}
}

// numberSteps fills missing step numbers from list position.
func numberSteps(steps []ProcessStep) []ProcessStep {
	for i := range steps {
		trimAll(&steps[i].Title, &steps[i].Description)
		if steps[i].Step <= 0 {
			steps[i].Step = i + 1
		}
	}
	return steps
}
