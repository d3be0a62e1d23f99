// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import "github.com/olegiv/pathway-go/internal/validate"

// Small display records shown on the homepage. Each has a derived
// sequential integer id.

// Award is a recognition the consultancy received.
type Award struct {
	SeqMeta
	Title  string `json:"title"`
	Issuer string `json:"issuer"`
	Year   int    `json:"year"`
	Image  string `json:"image"`
}

type AwardInput struct {
	Title  string `json:"title"`
	Issuer string `json:"issuer"`
	Year   int    `json:"year"`
	Image  string `json:"image"`
}

func (in *AwardInput) Normalize() { trimAll(&in.Title, &in.Issuer, &in.Image) }

func (in *AwardInput) Validate() error {
	v := validate.New()
	v.Required("title", in.Title)
	v.MaxLen("title", in.Title, 200)
	if in.Year != 0 {
		v.Range("year", in.Year, 1900, 2100)
	}
	v.URL("image", in.Image)
	return v.Err()
}

func (in *AwardInput) Build() Award {
	return Award{Title: in.Title, Issuer: in.Issuer, Year: in.Year, Image: in.Image}
}

type AwardPatch struct {
	Title  *string `json:"title"`
	Issuer *string `json:"issuer"`
	Year   *int    `json:"year"`
	Image  *string `json:"image"`
}

func (p *AwardPatch) Normalize() { trimAll(p.Title, p.Issuer, p.Image) }

func (p *AwardPatch) Validate() error {
	v := validate.New()
	if p.Title != nil {
		v.Required("title", *p.Title)
		v.MaxLen("title", *p.Title, 200)
	}
	if p.Year != nil && *p.Year != 0 {
		v.Range("year", *p.Year, 1900, 2100)
	}
	if p.Image != nil {
		v.URL("image", *p.Image)
	}
	return v.Err()
}

func (p *AwardPatch) Apply(a *Award) {
	set(&a.Title, p.Title)
	set(&a.Issuer, p.Issuer)
	set(&a.Year, p.Year)
	set(&a.Image, p.Image)
}

// PartnerKind classifies a partner organisation.
type PartnerKind string

const (
	PartnerUniversity  PartnerKind = "university"
	PartnerInstitution PartnerKind = "institution"
	PartnerAgency      PartnerKind = "agency"
)

// PartnerKinds lists every PartnerKind.
var PartnerKinds = []PartnerKind{PartnerUniversity, PartnerInstitution, PartnerAgency}

// Partner is a university or organisation the consultancy represents.
type Partner struct {
	SeqMeta
	Name    string      `json:"name"`
	Logo    string      `json:"logo"`
	Website string      `json:"website"`
	Kind    PartnerKind `json:"kind"`
}

type PartnerInput struct {
	Name    string      `json:"name"`
	Logo    string      `json:"logo"`
	Website string      `json:"website"`
	Kind    PartnerKind `json:"kind"`
}

func (in *PartnerInput) Normalize() {
	trimAll(&in.Name, &in.Logo, &in.Website)
	if in.Kind == "" {
		in.Kind = PartnerUniversity
	}
}

func (in *PartnerInput) Validate() error {
	v := validate.New()
	v.Required("name", in.Name)
	v.MaxLen("name", in.Name, 200)
	v.URL("logo", in.Logo)
	v.URL("website", in.Website)
	validate.OneOf(v, "kind", in.Kind, PartnerKinds...)
	return v.Err()
}

func (in *PartnerInput) Build() Partner {
	return Partner{Name: in.Name, Logo: in.Logo, Website: in.Website, Kind: in.Kind}
}

type PartnerPatch struct {
	Name    *string      `json:"name"`
	Logo    *string      `json:"logo"`
	Website *string      `json:"website"`
	Kind    *PartnerKind `json:"kind"`
}

func (p *PartnerPatch) Normalize() { trimAll(p.Name, p.Logo, p.Website) }

func (p *PartnerPatch) Validate() error {
	v := validate.New()
	if p.Name != nil {
		v.Required("name", *p.Name)
		v.MaxLen("name", *p.Name, 200)
	}
	if p.Logo != nil {
		v.URL("logo", *p.Logo)
	}
	if p.Website != nil {
		v.URL("website", *p.Website)
	}
	if p.Kind != nil {
		validate.OneOf(v, "kind", *p.Kind, PartnerKinds...)
	}
	return v.Err()
}

func (p *PartnerPatch) Apply(x *Partner) {
	set(&x.Name, p.Name)
	set(&x.Logo, p.Logo)
	set(&x.Website, p.Website)
	set(&x.Kind, p.Kind)
}

// Stat is a headline number such as "5000+ students placed".
type Stat struct {
	SeqMeta
	Label  string `json:"label"`
	Value  string `json:"value"`
	Suffix string `json:"suffix"`
	Icon   string `json:"icon"`
	Order  int    `json:"order"`
}

type StatInput struct {
	Label  string `json:"label"`
	Value  string `json:"value"`
	Suffix string `json:"suffix"`
	Icon   string `json:"icon"`
	Order  int    `json:"order"`
}

func (in *StatInput) Normalize() { trimAll(&in.Label, &in.Value, &in.Suffix, &in.Icon) }

func (in *StatInput) Validate() error {
	v := validate.New()
	v.Required("label", in.Label)
	v.Required("value", in.Value)
	v.MaxLen("value", in.Value, 30)
	return v.Err()
}

func (in *StatInput) Build() Stat {
	return Stat{Label: in.Label, Value: in.Value, Suffix: in.Suffix, Icon: in.Icon, Order: in.Order}
}

type StatPatch struct {
	Label  *string `json:"label"`
	Value  *string `json:"value"`
	Suffix *string `json:"suffix"`
	Icon   *string `json:"icon"`
	Order  *int    `json:"order"`
}

func (p *StatPatch) Normalize() { trimAll(p.Label, p.Value, p.Suffix, p.Icon) }

func (p *StatPatch) Validate() error {
	v := validate.New()
	if p.Label != nil {
		v.Required("label", *p.Label)
	}
	if p.Value != nil {
		v.Required("value", *p.Value)
		v.MaxLen("value", *p.Value, 30)
	}
	return v.Err()
}

func (p *StatPatch) Apply(s *Stat) {
	set(&s.Label, p.Label)
	set(&s.Value, p.Value)
	set(&s.Suffix, p.Suffix)
	set(&s.Icon, p.Icon)
	set(&s.Order, p.Order)
}

// WhyChooseUsFeature is a selling point card.
type WhyChooseUsFeature struct {
	SeqMeta
	Title       string `json:"title"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	Order       int    `json:"order"`
}

// StudyAbroadStep is one step of the "how it works" strip.
type StudyAbroadStep struct {
	SeqMeta
	Title       string `json:"title"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	Order       int    `json:"order"`
}

// CardInput creates a WhyChooseUsFeature or a StudyAbroadStep.
type CardInput struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	Order       int    `json:"order"`
}

func (in *CardInput) Normalize() { trimAll(&in.Title, &in.Description, &in.Icon) }

func (in *CardInput) Validate() error {
	v := validate.New()
	v.Required("title", in.Title)
	v.MaxLen("title", in.Title, 200)
	v.MaxLen("description", in.Description, 1000)
	return v.Err()
}

// CardPatch updates a WhyChooseUsFeature or a StudyAbroadStep.
type CardPatch struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Icon        *string `json:"icon"`
	Order       *int    `json:"order"`
}

func (p *CardPatch) Normalize() { trimAll(p.Title, p.Description, p.Icon) }

func (p *CardPatch) Validate() error {
	v := validate.New()
	if p.Title != nil {
		v.Required("title", *p.Title)
		v.MaxLen("title", *p.Title, 200)
	}
	if p.Description != nil {
		v.MaxLen("description", *p.Description, 1000)
	}
	return v.Err()
}

func (p *CardPatch) apply(title, desc, icon *string, order *int) {
	set(title, p.Title)
	set(desc, p.Description)
	set(icon, p.Icon)
	set(order, p.Order)
}

// FeatureInput and StepInput bind CardInput to their entity.
type (
	FeatureInput struct{ CardInput }
	StepInput    struct{ CardInput }
	FeaturePatch struct{ CardPatch }
	StepPatch    struct{ CardPatch }
)

func (in *FeatureInput) Build() WhyChooseUsFeature {
	return WhyChooseUsFeature{Title: in.Title, Description: in.Description, Icon: in.Icon, Order: in.Order}
}

func (in *StepInput) Build() StudyAbroadStep {
	return StudyAbroadStep{Title: in.Title, Description: in.Description, Icon: in.Icon, Order: in.Order}
}

func (p *FeaturePatch) Apply(f *WhyChooseUsFeature) {
	p.apply(&f.Title, &f.Description, &f.Icon, &f.Order)
}

func (p *StepPatch) Apply(s *StudyAbroadStep) {
	p.apply(&s.Title, &s.Description, &s.Icon, &s.Order)
}

// SuccessStory is a placed student's story.
type SuccessStory struct {
	SeqMeta
	StudentName string `json:"studentName"`
	University  string `json:"university"`
	Country     string `json:"country"`
	Program     string `json:"program"`
	Intake      string `json:"intake"`
	Story       string `json:"story"`
	Image       string `json:"image"`
	Featured    bool   `json:"featured"`
}

type SuccessStoryInput struct {
	StudentName string `json:"studentName"`
	University  string `json:"university"`
	Country     string `json:"country"`
	Program     string `json:"program"`
	Intake      string `json:"intake"`
	Story       string `json:"story"`
	Image       string `json:"image"`
	Featured    bool   `json:"featured"`
}

func (in *SuccessStoryInput) Normalize() {
	trimAll(&in.StudentName, &in.University, &in.Country, &in.Program, &in.Intake, &in.Image)
}

func (in *SuccessStoryInput) Validate() error {
	v := validate.New()
	v.Required("studentName", in.StudentName)
	v.MaxLen("studentName", in.StudentName, 120)
	v.Required("story", in.Story)
	v.URL("image", in.Image)
	return v.Err()
}

func (in *SuccessStoryInput) Build() SuccessStory {
	return SuccessStory{
		StudentName: in.StudentName,
		University:  in.University,
		Country:     in.Country,
		Program:     in.Program,
		Intake:      in.Intake,
		Story:       in.Story,
		Image:       in.Image,
		Featured:    in.Featured,
	}
}

type SuccessStoryPatch struct {
	StudentName *string `json:"studentName"`
	University  *string `json:"university"`
	Country     *string `json:"country"`
	Program     *string `json:"program"`
	Intake      *string `json:"intake"`
	Story       *string `json:"story"`
	Image       *string `json:"image"`
	Featured    *bool   `json:"featured"`
}

func (p *SuccessStoryPatch) Normalize() {
	trimAll(p.StudentName, p.University, p.Country, p.Program, p.Intake, p.Image)
}

func (p *SuccessStoryPatch) Validate() error {
	v := validate.New()
	if p.StudentName != nil {
		v.Required("studentName", *p.StudentName)
		v.MaxLen("studentName", *p.StudentName, 120)
	}
	if p.Story != nil {
		v.Required("story", *p.Story)
	}
	if p.Image != nil {
		v.URL("image", *p.Image)
	}
	return v.Err()
}

func (p *SuccessStoryPatch) Apply(s *SuccessStory) {
	set(&s.StudentName, p.StudentName)
	set(&s.University, p.University)
	set(&s.Country, p.Country)
	set(&s.Program, p.Program)
	set(&s.Intake, p.Intake)
	set(&s.Story, p.Story)
	set(&s.Image, p.Image)
	set(&s.Featured, p.Featured)
}
