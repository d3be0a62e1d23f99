// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import "github.com/olegiv/pathway-go/internal/validate"

// TeamMember is a counsellor shown on the team page.
type TeamMember struct {
	DocMeta
	Name      string   `json:"name"`
	Role      string   `json:"role"`
	Image     string   `json:"image"`
	Bio       string   `json:"bio"`
	Expertise []string `json:"expertise"`
	Email     string   `json:"email"`
	Phone     string   `json:"phone"`
	Active    bool     `json:"active"`
	Order     int      `json:"order"`
}

// TeamMemberInput creates a team member.
type TeamMemberInput struct {
	Name      string   `json:"name"`
	Role      string   `json:"role"`
	Image     string   `json:"image"`
	Bio       string   `json:"bio"`
	Expertise []string `json:"expertise"`
	Email     string   `json:"email"`
	Phone     string   `json:"phone"`
	Active    *bool    `json:"active"`
	Order     int      `json:"order"`
}

func (in *TeamMemberInput) Normalize() {
	trimAll(&in.Name, &in.Role, &in.Image, &in.Bio, &in.Phone)
	lower(&in.Email)
	in.Expertise = cleanList(in.Expertise)
	if in.Active == nil {
		t := true
		in.Active = &t
	}
}

func (in *TeamMemberInput) Validate() error {
	v := validate.New()
	v.Required("name", in.Name)
	v.MaxLen("name", in.Name, 120)
	v.Required("role", in.Role)
	v.URL("image", in.Image)
	v.NonEmpty("expertise", in.Expertise)
	v.Email("email", in.Email)
	v.OptionalPhone("phone", in.Phone)
	return v.Err()
}

func (in *TeamMemberInput) Build() TeamMember {
	return TeamMember{
		Name:      in.Name,
		Role:      in.Role,
		Image:     in.Image,
		Bio:       in.Bio,
		Expertise: in.Expertise,
		Email:     in.Email,
		Phone:     in.Phone,
		Active:    *in.Active,
		Order:     in.Order,
	}
}

// TeamMemberPatch updates a team member.
type TeamMemberPatch struct {
	Name      *string   `json:"name"`
	Role      *string   `json:"role"`
	Image     *string   `json:"image"`
	Bio       *string   `json:"bio"`
	Expertise *[]string `json:"expertise"`
	Email     *string   `json:"email"`
	Phone     *string   `json:"phone"`
	Active    *bool     `json:"active"`
	Order     *int      `json:"order"`
}

func (p *TeamMemberPatch) Normalize() {
	trimAll(p.Name, p.Role, p.Image, p.Bio, p.Phone)
	lower(p.Email)
	cleanListPtr(p.Expertise)
}

func (p *TeamMemberPatch) Validate() error {
	v := validate.New()
	if p.Name != nil {
		v.Required("name", *p.Name)
		v.MaxLen("name", *p.Name, 120)
	}
	if p.Role != nil {
		v.Required("role", *p.Role)
	}
	if p.Image != nil {
		v.URL("image", *p.Image)
	}
	if p.Expertise != nil {
		v.NonEmpty("expertise", *p.Expertise)
	}
	if p.Email != nil {
		v.Email("email", *p.Email)
	}
	if p.Phone != nil {
		v.OptionalPhone("phone", *p.Phone)
	}
	return v.Err()
}

func (p *TeamMemberPatch) Apply(m *TeamMember) {
	set(&m.Name, p.Name)
	set(&m.Role, p.Role)
	set(&m.Image, p.Image)
	set(&m.Bio, p.Bio)
	set(&m.Expertise, p.Expertise)
	set(&m.Email, p.Email)
	set(&m.Phone, p.Phone)
	set(&m.Active, p.Active)
	set(&m.Order, p.Order)
}
