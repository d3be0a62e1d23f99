// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"time"

	"github.com/olegiv/pathway-go/internal/validate"
)

// Office is a branch location. City is unique.
type Office struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	City         string    `json:"city"`
	Address      string    `json:"address"`
	Phone        string    `json:"phone"`
	Email        string    `json:"email"`
	MapURL       string    `json:"mapUrl"`
	Headquarters bool      `json:"headquarters"`
	Order        int       `json:"order"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// OfficeInput creates an office.
type OfficeInput struct {
	Name         string `json:"name"`
	City         string `json:"city"`
	Address      string `json:"address"`
	Phone        string `json:"phone"`
	Email        string `json:"email"`
	MapURL       string `json:"mapUrl"`
	Headquarters bool   `json:"headquarters"`
	Order        int    `json:"order"`
}

func (in *OfficeInput) Normalize() {
	trimAll(&in.Name, &in.City, &in.Address, &in.Phone, &in.MapURL)
	lower(&in.Email)
	if in.Name == "" {
		in.Name = in.City
	}
}

func (in *OfficeInput) Validate() error {
	v := validate.New()
	v.Required("city", in.City)
	v.MaxLen("city", in.City, 120)
	v.MaxLen("name", in.Name, 120)
	v.OptionalPhone("phone", in.Phone)
	v.Email("email", in.Email)
	v.URL("mapUrl", in.MapURL)
	return v.Err()
}

func (in *OfficeInput) Build() Office {
	return Office{
		Name:         in.Name,
		City:         in.City,
		Address:      in.Address,
		Phone:        in.Phone,
		Email:        in.Email,
		MapURL:       in.MapURL,
		Headquarters: in.Headquarters,
		Order:        in.Order,
	}
}

// OfficePatch updates an office.
type OfficePatch struct {
	Name         *string `json:"name"`
	City         *string `json:"city"`
	Address      *string `json:"address"`
	Phone        *string `json:"phone"`
	Email        *string `json:"email"`
	MapURL       *string `json:"mapUrl"`
	Headquarters *bool   `json:"headquarters"`
	Order        *int    `json:"order"`
}

func (p *OfficePatch) Normalize() {
	trimAll(p.Name, p.City, p.Address, p.Phone, p.MapURL)
	lower(p.Email)
}

func (p *OfficePatch) Validate() error {
	v := validate.New()
	if p.City != nil {
		v.Required("city", *p.City)
		v.MaxLen("city", *p.City, 120)
	}
	if p.Name != nil {
		v.Required("name", *p.Name)
	}
	if p.Phone != nil {
		v.OptionalPhone("phone", *p.Phone)
	}
	if p.Email != nil {
		v.Email("email", *p.Email)
	}
	if p.MapURL != nil {
		v.URL("mapUrl", *p.MapURL)
	}
	return v.Err()
}

func (p *OfficePatch) Apply(o *Office) {
	set(&o.Name, p.Name)
	set(&o.City, p.City)
	set(&o.Address, p.Address)
	set(&o.Phone, p.Phone)
	set(&o.Email, p.Email)
	set(&o.MapURL, p.MapURL)
	set(&o.Headquarters, p.Headquarters)
	set(&o.Order, p.Order)
}
