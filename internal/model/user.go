// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"time"

	"github.com/olegiv/pathway-go/internal/auth"
	"github.com/olegiv/pathway-go/internal/validate"
)

// Role is a staff role.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleSupport Role = "support"
)

// Roles lists every Role.
var Roles = []Role{RoleAdmin, RoleSupport}

// IsStaff reports whether r may enter the admin area.
func (r Role) IsStaff() bool {
	return r == RoleAdmin || r == RoleSupport
}

// User is a staff account.
type User struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	Role         Role       `json:"role"`
	Active       bool       `json:"active"`
	LastLoginAt  *time.Time `json:"lastLoginAt,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// UserInput creates a staff account. Password is hashed by the handler.
type UserInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     Role   `json:"role"`
	Active   *bool  `json:"active"`
}

func (in *UserInput) Normalize() {
	trim(&in.Name)
	lower(&in.Email)
	if in.Role == "" {
		in.Role = RoleSupport
	}
	if in.Active == nil {
		t := true
		in.Active = &t
	}
}

func (in *UserInput) Validate() error {
	v := validate.New()
	v.Required("name", in.Name)
	v.MaxLen("name", in.Name, 120)
	v.Required("email", in.Email)
	v.Email("email", in.Email)
	if err := auth.ValidatePassword(in.Password); err != nil {
		v.Add("password", err.Error())
	}
	validate.OneOf(v, "role", in.Role, Roles...)
	return v.Err()
}

// Build returns the user without a password hash.
func (in *UserInput) Build() User {
	return User{Name: in.Name, Email: in.Email, Role: in.Role, Active: *in.Active}
}

// UserPatch updates a staff account.
type UserPatch struct {
	Name     *string `json:"name"`
	Email    *string `json:"email"`
	Password *string `json:"password"`
	Role     *Role   `json:"role"`
	Active   *bool   `json:"active"`
}

func (p *UserPatch) Normalize() {
	trim(p.Name)
	lower(p.Email)
}

func (p *UserPatch) Validate() error {
	v := validate.New()
	if p.Name != nil {
		v.Required("name", *p.Name)
		v.MaxLen("name", *p.Name, 120)
	}
	if p.Email != nil {
		v.Required("email", *p.Email)
		v.Email("email", *p.Email)
	}
	if p.Password != nil {
		if err := auth.ValidatePassword(*p.Password); err != nil {
			v.Add("password", err.Error())
		}
	}
	if p.Role != nil {
		validate.OneOf(v, "role", *p.Role, Roles...)
	}
	return v.Err()
}

// Apply copies every field but Password, which the handler hashes.
func (p *UserPatch) Apply(u *User) {
	set(&u.Name, p.Name)
	set(&u.Email, p.Email)
	set(&u.Role, p.Role)
	set(&u.Active, p.Active)
}

// ChangesRoleOrStatus reports whether the patch would alter the role or
// deactivate the account.
func (p *UserPatch) ChangesRoleOrStatus(u *User) bool {
	return (p.Role != nil && *p.Role != u.Role) || (p.Active != nil && !*p.Active)
}
