// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"time"

	"github.com/olegiv/pathway-go/internal/validate"
)

// Testimonial is a quote from a past student. A nil PublishedAt marks a draft.
type Testimonial struct {
	ID          string     `json:"id"`
	Author      string     `json:"author"`
	Quote       string     `json:"quote"`
	Source      string     `json:"source,omitempty"`
	AvatarURL   string     `json:"avatarUrl"`
	Rating      *int       `json:"rating,omitempty"`
	PublishedAt *time.Time `json:"publishedAt"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// TestimonialInput creates a testimonial.
type TestimonialInput struct {
	Author      string     `json:"author"`
	Quote       string     `json:"quote"`
	Source      string     `json:"source"`
	AvatarURL   string     `json:"avatarUrl"`
	Rating      *int       `json:"rating"`
	PublishedAt *time.Time `json:"publishedAt"`
}

func (in *TestimonialInput) Normalize() {
	trimAll(&in.Author, &in.Quote, &in.Source, &in.AvatarURL)
}

func (in *TestimonialInput) Validate() error {
	v := validate.New()
	v.Required("author", in.Author)
	v.MaxLen("author", in.Author, 120)
	v.Required("quote", in.Quote)
	v.MaxLen("quote", in.Quote, 2000)
	v.URL("avatarUrl", in.AvatarURL)
	if in.Rating != nil {
		v.Range("rating", *in.Rating, 0, 5)
	}
	return v.Err()
}

func (in *TestimonialInput) Build() Testimonial {
	t := Testimonial{
		Author:    in.Author,
		Quote:     in.Quote,
		Source:    in.Source,
		AvatarURL: in.AvatarURL,
		Rating:    in.Rating,
	}
	if in.PublishedAt != nil {
		p := in.PublishedAt.UTC()
		t.PublishedAt = &p
	}
	return t
}

// TestimonialPatch updates a testimonial. Sending "publishedAt": null
// moves it back to draft.
type TestimonialPatch struct {
	Author      *string             `json:"author"`
	Quote       *string             `json:"quote"`
	Source      *string             `json:"source"`
	AvatarURL   *string             `json:"avatarUrl"`
	Rating      Optional[int]       `json:"rating"`
	PublishedAt Optional[time.Time] `json:"publishedAt"`
}

func (p *TestimonialPatch) Normalize() {
	trimAll(p.Author, p.Quote, p.Source, p.AvatarURL)
}

func (p *TestimonialPatch) Validate() error {
	v := validate.New()
	if p.Author != nil {
		v.Required("author", *p.Author)
		v.MaxLen("author", *p.Author, 120)
	}
	if p.Quote != nil {
		v.Required("quote", *p.Quote)
		v.MaxLen("quote", *p.Quote, 2000)
	}
	if p.AvatarURL != nil {
		v.URL("avatarUrl", *p.AvatarURL)
	}
	if p.Rating.Set && !p.Rating.Null {
		v.Range("rating", p.Rating.Value, 0, 5)
	}
	return v.Err()
}

func (p *TestimonialPatch) Apply(t *Testimonial) {
	set(&t.Author, p.Author)
	set(&t.Quote, p.Quote)
	set(&t.Source, p.Source)
	set(&t.AvatarURL, p.AvatarURL)
	if p.Rating.Set {
		t.Rating = p.Rating.Ptr()
	}
	if p.PublishedAt.Set {
		t.PublishedAt = p.PublishedAt.Ptr()
		if t.PublishedAt != nil {
			*t.PublishedAt = t.PublishedAt.UTC()
		}
	}
}
