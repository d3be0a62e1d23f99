// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package model defines the content and lead entities, their closed status
// enums and the create/patch payloads with their validation rules.
//
// Inputs are normalised (trimmed, lowercased where relevant, defaults
// applied) before validation. Patches carry pointer fields so that only
// fields present in the request are validated and applied.
package model

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/olegiv/pathway-go/internal/util"
)

// DocMeta is embedded in entities that live in the document store and are
// addressed by the store-assigned id.
type DocMeta struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (m *DocMeta) DocumentID() string      { return m.ID }
func (m *DocMeta) SetDocumentID(id string) { m.ID = id }
func (m *DocMeta) Sequence() int64         { return 0 }
func (m *DocMeta) SetSequence(int64)       {}
func (m *DocMeta) SetTimestamps(created, updated time.Time) {
	m.CreatedAt, m.UpdatedAt = created, updated
}

// SeqMeta is embedded in small display records whose public id is a
// derived sequential integer. The store id stays internal.
type SeqMeta struct {
	ID        int64     `json:"id"`
	DocID     string    `json:"-"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (m *SeqMeta) DocumentID() string      { return m.DocID }
func (m *SeqMeta) SetDocumentID(id string) { m.DocID = id }
func (m *SeqMeta) Sequence() int64         { return m.ID }
func (m *SeqMeta) SetSequence(n int64)     { m.ID = n }
func (m *SeqMeta) SetTimestamps(created, updated time.Time) {
	m.CreatedAt, m.UpdatedAt = created, updated
}

// Document is implemented by pointers to document-store entities.
type Document interface {
	DocumentID() string
	SetDocumentID(id string)
	Sequence() int64
	SetSequence(n int64)
	SetTimestamps(created, updated time.Time)
}

// Sluggable is implemented by entities addressed by a unique slug.
type Sluggable interface {
	GetSlug() string
}

// Input is a create payload for T.
type Input[T any] interface {
	Normalize()
	Validate() error
	Build() T
}

// Patch is a partial update payload for T.
type Patch[T any] interface {
	Normalize()
	Validate() error
	Apply(*T)
}

// Checker is implemented by entities with rules spanning several fields,
// evaluated after a patch has been applied.
type Checker interface {
	Check() error
}

// Optional distinguishes an absent JSON field from an explicit null.
type Optional[T any] struct {
	Set   bool
	Null  bool
	Value T
}

// UnmarshalJSON marks the field as present.
func (o *Optional[T]) UnmarshalJSON(b []byte) error {
	o.Set = true
	if string(b) == "null" {
		o.Null = true
		var zero T
		o.Value = zero
		return nil
	}
	return json.Unmarshal(b, &o.Value)
}

// Ptr returns nil for an explicit null and a pointer to the value otherwise.
func (o Optional[T]) Ptr() *T {
	if o.Null {
		return nil
	}
	v := o.Value
	return &v
}

// PublishStatus is shared by scholarships and articles.
type PublishStatus string

const (
	StatusDraft     PublishStatus = "draft"
	StatusPublished PublishStatus = "published"
	StatusArchived  PublishStatus = "archived"
)

// PublishStatuses lists every PublishStatus.
var PublishStatuses = []PublishStatus{StatusDraft, StatusPublished, StatusArchived}

func set[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}

func trim(p *string) {
	if p != nil {
		*p = strings.TrimSpace(*p)
	}
}

func trimAll(ps ...*string) {
	for _, p := range ps {
		trim(p)
	}
}

func lower(p *string) {
	if p != nil {
		*p = strings.ToLower(strings.TrimSpace(*p))
	}
}

// cleanList trims entries, drops blanks and duplicates, keeps order.
func cleanList(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, s := range in {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}

func cleanListPtr(p *[]string) {
	if p != nil {
		*p = cleanList(*p)
	}
}

// normalizeSlug lowercases slug, deriving it from fallback when empty.
func normalizeSlug(slug *string, fallback string) {
	*slug = util.NormalizeSlug(*slug)
	if *slug == "" {
		*slug = util.Slugify(fallback)
	}
}
