// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"time"

	"github.com/olegiv/pathway-go/internal/util"
	"github.com/olegiv/pathway-go/internal/validate"
)

// ArticleKind names one of the three article collections.
type ArticleKind string

const (
	KindPost     ArticleKind = "posts"
	KindResource ArticleKind = "resources"
	KindInsight  ArticleKind = "insights"
)

// ArticleKinds lists every ArticleKind.
var ArticleKinds = []ArticleKind{KindPost, KindResource, KindInsight}

// Article is the shared shape of posts, resources and insights.
type Article struct {
	DocMeta
	Title       string        `json:"title"`
	Slug        string        `json:"slug"`
	Excerpt     string        `json:"excerpt"`
	Content     string        `json:"content"`
	Category    string        `json:"category"`
	Tags        []string      `json:"tags"`
	Author      string        `json:"author"`
	CoverImage  string        `json:"coverImage"`
	Status      PublishStatus `json:"status"`
	Featured    bool          `json:"featured"`
	PublishedAt *time.Time    `json:"publishedAt,omitempty"`
}

func (a *Article) GetSlug() string { return a.Slug }

// stampPublished records the first publication time.
func (a *Article) stampPublished() {
	if a.Status == StatusPublished && a.PublishedAt == nil {
		now := time.Now().UTC()
		a.PublishedAt = &now
	}
}

// ArticleInput creates an article.
type ArticleInput struct {
	Title      string        `json:"title"`
	Slug       string        `json:"slug"`
	Excerpt    string        `json:"excerpt"`
	Content    string        `json:"content"`
	Category   string        `json:"category"`
	Tags       []string      `json:"tags"`
	Author     string        `json:"author"`
	CoverImage string        `json:"coverImage"`
	Status     PublishStatus `json:"status"`
	Featured   bool          `json:"featured"`
}

func (in *ArticleInput) Normalize() {
	trimAll(&in.Title, &in.Excerpt, &in.Author, &in.CoverImage)
	lower(&in.Category)
	normalizeSlug(&in.Slug, in.Title)
	in.Tags = cleanList(in.Tags)
	if in.Status == "" {
		in.Status = StatusDraft
	}
}

func (in *ArticleInput) Validate() error {
	v := validate.New()
	v.Required("title", in.Title)
	v.MaxLen("title", in.Title, 200)
	v.Slug("slug", in.Slug)
	v.MaxLen("excerpt", in.Excerpt, 500)
	v.MaxLen("category", in.Category, 60)
	v.URL("coverImage", in.CoverImage)
	validate.OneOf(v, "status", in.Status, PublishStatuses...)
	return v.Err()
}

func (in *ArticleInput) Build() Article {
	a := Article{
		Title:      in.Title,
		Slug:       in.Slug,
		Excerpt:    in.Excerpt,
		Content:    in.Content,
		Category:   in.Category,
		Tags:       in.Tags,
		Author:     in.Author,
		CoverImage: in.CoverImage,
		Status:     in.Status,
		Featured:   in.Featured,
	}
	a.stampPublished()
	return a
}

// ArticlePatch updates an article.
type ArticlePatch struct {
	Title      *string        `json:"title"`
	Slug       *string        `json:"slug"`
	Excerpt    *string        `json:"excerpt"`
	Content    *string        `json:"content"`
	Category   *string        `json:"category"`
	Tags       *[]string      `json:"tags"`
	Author     *string        `json:"author"`
	CoverImage *string        `json:"coverImage"`
	Status     *PublishStatus `json:"status"`
	Featured   *bool          `json:"featured"`
}

func (p *ArticlePatch) Normalize() {
	trimAll(p.Title, p.Excerpt, p.Author, p.CoverImage)
	lower(p.Category)
	if p.Slug != nil {
		*p.Slug = util.NormalizeSlug(*p.Slug)
	}
	cleanListPtr(p.Tags)
}

func (p *ArticlePatch) Validate() error {
	v := validate.New()
	if p.Title != nil {
		v.Required("title", *p.Title)
		v.MaxLen("title", *p.Title, 200)
	}
	if p.Slug != nil {
		v.Slug("slug", *p.Slug)
	}
	if p.Excerpt != nil {
		v.MaxLen("excerpt", *p.Excerpt, 500)
	}
	if p.Category != nil {
		v.MaxLen("category", *p.Category, 60)
	}
	if p.CoverImage != nil {
		v.URL("coverImage", *p.CoverImage)
	}
	if p.Status != nil {
		validate.OneOf(v, "status", *p.Status, PublishStatuses...)
	}
	return v.Err()
}

func (p *ArticlePatch) Apply(a *Article) {
	set(&a.Title, p.Title)
	set(&a.Slug, p.Slug)
	set(&a.Excerpt, p.Excerpt)
	set(&a.Content, p.Content)
	set(&a.Category, p.Category)
	set(&a.Tags, p.Tags)
	set(&a.Author, p.Author)
	set(&a.CoverImage, p.CoverImage)
	set(&a.Status, p.Status)
	set(&a.Featured, p.Featured)
	a.stampPublished()
}
