// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"sort"

	"github.com/olegiv/pathway-go/internal/validate"
)

// Singleton documents. Each has exactly one instance, created with the
// defaults below on first read. Updates decode onto the current value, so
// fields missing from the payload keep their stored value.

// Slide is one hero slider entry.
type Slide struct {
	Title    string `json:"title"`
	Subtitle string `json:"subtitle"`
	Image    string `json:"image"`
	CTALabel string `json:"ctaLabel"`
	CTAURL   string `json:"ctaUrl"`
	Order    int    `json:"order"`
}

// HomeSections toggles homepage blocks.
type HomeSections struct {
	Services     bool `json:"services"`
	Destinations bool `json:"destinations"`
	WhyChooseUs  bool `json:"whyChooseUs"`
	StudySteps   bool `json:"studySteps"`
	Stories      bool `json:"stories"`
	Insights     bool `json:"insights"`
	Events       bool `json:"events"`
	Partners     bool `json:"partners"`
	Awards       bool `json:"awards"`
	Stats        bool `json:"stats"`
}

// HomeSettings drives the homepage layout.
type HomeSettings struct {
	DocMeta
	HeroTagline string       `json:"heroTagline"`
	Slides      []Slide      `json:"slides"`
	Sections    HomeSections `json:"sections"`
}

// DefaultHomeSettings enables every section with no slides.
func DefaultHomeSettings() HomeSettings {
	return HomeSettings{
		Slides: []Slide{},
		Sections: HomeSections{
			Services: true, Destinations: true, WhyChooseUs: true, StudySteps: true, Stories: true,
			Insights: true, Events: true, Partners: true, Awards: true, Stats: true,
		},
	}
}

func (h *HomeSettings) Normalize() {
	trim(&h.HeroTagline)
	if h.Slides == nil {
		h.Slides = []Slide{}
	}
	for i := range h.Slides {
		s := &h.Slides[i]
		trimAll(&s.Title, &s.Subtitle, &s.Image, &s.CTALabel, &s.CTAURL)
	}
	sort.SliceStable(h.Slides, func(i, j int) bool { return h.Slides[i].Order < h.Slides[j].Order })
}

func (h *HomeSettings) Validate() error {
	v := validate.New()
	v.MaxLen("heroTagline", h.HeroTagline, 300)
	v.Check(len(h.Slides) <= 20, "slides", "must have at most 20 entries")
	for _, s := range h.Slides {
		if s.Image == "" {
			v.Add("slides", "every slide needs an image")
			break
		}
		v.URL("slides", s.Image)
		v.URL("slides", s.CTAURL)
	}
	return v.Err()
}

// OfficeHours is one line of the opening hours table.
type OfficeHours struct {
	Days  string `json:"days"`
	Hours string `json:"hours"`
}

// Socials holds social profile URLs.
type Socials struct {
	Facebook  string `json:"facebook"`
	Instagram string `json:"instagram"`
	LinkedIn  string `json:"linkedin"`
	YouTube   string `json:"youtube"`
	TikTok    string `json:"tiktok"`
	X         string `json:"x"`
}

// ContactInfo is the site-wide contact block.
type ContactInfo struct {
	DocMeta
	Email       string        `json:"email"`
	Phone       string        `json:"phone"`
	WhatsApp    string        `json:"whatsapp"`
	Address     string        `json:"address"`
	OfficeHours []OfficeHours `json:"officeHours"`
	Socials     Socials       `json:"socials"`
	MapEmbedURL string        `json:"mapEmbedUrl"`
}

// DefaultContactInfo is an empty contact block.
func DefaultContactInfo() ContactInfo {
	return ContactInfo{OfficeHours: []OfficeHours{}}
}

func (c *ContactInfo) Normalize() {
	trimAll(&c.Phone, &c.WhatsApp, &c.Address, &c.MapEmbedURL)
	lower(&c.Email)
	if c.OfficeHours == nil {
		c.OfficeHours = []OfficeHours{}
	}
	s := &c.Socials
	trimAll(&s.Facebook, &s.Instagram, &s.LinkedIn, &s.YouTube, &s.TikTok, &s.X)
}

func (c *ContactInfo) Validate() error {
	v := validate.New()
	v.Email("email", c.Email)
	v.OptionalPhone("phone", c.Phone)
	v.OptionalPhone("whatsapp", c.WhatsApp)
	v.URL("mapEmbedUrl", c.MapEmbedURL)
	s := c.Socials
	for _, f := range []struct{ name, value string }{
		{"socials.facebook", s.Facebook}, {"socials.instagram", s.Instagram}, {"socials.linkedin", s.LinkedIn},
		{"socials.youtube", s.YouTube}, {"socials.tiktok", s.TikTok}, {"socials.x", s.X},
	} {
		v.URL(f.name, f.value)
	}
	return v.Err()
}

// SystemSettings holds runtime switches.
type SystemSettings struct {
	DocMeta
	SiteName                 string          `json:"siteName"`
	MaintenanceMode          bool            `json:"maintenanceMode"`
	LeadCaptureEnabled       bool            `json:"leadCaptureEnabled"`
	MeetingSchedulingEnabled bool            `json:"meetingSchedulingEnabled"`
	FeatureFlags             map[string]bool `json:"featureFlags"`
}

// DefaultSystemSettings turns on lead capture and meeting scheduling.
func DefaultSystemSettings() SystemSettings {
	return SystemSettings{
		SiteName:                 "Pathway",
		LeadCaptureEnabled:       true,
		MeetingSchedulingEnabled: true,
		FeatureFlags:             map[string]bool{},
	}
}

func (s *SystemSettings) Normalize() {
	trim(&s.SiteName)
	if s.FeatureFlags == nil {
		s.FeatureFlags = map[string]bool{}
	}
}

func (s *SystemSettings) Validate() error {
	v := validate.New()
	v.Required("siteName", s.SiteName)
	v.MaxLen("siteName", s.SiteName, 120)
	v.Check(len(s.FeatureFlags) <= 100, "featureFlags", "must have at most 100 entries")
	return v.Err()
}
