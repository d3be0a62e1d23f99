// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"log/slog"

	"github.com/mileusna/useragent"

	"github.com/olegiv/pathway-go/internal/geoip"
	"github.com/olegiv/pathway-go/internal/model"
	"github.com/olegiv/pathway-go/internal/repository"
)

// ClientInfo describes the browser that submitted a public form.
type ClientInfo struct {
	IP        string
	UserAgent string
	Referrer  string
}

// CaptureResult reports what happened to a captured lead.
type CaptureResult struct {
	Lead      model.Lead
	Persisted bool
}

// LeadService captures public enquiries.
type LeadService struct {
	leads    *repository.Leads
	settings *repository.SystemSettingsRepo
	geo      *geoip.Lookup
	persist  bool
	logger   *slog.Logger
}

// NewLeadService creates a LeadService. When persist is false leads are
// accepted and dropped. geo may be nil.
func NewLeadService(leads *repository.Leads, settings *repository.SystemSettingsRepo, geo *geoip.Lookup, persist bool, logger *slog.Logger) *LeadService {
	return &LeadService{leads: leads, settings: settings, geo: geo, persist: persist, logger: logger}
}

// Capture stores a validated lead enriched with client details. It
// succeeds without storing anything when no lead store is configured or
// lead capture is switched off in the system settings.
func (s *LeadService) Capture(ctx context.Context, in model.LeadInput, client ClientInfo) (CaptureResult, error) {
	lead := in.Build()
	s.enrich(&lead, client)

	if !s.persist {
		s.logger.Info("lead store disabled, lead not persisted", "purpose", lead.Purpose)
		return CaptureResult{Lead: lead}, nil
	}

	settings, err := s.settings.Get(ctx)
	if err != nil {
		return CaptureResult{}, err
	}
	if !settings.LeadCaptureEnabled {
		s.logger.Info("lead capture switched off, lead not persisted", "purpose", lead.Purpose)
		return CaptureResult{Lead: lead}, nil
	}

	saved, err := s.leads.Create(ctx, lead)
	if err != nil {
		return CaptureResult{}, err
	}
	s.logger.Info("lead captured", "lead_id", saved.ID, "purpose", saved.Purpose, "country", saved.GeoCountry)
	return CaptureResult{Lead: saved, Persisted: true}, nil
}

func (s *LeadService) enrich(lead *model.Lead, client ClientInfo) {
	if lead.Referrer == "" {
		lead.Referrer = client.Referrer
	}
	if s.geo != nil {
		lead.GeoCountry = s.geo.Country(client.IP)
	}
	lead.Device, lead.Browser = ParseDevice(client.UserAgent)
}

// ParseDevice returns the device class and browser name for a User-Agent.
func ParseDevice(uaString string) (device, browser string) {
	if uaString == "" {
		return "", ""
	}
	ua := useragent.Parse(uaString)

	browser = ua.Name
	if browser == "" {
		browser = "Unknown"
	}
	switch {
	case ua.Bot:
		device = "bot"
	case ua.Tablet:
		device = "tablet"
	case ua.Mobile:
		device = "mobile"
	default:
		device = "desktop"
	}
	return device, browser
}
