// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package service holds the logic that spans several repositories: the
// homepage aggregate, lead enrichment, markdown rendering and event tickets.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/olegiv/pathway-go/internal/cache"
	"github.com/olegiv/pathway-go/internal/model"
	"github.com/olegiv/pathway-go/internal/repository"
)

// HomeCacheTTL is how long a homepage aggregate is served from cache.
const HomeCacheTTL = 5 * time.Minute

const homeCacheKey = "home:v1"

// homeBuildTimeout bounds a shared build, which outlives the request that
// started it.
const homeBuildTimeout = 20 * time.Second

// Homepage list sizes. Zero means every record.
const (
	homeServicesLimit     = 6
	homeDestinationsLimit = 8
	homeStoriesLimit      = 6
	homeInsightsLimit     = 3
	homeEventsLimit       = 3
)

// HomeData is the combined homepage payload. Sections switched off in the
// home settings are returned as empty lists.
type HomeData struct {
	HeroTagline    string                     `json:"heroTagline"`
	Slides         []model.Slide              `json:"slides"`
	Sections       model.HomeSections         `json:"sections"`
	Services       []model.Service            `json:"services"`
	Destinations   []model.Destination        `json:"destinations"`
	WhyChooseUs    []model.WhyChooseUsFeature `json:"whyChooseUs"`
	StudySteps     []model.StudyAbroadStep    `json:"studySteps"`
	SuccessStories []model.SuccessStory       `json:"successStories"`
	Insights       []model.Article            `json:"insights"`
	Events         []model.Event              `json:"events"`
	Partners       []model.Partner            `json:"partners"`
	Awards         []model.Award              `json:"awards"`
	Stats          []model.Stat               `json:"stats"`
	ContactInfo    model.ContactInfo          `json:"contactInfo"`
	GeneratedAt    time.Time                  `json:"generatedAt"`
}

// HomeService builds the homepage aggregate.
type HomeService struct {
	repos  *repository.Repositories
	cache  *cache.TypedCache[HomeData]
	logger *slog.Logger
	now    func() time.Time
}

// NewHomeService creates a HomeService. A nil backend disables caching.
func NewHomeService(repos *repository.Repositories, backend cache.Cacher, ttl time.Duration, logger *slog.Logger) *HomeService {
	s := &HomeService{
		repos:  repos,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
	if backend != nil {
		if ttl <= 0 {
			ttl = HomeCacheTTL
		}
		s.cache = cache.NewTypedCache[HomeData](backend, ttl)
	}
	return s
}

// Get returns the cached aggregate or builds a fresh one. Concurrent misses
// wait on one build; it runs detached from the first caller's cancellation
// so a disconnecting client does not fail the others.
func (s *HomeService) Get(ctx context.Context) (*HomeData, error) {
	if s.cache == nil {
		return s.Build(ctx)
	}
	return s.cache.GetOrSet(ctx, homeCacheKey, func() (*HomeData, error) {
		buildCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), homeBuildTimeout)
		defer cancel()
		return s.Build(buildCtx)
	})
}

// Invalidate drops the cached aggregate so the next Get rebuilds it.
func (s *HomeService) Invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, homeCacheKey); err != nil {
		s.logger.Warn("failed to invalidate home cache", "error", err)
	}
}

// Build reads the home settings first, then every enabled section in
// parallel. Settings are read up front because their section toggles decide
// which reads run; a disabled section is never queried, so its store being
// down cannot fail the page. The first failing read cancels the others and
// its error is returned; no partial data is built.
func (s *HomeService) Build(ctx context.Context) (*HomeData, error) {
	settings, err := s.repos.HomeSettings.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("home settings: %w", err)
	}

	now := s.now()
	on := settings.Sections
	published := true
	data := &HomeData{
		HeroTagline: settings.HeroTagline,
		Slides:      settings.Slides,
		Sections:    on,
		GeneratedAt: now,
	}

	g, ctx := errgroup.WithContext(ctx)

	fetch(ctx, g, on.Services, "services", &data.Services, func(ctx context.Context) ([]model.Service, int64, error) {
		return s.repos.Services.List(ctx, repository.ListOptions{Published: &published, Limit: homeServicesLimit})
	})
	fetch(ctx, g, on.Destinations, "destinations", &data.Destinations, func(ctx context.Context) ([]model.Destination, int64, error) {
		return s.repos.Destinations.List(ctx, repository.ListOptions{Published: &published, Limit: homeDestinationsLimit})
	})
	fetch(ctx, g, on.WhyChooseUs, "why choose us", &data.WhyChooseUs, func(ctx context.Context) ([]model.WhyChooseUsFeature, int64, error) {
		return s.repos.WhyChooseUs.List(ctx, repository.ListOptions{})
	})
	fetch(ctx, g, on.StudySteps, "study steps", &data.StudySteps, func(ctx context.Context) ([]model.StudyAbroadStep, int64, error) {
		return s.repos.StudySteps.List(ctx, repository.ListOptions{})
	})
	fetch(ctx, g, on.Stories, "success stories", &data.SuccessStories, func(ctx context.Context) ([]model.SuccessStory, int64, error) {
		return s.repos.SuccessStories.List(ctx, repository.ListOptions{Limit: homeStoriesLimit})
	})
	fetch(ctx, g, on.Insights, "insights", &data.Insights, func(ctx context.Context) ([]model.Article, int64, error) {
		return s.repos.Articles[model.KindInsight].List(ctx, repository.ListOptions{
			Status: string(model.StatusPublished),
			Limit:  homeInsightsLimit,
		})
	})
	fetch(ctx, g, on.Events, "events", &data.Events, func(ctx context.Context) ([]model.Event, int64, error) {
		return s.repos.Events.List(ctx, repository.ListOptions{
			Status:   string(model.EventPublished),
			Upcoming: true,
			Now:      now,
			Limit:    homeEventsLimit,
		})
	})
	fetch(ctx, g, on.Partners, "partners", &data.Partners, func(ctx context.Context) ([]model.Partner, int64, error) {
		return s.repos.Partners.List(ctx, repository.ListOptions{})
	})
	fetch(ctx, g, on.Awards, "awards", &data.Awards, func(ctx context.Context) ([]model.Award, int64, error) {
		return s.repos.Awards.List(ctx, repository.ListOptions{})
	})
	fetch(ctx, g, on.Stats, "stats", &data.Stats, func(ctx context.Context) ([]model.Stat, int64, error) {
		return s.repos.Stats.List(ctx, repository.ListOptions{})
	})
	g.Go(func() error {
		ci, err := s.repos.ContactInfo.Get(ctx)
		if err != nil {
			return fmt.Errorf("contact info: %w", err)
		}
		data.ContactInfo = ci
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return data, nil
}

// fetch schedules one list read into dst. Disabled sections get an empty
// list without touching the store. Each goroutine writes its own field.
func fetch[T any](ctx context.Context, g *errgroup.Group, enabled bool, name string, dst *[]T,
	list func(context.Context) ([]T, int64, error)) {
	if !enabled {
		*dst = []T{}
		return
	}
	g.Go(func() error {
		items, _, err := list(ctx)
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		*dst = items
		return nil
	})
}
