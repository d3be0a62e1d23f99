// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/pathway-go/internal/cache"
	"github.com/olegiv/pathway-go/internal/docstore"
	"github.com/olegiv/pathway-go/internal/model"
	"github.com/olegiv/pathway-go/internal/repository"
	"github.com/olegiv/pathway-go/internal/store"
	"github.com/olegiv/pathway-go/internal/testutil"
)

// flakyDocs wraps a docstore and fails reads of one collection.
type flakyDocs struct {
	docstore.Store
	failColl string
	finds    atomic.Int64
}

func (f *flakyDocs) Find(ctx context.Context, coll string, q docstore.Query) ([]docstore.Document, error) {
	f.finds.Add(1)
	if coll == f.failColl {
		return nil, store.ErrUnavailable
	}
	return f.Store.Find(ctx, coll, q)
}

func (f *flakyDocs) Count(ctx context.Context, coll string, q docstore.Query) (int64, error) {
	if coll == f.failColl {
		return 0, store.ErrUnavailable
	}
	return f.Store.Count(ctx, coll, q)
}

func newHomeFixture(t *testing.T) (*repository.Repositories, *flakyDocs) {
	t.Helper()
	db := testutil.TestDB(t)
	docs := &flakyDocs{Store: docstore.NewSQLiteStore(db)}
	return repository.New(db, docs), docs
}

func seedHome(t *testing.T, repos *repository.Repositories) {
	t.Helper()
	ctx := context.Background()

	_, err := repos.Services.Create(ctx, model.Service{Name: "Visa", Slug: "visa", Title: "Visa help", Published: true})
	require.NoError(t, err)
	_, err = repos.Services.Create(ctx, model.Service{Name: "Draft", Slug: "draft", Title: "Hidden"})
	require.NoError(t, err)
	_, err = repos.Destinations.Create(ctx, model.Destination{Country: "New Zealand", Slug: "new-zealand", Published: true})
	require.NoError(t, err)
	_, err = repos.Awards.Create(ctx, model.Award{Title: "Best Agency", Year: 2025})
	require.NoError(t, err)
	_, err = repos.Articles[model.KindInsight].Create(ctx, model.Article{Title: "Live", Slug: "live", Status: model.StatusPublished})
	require.NoError(t, err)
	_, err = repos.Articles[model.KindInsight].Create(ctx, model.Article{Title: "Wip", Slug: "wip", Status: model.StatusDraft})
	require.NoError(t, err)

	start := time.Now().UTC().Add(72 * time.Hour)
	_, err = repos.Events.Create(ctx, model.Event{
		Title: "Fair", Slug: "fair", StartDateTime: start, EndDateTime: start.Add(time.Hour),
		Capacity: 10, SeatsRemaining: 10, Status: model.EventPublished,
	})
	require.NoError(t, err)
	past := time.Now().UTC().Add(-72 * time.Hour)
	_, err = repos.Events.Create(ctx, model.Event{
		Title: "Old", Slug: "old", StartDateTime: past, EndDateTime: past.Add(time.Hour),
		Capacity: 10, SeatsRemaining: 10, Status: model.EventPublished,
	})
	require.NoError(t, err)
}

func TestHomeService_Build(t *testing.T) {
	repos, _ := newHomeFixture(t)
	seedHome(t, repos)

	svc := NewHomeService(repos, nil, 0, testutil.TestLoggerSilent())
	data, err := svc.Build(context.Background())
	require.NoError(t, err)

	require.Len(t, data.Services, 1)
	assert.Equal(t, "visa", data.Services[0].Slug)
	require.Len(t, data.Destinations, 1)
	require.Len(t, data.Awards, 1)
	assert.Equal(t, int64(1), data.Awards[0].ID)
	require.Len(t, data.Insights, 1, "drafts must not reach the homepage")
	assert.Equal(t, "live", data.Insights[0].Slug)
	require.Len(t, data.Events, 1, "past events must not reach the homepage")
	assert.Equal(t, "fair", data.Events[0].Slug)

	assert.NotNil(t, data.Partners)
	assert.Empty(t, data.Partners)
	assert.True(t, data.Sections.Services)
	assert.NotNil(t, data.Slides)
}

func TestHomeService_DisabledSectionSkipsRead(t *testing.T) {
	repos, docs := newHomeFixture(t)
	seedHome(t, repos)
	ctx := context.Background()

	_, err := repos.HomeSettings.Update(ctx, func(h *model.HomeSettings) error {
		h.Sections.Awards = false
		return nil
	})
	require.NoError(t, err)

	docs.failColl = repos.Awards.Collection()
	svc := NewHomeService(repos, nil, 0, testutil.TestLoggerSilent())
	data, err := svc.Build(ctx)
	require.NoError(t, err)
	assert.Empty(t, data.Awards)
	assert.NotNil(t, data.Awards)
}

func TestHomeService_AnyFailureAbortsAggregation(t *testing.T) {
	for _, coll := range []string{"services", "partners", "insights", "study_steps"} {
		t.Run(coll, func(t *testing.T) {
			repos, docs := newHomeFixture(t)
			seedHome(t, repos)
			docs.failColl = coll

			svc := NewHomeService(repos, nil, 0, testutil.TestLoggerSilent())
			data, err := svc.Build(context.Background())
			require.Error(t, err)
			assert.Nil(t, data)
			assert.True(t, errors.Is(err, store.ErrUnavailable))
		})
	}
}

func TestHomeService_CachesWithinWindow(t *testing.T) {
	repos, docs := newHomeFixture(t)
	seedHome(t, repos)
	ctx := context.Background()

	mem := cache.NewMemoryCache(cache.MemoryCacheOptions{DefaultTTL: time.Minute})
	t.Cleanup(func() { _ = mem.Close() })
	svc := NewHomeService(repos, mem, HomeCacheTTL, testutil.TestLoggerSilent())

	first, err := svc.Get(ctx)
	require.NoError(t, err)
	reads := docs.finds.Load()
	require.Positive(t, reads)

	_, err = repos.Services.Create(ctx, model.Service{Name: "Loans", Slug: "loans", Title: "Loans", Published: true})
	require.NoError(t, err)

	second, err := svc.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, reads, docs.finds.Load(), "cached aggregate must not query the store")
	assert.Len(t, second.Services, len(first.Services))

	svc.Invalidate(ctx)
	third, err := svc.Get(ctx)
	require.NoError(t, err)
	assert.Greater(t, docs.finds.Load(), reads)
	assert.Len(t, third.Services, 2)
}

func TestHomeService_FailureIsNotCached(t *testing.T) {
	repos, docs := newHomeFixture(t)
	ctx := context.Background()

	mem := cache.NewMemoryCache(cache.MemoryCacheOptions{DefaultTTL: time.Minute})
	t.Cleanup(func() { _ = mem.Close() })
	svc := NewHomeService(repos, mem, HomeCacheTTL, testutil.TestLoggerSilent())

	docs.failColl = "stats"
	_, err := svc.Get(ctx)
	require.Error(t, err)

	docs.failColl = ""
	data, err := svc.Get(ctx)
	require.NoError(t, err)
	assert.NotNil(t, data)
}

func TestHomeService_SharedBuildOutlivesCaller(t *testing.T) {
	repos, docs := newHomeFixture(t)
	seedHome(t, repos)

	mem := cache.NewMemoryCache(cache.MemoryCacheOptions{DefaultTTL: time.Minute})
	t.Cleanup(func() { _ = mem.Close() })
	svc := NewHomeService(repos, mem, HomeCacheTTL, testutil.TestLoggerSilent())

	gone, cancel := context.WithCancel(context.Background())
	cancel()

	data, err := svc.Get(gone)
	require.NoError(t, err)
	assert.Len(t, data.Services, 1)

	reads := docs.finds.Load()
	_, err = svc.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, reads, docs.finds.Load(), "aggregate built for a departed caller is cached")
}
