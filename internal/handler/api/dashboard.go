// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"context"
	"net/http"

	"golang.org/x/sync/errgroup"

	"github.com/olegiv/pathway-go/internal/handler"
	"github.com/olegiv/pathway-go/internal/model"
	"github.com/olegiv/pathway-go/internal/repository"
)

// DashboardStats are the counters on the admin landing page.
type DashboardStats struct {
	Leads           int64 `json:"leads"`
	NewLeads        int64 `json:"newLeads"`
	Posts           int64 `json:"posts"`
	Insights        int64 `json:"insights"`
	Events          int64 `json:"events"`
	Testimonials    int64 `json:"testimonials"`
	PendingMeetings int64 `json:"pendingMeetings"`
}

// Dashboard handles GET /admin/api/dashboard.
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	repos := h.Repos
	var stats DashboardStats

	g, ctx := errgroup.WithContext(r.Context())
	count := func(dst *int64, fn func(context.Context) (int64, error)) {
		g.Go(func() error {
			n, err := fn(ctx)
			*dst = n
			return err
		})
	}
	count(&stats.Leads, func(ctx context.Context) (int64, error) { return repos.Leads.Count(ctx, "") })
	count(&stats.NewLeads, func(ctx context.Context) (int64, error) { return repos.Leads.Count(ctx, model.LeadNew) })
	count(&stats.Posts, func(ctx context.Context) (int64, error) {
		return repos.Articles[model.KindPost].Count(ctx, repository.ListOptions{})
	})
	count(&stats.Insights, func(ctx context.Context) (int64, error) {
		return repos.Articles[model.KindInsight].Count(ctx, repository.ListOptions{})
	})
	count(&stats.Events, repos.Events.Count)
	count(&stats.Testimonials, repos.Testimonials.Count)
	count(&stats.PendingMeetings, func(ctx context.Context) (int64, error) {
		return repos.Meetings.Count(ctx, model.MeetingPending)
	})

	if err := g.Wait(); err != nil {
		handler.WriteErr(w, r, err)
		return
	}
	handler.WriteData(w, stats)
}
