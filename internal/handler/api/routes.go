// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/pathway-go/internal/middleware"
	"github.com/olegiv/pathway-go/internal/model"
	"github.com/olegiv/pathway-go/internal/repository"
)

// Public list scopes.
var (
	onlyPublished scope = func(o *repository.ListOptions) { t := true; o.Published = &t }
	onlyActive    scope = func(o *repository.ListOptions) { t := true; o.Active = &t }
	withStatus          = func(status string) scope {
		return func(o *repository.ListOptions) { o.Status = status }
	}
)

// PublicRoutes registers the unauthenticated endpoints. r is expected to
// be mounted at /api.
func (h *Handler) PublicRoutes(r chi.Router) {
	repos := h.Repos

	r.Get("/home", h.HomeAggregate)
	r.Get("/contact-info", singletonGetHandler[model.ContactInfo](repos.ContactInfo))

	r.Get("/destinations", listHandler[model.Destination](repos.Destinations, false, onlyPublished))
	r.Get("/destinations/{slug}", slugHandler(h, repos.Destinations.GetBySlug,
		func(d *model.Destination) bool { return d.Published },
		func(d *model.Destination) map[string]string { return map[string]string{"overview": d.Overview} }))

	r.Get("/services", listHandler[model.Service](repos.Services, false, onlyPublished))
	r.Get("/services/{slug}", slugHandler(h, repos.Services.GetBySlug,
		func(s *model.Service) bool { return s.Published },
		func(s *model.Service) map[string]string { return map[string]string{"description": s.Description} }))

	r.Get("/scholarships", listHandler[model.Scholarship](repos.Scholarships, false, withStatus(string(model.StatusPublished))))
	r.Get("/scholarships/{slug}", slugHandler(h, repos.Scholarships.GetBySlug,
		func(s *model.Scholarship) bool { return s.Status == model.StatusPublished },
		func(s *model.Scholarship) map[string]string {
			return map[string]string{"description": s.Description, "eligibility": s.Eligibility}
		}))

	r.Get("/events", listHandler[model.Event](repos.Events, false, withStatus(string(model.EventPublished))))
	r.Get("/events/{slug}", slugHandler(h, repos.Events.GetBySlug,
		func(e *model.Event) bool { return e.Status != model.EventDraft },
		func(e *model.Event) map[string]string { return map[string]string{"description": e.Description} }))
	r.Method(http.MethodPost, "/events/{slug}/registrations", h.formLimit(h.RegisterForEvent))
	r.Get("/registrations/{id}/ticket.png", h.Ticket)

	for _, kind := range model.ArticleKinds {
		articles := repos.Articles[kind]
		path := "/" + string(kind)
		r.Get(path, listHandler[model.Article](articles, false, withStatus(string(model.StatusPublished))))
		r.Get(path+"/{slug}", slugHandler(h, articles.GetBySlug,
			func(a *model.Article) bool { return a.Status == model.StatusPublished },
			func(a *model.Article) map[string]string { return map[string]string{"content": a.Content} }))
	}

	r.Get("/success-stories", listHandler[model.SuccessStory](repos.SuccessStories, false, nil))
	r.Get("/success-stories/{id}", getHandler[model.SuccessStory](repos.SuccessStories, nil))
	r.Get("/team", listHandler[model.TeamMember](repos.Team, false, onlyActive))
	r.Get("/awards", listHandler[model.Award](repos.Awards, false, nil))
	r.Get("/partners", listHandler[model.Partner](repos.Partners, false, nil))
	r.Get("/stats", listHandler[model.Stat](repos.Stats, false, nil))
	r.Get("/why-choose-us", listHandler[model.WhyChooseUsFeature](repos.WhyChooseUs, false, nil))
	r.Get("/study-steps", listHandler[model.StudyAbroadStep](repos.StudySteps, false, nil))
	r.Get("/testimonials", listHandler[model.Testimonial](repos.Testimonials, false, onlyPublished))
	r.Get("/offices", listHandler[model.Office](repos.Offices, false, nil))

	r.Method(http.MethodPost, "/leads", h.formLimit(h.CaptureLead))
	r.Method(http.MethodPost, "/meetings", h.formLimit(h.ScheduleMeeting))
}

// crudOptions tunes adminCRUD.
type crudOptions struct {
	// content marks entities shown on the homepage; writes drop its cache.
	content bool
	// staffUpdate lets support users update records. Other writes stay
	// admin-only.
	staffUpdate bool
	// extra registers additional routes on the entity's subrouter.
	extra func(r chi.Router)
}

// adminCRUD registers list, get, create, update and delete routes for one
// entity under path.
func adminCRUD[T any, IN any, P any, PIN interface {
	*IN
	model.Input[T]
}, PP interface {
	*P
	model.Patch[T]
}](h *Handler, r chi.Router, path string, s crudStore[T], opts crudOptions) {
	admin := middleware.RequireAdmin()
	updateGuard := admin
	if opts.staffUpdate {
		updateGuard = middleware.RequireStaff()
	}
	update := updateHandler[T, P, PP](h, s, opts.content)

	r.Route(path, func(r chi.Router) {
		r.Get("/", listHandler[T](s, true, nil))
		r.With(admin).Post("/", createHandler[T, IN, PIN](h, s, opts.content))
		r.Get("/{id}", getHandler[T](s, nil))
		r.With(updateGuard).Patch("/{id}", update)
		r.With(updateGuard).Put("/{id}", update)
		r.With(admin).Delete("/{id}", deleteHandler(h, s, opts.content))
		if opts.extra != nil {
			opts.extra(r)
		}
	})
}

// AdminRoutes registers the staff endpoints. r is expected to be mounted
// at /admin/api behind session loading; every route requires a staff role
// and writes other than lead, meeting and registration updates require
// the admin role.
func (h *Handler) AdminRoutes(r chi.Router) {
	repos := h.Repos
	admin := middleware.RequireAdmin()
	content := crudOptions{content: true}

	r.Use(middleware.RequireStaff())

	r.Get("/dashboard", h.Dashboard)

	adminCRUD[model.Destination, model.DestinationInput, model.DestinationPatch](h, r, "/destinations", repos.Destinations, content)
	adminCRUD[model.Service, model.ServiceInput, model.ServicePatch](h, r, "/services", repos.Services, content)
	adminCRUD[model.Scholarship, model.ScholarshipInput, model.ScholarshipPatch](h, r, "/scholarships", repos.Scholarships, crudOptions{})
	for _, kind := range model.ArticleKinds {
		adminCRUD[model.Article, model.ArticleInput, model.ArticlePatch](h, r, "/"+string(kind), repos.Articles[kind],
			crudOptions{content: kind == model.KindInsight})
	}
	adminCRUD[model.TeamMember, model.TeamMemberInput, model.TeamMemberPatch](h, r, "/team", repos.Team, crudOptions{})
	adminCRUD[model.Award, model.AwardInput, model.AwardPatch](h, r, "/awards", repos.Awards, content)
	adminCRUD[model.Partner, model.PartnerInput, model.PartnerPatch](h, r, "/partners", repos.Partners, content)
	adminCRUD[model.Stat, model.StatInput, model.StatPatch](h, r, "/stats", repos.Stats, content)
	adminCRUD[model.WhyChooseUsFeature, model.FeatureInput, model.FeaturePatch](h, r, "/why-choose-us", repos.WhyChooseUs, content)
	adminCRUD[model.StudyAbroadStep, model.StepInput, model.StepPatch](h, r, "/study-steps", repos.StudySteps, content)
	adminCRUD[model.SuccessStory, model.SuccessStoryInput, model.SuccessStoryPatch](h, r, "/success-stories", repos.SuccessStories, content)
	adminCRUD[model.Testimonial, model.TestimonialInput, model.TestimonialPatch](h, r, "/testimonials", repos.Testimonials, crudOptions{})
	adminCRUD[model.Office, model.OfficeInput, model.OfficePatch](h, r, "/offices", repos.Offices, crudOptions{})
	adminCRUD[model.Event, model.EventInput, model.EventPatch](h, r, "/events", repos.Events, crudOptions{
		content: true,
		extra: func(r chi.Router) {
			r.Get("/{id}/registrations", h.ListRegistrations)
			r.With(admin).Post("/{id}/registrations", h.CreateRegistration)
		},
	})

	r.Route("/registrations/{id}", func(r chi.Router) {
		r.Get("/", h.GetRegistration)
		r.Patch("/", h.UpdateRegistration)
		r.Put("/", h.UpdateRegistration)
		r.With(admin).Delete("/", h.DeleteRegistration)
		r.Get("/ticket.png", h.Ticket)
	})

	adminCRUD[model.Lead, model.LeadInput, model.LeadPatch](h, r, "/leads", repos.Leads, crudOptions{
		staffUpdate: true,
		extra: func(r chi.Router) {
			r.Get("/export.xlsx", h.ExportLeads)
		},
	})
	adminCRUD[model.MeetingRequest, model.MeetingInput, model.MeetingPatch](h, r, "/meetings", repos.Meetings, crudOptions{staffUpdate: true})

	r.Route("/users", func(r chi.Router) {
		r.Get("/", listHandler[model.User](repos.Users, true, nil))
		r.Get("/{id}", getHandler[model.User](repos.Users, nil))
		r.With(admin).Post("/", h.CreateUser)
		r.With(admin).Patch("/{id}", h.UpdateUser)
		r.With(admin).Put("/{id}", h.UpdateUser)
		r.With(admin).Delete("/{id}", h.DeleteUser)
	})

	r.Route("/uploads", func(r chi.Router) {
		r.Get("/", listHandler[model.Upload](repos.Uploads, true, nil))
		r.Get("/{id}", getHandler[model.Upload](repos.Uploads, nil))
		r.With(admin).Post("/", h.Upload)
		r.With(admin).Delete("/{id}", h.DeleteUpload)
	})

	settings := map[string]struct {
		get, put http.HandlerFunc
	}{
		"home-settings": {
			singletonGetHandler[model.HomeSettings](repos.HomeSettings),
			singletonPutHandler[model.HomeSettings](h, repos.HomeSettings),
		},
		"contact-info": {
			singletonGetHandler[model.ContactInfo](repos.ContactInfo),
			singletonPutHandler[model.ContactInfo](h, repos.ContactInfo),
		},
		"system-settings": {
			singletonGetHandler[model.SystemSettings](repos.SystemSettings),
			singletonPutHandler[model.SystemSettings](h, repos.SystemSettings),
		},
	}
	for name, s := range settings {
		path := "/" + name
		r.Get(path, s.get)
		r.With(admin).Put(path, s.put)
		r.With(admin).Patch(path, s.put)
	}
}
