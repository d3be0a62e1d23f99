// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package repository

import (
	"database/sql"

	"github.com/olegiv/pathway-go/internal/docstore"
	"github.com/olegiv/pathway-go/internal/model"
)

// Document repository types, one per content entity.
type (
	DestinationRepo  = Documents[model.Destination, *model.Destination]
	ServiceRepo      = Documents[model.Service, *model.Service]
	ScholarshipRepo  = Documents[model.Scholarship, *model.Scholarship]
	ArticleRepo      = Documents[model.Article, *model.Article]
	TeamRepo         = Documents[model.TeamMember, *model.TeamMember]
	AwardRepo        = Documents[model.Award, *model.Award]
	PartnerRepo      = Documents[model.Partner, *model.Partner]
	StatRepo         = Documents[model.Stat, *model.Stat]
	WhyChooseUsRepo  = Documents[model.WhyChooseUsFeature, *model.WhyChooseUsFeature]
	StudyStepRepo    = Documents[model.StudyAbroadStep, *model.StudyAbroadStep]
	SuccessStoryRepo = Documents[model.SuccessStory, *model.SuccessStory]

	HomeSettingsRepo   = Singleton[model.HomeSettings, *model.HomeSettings]
	ContactInfoRepo    = Singleton[model.ContactInfo, *model.ContactInfo]
	SystemSettingsRepo = Singleton[model.SystemSettings, *model.SystemSettings]
)

// Repositories groups every repository used by the handlers.
type Repositories struct {
	Users         *Users
	Leads         *Leads
	Meetings      *Meetings
	Uploads       *Uploads
	Testimonials  *Testimonials
	Offices       *Offices
	Events        *Events
	Registrations *Registrations

	Destinations   *DestinationRepo
	Services       *ServiceRepo
	Scholarships   *ScholarshipRepo
	Articles       map[model.ArticleKind]*ArticleRepo
	Team           *TeamRepo
	Awards         *AwardRepo
	Partners       *PartnerRepo
	Stats          *StatRepo
	WhyChooseUs    *WhyChooseUsRepo
	StudySteps     *StudyStepRepo
	SuccessStories *SuccessStoryRepo

	HomeSettings   *HomeSettingsRepo
	ContactInfo    *ContactInfoRepo
	SystemSettings *SystemSettingsRepo
}

var byOrder = []docstore.SortField{{Field: "order"}}

// New wires relational repositories to db and content repositories to docs.
func New(db *sql.DB, docs docstore.Store) *Repositories {
	articles := make(map[model.ArticleKind]*ArticleRepo, len(model.ArticleKinds))
	for _, kind := range model.ArticleKinds {
		articles[kind] = NewDocuments[model.Article](docs, DocConfig{
			Collection: string(kind),
			Search:     []string{"title", "excerpt"},
			Filters:    []string{"status", "featured", "category"},
		})
	}

	return &Repositories{
		Users:         NewUsers(db),
		Leads:         NewLeads(db),
		Meetings:      NewMeetings(db),
		Uploads:       NewUploads(db),
		Testimonials:  NewTestimonials(db),
		Offices:       NewOffices(db),
		Events:        NewEvents(db),
		Registrations: NewRegistrations(db),

		Destinations: NewDocuments[model.Destination](docs, DocConfig{
			Collection: "destinations",
			Search:     []string{"country", "summary"},
			Filters:    []string{"featured", "published"},
		}),
		Services: NewDocuments[model.Service](docs, DocConfig{
			Collection: "services",
			Search:     []string{"name", "title"},
			Filters:    []string{"featured", "published"},
		}),
		Scholarships: NewDocuments[model.Scholarship](docs, DocConfig{
			Collection: "scholarships",
			Search:     []string{"title", "provider"},
			Filters:    []string{"status", "featured"},
		}),
		Articles: articles,
		Team: NewDocuments[model.TeamMember](docs, DocConfig{
			Collection: "team_members",
			Search:     []string{"name", "role"},
			Sort:       byOrder,
			Filters:    []string{"active"},
		}),
		Awards: NewDocuments[model.Award](docs, DocConfig{
			Collection: "awards",
			Sequential: true,
			Search:     []string{"title", "issuer"},
			Sort:       []docstore.SortField{{Field: "year", Desc: true}},
		}),
		Partners: NewDocuments[model.Partner](docs, DocConfig{
			Collection: "partners",
			Sequential: true,
			Search:     []string{"name"},
			Sort:       []docstore.SortField{{Field: docstore.FieldSeq}},
		}),
		Stats: NewDocuments[model.Stat](docs, DocConfig{
			Collection: "stats",
			Sequential: true,
			Search:     []string{"label"},
			Sort:       byOrder,
		}),
		WhyChooseUs: NewDocuments[model.WhyChooseUsFeature](docs, DocConfig{
			Collection: "why_choose_us",
			Sequential: true,
			Search:     []string{"title"},
			Sort:       byOrder,
		}),
		StudySteps: NewDocuments[model.StudyAbroadStep](docs, DocConfig{
			Collection: "study_steps",
			Sequential: true,
			Search:     []string{"title"},
			Sort:       byOrder,
		}),
		SuccessStories: NewDocuments[model.SuccessStory](docs, DocConfig{
			Collection: "success_stories",
			Sequential: true,
			Search:     []string{"studentName", "university", "country"},
			Filters:    []string{"featured"},
		}),

		HomeSettings:   NewSingleton[model.HomeSettings](docs, "home_settings", model.DefaultHomeSettings),
		ContactInfo:    NewSingleton[model.ContactInfo](docs, "contact_info", model.DefaultContactInfo),
		SystemSettings: NewSingleton[model.SystemSettings](docs, "system_settings", model.DefaultSystemSettings),
	}
}
