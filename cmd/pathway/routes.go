// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"database/sql"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/olegiv/pathway-go/internal/cache"
	"github.com/olegiv/pathway-go/internal/config"
	"github.com/olegiv/pathway-go/internal/docstore"
	"github.com/olegiv/pathway-go/internal/handler"
	"github.com/olegiv/pathway-go/internal/handler/api"
	"github.com/olegiv/pathway-go/internal/middleware"
	"github.com/olegiv/pathway-go/internal/repository"
	"github.com/olegiv/pathway-go/internal/service"
	"github.com/olegiv/pathway-go/internal/version"
	"github.com/olegiv/pathway-go/web"
)

// Public form throttling: one submission every five seconds per client,
// with a small burst for retries.
const (
	formRateLimit = 0.2
	formRateBurst = 5
)

const requestTimeout = 30 * time.Second

// application holds the long-lived dependencies shared by the routes.
type application struct {
	cfg     *config.Config
	info    version.Info
	logger  *slog.Logger
	db      *sql.DB
	docs    docstore.Store
	repos   *repository.Repositories
	cache   cache.Cacher
	session *scs.SessionManager
	home    *service.HomeService
	leads   *service.LeadService
	uploads *service.UploadService
}

// routes builds the HTTP handler tree.
func (app *application) routes() (http.Handler, error) {
	cfg := app.cfg

	dist, err := fs.Sub(web.Dist, "dist")
	if err != nil {
		return nil, fmt.Errorf("getting frontend fs: %w", err)
	}
	spa, err := handler.NewSPA(dist)
	if err != nil {
		return nil, fmt.Errorf("loading frontend: %w", err)
	}

	loginProtection := middleware.NewLoginProtection(middleware.DefaultLoginProtectionConfig())
	formLimiter := middleware.NewRateLimiter(formRateLimit, formRateBurst)

	authHandler := handler.NewAuthHandler(app.repos.Users, app.session, loginProtection)
	healthHandler := handler.NewHealthHandler(map[string]handler.Pinger{
		"database":  handler.PingFunc(app.db.PingContext),
		"documents": app.docs,
		"cache":     app.cache,
	}, cfg.UploadsDir, app.info)
	apiHandler := api.NewHandler(api.Deps{
		Repos:       app.repos,
		Home:        app.home,
		Leads:       app.leads,
		Uploads:     app.uploads,
		BaseURL:     cfg.BaseURL,
		FormLimiter: formLimiter.Middleware(),
		Logger:      app.logger,
	})

	csrfMiddleware := middleware.CSRF(middleware.DefaultCSRFConfig([]byte(cfg.SessionSecret), cfg.BaseURL, cfg.IsDevelopment()))
	slog.Info("CSRF protection initialized", "secure", !cfg.IsDevelopment())

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestPath)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(middleware.SecurityHeaders(middleware.DefaultSecurityHeadersConfig(cfg.IsDevelopment())))
	r.Use(chimw.StripSlashes)
	r.Use(chimw.Compress(5, "application/json", "text/html", "text/css", "application/javascript"))

	// Health checks stay outside the session and timeout stack.
	r.Get("/health", healthHandler.Health)
	r.Get("/health/live", healthHandler.Liveness)
	r.Get("/health/ready", healthHandler.Readiness)

	if !cfg.UseS3() {
		prefix := strings.TrimRight(cfg.UploadsBaseURL, "/")
		r.With(middleware.StaticCache(86400)).
			Handle(prefix+"/*", http.StripPrefix(prefix, http.FileServer(noDirFS{http.Dir(cfg.UploadsDir)})))
	}

	r.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(requestTimeout))
		r.Use(app.session.LoadAndSave)
		r.Use(middleware.LoadUser(app.session, app.repos.Users))
		r.Use(csrfMiddleware)
		r.Use(middleware.AdminGate)

		r.Get(middleware.LoginPath, spa.Shell)
		r.With(loginProtection.Middleware()).Post(middleware.LoginPath, authHandler.Login)
		r.Post("/logout", authHandler.Logout)
		r.Get("/api/session", authHandler.Session)

		r.Route("/api", apiHandler.PublicRoutes)
		r.Route(middleware.AdminAPIPath, func(r chi.Router) {
			r.Use(middleware.NoStore)
			apiHandler.AdminRoutes(r)
		})

		r.Handle("/*", spa)
	})

	return r, nil
}

// noDirFS hides directory listings from the uploads file server.
type noDirFS struct {
	fs http.FileSystem
}

func (n noDirFS) Open(name string) (http.File, error) {
	f, err := n.fs.Open(name)
	if err != nil {
		return nil, err
	}
	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	if info.IsDir() {
		_ = f.Close()
		return nil, fs.ErrNotExist
	}
	return f, nil
}
