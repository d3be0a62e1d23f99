// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/olegiv/pathway-go/internal/cache"
	"github.com/olegiv/pathway-go/internal/config"
	"github.com/olegiv/pathway-go/internal/docstore"
	"github.com/olegiv/pathway-go/internal/geoip"
	"github.com/olegiv/pathway-go/internal/handler"
	"github.com/olegiv/pathway-go/internal/imagehost"
	"github.com/olegiv/pathway-go/internal/imaging"
	"github.com/olegiv/pathway-go/internal/logging"
	"github.com/olegiv/pathway-go/internal/repository"
	"github.com/olegiv/pathway-go/internal/service"
	"github.com/olegiv/pathway-go/internal/session"
	"github.com/olegiv/pathway-go/internal/store"
	"github.com/olegiv/pathway-go/internal/version"
)

// Version information - injected at build time via ldflags
var (
	appVersion   = "dev"
	appGitCommit = "unknown"
	appBuildTime = "unknown"
)

func main() {
	showVersion := flag.Bool("version", false, "Show version information")
	flag.BoolVar(showVersion, "v", false, "Show version information (shorthand)")
	showHelp := flag.Bool("help", false, "Show help information")
	flag.BoolVar(showHelp, "h", false, "Show help information (shorthand)")

	flag.Usage = func() {
		_, _ = fmt.Fprintf(os.Stderr, "Pathway - study abroad consultancy back end\n\n")
		_, _ = fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", os.Args[0])
		_, _ = fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		_, _ = fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		_, _ = fmt.Fprintf(os.Stderr, "  PATHWAY_SESSION_SECRET  Session encryption key (required, min 32 bytes)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  PATHWAY_DB_PATH         SQLite database path (default: ./data/pathway.db)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  PATHWAY_SERVER_PORT     Server port (default: 8080)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  PATHWAY_ENV             Environment: development|production (default: development)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  PATHWAY_MONGO_URI       MongoDB URI for content collections (optional)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  PATHWAY_REDIS_URL       Redis URL for the homepage cache (optional)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  PATHWAY_S3_BUCKET       S3 bucket for uploads (optional, local disk otherwise)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  PATHWAY_LEAD_STORE      database|none (default: database)\n")
	}

	flag.Parse()

	if *showHelp {
		flag.Usage()
		os.Exit(0)
	}

	info := version.Info{Version: appVersion, GitCommit: appGitCommit, BuildTime: appBuildTime}
	if *showVersion {
		_, _ = fmt.Println(info.String())
		os.Exit(0)
	}

	if err := run(info); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

func run(info version.Info) error {
	// Load .env files if present (development)
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := logging.New(os.Stdout, cfg.LogLevel)
	slog.SetDefault(logger)
	handler.SetErrorDetail(cfg.IsDevelopment())

	ctx := context.Background()

	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0o755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}

	slog.Info("initializing database", "path", cfg.DBPath)
	db, err := store.NewDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("initializing database: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			slog.Error("error closing database connection", "error", err)
		}
	}()

	slog.Info("running database migrations")
	if err := store.Migrate(db); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}

	if cfg.DoSeed {
		created, err := store.SeedAdmin(ctx, db, store.AdminSeed{
			Email: cfg.AdminEmail, Password: cfg.AdminPassword, Name: cfg.AdminName,
		})
		if err != nil {
			return fmt.Errorf("seeding admin user: %w", err)
		}
		if created {
			slog.Info("admin user created", "email", cfg.AdminEmail)
		}
	}
	slog.Info("database ready")

	var docs docstore.Store
	if cfg.UseMongo() {
		mongoStore, err := docstore.OpenMongo(ctx, cfg.MongoURI, cfg.MongoDatabase, logger)
		if err != nil {
			return fmt.Errorf("connecting to mongodb: %w", err)
		}
		docs = mongoStore
		slog.Info("document store ready", "backend", "mongodb", "database", cfg.MongoDatabase)
	} else {
		docs = docstore.NewSQLiteStore(db)
		slog.Info("document store ready", "backend", "sqlite")
	}
	defer func() {
		if err := docs.Close(context.Background()); err != nil {
			slog.Error("error closing document store", "error", err)
		}
	}()

	repos := repository.New(db, docs)

	homeCache := cache.New(cache.Config{
		RedisURL:   cfg.RedisURL,
		Prefix:     cfg.CachePrefix,
		DefaultTTL: cfg.HomeCacheDuration(),
		MaxSize:    cfg.CacheMaxSize,
	}, logger)
	defer func() { _ = homeCache.Close() }()

	host, err := newImageHost(cfg)
	if err != nil {
		return fmt.Errorf("initializing image host: %w", err)
	}

	geo, err := geoip.Open(cfg.GeoIPDBPath)
	if err != nil {
		slog.Warn("geoip disabled", "error", err)
	} else if geo.Enabled() {
		slog.Info("geoip lookup enabled", "path", cfg.GeoIPDBPath)
	}
	defer func() { _ = geo.Close() }()

	app := &application{
		cfg:     cfg,
		info:    info,
		logger:  logger,
		db:      db,
		docs:    docs,
		repos:   repos,
		cache:   homeCache,
		session: session.New(db, cfg.IsDevelopment()),
		home:    service.NewHomeService(repos, homeCache, cfg.HomeCacheDuration(), logger),
		leads:   service.NewLeadService(repos.Leads, repos.SystemSettings, geo, cfg.PersistLeads(), logger),
		uploads: service.NewUploadService(repos.Uploads, host, imaging.NewProcessor(imaging.DefaultMaxDimension), logger),
	}
	if !cfg.PersistLeads() {
		slog.Warn("lead store disabled, captured leads are not saved", "lead_store", cfg.LeadStore)
	}

	r, err := app.routes()
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              cfg.ServerAddr(),
		Handler:           r,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      60 * time.Second, // Longer to allow for large uploads and slow connections
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	go func() {
		slog.Info("starting server", "addr", cfg.ServerAddr(), "env", cfg.Env, "version", info.Version)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	slog.Info("server stopped")
	return nil
}

// newImageHost selects S3 when a bucket is configured and the local
// uploads directory otherwise.
func newImageHost(cfg *config.Config) (imagehost.Host, error) {
	if cfg.UseS3() {
		slog.Info("image host ready", "provider", imagehost.ProviderS3, "bucket", cfg.S3Bucket)
		return imagehost.NewS3(imagehost.S3Config{
			Bucket:    cfg.S3Bucket,
			Region:    cfg.S3Region,
			Endpoint:  cfg.S3Endpoint,
			PublicURL: cfg.S3PublicURL,
		})
	}
	slog.Info("image host ready", "provider", imagehost.ProviderLocal, "dir", cfg.UploadsDir)
	return imagehost.NewLocal(cfg.UploadsDir, cfg.UploadsBaseURL)
}
