// Klussite - Handyman Business Website and Analytics Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/klussite

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata" // Europe/Amsterdam in minimal containers

	"github.com/tomtom215/klussite/internal/analytics"
	"github.com/tomtom215/klussite/internal/api"
	"github.com/tomtom215/klussite/internal/assistant"
	"github.com/tomtom215/klussite/internal/audit"
	"github.com/tomtom215/klussite/internal/cache"
	"github.com/tomtom215/klussite/internal/config"
	"github.com/tomtom215/klussite/internal/logging"
	"github.com/tomtom215/klussite/internal/mail"
	"github.com/tomtom215/klussite/internal/scheduler"
	"github.com/tomtom215/klussite/internal/store"
	"github.com/tomtom215/klussite/internal/supervisor"
	"github.com/tomtom215/klussite/internal/supervisor/services"
	ws "github.com/tomtom215/klussite/internal/websocket"
)

const (
	contentJobTimeout = 30 * time.Minute
	auditJobTimeout   = 5 * time.Minute
	auditPruneSpec    = "30 4 * * *"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})
	logging.Info().
		Str("db_path", cfg.Database.Path).
		Str("cache", cfg.Cache.Backend).
		Bool("analytics", cfg.Analytics.Enabled()).
		Bool("assistant", cfg.AI.Enabled()).
		Bool("admin_auth", cfg.Security.AdminAuthEnabled()).
		Msg("Starting Klussite")
	if !cfg.Security.AdminAuthEnabled() {
		logging.Warn().
			Str("admin_username", cfg.Security.AdminUsername).
			Msg("Admin authentication disabled (security.allow_open_admin), admin routes need no credentials")
	}

	if err := run(cfg); err != nil {
		logging.Fatal().Err(err).Msg("Server stopped with error")
	}
	logging.Info().Msg("Application stopped gracefully")
}

func run(cfg *config.Config) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	st, err := store.Open(cfg.Database)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer func() {
		if err := st.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing store")
		}
	}()

	trail, err := newAuditTrail(ctx, cfg, st)
	if err != nil {
		return err
	}
	defer func() {
		if err := trail.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing audit trail")
		}
	}()

	responseCache, err := cache.New(cfg.Cache)
	if err != nil {
		return fmt.Errorf("init cache: %w", err)
	}
	defer func() {
		if err := responseCache.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing cache")
		}
	}()

	resolver := analytics.ChainResolver{Geocoder: analytics.NewGeocoder(cfg.Geocoder)}
	analyticsSvc := analytics.NewService(
		analytics.NewFromConfig(ctx, cfg.Analytics),
		responseCache,
		resolver,
		analytics.OptionsFromConfig(cfg.Analytics),
	)

	// A nil *OpenAIClient must stay an untyped nil Completer.
	var completer assistant.Completer
	if c := assistant.NewOpenAIClient(cfg.AI); c != nil {
		completer = c
	} else {
		logging.Warn().Msg("OPENAI_API_KEY not set, assistant answers with fallback texts")
	}
	ai := assistant.New(completer, st, analyticsSvc)
	generator := assistant.NewGenerator(ai, st, cfg.Site.BaseURL)

	mailer := mail.NewSMTPMailer(cfg.Mail)
	hub := ws.NewHub(analyticsSvc)

	handler := api.NewHandler(st, analyticsSvc, ai, generator, mailer, hub, cfg)
	handler.SetAuditLogger(trail)
	mw := api.NewChiMiddlewareFromConfig(cfg.Security)
	mw.SetAuditLogger(trail)
	router := api.NewRouter(handler, mw)

	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           router.SetupChi(),
		ReadTimeout:       cfg.Server.ReadTimeout,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
	}

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	})
	if err != nil {
		return fmt.Errorf("create supervisor tree: %w", err)
	}

	if cfg.Scheduler.Enabled || trail != nil {
		sched, err := newScheduler(cfg, generator, trail)
		if err != nil {
			return err
		}
		tree.AddDataService(services.NewSchedulerService(sched))
		logging.Info().Strs("jobs", sched.Jobs()).Msg("Scheduler added to supervisor tree")
	}
	tree.AddRealtimeService(services.NewRealtimeHubService(hub))
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))
	logging.Info().Str("addr", server.Addr).Msg("HTTP server service added")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	logging.Info().Msg("Starting supervisor tree...")
	errCh := tree.ServeBackground(ctx)

	select {
	case <-ctx.Done():
		logging.Info().Msg("Context canceled, waiting for supervisor to finish...")
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor tree error")
		}
	}
	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor shutdown error")
		}
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	for _, svc := range unstopped {
		logging.Warn().Str("service", svc.Name).Msg("Service failed to stop")
	}
	return nil
}

// newAuditTrail returns nil when auditing is disabled.
func newAuditTrail(ctx context.Context, cfg *config.Config, st *store.Store) (*audit.Logger, error) {
	if !cfg.Audit.Enabled {
		return nil, nil
	}
	auditStore := audit.NewDuckDBStore(st.Conn())
	if err := auditStore.CreateTable(ctx); err != nil {
		return nil, fmt.Errorf("init audit table: %w", err)
	}
	return audit.NewLogger(auditStore, cfg.Audit), nil
}

// newScheduler registers the weekly SEO generation run and the daily audit
// retention prune in the site's timezone.
func newScheduler(cfg *config.Config, gen *assistant.Generator, trail *audit.Logger) (*scheduler.Scheduler, error) {
	loc, err := time.LoadLocation(cfg.Site.Timezone)
	if err != nil {
		logging.Warn().Err(err).Str("timezone", cfg.Site.Timezone).Msg("Unknown timezone, scheduling in UTC")
		loc = time.UTC
	}
	sched := scheduler.New(loc)

	if cfg.Scheduler.Enabled {
		err = sched.Add("seo-content", cfg.Scheduler.ContentSchedule, contentJobTimeout, func(ctx context.Context) error {
			res, err := gen.Run(ctx, 0, cfg.Scheduler.Language)
			if err != nil {
				return err
			}
			logging.Ctx(ctx).Info().Int("profiles", res.Profiles).Int("generated", res.Generated).Msg("Scheduled content run finished")
			trail.Log(&audit.Event{
				Type:    audit.EventTypeContentGenerated,
				Outcome: audit.OutcomeSuccess,
				Actor:   audit.SystemActor,
			})
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	if trail != nil {
		err = sched.Add("audit-retention", auditPruneSpec, auditJobTimeout, func(ctx context.Context) error {
			_, err := trail.Prune(ctx)
			return err
		})
		if err != nil {
			return nil, err
		}
	}
	return sched, nil
}
