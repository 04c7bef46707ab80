package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/terra-clan/nebula-guide/internal/api"
	"github.com/terra-clan/nebula-guide/internal/cleanup"
	"github.com/terra-clan/nebula-guide/internal/config"
	"github.com/terra-clan/nebula-guide/internal/health"
	"github.com/terra-clan/nebula-guide/internal/notify"
	"github.com/terra-clan/nebula-guide/internal/questionnaire"
	"github.com/terra-clan/nebula-guide/internal/session"
	"github.com/terra-clan/nebula-guide/internal/static"
	"github.com/terra-clan/nebula-guide/internal/storage"
	"github.com/terra-clan/nebula-guide/internal/wizard"
)

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	slog.Info("starting nebula-guide",
		"host", cfg.Server.Host,
		"port", cfg.Server.Port,
		"session_store", cfg.Sessions.Store,
	)

	// Create context for initialization
	initCtx, initCancel := context.WithTimeout(cmd.Context(), 30*time.Second)
	defer initCancel()

	loader, err := questionnaire.NewLoader()
	if err != nil {
		return fmt.Errorf("failed to load built-in questionnaire: %w", err)
	}
	if cfg.Questionnaire.File != "" {
		if err := loader.LoadFromFile(cfg.Questionnaire.File); err != nil {
			return err
		}
	}
	slog.Info("questionnaire loaded",
		"name", loader.Current().Name,
		"questions", len(loader.Current().Questions),
		"file", loader.Path(),
	)

	registry := health.NewRegistry(2 * time.Second)

	store, err := openSessionStore(initCtx, cfg)
	if err != nil {
		return err
	}
	defer store.Close()
	registry.Register("sessions", store)

	webhook := notify.NewWebhook(notify.WebhookConfig{
		ReportURL:  cfg.Notify.ReportURL,
		ConsultURL: cfg.Notify.ConsultURL,
		Timeout:    cfg.Notify.Timeout,
	})
	notifiers := notify.Multi{webhook}

	var recorder *notify.Recorder
	if cfg.Analytics.DSN != "" {
		repo, err := storage.NewPostgresRepository(initCtx, storage.PostgresConfig{
			DSN:      cfg.Analytics.DSN,
			MaxConns: int32(cfg.Analytics.MaxConns),
		})
		if err != nil {
			return fmt.Errorf("failed to connect analytics database: %w", err)
		}
		defer repo.Close()
		slog.Info("analytics database connected")

		registry.Register("analytics", repo)
		recorder = notify.NewRecorder(repo, 5*time.Second)
		notifiers = append(notifiers, recorder)
	}

	controller := wizard.NewController(loader, notifiers,
		wizard.WithConsultURL(cfg.Consult.FormURL))

	server := api.NewServer(cfg.Server, controller, store, registry,
		static.New(cfg.Assets.Root, cfg.Assets.Index))
	httpServer := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      server.Router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		slog.Info("HTTP server starting", "addr", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		return cleanup.NewCleaner(store, cfg.Sessions.SweepInterval).Run(gctx)
	})

	if cfg.Questionnaire.Watch {
		watcher, err := questionnaire.NewWatcher(loader, cfg.Questionnaire.Debounce)
		if err != nil {
			return err
		}
		g.Go(func() error {
			return watcher.Run(gctx)
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		slog.Info("shutting down gracefully...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			slog.Error("HTTP server shutdown error", "error", err)
		}
		if err := webhook.Close(shutdownCtx); err != nil {
			slog.Warn("pending webhook deliveries abandoned", "error", err)
		}
		if recorder != nil {
			if err := recorder.Close(shutdownCtx); err != nil {
				slog.Warn("pending event writes abandoned", "error", err)
			}
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}

	slog.Info("nebula-guide stopped")
	return nil
}

func openSessionStore(ctx context.Context, cfg *config.Config) (session.Store, error) {
	switch cfg.Sessions.Store {
	case config.StoreRedis:
		store, err := session.NewRedisStore(ctx, session.RedisConfig{
			Address:  cfg.Redis.Address,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		}, cfg.Sessions.IdleTTL)
		if err != nil {
			return nil, err
		}
		slog.Info("redis session store connected", "address", cfg.Redis.Address)
		return store, nil
	default:
		return session.NewMemoryStore(cfg.Sessions.IdleTTL), nil
	}
}
