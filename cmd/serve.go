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

	"github.com/go-chi/chi/v5"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/Dosada05/swiss-tournament/brackets"
	"github.com/Dosada05/swiss-tournament/config"
	"github.com/Dosada05/swiss-tournament/handlers"
	"github.com/Dosada05/swiss-tournament/routes"
	"github.com/Dosada05/swiss-tournament/services"
	"github.com/Dosada05/swiss-tournament/storage"
)

const shutdownTimeout = 15 * time.Second

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadConfig()
			if err != nil {
				logger.Error("failed to load configuration", slog.Any("error", err))
				return err
			}
			return serve(cmd.Context(), cfg, logger)
		},
	}
}

func newArchiver(ctx context.Context, cfg *config.Config, logger *slog.Logger) (services.SnapshotArchiver, error) {
	r2 := storage.CloudflareR2UploaderConfig{
		AccountID:       cfg.R2AccountID,
		AccessKeyID:     cfg.R2AccessKeyID,
		SecretAccessKey: cfg.R2SecretAccessKey,
		BucketName:      cfg.R2BucketName,
		PublicBaseURL:   cfg.R2PublicBaseURL,
	}
	if r2.Empty() {
		logger.Info("snapshot archive disabled: R2 is not configured")
		return nil, nil
	}
	uploader, err := storage.NewCloudflareR2Uploader(ctx, r2)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Cloudflare R2 uploader: %w", err)
	}
	logger.Info("Cloudflare R2 uploader initialized", slog.String("bucket", cfg.R2BucketName))
	return storage.NewSnapshotArchiver(uploader), nil
}

func serve(parent context.Context, cfg *config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := openStore(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to open storage", slog.Any("error", err))
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Error("failed to close storage", slog.Any("error", err))
		} else {
			logger.Info("storage closed")
		}
	}()

	archiver, err := newArchiver(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to initialize archive", slog.Any("error", err))
		return err
	}

	wsHub := brackets.NewHub(logger)
	locks := services.NewTournamentLocks()

	tournamentService := services.NewTournamentService(store, locks, wsHub, archiver, logger)
	matchService := services.NewMatchService(store, locks, wsHub, logger)
	standingsService := services.NewStandingsService(store, locks, logger)
	pairingService := services.NewPairingService(store, locks, brackets.NewSwissGenerator(), logger)
	authService := services.NewAuthService(cfg.OrganizerPasswordHash, []byte(cfg.JWTSecretKey), cfg.TokenTTL, logger)
	if cfg.OrganizerPasswordHash == "" {
		logger.Warn("ORGANIZER_PASSWORD_HASH is empty, write endpoints are unreachable")
	}

	router := chi.NewRouter()
	routes.SetupRoutes(router, routes.Handlers{
		Auth:       handlers.NewAuthHandler(authService),
		Player:     handlers.NewPlayerHandler(tournamentService),
		Tournament: handlers.NewTournamentHandler(tournamentService, standingsService, pairingService),
		Match:      handlers.NewMatchHandler(matchService),
		WebSocket:  handlers.NewWebSocketHandler(wsHub, tournamentService, logger),
		Health:     handlers.NewHealthHandler(store),
	}, routes.Options{
		JWTSecret:      []byte(cfg.JWTSecretKey),
		AllowedOrigins: cfg.CORSAllowedOrigins,
		Logger:         logger,
	})

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return wsHub.Run(gctx)
	})
	g.Go(func() error {
		logger.Info("starting server", slog.String("address", server.Addr), slog.String("storage", cfg.StorageDriver))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down server", slog.Duration("timeout", shutdownTimeout))
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			_ = server.Close()
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("server stopped with error", slog.Any("error", err))
		return err
	}
	logger.Info("application exited")
	return nil
}
