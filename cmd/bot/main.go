package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/caseflow/ratingbot/internal/adapters/database"
	"github.com/caseflow/ratingbot/internal/adapters/session"
	"github.com/caseflow/ratingbot/internal/api/handlers"
	"github.com/caseflow/ratingbot/internal/api/routes"
	"github.com/caseflow/ratingbot/internal/application/services"
	"github.com/caseflow/ratingbot/internal/infrastructure/clients/postgres"
	redisclient "github.com/caseflow/ratingbot/internal/infrastructure/clients/redis"
	"github.com/caseflow/ratingbot/internal/infrastructure/observability"
	"github.com/caseflow/ratingbot/pkg/config"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	observability.InitLogger(cfg.OTEL.ServiceName, cfg.App.Env)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize OpenTelemetry if enabled
	if cfg.OTEL.Enabled && cfg.OTEL.Endpoint != "" {
		shutdown, err := observability.Setup(
			ctx,
			cfg.OTEL.ServiceName,
			cfg.OTEL.ServiceVersion,
			cfg.OTEL.Endpoint,
		)
		if err != nil {
			log.Warn().Err(err).Msg("Failed to set up OpenTelemetry")
		} else {
			defer func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := shutdown(ctx); err != nil {
					log.Error().Err(err).Msg("Error shutting down OpenTelemetry")
				}
			}()
			log.Info().Msg("OpenTelemetry initialized successfully")
		}
	}

	// Initialize metrics
	metrics, err := observability.InitMetrics()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize metrics")
	}

	// Initialize database client; a disabled database puts the whole
	// service into storage-less demo mode rather than failing startup
	pgClient, err := postgres.NewClient(&cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize PostgreSQL client")
	}
	if pgClient.Configured() {
		defer pgClient.Close()
	} else {
		log.Warn().Msg("Database disabled, running storage-less: answers and comments will not be persisted")
	}

	// Initialize Redis client; without it the comment step degrades to
	// skip-only, so warn and continue
	redisClient, err := redisclient.NewClient(&cfg.Redis)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to initialize Redis client, comment marker disabled")
		redisClient = nil
	} else {
		defer redisClient.Close()
	}

	// Initialize adapters
	questions := services.DefaultQuestions()
	ratingAdapter := database.NewRatingAdapter(pgClient, questions)
	caseStatsAdapter := database.NewCaseStatsAdapter(pgClient)
	inviteAdapter := database.NewInviteAdapter(pgClient)
	sessionAdapter := session.NewRedisAdapter(redisClient, cfg.Survey.MarkerTTL)

	// Initialize the survey flow
	surveyService := services.NewSurveyService(
		questions,
		ratingAdapter,
		caseStatsAdapter,
		sessionAdapter,
		inviteAdapter,
		metrics,
	)

	// Initialize HTTP layer
	interactionHandler := handlers.NewInteractionHandler(surveyService, caseStatsAdapter)
	router := routes.NewRouter(interactionHandler, metrics)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      router.SetupRoutes(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", addr).Msg("Starting rating survey service")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Info().Msg("Shutting down")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Graceful shutdown failed")
	}
}
