package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/avirmadani/skolasync/internal/backend"
	"github.com/avirmadani/skolasync/internal/config"
	"github.com/avirmadani/skolasync/internal/database"
	"github.com/avirmadani/skolasync/internal/session"
	"github.com/avirmadani/skolasync/internal/store"
	"github.com/avirmadani/skolasync/internal/syncer"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cache, err := database.ConnectRedis(ctx, cfg.RedisURL)
	if err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}
	if cache != nil {
		defer cache.Close()
	}

	validate := validator.New(validator.WithRequiredStructEnabled())

	remote := backend.NewServer(backend.Config{
		SeedEmail:    cfg.SeedEmail,
		SeedPassword: cfg.SeedPassword,
		LatencyMin:   cfg.LatencyMin,
		LatencyMax:   cfg.LatencyMax,
		CacheTTL:     cfg.AnalyticsCacheTTL,
	}, cache, nil, logger)

	entityStore := store.New(logger)
	engine := syncer.NewEngine(entityStore, remote, validate, logger)
	controller := session.NewController(remote, engine, entityStore, validate, logger)

	fetchCtx, cancel := context.WithTimeout(ctx, cfg.FetchTimeout)
	defer cancel()

	user, err := controller.Login(fetchCtx, cfg.SeedEmail, cfg.SeedPassword)
	if err != nil {
		log.Fatalf("login failed: %v", err)
	}

	snap := controller.Snapshot()
	logger.Info().
		Str("user_id", user.ID).
		Str("name", user.Name).
		Int("courses", len(snap.Courses)).
		Int("assignments", len(snap.Assignments)).
		Int("recommendations", len(snap.Recommendations)).
		Msg("dashboard loaded")

	if snap.Analytics != nil {
		logger.Info().
			Int("total_study_hours", snap.Analytics.TotalStudyHours).
			Int("courses_completed", snap.Analytics.CoursesCompleted).
			Int("current_streak", snap.Analytics.CurrentStreak).
			Msg("progress analytics")
	}

	controller.Logout()
	logger.Info().Msg("session closed")
}
