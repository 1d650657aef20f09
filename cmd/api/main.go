package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"

	"github.com/brightpath-mentorship/console-api/internal/config"
	"github.com/brightpath-mentorship/console-api/internal/database"
	"github.com/brightpath-mentorship/console-api/internal/handler"
	"github.com/brightpath-mentorship/console-api/internal/middleware"
	"github.com/brightpath-mentorship/console-api/internal/models"
	"github.com/brightpath-mentorship/console-api/internal/repository"
	"github.com/brightpath-mentorship/console-api/internal/router"
	"github.com/brightpath-mentorship/console-api/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	db, err := database.ConnectPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := db.AutoMigrate(
		&models.Teen{},
		&models.Challenge{},
		&models.Task{},
		&models.Submission{},
		&models.Badge{},
		&models.TeenBadge{},
		&models.RaffleDraw{},
	); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	redisClient, err := database.ConnectRedis(cfg.RedisURL)
	if err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}
	defer redisClient.Close()

	// Event publishing degrades gracefully when no broker is configured.
	var events *nats.Conn
	if cfg.NATSURL != "" {
		events, err = nats.Connect(cfg.NATSURL)
		if err != nil {
			log.Fatalf("failed to connect to nats: %v", err)
		}
		defer events.Drain()
	}

	validate := validator.New(validator.WithRequiredStructEnabled())

	challengeRepo := repository.NewChallengeRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	submissionRepo := repository.NewSubmissionRepository(db)
	badgeRepo := repository.NewBadgeRepository(db)
	analyticsRepo := repository.NewAnalyticsRepository(db)
	raffleRepo := repository.NewRaffleRepository(db)

	challengeService := service.NewChallengeService(challengeRepo, validate, logger)
	taskService := service.NewTaskService(taskRepo, challengeRepo, validate, logger)
	submissionService := service.NewSubmissionService(submissionRepo, taskRepo, validate, logger)
	reviewService := service.NewReviewService(submissionRepo, validate, redisClient, events, logger)
	analyticsService := service.NewAnalyticsService(analyticsRepo, redisClient, cfg.AnalyticsCacheTTL, logger)
	badgeService := service.NewBadgeService(badgeRepo, challengeRepo, validate, logger)
	raffleService := service.NewRaffleService(raffleRepo, validate, logger)

	challengeHandler := handler.NewChallengeHandler(challengeService, taskService, badgeService, logger)
	taskHandler := handler.NewTaskHandler(taskService, logger)
	submissionHandler := handler.NewSubmissionHandler(submissionService, reviewService, logger)
	analyticsHandler := handler.NewAnalyticsHandler(analyticsService, logger)
	badgeHandler := handler.NewBadgeHandler(badgeService, logger)
	raffleHandler := handler.NewRaffleHandler(raffleService, logger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
	})

	middleware.Register(app, middleware.Config{Logger: &logger})
	router.Register(app, cfg, router.Dependencies{
		ChallengeHandler:  challengeHandler,
		TaskHandler:       taskHandler,
		SubmissionHandler: submissionHandler,
		AnalyticsHandler:  analyticsHandler,
		BadgeHandler:      badgeHandler,
		RaffleHandler:     raffleHandler,
		JWTMiddleware:     middleware.JWTProtected(cfg.JWTSecret),
		StaffGuard:        middleware.RequireStaff(),
	})

	go func() {
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	waitForShutdown(app)
}

func waitForShutdown(app *fiber.App) {
	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-shutdownCtx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}

	log.Println("server stopped")
}
