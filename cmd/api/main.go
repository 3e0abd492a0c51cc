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
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"

	"github.com/vishalmisal215/SPAS/internal/config"
	"github.com/vishalmisal215/SPAS/internal/database"
	"github.com/vishalmisal215/SPAS/internal/handler"
	"github.com/vishalmisal215/SPAS/internal/middleware"
	"github.com/vishalmisal215/SPAS/internal/resultstore"
	"github.com/vishalmisal215/SPAS/internal/router"
	"github.com/vishalmisal215/SPAS/internal/service"
	"github.com/vishalmisal215/SPAS/internal/session"
	"github.com/vishalmisal215/SPAS/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	fs := afero.NewOsFs()
	if err := fs.MkdirAll(cfg.DataDir, 0o755); err != nil {
		log.Fatalf("failed to create data directory: %v", err)
	}
	if err := fs.MkdirAll(cfg.ResultsDir, 0o755); err != nil {
		log.Fatalf("failed to create results directory: %v", err)
	}

	userStore, err := store.NewUserStore(fs, cfg.DataDir, logger)
	if err != nil {
		log.Fatalf("failed to open user store: %v", err)
	}
	facultyStore, err := store.NewFacultyStore(fs, cfg.DataDir, logger)
	if err != nil {
		log.Fatalf("failed to open faculty store: %v", err)
	}
	subjectStore, err := store.NewSubjectStore(fs, cfg.DataDir, logger)
	if err != nil {
		log.Fatalf("failed to open subject store: %v", err)
	}
	practicalStore, err := store.NewPracticalStore(fs, cfg.DataDir, logger)
	if err != nil {
		log.Fatalf("failed to open practical store: %v", err)
	}
	questionStore, err := store.NewQuestionStore(fs, cfg.DataDir, logger)
	if err != nil {
		log.Fatalf("failed to open question store: %v", err)
	}

	resultStore := resultstore.NewStore(fs, cfg.ResultsDir, logger)

	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		redisClient, err = database.ConnectRedis(cfg.RedisURL)
		if err != nil {
			log.Fatalf("failed to connect to redis: %v", err)
		}
		defer redisClient.Close()
	} else {
		logger.Warn().Msg("redis url not configured, report caching disabled")
	}

	validate := validator.New(validator.WithRequiredStructEnabled())
	codec := session.NewCodec(cfg.SessionSecret)

	catalogService := service.NewCatalogService(subjectStore, practicalStore, validate, logger)
	questionService := service.NewQuestionService(questionStore, practicalStore, validate, logger)
	reportService := service.NewReportService(userStore, resultStore, practicalStore, catalogService, redisClient, cfg.ReportCacheTTL, logger)
	authService := service.NewAuthService(userStore, facultyStore, resultStore, reportService, validate, cfg.JWTSecret, logger)
	examService := service.NewExamService(userStore, practicalStore, questionStore, resultStore, catalogService, reportService, cfg.ExamDuration, cfg.MaxQuestions, logger)

	authHandler := handler.NewAuthHandler(authService, codec, logger)
	studentHandler := handler.NewStudentHandler(examService, authService, codec, logger)
	facultyHandler := handler.NewFacultyHandler(reportService, examService, authService, logger)
	catalogHandler := handler.NewCatalogHandler(catalogService, logger)
	questionHandler := handler.NewQuestionHandler(questionService, logger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
	})

	middleware.Register(app, middleware.Config{Logger: &logger})
	router.Register(app, cfg, router.Dependencies{
		AuthHandler:     authHandler,
		StudentHandler:  studentHandler,
		FacultyHandler:  facultyHandler,
		CatalogHandler:  catalogHandler,
		QuestionHandler: questionHandler,
		JWTMiddleware:   middleware.JWTProtected(cfg.JWTSecret),
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
