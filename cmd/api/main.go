package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"

	"github.com/Bharath8080/interview-assessment-ai/internal/config"
	"github.com/Bharath8080/interview-assessment-ai/internal/handlers"
	"github.com/Bharath8080/interview-assessment-ai/internal/logger"
	"github.com/Bharath8080/interview-assessment-ai/internal/repositories"
	"github.com/Bharath8080/interview-assessment-ai/internal/services"
	"github.com/Bharath8080/interview-assessment-ai/internal/taxonomy"
)

func main() {
	cfg := config.Load()

	zlog, err := logger.New(cfg.Log.JSON, cfg.Log.Debug)
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer zlog.Sync()

	// Both provider keys must be present before any pipeline can start.
	if err := cfg.Validate(); err != nil {
		zlog.Fatal("configuration error", zap.Error(err))
	}

	rubric := taxonomy.Default()
	if err := rubric.Validate(); err != nil {
		zlog.Fatal("invalid assessment taxonomy", zap.Error(err))
	}

	// Repositories
	interviewRepo := repositories.NewInterviewRepository()
	assessRepo := repositories.NewAssessmentRepository()

	// Services
	storageService := services.NewStorageService(cfg.Storage.UploadPath, cfg.Storage.MaxFileSize)
	if err := storageService.EnsureUploadDir(); err != nil {
		zlog.Fatal("failed to create upload directory", zap.Error(err))
	}

	transcriptionService := services.NewTranscriptionService(cfg.Transcription, zlog)

	ctx := context.Background()
	provider, err := services.NewModelProvider(ctx, cfg.Model)
	if err != nil {
		zlog.Fatal("failed to initialize model provider", zap.Error(err))
	}
	zlog.Info("model provider initialized",
		zap.String("provider", provider.Name()),
		zap.String("model", provider.Model()))

	analyzerService := services.NewAnalyzerService(provider, cfg.Model.MaxRetries, cfg.Model.RetryDelay, zlog)

	pipelineService := services.NewPipelineService(
		assessRepo,
		interviewRepo,
		transcriptionService,
		analyzerService,
		storageService,
		rubric,
		zlog,
	)

	exporterService := services.NewExporterService(rubric)

	worker := services.NewWorker(assessRepo, pipelineService, cfg.Worker.Concurrency, zlog)
	worker.Start(ctx)

	// Handlers
	uploadHandler := handlers.NewUploadHandler(interviewRepo, storageService, cfg.Storage.MaxFileSize, zlog)
	assessHandler := handlers.NewAssessHandler(assessRepo, interviewRepo, worker, rubric)
	resultHandler := handlers.NewResultHandler(assessRepo, exporterService)

	app := fiber.New(fiber.Config{
		AppName:      "Interview Assessment AI",
		ReadTimeout:  10 * time.Minute,
		WriteTimeout: 30 * time.Second,
		BodyLimit:    int(cfg.Storage.MaxFileSize) + 1024*1024,
		ErrorHandler: customErrorHandler,
	})

	app.Use(recover.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
		TimeFormat: "2006-01-02 15:04:05",
	}))

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,DELETE,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	api := app.Group("/api/v1")

	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now(),
		})
	})

	api.Post("/interviews", uploadHandler.HandleUpload)
	api.Post("/assessments", assessHandler.HandleAssess)
	api.Get("/assessments/:id", resultHandler.HandleGetResult)
	api.Get("/assessments/:id/export", resultHandler.HandleExport)
	api.Delete("/assessments/:id", resultHandler.HandleDelete)

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "Interview Assessment AI",
			"version": "1.0.0",
			"endpoints": []string{
				"POST /api/v1/interviews",
				"POST /api/v1/assessments",
				"GET /api/v1/assessments/:id",
				"GET /api/v1/assessments/:id/export",
				"DELETE /api/v1/assessments/:id",
			},
		})
	})

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		zlog.Info("shutting down server")
		worker.Stop()
		if err := app.Shutdown(); err != nil {
			zlog.Error("server forced to shutdown", zap.Error(err))
		}
	}()

	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	zlog.Info("server starting", zap.String("addr", addr))

	if err := app.Listen(addr); err != nil {
		zlog.Fatal("failed to start server", zap.Error(err))
	}
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}

	return c.Status(code).JSON(fiber.Map{
		"error": err.Error(),
		"code":  code,
	})
}
