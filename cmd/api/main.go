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

	"hrsystem/resume-ranker/internal/config"
	"hrsystem/resume-ranker/internal/handlers"
	"hrsystem/resume-ranker/internal/logger"
	"hrsystem/resume-ranker/internal/repositories"
	"hrsystem/resume-ranker/internal/services"
)

func main() {
	// Load configuration
	cfg := config.Load()

	zapLogger, err := logger.New(cfg.Server.LogJSON, cfg.Server.Debug)
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer zapLogger.Sync()

	// Initialize database
	db, err := config.InitDatabase(cfg)
	if err != nil {
		zapLogger.Fatal("failed to initialize database", zap.Error(err))
	}
	zapLogger.Info("database connected", zap.String("db", cfg.Database.DBName))

	// Initialize repositories
	resumeRepo := repositories.NewResumeRepository(db)
	jobRepo := repositories.NewJobRepository(db)
	rankingRepo := repositories.NewRankingRepository(db)

	// Initialize services
	storageService := services.NewStorageService(cfg.Storage.UploadPath)
	if err := storageService.EnsureUploadDir(); err != nil {
		zapLogger.Fatal("failed to create upload directory", zap.Error(err))
	}

	decoder := services.NewDecoderService(zapLogger)

	gateway, err := services.NewCompletionGateway(context.Background(), cfg.Gemini, zapLogger)
	if err != nil {
		zapLogger.Fatal("failed to initialize completion gateway", zap.Error(err))
	}
	if !gateway.Configured() {
		zapLogger.Warn("no API key configured, LLM features disabled")
	}

	extractor := services.NewExtractorService(decoder, gateway, cfg.Parser, zapLogger)
	ranker := services.NewRankerService(resumeRepo, jobRepo, rankingRepo, cfg.Ranking.Concurrency, zapLogger)

	// Initialize handlers
	uploadHandler := handlers.NewUploadHandler(resumeRepo, storageService, extractor, cfg.Storage.MaxFileSize, zapLogger)
	resumeHandler := handlers.NewResumeHandler(resumeRepo, storageService, zapLogger)
	jobHandler := handlers.NewJobHandler(jobRepo)
	rankingHandler := handlers.NewRankingHandler(rankingRepo, resumeRepo, ranker)
	llmHandler := handlers.NewLLMHandler(gateway)
	analyticsHandler := handlers.NewAnalyticsHandler(resumeRepo, jobRepo, rankingRepo)

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "Resume Ranker API",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		BodyLimit:    int(cfg.Storage.MaxFileSize),
		ErrorHandler: customErrorHandler,
	})

	// Middleware
	app.Use(recover.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
		TimeFormat: "2006-01-02 15:04:05",
	}))

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	// Routes
	api := app.Group("/api/v1")

	// Health check
	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now(),
		})
	})

	api.Post("/resumes/upload", uploadHandler.HandleUpload)
	api.Get("/resumes", resumeHandler.HandleList)
	api.Get("/resumes/:id", resumeHandler.HandleGet)
	api.Delete("/resumes/:id", resumeHandler.HandleDelete)

	api.Post("/jobs", jobHandler.HandleCreate)
	api.Get("/jobs", jobHandler.HandleList)
	api.Get("/jobs/:id", jobHandler.HandleGet)
	api.Put("/jobs/:id", jobHandler.HandleUpdate)
	api.Delete("/jobs/:id", jobHandler.HandleDelete)

	api.Post("/rankings", rankingHandler.HandleRankJob)
	api.Get("/rankings/job/:id", rankingHandler.HandleListByJob)
	api.Get("/rankings/resume/:id", rankingHandler.HandleListByResume)
	api.Delete("/rankings/:id", rankingHandler.HandleDelete)

	api.Post("/llm/parse-resume", llmHandler.HandleParseResume)
	api.Post("/llm/rank-candidate", llmHandler.HandleRankCandidate)

	api.Get("/analytics/stats", analyticsHandler.HandleStats)

	// Root route
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "Resume Ranker API",
			"version": "1.0.0",
			"endpoints": []string{
				"POST /api/v1/resumes/upload",
				"GET /api/v1/resumes",
				"POST /api/v1/jobs",
				"POST /api/v1/rankings",
				"GET /api/v1/rankings/job/:id",
				"POST /api/v1/llm/parse-resume",
				"POST /api/v1/llm/rank-candidate",
				"GET /api/v1/analytics/stats",
			},
		})
	})

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		zapLogger.Info("shutting down server")
		if err := app.Shutdown(); err != nil {
			zapLogger.Error("server forced to shutdown", zap.Error(err))
		}
	}()

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	zapLogger.Info("server starting", zap.String("addr", addr))

	if err := app.Listen(addr); err != nil {
		zapLogger.Fatal("failed to start server", zap.Error(err))
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
