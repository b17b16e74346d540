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
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/InMyDream21/ai-cv-evaluator-gemini/internal/config"
	"github.com/InMyDream21/ai-cv-evaluator-gemini/internal/handlers"
	"github.com/InMyDream21/ai-cv-evaluator-gemini/internal/repositories"
	"github.com/InMyDream21/ai-cv-evaluator-gemini/internal/services"
)

func main() {
	// Load configuration
	cfg := config.Load()
	log.Println("✅ Config loaded successfully")

	// Initialize database
	db, err := config.InitDatabase(cfg)
	if err != nil {
		log.Fatalf("❌ Failed to initialize database: %v", err)
	}

	// Initialize repositories
	uploadRepo := repositories.NewUploadRepository(db)
	jobRepo := repositories.NewJobRepository(db)
	embeddingRepo := repositories.NewEmbeddingRepository(db)
	log.Println("✅ Repositories initialized successfully")

	// Initialize services
	storageService := services.NewStorageService(cfg.Storage.UploadPath)
	if err := storageService.EnsureUploadDir(); err != nil {
		log.Fatalf("❌ Failed to create upload directory: %v", err)
	}

	parserService := services.NewDocumentParserService()
	log.Println("✅ Services initialized successfully")

	// Initialize Gemini AI behind the retry schedule
	geminiService, err := services.NewGeminiService(cfg.Gemini.APIKey)
	if err != nil {
		log.Fatalf("❌ Failed to initialize Gemini AI: %v", err)
	}
	backoff := services.NewBackoff(cfg.Retry.Delays, cfg.Retry.Jitter)
	llm := services.NewResilientGemini(geminiService, backoff)
	log.Println("✅ Gemini AI initialized successfully")

	// Initialize retriever
	retriever, err := buildRetriever(cfg, embeddingRepo, llm)
	if err != nil {
		log.Fatalf("❌ Failed to initialize retriever: %v", err)
	}
	log.Printf("✅ Retriever initialized (%s backend)\n", cfg.Retrieval.Backend)

	// Load the rubric used as the project-track retrieval query
	rubricText, err := parserService.ExtractText(cfg.Reference.RubricPath)
	if err != nil {
		log.Fatalf("❌ Failed to load scoring rubric from %s: %v", cfg.Reference.RubricPath, err)
	}

	// Initialize evaluator
	evaluatorService := services.NewEvaluatorService(
		jobRepo,
		uploadRepo,
		retriever,
		llm,
		rubricText,
		cfg.Retrieval.TopK,
		cfg.Gemini.ScoreTemperature,
		cfg.Gemini.SummaryTemperature,
	)
	log.Println("✅ Evaluator service initialized")

	// Initialize worker
	worker := services.NewWorker(
		jobRepo,
		evaluatorService,
		cfg.Worker.Concurrency,
	)
	log.Println("✅ Worker initialized successfully")

	// Start worker
	ctx := context.Background()
	worker.Start(ctx)
	log.Println("✅ Worker started successfully")

	// Initialize Handlers
	uploadHandler := handlers.NewUploadHandler(
		uploadRepo,
		storageService,
		parserService,
		cfg.Storage.MaxFileSize,
	)
	evaluateHandler := handlers.NewEvaluationHandler(
		jobRepo,
		uploadRepo,
		worker,
	)

	resultHandler := handlers.NewResultHandler(jobRepo)
	log.Println("✅ Handlers initialized")

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "AI CV Evaluator API",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		BodyLimit:    int(cfg.Storage.MaxFileSize),
		ErrorHandler: customErrorHandler,
	})

	// Middleware
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
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

	// API endpoints
	api.Post("/upload", uploadHandler.HandleUpload)
	api.Post("/evaluate", evaluateHandler.HandleEvaluate)
	api.Get("/result/:id", resultHandler.HandleGetResult)

	// Root route
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "AI CV Evaluator API",
			"version": "1.0.0",
			"endpoints": []string{
				"POST /api/v1/upload",
				"POST /api/v1/evaluate",
				"GET /api/v1/result/:id",
			},
		})
	})

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		log.Println("\n🛑 Shutting down server...")
		worker.Stop()
		if err := app.Shutdown(); err != nil {
			log.Printf("❌ Server forced to shutdown: %v", err)
		}
	}()

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Printf("🚀 Server starting on %s\n", addr)

	if err := app.Listen(addr); err != nil {
		log.Fatalf("❌ Failed to start server: %v", err)
	}
}

func buildRetriever(cfg *config.Config, embeddingRepo repositories.EmbeddingRepository, llm services.GeminiService) (services.Retriever, error) {
	if cfg.Retrieval.Backend == "qdrant" {
		return services.NewQdrantRetriever(
			cfg.Qdrant.URL,
			cfg.Qdrant.APIKey,
			cfg.Qdrant.Collection,
			llm,
		)
	}

	store := services.NewSQLVectorStore(embeddingRepo)
	return services.NewLocalRetriever(store, llm), nil
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
