package main

import (
	"context"
	"io"
	"log"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"faqforge/internal/artifact"
	"faqforge/internal/config"
	"faqforge/internal/convert"
	"faqforge/internal/generate"
	"faqforge/internal/handler"
	"faqforge/internal/middleware"
	"faqforge/internal/repository/postgres"
	"faqforge/internal/service"

	"github.com/joho/godotenv"
	"github.com/rs/cors"
)

func main() {
	// Load .env file (silently ignore if it doesn't exist - for production)
	_ = godotenv.Load()

	// Load configuration
	cfg := config.Load()

	// Setup structured logging
	logLevel := slog.LevelInfo
	if cfg.Environment == "dev" {
		logLevel = slog.LevelDebug
	}

	var logOut io.Writer = os.Stdout
	if cfg.LogDir != "" {
		logFile, err := config.SetupLogFile(cfg.LogDir, cfg.MaxLogFiles)
		if err != nil {
			log.Fatalf("Failed to set up log file: %v", err)
		}
		defer logFile.Close()
		logOut = io.MultiWriter(os.Stdout, logFile)
	}

	logger := slog.New(slog.NewJSONHandler(logOut, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger) // Set as default logger

	logger.Info("server starting",
		"environment", cfg.Environment,
		"port", cfg.Port,
		"table_prefix", cfg.TablePrefix,
	)

	// Create pgx connection pool
	ctx := context.Background()
	pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to create connection pool: %v", err)
	}
	defer pool.Close()

	logger.Info("database connected",
		"max_conns", 10,
		"min_conns", 2,
	)

	// Create repositories
	repoConfig := &postgres.RepositoryConfig{
		Pool:   pool,
		Tables: postgres.NewTableNames(cfg.TablePrefix),
		Logger: logger,
	}
	faqRepo := postgres.NewFAQRepository(repoConfig)
	optionsRepo := postgres.NewOptionsRepository(repoConfig)
	txManager := postgres.NewTransactionManager(pool, logger)

	// Create the question generator client
	generator, err := generate.NewClient(generate.Config{
		BaseURL: cfg.LMBaseURL,
		APIKey:  cfg.LMAPIKey,
		Model:   cfg.LMModel,
		Timeout: cfg.LMTimeout,
	}, logger)
	if err != nil {
		log.Fatalf("Failed to create generator client: %v", err)
	}

	// Create services
	converter := convert.NewDocxConverter(logger)
	synchronizer := service.NewSynchronizer(faqRepo, txManager, logger)
	artifacts := artifact.NewWriter(logger)
	pipeline := service.NewPipelineService(converter, generator, synchronizer, artifacts, service.PipelineConfig{
		GenerationParallelism: cfg.GenParallelism,
	}, logger)
	optionsService := service.NewOptionsService(optionsRepo, logger)

	// Create handlers
	compileHandler := handler.NewCompileHandler(pipeline, cfg, logger)
	optionsHandler := handler.NewOptionsHandler(optionsService, logger)
	healthHandler := handler.NewHealthHandler(pool, logger)

	logger.Info("services initialized")

	// Create HTTP router (Go 1.22+ enhanced patterns)
	mux := http.NewServeMux()

	// Health check
	mux.HandleFunc("GET /health", healthHandler.Check)

	// Pipeline routes
	mux.HandleFunc("POST /api/compile", compileHandler.Compile)

	// Console lookup routes
	mux.HandleFunc("GET /api/options/console", optionsHandler.ListConsoles)
	mux.HandleFunc("GET /api/options/subconsole/{id}", optionsHandler.ListSubConsoles)

	// Embedded upload form
	mux.HandleFunc("GET /", handler.Index)

	// Build middleware chain
	var h http.Handler = mux

	// Apply middleware in reverse order (they wrap each other)
	h = middleware.Recovery(logger)(h)

	// CORS - must be outermost to handle OPTIONS pre-flight requests
	corsHandler := cors.New(cors.Options{
		AllowedOrigins: strings.Split(cfg.CORSOrigins, ","),
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Origin", "Content-Type", "Accept"},
	})
	h = corsHandler.Handler(h)

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      h,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 0, // Disabled: pipeline runs can outlive any fixed response window
		IdleTimeout:  60 * time.Second,
	}

	logger.Info("server listening", "addr", server.Addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("Server failed: %v", err)
	}
}
