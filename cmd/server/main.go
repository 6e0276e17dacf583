package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"skysight/internal/config"
	"skysight/internal/handler"
	"skysight/internal/hub"
	"skysight/internal/metrics"
	"skysight/internal/optimizer"
	"skysight/internal/repository/sqlite"
	"skysight/internal/service"
)

func main() {
	// Command line flags override the config file
	addr := flag.String("addr", "", "HTTP listen address")
	dbPath := flag.String("db", "", "SQLite database path")
	configPath := flag.String("config", "", "config file path")
	flag.Parse()

	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("Starting skysight server...")

	// Load configuration
	var cfg *config.Config
	var cfgPath string
	var err error
	if *configPath != "" {
		cfg, cfgPath, err = config.LoadFromPath(*configPath)
	} else {
		cfg, cfgPath, err = config.Load()
	}
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if cfgPath != "" {
		log.Printf("Config loaded: %s", cfgPath)
	}
	if *addr != "" {
		cfg.Server.Addr = *addr
	}
	if *dbPath != "" {
		cfg.Database.Path = *dbPath
	}

	// Initialize SQLite repository
	repo, err := sqlite.New(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer repo.Close()
	log.Printf("Database opened: %s", cfg.Database.Path)

	// Initialize event bus and SSE hub
	eventBus := service.NewEventBus()
	sseHub := hub.New()
	sseHub.Attach(eventBus)
	go sseHub.Run()

	// Initialize metrics
	m := metrics.New()

	// Initialize services
	cameraSvc := service.NewCameraService(repo, eventBus)
	strategySvc := service.NewStrategyService(repo, eventBus)
	ditherSvc := service.NewDitherService(repo, cameraSvc, eventBus, m,
		optimizer.Default(), service.Options{
			Workers:        cfg.Coverage.Workers,
			BufferQuadSegs: cfg.Coverage.BufferQuadSegs,
			Searcher:       cfg.Optimizer.Searcher,
			Samples:        cfg.Optimizer.Samples,
			SearchWorkers:  cfg.Optimizer.Workers,
			Seed:           cfg.Optimizer.Seed,
		})

	// Seed built-in camera footprints
	if cfg.SeedBuiltinCameras() {
		seedCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		n, err := cameraSvc.SeedBuiltins(seedCtx)
		cancel()
		if err != nil {
			log.Fatalf("Failed to seed built-in cameras: %v", err)
		}
		if n > 0 {
			log.Printf("Seeded %d built-in cameras", n)
		}
	}

	// Initialize HTTP handlers
	cameraHandler := handler.NewCameraHandler(cameraSvc)
	strategyHandler := handler.NewStrategyHandler(strategySvc)
	ditherHandler := handler.NewDitherHandler(ditherSvc)

	// Setup routes
	mux := http.NewServeMux()

	// Camera endpoints
	mux.HandleFunc("GET /api/cameras", cameraHandler.List)
	mux.HandleFunc("POST /api/cameras", cameraHandler.Create)
	mux.HandleFunc("GET /api/cameras/{name}", cameraHandler.Get)
	mux.HandleFunc("PUT /api/cameras/{name}", cameraHandler.Update)
	mux.HandleFunc("DELETE /api/cameras/{name}", cameraHandler.Delete)
	mux.HandleFunc("GET /api/cameras/{name}/footprint", cameraHandler.GetFootprint)

	// Strategy endpoints
	mux.HandleFunc("GET /api/strategies", strategyHandler.List)
	mux.HandleFunc("POST /api/strategies", strategyHandler.Create)
	mux.HandleFunc("GET /api/strategies/{id}", strategyHandler.Get)
	mux.HandleFunc("PUT /api/strategies/{id}", strategyHandler.Update)
	mux.HandleFunc("DELETE /api/strategies/{id}", strategyHandler.Delete)
	mux.HandleFunc("POST /api/strategies/{id}/evaluate", ditherHandler.EvaluateStrategy)

	// Evaluation and optimization endpoints
	mux.HandleFunc("POST /api/evaluate", ditherHandler.Evaluate)
	mux.HandleFunc("POST /api/optimize", ditherHandler.Optimize)
	mux.HandleFunc("GET /api/reports", ditherHandler.ListReports)
	mux.HandleFunc("GET /api/reports/{id}", ditherHandler.GetReport)

	// Import/export endpoints
	mux.HandleFunc("POST /api/import/yaml", cameraHandler.ImportYAML)
	mux.HandleFunc("GET /api/export/yaml", cameraHandler.ExportYAML)
	mux.HandleFunc("GET /api/export/json", cameraHandler.ExportJSON)

	// SSE events endpoint
	mux.Handle("GET /events", sseHub)

	// Operational endpoints
	mux.Handle("GET /metrics", promhttp.Handler())
	mux.HandleFunc("GET /api/healthz", handler.Healthz)

	// Apply middleware
	finalHandler := handler.Chain(mux,
		handler.Recover,
		handler.CORS,
		handler.Logger,
		handler.RequestMetrics(m),
	)

	// Create server
	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      finalHandler,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Printf("Server listening on %s", cfg.Server.Addr)
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}

	log.Println("Server stopped")
}
