package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/Al-Mansori/Edrak-Knowledge-Explorer/backend/internal/catalog"
	"github.com/Al-Mansori/Edrak-Knowledge-Explorer/backend/internal/extract"
	"github.com/Al-Mansori/Edrak-Knowledge-Explorer/backend/internal/graphstore"
	"github.com/Al-Mansori/Edrak-Knowledge-Explorer/backend/internal/kg"
	"github.com/Al-Mansori/Edrak-Knowledge-Explorer/backend/internal/loader"
	"github.com/Al-Mansori/Edrak-Knowledge-Explorer/backend/pkg/config"
	"github.com/Al-Mansori/Edrak-Knowledge-Explorer/backend/pkg/logger"
	"go.uber.org/zap"
)

func main() {
	// Initialize logger
	if err := logger.Init(os.Getenv("ENV")); err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer logger.Sync()

	log := logger.Get()
	log.Info("Starting knowledge explorer API server...")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration", zap.Error(err))
	}

	// Load document catalog
	cat, err := catalog.Load(cfg.CSVPath)
	if err != nil {
		log.Fatal("Failed to load document catalog", zap.Error(err))
	}
	log.Info("Document catalog loaded", zap.Int("documents", cat.Len()))

	// Build or load the knowledge graphs
	extractor := extract.NewExtractor(cfg.LLMBaseURL, cfg.LLMAPIKey, cfg.ModelID, cfg.MaxTripletsPerChunk)
	ld := loader.New(loader.Options{
		SummaryDir:   cfg.SummaryDir,
		PersistDir:   cfg.PersistDir,
		Rebuild:      cfg.Rebuild,
		ChunkSize:    cfg.ChunkSize,
		ChunkOverlap: cfg.ChunkOverlap,
		Concurrency:  cfg.BuildConcurrency,
	}, extractor)

	registry, err := ld.Run(context.Background())
	if err != nil {
		log.Fatal("Failed to load knowledge graphs", zap.Error(err))
	}

	// Optionally mirror the aggregate snapshot to Neo4j
	if cfg.Neo4jURI != "" {
		driver, err := neo4j.NewDriverWithContext(
			cfg.Neo4jURI,
			neo4j.BasicAuth(cfg.Neo4jUser, cfg.Neo4jPassword, ""),
		)
		if err != nil {
			log.Fatal("Failed to create Neo4j driver", zap.Error(err))
		}
		defer driver.Close(context.Background())

		ctx := context.Background()
		if err := driver.VerifyConnectivity(ctx); err != nil {
			log.Fatal("Failed to verify Neo4j connectivity", zap.Error(err))
		}

		store := graphstore.NewStore(driver)
		if g, err := registry.Resolve(""); err == nil {
			if err := store.SaveGraph(ctx, "aggregate", g); err != nil {
				log.Error("Failed to mirror aggregate snapshot to Neo4j", zap.Error(err))
			}
		}
	}

	svc := kg.NewService(registry)

	// Setup Gin router
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := setupRouter(cfg, svc, cat, log)

	// Start server
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	// Graceful shutdown
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	log.Info("Server started", zap.String("port", cfg.Port))

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited")
}

// ginLogger is a custom logger middleware for Gin
func ginLogger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		raw := c.Request.URL.RawQuery

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()

		if raw != "" {
			path = path + "?" + raw
		}

		log.Info("HTTP Request",
			zap.Int("status", status),
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.Duration("latency", latency),
			zap.String("ip", c.ClientIP()),
		)
	}
}
