// Command indexer builds the knowledge-graph snapshots offline: one graph
// per markdown summary plus the global aggregate, persisted under the
// store directory the server reads at startup. With NEO4J_URI set the
// snapshots are mirrored to Neo4j as well.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/Al-Mansori/Edrak-Knowledge-Explorer/backend/internal/extract"
	"github.com/Al-Mansori/Edrak-Knowledge-Explorer/backend/internal/graphstore"
	"github.com/Al-Mansori/Edrak-Knowledge-Explorer/backend/internal/kg"
	"github.com/Al-Mansori/Edrak-Knowledge-Explorer/backend/internal/loader"
	"github.com/Al-Mansori/Edrak-Knowledge-Explorer/backend/pkg/config"
	"github.com/Al-Mansori/Edrak-Knowledge-Explorer/backend/pkg/logger"
	"go.uber.org/zap"
)

func main() {
	if err := logger.Init(os.Getenv("ENV")); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()
	log := logger.Get()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration", zap.Error(err))
	}

	// Flags override the environment for one-off runs.
	summaryDir := flag.String("summary-dir", cfg.SummaryDir, "directory of markdown summaries")
	persistDir := flag.String("persist-dir", cfg.PersistDir, "directory for persisted graph snapshots")
	rebuild := flag.Bool("rebuild", cfg.Rebuild, "ignore persisted snapshots and rebuild from text")
	maxTriplets := flag.Int("max-triplets-per-chunk", cfg.MaxTripletsPerChunk, "triplet cap per text chunk")
	chunkSize := flag.Int("chunk-size", cfg.ChunkSize, "chunk size in characters")
	chunkOverlap := flag.Int("chunk-overlap", cfg.ChunkOverlap, "chunk overlap in characters")
	concurrency := flag.Int("concurrency", cfg.BuildConcurrency, "parallel per-file builds")
	flag.Parse()

	extractor := extract.NewExtractor(cfg.LLMBaseURL, cfg.LLMAPIKey, cfg.ModelID, *maxTriplets)
	ld := loader.New(loader.Options{
		SummaryDir:   *summaryDir,
		PersistDir:   *persistDir,
		Rebuild:      *rebuild,
		ChunkSize:    *chunkSize,
		ChunkOverlap: *chunkOverlap,
		Concurrency:  *concurrency,
	}, extractor)

	ctx := context.Background()
	registry, err := ld.Run(ctx)
	if err != nil {
		log.Fatal("Graph build failed", zap.Error(err))
	}

	for _, e := range registry.List() {
		fmt.Printf("%s: %d nodes, %d edges (%s)\n", e.File, e.Nodes, e.Edges, e.PersistDir)
	}
	if g, err := registry.Resolve(""); err == nil {
		fmt.Printf("aggregate: %d nodes, %d edges\n", g.NodeCount(), g.EdgeCount())
	}

	if cfg.Neo4jURI != "" {
		if err := mirrorToNeo4j(ctx, cfg, registry); err != nil {
			log.Fatal("Neo4j mirror failed", zap.Error(err))
		}
	}
}

func mirrorToNeo4j(ctx context.Context, cfg *config.Config, registry *kg.Registry) error {
	driver, err := neo4j.NewDriverWithContext(cfg.Neo4jURI,
		neo4j.BasicAuth(cfg.Neo4jUser, cfg.Neo4jPassword, ""))
	if err != nil {
		return err
	}
	if err := driver.VerifyConnectivity(ctx); err != nil {
		driver.Close(ctx)
		return err
	}

	store := graphstore.NewStore(driver)
	defer store.Close()

	for _, e := range registry.List() {
		g, err := registry.Resolve(e.File)
		if err != nil {
			return err
		}
		if err := store.SaveGraph(ctx, e.File, g); err != nil {
			return err
		}
	}
	g, err := registry.Resolve("")
	if err != nil {
		return err
	}
	return store.SaveGraph(ctx, "aggregate", g)
}
