// Package loader builds the per-document knowledge graphs and the global
// aggregate, reusing persisted snapshots when they exist, and populates
// the query registry. This is the only phase that writes graphs; the
// registry is read-only once Run returns.
package loader

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Al-Mansori/Edrak-Knowledge-Explorer/backend/internal/extract"
	"github.com/Al-Mansori/Edrak-Knowledge-Explorer/backend/internal/ingest"
	"github.com/Al-Mansori/Edrak-Knowledge-Explorer/backend/internal/kg"
	"github.com/Al-Mansori/Edrak-Knowledge-Explorer/backend/pkg/logger"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Persist directory layout, one subdirectory per graph.
const (
	aggregateDirName = "kg_from_summary"
	perFileDirName   = "kg_single"
)

// TripletExtractor supplies triplets for a chunk of text.
type TripletExtractor interface {
	ExtractTriplets(ctx context.Context, text string) ([]extract.Triplet, error)
}

// Options configures a load run.
type Options struct {
	SummaryDir   string
	PersistDir   string
	Rebuild      bool
	ChunkSize    int
	ChunkOverlap int
	Concurrency  int
}

// Loader builds graphs from markdown summaries.
type Loader struct {
	opts      Options
	extractor TripletExtractor
	logger    *zap.Logger
}

// New creates a loader.
func New(opts Options, extractor TripletExtractor) *Loader {
	if opts.Concurrency < 1 {
		opts.Concurrency = 1
	}
	return &Loader{
		opts:      opts,
		extractor: extractor,
		logger:    logger.Named("loader"),
	}
}

// Run builds (or loads) one graph per summary file plus the global
// aggregate, and returns the populated registry. Per-file builds run
// concurrently with bounded parallelism; any build failure aborts the
// run.
func (l *Loader) Run(ctx context.Context) (*kg.Registry, error) {
	paths, err := ingest.ListMarkdownFiles(l.opts.SummaryDir)
	if err != nil {
		return nil, fmt.Errorf("failed to list summary dir: %w", err)
	}

	type built struct {
		file       string
		persistDir string
		graph      *kg.Graph
	}
	results := make([]built, len(paths))

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(l.opts.Concurrency)
	for i, p := range paths {
		i, p := i, p
		eg.Go(func() error {
			stem := strings.TrimSuffix(filepath.Base(p), filepath.Ext(p))
			dir := filepath.Join(l.opts.PersistDir, perFileDirName, stem)
			g, err := l.BuildOrLoadFile(egCtx, p, dir)
			if err != nil {
				return fmt.Errorf("failed to build graph for %s: %w", filepath.Base(p), err)
			}
			results[i] = built{file: filepath.Base(p), persistDir: dir, graph: g}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	registry := kg.NewRegistry()
	for _, r := range results {
		registry.Add(r.file, r.persistDir, r.graph)
	}

	aggDir := filepath.Join(l.opts.PersistDir, aggregateDirName)
	agg, err := l.buildOrLoad(ctx, aggDir, func() ([]ingest.Document, error) {
		return ingest.LoadMarkdownSummaries(l.opts.SummaryDir)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build aggregate graph: %w", err)
	}
	registry.SetGlobal(agg)

	l.logger.Info("Graph registry loaded",
		zap.Int("graphs", len(results)),
		zap.Int("aggregate_nodes", agg.NodeCount()),
		zap.Int("aggregate_edges", agg.EdgeCount()),
	)
	return registry, nil
}

// BuildOrLoadFile builds the graph for a single markdown file, loading
// the persisted snapshot under dir when present and rebuild is off.
func (l *Loader) BuildOrLoadFile(ctx context.Context, mdPath, dir string) (*kg.Graph, error) {
	return l.buildOrLoad(ctx, dir, func() ([]ingest.Document, error) {
		doc, err := ingest.LoadMarkdownSummary(mdPath)
		if err != nil {
			return nil, err
		}
		return []ingest.Document{doc}, nil
	})
}

func (l *Loader) buildOrLoad(ctx context.Context, dir string, load func() ([]ingest.Document, error)) (*kg.Graph, error) {
	storePath := filepath.Join(dir, GraphStoreFile)
	if !l.opts.Rebuild {
		if _, err := os.Stat(storePath); err == nil {
			g, err := LoadGraphJSON(storePath)
			if err == nil {
				l.logger.Debug("Loaded persisted graph", zap.String("path", storePath))
				return g, nil
			}
			l.logger.Warn("Persisted graph unreadable, rebuilding",
				zap.String("path", storePath),
				zap.Error(err),
			)
		}
	}

	docs, err := load()
	if err != nil {
		return nil, err
	}
	g, err := l.buildGraph(ctx, docs)
	if err != nil {
		return nil, err
	}
	if err := SaveGraphJSON(storePath, g); err != nil {
		return nil, fmt.Errorf("failed to persist graph: %w", err)
	}
	return g, nil
}

// buildGraph chunks the documents and folds extracted triplets into one
// graph. Entity nodes get their name as label; edges carry the relation
// and the id of the chunk they came from.
func (l *Loader) buildGraph(ctx context.Context, docs []ingest.Document) (*kg.Graph, error) {
	chunks, err := ingest.SplitDocuments(docs, l.opts.ChunkSize, l.opts.ChunkOverlap)
	if err != nil {
		return nil, err
	}

	g := kg.NewGraph()
	for _, ch := range chunks {
		triplets, err := l.extractor.ExtractTriplets(ctx, ch.Text)
		if err != nil {
			return nil, err
		}
		for _, t := range triplets {
			g.AddNode(t.Subject, kg.Attrs{"label": t.Subject})
			g.AddNode(t.Object, kg.Attrs{"label": t.Object})
			if err := g.AddEdge(t.Subject, t.Object, kg.Attrs{
				"relation": t.Relation,
				"chunk_id": ch.ID,
			}); err != nil {
				return nil, err
			}
		}
	}
	return g, nil
}
