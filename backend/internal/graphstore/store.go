// Package graphstore persists built knowledge-graph snapshots to Neo4j
// and materializes them back as in-memory graphs. It is optional plumbing
// around the load phase; the query engine itself never touches it.
package graphstore

import (
	"context"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/Al-Mansori/Edrak-Knowledge-Explorer/backend/internal/kg"
	apperrors "github.com/Al-Mansori/Edrak-Knowledge-Explorer/backend/pkg/errors"
	"github.com/Al-Mansori/Edrak-Knowledge-Explorer/backend/pkg/logger"
	"go.uber.org/zap"
)

// Store handles all Neo4j snapshot operations
type Store struct {
	driver neo4j.DriverWithContext
	logger *zap.Logger
}

// NewStore creates a new snapshot store
func NewStore(driver neo4j.DriverWithContext) *Store {
	return &Store{
		driver: driver,
		logger: logger.Named("graphstore"),
	}
}

// Close closes the Neo4j driver connection
func (s *Store) Close() error {
	return s.driver.Close(context.Background())
}

// ErrGraphNotFound is returned when no snapshot exists under a key
type ErrGraphNotFound struct {
	Key string
}

func (e ErrGraphNotFound) Error() string {
	return fmt.Sprintf("graph snapshot not found: %s", e.Key)
}

// SaveGraph replaces the snapshot stored under key with g. Entities and
// relations are written in insertion order with a sequence property so a
// reload reproduces the same iteration order.
func (s *Store) SaveGraph(ctx context.Context, key string, g *kg.Graph) error {
	session := s.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		_, err := tx.Run(ctx,
			`MATCH (e:Entity {graph_key: $key}) DETACH DELETE e`,
			map[string]any{"key": key},
		)
		if err != nil {
			return nil, fmt.Errorf("failed to clear snapshot: %w", err)
		}

		nodeRows := make([]map[string]any, 0, g.NodeCount())
		for i, id := range g.NodeIDs() {
			label, _ := g.NodeAttrs(id)["label"].(string)
			nodeRows = append(nodeRows, map[string]any{
				"id":    id,
				"label": label,
				"seq":   i,
			})
		}
		_, err = tx.Run(ctx, `
			UNWIND $rows AS row
			CREATE (e:Entity {graph_key: $key, id: row.id, label: row.label, seq: row.seq})
		`, map[string]any{"key": key, "rows": nodeRows})
		if err != nil {
			return nil, fmt.Errorf("failed to write entities: %w", err)
		}

		edgeRows := make([]map[string]any, 0, g.EdgeCount())
		for i, e := range g.Edges() {
			relation, _ := e.Attrs["relation"].(string)
			edgeRows = append(edgeRows, map[string]any{
				"source":   e.Source,
				"target":   e.Target,
				"relation": relation,
				"seq":      i,
			})
		}
		_, err = tx.Run(ctx, `
			UNWIND $rows AS row
			MATCH (a:Entity {graph_key: $key, id: row.source})
			MATCH (b:Entity {graph_key: $key, id: row.target})
			CREATE (a)-[:RELATES {relation: row.relation, seq: row.seq}]->(b)
		`, map[string]any{"key": key, "rows": edgeRows})
		if err != nil {
			return nil, fmt.Errorf("failed to write relations: %w", err)
		}
		return nil, nil
	})
	if err != nil {
		return err
	}

	s.logger.Info("Graph snapshot saved",
		zap.String("key", key),
		zap.Int("nodes", g.NodeCount()),
		zap.Int("edges", g.EdgeCount()),
	)
	return nil
}

// LoadGraph materializes the snapshot stored under key.
func (s *Store) LoadGraph(ctx context.Context, key string) (*kg.Graph, error) {
	session := s.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close(ctx)

	g := kg.NewGraph()

	nodeResult, err := session.Run(ctx, `
		MATCH (e:Entity {graph_key: $key})
		RETURN e.id AS id, e.label AS label
		ORDER BY e.seq
	`, map[string]any{"key": key})
	if err != nil {
		return nil, apperrors.NewGraphStoreQueryFailed("fetch entities", err)
	}
	for nodeResult.Next(ctx) {
		record := nodeResult.Record()
		id := getStringFromRecord(record, "id")
		if id == "" {
			continue
		}
		attrs := kg.Attrs{}
		if label := getStringFromRecord(record, "label"); label != "" {
			attrs["label"] = label
		}
		g.AddNode(id, attrs)
	}
	if err := nodeResult.Err(); err != nil {
		return nil, fmt.Errorf("failed to fetch entities: %w", err)
	}
	if g.NodeCount() == 0 {
		return nil, ErrGraphNotFound{Key: key}
	}

	edgeResult, err := session.Run(ctx, `
		MATCH (a:Entity {graph_key: $key})-[r:RELATES]->(b:Entity {graph_key: $key})
		RETURN a.id AS source, b.id AS target, r.relation AS relation
		ORDER BY r.seq
	`, map[string]any{"key": key})
	if err != nil {
		return nil, apperrors.NewGraphStoreQueryFailed("fetch relations", err)
	}
	for edgeResult.Next(ctx) {
		record := edgeResult.Record()
		source := getStringFromRecord(record, "source")
		target := getStringFromRecord(record, "target")
		attrs := kg.Attrs{}
		if relation := getStringFromRecord(record, "relation"); relation != "" {
			attrs["relation"] = relation
		}
		if err := g.AddEdge(source, target, attrs); err != nil {
			return nil, err
		}
	}
	if err := edgeResult.Err(); err != nil {
		return nil, fmt.Errorf("failed to fetch relations: %w", err)
	}

	return g, nil
}

// Provider adapts one stored snapshot to the query engine's provider
// contract: each call materializes an independent graph.
type Provider struct {
	store *Store
	key   string
}

var _ kg.Provider = (*Provider)(nil)

// NewProvider creates a provider for the snapshot stored under key.
func (s *Store) NewProvider(key string) *Provider {
	return &Provider{store: s, key: key}
}

// Graph loads a fresh snapshot from Neo4j.
func (p *Provider) Graph() (*kg.Graph, error) {
	return p.store.LoadGraph(context.Background(), p.key)
}

func getStringFromRecord(record *neo4j.Record, key string) string {
	val, ok := record.Get(key)
	if !ok || val == nil {
		return ""
	}
	if str, ok := val.(string); ok {
		return str
	}
	return ""
}
