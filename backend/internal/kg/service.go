package kg

import (
	"github.com/Al-Mansori/Edrak-Knowledge-Explorer/backend/pkg/logger"
	"go.uber.org/zap"
)

// Service is the query façade: it resolves a graph snapshot from the
// registry and runs one projection over it. Every call works on a private
// copy; no locking happens here because nothing shared is mutated.
type Service struct {
	registry *Registry
	logger   *zap.Logger
}

// NewService creates a query service over a populated registry.
func NewService(registry *Registry) *Service {
	return &Service{
		registry: registry,
		logger:   logger.Get(),
	}
}

// List enumerates the registered graphs sorted by key.
func (s *Service) List() []Entry {
	return s.registry.List()
}

// NodeLink resolves a graph, applies the filter pipeline, and serializes
// the result.
func (s *Service) NodeLink(key string, spec FilterSpec) (NodeLink, error) {
	g, err := s.registry.Resolve(key)
	if err != nil {
		return NodeLink{}, err
	}
	h, err := Filtered(g, spec)
	if err != nil {
		return NodeLink{}, err
	}
	s.logger.Debug("node-link view computed",
		zap.String("key", key),
		zap.Int("nodes", h.NodeCount()),
		zap.Int("edges", h.EdgeCount()),
	)
	return ToNodeLink(h), nil
}

// Neighbors resolves a graph and serializes the bounded ego subgraph
// around spec.Center.
func (s *Service) Neighbors(key string, spec EgoSpec) (NodeLink, error) {
	g, err := s.registry.Resolve(key)
	if err != nil {
		return NodeLink{}, err
	}
	h, err := Ego(g, spec)
	if err != nil {
		return NodeLink{}, err
	}
	return ToNodeLink(h), nil
}

// Triplets resolves a graph and returns one page of its derived triplet
// sequence.
func (s *Service) Triplets(key string, skip, limit int) (TripletsPage, error) {
	if skip < 0 {
		return TripletsPage{}, ErrInvalidArgument{Field: "skip", Reason: "must be >= 0"}
	}
	if limit < 1 {
		return TripletsPage{}, ErrInvalidArgument{Field: "limit", Reason: "must be >= 1"}
	}
	g, err := s.registry.Resolve(key)
	if err != nil {
		return TripletsPage{}, err
	}
	return PageTriplets(Triplets(g), skip, limit), nil
}

// Stats resolves a graph and returns its structural summary.
func (s *Service) Stats(key string) (Stats, error) {
	g, err := s.registry.Resolve(key)
	if err != nil {
		return Stats{}, err
	}
	return StatsOf(g), nil
}
