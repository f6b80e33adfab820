package kg

import "fmt"

// ErrNotFound is returned when a registry key or an ego center does not
// resolve to anything. It maps to a client-visible 404 at the boundary.
type ErrNotFound struct {
	What string
}

func (e ErrNotFound) Error() string {
	return fmt.Sprintf("%s not found", e.What)
}

// ErrInvalidArgument is returned when a query parameter is outside its
// documented bounds. No traversal happens after a validation failure.
type ErrInvalidArgument struct {
	Field  string
	Reason string
}

func (e ErrInvalidArgument) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// FilterSpec drives the filter engine: an optional case-insensitive
// substring on node id/label, a minimum degree, and a node cap enforced
// by component-bounded downsampling.
type FilterSpec struct {
	Query     string
	MinDegree int
	MaxNodes  int
}

// Validate checks the documented bounds.
func (s FilterSpec) Validate() error {
	if s.MinDegree < 0 {
		return ErrInvalidArgument{Field: "min_degree", Reason: "must be >= 0"}
	}
	if s.MaxNodes < 1 {
		return ErrInvalidArgument{Field: "max_nodes", Reason: "must be >= 1"}
	}
	return nil
}

// EgoSpec drives ego-subgraph expansion around a center node.
type EgoSpec struct {
	Center   string
	Depth    int
	MaxNodes int
}

// Validate checks the documented bounds.
func (s EgoSpec) Validate() error {
	if s.Center == "" {
		return ErrInvalidArgument{Field: "center", Reason: "must not be empty"}
	}
	if s.Depth < 1 || s.Depth > 4 {
		return ErrInvalidArgument{Field: "depth", Reason: "must be in [1,4]"}
	}
	if s.MaxNodes < 1 {
		return ErrInvalidArgument{Field: "max_nodes", Reason: "must be >= 1"}
	}
	return nil
}
