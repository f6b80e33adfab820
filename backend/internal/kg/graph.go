// Package kg implements the knowledge-graph query engine: an in-memory
// undirected graph with attributed nodes and edges, plus the bounded
// projections served over the API (filtering, ego expansion, triplet
// enumeration, node-link serialization, stats).
//
// Nodes iterate in insertion order and edges in insertion order; every
// derived graph (copy, subgraph, filter output) preserves the relative
// order of its parent. That makes component downsampling and ego
// truncation deterministic across processes, not just within one.
package kg

import "fmt"

// Attrs holds arbitrary key-value attributes on a node or edge.
type Attrs map[string]any

// Edge is an unordered pair of node ids with attributes. Multiple edges
// between the same pair are permitted.
type Edge struct {
	Source string
	Target string
	Attrs  Attrs
}

// Graph is an adjacency-based undirected multigraph. The zero value is not
// usable; create one with NewGraph.
type Graph struct {
	order []string         // node ids in insertion order
	nodes map[string]Attrs // id -> attributes
	adj   map[string][]int // id -> indexes into edges
	edges []Edge
}

// NewGraph returns an empty graph.
func NewGraph() *Graph {
	return &Graph{
		nodes: make(map[string]Attrs),
		adj:   make(map[string][]int),
	}
}

// AddNode inserts a node, or merges attrs into an existing node with the
// same id.
func (g *Graph) AddNode(id string, attrs Attrs) {
	if existing, ok := g.nodes[id]; ok {
		for k, v := range attrs {
			existing[k] = v
		}
		return
	}
	a := make(Attrs, len(attrs))
	for k, v := range attrs {
		a[k] = v
	}
	g.order = append(g.order, id)
	g.nodes[id] = a
}

// ErrNodeNotFound is returned when an operation references a node id that
// is not in the graph.
type ErrNodeNotFound struct {
	ID string
}

func (e ErrNodeNotFound) Error() string {
	return fmt.Sprintf("node not found: %s", e.ID)
}

// AddEdge connects two existing nodes. Both endpoints must already be in
// the graph; edges never create nodes implicitly. A self-loop contributes
// two to the node's degree.
func (g *Graph) AddEdge(source, target string, attrs Attrs) error {
	if _, ok := g.nodes[source]; !ok {
		return ErrNodeNotFound{ID: source}
	}
	if _, ok := g.nodes[target]; !ok {
		return ErrNodeNotFound{ID: target}
	}
	a := make(Attrs, len(attrs))
	for k, v := range attrs {
		a[k] = v
	}
	idx := len(g.edges)
	g.edges = append(g.edges, Edge{Source: source, Target: target, Attrs: a})
	g.adj[source] = append(g.adj[source], idx)
	g.adj[target] = append(g.adj[target], idx)
	return nil
}

// HasNode reports whether the node id exists.
func (g *Graph) HasNode(id string) bool {
	_, ok := g.nodes[id]
	return ok
}

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int { return len(g.order) }

// EdgeCount returns the number of edges.
func (g *Graph) EdgeCount() int { return len(g.edges) }

// NodeIDs returns node ids in insertion order. The caller must not modify
// the returned slice.
func (g *Graph) NodeIDs() []string { return g.order }

// NodeAttrs returns the attribute map for a node, or nil if the node does
// not exist. The caller must not modify the returned map.
func (g *Graph) NodeAttrs(id string) Attrs { return g.nodes[id] }

// Edges returns the edge list in insertion order. The caller must not
// modify the returned slice.
func (g *Graph) Edges() []Edge { return g.edges }

// Degree returns the number of edge endpoints at a node (self-loops count
// twice), or 0 for an unknown id.
func (g *Graph) Degree(id string) int { return len(g.adj[id]) }

// Neighbors returns each distinct neighbor of a node once, ordered by the
// insertion order of the edges that reach it.
func (g *Graph) Neighbors(id string) []string {
	indexes := g.adj[id]
	if len(indexes) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(indexes))
	out := make([]string, 0, len(indexes))
	for _, i := range indexes {
		e := g.edges[i]
		other := e.Target
		if e.Target == id && e.Source != id {
			other = e.Source
		}
		if !seen[other] {
			seen[other] = true
			out = append(out, other)
		}
	}
	return out
}

// Copy returns a deep copy. Attribute maps are duplicated so the copy can
// be mutated freely.
func (g *Graph) Copy() *Graph {
	h := &Graph{
		order: append([]string(nil), g.order...),
		nodes: make(map[string]Attrs, len(g.nodes)),
		adj:   make(map[string][]int, len(g.adj)),
		edges: make([]Edge, len(g.edges)),
	}
	for id, attrs := range g.nodes {
		a := make(Attrs, len(attrs))
		for k, v := range attrs {
			a[k] = v
		}
		h.nodes[id] = a
	}
	for i, e := range g.edges {
		a := make(Attrs, len(e.Attrs))
		for k, v := range e.Attrs {
			a[k] = v
		}
		h.edges[i] = Edge{Source: e.Source, Target: e.Target, Attrs: a}
	}
	for id, idx := range g.adj {
		h.adj[id] = append([]int(nil), idx...)
	}
	return h
}

// Subgraph returns the subgraph induced on the given node ids: those nodes
// plus every edge whose both endpoints are kept. Unknown ids are ignored.
// Node order follows this graph's insertion order, not the argument order.
func (g *Graph) Subgraph(ids []string) *Graph {
	keep := make(map[string]bool, len(ids))
	for _, id := range ids {
		if g.HasNode(id) {
			keep[id] = true
		}
	}
	h := NewGraph()
	for _, id := range g.order {
		if keep[id] {
			h.AddNode(id, g.nodes[id])
		}
	}
	for _, e := range g.edges {
		if keep[e.Source] && keep[e.Target] {
			// endpoints verified above, error impossible
			_ = h.AddEdge(e.Source, e.Target, e.Attrs)
		}
	}
	return h
}

// RemoveNodes deletes the given nodes and every edge touching them,
// preserving the order of what remains.
func (g *Graph) RemoveNodes(ids []string) {
	if len(ids) == 0 {
		return
	}
	drop := make(map[string]bool, len(ids))
	for _, id := range ids {
		drop[id] = true
	}
	order := g.order[:0]
	for _, id := range g.order {
		if drop[id] {
			delete(g.nodes, id)
			continue
		}
		order = append(order, id)
	}
	g.order = order

	edges := make([]Edge, 0, len(g.edges))
	for _, e := range g.edges {
		if !drop[e.Source] && !drop[e.Target] {
			edges = append(edges, e)
		}
	}
	g.edges = edges

	g.adj = make(map[string][]int, len(g.nodes))
	for i, e := range g.edges {
		g.adj[e.Source] = append(g.adj[e.Source], i)
		g.adj[e.Target] = append(g.adj[e.Target], i)
	}
}

// ConnectedComponents returns the node sets of each connected component,
// in the order components are discovered scanning nodes in insertion
// order. Within a component, nodes appear in BFS discovery order.
func (g *Graph) ConnectedComponents() [][]string {
	var comps [][]string
	seen := make(map[string]bool, len(g.order))
	for _, start := range g.order {
		if seen[start] {
			continue
		}
		seen[start] = true
		comp := []string{start}
		for i := 0; i < len(comp); i++ {
			for _, n := range g.Neighbors(comp[i]) {
				if !seen[n] {
					seen[n] = true
					comp = append(comp, n)
				}
			}
		}
		comps = append(comps, comp)
	}
	return comps
}
