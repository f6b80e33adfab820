package kg

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
)

// Provider supplies an independent graph snapshot per call, so downstream
// filtering can remove nodes and edges without affecting the source or
// other concurrent callers.
type Provider interface {
	Graph() (*Graph, error)
}

// Frozen wraps a prebuilt graph and hands out copies.
type Frozen struct {
	g *Graph
}

var _ Provider = (*Frozen)(nil)

// NewFrozen wraps g. The wrapped graph must not be mutated afterwards.
func NewFrozen(g *Graph) *Frozen {
	return &Frozen{g: g}
}

// Graph returns a deep copy of the wrapped graph.
func (f *Frozen) Graph() (*Graph, error) {
	return f.g.Copy(), nil
}

// Entry describes one registered graph for discovery listings.
type Entry struct {
	File       string `json:"file"`
	Stem       string `json:"stem"`
	PersistDir string `json:"persist_dir"`
	Nodes      int    `json:"nodes"`
	Edges      int    `json:"edges"`
}

// Registry maps logical keys to owned graph snapshots. It is populated
// once during the load phase and read-only afterwards; Resolve hands out
// copies, never references into the registry's storage.
type Registry struct {
	global  *Graph
	graphs  map[string]*Graph
	entries map[string]Entry
}

// NewRegistry returns an empty registry with no global graph.
func NewRegistry() *Registry {
	return &Registry{
		graphs:  make(map[string]*Graph),
		entries: make(map[string]Entry),
	}
}

// SetGlobal installs the designated aggregate graph selected by an empty
// key. The registry takes ownership of g.
func (r *Registry) SetGlobal(g *Graph) {
	r.global = g
}

// Add registers a per-document graph under its file name. The registry
// takes ownership of g; node and edge counts are cached now.
func (r *Registry) Add(file, persistDir string, g *Graph) {
	stem := strings.TrimSuffix(file, filepath.Ext(file))
	r.graphs[file] = g
	r.entries[file] = Entry{
		File:       file,
		Stem:       stem,
		PersistDir: persistDir,
		Nodes:      g.NodeCount(),
		Edges:      g.EdgeCount(),
	}
}

// Resolve returns an independent snapshot for a key. An empty key selects
// the global graph. Unknown keys are ErrNotFound; no graph is ever
// created implicitly.
func (r *Registry) Resolve(key string) (*Graph, error) {
	if key == "" {
		if r.global == nil {
			return nil, ErrNotFound{What: "global graph"}
		}
		return r.global.Copy(), nil
	}
	g, ok := r.graphs[key]
	if !ok {
		return nil, ErrNotFound{What: fmt.Sprintf("graph for file '%s'", key)}
	}
	return g.Copy(), nil
}

// List returns the registered entries sorted by key ascending.
func (r *Registry) List() []Entry {
	keys := make([]string, 0, len(r.entries))
	for k := range r.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]Entry, 0, len(keys))
	for _, k := range keys {
		out = append(out, r.entries[k])
	}
	return out
}
