package loader

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/Al-Mansori/Edrak-Knowledge-Explorer/backend/internal/kg"
)

// GraphStoreFile is the persisted snapshot name inside each graph's
// persist directory.
const GraphStoreFile = "graph_store.json"

type storedGraph struct {
	Nodes []storedNode `json:"nodes"`
	Edges []storedEdge `json:"edges"`
}

type storedNode struct {
	ID    string   `json:"id"`
	Attrs kg.Attrs `json:"attrs,omitempty"`
}

type storedEdge struct {
	Source string   `json:"source"`
	Target string   `json:"target"`
	Attrs  kg.Attrs `json:"attrs,omitempty"`
}

// SaveGraphJSON writes a graph snapshot, creating the directory first.
// Node and edge order is preserved so a reload iterates identically.
func SaveGraphJSON(path string, g *kg.Graph) error {
	stored := storedGraph{
		Nodes: make([]storedNode, 0, g.NodeCount()),
		Edges: make([]storedEdge, 0, g.EdgeCount()),
	}
	for _, id := range g.NodeIDs() {
		stored.Nodes = append(stored.Nodes, storedNode{ID: id, Attrs: g.NodeAttrs(id)})
	}
	for _, e := range g.Edges() {
		stored.Edges = append(stored.Edges, storedEdge{Source: e.Source, Target: e.Target, Attrs: e.Attrs})
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	raw, err := json.Marshal(stored)
	if err != nil {
		return err
	}
	return os.WriteFile(path, raw, 0o644)
}

// LoadGraphJSON reads a snapshot written by SaveGraphJSON.
func LoadGraphJSON(path string) (*kg.Graph, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var stored storedGraph
	if err := json.Unmarshal(raw, &stored); err != nil {
		return nil, err
	}

	g := kg.NewGraph()
	for _, n := range stored.Nodes {
		g.AddNode(n.ID, n.Attrs)
	}
	for _, e := range stored.Edges {
		if err := g.AddEdge(e.Source, e.Target, e.Attrs); err != nil {
			return nil, err
		}
	}
	return g, nil
}
