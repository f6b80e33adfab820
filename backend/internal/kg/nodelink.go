package kg

import "fmt"

// NodeLink is the wire-friendly flat node/edge representation consumed by
// visualization front ends.
type NodeLink struct {
	Nodes []map[string]any `json:"nodes"`
	Edges []map[string]any `json:"edges"`
}

// ToNodeLink serializes a graph deterministically. Node label falls back
// to the node id and degree is computed on g as given (the already
// filtered or expanded graph). Edge ids are synthesized as e0, e1, ... in
// iteration order and are not stable across different filterings of the
// same underlying graph. Edge label comes from the "relation" attribute
// only; there is no generic label fallback for edges.
func ToNodeLink(g *Graph) NodeLink {
	out := NodeLink{
		Nodes: make([]map[string]any, 0, g.NodeCount()),
		Edges: make([]map[string]any, 0, g.EdgeCount()),
	}

	for _, id := range g.NodeIDs() {
		m := make(map[string]any)
		for k, v := range g.NodeAttrs(id) {
			m[k] = v
		}
		m["id"] = id
		if _, ok := m["label"]; !ok {
			m["label"] = id
		}
		if _, ok := m["degree"]; !ok {
			m["degree"] = g.Degree(id)
		}
		out.Nodes = append(out.Nodes, m)
	}

	for i, e := range g.Edges() {
		m := make(map[string]any)
		for k, v := range e.Attrs {
			m[k] = v
		}
		if _, ok := m["id"]; !ok {
			m["id"] = fmt.Sprintf("e%d", i)
		}
		m["source"] = e.Source
		m["target"] = e.Target
		if rel, ok := m["relation"]; ok {
			if _, has := m["label"]; !has {
				m["label"] = rel
			}
		}
		out.Edges = append(out.Edges, m)
	}

	return out
}
