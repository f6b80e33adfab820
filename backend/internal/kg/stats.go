package kg

// Stats is a direct structural summary of a graph, no filtering applied.
type Stats struct {
	Nodes               int `json:"nodes"`
	Edges               int `json:"edges"`
	ConnectedComponents int `json:"connected_components"`
}

// StatsOf computes node, edge, and connected-component counts.
func StatsOf(g *Graph) Stats {
	return Stats{
		Nodes:               g.NodeCount(),
		Edges:               g.EdgeCount(),
		ConnectedComponents: len(g.ConnectedComponents()),
	}
}
