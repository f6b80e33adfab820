package kg

import "fmt"

// Ego expands a bounded breadth-first neighborhood around spec.Center and
// returns the induced subgraph. Visited nodes accumulate in discovery
// order (center first, then each hop's additions in traversal order); the
// hop loop stops early once the visited count reaches spec.MaxNodes, and
// the kept set is the first spec.MaxNodes visited nodes, which can cut a
// hop's additions arbitrarily. All edges between kept nodes are included,
// whether or not traversal used them.
func Ego(g *Graph, spec EgoSpec) (*Graph, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	if !g.HasNode(spec.Center) {
		return nil, ErrNotFound{What: fmt.Sprintf("center node '%s'", spec.Center)}
	}

	visited := []string{spec.Center}
	seen := map[string]bool{spec.Center: true}
	frontier := []string{spec.Center}

	for hop := 0; hop < spec.Depth; hop++ {
		var next []string
		for _, u := range frontier {
			for _, v := range g.Neighbors(u) {
				if !seen[v] {
					seen[v] = true
					next = append(next, v)
					visited = append(visited, v)
				}
			}
		}
		frontier = next
		if len(visited) >= spec.MaxNodes || len(next) == 0 {
			break
		}
	}

	if len(visited) > spec.MaxNodes {
		visited = visited[:spec.MaxNodes]
	}
	return g.Subgraph(visited), nil
}
