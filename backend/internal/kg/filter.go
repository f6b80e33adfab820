package kg

import (
	"sort"
	"strings"
)

// Filtered applies the filter pipeline to a private copy of g: degree
// filter, then substring filter, then component-bounded downsampling.
// Degrees for the degree filter are taken from the graph as received by
// that step, not recomputed after later removals. A zero-node result is a
// valid empty graph, not an error.
func Filtered(g *Graph, spec FilterSpec) (*Graph, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	h := g.Copy()

	if spec.MinDegree > 0 {
		var drop []string
		for _, id := range h.NodeIDs() {
			if h.Degree(id) < spec.MinDegree {
				drop = append(drop, id)
			}
		}
		h.RemoveNodes(drop)
	}

	if spec.Query != "" {
		ql := strings.ToLower(spec.Query)
		var drop []string
		for _, id := range h.NodeIDs() {
			label, _ := h.NodeAttrs(id)["label"].(string)
			if !strings.Contains(strings.ToLower(id), ql) &&
				!strings.Contains(strings.ToLower(label), ql) {
				drop = append(drop, id)
			}
		}
		h.RemoveNodes(drop)
	}

	if h.NodeCount() > spec.MaxNodes {
		comps := h.ConnectedComponents()
		// Largest components first; ties keep discovery order.
		sort.SliceStable(comps, func(i, j int) bool {
			return len(comps[i]) > len(comps[j])
		})
		var keep []string
		for _, c := range comps {
			if len(keep)+len(c) > spec.MaxNodes {
				break
			}
			keep = append(keep, c...)
		}
		h = h.Subgraph(keep)
	}

	return h, nil
}
