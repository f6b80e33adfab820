package kg

// Triplet is a (subject, relation, object) row derived from one edge,
// plus any extra edge attributes passed through verbatim. The relation
// value is nil when the edge carries neither a relation nor a label.
type Triplet map[string]any

// TripletsPage is one page of the full triplet sequence. Count is the
// unpaginated total.
type TripletsPage struct {
	Count int       `json:"count"`
	Skip  int       `json:"skip"`
	Limit int       `json:"limit"`
	Items []Triplet `json:"items"`
}

// Triplets derives one triplet per edge, in edge iteration order. The
// relation comes from the edge's "relation" attribute, falling back to
// its "label" attribute; both keys are excluded from the passthrough.
func Triplets(g *Graph) []Triplet {
	rows := make([]Triplet, 0, g.EdgeCount())
	for _, e := range g.Edges() {
		row := Triplet{
			"subject":  e.Source,
			"relation": relationOf(e.Attrs),
			"object":   e.Target,
		}
		for k, v := range e.Attrs {
			if k != "relation" && k != "label" {
				row[k] = v
			}
		}
		rows = append(rows, row)
	}
	return rows
}

// relationOf mirrors attrs.get("relation") or attrs.get("label"): empty
// strings fall through, and nil means no relation at all.
func relationOf(attrs Attrs) any {
	if v, ok := attrs["relation"]; ok && v != nil && v != "" {
		return v
	}
	if v, ok := attrs["label"]; ok && v != nil && v != "" {
		return v
	}
	return nil
}

// PageTriplets slices rows to [skip : skip+limit) with Python slice
// semantics: out-of-range bounds clamp instead of failing.
func PageTriplets(rows []Triplet, skip, limit int) TripletsPage {
	page := TripletsPage{Count: len(rows), Skip: skip, Limit: limit, Items: []Triplet{}}
	if skip < 0 {
		skip = 0
	}
	if skip >= len(rows) || limit <= 0 {
		return page
	}
	end := skip + limit
	if end > len(rows) {
		end = len(rows)
	}
	page.Items = rows[skip:end]
	return page
}
