package kg

import "testing"

func TestTripletsPerEdge(t *testing.T) {
	g := citationGraph(t)

	rows := Triplets(g)

	if len(rows) != g.EdgeCount() {
		t.Fatalf("len = %d, want one row per edge (%d)", len(rows), g.EdgeCount())
	}
	first := rows[0]
	if first["subject"] != "A" || first["relation"] != "cites" || first["object"] != "B" {
		t.Errorf("rows[0] = %v, want A-cites-B", first)
	}
	// Edge C-D has no relation and no label.
	if rows[2]["relation"] != nil {
		t.Errorf("rows[2] relation = %v, want nil", rows[2]["relation"])
	}
}

func TestTripletsRelationFallback(t *testing.T) {
	g := NewGraph()
	g.AddNode("x", nil)
	g.AddNode("y", nil)
	mustEdge(t, g, "x", "y", Attrs{"label": "related_to"})
	mustEdge(t, g, "x", "y", Attrs{"relation": "", "label": "backup"})
	mustEdge(t, g, "x", "y", Attrs{"relation": "primary", "label": "ignored"})

	rows := Triplets(g)

	if rows[0]["relation"] != "related_to" {
		t.Errorf("label fallback: got %v, want related_to", rows[0]["relation"])
	}
	if rows[1]["relation"] != "backup" {
		t.Errorf("empty relation should fall through to label: got %v", rows[1]["relation"])
	}
	if rows[2]["relation"] != "primary" {
		t.Errorf("relation should win over label: got %v", rows[2]["relation"])
	}
}

func TestTripletsPassthroughExcludesRelationKeys(t *testing.T) {
	g := NewGraph()
	g.AddNode("x", nil)
	g.AddNode("y", nil)
	mustEdge(t, g, "x", "y", Attrs{"relation": "r", "label": "l", "chunk_id": "c-1"})

	row := Triplets(g)[0]

	if row["chunk_id"] != "c-1" {
		t.Errorf("chunk_id = %v, want c-1", row["chunk_id"])
	}
	if _, ok := row["label"]; ok {
		t.Error("label should not pass through")
	}
	if len(row) != 4 {
		t.Errorf("row has %d keys, want subject/relation/object/chunk_id", len(row))
	}
}

func TestPageTriplets(t *testing.T) {
	g := citationGraph(t)
	rows := Triplets(g)

	page := PageTriplets(rows, 1, 1)

	if page.Count != 3 || page.Skip != 1 || page.Limit != 1 {
		t.Errorf("page header = %+v", page)
	}
	if len(page.Items) != 1 {
		t.Fatalf("items = %d, want 1", len(page.Items))
	}
	it := page.Items[0]
	if it["subject"] != "B" || it["relation"] != "cites" || it["object"] != "C" {
		t.Errorf("item = %v, want B-cites-C", it)
	}
}

func TestPageTripletsClamping(t *testing.T) {
	g := citationGraph(t)
	rows := Triplets(g)

	page := PageTriplets(rows, 2, 100)
	if len(page.Items) != 1 {
		t.Errorf("overlong limit: items = %d, want 1", len(page.Items))
	}

	page = PageTriplets(rows, 10, 5)
	if page.Count != 3 {
		t.Errorf("Count = %d, want 3 even off the end", page.Count)
	}
	if page.Items == nil || len(page.Items) != 0 {
		t.Errorf("off-the-end skip: items = %v, want empty non-nil slice", page.Items)
	}
}
