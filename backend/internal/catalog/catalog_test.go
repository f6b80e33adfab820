package catalog

import (
	"os"
	"path/filepath"
	"testing"
)

const sampleCSV = `Title,pdf_filename,content_list_filename,summary_filename,extra
Groundwater Atlas,water.pdf,water_content_list.json,water.md,ignored
Soil Survey,soil.pdf,,soil.md,
Air Quality Report,air.pdf,air_content_list.json,air.md,
`

func loadSample(t *testing.T) *Catalog {
	t.Helper()
	path := filepath.Join(t.TempDir(), "documents.csv")
	if err := os.WriteFile(path, []byte(sampleCSV), 0o644); err != nil {
		t.Fatal(err)
	}
	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	return c
}

func TestLoadDerivedFields(t *testing.T) {
	c := loadSample(t)

	if c.Len() != 3 {
		t.Fatalf("Len = %d, want 3", c.Len())
	}
	docs := c.List("", 0, 10)
	first := docs[0]
	if first.Title != "Groundwater Atlas" {
		t.Errorf("title = %q", first.Title)
	}
	if len(first.ID) != 12 {
		t.Errorf("id = %q, want 12 hex chars", first.ID)
	}
	if first.PDFURL != "/files/pdf/water.pdf" {
		t.Errorf("pdf url = %q", first.PDFURL)
	}
	if first.SummaryURL != "/files/summary/water.md" {
		t.Errorf("summary url = %q", first.SummaryURL)
	}
	// Soil Survey has no content list, so no URL is derived.
	if docs[1].ContentListURL != "" {
		t.Errorf("content list url = %q, want empty", docs[1].ContentListURL)
	}
}

func TestLoadStableIDs(t *testing.T) {
	c1 := loadSample(t)
	c2 := loadSample(t)

	d1 := c1.List("", 0, 1)[0]
	d2 := c2.List("", 0, 1)[0]
	if d1.ID != d2.ID {
		t.Errorf("ids differ across loads: %s vs %s", d1.ID, d2.ID)
	}
}

func TestLoadMissingColumn(t *testing.T) {
	path := filepath.Join(t.TempDir(), "documents.csv")
	if err := os.WriteFile(path, []byte("Title,pdf_filename\nA,b.pdf\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(path); err == nil {
		t.Error("missing required columns should fail")
	}
}

func TestListFilterAndPaging(t *testing.T) {
	c := loadSample(t)

	docs := c.List("SOIL", 0, 10)
	if len(docs) != 1 || docs[0].Title != "Soil Survey" {
		t.Errorf("filtered = %+v", docs)
	}

	docs = c.List("", 1, 1)
	if len(docs) != 1 || docs[0].Title != "Soil Survey" {
		t.Errorf("page = %+v", docs)
	}

	docs = c.List("", 10, 5)
	if docs == nil || len(docs) != 0 {
		t.Errorf("off-the-end = %v, want empty non-nil", docs)
	}

	docs = c.List("nomatch-zzz", 0, 10)
	if docs == nil || len(docs) != 0 {
		t.Errorf("no match = %v, want empty non-nil", docs)
	}
}

func TestGet(t *testing.T) {
	c := loadSample(t)
	want := c.List("air", 0, 1)[0]

	got, ok := c.Get(want.ID)
	if !ok || got.Title != "Air Quality Report" {
		t.Errorf("Get = %+v, ok=%v", got, ok)
	}

	if _, ok := c.Get("000000000000"); ok {
		t.Error("unknown id should miss")
	}
}

func TestSafeJoin(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "ok.pdf"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.Mkdir(filepath.Join(dir, "sub"), 0o755); err != nil {
		t.Fatal(err)
	}

	p, err := SafeJoin(dir, "ok.pdf")
	if err != nil || p != filepath.Join(dir, "ok.pdf") {
		t.Errorf("SafeJoin = %q, %v", p, err)
	}

	for _, bad := range []string{"", "..", "../etc/passwd", "a/b.pdf", `a\b.pdf`, "missing.pdf", "sub"} {
		if _, err := SafeJoin(dir, bad); err == nil {
			t.Errorf("SafeJoin(%q) should fail", bad)
		}
	}
}
