// Package catalog serves the document listing backed by documents.csv and
// resolves dataset file paths for downloads.
package catalog

import (
	"crypto/sha1"
	"encoding/csv"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Document is one catalog row with derived download URLs.
type Document struct {
	ID                  string `json:"id"`
	Title               string `json:"title"`
	PDFFilename         string `json:"pdf_filename,omitempty"`
	ContentListFilename string `json:"content_list_filename,omitempty"`
	SummaryFilename     string `json:"summary_filename,omitempty"`
	PDFURL              string `json:"pdf_url,omitempty"`
	ContentListURL      string `json:"content_list_url,omitempty"`
	SummaryURL          string `json:"summary_url,omitempty"`
}

// Catalog is the in-memory document listing. It is loaded once at startup
// and read-only afterwards.
type Catalog struct {
	docs []Document
	byID map[string]Document
}

var requiredColumns = []string{"Title", "pdf_filename", "content_list_filename", "summary_filename"}

// Load reads documents.csv. The header must contain the required columns;
// extra columns are ignored.
func Load(csvPath string) (*Catalog, error) {
	f, err := os.Open(csvPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open documents csv: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse documents csv: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("documents csv is empty")
	}

	col := make(map[string]int, len(rows[0]))
	for i, name := range rows[0] {
		col[strings.TrimSpace(name)] = i
	}
	for _, name := range requiredColumns {
		if _, ok := col[name]; !ok {
			return nil, fmt.Errorf("documents csv missing required column: %s", name)
		}
	}

	cell := func(row []string, name string) string {
		i := col[name]
		if i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	c := &Catalog{byID: make(map[string]Document, len(rows)-1)}
	for _, row := range rows[1:] {
		doc := Document{
			Title:               cell(row, "Title"),
			PDFFilename:         cell(row, "pdf_filename"),
			ContentListFilename: cell(row, "content_list_filename"),
			SummaryFilename:     cell(row, "summary_filename"),
		}
		doc.ID = rowID(doc.Title, doc.PDFFilename, doc.ContentListFilename, doc.SummaryFilename)
		if doc.PDFFilename != "" {
			doc.PDFURL = "/files/pdf/" + doc.PDFFilename
		}
		if doc.ContentListFilename != "" {
			doc.ContentListURL = "/files/content-list/" + doc.ContentListFilename
		}
		if doc.SummaryFilename != "" {
			doc.SummaryURL = "/files/summary/" + doc.SummaryFilename
		}
		c.docs = append(c.docs, doc)
		c.byID[doc.ID] = doc
	}
	return c, nil
}

// rowID derives a stable short id from the row's identifying fields.
func rowID(title, pdf, contentList, summary string) string {
	basis := fmt.Sprintf("%s|%s|%s|%s", title, pdf, contentList, summary)
	sum := sha1.Sum([]byte(basis))
	return hex.EncodeToString(sum[:])[:12]
}

// Len returns the number of documents.
func (c *Catalog) Len() int { return len(c.docs) }

// List returns documents whose title contains q (case-insensitive; empty
// q matches all), sliced to [skip : skip+limit) with clamping.
func (c *Catalog) List(q string, skip, limit int) []Document {
	matched := c.docs
	if q != "" {
		ql := strings.ToLower(q)
		matched = nil
		for _, d := range c.docs {
			if strings.Contains(strings.ToLower(d.Title), ql) {
				matched = append(matched, d)
			}
		}
	}
	if skip < 0 {
		skip = 0
	}
	if skip >= len(matched) || limit <= 0 {
		return []Document{}
	}
	end := skip + limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[skip:end]
}

// Get looks up a document by id.
func (c *Catalog) Get(id string) (Document, bool) {
	d, ok := c.byID[id]
	return d, ok
}

// SafeJoin resolves filename inside base, rejecting empty names and any
// path that escapes the base directory. The file must exist and be a
// regular file.
func SafeJoin(base, filename string) (string, error) {
	if filename == "" {
		return "", fmt.Errorf("file not specified")
	}
	if strings.Contains(filename, "..") || strings.ContainsAny(filename, `/\`) {
		return "", fmt.Errorf("invalid filename")
	}
	p := filepath.Join(base, filename)
	info, err := os.Stat(p)
	if err != nil || info.IsDir() {
		return "", fmt.Errorf("file not found")
	}
	return p, nil
}
