// Package ingest turns source documents (content_list JSON exports and
// markdown summaries) into plain-text documents and chunks ready for
// triplet extraction.
package ingest

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/tmc/langchaingo/textsplitter"
)

// Chunking defaults, matching the splitter settings used when the source
// datasets were first indexed.
const (
	DefaultChunkSize    = 5012
	DefaultChunkOverlap = 120
)

// Document is one unit of source text with provenance metadata.
type Document struct {
	Text     string
	Metadata map[string]any
}

// Chunk is a split piece of a document, carrying the parent document's
// metadata and its own provenance id.
type Chunk struct {
	ID       string
	Text     string
	Metadata map[string]any
}

// SplitDocuments chunks documents with a recursive character splitter.
// Chunk size and overlap fall back to the package defaults when zero.
func SplitDocuments(docs []Document, chunkSize, chunkOverlap int) ([]Chunk, error) {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	if chunkOverlap < 0 {
		chunkOverlap = DefaultChunkOverlap
	}
	splitter := textsplitter.NewRecursiveCharacter(
		textsplitter.WithChunkSize(chunkSize),
		textsplitter.WithChunkOverlap(chunkOverlap),
	)

	var chunks []Chunk
	for _, doc := range docs {
		pieces, err := splitter.SplitText(doc.Text)
		if err != nil {
			return nil, fmt.Errorf("failed to split document: %w", err)
		}
		for _, p := range pieces {
			if p == "" {
				continue
			}
			meta := make(map[string]any, len(doc.Metadata))
			for k, v := range doc.Metadata {
				meta[k] = v
			}
			chunks = append(chunks, Chunk{
				ID:       uuid.NewString(),
				Text:     p,
				Metadata: meta,
			})
		}
	}
	return chunks, nil
}
