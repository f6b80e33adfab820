package ingest

import (
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	apperrors "github.com/Al-Mansori/Edrak-Knowledge-Explorer/backend/pkg/errors"
	"github.com/Al-Mansori/Edrak-Knowledge-Explorer/backend/pkg/logger"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

var frontmatterRe = regexp.MustCompile(`(?s)^---\s*\n(.*?)\n---\s*\n?`)

// ParseFrontmatter splits optional YAML frontmatter from a markdown body.
// When no frontmatter is present, or it fails to parse, the metadata map
// is empty and the body is returned as-is (minus the stripped block).
func ParseFrontmatter(text string) (map[string]any, string) {
	m := frontmatterRe.FindStringSubmatchIndex(text)
	if m == nil {
		return map[string]any{}, text
	}
	raw := text[m[2]:m[3]]
	body := text[m[1]:]

	var meta map[string]any
	if err := yaml.Unmarshal([]byte(raw), &meta); err != nil || meta == nil {
		return map[string]any{}, body
	}
	return meta, body
}

// ExtractTitle returns the first ATX '# ' heading of a markdown body, or
// an empty string.
func ExtractTitle(body string) string {
	for _, line := range strings.Split(body, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "# ") {
			return strings.TrimSpace(line[2:])
		}
	}
	return ""
}

// LoadMarkdownSummary loads one markdown summary file into a document.
// The title comes from frontmatter when present, else from the first
// heading; remaining frontmatter keys are merged into the metadata.
func LoadMarkdownSummary(path string) (Document, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Document{}, apperrors.NewIngestParseFailed(filepath.Base(path), err)
	}

	fm, body := ParseFrontmatter(string(raw))
	title, _ := fm["title"].(string)
	if title == "" {
		title = ExtractTitle(body)
	}

	name := filepath.Base(path)
	meta := map[string]any{
		"source_type":  "summary_md",
		"summary_file": strings.TrimSuffix(name, filepath.Ext(name)),
		"title":        title,
	}
	for k, v := range fm {
		if _, exists := meta[k]; !exists {
			meta[k] = v
		}
	}

	body = strings.TrimSpace(body)
	if body == "" {
		return Document{}, apperrors.NewIngestEmptyDocument(name)
	}
	return Document{Text: body, Metadata: meta}, nil
}

// LoadMarkdownSummaries loads every markdown file in dir, in name order.
// Files that fail to load are logged and skipped.
func LoadMarkdownSummaries(dir string) ([]Document, error) {
	paths, err := ListMarkdownFiles(dir)
	if err != nil {
		return nil, err
	}

	log := logger.Get()
	var docs []Document
	for _, p := range paths {
		doc, err := LoadMarkdownSummary(p)
		if err != nil {
			log.Warn("Failed to load markdown summary",
				zap.String("file", filepath.Base(p)),
				zap.Error(err),
			)
			continue
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

// ListMarkdownFiles returns the markdown file names in dir, sorted.
func ListMarkdownFiles(dir string) ([]string, error) {
	var paths []string
	for _, pattern := range []string{"*.md", "*.markdown"} {
		matches, err := filepath.Glob(filepath.Join(dir, pattern))
		if err != nil {
			return nil, err
		}
		paths = append(paths, matches...)
	}
	sort.Strings(paths)
	return paths, nil
}
