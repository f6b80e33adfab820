package ingest

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"
	apperrors "github.com/Al-Mansori/Edrak-Knowledge-Explorer/backend/pkg/errors"
	"github.com/Al-Mansori/Edrak-Knowledge-Explorer/backend/pkg/logger"
	"go.uber.org/zap"
)

// contentItem is one entry of a content_list JSON export. Exports are
// either a raw array of items or an object with an "items" key.
type contentItem struct {
	Type          string   `json:"type"`
	Text          string   `json:"text"`
	TextLevel     *int     `json:"text_level"`
	PageIdx       *int     `json:"page_idx"`
	TableCaption  []string `json:"table_caption"`
	TableBody     string   `json:"table_body"`
	TableFootnote []string `json:"table_footnote"`
}

// LoadContentList parses a single content_list JSON file into documents.
// Text items keep their text level; table items are rendered as compact
// text (caption, body, footnote); image and formula items are skipped.
func LoadContentList(path string) ([]Document, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, apperrors.NewIngestParseFailed(filepath.Base(path), err)
	}

	var items []contentItem
	if err := json.Unmarshal(raw, &items); err != nil {
		var wrapper struct {
			Items []contentItem `json:"items"`
		}
		if err2 := json.Unmarshal(raw, &wrapper); err2 != nil {
			return nil, apperrors.NewIngestParseFailed(filepath.Base(path), err)
		}
		items = wrapper.Items
	}

	// Provenance filename keeps the source pdf name, like the exports do.
	stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	provenance := stem + ".pdf"

	var docs []Document
	for _, it := range items {
		doc, ok := documentFromItem(it)
		if !ok {
			continue
		}
		doc.Metadata["filename"] = provenance
		docs = append(docs, doc)
	}
	return docs, nil
}

// LoadContentListDir parses every *.json file in dir, in name order.
// Files that fail to parse are logged and skipped.
func LoadContentListDir(dir string) ([]Document, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return nil, err
	}
	sort.Strings(paths)

	log := logger.Get()
	var docs []Document
	for _, p := range paths {
		d, err := LoadContentList(p)
		if err != nil {
			log.Warn("Failed to parse content list file",
				zap.String("file", filepath.Base(p)),
				zap.Error(err),
			)
			continue
		}
		docs = append(docs, d...)
	}
	return docs, nil
}

func documentFromItem(it contentItem) (Document, bool) {
	base := map[string]any{
		"source_type": it.Type,
	}
	if it.PageIdx != nil {
		base["page_idx"] = *it.PageIdx
	}

	switch it.Type {
	case "text":
		txt := strings.TrimSpace(it.Text)
		if txt == "" {
			return Document{}, false
		}
		if it.TextLevel != nil {
			base["text_level"] = *it.TextLevel
		}
		return Document{Text: txt, Metadata: base}, true

	case "table":
		caption := strings.TrimSpace(strings.Join(it.TableCaption, " "))
		body := HTMLToText(it.TableBody)
		footnote := strings.TrimSpace(strings.Join(it.TableFootnote, " "))
		base["table_caption"] = caption
		base["table_footnote"] = footnote

		var bits []string
		if caption != "" {
			bits = append(bits, "Table: "+caption)
		}
		if body != "" {
			bits = append(bits, body)
		}
		if footnote != "" {
			bits = append(bits, "Footnote: "+footnote)
		}
		text := strings.TrimSpace(strings.Join(bits, "  "))
		if text == "" {
			text = "Table (no content)"
		}
		return Document{Text: text, Metadata: base}, true
	}

	// Images, formulas, and unknown types are ignored.
	return Document{}, false
}

// HTMLToText flattens table HTML into whitespace-normalized text. When the
// markup cannot be parsed it falls back to crude tag replacement.
func HTMLToText(html string) string {
	if html == "" {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		r := strings.NewReplacer(
			"<br>", "\n", "<br/>", "\n",
			"</td>", "\t", "</th>", "\t", "</tr>", "\n",
			"<td>", " ", "<th>", " ", "&nbsp;", " ",
		)
		return strings.Join(strings.Fields(r.Replace(html)), " ")
	}
	var parts []string
	doc.Find("td, th").Each(func(_ int, s *goquery.Selection) {
		if t := strings.Join(strings.Fields(s.Text()), " "); t != "" {
			parts = append(parts, t)
		}
	})
	if len(parts) == 0 {
		return strings.Join(strings.Fields(doc.Text()), " ")
	}
	return strings.Join(parts, " ")
}
