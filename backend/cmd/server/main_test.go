package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/Al-Mansori/Edrak-Knowledge-Explorer/backend/internal/catalog"
	"github.com/Al-Mansori/Edrak-Knowledge-Explorer/backend/internal/kg"
	"github.com/Al-Mansori/Edrak-Knowledge-Explorer/backend/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testGraph(t *testing.T) *kg.Graph {
	t.Helper()
	g := kg.NewGraph()
	g.AddNode("alice", kg.Attrs{"label": "Alice"})
	g.AddNode("bob", kg.Attrs{"label": "Bob"})
	g.AddNode("carol", kg.Attrs{"label": "Carol"})
	g.AddNode("island", kg.Attrs{"label": "Island"})
	require.NoError(t, g.AddEdge("alice", "bob", kg.Attrs{"relation": "knows"}))
	require.NoError(t, g.AddEdge("bob", "carol", kg.Attrs{"relation": "works_with"}))
	return g
}

func testRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dir := t.TempDir()
	csvPath := filepath.Join(dir, "documents.csv")
	csv := "Title,pdf_filename,content_list_filename,summary_filename\n" +
		"Water Report,water.pdf,water_content_list.json,water.md\n" +
		"Soil Atlas,soil.pdf,soil_content_list.json,soil.md\n"
	require.NoError(t, os.WriteFile(csvPath, []byte(csv), 0o644))

	summaryDir := filepath.Join(dir, "summaries")
	require.NoError(t, os.MkdirAll(summaryDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(summaryDir, "water.md"), []byte("# Water\n"), 0o644))

	cat, err := catalog.Load(csvPath)
	require.NoError(t, err)

	registry := kg.NewRegistry()
	registry.SetGlobal(testGraph(t))
	perFile := kg.NewGraph()
	perFile.AddNode("water", kg.Attrs{"label": "Water"})
	registry.Add("water.md", filepath.Join(dir, "kg_single", "water"), perFile)

	cfg := &config.Config{
		SummaryDir:      summaryDir,
		PDFDir:          dir,
		ContentListDir:  dir,
		MaxNodesCap:     20000,
		EgoMaxNodesCap:  5000,
		TripletLimitCap: 2000,
	}
	return setupRouter(cfg, kg.NewService(registry), cat, zap.NewNop())
}

func doGet(t *testing.T, router *gin.Engine, path string) *httptest.ResponseRecorder {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, path, nil)
	require.NoError(t, err)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestHealthEndpoint(t *testing.T) {
	router := testRouter(t)

	w := doGet(t, router, "/health")

	assert.Equal(t, http.StatusOK, w.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, float64(2), body["documents"])
}

func TestListDocuments(t *testing.T) {
	router := testRouter(t)

	w := doGet(t, router, "/documents")
	assert.Equal(t, http.StatusOK, w.Code)
	var docs []catalog.Document
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &docs))
	assert.Len(t, docs, 2)

	w = doGet(t, router, "/documents?q=soil")
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &docs))
	require.Len(t, docs, 1)
	assert.Equal(t, "Soil Atlas", docs[0].Title)

	w = doGet(t, router, "/documents?skip=-1")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetDocumentNotFound(t *testing.T) {
	router := testRouter(t)

	w := doGet(t, router, "/documents/deadbeef0000")

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestServeSummaryFile(t *testing.T) {
	router := testRouter(t)

	w := doGet(t, router, "/files/summary/water.md")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "# Water")

	w = doGet(t, router, "/files/summary/missing.md")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestKGList(t *testing.T) {
	router := testRouter(t)

	w := doGet(t, router, "/kg/list")

	assert.Equal(t, http.StatusOK, w.Code)
	var entries []kg.Entry
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &entries))
	require.Len(t, entries, 1)
	assert.Equal(t, "water.md", entries[0].File)
	assert.Equal(t, 1, entries[0].Nodes)
}

func TestKGStats(t *testing.T) {
	router := testRouter(t)

	w := doGet(t, router, "/kg/stats")
	assert.Equal(t, http.StatusOK, w.Code)
	var stats kg.Stats
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stats))
	assert.Equal(t, 4, stats.Nodes)
	assert.Equal(t, 2, stats.Edges)
	assert.Equal(t, 2, stats.ConnectedComponents)

	w = doGet(t, router, "/kg/stats?file=unknown.md")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestKGNodeLinkFilter(t *testing.T) {
	router := testRouter(t)

	w := doGet(t, router, "/kg/node-link?query=ali")

	assert.Equal(t, http.StatusOK, w.Code)
	var view kg.NodeLink
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))
	require.Len(t, view.Nodes, 1)
	assert.Equal(t, "alice", view.Nodes[0]["id"])
	assert.Empty(t, view.Edges)
}

func TestKGNodeLinkBadParams(t *testing.T) {
	router := testRouter(t)

	w := doGet(t, router, "/kg/node-link?min_degree=-1")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doGet(t, router, "/kg/node-link?max_nodes=abc")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestKGNeighbors(t *testing.T) {
	router := testRouter(t)

	w := doGet(t, router, "/kg/neighbors?center=bob&depth=1")
	assert.Equal(t, http.StatusOK, w.Code)
	var view kg.NodeLink
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))
	assert.Len(t, view.Nodes, 3)
	assert.Len(t, view.Edges, 2)

	w = doGet(t, router, "/kg/neighbors?center=ghost")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doGet(t, router, "/kg/neighbors?depth=1")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doGet(t, router, "/kg/neighbors?center=bob&depth=9")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestKGTriplets(t *testing.T) {
	router := testRouter(t)

	w := doGet(t, router, "/kg/triplets?limit=1")

	assert.Equal(t, http.StatusOK, w.Code)
	var page kg.TripletsPage
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
	assert.Equal(t, 2, page.Count)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "knows", page.Items[0]["relation"])
}

func TestKGPerFileGraph(t *testing.T) {
	router := testRouter(t)

	w := doGet(t, router, "/kg/stats?file=water.md")

	assert.Equal(t, http.StatusOK, w.Code)
	var stats kg.Stats
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stats))
	assert.Equal(t, 1, stats.Nodes)
	assert.Equal(t, 0, stats.Edges)
}
