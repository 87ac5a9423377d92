package application

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockLister struct {
	ListKeysFunc func(ctx context.Context, prefix string) ([]string, error)
}

func (m *mockLister) ListKeys(ctx context.Context, prefix string) ([]string, error) {
	return m.ListKeysFunc(ctx, prefix)
}

func testManifest() Manifest {
	return Manifest{
		"notes":           {"Notes/Unit_1-Intro.pdf", "Notes/unit2.pdf"},
		"question-papers": {"Question-Papers/2023.pdf"},
		"quantum":         {"Quantum/Physics_Quantum.pdf"},
	}
}

func TestCatalog_CategoriesAndAssets(t *testing.T) {
	s := NewCatalogService(testManifest(), nil, nil, "", nil)

	cats := s.Categories()
	require.Len(t, cats, 4)
	assert.Equal(t, "notes", cats[0].Key)
	assert.Equal(t, 2, cats[0].Count)
	assert.Equal(t, 0, cats[3].Count)

	assets, err := s.Assets("notes")
	require.NoError(t, err)
	assert.Equal(t, []string{"Notes/Unit_1-Intro.pdf", "Notes/unit2.pdf"}, assets)

	assets, err = s.Assets("all-unit-notes")
	require.NoError(t, err)
	assert.Empty(t, assets)

	_, err = s.Assets("videos")
	assert.ErrorIs(t, err, ErrUnknownCategory)
}

func TestCatalog_PriceFor(t *testing.T) {
	s := NewCatalogService(nil, nil, nil, "", nil)

	cases := map[string]float64{
		"Notes/unit1.pdf":          4.50,
		"Question-Papers/2023.pdf": 2.50,
		"Quantum/q.pdf":            16.50,
		"All-Unit-Notes/full.pdf":  16.50,
		"notes/lowercase-dir.pdf":  4.50,
	}
	for asset, want := range cases {
		got, ok := s.PriceFor(asset)
		assert.True(t, ok, asset)
		assert.Equal(t, want, got, asset)
	}

	_, ok := s.PriceFor("Videos/a.mp4")
	assert.False(t, ok)
	_, ok = s.PriceFor("loose.pdf")
	assert.False(t, ok)
}

func TestAssetTitle(t *testing.T) {
	assert.Equal(t, "Unit 1 Intro", AssetTitle("Notes/Unit_1-Intro.pdf"))
	assert.Equal(t, "report", AssetTitle("Quantum/sub/report.PDF"))
}

func TestBuildManifest(t *testing.T) {
	lister := &mockLister{ListKeysFunc: func(_ context.Context, prefix string) ([]string, error) {
		switch prefix {
		case "Notes/":
			return []string{"Notes/", "Notes/a.pdf", "Notes/B.PDF", "Notes/readme.txt", "Notes/sub/c.pdf"}, nil
		case "Quantum/":
			return []string{"Quantum/q.pdf"}, nil
		}
		return nil, nil
	}}

	m, err := BuildManifest(context.Background(), lister, DefaultCategories)
	require.NoError(t, err)
	assert.Equal(t, []string{"Notes/a.pdf", "Notes/B.PDF", "Notes/sub/c.pdf"}, m["notes"])
	assert.Equal(t, []string{"Quantum/q.pdf"}, m["quantum"])
	assert.Equal(t, []string{}, m["question-papers"])
	assert.Len(t, m, 4)
}

func TestBuildManifest_ListError(t *testing.T) {
	lister := &mockLister{ListKeysFunc: func(context.Context, string) ([]string, error) {
		return nil, errors.New("access denied")
	}}
	_, err := BuildManifest(context.Background(), lister, DefaultCategories)
	assert.ErrorContains(t, err, "Notes/")
}

func TestManifest_WriteThenLoad(t *testing.T) {
	p := filepath.Join(t.TempDir(), "data", "notes-manifest.json")
	require.NoError(t, WriteManifest(p, testManifest()))

	raw, err := os.ReadFile(p)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "\n  \"notes\": [")

	m, err := LoadManifest(p)
	require.NoError(t, err)
	assert.Equal(t, testManifest(), m)
}

func TestLoadManifest_Missing(t *testing.T) {
	m, err := LoadManifest(filepath.Join(t.TempDir(), "nope.json"))
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.NotNil(t, m)
	assert.Empty(t, m)
}

func TestSearch_ManifestFallback(t *testing.T) {
	s := NewCatalogService(testManifest(), nil, nil, "", nil)

	res, err := s.Search(context.Background(), "UNIT", 10)
	require.NoError(t, err)
	require.Len(t, res, 2)
	assert.Equal(t, "notes", res[0].Category)
	assert.Equal(t, "Unit 1 Intro", res[0].Title)

	res, err = s.Search(context.Background(), "pdf", 1)
	require.NoError(t, err)
	assert.Len(t, res, 1)

	res, err = s.Search(context.Background(), "  ", 10)
	require.NoError(t, err)
	assert.Empty(t, res)
}

func newTestES(t *testing.T, h http.HandlerFunc) *elasticsearch.Client {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.Header().Set("Content-Type", "application/json")
		h(w, r)
	}))
	t.Cleanup(srv.Close)
	es, err := elasticsearch.NewClient(elasticsearch.Config{Addresses: []string{srv.URL}})
	require.NoError(t, err)
	return es
}

func TestSearch_Elasticsearch(t *testing.T) {
	var body string
	es := newTestES(t, func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		body = string(b)
		assert.True(t, strings.HasPrefix(r.URL.Path, "/catalog/_search"))
		_, _ = w.Write([]byte(`{"hits":{"hits":[{"_id":"x","_source":{"asset_id":"Quantum/q.pdf","category":"quantum","title":"q"}}]}}`))
	})
	s := NewCatalogService(testManifest(), nil, es, "catalog", nil)

	res, err := s.Search(context.Background(), "quantum", 5)
	require.NoError(t, err)
	require.Len(t, res, 1)
	assert.Equal(t, "Quantum/q.pdf", res[0].AssetID)
	assert.Contains(t, body, `"multi_match"`)
	assert.Contains(t, body, `"size":5`)
}

func TestSearch_ElasticsearchErrorFallsBack(t *testing.T) {
	es := newTestES(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"boom"}`))
	})
	s := NewCatalogService(testManifest(), nil, es, "catalog", nil)

	res, err := s.Search(context.Background(), "physics", 5)
	require.NoError(t, err)
	require.Len(t, res, 1)
	assert.Equal(t, "Quantum/Physics_Quantum.pdf", res[0].AssetID)
}

func TestIndexAssets(t *testing.T) {
	var paths []string
	es := newTestES(t, func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.Method+" "+r.URL.Path)
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"result":"created"}`))
	})
	s := NewCatalogService(testManifest(), nil, es, "catalog", nil)

	n, err := s.IndexAssets(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 4, n)
	require.Len(t, paths, 4)
	assert.Contains(t, paths[0], "/catalog/_doc/"+assetDocID("Notes/Unit_1-Intro.pdf"))

	n, err = NewCatalogService(testManifest(), nil, nil, "", nil).IndexAssets(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
}
