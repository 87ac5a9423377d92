package application

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Category is a storefront section backed by one bucket prefix.
type Category struct {
	Key   string  `json:"key"`
	Label string  `json:"label"`
	Dir   string  `json:"dir"`
	Price float64 `json:"price"`
}

// DefaultCategories mirrors the storefront's sections and unit prices (INR).
var DefaultCategories = []Category{
	{Key: "notes", Label: "Notes", Dir: "Notes", Price: 4.50},
	{Key: "question-papers", Label: "Question Papers", Dir: "Question-Papers", Price: 2.50},
	{Key: "quantum", Label: "Quantum", Dir: "Quantum", Price: 16.50},
	{Key: "all-unit-notes", Label: "All Unit Notes", Dir: "All-Unit-Notes", Price: 16.50},
}

// Manifest maps a category key to the asset paths published under it.
type Manifest map[string][]string

type CategorySummary struct {
	Category
	Count int `json:"count"`
}

type SearchResult struct {
	AssetID  string `json:"asset_id"`
	Category string `json:"category"`
	Title    string `json:"title"`
}

// BucketLister lists object keys under a prefix.
type BucketLister interface {
	ListKeys(ctx context.Context, prefix string) ([]string, error)
}

type CatalogService struct {
	categories []Category
	manifest   Manifest
	ES         *elasticsearch.Client
	ESIndex    string
	Logger     *logrus.Logger
}

func NewCatalogService(manifest Manifest, categories []Category, es *elasticsearch.Client, esIndex string, logger *logrus.Logger) *CatalogService {
	if manifest == nil {
		manifest = Manifest{}
	}
	if len(categories) == 0 {
		categories = DefaultCategories
	}
	return &CatalogService{categories: categories, manifest: manifest, ES: es, ESIndex: esIndex, Logger: logger}
}

// LoadManifest reads the manifest JSON. A missing file yields an empty
// manifest together with an error wrapping fs.ErrNotExist.
func LoadManifest(p string) (Manifest, error) {
	b, err := os.ReadFile(p)
	if err != nil {
		return Manifest{}, fmt.Errorf("read manifest: %w", err)
	}
	m := Manifest{}
	if err := json.Unmarshal(b, &m); err != nil {
		return Manifest{}, fmt.Errorf("decode manifest: %w", err)
	}
	return m, nil
}

// WriteManifest writes m as indented JSON.
func WriteManifest(p string, m Manifest) error {
	b, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	return os.WriteFile(p, append(b, '\n'), 0o644)
}

// BuildManifest lists every category prefix and keeps the PDF objects.
func BuildManifest(ctx context.Context, lister BucketLister, categories []Category) (Manifest, error) {
	m := Manifest{}
	for _, c := range categories {
		prefix := c.Dir + "/"
		keys, err := lister.ListKeys(ctx, prefix)
		if err != nil {
			return nil, fmt.Errorf("list %s: %w", prefix, err)
		}
		assets := make([]string, 0, len(keys))
		for _, k := range keys {
			if k == prefix || !strings.HasSuffix(strings.ToLower(k), ".pdf") {
				continue
			}
			assets = append(assets, k)
		}
		m[c.Key] = assets
	}
	return m, nil
}

func (s *CatalogService) Categories() []CategorySummary {
	out := make([]CategorySummary, 0, len(s.categories))
	for _, c := range s.categories {
		out = append(out, CategorySummary{Category: c, Count: len(s.manifest[c.Key])})
	}
	return out
}

func (s *CatalogService) Assets(category string) ([]string, error) {
	for _, c := range s.categories {
		if c.Key == category {
			if assets := s.manifest[c.Key]; assets != nil {
				return assets, nil
			}
			return []string{}, nil
		}
	}
	return nil, ErrUnknownCategory
}

// CategoryFor resolves the category from the first path segment of assetID.
func (s *CatalogService) CategoryFor(assetID string) (Category, bool) {
	dir, _, ok := strings.Cut(assetID, "/")
	if !ok {
		return Category{}, false
	}
	for _, c := range s.categories {
		if strings.EqualFold(c.Dir, dir) {
			return c, true
		}
	}
	return Category{}, false
}

func (s *CatalogService) PriceFor(assetID string) (float64, bool) {
	c, ok := s.CategoryFor(assetID)
	if !ok {
		return 0, false
	}
	return c.Price, true
}

// AssetTitle derives a display title from the file name.
func AssetTitle(assetID string) string {
	base := path.Base(assetID)
	if ext := path.Ext(base); strings.EqualFold(ext, ".pdf") {
		base = strings.TrimSuffix(base, ext)
	}
	base = strings.NewReplacer("_", " ", "-", " ").Replace(base)
	return strings.Join(strings.Fields(base), " ")
}

func assetDocID(assetID string) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(assetID)).String()
}

// Search runs a multi_match query against the catalog index when one is
// configured and falls back to a substring match over the manifest.
func (s *CatalogService) Search(ctx context.Context, q string, size int) ([]SearchResult, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return []SearchResult{}, nil
	}
	if size <= 0 || size > 50 {
		size = 10
	}
	if s.ES != nil && s.ESIndex != "" {
		res, err := s.searchES(ctx, q, size)
		if err == nil {
			return res, nil
		}
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("q", q).Warn("es catalog search failed, using manifest")
		}
	}
	return s.searchManifest(q, size), nil
}

func (s *CatalogService) searchManifest(q string, size int) []SearchResult {
	needle := strings.ToLower(q)
	out := []SearchResult{}
	for _, c := range s.categories {
		for _, a := range s.manifest[c.Key] {
			if !strings.Contains(strings.ToLower(a), needle) {
				continue
			}
			out = append(out, SearchResult{AssetID: a, Category: c.Key, Title: AssetTitle(a)})
			if len(out) == size {
				return out
			}
		}
	}
	return out
}

func (s *CatalogService) searchES(ctx context.Context, q string, size int) ([]SearchResult, error) {
	query := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":  q,
				"fields": []string{"title^2", "asset_id", "category"},
			},
		},
		"size": size,
	}
	b, _ := json.Marshal(query)

	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	res, err := s.ES.Search(s.ES.Search.WithContext(c), s.ES.Search.WithIndex(s.ESIndex), s.ES.Search.WithBody(strings.NewReader(string(b))))
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = res.Body.Close()
	}()
	if res.IsError() {
		return nil, fmt.Errorf("es search: %s", res.Status())
	}

	var parsed struct {
		Hits struct {
			Hits []struct {
				Source SearchResult `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, err
	}
	out := make([]SearchResult, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		out = append(out, h.Source)
	}
	return out, nil
}

// IndexAssets writes one search document per manifest asset and returns the
// number indexed. Document ids are stable per asset path.
func (s *CatalogService) IndexAssets(ctx context.Context) (int, error) {
	if s.ES == nil || s.ESIndex == "" {
		return 0, nil
	}
	keys := make([]string, 0, len(s.manifest))
	for k := range s.manifest {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	n := 0
	for _, k := range keys {
		for _, a := range s.manifest[k] {
			doc := SearchResult{AssetID: a, Category: k, Title: AssetTitle(a)}
			b, _ := json.Marshal(doc)
			req := esapi.IndexRequest{Index: s.ESIndex, DocumentID: assetDocID(a), Body: strings.NewReader(string(b)), Refresh: "false"}
			c, cancel := context.WithTimeout(ctx, 3*time.Second)
			res, err := req.Do(c, s.ES)
			cancel()
			if err != nil {
				return n, fmt.Errorf("index %s: %w", a, err)
			}
			isErr, status := res.IsError(), res.Status()
			_ = res.Body.Close()
			if isErr {
				return n, fmt.Errorf("index %s: %s", a, status)
			}
			n++
		}
	}
	return n, nil
}
