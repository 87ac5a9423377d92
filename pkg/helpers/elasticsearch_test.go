package helpers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func esServer(t *testing.T, exists bool, calls *[]string) string {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*calls = append(*calls, r.Method+" "+r.URL.Path)
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.Header().Set("Content-Type", "application/json")
		switch {
		case r.Method == http.MethodHead && exists:
			w.WriteHeader(http.StatusOK)
		case r.Method == http.MethodHead:
			w.WriteHeader(http.StatusNotFound)
		default:
			_, _ = w.Write([]byte(`{"acknowledged":true}`))
		}
	}))
	t.Cleanup(srv.Close)
	return srv.URL
}

func TestEnsureIndex_CreatesMissing(t *testing.T) {
	var calls []string
	es, err := NewESClient([]string{esServer(t, false, &calls)}, "", "")
	require.NoError(t, err)

	require.NoError(t, EnsureIndex(context.Background(), es, "catalog", CatalogIndexMapping))
	assert.Equal(t, []string{"HEAD /catalog", "PUT /catalog"}, calls)
}

func TestEnsureIndex_ExistingIsNoop(t *testing.T) {
	var calls []string
	es, err := NewESClient([]string{esServer(t, true, &calls)}, "", "")
	require.NoError(t, err)

	require.NoError(t, EnsureIndex(context.Background(), es, "catalog", CatalogIndexMapping))
	assert.Equal(t, []string{"HEAD /catalog"}, calls)
}
