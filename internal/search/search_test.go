package search

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeES serves canned Elasticsearch responses. The product header is
// required or the client refuses to talk to the server.
func fakeES(t *testing.T, handler http.HandlerFunc) *elasticsearch.Client {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		handler(w, r)
	}))
	t.Cleanup(srv.Close)

	client, err := elasticsearch.NewClient(elasticsearch.Config{Addresses: []string{srv.URL}})
	require.NoError(t, err)
	return client
}

func TestQuery_DecodesHits(t *testing.T) {
	t.Parallel()

	var gotPath string
	var gotBody map[string]any
	es := fakeES(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		json.NewDecoder(r.Body).Decode(&gotBody)

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"hits": {
				"total": {"value": 2, "relation": "eq"},
				"hits": [
					{"_index": "services", "_id": "1", "_score": 1.8,
					 "_source": {"id": 1, "name": "Wedding Edit", "description": "color grading and cut", "price_cents": 19900, "turnaround_days": 3, "active": true}},
					{"_index": "services", "_id": "2", "_score": 0.9,
					 "_source": {"id": 2, "name": "Highlight Reel", "description": "short social cut", "price_cents": 4900, "turnaround_days": 1, "active": true}}
				]
			}
		}`))
	})

	total, services, err := Query(context.Background(), es, "services", "wedding", 0, 10)
	require.NoError(t, err)

	assert.Equal(t, int64(2), total)
	require.Len(t, services, 2)
	assert.Equal(t, uint(1), services[0].ID)
	assert.Equal(t, "Wedding Edit", services[0].Name)
	assert.Equal(t, int64(19900), services[0].PriceCents)
	assert.Equal(t, "Highlight Reel", services[1].Name)

	assert.Equal(t, "/services/_search", gotPath)
	query := gotBody["query"].(map[string]any)["multi_match"].(map[string]any)
	assert.Equal(t, "wedding", query["query"])
}

func TestQuery_EmptyResult(t *testing.T) {
	t.Parallel()

	es := fakeES(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"hits": {"total": {"value": 0}, "hits": []}}`))
	})

	total, services, err := Query(context.Background(), es, "services", "nothing", 0, 10)
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, services)
}

func TestQuery_ServerError(t *testing.T) {
	t.Parallel()

	es := fakeES(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error": {"type": "search_phase_execution_exception"}}`))
	})

	_, _, err := Query(context.Background(), es, "services", "wedding", 0, 10)
	assert.Error(t, err)
}

func TestDeleteService_Missing404Tolerated(t *testing.T) {
	t.Parallel()

	es := fakeES(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"result": "not_found"}`))
	})

	assert.NoError(t, DeleteService(context.Background(), es, "services", 99))
}
