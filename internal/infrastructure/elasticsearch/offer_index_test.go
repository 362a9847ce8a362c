package elasticsearch

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	es8 "github.com/elastic/go-elasticsearch/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearchQuery(t *testing.T) {
	q := searchQuery("bike", 5)
	assert.Equal(t, 5, q["size"])
	mm := q["query"].(map[string]any)["multi_match"].(map[string]any)
	assert.Equal(t, "bike", mm["query"])
	assert.Equal(t, []string{"title^2", "description"}, mm["fields"])
}

func TestOfferIndex_Search(t *testing.T) {
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(b, &gotBody)
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"hits":{"hits":[{"_id":"a1"},{"_id":"b2"}]}}`))
	}))
	defer srv.Close()

	client, err := es8.NewClient(es8.Config{Addresses: []string{srv.URL}})
	require.NoError(t, err)

	ids, err := NewOfferIndex(client, "offers").Search(context.Background(), "bike", 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"a1", "b2"}, ids)
	assert.Equal(t, float64(10), gotBody["size"])
}
