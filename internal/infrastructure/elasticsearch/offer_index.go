package elasticsearch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	"github.com/Widedbounou/SK-B/internal/domain/entity"
	"github.com/Widedbounou/SK-B/internal/domain/repository"
)

const requestTimeout = 3 * time.Second

// OfferIndex mirrors offers into an Elasticsearch index for full-text search.
type OfferIndex struct {
	es    *elasticsearch.Client
	index string
}

func NewOfferIndex(es *elasticsearch.Client, index string) *OfferIndex {
	return &OfferIndex{es: es, index: index}
}

func offerDocument(o *entity.Offer) map[string]any {
	return map[string]any{
		"id":            o.ID,
		"title":         o.Title,
		"description":   o.Description,
		"price":         o.Price,
		"location":      o.Location,
		"categories":    o.Categories,
		"subcategories": o.Subcategories,
		"creator":       o.CreatorID,
		"created":       o.Created.Format(time.RFC3339Nano),
	}
}

func (x *OfferIndex) Index(ctx context.Context, o *entity.Offer) error {
	b, err := json.Marshal(offerDocument(o))
	if err != nil {
		return err
	}
	req := esapi.IndexRequest{Index: x.index, DocumentID: o.ID, Body: bytes.NewReader(b), Refresh: "false"}
	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()
	res, err := req.Do(c, x.es)
	if err != nil {
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return fmt.Errorf("es index %s: %s", o.ID, res.Status())
	}
	return nil
}

func (x *OfferIndex) Delete(ctx context.Context, id string) error {
	req := esapi.DeleteRequest{Index: x.index, DocumentID: id}
	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()
	res, err := req.Do(c, x.es)
	if err != nil {
		return err
	}
	defer func() { _ = res.Body.Close() }()
	// a missing document is already deleted
	if res.IsError() && res.StatusCode != 404 {
		return fmt.Errorf("es delete %s: %s", id, res.Status())
	}
	return nil
}

// searchQuery builds a multi_match on title (boosted) and description.
func searchQuery(q string, size int) map[string]any {
	return map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":  q,
				"fields": []string{"title^2", "description"},
			},
		},
		"size":    size,
		"_source": false,
	}
}

func (x *OfferIndex) Search(ctx context.Context, q string, size int) ([]string, error) {
	b, err := json.Marshal(searchQuery(q, size))
	if err != nil {
		return nil, err
	}
	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	res, err := x.es.Search(
		x.es.Search.WithContext(c),
		x.es.Search.WithIndex(x.index),
		x.es.Search.WithBody(bytes.NewReader(b)),
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return nil, fmt.Errorf("es search: %s", res.Status())
	}

	var parsed struct {
		Hits struct {
			Hits []struct {
				ID string `json:"_id"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		ids = append(ids, h.ID)
	}
	return ids, nil
}

var _ repository.OfferIndex = (*OfferIndex)(nil)
