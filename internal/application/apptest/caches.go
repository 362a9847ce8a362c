package apptest

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/Widedbounou/SK-B/internal/domain/entity"
	"github.com/Widedbounou/SK-B/internal/domain/repository"
)

type OfferCache struct {
	mu     sync.Mutex
	Items  map[string]entity.Offer
	Hits   int
	Misses int
}

func NewOfferCache() *OfferCache { return &OfferCache{Items: map[string]entity.Offer{}} }

func (c *OfferCache) Get(_ context.Context, id string) (*entity.Offer, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	o, ok := c.Items[id]
	if !ok {
		c.Misses++
		return nil, false, nil
	}
	c.Hits++
	return cloneOffer(&o), true, nil
}

func (c *OfferCache) Set(_ context.Context, o *entity.Offer) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Items[o.ID] = *cloneOffer(o)
	return nil
}

func (c *OfferCache) Delete(_ context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.Items, id)
	return nil
}

type SessionCache struct {
	mu     sync.Mutex
	Tokens map[string]string
}

func NewSessionCache() *SessionCache { return &SessionCache{Tokens: map[string]string{}} }

func (c *SessionCache) Get(_ context.Context, userID string) (string, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	t, ok := c.Tokens[userID]
	return t, ok, nil
}

func (c *SessionCache) Set(_ context.Context, userID, token string, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Tokens[userID] = token
	return nil
}

func (c *SessionCache) Delete(_ context.Context, userID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.Tokens, userID)
	return nil
}

// OfferIndex matches the query against titles and descriptions.
type OfferIndex struct {
	mu   sync.Mutex
	Docs map[string]*entity.Offer
}

func NewOfferIndex() *OfferIndex { return &OfferIndex{Docs: map[string]*entity.Offer{}} }

func (x *OfferIndex) Index(_ context.Context, o *entity.Offer) error {
	x.mu.Lock()
	defer x.mu.Unlock()
	x.Docs[o.ID] = cloneOffer(o)
	return nil
}

func (x *OfferIndex) Delete(_ context.Context, id string) error {
	x.mu.Lock()
	defer x.mu.Unlock()
	delete(x.Docs, id)
	return nil
}

func (x *OfferIndex) Search(_ context.Context, q string, size int) ([]string, error) {
	x.mu.Lock()
	defer x.mu.Unlock()
	q = strings.ToLower(q)
	var ids []string
	for id, o := range x.Docs {
		if strings.Contains(strings.ToLower(o.Title+" "+o.Description), q) {
			ids = append(ids, id)
		}
		if len(ids) == size {
			break
		}
	}
	return ids, nil
}

// Queue records published messages.
type Queue struct {
	mu       sync.Mutex
	Messages []any
	Err      error
}

func (q *Queue) PublishJSON(_ context.Context, body any) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.Err != nil {
		return q.Err
	}
	q.Messages = append(q.Messages, body)
	return nil
}

func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.Messages)
}

var (
	_ repository.OfferCache   = (*OfferCache)(nil)
	_ repository.SessionCache = (*SessionCache)(nil)
	_ repository.OfferIndex   = (*OfferIndex)(nil)
)
