package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Widedbounou/SK-B/internal/domain/entity"
	"github.com/Widedbounou/SK-B/internal/domain/repository"
	"github.com/Widedbounou/SK-B/pkg/helpers"
)

type OfferCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewOfferCache(client *redis.Client, ttl time.Duration) *OfferCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &OfferCache{client: client, ttl: ttl}
}

func (c *OfferCache) Get(ctx context.Context, id string) (*entity.Offer, bool, error) {
	var o entity.Offer
	ok, err := helpers.RedisGetJSON(ctx, c.client, helpers.KeyOffer(id), &o)
	if err != nil || !ok {
		return nil, false, err
	}
	return &o, true, nil
}

func (c *OfferCache) Set(ctx context.Context, o *entity.Offer) error {
	return helpers.RedisSetJSON(ctx, c.client, helpers.KeyOffer(o.ID), o, c.ttl)
}

func (c *OfferCache) Delete(ctx context.Context, id string) error {
	return helpers.RedisDel(ctx, c.client, helpers.KeyOffer(id))
}

var _ repository.OfferCache = (*OfferCache)(nil)
