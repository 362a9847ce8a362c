package redis

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Widedbounou/SK-B/internal/domain/repository"
	"github.com/Widedbounou/SK-B/pkg/helpers"
)

// SessionCache stores the user's current session token under user:session:<id>.
type SessionCache struct {
	client *redis.Client
}

func NewSessionCache(client *redis.Client) *SessionCache {
	return &SessionCache{client: client}
}

func (c *SessionCache) Get(ctx context.Context, userID string) (string, bool, error) {
	v, err := c.client.Get(ctx, helpers.KeyUserSession(userID)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return v, true, nil
}

func (c *SessionCache) Set(ctx context.Context, userID, token string, ttl time.Duration) error {
	return c.client.Set(ctx, helpers.KeyUserSession(userID), token, ttl).Err()
}

func (c *SessionCache) Delete(ctx context.Context, userID string) error {
	return helpers.RedisDel(ctx, c.client, helpers.KeyUserSession(userID))
}

var _ repository.SessionCache = (*SessionCache)(nil)
