package repository

import (
	"context"
	"time"

	"github.com/Widedbounou/SK-B/internal/domain/entity"
)

// OfferCache is a read-through cache in front of OfferRepository.GetByID.
type OfferCache interface {
	Get(ctx context.Context, id string) (*entity.Offer, bool, error)
	Set(ctx context.Context, o *entity.Offer) error
	Delete(ctx context.Context, id string) error
}

// SessionCache remembers the current session token per user.
type SessionCache interface {
	Get(ctx context.Context, userID string) (string, bool, error)
	Set(ctx context.Context, userID, token string, ttl time.Duration) error
	Delete(ctx context.Context, userID string) error
}

// OfferIndex is the full-text search side index.
type OfferIndex interface {
	Index(ctx context.Context, o *entity.Offer) error
	Delete(ctx context.Context, id string) error
	// Search returns matching offer ids, best match first.
	Search(ctx context.Context, q string, size int) ([]string, error)
}
