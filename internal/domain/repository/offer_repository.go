package repository

import (
	"context"

	"github.com/Widedbounou/SK-B/internal/domain/entity"
)

// OfferRepository stores offers. Lookups return apperror NotFound when no
// record matches.
type OfferRepository interface {
	NewID() string
	Create(ctx context.Context, o *entity.Offer) error
	GetByID(ctx context.Context, id string) (*entity.Offer, error)
	Update(ctx context.Context, o *entity.Offer) error
	Delete(ctx context.Context, id string) error
	Find(ctx context.Context, q OfferQuery) ([]*entity.Offer, error)
	Count(ctx context.Context, f OfferFilter) (int64, error)
	FindByCreator(ctx context.Context, creatorID string) ([]*entity.Offer, error)
}
