package repository

import (
	"context"

	"github.com/Widedbounou/SK-B/internal/domain/entity"
)

// UserRepository defines the interface for user-related database operations.
// Lookups return apperror NotFound when no record matches; Create and Update
// return apperror Conflict when the email is already taken.
type UserRepository interface {
	NewID() string
	Create(ctx context.Context, u *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	// GetAccounts resolves users to their public profile only.
	GetAccounts(ctx context.Context, ids []string) (map[string]entity.Account, error)
	Update(ctx context.Context, u *entity.User) error
	Delete(ctx context.Context, id string) error
	PushCreatedOffer(ctx context.Context, userID, offerID string) error
	PullCreatedOffer(ctx context.Context, userID, offerID string) error
	SetVerified(ctx context.Context, verificationToken string) (*entity.User, error)
}
