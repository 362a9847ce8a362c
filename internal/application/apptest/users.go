// Package apptest holds in-memory implementations of the repository ports
// for service and handler tests.
package apptest

import (
	"context"
	"fmt"
	"sync"

	"github.com/Widedbounou/SK-B/internal/domain/entity"
	"github.com/Widedbounou/SK-B/internal/domain/repository"
	"github.com/Widedbounou/SK-B/pkg/apperror"
)

type UserRepo struct {
	mu    sync.Mutex
	seq   int
	users map[string]*entity.User
}

func NewUserRepo() *UserRepo {
	return &UserRepo{users: map[string]*entity.User{}}
}

func (r *UserRepo) NewID() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	return fmt.Sprintf("%024x", r.seq)
}

func clone(u *entity.User) *entity.User {
	c := *u
	c.CreatedOffers = append([]string(nil), u.CreatedOffers...)
	c.PurchasedItems = append([]string(nil), u.PurchasedItems...)
	if u.Account.Avatar != nil {
		a := *u.Account.Avatar
		c.Account.Avatar = &a
	}
	return &c
}

func (r *UserRepo) emailTaken(email, exceptID string) bool {
	for id, u := range r.users {
		if id != exceptID && u.Email == email {
			return true
		}
	}
	return false
}

func (r *UserRepo) Create(_ context.Context, u *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.emailTaken(u.Email, "") {
		return apperror.Conflict("user already exists")
	}
	r.users[u.ID] = clone(u)
	return nil
}

func (r *UserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, apperror.NotFound("user not found")
	}
	return clone(u), nil
}

func (r *UserRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			return clone(u), nil
		}
	}
	return nil, apperror.NotFound("user not found")
}

func (r *UserRepo) GetAccounts(_ context.Context, ids []string) (map[string]entity.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := map[string]entity.Account{}
	for _, id := range ids {
		if u, ok := r.users[id]; ok {
			out[id] = clone(u).Account
		}
	}
	return out, nil
}

func (r *UserRepo) Update(_ context.Context, u *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[u.ID]; !ok {
		return apperror.NotFound("user not found")
	}
	if r.emailTaken(u.Email, u.ID) {
		return apperror.Conflict("user already exists")
	}
	r.users[u.ID] = clone(u)
	return nil
}

func (r *UserRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[id]; !ok {
		return apperror.NotFound("user not found")
	}
	delete(r.users, id)
	return nil
}

func (r *UserRepo) PushCreatedOffer(_ context.Context, userID, offerID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[userID]
	if !ok {
		return apperror.NotFound("user not found")
	}
	for _, id := range u.CreatedOffers {
		if id == offerID {
			return nil
		}
	}
	u.CreatedOffers = append(u.CreatedOffers, offerID)
	return nil
}

func (r *UserRepo) PullCreatedOffer(_ context.Context, userID, offerID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[userID]
	if !ok {
		return apperror.NotFound("user not found")
	}
	kept := u.CreatedOffers[:0]
	for _, id := range u.CreatedOffers {
		if id != offerID {
			kept = append(kept, id)
		}
	}
	u.CreatedOffers = kept
	return nil
}

func (r *UserRepo) SetVerified(_ context.Context, token string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if token != "" && u.VerificationToken == token {
			u.IsVerified = true
			u.VerificationToken = ""
			u.Revision++
			return clone(u), nil
		}
	}
	return nil, apperror.NotFound("verification token not found")
}

// Len returns the number of stored users.
func (r *UserRepo) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.users)
}

var _ repository.UserRepository = (*UserRepo)(nil)
