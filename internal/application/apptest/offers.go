package apptest

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/Widedbounou/SK-B/internal/domain/entity"
	"github.com/Widedbounou/SK-B/internal/domain/repository"
	"github.com/Widedbounou/SK-B/pkg/apperror"
)

type OfferRepo struct {
	mu     sync.Mutex
	seq    int
	offers map[string]*entity.Offer
}

func NewOfferRepo() *OfferRepo {
	return &OfferRepo{offers: map[string]*entity.Offer{}}
}

func (r *OfferRepo) NewID() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	return fmt.Sprintf("%024x", 1<<40+r.seq)
}

func cloneOffer(o *entity.Offer) *entity.Offer {
	c := *o
	c.Categories = append([]string(nil), o.Categories...)
	c.Subcategories = append([]string(nil), o.Subcategories...)
	c.AdTypes = append([]entity.AdType(nil), o.AdTypes...)
	c.Pictures = append([]entity.MediaRef(nil), o.Pictures...)
	if o.Attributes != nil {
		c.Attributes = make(map[string][]string, len(o.Attributes))
		for k, v := range o.Attributes {
			c.Attributes[k] = append([]string(nil), v...)
		}
	}
	return &c
}

func (r *OfferRepo) Create(_ context.Context, o *entity.Offer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.offers[o.ID] = cloneOffer(o)
	return nil
}

func (r *OfferRepo) GetByID(_ context.Context, id string) (*entity.Offer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.offers[id]
	if !ok {
		return nil, apperror.NotFound("offer not found")
	}
	return cloneOffer(o), nil
}

func (r *OfferRepo) Update(_ context.Context, o *entity.Offer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.offers[o.ID]; !ok {
		return apperror.NotFound("offer not found")
	}
	r.offers[o.ID] = cloneOffer(o)
	return nil
}

func (r *OfferRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.offers[id]; !ok {
		return apperror.NotFound("offer not found")
	}
	delete(r.offers, id)
	return nil
}

func (r *OfferRepo) matching(f repository.OfferFilter) []*entity.Offer {
	var out []*entity.Offer
	for _, o := range r.offers {
		if f.Matches(o) {
			out = append(out, cloneOffer(o))
		}
	}
	return out
}

func sortOffers(list []*entity.Offer, s repository.Sort) {
	less := func(a, b *entity.Offer) bool {
		if s.Field == repository.SortByPrice && a.Price != b.Price {
			return a.Price < b.Price
		}
		if s.Field != repository.SortByPrice && !a.Created.Equal(b.Created) {
			return a.Created.Before(b.Created)
		}
		return a.ID < b.ID
	}
	sort.Slice(list, func(i, j int) bool {
		if s.Desc {
			return less(list[j], list[i])
		}
		return less(list[i], list[j])
	})
}

func (r *OfferRepo) Find(_ context.Context, q repository.OfferQuery) ([]*entity.Offer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	list := r.matching(q.Filter)
	sortOffers(list, q.Sort)
	if q.Page.Skip >= len(list) {
		return nil, nil
	}
	list = list[q.Page.Skip:]
	if q.Page.Limit > 0 && len(list) > q.Page.Limit {
		list = list[:q.Page.Limit]
	}
	return list, nil
}

func (r *OfferRepo) Count(_ context.Context, f repository.OfferFilter) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.matching(f))), nil
}

func (r *OfferRepo) FindByCreator(_ context.Context, creatorID string) ([]*entity.Offer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Offer
	for _, o := range r.offers {
		if o.CreatorID == creatorID {
			out = append(out, cloneOffer(o))
		}
	}
	sortOffers(out, repository.Sort{Field: repository.SortByCreated, Desc: true})
	return out, nil
}

var _ repository.OfferRepository = (*OfferRepo)(nil)
