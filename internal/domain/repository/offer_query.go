package repository

import (
	"strings"

	"github.com/Widedbounou/SK-B/internal/domain/entity"
)

// PriceRange is an inclusive price bound. A nil side is unbounded.
type PriceRange struct {
	Min *float64
	Max *float64
}

func (r PriceRange) Contains(price float64) bool {
	if r.Min != nil && price < *r.Min {
		return false
	}
	if r.Max != nil && price > *r.Max {
		return false
	}
	return true
}

// OfferFilter is the store-independent query descriptor. Zero-valued fields
// impose no constraint.
type OfferFilter struct {
	Category    string
	Subcategory string
	Title       string // case-insensitive substring
	Location    string
	Price       *PriceRange
}

// Matches evaluates the filter against a single offer.
func (f OfferFilter) Matches(o *entity.Offer) bool {
	if f.Category != "" && !contains(o.Categories, f.Category) {
		return false
	}
	if f.Subcategory != "" && !contains(o.Subcategories, f.Subcategory) {
		return false
	}
	if f.Title != "" && !strings.Contains(strings.ToLower(o.Title), strings.ToLower(f.Title)) {
		return false
	}
	if f.Location != "" && o.Location != f.Location {
		return false
	}
	if f.Price != nil && !f.Price.Contains(o.Price) {
		return false
	}
	return true
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

type SortField string

const (
	SortByCreated SortField = "created"
	SortByPrice   SortField = "price"
)

type Sort struct {
	Field SortField
	Desc  bool
}

// Page carries the resolved pagination window.
type Page struct {
	Number int
	Limit  int
	Skip   int
}

type OfferQuery struct {
	Filter OfferFilter
	Sort   Sort
	Page   Page
}
