package application

import (
	"errors"
	"math"
	"strconv"
	"strings"

	"github.com/Widedbounou/SK-B/internal/domain/repository"
	"github.com/Widedbounou/SK-B/pkg/apperror"
)

// PageSize is the fixed number of offers per listing page.
const PageSize = 20

// MaxPage keeps (page-1)*PageSize inside int.
const MaxPage = math.MaxInt / PageSize

// OfferListParams are the raw query-string values of GET /offers.
type OfferListParams struct {
	Category    string `form:"category"`
	Subcategory string `form:"subcategory"`
	MinPrice    string `form:"minPrice"`
	MaxPrice    string `form:"maxPrice"`
	Title       string `form:"title"`
	Location    string `form:"location"`
	SortBy      string `form:"sortBy"`
	Page        string `form:"page"`
}

// BuildOfferQuery turns listing parameters into a store query.
func BuildOfferQuery(p OfferListParams) (repository.OfferQuery, error) {
	f := repository.OfferFilter{
		Category:    strings.TrimSpace(p.Category),
		Subcategory: strings.TrimSpace(p.Subcategory),
		Title:       strings.TrimSpace(p.Title),
		Location:    strings.TrimSpace(p.Location),
	}

	minPrice, err := parsePrice("minPrice", p.MinPrice)
	if err != nil {
		return repository.OfferQuery{}, err
	}
	maxPrice, err := parsePrice("maxPrice", p.MaxPrice)
	if err != nil {
		return repository.OfferQuery{}, err
	}
	if minPrice != nil || maxPrice != nil {
		f.Price = &repository.PriceRange{Min: minPrice, Max: maxPrice}
	}

	page := ParsePage(p.Page)
	return repository.OfferQuery{
		Filter: f,
		Sort:   ParseSort(p.SortBy),
		Page:   repository.Page{Number: page, Limit: PageSize, Skip: (page - 1) * PageSize},
	}, nil
}

func parsePrice(name, raw string) (*float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil, apperror.Validation(name + " must be a number")
	}
	return &v, nil
}

// ParsePage returns the 1-based page number; anything below 1 or non-numeric is
// page 1 and anything above MaxPage is MaxPage.
func ParsePage(raw string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if errors.Is(err, strconv.ErrRange) && n > 0 {
		return MaxPage
	}
	if err != nil || n < 1 {
		return 1
	}
	if n > MaxPage {
		return MaxPage
	}
	return n
}

// ParseSort maps a sortBy value to a sort descriptor. Relevance has no scoring
// and orders like recent.
func ParseSort(raw string) repository.Sort {
	switch strings.TrimSpace(raw) {
	case "oldest":
		return repository.Sort{Field: repository.SortByCreated}
	case "price-asc", "priceAsc":
		return repository.Sort{Field: repository.SortByPrice}
	case "price-desc", "priceDesc":
		return repository.Sort{Field: repository.SortByPrice, Desc: true}
	default: // relevance, pertinence, recent, unknown
		return repository.Sort{Field: repository.SortByCreated, Desc: true}
	}
}

// TotalPages is ceil(total/limit).
func TotalPages(total int64, limit int) int {
	if total <= 0 || limit <= 0 {
		return 0
	}
	return int((total + int64(limit) - 1) / int64(limit))
}
