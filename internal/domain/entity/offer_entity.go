package entity

import (
	"time"
	"unicode/utf8"

	"github.com/Widedbounou/SK-B/pkg/apperror"
)

// DefaultCurrency is applied when an offer is published without a currency.
const DefaultCurrency = "TZN"

const (
	minTitleLen       = 1
	maxTitleLen       = 200
	minDescriptionLen = 10
	maxDescriptionLen = 4000
)

// AdType tags an offer as something sold or wanted.
type AdType string

const (
	AdTypeSell AdType = "sell"
	AdTypeBuy  AdType = "buy"
)

// AttributeVocabulary validates the taxonomy-bound multi-select attributes.
type AttributeVocabulary interface {
	ValidateAttributes(attrs map[string][]string) error
}

// Offer is a marketplace listing.
type Offer struct {
	ID            string
	Title         string
	Description   string
	Price         float64
	Currency      string
	Location      string
	CreatorID     string
	Created       time.Time
	Categories    []string
	Subcategories []string
	AdTypes       []AdType
	Image         MediaRef
	Pictures      []MediaRef
	// Attributes maps a taxonomy feature name to the selected labels.
	Attributes map[string][]string
}

// Validate checks the stored-record constraints. vocab may be nil when no
// taxonomy is loaded, in which case any attribute is rejected.
func (o *Offer) Validate(vocab AttributeVocabulary) error {
	switch n := utf8.RuneCountInString(o.Title); {
	case n < minTitleLen:
		return apperror.Validation("title is required")
	case n > maxTitleLen:
		return apperror.Validation("title must be at most 200 characters")
	}
	switch n := utf8.RuneCountInString(o.Description); {
	case n < minDescriptionLen:
		return apperror.Validation("description must be at least 10 characters")
	case n > maxDescriptionLen:
		return apperror.Validation("description must be at most 4000 characters")
	}
	if o.Price < 0 {
		return apperror.Validation("price must be positive")
	}
	if o.Currency == "" {
		return apperror.Validation("currency is required")
	}
	if o.Location == "" {
		return apperror.Validation("location is required")
	}
	if o.CreatorID == "" {
		return apperror.Validation("creator is required")
	}
	for _, t := range o.AdTypes {
		if t != AdTypeSell && t != AdTypeBuy {
			return apperror.Validation("invalid ad type " + string(t))
		}
	}
	if len(o.Attributes) == 0 {
		return nil
	}
	if vocab == nil {
		return apperror.Validation("offer attributes are not supported")
	}
	return vocab.ValidateAttributes(o.Attributes)
}
