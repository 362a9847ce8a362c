package entity

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Widedbounou/SK-B/pkg/apperror"
)

type vocabStub map[string][]string

func (v vocabStub) ValidateAttributes(attrs map[string][]string) error {
	for k, vals := range attrs {
		allowed, ok := v[k]
		if !ok {
			return apperror.Validation("unknown attribute " + k)
		}
		for _, val := range vals {
			found := false
			for _, a := range allowed {
				found = found || a == val
			}
			if !found {
				return apperror.Validation(val + " is not allowed for " + k)
			}
		}
	}
	return nil
}

func validOffer() *Offer {
	return &Offer{
		Title:       "Mountain Bike",
		Description: "Barely used, 21 gears",
		Price:       120,
		Currency:    DefaultCurrency,
		Location:    "Dar es Salaam",
		CreatorID:   "64b7f0c2a1b2c3d4e5f60718",
		AdTypes:     []AdType{AdTypeSell},
	}
}

func TestOfferValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(o *Offer)
		ok     bool
	}{
		{"valid", func(o *Offer) {}, true},
		{"empty title", func(o *Offer) { o.Title = "" }, false},
		{"title 200", func(o *Offer) { o.Title = strings.Repeat("a", 200) }, true},
		{"title 201", func(o *Offer) { o.Title = strings.Repeat("a", 201) }, false},
		{"short description", func(o *Offer) { o.Description = "too short" }, false},
		{"long description", func(o *Offer) { o.Description = strings.Repeat("d", 4001) }, false},
		{"negative price", func(o *Offer) { o.Price = -1 }, false},
		{"zero price", func(o *Offer) { o.Price = 0 }, true},
		{"no location", func(o *Offer) { o.Location = "" }, false},
		{"no creator", func(o *Offer) { o.CreatorID = "" }, false},
		{"bad ad type", func(o *Offer) { o.AdTypes = []AdType{"rent"} }, false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			o := validOffer()
			c.mutate(o)
			err := o.Validate(nil)
			if c.ok {
				assert.NoError(t, err)
			} else {
				assert.True(t, apperror.Is(err, apperror.KindValidation), "got %v", err)
			}
		})
	}
}

func TestOfferValidate_Attributes(t *testing.T) {
	vocab := vocabStub{"clothing_color_a": {"Rouge", "Bleu"}}

	o := validOffer()
	o.Attributes = map[string][]string{"clothing_color_a": {"Bleu"}}
	assert.NoError(t, o.Validate(vocab))

	o.Attributes["clothing_color_a"] = []string{"Vert"}
	assert.Error(t, o.Validate(vocab))

	o.Attributes = map[string][]string{"animal_type": {"Chat"}}
	assert.Error(t, o.Validate(vocab))
	assert.Error(t, o.Validate(nil))
}
