package mongo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/Widedbounou/SK-B/internal/domain/repository"
)

func f64(v float64) *float64 { return &v }

func TestFilterDocument(t *testing.T) {
	cases := []struct {
		name string
		in   repository.OfferFilter
		want bson.M
	}{
		{"empty", repository.OfferFilter{}, bson.M{}},
		{
			"category and subcategory",
			repository.OfferFilter{Category: "Véhicules", Subcategory: "Vélos"},
			bson.M{"categories": "Véhicules", "subcategories": "Vélos"},
		},
		{
			"title is quoted and case-insensitive",
			repository.OfferFilter{Title: "bike (used)"},
			bson.M{"title": bson.M{"$regex": `bike \(used\)`, "$options": "i"}},
		},
		{
			"price range is a single document",
			repository.OfferFilter{Price: &repository.PriceRange{Min: f64(10), Max: f64(50)}},
			bson.M{"price": bson.M{"$gte": 10.0, "$lte": 50.0}},
		},
		{
			"only max price",
			repository.OfferFilter{Price: &repository.PriceRange{Max: f64(50)}},
			bson.M{"price": bson.M{"$lte": 50.0}},
		},
		{"empty price range", repository.OfferFilter{Price: &repository.PriceRange{}}, bson.M{}},
		{"location", repository.OfferFilter{Location: "Arusha"}, bson.M{"location": "Arusha"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, filterDocument(tc.in))
		})
	}
}

func TestSortDocument(t *testing.T) {
	assert.Equal(t,
		bson.D{{Key: "created", Value: -1}, {Key: "_id", Value: -1}},
		sortDocument(repository.Sort{Field: repository.SortByCreated, Desc: true}))
	assert.Equal(t,
		bson.D{{Key: "price", Value: 1}, {Key: "_id", Value: 1}},
		sortDocument(repository.Sort{Field: repository.SortByPrice}))
	assert.Equal(t,
		bson.D{{Key: "created", Value: 1}, {Key: "_id", Value: 1}},
		sortDocument(repository.Sort{}))
}
