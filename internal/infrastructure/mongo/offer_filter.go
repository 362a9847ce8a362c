package mongo

import (
	"regexp"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/Widedbounou/SK-B/internal/domain/repository"
)

// filterDocument translates the query descriptor into a Mongo filter.
// Unset fields are absent from the document.
func filterDocument(f repository.OfferFilter) bson.M {
	filter := bson.M{}
	if f.Category != "" {
		filter["categories"] = f.Category
	}
	if f.Subcategory != "" {
		filter["subcategories"] = f.Subcategory
	}
	if f.Location != "" {
		filter["location"] = f.Location
	}
	if f.Title != "" {
		filter["title"] = bson.M{"$regex": regexp.QuoteMeta(f.Title), "$options": "i"}
	}
	if f.Price != nil && (f.Price.Min != nil || f.Price.Max != nil) {
		price := bson.M{}
		if f.Price.Min != nil {
			price["$gte"] = *f.Price.Min
		}
		if f.Price.Max != nil {
			price["$lte"] = *f.Price.Max
		}
		filter["price"] = price
	}
	return filter
}

// sortDocument orders by the requested field, ties broken by _id in the same direction.
func sortDocument(s repository.Sort) bson.D {
	dir := 1
	if s.Desc {
		dir = -1
	}
	field := "created"
	if s.Field == repository.SortByPrice {
		field = "price"
	}
	return bson.D{{Key: field, Value: dir}, {Key: "_id", Value: dir}}
}
