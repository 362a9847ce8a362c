package mongo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/Widedbounou/SK-B/internal/domain/entity"
	"github.com/Widedbounou/SK-B/internal/domain/repository"
	"github.com/Widedbounou/SK-B/pkg/apperror"
)

const offerCollection = "offers"

type OfferRepository struct {
	col *mongo.Collection
}

func NewOfferRepository(ctx context.Context, db *mongo.Database) (*OfferRepository, error) {
	col := db.Collection(offerCollection)
	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "creator", Value: 1}}},
		{Keys: bson.D{{Key: "created", Value: -1}, {Key: "_id", Value: -1}}},
		{Keys: bson.D{{Key: "categories", Value: 1}, {Key: "price", Value: 1}}},
	}
	if _, err := col.Indexes().CreateMany(ctx, indexes); err != nil {
		return nil, err
	}
	return &OfferRepository{col: col}, nil
}

func (r *OfferRepository) NewID() string { return bson.NewObjectID().Hex() }

func (r *OfferRepository) Create(ctx context.Context, o *entity.Offer) error {
	doc, err := toOfferDocument(o)
	if err != nil {
		return apperror.Validation("invalid offer or creator id")
	}
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return apperror.Storage("insert offer", err)
	}
	return nil
}

func (r *OfferRepository) GetByID(ctx context.Context, id string) (*entity.Offer, error) {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, apperror.NotFound("offer not found")
	}
	var doc offerDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperror.NotFound("offer not found")
		}
		return nil, apperror.Storage("find offer", err)
	}
	return doc.entity(), nil
}

func (r *OfferRepository) Update(ctx context.Context, o *entity.Offer) error {
	doc, err := toOfferDocument(o)
	if err != nil {
		return apperror.NotFound("offer not found")
	}
	res, err := r.col.ReplaceOne(ctx, bson.M{"_id": doc.ID}, doc)
	if err != nil {
		return apperror.Storage("update offer", err)
	}
	if res.MatchedCount == 0 {
		return apperror.NotFound("offer not found")
	}
	return nil
}

func (r *OfferRepository) Delete(ctx context.Context, id string) error {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return apperror.NotFound("offer not found")
	}
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return apperror.Storage("delete offer", err)
	}
	if res.DeletedCount == 0 {
		return apperror.NotFound("offer not found")
	}
	return nil
}

func (r *OfferRepository) Find(ctx context.Context, q repository.OfferQuery) ([]*entity.Offer, error) {
	opts := options.Find().SetSort(sortDocument(q.Sort))
	if q.Page.Limit > 0 {
		opts.SetLimit(int64(q.Page.Limit))
	}
	if q.Page.Skip > 0 {
		opts.SetSkip(int64(q.Page.Skip))
	}
	return r.find(ctx, filterDocument(q.Filter), opts)
}

func (r *OfferRepository) Count(ctx context.Context, f repository.OfferFilter) (int64, error) {
	n, err := r.col.CountDocuments(ctx, filterDocument(f))
	if err != nil {
		return 0, apperror.Storage("count offers", err)
	}
	return n, nil
}

func (r *OfferRepository) FindByCreator(ctx context.Context, creatorID string) ([]*entity.Offer, error) {
	oid, err := bson.ObjectIDFromHex(creatorID)
	if err != nil {
		return nil, nil
	}
	opts := options.Find().SetSort(sortDocument(repository.Sort{Field: repository.SortByCreated, Desc: true}))
	return r.find(ctx, bson.M{"creator": oid}, opts)
}

func (r *OfferRepository) find(ctx context.Context, filter bson.M, opts *options.FindOptionsBuilder) ([]*entity.Offer, error) {
	cursor, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, apperror.Storage("find offers", err)
	}
	defer cursor.Close(ctx)

	var offers []*entity.Offer
	for cursor.Next(ctx) {
		var doc offerDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, apperror.Storage("decode offer", err)
		}
		offers = append(offers, doc.entity())
	}
	if err := cursor.Err(); err != nil {
		return nil, apperror.Storage("iterate offers", err)
	}
	return offers, nil
}

var _ repository.OfferRepository = (*OfferRepository)(nil)
