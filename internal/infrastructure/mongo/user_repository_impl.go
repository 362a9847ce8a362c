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

const userCollection = "users"

type UserRepository struct {
	col *mongo.Collection
}

// NewUserRepository creates the unique email index and returns the repository.
func NewUserRepository(ctx context.Context, db *mongo.Database) (*UserRepository, error) {
	col := db.Collection(userCollection)
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "verificationToken", Value: 1}},
			Options: options.Index().SetSparse(true),
		},
	}
	if _, err := col.Indexes().CreateMany(ctx, indexes); err != nil {
		return nil, err
	}
	return &UserRepository{col: col}, nil
}

func (r *UserRepository) NewID() string { return bson.NewObjectID().Hex() }

func (r *UserRepository) Create(ctx context.Context, u *entity.User) error {
	doc, err := toUserDocument(u)
	if err != nil {
		return apperror.Validation("invalid user id")
	}
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return userWriteError(err)
	}
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, apperror.NotFound("user not found")
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *UserRepository) findOne(ctx context.Context, filter bson.M) (*entity.User, error) {
	var doc userDocument
	if err := r.col.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperror.NotFound("user not found")
		}
		return nil, apperror.Storage("find user", err)
	}
	return doc.entity(), nil
}

// GetAccounts projects the account sub-document only; credentials never leave the store.
func (r *UserRepository) GetAccounts(ctx context.Context, ids []string) (map[string]entity.Account, error) {
	out := make(map[string]entity.Account, len(ids))
	oids := make([]bson.ObjectID, 0, len(ids))
	for _, id := range ids {
		if oid, err := bson.ObjectIDFromHex(id); err == nil {
			oids = append(oids, oid)
		}
	}
	if len(oids) == 0 {
		return out, nil
	}
	opts := options.Find().SetProjection(bson.M{"account": 1})
	cursor, err := r.col.Find(ctx, bson.M{"_id": bson.M{"$in": oids}}, opts)
	if err != nil {
		return nil, apperror.Storage("find accounts", err)
	}
	defer cursor.Close(ctx)

	for cursor.Next(ctx) {
		var doc struct {
			ID      bson.ObjectID   `bson:"_id"`
			Account accountDocument `bson:"account"`
		}
		if err := cursor.Decode(&doc); err != nil {
			return nil, apperror.Storage("decode account", err)
		}
		out[doc.ID.Hex()] = doc.Account.entity()
	}
	if err := cursor.Err(); err != nil {
		return nil, apperror.Storage("iterate accounts", err)
	}
	return out, nil
}

// Update replaces the whole record (last write wins).
func (r *UserRepository) Update(ctx context.Context, u *entity.User) error {
	doc, err := toUserDocument(u)
	if err != nil {
		return apperror.NotFound("user not found")
	}
	res, err := r.col.ReplaceOne(ctx, bson.M{"_id": doc.ID}, doc)
	if err != nil {
		return userWriteError(err)
	}
	if res.MatchedCount == 0 {
		return apperror.NotFound("user not found")
	}
	return nil
}

func (r *UserRepository) Delete(ctx context.Context, id string) error {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return apperror.NotFound("user not found")
	}
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return apperror.Storage("delete user", err)
	}
	if res.DeletedCount == 0 {
		return apperror.NotFound("user not found")
	}
	return nil
}

func (r *UserRepository) PushCreatedOffer(ctx context.Context, userID, offerID string) error {
	return r.updateOffers(ctx, userID, bson.M{"$addToSet": bson.M{"createdOffers": offerID}})
}

func (r *UserRepository) PullCreatedOffer(ctx context.Context, userID, offerID string) error {
	return r.updateOffers(ctx, userID, bson.M{"$pull": bson.M{"createdOffers": offerID}})
}

func (r *UserRepository) updateOffers(ctx context.Context, userID string, update bson.M) error {
	oid, err := bson.ObjectIDFromHex(userID)
	if err != nil {
		return apperror.NotFound("user not found")
	}
	res, err := r.col.UpdateOne(ctx, bson.M{"_id": oid}, update)
	if err != nil {
		return apperror.Storage("update created offers", err)
	}
	if res.MatchedCount == 0 {
		return apperror.NotFound("user not found")
	}
	return nil
}

// SetVerified marks the owner of the verification token as verified and
// consumes the token.
func (r *UserRepository) SetVerified(ctx context.Context, verificationToken string) (*entity.User, error) {
	if verificationToken == "" {
		return nil, apperror.NotFound("verification token not found")
	}
	var doc userDocument
	err := r.col.FindOneAndUpdate(ctx,
		bson.M{"verificationToken": verificationToken},
		bson.M{
			"$set":   bson.M{"isVerified": true},
			"$unset": bson.M{"verificationToken": ""},
			"$inc":   bson.M{"revision": 1},
		},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperror.NotFound("verification token not found")
		}
		return nil, apperror.Storage("verify user", err)
	}
	return doc.entity(), nil
}

func userWriteError(err error) error {
	if mongo.IsDuplicateKeyError(err) {
		return apperror.Conflict("user already exists")
	}
	return apperror.Storage("write user", err)
}

var _ repository.UserRepository = (*UserRepository)(nil)
