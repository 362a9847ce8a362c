package mongo

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/Widedbounou/SK-B/internal/domain/entity"
)

func TestUserDocument_KeepsEmptyArraysAndAvatar(t *testing.T) {
	u := &entity.User{
		ID:      bson.NewObjectID().Hex(),
		Email:   "juma@soukoni.tz",
		Account: entity.Account{Username: "juma", Avatar: &entity.MediaRef{PublicID: "avatar", Namespace: "soukoni/users/x"}},
		Role:    entity.RoleBuyer,
	}
	doc, err := toUserDocument(u)
	require.NoError(t, err)
	assert.Equal(t, []string{}, doc.CreatedOffers)
	assert.Equal(t, []string{}, doc.PurchasedItems)
	require.NotNil(t, doc.Account.Avatar)

	back := doc.entity()
	assert.Equal(t, u.ID, back.ID)
	assert.Equal(t, "avatar", back.Account.Avatar.PublicID)
}

func TestToUserDocument_BadID(t *testing.T) {
	_, err := toUserDocument(&entity.User{ID: "42"})
	assert.Error(t, err)
}

func TestOfferDocument_CreatorIsObjectID(t *testing.T) {
	creator := bson.NewObjectID()
	o := &entity.Offer{
		ID:        bson.NewObjectID().Hex(),
		CreatorID: creator.Hex(),
		Created:   time.Now().UTC(),
		AdTypes:   []entity.AdType{entity.AdTypeSell},
		Pictures:  []entity.MediaRef{{PublicID: "picture-1"}},
	}
	doc, err := toOfferDocument(o)
	require.NoError(t, err)
	assert.Equal(t, creator, doc.Creator)
	assert.Equal(t, []string{"sell"}, doc.AdTypes)

	back := doc.entity()
	assert.Equal(t, o.CreatorID, back.CreatorID)
	assert.Equal(t, []entity.AdType{entity.AdTypeSell}, back.AdTypes)
	assert.Equal(t, "picture-1", back.Pictures[0].PublicID)
}

func TestToOfferDocument_BadCreator(t *testing.T) {
	_, err := toOfferDocument(&entity.Offer{ID: bson.NewObjectID().Hex(), CreatorID: "nope"})
	assert.Error(t, err)
}
