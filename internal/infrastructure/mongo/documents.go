package mongo

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/Widedbounou/SK-B/internal/domain/entity"
)

type mediaDocument struct {
	PublicID    string `bson:"publicId"`
	Namespace   string `bson:"namespace"`
	URL         string `bson:"url"`
	ContentType string `bson:"contentType,omitempty"`
	Size        int64  `bson:"size,omitempty"`
}

type accountDocument struct {
	Username   string         `bson:"username"`
	FirstName  string         `bson:"firstName,omitempty"`
	LastName   string         `bson:"lastName,omitempty"`
	Location   string         `bson:"location,omitempty"`
	Avatar     *mediaDocument `bson:"avatar,omitempty"`
	Phone      string         `bson:"phone"`
	Newsletter bool           `bson:"newsletter"`
}

type userDocument struct {
	ID                bson.ObjectID   `bson:"_id"`
	Email             string          `bson:"email"`
	IsVerified        bool            `bson:"isVerified"`
	Token             string          `bson:"token"`
	VerificationToken string          `bson:"verificationToken,omitempty"`
	Salt              string          `bson:"salt"`
	Hash              string          `bson:"hash"`
	Account           accountDocument `bson:"account"`
	Role              string          `bson:"role"`
	UserType          string          `bson:"userType"`
	CreatedAt         time.Time       `bson:"createdAt"`
	UpdatedAt         time.Time       `bson:"updatedAt"`
	Revision          int64           `bson:"revision"`
	CreatedOffers     []string        `bson:"createdOffers"`
	PurchasedItems    []string        `bson:"purchasedItems"`
}

type offerDocument struct {
	ID            bson.ObjectID       `bson:"_id"`
	Title         string              `bson:"title"`
	Description   string              `bson:"description"`
	Price         float64             `bson:"price"`
	Currency      string              `bson:"currency"`
	Location      string              `bson:"location"`
	Creator       bson.ObjectID       `bson:"creator"`
	Created       time.Time           `bson:"created"`
	Categories    []string            `bson:"categories"`
	Subcategories []string            `bson:"subcategories"`
	AdTypes       []string            `bson:"adTypes"`
	Image         mediaDocument       `bson:"image"`
	Pictures      []mediaDocument     `bson:"pictures"`
	Attributes    map[string][]string `bson:"attributes,omitempty"`
}

func toMediaDocument(m entity.MediaRef) mediaDocument {
	return mediaDocument{PublicID: m.PublicID, Namespace: m.Namespace, URL: m.URL, ContentType: m.ContentType, Size: m.Size}
}

func (d mediaDocument) entity() entity.MediaRef {
	return entity.MediaRef{PublicID: d.PublicID, Namespace: d.Namespace, URL: d.URL, ContentType: d.ContentType, Size: d.Size}
}

func toUserDocument(u *entity.User) (userDocument, error) {
	id, err := bson.ObjectIDFromHex(u.ID)
	if err != nil {
		return userDocument{}, err
	}
	acc := accountDocument{
		Username:   u.Account.Username,
		FirstName:  u.Account.FirstName,
		LastName:   u.Account.LastName,
		Location:   u.Account.Location,
		Phone:      u.Account.Phone,
		Newsletter: u.Account.Newsletter,
	}
	if u.Account.Avatar != nil {
		md := toMediaDocument(*u.Account.Avatar)
		acc.Avatar = &md
	}
	return userDocument{
		ID:                id,
		Email:             u.Email,
		IsVerified:        u.IsVerified,
		Token:             u.Token,
		VerificationToken: u.VerificationToken,
		Salt:              u.Salt,
		Hash:              u.Hash,
		Account:           acc,
		Role:              string(u.Role),
		UserType:          string(u.UserType),
		CreatedAt:         u.CreatedAt,
		UpdatedAt:         u.UpdatedAt,
		Revision:          u.Revision,
		CreatedOffers:     nonNil(u.CreatedOffers),
		PurchasedItems:    nonNil(u.PurchasedItems),
	}, nil
}

func (d userDocument) entity() *entity.User {
	u := &entity.User{
		ID:                d.ID.Hex(),
		Email:             d.Email,
		IsVerified:        d.IsVerified,
		Token:             d.Token,
		VerificationToken: d.VerificationToken,
		Salt:              d.Salt,
		Hash:              d.Hash,
		Account:           d.Account.entity(),
		Role:              entity.Role(d.Role),
		UserType:          entity.UserType(d.UserType),
		CreatedAt:         d.CreatedAt,
		UpdatedAt:         d.UpdatedAt,
		Revision:          d.Revision,
		CreatedOffers:     d.CreatedOffers,
		PurchasedItems:    d.PurchasedItems,
	}
	return u
}

func (d accountDocument) entity() entity.Account {
	acc := entity.Account{
		Username:   d.Username,
		FirstName:  d.FirstName,
		LastName:   d.LastName,
		Location:   d.Location,
		Phone:      d.Phone,
		Newsletter: d.Newsletter,
	}
	if d.Avatar != nil {
		m := d.Avatar.entity()
		acc.Avatar = &m
	}
	return acc
}

func toOfferDocument(o *entity.Offer) (offerDocument, error) {
	id, err := bson.ObjectIDFromHex(o.ID)
	if err != nil {
		return offerDocument{}, err
	}
	creator, err := bson.ObjectIDFromHex(o.CreatorID)
	if err != nil {
		return offerDocument{}, err
	}
	adTypes := make([]string, 0, len(o.AdTypes))
	for _, t := range o.AdTypes {
		adTypes = append(adTypes, string(t))
	}
	pictures := make([]mediaDocument, 0, len(o.Pictures))
	for _, p := range o.Pictures {
		pictures = append(pictures, toMediaDocument(p))
	}
	return offerDocument{
		ID:            id,
		Title:         o.Title,
		Description:   o.Description,
		Price:         o.Price,
		Currency:      o.Currency,
		Location:      o.Location,
		Creator:       creator,
		Created:       o.Created,
		Categories:    nonNil(o.Categories),
		Subcategories: nonNil(o.Subcategories),
		AdTypes:       adTypes,
		Image:         toMediaDocument(o.Image),
		Pictures:      pictures,
		Attributes:    o.Attributes,
	}, nil
}

func (d offerDocument) entity() *entity.Offer {
	o := &entity.Offer{
		ID:            d.ID.Hex(),
		Title:         d.Title,
		Description:   d.Description,
		Price:         d.Price,
		Currency:      d.Currency,
		Location:      d.Location,
		CreatorID:     d.Creator.Hex(),
		Created:       d.Created,
		Categories:    d.Categories,
		Subcategories: d.Subcategories,
		Image:         d.Image.entity(),
		Attributes:    d.Attributes,
	}
	for _, t := range d.AdTypes {
		o.AdTypes = append(o.AdTypes, entity.AdType(t))
	}
	for _, p := range d.Pictures {
		o.Pictures = append(o.Pictures, p.entity())
	}
	return o
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
