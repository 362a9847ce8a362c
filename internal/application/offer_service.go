package application

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/sirupsen/logrus"

	"github.com/Widedbounou/SK-B/internal/domain/entity"
	repo "github.com/Widedbounou/SK-B/internal/domain/repository"
	"github.com/Widedbounou/SK-B/pkg/apperror"
	"github.com/Widedbounou/SK-B/pkg/helpers"
	"github.com/Widedbounou/SK-B/pkg/taxonomy"
)

// Publish-time bounds, tighter than what a stored offer allows.
const (
	PublishMaxTitle       = 50
	PublishMaxDescription = 1000
	PublishMaxPrice       = 100000
)

const (
	defaultSearchSize = 10
	maxSearchSize     = 50
)

// SearchSize clamps a requested result count: below 1 is the default, above
// the maximum is the maximum.
func SearchSize(n int) int {
	if n < 1 {
		return defaultSearchSize
	}
	if n > maxSearchSize {
		return maxSearchSize
	}
	return n
}

type OfferService struct {
	Offers    repo.OfferRepository
	Users     repo.UserRepository
	Media     repo.MediaStore
	Cache     repo.OfferCache // optional
	Index     repo.OfferIndex // optional
	Taxonomy  *taxonomy.Taxonomy
	MediaRoot string
	Logger    *logrus.Logger
	now       func() time.Time
}

func NewOfferService(offers repo.OfferRepository, users repo.UserRepository, media repo.MediaStore, tax *taxonomy.Taxonomy, mediaRoot string, logger *logrus.Logger) *OfferService {
	return &OfferService{
		Offers:    offers,
		Users:     users,
		Media:     media,
		Taxonomy:  tax,
		MediaRoot: mediaRoot,
		Logger:    logger,
		now:       time.Now,
	}
}

type PublishOfferInput struct {
	Title         string
	Description   string
	Price         float64
	Currency      string
	Location      string
	Categories    []string
	Subcategories []string
	AdTypes       []string
	Attributes    map[string][]string
}

func (in PublishOfferInput) validate() error {
	if strings.TrimSpace(in.Title) == "" || strings.TrimSpace(in.Description) == "" || strings.TrimSpace(in.Location) == "" {
		return apperror.Validation("missing title, description, price or location")
	}
	if utf8.RuneCountInString(in.Title) > PublishMaxTitle ||
		utf8.RuneCountInString(in.Description) > PublishMaxDescription ||
		in.Price < 0 || in.Price > PublishMaxPrice {
		return apperror.Validation("invalid title, description or price")
	}
	return nil
}

// UpdateOfferInput is a partial update; nil fields are left untouched.
type UpdateOfferInput struct {
	Title         *string
	Description   *string
	Price         *float64
	Currency      *string
	Location      *string
	Categories    []string
	Subcategories []string
	AdTypes       []string
	Attributes    map[string][]string
}

func (in UpdateOfferInput) apply(o *entity.Offer) {
	if in.Title != nil {
		o.Title = *in.Title
	}
	if in.Description != nil {
		o.Description = *in.Description
	}
	if in.Price != nil {
		o.Price = *in.Price
	}
	if in.Currency != nil {
		o.Currency = *in.Currency
	}
	if in.Location != nil {
		o.Location = *in.Location
	}
	if in.Categories != nil {
		o.Categories = in.Categories
	}
	if in.Subcategories != nil {
		o.Subcategories = in.Subcategories
	}
	if in.AdTypes != nil {
		o.AdTypes = toAdTypes(in.AdTypes)
	}
	if in.Attributes != nil {
		o.Attributes = in.Attributes
	}
}

// OfferCreator is the public projection of an offer's owner.
type OfferCreator struct {
	ID      string         `json:"_id"`
	Account entity.Account `json:"account"`
}

type OfferView struct {
	ID            string              `json:"_id"`
	Title         string              `json:"product_title"`
	Description   string              `json:"product_description"`
	Price         float64             `json:"product_price"`
	Currency      string              `json:"product_currency"`
	Categories    []string            `json:"product_categories"`
	Subcategories []string            `json:"product_subcategories"`
	AdTypes       []entity.AdType     `json:"ad_types,omitempty"`
	Attributes    map[string][]string `json:"product_details,omitempty"`
	Location      string              `json:"location"`
	Created       time.Time           `json:"created"`
	Creator       *OfferCreator       `json:"creator,omitempty"`
	Image         entity.MediaRef     `json:"product_image"`
	Pictures      []entity.MediaRef   `json:"product_pictures"`
}

type OfferPage struct {
	TotalOffers int64       `json:"totalOffers"`
	TotalPages  int         `json:"totalPages"`
	CurrentPage int         `json:"currentPage"`
	Offers      []OfferView `json:"offers"`
}

func newOfferView(o *entity.Offer, creator *OfferCreator) OfferView {
	pictures := o.Pictures
	if pictures == nil {
		pictures = []entity.MediaRef{}
	}
	return OfferView{
		ID:            o.ID,
		Title:         o.Title,
		Description:   o.Description,
		Price:         o.Price,
		Currency:      o.Currency,
		Categories:    o.Categories,
		Subcategories: o.Subcategories,
		AdTypes:       o.AdTypes,
		Attributes:    o.Attributes,
		Location:      o.Location,
		Created:       o.Created,
		Creator:       creator,
		Image:         o.Image,
		Pictures:      pictures,
	}
}

func toAdTypes(in []string) []entity.AdType {
	out := make([]entity.AdType, 0, len(in))
	for _, t := range in {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, entity.AdType(t))
		}
	}
	return out
}

func (s *OfferService) vocab() entity.AttributeVocabulary {
	if s.Taxonomy == nil {
		return nil
	}
	return s.Taxonomy
}

func (s *OfferService) namespace(offerID string) string {
	return offerNamespace(s.MediaRoot, offerID)
}

func offerNamespace(root, offerID string) string {
	if root == "" {
		root = "soukoni"
	}
	return root + "/offers/" + offerID
}

// Publish creates an offer owned by ownerID. The first image becomes the
// preview, the rest are stored as picture-1..n in the offer's namespace.
func (s *OfferService) Publish(ctx context.Context, ownerID string, in PublishOfferInput, images []repo.Upload) (*OfferView, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	if len(images) == 0 {
		return nil, apperror.Validation("no image uploaded")
	}
	if err := checkImages("picture", images...); err != nil {
		return nil, err
	}
	owner, err := s.Users.GetByID(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	currency := strings.TrimSpace(in.Currency)
	if currency == "" {
		currency = entity.DefaultCurrency
	}
	o := &entity.Offer{
		ID:            s.Offers.NewID(),
		Title:         strings.TrimSpace(in.Title),
		Description:   strings.TrimSpace(in.Description),
		Price:         in.Price,
		Currency:      currency,
		Location:      strings.TrimSpace(in.Location),
		CreatorID:     owner.ID,
		Created:       s.now().UTC(),
		Categories:    in.Categories,
		Subcategories: in.Subcategories,
		AdTypes:       toAdTypes(in.AdTypes),
		Attributes:    in.Attributes,
	}
	if err := o.Validate(s.vocab()); err != nil {
		return nil, err
	}

	ns := s.namespace(o.ID)
	for i, img := range images {
		publicID := "preview"
		if i > 0 {
			publicID = fmt.Sprintf("picture-%d", i)
		}
		ref, err := s.Media.Upload(ctx, img, ns, publicID)
		if err != nil {
			s.dropMedia(ctx, ns)
			return nil, apperror.Media("image upload failed", err)
		}
		if i == 0 {
			o.Image = ref
		} else {
			o.Pictures = append(o.Pictures, ref)
		}
	}

	if err := s.Offers.Create(ctx, o); err != nil {
		s.dropMedia(ctx, ns)
		return nil, err
	}
	if err := s.Users.PushCreatedOffer(ctx, owner.ID, o.ID); err != nil {
		helpers.LogWarn(s.Logger, "push created offer failed", err, logrus.Fields{"offer_id": o.ID, "user_id": owner.ID})
	}
	s.reindex(ctx, o)

	view := newOfferView(o, &OfferCreator{ID: owner.ID, Account: owner.Account})
	return &view, nil
}

// Update merges the supplied fields into an existing offer. Only the owner
// or an admin may change it.
func (s *OfferService) Update(ctx context.Context, actor *entity.User, offerID string, in UpdateOfferInput) (*OfferView, error) {
	o, err := s.Offers.GetByID(ctx, offerID)
	if err != nil {
		return nil, err
	}
	if !canModify(actor, o.CreatorID) {
		return nil, apperror.Forbidden("only the owner can update this offer")
	}
	in.apply(o)
	if err := o.Validate(s.vocab()); err != nil {
		return nil, err
	}
	if err := s.Offers.Update(ctx, o); err != nil {
		return nil, err
	}
	s.evict(ctx, o.ID)
	s.reindex(ctx, o)

	views, err := s.views(ctx, []*entity.Offer{o})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

// Remove deletes the offer's media namespace (best effort) and then the offer.
func (s *OfferService) Remove(ctx context.Context, actor *entity.User, offerID string) error {
	o, err := s.Offers.GetByID(ctx, offerID)
	if err != nil {
		return err
	}
	if !canModify(actor, o.CreatorID) {
		return apperror.Forbidden("only the owner can delete this offer")
	}
	s.dropMedia(ctx, s.namespace(o.ID))
	if err := s.Offers.Delete(ctx, o.ID); err != nil {
		return err
	}
	if err := s.Users.PullCreatedOffer(ctx, o.CreatorID, o.ID); err != nil {
		helpers.LogWarn(s.Logger, "pull created offer failed", err, logrus.Fields{"offer_id": o.ID, "user_id": o.CreatorID})
	}
	s.evict(ctx, o.ID)
	if s.Index != nil {
		if err := s.Index.Delete(ctx, o.ID); err != nil {
			helpers.LogWarn(s.Logger, "es delete failed", err, logrus.Fields{"offer_id": o.ID})
		}
	}
	return nil
}

// List returns one page of offers matching params, with totals.
func (s *OfferService) List(ctx context.Context, params OfferListParams) (*OfferPage, error) {
	q, err := BuildOfferQuery(params)
	if err != nil {
		return nil, err
	}
	offers, err := s.Offers.Find(ctx, q)
	if err != nil {
		return nil, err
	}
	total, err := s.Offers.Count(ctx, q.Filter)
	if err != nil {
		return nil, err
	}
	views, err := s.views(ctx, offers)
	if err != nil {
		return nil, err
	}
	return &OfferPage{
		TotalOffers: total,
		TotalPages:  TotalPages(total, q.Page.Limit),
		CurrentPage: q.Page.Number,
		Offers:      views,
	}, nil
}

func (s *OfferService) GetByID(ctx context.Context, offerID string) (*OfferView, error) {
	o, err := s.load(ctx, offerID)
	if err != nil {
		return nil, err
	}
	views, err := s.views(ctx, []*entity.Offer{o})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

// ListByOwner returns NotFound when the owner has no offers.
func (s *OfferService) ListByOwner(ctx context.Context, ownerID string) ([]OfferView, error) {
	offers, err := s.Offers.FindByCreator(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if len(offers) == 0 {
		return nil, apperror.NotFound("no offers found for this user")
	}
	return s.views(ctx, offers)
}

// Search runs a full-text query on the search index. Without an index the
// result is empty.
func (s *OfferService) Search(ctx context.Context, q string, size int) ([]OfferView, error) {
	q = strings.TrimSpace(q)
	if s.Index == nil || q == "" {
		return []OfferView{}, nil
	}
	ids, err := s.Index.Search(ctx, q, SearchSize(size))
	if err != nil {
		return nil, apperror.Storage("search offers", err)
	}
	offers := make([]*entity.Offer, 0, len(ids))
	for _, id := range ids {
		o, err := s.load(ctx, id)
		if apperror.Is(err, apperror.KindNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		offers = append(offers, o)
	}
	return s.views(ctx, offers)
}

// load reads through the cache.
func (s *OfferService) load(ctx context.Context, offerID string) (*entity.Offer, error) {
	if s.Cache != nil {
		o, ok, err := s.Cache.Get(ctx, offerID)
		if err != nil {
			helpers.LogWarn(s.Logger, "offer cache get failed", err, logrus.Fields{"offer_id": offerID})
		}
		if ok {
			return o, nil
		}
	}
	o, err := s.Offers.GetByID(ctx, offerID)
	if err != nil {
		return nil, err
	}
	if s.Cache != nil {
		if err := s.Cache.Set(ctx, o); err != nil {
			helpers.LogWarn(s.Logger, "offer cache set failed", err, logrus.Fields{"offer_id": offerID})
		}
	}
	return o, nil
}

// views resolves creators to their public account in one lookup.
func (s *OfferService) views(ctx context.Context, offers []*entity.Offer) ([]OfferView, error) {
	ids := make([]string, 0, len(offers))
	seen := map[string]bool{}
	for _, o := range offers {
		if !seen[o.CreatorID] {
			seen[o.CreatorID] = true
			ids = append(ids, o.CreatorID)
		}
	}
	accounts, err := s.Users.GetAccounts(ctx, ids)
	if err != nil {
		return nil, err
	}
	out := make([]OfferView, 0, len(offers))
	for _, o := range offers {
		var creator *OfferCreator
		if acc, ok := accounts[o.CreatorID]; ok {
			creator = &OfferCreator{ID: o.CreatorID, Account: acc}
		}
		out = append(out, newOfferView(o, creator))
	}
	return out, nil
}

func (s *OfferService) dropMedia(ctx context.Context, namespace string) {
	if err := s.Media.DeletePrefix(ctx, namespace); err != nil {
		helpers.LogWarn(s.Logger, "media cleanup failed", err, logrus.Fields{"namespace": namespace})
	}
}

func (s *OfferService) evict(ctx context.Context, offerID string) {
	if s.Cache == nil {
		return
	}
	if err := s.Cache.Delete(ctx, offerID); err != nil {
		helpers.LogWarn(s.Logger, "offer cache delete failed", err, logrus.Fields{"offer_id": offerID})
	}
}

func (s *OfferService) reindex(ctx context.Context, o *entity.Offer) {
	if s.Index == nil {
		return
	}
	if err := s.Index.Index(ctx, o); err != nil {
		helpers.LogWarn(s.Logger, "es index failed", err, logrus.Fields{"offer_id": o.ID})
	}
}

// canModify reports whether actor owns the resource or is an admin.
func canModify(actor *entity.User, ownerID string) bool {
	return actor != nil && (actor.ID == ownerID || actor.IsAdmin())
}
