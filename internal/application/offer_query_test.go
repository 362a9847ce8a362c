package application

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Widedbounou/SK-B/internal/domain/entity"
	"github.com/Widedbounou/SK-B/internal/domain/repository"
	"github.com/Widedbounou/SK-B/pkg/apperror"
)

func TestBuildOfferQuery_Empty(t *testing.T) {
	q, err := BuildOfferQuery(OfferListParams{})
	require.NoError(t, err)
	assert.Equal(t, repository.OfferFilter{}, q.Filter)
	assert.Equal(t, repository.Sort{Field: repository.SortByCreated, Desc: true}, q.Sort)
	assert.Equal(t, repository.Page{Number: 1, Limit: 20, Skip: 0}, q.Page)
}

func TestBuildOfferQuery_PriceRangeInclusive(t *testing.T) {
	q, err := BuildOfferQuery(OfferListParams{MinPrice: "10", MaxPrice: "50"})
	require.NoError(t, err)
	require.NotNil(t, q.Filter.Price)
	for price, want := range map[float64]bool{9: false, 10: true, 30: true, 50: true, 51: false} {
		assert.Equal(t, want, q.Filter.Price.Contains(price), "price %v", price)
	}
}

func TestBuildOfferQuery_OneSidedPrice(t *testing.T) {
	q, err := BuildOfferQuery(OfferListParams{MinPrice: "100"})
	require.NoError(t, err)
	require.NotNil(t, q.Filter.Price)
	assert.Nil(t, q.Filter.Price.Max)
	assert.Equal(t, 100.0, *q.Filter.Price.Min)
}

func TestBuildOfferQuery_BadPrice(t *testing.T) {
	_, err := BuildOfferQuery(OfferListParams{MaxPrice: "cheap"})
	assert.True(t, apperror.Is(err, apperror.KindValidation))
}

func TestBuildOfferQuery_TitleCaseInsensitive(t *testing.T) {
	q, err := BuildOfferQuery(OfferListParams{Title: "bike"})
	require.NoError(t, err)
	assert.True(t, q.Filter.Matches(&entity.Offer{Title: "Mountain Bike For Sale"}))
}

func TestBuildOfferQuery_Page(t *testing.T) {
	q, err := BuildOfferQuery(OfferListParams{Page: "3"})
	require.NoError(t, err)
	assert.Equal(t, repository.Page{Number: 3, Limit: 20, Skip: 40}, q.Page)
}

func TestParsePage(t *testing.T) {
	cases := map[string]int{"": 1, "0": 1, "-4": 1, "abc": 1, "2.5": 1, "1": 1, "7": 7, " 2 ": 2}
	for in, want := range cases {
		assert.Equal(t, want, ParsePage(in), "page %q", in)
	}
}

func TestBuildOfferQuery_HugePageKeepsSkipPositive(t *testing.T) {
	for _, raw := range []string{"461168601842738792", "9223372036854775807", "99999999999999999999999"} {
		q, err := BuildOfferQuery(OfferListParams{Page: raw})
		require.NoError(t, err)
		assert.Equal(t, MaxPage, q.Page.Number, "page %q", raw)
		assert.Positive(t, q.Page.Skip, "page %q", raw)
		assert.Equal(t, (MaxPage-1)*PageSize, q.Page.Skip)
	}
	assert.Equal(t, 1, ParsePage("-99999999999999999999999"))
}

func TestParseSort(t *testing.T) {
	recent := repository.Sort{Field: repository.SortByCreated, Desc: true}
	cases := map[string]repository.Sort{
		"":           recent,
		"relevance":  recent,
		"pertinence": recent,
		"recent":     recent,
		"bogus":      recent,
		"oldest":     {Field: repository.SortByCreated},
		"price-asc":  {Field: repository.SortByPrice},
		"priceAsc":   {Field: repository.SortByPrice},
		"price-desc": {Field: repository.SortByPrice, Desc: true},
		"priceDesc":  {Field: repository.SortByPrice, Desc: true},
	}
	for in, want := range cases {
		assert.Equal(t, want, ParseSort(in), "sortBy %q", in)
	}
}

func TestTotalPages(t *testing.T) {
	assert.Equal(t, 3, TotalPages(45, 20))
	assert.Equal(t, 2, TotalPages(40, 20))
	assert.Equal(t, 1, TotalPages(1, 20))
	assert.Equal(t, 0, TotalPages(0, 20))
}
