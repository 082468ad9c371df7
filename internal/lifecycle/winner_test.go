package lifecycle

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fp(v float64) *float64 { return &v }

func TestLowestOffer_PicksMinimum(t *testing.T) {
	offers := []Offer{
		{ID: "a", Price: "120"},
		{ID: "b", Price: "95"},
		{ID: "c", Price: "140"},
	}
	best := LowestOffer(offers)
	require.NotNil(t, best)
	assert.Equal(t, "b", best.ID)
}

func TestLowestOffer_TieKeepsFirstInOrder(t *testing.T) {
	offers := []Offer{
		{ID: "first", Price: "100"},
		{ID: "second", Price: "100"},
		{ID: "third", Price: "100.00"},
	}
	best := LowestOffer(offers)
	require.NotNil(t, best)
	assert.Equal(t, "first", best.ID, "equal prices must resolve to the earlier offer")
}

func TestLowestOffer_SkipsUnparseablePrices(t *testing.T) {
	offers := []Offer{
		{ID: "a", Price: "call us"},
		{ID: "b", Price: "250"},
		{ID: "c", Price: "1,500"}, // thousands separator does not parse
	}
	best := LowestOffer(offers)
	require.NotNil(t, best)
	assert.Equal(t, "b", best.ID, "unparseable prices must never win")
}

func TestLowestOffer_AllUnparseable(t *testing.T) {
	offers := []Offer{
		{ID: "a", Price: "TBD"},
		{ID: "b", Price: ""},
	}
	assert.Nil(t, LowestOffer(offers))
}

func TestLowestOffer_Empty(t *testing.T) {
	assert.Nil(t, LowestOffer(nil))
}

func TestWithinCeiling(t *testing.T) {
	fixed := Request{Pricing: PricingFixed, MaximumPrice: fp(100)}

	assert.True(t, WithinCeiling(Offer{Price: "95"}, fixed))
	assert.True(t, WithinCeiling(Offer{Price: "100"}, fixed), "at the ceiling qualifies")
	assert.False(t, WithinCeiling(Offer{Price: "100.01"}, fixed))
	assert.False(t, WithinCeiling(Offer{Price: "whatever"}, fixed))

	// Hourly requests are never ceiling-gated.
	hourly := Request{Pricing: PricingHourly, MaximumPrice: fp(100)}
	assert.True(t, WithinCeiling(Offer{Price: "500"}, hourly))

	// No maximum means no gate.
	open := Request{Pricing: PricingFixed}
	assert.True(t, WithinCeiling(Offer{Price: "99999"}, open))
}

func TestTopOffers_SortsByPriceAndLimits(t *testing.T) {
	offers := []Offer{
		{ID: "a", Price: "300"},
		{ID: "b", Price: "100"},
		{ID: "c", Price: "200"},
		{ID: "d", Price: "150"},
	}
	top := TopOffers(offers, 3)
	require.Len(t, top, 3)
	assert.Equal(t, "b", top[0].ID)
	assert.Equal(t, "d", top[1].ID)
	assert.Equal(t, "c", top[2].ID)
}

func TestTopOffers_ExcludesDisqualified(t *testing.T) {
	offers := []Offer{
		{ID: "a", Price: "100", Status: OfferDisqualified},
		{ID: "b", Price: "200"},
	}
	top := TopOffers(offers, 3)
	require.Len(t, top, 1)
	assert.Equal(t, "b", top[0].ID)
}

func TestTopOffers_UnparseableSortLast(t *testing.T) {
	offers := []Offer{
		{ID: "a", Price: "on request"},
		{ID: "b", Price: "200"},
	}
	top := TopOffers(offers, 2)
	require.Len(t, top, 2)
	assert.Equal(t, "b", top[0].ID)
	assert.Equal(t, "a", top[1].ID)
}
