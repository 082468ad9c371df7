package lifecycle

import (
	"sort"
	"strconv"
)

// ParsePrice converts an offer's free-text price to a number. Providers type
// amounts by hand, so anything unparseable simply never qualifies.
func ParsePrice(raw string) (float64, bool) {
	p, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false
	}
	return p, true
}

// LowestOffer returns the cheapest offer with a parseable price, or nil when
// none parse. Ties resolve to the earlier offer in input order: the scan only
// replaces the candidate on a strictly lower price, and callers fetch offers
// in a stable creation order, so automatic awards stay deterministic.
func LowestOffer(offers []Offer) *Offer {
	var best *Offer
	var bestPrice float64
	for i := range offers {
		p, ok := ParsePrice(offers[i].Price)
		if !ok {
			continue
		}
		if best == nil || p < bestPrice {
			best = &offers[i]
			bestPrice = p
		}
	}
	return best
}

// WithinCeiling reports whether an offer's price clears the request's maximum
// price. Hourly-rate requests are never ceiling-gated, and a missing maximum
// means no gate at all.
func WithinCeiling(o Offer, req Request) bool {
	if req.Pricing == PricingHourly || req.MaximumPrice == nil {
		return true
	}
	p, ok := ParsePrice(o.Price)
	if !ok {
		return false
	}
	return p <= *req.MaximumPrice
}

// anyWithinCeiling reports whether at least one offer qualifies under the
// ceiling. Drives the awaiting-selection vs over-budget purchaser notice.
// With no ceiling in play (hourly rate, or no maximum set) nothing can be
// over budget, whatever the offers look like.
func anyWithinCeiling(offers []Offer, req Request) bool {
	if req.Pricing == PricingHourly || req.MaximumPrice == nil {
		return true
	}
	for _, o := range offers {
		if WithinCeiling(o, req) {
			return true
		}
	}
	return false
}

// TopOffers returns up to n offers sorted by parsed price ascending.
// Disqualified offers are excluded; unparseable prices sort last so the
// purchaser still sees them. The sort is stable, preserving input order
// among equal prices.
func TopOffers(offers []Offer, n int) []Offer {
	eligible := make([]Offer, 0, len(offers))
	for _, o := range offers {
		if o.Status == OfferDisqualified {
			continue
		}
		eligible = append(eligible, o)
	}
	sort.SliceStable(eligible, func(i, j int) bool {
		pi, oki := ParsePrice(eligible[i].Price)
		pj, okj := ParsePrice(eligible[j].Price)
		if oki != okj {
			return oki
		}
		if !oki {
			return false
		}
		return pi < pj
	})
	if n > 0 && len(eligible) > n {
		eligible = eligible[:n]
	}
	return eligible
}
