package lifecycle

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC)

func pendingRequest(mode SelectionMode) Request {
	return Request{
		ID:            "req-1",
		CompanyID:     "client-co",
		UserID:        "client-user",
		Pricing:       PricingFixed,
		SelectionMode: mode,
		State:         StatePending,
		DateExpired:   now.Add(-time.Hour),
	}
}

func noticeKinds(notices []Notice) []NoticeKind {
	kinds := make([]NoticeKind, 0, len(notices))
	for _, n := range notices {
		kinds = append(kinds, n.Kind)
	}
	return kinds
}

func TestEvaluatePending_NotDue(t *testing.T) {
	req := pendingRequest(SelectionManual)
	req.DateExpired = now.Add(time.Hour)

	_, ok := EvaluatePending(req, nil, now)
	assert.False(t, ok)
}

func TestEvaluatePending_WrongState(t *testing.T) {
	req := pendingRequest(SelectionManual)
	req.State = StateExpired

	_, ok := EvaluatePending(req, nil, now)
	assert.False(t, ok)
}

func TestEvaluatePending_NoOffers(t *testing.T) {
	out, ok := EvaluatePending(pendingRequest(SelectionManual), nil, now)
	require.True(t, ok)

	assert.Equal(t, StateExpired, out.NextState)
	assert.Equal(t, ResultNoContract, out.ContractResult)
	assert.Equal(t, BucketNoOffersExpired, out.Bucket)
	assert.Nil(t, out.Award)
	assert.Equal(t, []NoticeKind{NoticeNoOffers}, noticeKinds(out.Notices))
}

func TestEvaluatePending_ManualGoesOnHold(t *testing.T) {
	req := pendingRequest(SelectionManual)
	req.MaximumPrice = fp(100)
	offers := []Offer{{ID: "a", Price: "95"}, {ID: "b", Price: "120"}}

	out, ok := EvaluatePending(req, offers, now)
	require.True(t, ok)

	assert.Equal(t, StateOnHold, out.NextState)
	assert.Equal(t, BucketOnHoldManual, out.Bucket)
	require.NotNil(t, out.AcceptDeadline)
	assert.Equal(t, req.DateExpired.Add(AcceptWindow), *out.AcceptDeadline)
	assert.Equal(t, []NoticeKind{NoticeAwaitingSelection}, noticeKinds(out.Notices))
}

func TestEvaluatePending_ManualAllOverBudgetNotice(t *testing.T) {
	req := pendingRequest(SelectionManual)
	req.MaximumPrice = fp(100)
	offers := []Offer{{ID: "a", Price: "120"}, {ID: "b", Price: "140"}}

	out, ok := EvaluatePending(req, offers, now)
	require.True(t, ok)

	assert.Equal(t, StateOnHold, out.NextState)
	assert.Equal(t, []NoticeKind{NoticeOverBudget}, noticeKinds(out.Notices))
}

func TestEvaluatePending_ManualHourlyIgnoresCeiling(t *testing.T) {
	req := pendingRequest(SelectionManual)
	req.Pricing = PricingHourly
	req.MaximumPrice = fp(100)
	offers := []Offer{{ID: "a", Price: "500"}}

	out, ok := EvaluatePending(req, offers, now)
	require.True(t, ok)
	assert.Equal(t, []NoticeKind{NoticeAwaitingSelection}, noticeKinds(out.Notices))
}

func TestEvaluatePending_ManualHourlyUnparseableStillAwaitsSelection(t *testing.T) {
	// No ceiling applies to hourly requests, so even all-unparseable prices
	// must not produce the over-budget notice.
	req := pendingRequest(SelectionManual)
	req.Pricing = PricingHourly
	req.MaximumPrice = fp(100)
	offers := []Offer{{ID: "a", Price: "negotiable"}}

	out, ok := EvaluatePending(req, offers, now)
	require.True(t, ok)
	assert.Equal(t, []NoticeKind{NoticeAwaitingSelection}, noticeKinds(out.Notices))
}

func TestEvaluatePending_ManualNoMaximumUnparseableStillAwaitsSelection(t *testing.T) {
	req := pendingRequest(SelectionManual)
	offers := []Offer{{ID: "a", Price: "on request"}}

	out, ok := EvaluatePending(req, offers, now)
	require.True(t, ok)
	assert.Equal(t, []NoticeKind{NoticeAwaitingSelection}, noticeKinds(out.Notices))
}

func TestEvaluatePending_AutomaticAwardsLowestWithinCeiling(t *testing.T) {
	req := pendingRequest(SelectionAutomatic)
	req.MaximumPrice = fp(100)
	offers := []Offer{
		{ID: "a", UserID: "p1", Price: "120"},
		{ID: "b", UserID: "p2", Price: "95"},
		{ID: "c", UserID: "p3", Price: "140"},
	}

	out, ok := EvaluatePending(req, offers, now)
	require.True(t, ok)

	assert.Equal(t, StateExpired, out.NextState)
	assert.Equal(t, ResultContract, out.ContractResult)
	assert.Equal(t, BucketAutoAwarded, out.Bucket)
	require.NotNil(t, out.Award)
	assert.Equal(t, "b", out.Award.WinnerOfferID)
	assert.ElementsMatch(t, []string{"a", "c"}, out.Award.LoserOfferIDs)

	kinds := noticeKinds(out.Notices)
	assert.Contains(t, kinds, NoticeContractFormed)
	assert.Contains(t, kinds, NoticeContractWon)
	assert.Len(t, kinds, 4, "one formed, one won, two not-selected")
}

func TestEvaluatePending_AutomaticOverCeilingGoesOnHold(t *testing.T) {
	req := pendingRequest(SelectionAutomatic)
	req.MaximumPrice = fp(100)
	offers := []Offer{{ID: "a", Price: "120"}, {ID: "b", Price: "140"}}

	out, ok := EvaluatePending(req, offers, now)
	require.True(t, ok)

	assert.Equal(t, StateOnHold, out.NextState)
	assert.Equal(t, BucketOnHoldOverBudget, out.Bucket)
	assert.Nil(t, out.Award, "over-ceiling must never auto-award")
	require.NotNil(t, out.AcceptDeadline)
	assert.Equal(t, req.DateExpired.Add(AcceptWindow), *out.AcceptDeadline)
	assert.Equal(t, []NoticeKind{NoticeOverBudget}, noticeKinds(out.Notices))
}

func TestEvaluatePending_AutomaticNoCeilingAwards(t *testing.T) {
	req := pendingRequest(SelectionAutomatic)
	offers := []Offer{{ID: "a", Price: "120"}, {ID: "b", Price: "140"}}

	out, ok := EvaluatePending(req, offers, now)
	require.True(t, ok)
	require.NotNil(t, out.Award)
	assert.Equal(t, "a", out.Award.WinnerOfferID)
}

func TestEvaluatePending_AutomaticAllUnparseableGoesOnHold(t *testing.T) {
	req := pendingRequest(SelectionAutomatic)
	offers := []Offer{{ID: "a", Price: "negotiable"}}

	out, ok := EvaluatePending(req, offers, now)
	require.True(t, ok)
	assert.Equal(t, StateOnHold, out.NextState)
	assert.Nil(t, out.Award)
}

func TestEvaluatePending_UnknownModeFallsBackToManual(t *testing.T) {
	req := pendingRequest(SelectionMode("bogus"))
	offers := []Offer{{ID: "a", Price: "95"}}

	out, ok := EvaluatePending(req, offers, now)
	require.True(t, ok)

	assert.Equal(t, StateOnHold, out.NextState)
	assert.Equal(t, BucketOnHoldManual, out.Bucket)
	assert.Nil(t, out.Award, "unknown mode must never auto-award")
}

func TestEvaluatePending_Totality(t *testing.T) {
	// Every due pending request must leave pending, whatever its shape.
	cases := []struct {
		name   string
		mode   SelectionMode
		max    *float64
		offers []Offer
	}{
		{"no offers", SelectionManual, nil, nil},
		{"manual with offers", SelectionManual, fp(50), []Offer{{ID: "a", Price: "95"}}},
		{"auto within ceiling", SelectionAutomatic, fp(100), []Offer{{ID: "a", Price: "95"}}},
		{"auto over ceiling", SelectionAutomatic, fp(10), []Offer{{ID: "a", Price: "95"}}},
		{"unset mode", SelectionMode(""), nil, []Offer{{ID: "a", Price: "95"}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := pendingRequest(tc.mode)
			req.MaximumPrice = tc.max

			out, ok := EvaluatePending(req, tc.offers, now)
			require.True(t, ok)
			assert.Contains(t, []State{StateExpired, StateOnHold}, out.NextState)
			assert.NotEqual(t, StatePending, out.NextState)
		})
	}
}

func TestEvaluateOnHold_ExpiresPastDeadline(t *testing.T) {
	deadline := now.Add(-time.Minute)
	req := Request{ID: "req-1", State: StateOnHold, AcceptDeadline: &deadline}

	out, ok := EvaluateOnHold(req, now)
	require.True(t, ok)

	assert.Equal(t, StateExpired, out.NextState)
	assert.Equal(t, ResultNoContract, out.ContractResult)
	assert.Equal(t, BucketOnHoldExpired, out.Bucket)
}

func TestEvaluateOnHold_NotDue(t *testing.T) {
	deadline := now.Add(time.Hour)
	req := Request{ID: "req-1", State: StateOnHold, AcceptDeadline: &deadline}

	_, ok := EvaluateOnHold(req, now)
	assert.False(t, ok)
}

func TestEvaluateOnHold_SkipsContractedRequests(t *testing.T) {
	deadline := now.Add(-time.Minute)
	req := Request{ID: "req-1", State: StateOnHold, AcceptDeadline: &deadline, ContractResult: ResultContract}

	_, ok := EvaluateOnHold(req, now)
	assert.False(t, ok)
}

func TestEvaluateOnHold_IgnoresConflictCheck(t *testing.T) {
	// The decision clock is frozen during conflict check; the on-hold expiry
	// rule must not fire.
	deadline := now.Add(-time.Hour)
	req := Request{ID: "req-1", State: StateConflictCheck, AcceptDeadline: &deadline}

	_, ok := EvaluateOnHold(req, now)
	assert.False(t, ok)
}

func TestContractGatedNotices(t *testing.T) {
	assert.True(t, Notice{Kind: NoticeContractFormed}.ContractGated())
	assert.True(t, Notice{Kind: NoticeContractWon}.ContractGated())
	assert.True(t, Notice{Kind: NoticeNotSelected}.ContractGated())
	assert.False(t, Notice{Kind: NoticeNoOffers}.ContractGated())
	assert.False(t, Notice{Kind: NoticeDeniedChooseAgain}.ContractGated())
}
