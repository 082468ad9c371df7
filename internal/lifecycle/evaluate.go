package lifecycle

import "time"

// EvaluatePending decides the transition for a pending request whose offer
// submission deadline has passed. Returns false when the request is not due.
//
// Exactly one of three things happens: no offers means terminal expiry,
// automatic mode awards the lowest offer inside the ceiling, and everything
// else parks the request on hold for the purchaser to decide. An unknown
// selection mode falls back to the manual on-hold path rather than awarding
// anything on its own.
func EvaluatePending(req Request, offers []Offer, now time.Time) (Outcome, bool) {
	if req.State != StatePending || req.DateExpired.After(now) {
		return Outcome{}, false
	}

	if len(offers) == 0 {
		return Outcome{
			RequestID:      req.ID,
			NextState:      StateExpired,
			ContractResult: ResultNoContract,
			Bucket:         BucketNoOffersExpired,
			Notices: []Notice{
				{Kind: NoticeNoOffers, RequestID: req.ID},
			},
		}, true
	}

	deadline := req.DateExpired.Add(AcceptWindow)

	if req.SelectionMode == SelectionAutomatic {
		lowest := LowestOffer(offers)
		if lowest != nil && WithinCeiling(*lowest, req) {
			out := awardOutcome(req, offers, *lowest)
			out.Bucket = BucketAutoAwarded
			return out, true
		}
		// Lowest offer over the ceiling (or no parseable price at all):
		// the purchaser has to approve it manually or let it lapse.
		return Outcome{
			RequestID:      req.ID,
			NextState:      StateOnHold,
			AcceptDeadline: &deadline,
			Bucket:         BucketOnHoldOverBudget,
			Notices: []Notice{
				{Kind: NoticeOverBudget, RequestID: req.ID},
			},
		}, true
	}

	// Manual selection, and the fail-safe for any unrecognized mode.
	kind := NoticeAwaitingSelection
	if !anyWithinCeiling(offers, req) {
		kind = NoticeOverBudget
	}
	return Outcome{
		RequestID:      req.ID,
		NextState:      StateOnHold,
		AcceptDeadline: &deadline,
		Bucket:         BucketOnHoldManual,
		Notices: []Notice{
			{Kind: kind, RequestID: req.ID},
		},
	}, true
}

// EvaluateOnHold expires an on-hold request whose decision deadline has
// passed without a contract. Requests in conflict check are untouched: their
// clock is frozen and they are not in on_hold state.
func EvaluateOnHold(req Request, now time.Time) (Outcome, bool) {
	if req.State != StateOnHold || req.AcceptDeadline == nil || req.AcceptDeadline.After(now) {
		return Outcome{}, false
	}
	if req.ContractResult == ResultContract {
		return Outcome{}, false
	}
	return Outcome{
		RequestID:      req.ID,
		NextState:      StateExpired,
		ContractResult: ResultNoContract,
		ClearSelection: true,
		Bucket:         BucketOnHoldExpired,
	}, true
}

// awardOutcome builds the effect list for making winner the winning offer:
// contract formation, winner marked won, every non-disqualified sibling lost,
// request terminal with a contract. The contract-formed notices are gated on
// the contract row actually being created by this call.
func awardOutcome(req Request, offers []Offer, winner Offer) Outcome {
	out := Outcome{
		RequestID:      req.ID,
		NextState:      StateExpired,
		ContractResult: ResultContract,
		ClearSelection: true,
		Award: &Award{
			WinnerOfferID:   winner.ID,
			WinnerCompanyID: winner.CompanyID,
			WinnerUserID:    winner.UserID,
			Price:           winner.Price,
		},
		Notices: []Notice{
			{Kind: NoticeContractFormed, RequestID: req.ID, OfferID: winner.ID},
			{Kind: NoticeContractWon, RequestID: req.ID, OfferID: winner.ID, ProviderUserID: winner.UserID},
		},
	}
	for _, o := range offers {
		if o.ID == winner.ID || o.Status == OfferDisqualified {
			continue
		}
		out.Award.LoserOfferIDs = append(out.Award.LoserOfferIDs, o.ID)
		out.Notices = append(out.Notices, Notice{
			Kind:           NoticeNotSelected,
			RequestID:      req.ID,
			OfferID:        o.ID,
			ProviderUserID: o.UserID,
		})
	}
	return out
}
