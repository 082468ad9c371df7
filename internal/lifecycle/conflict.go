package lifecycle

import (
	"errors"
	"time"
)

var (
	ErrNotOnHold         = errors.New("request is not awaiting selection")
	ErrNotConflictCheck  = errors.New("request is not in conflict check")
	ErrNoSelectedOffer   = errors.New("request has no selected offer")
	ErrOfferNotFound     = errors.New("offer does not belong to this request")
	ErrOfferDisqualified = errors.New("offer was disqualified by an earlier conflict check")
	ErrAlreadyExtended   = errors.New("deadline can only be extended once")
	ErrNoDeadline        = errors.New("request has no decision deadline")
)

// ConflictPause is the snapshot taken when a purchaser's selection enters
// conflict check: the chosen offer and how much decision time was left on the
// clock when it froze.
type ConflictPause struct {
	SelectedOfferID string
	Remaining       time.Duration
}

// BeginConflictCheck validates a purchaser's "select winning offer" action
// and captures the pause snapshot. The accept deadline itself is not moved;
// the remaining time is banked and restored if the check denies the offer.
func BeginConflictCheck(req Request, offers []Offer, offerID string, now time.Time) (ConflictPause, error) {
	if req.State != StateOnHold {
		return ConflictPause{}, ErrNotOnHold
	}
	if req.AcceptDeadline == nil {
		return ConflictPause{}, ErrNoDeadline
	}
	var selected *Offer
	for i := range offers {
		if offers[i].ID == offerID {
			selected = &offers[i]
			break
		}
	}
	if selected == nil {
		return ConflictPause{}, ErrOfferNotFound
	}
	if selected.Status == OfferDisqualified {
		return ConflictPause{}, ErrOfferDisqualified
	}
	remaining := req.AcceptDeadline.Sub(now)
	if remaining < 0 {
		remaining = 0
	}
	return ConflictPause{SelectedOfferID: offerID, Remaining: remaining}, nil
}

// ResolveAccept finalizes a cleared conflict check: the selected offer wins,
// siblings lose, the request goes terminal with a contract. Safe to apply
// more than once; the applier's idempotent contract creation keeps repeat
// calls from duplicating side effects.
func ResolveAccept(req Request, offers []Offer, now time.Time) (Outcome, error) {
	selected, err := selectedOffer(req, offers)
	if err != nil {
		return Outcome{}, err
	}
	return awardOutcome(req, offers, *selected), nil
}

// ResolveDeny disqualifies the selected offer and resumes the decision clock:
// the new deadline is now plus whatever time was banked at pause. With
// nothing banked the deadline lands on now and the next sweep expires the
// request.
func ResolveDeny(req Request, offers []Offer, now time.Time) (Outcome, error) {
	selected, err := selectedOffer(req, offers)
	if err != nil {
		return Outcome{}, err
	}

	var remaining time.Duration
	if req.PausedRemaining != nil {
		remaining = *req.PausedRemaining
	}
	deadline := now.Add(remaining)

	out := Outcome{
		RequestID:         req.ID,
		NextState:         StateOnHold,
		AcceptDeadline:    &deadline,
		ClearSelection:    true,
		DisqualifyOfferID: selected.ID,
	}

	kind := NoticeDeniedNoneLeft
	for _, o := range offers {
		if o.ID == selected.ID || o.Status == OfferDisqualified {
			continue
		}
		kind = NoticeDeniedChooseAgain
		break
	}
	out.Notices = []Notice{{Kind: kind, RequestID: req.ID, OfferID: selected.ID}}
	return out, nil
}

// ExtendAcceptDeadline grants the single-use 24h grace period while on hold.
func ExtendAcceptDeadline(req Request, now time.Time) (time.Time, error) {
	if req.State != StateOnHold {
		return time.Time{}, ErrNotOnHold
	}
	if req.AcceptDeadline == nil {
		return time.Time{}, ErrNoDeadline
	}
	if req.ExtendedOnce {
		return time.Time{}, ErrAlreadyExtended
	}
	return req.AcceptDeadline.Add(ExtensionGrace), nil
}

func selectedOffer(req Request, offers []Offer) (*Offer, error) {
	if req.State != StateConflictCheck {
		return nil, ErrNotConflictCheck
	}
	if req.SelectedOfferID == "" {
		return nil, ErrNoSelectedOffer
	}
	for i := range offers {
		if offers[i].ID == req.SelectedOfferID {
			return &offers[i], nil
		}
	}
	return nil, ErrOfferNotFound
}
