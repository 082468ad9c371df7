package request

import (
	"context"
	"errors"

	"github.com/lexify-app/lexify/internal/contract"
	"github.com/lexify-app/lexify/internal/db"
	"github.com/lexify-app/lexify/internal/lifecycle"
)

// ErrNoTransition tells Transition the decision function found nothing to do
// (for instance another sweep already moved the request). The transaction is
// rolled back and nothing is written.
var ErrNoTransition = errors.New("no transition due")

// Transition runs one state transition for a request: it locks the row, loads
// the offers, asks decide for the outcome, and applies every write of that
// outcome (request row, offer statuses, contract upsert) in a single
// transaction. The returned bool reports whether this call created the
// contract row; callers gate contract notices on it.
func Transition(ctx context.Context, requestID string, decide func(lifecycle.Request, []lifecycle.Offer) (lifecycle.Outcome, error)) (lifecycle.Outcome, bool, error) {
	tx, err := db.Conn.Begin(ctx)
	if err != nil {
		return lifecycle.Outcome{}, false, err
	}
	defer tx.Rollback(ctx)

	req, err := GetForUpdate(ctx, tx, requestID)
	if err != nil {
		return lifecycle.Outcome{}, false, err
	}
	offers, err := ListOffers(ctx, tx, requestID)
	if err != nil {
		return lifecycle.Outcome{}, false, err
	}

	out, err := decide(req, offers)
	if err != nil {
		return lifecycle.Outcome{}, false, err
	}

	switch out.NextState {
	case lifecycle.StateExpired:
		_, err = tx.Exec(ctx, `
            UPDATE requests
            SET status = 'expired', contract_result = $2,
                selected_offer_id = NULL, paused_remaining_ms = NULL,
                updated_at = NOW()
            WHERE id = $1
        `, req.ID, out.ContractResult)
	case lifecycle.StateOnHold:
		if out.DisqualifyOfferID != "" {
			_, err = tx.Exec(ctx, `
                UPDATE requests
                SET status = 'on_hold', accept_deadline = $2,
                    selected_offer_id = NULL, paused_remaining_ms = NULL,
                    disqualified_offer_ids = array_append(disqualified_offer_ids, $3),
                    updated_at = NOW()
                WHERE id = $1
            `, req.ID, out.AcceptDeadline, out.DisqualifyOfferID)
		} else {
			_, err = tx.Exec(ctx, `
                UPDATE requests
                SET status = 'on_hold', accept_deadline = $2, updated_at = NOW()
                WHERE id = $1
            `, req.ID, out.AcceptDeadline)
		}
	default:
		err = errors.New("unsupported transition target")
	}
	if err != nil {
		return lifecycle.Outcome{}, false, err
	}

	if out.DisqualifyOfferID != "" {
		if _, err = tx.Exec(ctx, `
            UPDATE offers SET status = 'disqualified' WHERE id = $1
        `, out.DisqualifyOfferID); err != nil {
			return lifecycle.Outcome{}, false, err
		}
	}

	var contractCreated bool
	if aw := out.Award; aw != nil {
		contractCreated, err = contract.Form(ctx, tx, req.ID, req.CompanyID, aw.WinnerCompanyID, aw.Price)
		if err != nil {
			return lifecycle.Outcome{}, false, err
		}
		if _, err = tx.Exec(ctx, `
            UPDATE offers SET status = 'won' WHERE id = $1
        `, aw.WinnerOfferID); err != nil {
			return lifecycle.Outcome{}, false, err
		}
		if _, err = tx.Exec(ctx, `
            UPDATE offers SET status = 'lost'
            WHERE request_id = $1 AND id <> $2 AND status <> 'disqualified'
        `, req.ID, aw.WinnerOfferID); err != nil {
			return lifecycle.Outcome{}, false, err
		}
	}

	if err = tx.Commit(ctx); err != nil {
		return lifecycle.Outcome{}, false, err
	}
	return out, contractCreated, nil
}
