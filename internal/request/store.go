package request

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/lexify-app/lexify/internal/db"
	"github.com/lexify-app/lexify/internal/lifecycle"
)

var ErrNotFound = errors.New("request not found")

const lifecycleColumns = `
    id, company_id, user_id, currency, pricing, maximum_price, selection_mode,
    status, date_expired, accept_deadline, paused_remaining_ms,
    COALESCE(selected_offer_id::text, ''), disqualified_offer_ids,
    COALESCE(contract_result, ''), extended_once`

// Get loads the lifecycle view of a request.
func Get(ctx context.Context, q db.Querier, id string) (lifecycle.Request, error) {
	return scanRequest(q.QueryRow(ctx, `SELECT`+lifecycleColumns+` FROM requests WHERE id = $1`, id))
}

// GetForUpdate loads a request with a row lock, so a sweep pass and a manual
// action racing on the same request serialize instead of half-applying.
func GetForUpdate(ctx context.Context, q db.Querier, id string) (lifecycle.Request, error) {
	return scanRequest(q.QueryRow(ctx, `SELECT`+lifecycleColumns+` FROM requests WHERE id = $1 FOR UPDATE`, id))
}

func scanRequest(row pgx.Row) (lifecycle.Request, error) {
	var (
		req      lifecycle.Request
		pausedMs *int64
	)
	err := row.Scan(
		&req.ID, &req.CompanyID, &req.UserID, &req.Currency, &req.Pricing,
		&req.MaximumPrice, &req.SelectionMode, &req.State, &req.DateExpired,
		&req.AcceptDeadline, &pausedMs, &req.SelectedOfferID,
		&req.DisqualifiedOfferIDs, &req.ContractResult, &req.ExtendedOnce,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return lifecycle.Request{}, ErrNotFound
		}
		return lifecycle.Request{}, err
	}
	if pausedMs != nil {
		d := time.Duration(*pausedMs) * time.Millisecond
		req.PausedRemaining = &d
	}
	return req, nil
}

// ListOffers loads a request's offers in creation order. The order matters:
// the automatic winner selector breaks price ties in favor of the earlier
// offer, so the fetch order has to be stable across sweeps.
func ListOffers(ctx context.Context, q db.Querier, requestID string) ([]lifecycle.Offer, error) {
	rows, err := q.Query(ctx, `
        SELECT id, request_id, company_id, user_id, price, status
        FROM offers
        WHERE request_id = $1
        ORDER BY created_at, id
    `, requestID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var offers []lifecycle.Offer
	for rows.Next() {
		var o lifecycle.Offer
		if err := rows.Scan(&o.ID, &o.RequestID, &o.CompanyID, &o.UserID, &o.Price, &o.Status); err != nil {
			return nil, err
		}
		offers = append(offers, o)
	}
	return offers, rows.Err()
}
