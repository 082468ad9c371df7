package contract

import (
	"context"

	"github.com/google/uuid"

	"github.com/lexify-app/lexify/internal/db"
)

// Form materializes the contract for a request, at most once. A second call
// for the same request is a no-op, not an error: the insert skips on the
// request_id unique constraint and the returned bool tells the caller
// whether this call created the row. Side effects such as the contract
// emails must only fire when it did.
//
// Runs on whatever Querier the caller passes, so it joins the caller's
// transaction with the rest of the transition.
func Form(ctx context.Context, q db.Querier, requestID, clientID, providerID, price string) (bool, error) {
	tag, err := q.Exec(ctx, `
        INSERT INTO contracts (id, request_id, client_id, provider_id, contract_price)
        VALUES ($1, $2, $3, $4, $5)
        ON CONFLICT (request_id) DO NOTHING
    `, uuid.New().String(), requestID, clientID, providerID, price)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

// Exists reports whether a contract row exists for the request. Lets the
// accept path treat a retry after the closing call as success instead of a
// state conflict.
func Exists(ctx context.Context, q db.Querier, requestID string) (bool, error) {
	var exists bool
	err := q.QueryRow(ctx, `
        SELECT EXISTS (SELECT 1 FROM contracts WHERE request_id = $1)
    `, requestID).Scan(&exists)
	return exists, err
}
