package contract

import "time"

// Contract is the binding outcome of a request. At most one exists per
// request, enforced by the unique constraint on request_id. The engine never
// updates or deletes it.
type Contract struct {
	ID            string    `json:"id"`
	RequestID     string    `json:"request_id"`
	ClientID      string    `json:"client_id"`
	ProviderID    string    `json:"provider_id"`
	ContractPrice string    `json:"contract_price"`
	ContractDate  time.Time `json:"contract_date"`
}
