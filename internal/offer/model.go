package offer

import "time"

// View is the API shape of an offer.
type View struct {
	ID        string    `json:"id"`
	RequestID string    `json:"request_id"`
	CompanyID string    `json:"company_id"`
	Price     string    `json:"price"`
	Currency  string    `json:"currency"`
	Comment   string    `json:"comment,omitempty"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}
