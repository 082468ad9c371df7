package request

import "time"

// View is the API shape of a request.
type View struct {
	ID             string     `json:"id"`
	CompanyID      string     `json:"company_id"`
	Title          string     `json:"title"`
	Description    string     `json:"description"`
	Currency       string     `json:"currency"`
	Pricing        string     `json:"pricing"`
	MaximumPrice   *float64   `json:"maximum_price,omitempty"`
	SelectionMode  string     `json:"selection_mode"`
	Status         string     `json:"status"`
	DateExpired    time.Time  `json:"date_expired"`
	AcceptDeadline *time.Time `json:"accept_deadline,omitempty"`
	ContractResult *string    `json:"contract_result,omitempty"`
	ExtendedOnce   bool       `json:"extended_once"`
	OfferCount     int        `json:"offer_count"`
	CreatedAt      time.Time  `json:"created_at"`
}

// CreateRequest is the body for posting a new request.
type CreateRequest struct {
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	Currency     string   `json:"currency"`
	Pricing      string   `json:"pricing"` // fixed | hourly
	MaximumPrice *float64 `json:"maximum_price,omitempty"`
	DateExpired  string   `json:"date_expired"` // RFC 3339
}
