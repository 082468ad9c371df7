package alerts

import "time"

// Task type constants
const (
	TaskNoOffers          = "email:no_offers"
	TaskAwaitingSelection = "email:awaiting_selection"
	TaskOverBudget        = "email:over_budget"
	TaskContractFormed    = "email:contract_formed"
	TaskContractWon       = "email:contract_won"
	TaskNotSelected       = "email:offer_not_selected"
	TaskOfferDenied       = "email:offer_denied"
	TaskConflictPending   = "email:conflict_check_pending"
	TaskDeadlineExtended  = "email:deadline_extended"
)

// Common envelope for email-like notifications
type EmailEnvelope struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// RequestEmailPayload covers the purchaser-directed lifecycle emails
// (no offers, awaiting selection, over budget, deadline extended).
type RequestEmailPayload struct {
	RequestID string        `json:"request_id"`
	Title     string        `json:"title"`
	Email     string        `json:"email"`
	Envelope  EmailEnvelope `json:"envelope"`
	SentAt    time.Time     `json:"sent_at"`
}

// ContractEmailPayload covers contract-formed and contract-won emails.
type ContractEmailPayload struct {
	RequestID string        `json:"request_id"`
	OfferID   string        `json:"offer_id"`
	Title     string        `json:"title"`
	Price     string        `json:"price"`
	Email     string        `json:"email"`
	Envelope  EmailEnvelope `json:"envelope"`
	SentAt    time.Time     `json:"sent_at"`
}

// OfferEmailPayload covers provider-directed offer outcome emails
// (not selected, denied).
type OfferEmailPayload struct {
	RequestID  string        `json:"request_id"`
	OfferID    string        `json:"offer_id"`
	Title      string        `json:"title"`
	OffersLeft bool          `json:"offers_left,omitempty"`
	Email      string        `json:"email"`
	Envelope   EmailEnvelope `json:"envelope"`
	SentAt     time.Time     `json:"sent_at"`
}

// AdminEmailPayload covers admin alerts (pending conflict checks).
type AdminEmailPayload struct {
	RequestID string        `json:"request_id"`
	OfferID   string        `json:"offer_id"`
	Email     string        `json:"email"`
	Envelope  EmailEnvelope `json:"envelope"`
	SentAt    time.Time     `json:"sent_at"`
}
