package alerts

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/hibiken/asynq"

	"github.com/lexify-app/lexify/internal/config"
)

// ensureClient returns a usable client instance
func ensureClient() *asynq.Client {
	if client == nil {
		Init(config.App)
	}
	return client
}

func appLink() string {
	return strings.TrimRight(config.App.AppURL, "/")
}

// EnqueueNoOffers tells the purchaser their request closed without offers.
func EnqueueNoOffers(requestID, title, email string) error {
	env := EmailEnvelope{
		To:      email,
		Subject: "Your request received no offers",
		Body: fmt.Sprintf("Your request \"%s\" reached its deadline without any offers and has been closed.\n\nView it: %s/requests/%s",
			title, appLink(), requestID),
	}
	payload := RequestEmailPayload{RequestID: requestID, Title: title, Email: email, Envelope: env, SentAt: time.Now()}
	b, _ := json.Marshal(payload)
	_, err := ensureClient().Enqueue(asynq.NewTask(TaskNoOffers, b), asynq.Queue("emails"))
	return err
}

// EnqueueAwaitingSelection tells the purchaser offers await their choice.
func EnqueueAwaitingSelection(requestID, title, email string) error {
	env := EmailEnvelope{
		To:      email,
		Subject: "Offers await your selection",
		Body: fmt.Sprintf("Bidding on your request \"%s\" has closed. The best offers are waiting for your decision.\n\nChoose now: %s/requests/%s/offers",
			title, appLink(), requestID),
	}
	payload := RequestEmailPayload{RequestID: requestID, Title: title, Email: email, Envelope: env, SentAt: time.Now()}
	b, _ := json.Marshal(payload)
	_, err := ensureClient().Enqueue(asynq.NewTask(TaskAwaitingSelection, b), asynq.Queue("emails"))
	return err
}

// EnqueueOverBudget tells the purchaser every offer exceeds their maximum price.
func EnqueueOverBudget(requestID, title, email string) error {
	env := EmailEnvelope{
		To:      email,
		Subject: "All offers exceed your maximum price",
		Body: fmt.Sprintf("Bidding on your request \"%s\" has closed, but every offer is above the maximum price you set. You can approve one manually or let the request lapse.\n\nReview: %s/requests/%s/offers",
			title, appLink(), requestID),
	}
	payload := RequestEmailPayload{RequestID: requestID, Title: title, Email: email, Envelope: env, SentAt: time.Now()}
	b, _ := json.Marshal(payload)
	_, err := ensureClient().Enqueue(asynq.NewTask(TaskOverBudget, b), asynq.Queue("emails"))
	return err
}

// EnqueueDeadlineExtended confirms the single-use 24h extension.
func EnqueueDeadlineExtended(requestID, title, email string) error {
	env := EmailEnvelope{
		To:      email,
		Subject: "Decision deadline extended",
		Body: fmt.Sprintf("The decision deadline for your request \"%s\" has been extended by 24 hours. This extension can only be used once.",
			title),
	}
	payload := RequestEmailPayload{RequestID: requestID, Title: title, Email: email, Envelope: env, SentAt: time.Now()}
	b, _ := json.Marshal(payload)
	_, err := ensureClient().Enqueue(asynq.NewTask(TaskDeadlineExtended, b), asynq.Queue("emails"))
	return err
}

// EnqueueContractFormed tells the purchaser a contract was formed.
func EnqueueContractFormed(requestID, offerID, title, price, email string) error {
	env := EmailEnvelope{
		To:      email,
		Subject: "A contract has been formed for your request",
		Body: fmt.Sprintf("A binding contract has been formed for your request \"%s\" at %s.\n\nView the contract: %s/requests/%s/contract",
			title, price, appLink(), requestID),
	}
	payload := ContractEmailPayload{RequestID: requestID, OfferID: offerID, Title: title, Price: price, Email: email, Envelope: env, SentAt: time.Now()}
	b, _ := json.Marshal(payload)
	_, err := ensureClient().Enqueue(asynq.NewTask(TaskContractFormed, b), asynq.Queue("emails"))
	return err
}

// EnqueueContractWon tells the winning provider their offer won.
func EnqueueContractWon(requestID, offerID, title, price, email string) error {
	env := EmailEnvelope{
		To:      email,
		Subject: "Your offer won",
		Body: fmt.Sprintf("Congratulations, your offer of %s for \"%s\" was selected and a contract has been formed.\n\nView the contract: %s/requests/%s/contract",
			price, title, appLink(), requestID),
	}
	payload := ContractEmailPayload{RequestID: requestID, OfferID: offerID, Title: title, Price: price, Email: email, Envelope: env, SentAt: time.Now()}
	b, _ := json.Marshal(payload)
	_, err := ensureClient().Enqueue(asynq.NewTask(TaskContractWon, b), asynq.Queue("emails"))
	return err
}

// EnqueueNotSelected tells a losing provider their offer was not selected.
func EnqueueNotSelected(requestID, offerID, title, email string) error {
	env := EmailEnvelope{
		To:      email,
		Subject: "Your offer was not selected",
		Body: fmt.Sprintf("Your offer for \"%s\" was not selected. Thank you for participating.",
			title),
	}
	payload := OfferEmailPayload{RequestID: requestID, OfferID: offerID, Title: title, Email: email, Envelope: env, SentAt: time.Now()}
	b, _ := json.Marshal(payload)
	_, err := ensureClient().Enqueue(asynq.NewTask(TaskNotSelected, b), asynq.Queue("emails"))
	return err
}

// EnqueueOfferDenied tells the purchaser the conflict check denied their
// chosen offer; offersLeft drives the choose-again vs none-left wording.
func EnqueueOfferDenied(requestID, offerID, title, email string, offersLeft bool) error {
	body := fmt.Sprintf("The conflict-of-interest check denied the offer you selected for \"%s\". No other offers remain on this request.", title)
	if offersLeft {
		body = fmt.Sprintf("The conflict-of-interest check denied the offer you selected for \"%s\". Other offers are still available.\n\nChoose again: %s/requests/%s/offers",
			title, appLink(), requestID)
	}
	env := EmailEnvelope{To: email, Subject: "Selected offer denied after conflict check", Body: body}
	payload := OfferEmailPayload{RequestID: requestID, OfferID: offerID, Title: title, OffersLeft: offersLeft, Email: email, Envelope: env, SentAt: time.Now()}
	b, _ := json.Marshal(payload)
	_, err := ensureClient().Enqueue(asynq.NewTask(TaskOfferDenied, b), asynq.Queue("emails"))
	return err
}

// EnqueueConflictPending alerts an admin that a conflict check awaits a decision.
func EnqueueConflictPending(requestID, offerID, email string) error {
	env := EmailEnvelope{
		To:      email,
		Subject: "Conflict check pending",
		Body: fmt.Sprintf("A purchaser selected an offer and the request now awaits a conflict-of-interest decision.\n\nRequest: %s/admin/requests/%s",
			appLink(), requestID),
	}
	payload := AdminEmailPayload{RequestID: requestID, OfferID: offerID, Email: email, Envelope: env, SentAt: time.Now()}
	b, _ := json.Marshal(payload)
	_, err := ensureClient().Enqueue(asynq.NewTask(TaskConflictPending, b), asynq.Queue("alerts"))
	return err
}
