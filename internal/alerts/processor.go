package alerts

import (
	"context"
	"encoding/json"
	"log"

	"github.com/hibiken/asynq"

	"github.com/lexify-app/lexify/internal/config"
)

var (
	client *asynq.Client
	server *asynq.Server
)

// Init starts the Asynq server and initializes a shared client.
func Init(cfg config.Config) {
	opts := asynq.RedisClientOpt{Addr: cfg.RedisAddr}
	client = asynq.NewClient(opts)

	mux := asynq.NewServeMux()
	mux.HandleFunc(TaskNoOffers, handleRequestEmail)
	mux.HandleFunc(TaskAwaitingSelection, handleRequestEmail)
	mux.HandleFunc(TaskOverBudget, handleRequestEmail)
	mux.HandleFunc(TaskDeadlineExtended, handleRequestEmail)
	mux.HandleFunc(TaskContractFormed, handleContractEmail)
	mux.HandleFunc(TaskContractWon, handleContractEmail)
	mux.HandleFunc(TaskNotSelected, handleOfferEmail)
	mux.HandleFunc(TaskOfferDenied, handleOfferEmail)
	mux.HandleFunc(TaskConflictPending, handleAdminEmail)

	server = asynq.NewServer(opts, asynq.Config{
		Concurrency: 5,
		Queues: map[string]int{
			"emails": 10,
			"alerts": 5,
		},
	})
	go func() {
		if err := server.Run(mux); err != nil {
			log.Printf("Asynq server stopped: %v", err)
		}
	}()

	log.Printf("Asynq initialized (addr=%s)", cfg.RedisAddr)
}

// Close releases client and stops server.
func Close() {
	if client != nil {
		_ = client.Close()
	}
	if server != nil {
		server.Shutdown()
	}
}

// Handlers below parse payloads and hand the envelope to the mailer.

func handleRequestEmail(_ context.Context, t *asynq.Task) error {
	var p RequestEmailPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return err
	}
	if err := SendEmail(p.Envelope.To, p.Envelope.Subject, p.Envelope.Body); err != nil {
		log.Printf("[notify][ERROR] %s send failed: %v", t.Type(), err)
		return err
	}
	log.Printf("[notify] %s sent -> request=%s to=%s", t.Type(), p.RequestID, p.Envelope.To)
	return nil
}

func handleContractEmail(_ context.Context, t *asynq.Task) error {
	var p ContractEmailPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return err
	}
	if err := SendEmail(p.Envelope.To, p.Envelope.Subject, p.Envelope.Body); err != nil {
		log.Printf("[notify][ERROR] %s send failed: %v", t.Type(), err)
		return err
	}
	log.Printf("[notify] %s sent -> request=%s offer=%s to=%s", t.Type(), p.RequestID, p.OfferID, p.Envelope.To)
	return nil
}

func handleOfferEmail(_ context.Context, t *asynq.Task) error {
	var p OfferEmailPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return err
	}
	if err := SendEmail(p.Envelope.To, p.Envelope.Subject, p.Envelope.Body); err != nil {
		log.Printf("[notify][ERROR] %s send failed: %v", t.Type(), err)
		return err
	}
	log.Printf("[notify] %s sent -> offer=%s to=%s", t.Type(), p.OfferID, p.Envelope.To)
	return nil
}

func handleAdminEmail(_ context.Context, t *asynq.Task) error {
	var p AdminEmailPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return err
	}
	if err := SendEmail(p.Envelope.To, p.Envelope.Subject, p.Envelope.Body); err != nil {
		log.Printf("[notify][ERROR] %s send failed: %v", t.Type(), err)
		return err
	}
	log.Printf("[notify] %s sent -> request=%s to=%s", t.Type(), p.RequestID, p.Envelope.To)
	return nil
}
