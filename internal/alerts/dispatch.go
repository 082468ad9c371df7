package alerts

import (
	"context"
	"log"

	"github.com/lexify-app/lexify/internal/db"
	"github.com/lexify-app/lexify/internal/lifecycle"
)

// Dispatch resolves recipients for a transition's notices and enqueues the
// emails. Called after the transition committed; every failure here is logged
// and swallowed so a broken queue or a missing address never fails a
// transition or blocks the next request in a sweep pass.
//
// contractCreated gates the contract-formed notices: only the call that
// actually inserted the contract row may send them, so repeat accepts and
// overlapping sweeps stay silent.
func Dispatch(ctx context.Context, notices []lifecycle.Notice, contractCreated bool) {
	for _, n := range notices {
		if n.ContractGated() && !contractCreated {
			continue
		}
		if err := dispatchOne(ctx, n); err != nil {
			log.Printf("[notify][ERROR] %s for request %s failed: %v", n.Kind, n.RequestID, err)
		}
	}
}

func dispatchOne(ctx context.Context, n lifecycle.Notice) error {
	switch n.Kind {
	case lifecycle.NoticeNoOffers:
		title, email, subscribed, err := purchaserInfo(ctx, n.RequestID, "notify_no_offers")
		if err != nil || !subscribed {
			return err
		}
		return EnqueueNoOffers(n.RequestID, title, email)

	case lifecycle.NoticeAwaitingSelection:
		title, email, _, err := purchaserInfo(ctx, n.RequestID, "")
		if err != nil {
			return err
		}
		return EnqueueAwaitingSelection(n.RequestID, title, email)

	case lifecycle.NoticeOverBudget:
		title, email, _, err := purchaserInfo(ctx, n.RequestID, "")
		if err != nil {
			return err
		}
		return EnqueueOverBudget(n.RequestID, title, email)

	case lifecycle.NoticeDeadlineExtended:
		title, email, _, err := purchaserInfo(ctx, n.RequestID, "")
		if err != nil {
			return err
		}
		return EnqueueDeadlineExtended(n.RequestID, title, email)

	case lifecycle.NoticeContractFormed:
		title, email, _, err := purchaserInfo(ctx, n.RequestID, "")
		if err != nil {
			return err
		}
		return EnqueueContractFormed(n.RequestID, n.OfferID, title, offerPrice(ctx, n.OfferID), email)

	case lifecycle.NoticeContractWon:
		title, _, _, err := purchaserInfo(ctx, n.RequestID, "")
		if err != nil {
			return err
		}
		email, _, err := providerInfo(ctx, n.ProviderUserID)
		if err != nil {
			return err
		}
		return EnqueueContractWon(n.RequestID, n.OfferID, title, offerPrice(ctx, n.OfferID), email)

	case lifecycle.NoticeNotSelected:
		title, _, _, err := purchaserInfo(ctx, n.RequestID, "")
		if err != nil {
			return err
		}
		email, subscribed, err := providerInfo(ctx, n.ProviderUserID)
		if err != nil || !subscribed {
			return err
		}
		return EnqueueNotSelected(n.RequestID, n.OfferID, title, email)

	case lifecycle.NoticeDeniedChooseAgain, lifecycle.NoticeDeniedNoneLeft:
		title, email, _, err := purchaserInfo(ctx, n.RequestID, "")
		if err != nil {
			return err
		}
		return EnqueueOfferDenied(n.RequestID, n.OfferID, title, email, n.Kind == lifecycle.NoticeDeniedChooseAgain)

	case lifecycle.NoticeConflictPending:
		emails, err := adminEmails(ctx)
		if err != nil {
			return err
		}
		for _, email := range emails {
			if err := EnqueueConflictPending(n.RequestID, n.OfferID, email); err != nil {
				log.Printf("[notify][ERROR] conflict alert to %s failed: %v", email, err)
			}
		}
		return nil
	}
	return nil
}

// purchaserInfo returns the request's title, its creator's email and, when
// flagColumn names a subscription column, whether that flag is set.
func purchaserInfo(ctx context.Context, requestID, flagColumn string) (title, email string, subscribed bool, err error) {
	subscribed = true
	query := `
        SELECT r.title, u.email
        FROM requests r JOIN users u ON u.id = r.user_id
        WHERE r.id = $1`
	if flagColumn == "notify_no_offers" {
		query = `
        SELECT r.title, u.email, u.notify_no_offers
        FROM requests r JOIN users u ON u.id = r.user_id
        WHERE r.id = $1`
		err = db.Conn.QueryRow(ctx, query, requestID).Scan(&title, &email, &subscribed)
		return
	}
	err = db.Conn.QueryRow(ctx, query, requestID).Scan(&title, &email)
	return
}

func providerInfo(ctx context.Context, userID string) (email string, notifyNotSelected bool, err error) {
	err = db.Conn.QueryRow(ctx, `
        SELECT email, notify_not_selected FROM users WHERE id = $1
    `, userID).Scan(&email, &notifyNotSelected)
	return
}

func offerPrice(ctx context.Context, offerID string) string {
	var price string
	_ = db.Conn.QueryRow(ctx, `SELECT price FROM offers WHERE id = $1`, offerID).Scan(&price)
	return price
}

func adminEmails(ctx context.Context) ([]string, error) {
	rows, err := db.Conn.Query(ctx, `SELECT email FROM users WHERE role = 'admin'`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var emails []string
	for rows.Next() {
		var email string
		if err := rows.Scan(&email); err != nil {
			return nil, err
		}
		emails = append(emails, email)
	}
	return emails, rows.Err()
}
