package sweep

import (
	"context"
	"crypto/subtle"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/lexify-app/lexify/internal/alerts"
	"github.com/lexify-app/lexify/internal/config"
	"github.com/lexify-app/lexify/internal/db"
	"github.com/lexify-app/lexify/internal/lifecycle"
	"github.com/lexify-app/lexify/internal/request"
)

// SecretHeader carries the shared secret the external scheduler must present.
const SecretHeader = "X-Sweep-Secret"

// Summary reports what one sweep pass did, bucketed per transition class.
type Summary struct {
	NoOffersExpired  int `json:"no_offers_expired"`
	OnHoldManual     int `json:"on_hold_manual"`
	AutoAwarded      int `json:"auto_awarded"`
	OnHoldOverBudget int `json:"on_hold_over_budget"`
	OnHoldExpired    int `json:"on_hold_expired"`
	Errors           int `json:"errors"`
}

func (s *Summary) count(b lifecycle.Bucket) {
	switch b {
	case lifecycle.BucketNoOffersExpired:
		s.NoOffersExpired++
	case lifecycle.BucketOnHoldManual:
		s.OnHoldManual++
	case lifecycle.BucketAutoAwarded:
		s.AutoAwarded++
	case lifecycle.BucketOnHoldOverBudget:
		s.OnHoldOverBudget++
	case lifecycle.BucketOnHoldExpired:
		s.OnHoldExpired++
	}
}

// Handle is the sweep entry point, invoked by the external scheduler.
// Requires the shared-secret header; anything else gets a 401.
func Handle(c echo.Context) error {
	secret := config.App.SweepSecret
	given := c.Request().Header.Get(SecretHeader)
	if secret == "" || subtle.ConstantTimeCompare([]byte(given), []byte(secret)) != 1 {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid sweep secret"})
	}

	summary := Run(context.Background(), time.Now())
	return c.JSON(http.StatusOK, summary)
}

// Run executes one sweep pass: every pending request past its submission
// deadline and every on-hold request past its decision deadline gets exactly
// one transition. A failure on one request logs and moves on; the rest of the
// pass is unaffected, and the next pass retries whatever was missed.
func Run(ctx context.Context, now time.Time) Summary {
	var summary Summary

	for _, id := range dueIDs(ctx, `
        SELECT id FROM requests
        WHERE status = 'pending' AND date_expired <= $1
        ORDER BY date_expired
    `, now, &summary) {
		out, created, err := request.Transition(ctx, id, func(req lifecycle.Request, offers []lifecycle.Offer) (lifecycle.Outcome, error) {
			// Re-checked under the row lock: a concurrent sweep or manual
			// action may have moved the request since the id scan.
			o, ok := lifecycle.EvaluatePending(req, offers, now)
			if !ok {
				return lifecycle.Outcome{}, request.ErrNoTransition
			}
			return o, nil
		})
		summary.record(ctx, id, out, created, err)
	}

	for _, id := range dueIDs(ctx, `
        SELECT id FROM requests
        WHERE status = 'on_hold' AND accept_deadline <= $1
              AND (contract_result IS NULL OR contract_result <> 'Yes')
        ORDER BY accept_deadline
    `, now, &summary) {
		out, created, err := request.Transition(ctx, id, func(req lifecycle.Request, offers []lifecycle.Offer) (lifecycle.Outcome, error) {
			o, ok := lifecycle.EvaluateOnHold(req, now)
			if !ok {
				return lifecycle.Outcome{}, request.ErrNoTransition
			}
			return o, nil
		})
		summary.record(ctx, id, out, created, err)
	}

	log.Printf("[sweep] pass done: no_offers=%d manual_hold=%d awarded=%d over_budget=%d hold_expired=%d errors=%d",
		summary.NoOffersExpired, summary.OnHoldManual, summary.AutoAwarded,
		summary.OnHoldOverBudget, summary.OnHoldExpired, summary.Errors)
	return summary
}

func (s *Summary) record(ctx context.Context, id string, out lifecycle.Outcome, contractCreated bool, err error) {
	switch {
	case errors.Is(err, request.ErrNoTransition):
		// Another pass got there first; nothing to do.
	case err != nil:
		log.Printf("[sweep] request %s failed: %v", id, err)
		s.Errors++
	default:
		s.count(out.Bucket)
		alerts.Dispatch(ctx, out.Notices, contractCreated)
	}
}

func dueIDs(ctx context.Context, query string, now time.Time, summary *Summary) []string {
	rows, err := db.Conn.Query(ctx, query, now)
	if err != nil {
		log.Printf("[sweep] due scan failed: %v", err)
		summary.Errors++
		return nil
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			log.Printf("[sweep] due scan failed: %v", err)
			summary.Errors++
			return ids
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		log.Printf("[sweep] due scan failed: %v", err)
		summary.Errors++
	}
	return ids
}
