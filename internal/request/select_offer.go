package request

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/lexify-app/lexify/internal/alerts"
	"github.com/lexify-app/lexify/internal/db"
	"github.com/lexify-app/lexify/internal/lifecycle"
)

type selectOfferRequest struct {
	OfferID string `json:"offer_id"`
	Reason  string `json:"reason,omitempty"`
}

// SelectOffer is the purchaser's "select winning offer" action. The request
// moves into conflict check: the chosen provider gets vetted before any
// contract forms, and the decision clock freezes with the remaining time
// banked. The accept deadline column is left where it was; only the banked
// remainder matters from here.
func SelectOffer(c echo.Context) error {
	companyID, ok := c.Get("company_id").(string)
	if !ok || companyID == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id := c.Param("id")
	if id == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request id"})
	}

	body := new(selectOfferRequest)
	if err := c.Bind(body); err != nil || body.OfferID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "offer_id is required"})
	}

	ctx := context.Background()
	tx, err := db.Conn.Begin(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "transaction start failed"})
	}
	defer tx.Rollback(ctx)

	req, err := GetForUpdate(ctx, tx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "request not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch request"})
	}
	if req.CompanyID != companyID {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "not your request"})
	}

	offers, err := ListOffers(ctx, tx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch offers"})
	}

	pause, err := lifecycle.BeginConflictCheck(req, offers, body.OfferID, time.Now())
	if err != nil {
		switch {
		case errors.Is(err, lifecycle.ErrNotOnHold), errors.Is(err, lifecycle.ErrNoDeadline):
			return c.JSON(http.StatusConflict, echo.Map{"error": "request is not awaiting selection"})
		case errors.Is(err, lifecycle.ErrOfferNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "offer not found on this request"})
		case errors.Is(err, lifecycle.ErrOfferDisqualified):
			return c.JSON(http.StatusConflict, echo.Map{"error": "offer was disqualified by an earlier conflict check"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to select offer"})
	}

	if _, err = tx.Exec(ctx, `
        UPDATE requests
        SET status = 'conflict_check', selected_offer_id = $2,
            paused_remaining_ms = $3, selection_reason = NULLIF($4, ''),
            updated_at = NOW()
        WHERE id = $1
    `, id, pause.SelectedOfferID, pause.Remaining.Milliseconds(), body.Reason); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to select offer"})
	}
	if err = tx.Commit(ctx); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "commit failed"})
	}

	alerts.Dispatch(ctx, []lifecycle.Notice{
		{Kind: lifecycle.NoticeConflictPending, RequestID: id, OfferID: pause.SelectedOfferID},
	}, false)

	return c.JSON(http.StatusOK, echo.Map{
		"message":           "Offer selected. A conflict-of-interest check is now pending.",
		"status":            "conflict_check",
		"selected_offer_id": pause.SelectedOfferID,
	})
}
