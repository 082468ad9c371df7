package admin

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/lexify-app/lexify/internal/alerts"
	"github.com/lexify-app/lexify/internal/contract"
	"github.com/lexify-app/lexify/internal/db"
	"github.com/lexify-app/lexify/internal/lifecycle"
	"github.com/lexify-app/lexify/internal/request"
)

type conflictDecisionRequest struct {
	Action string `json:"action"` // accept | deny
	Notes  string `json:"notes,omitempty"`
}

// DecideConflict resolves a pending conflict-of-interest check.
//
// Accept makes the selected offer the winner: contract formed (idempotently),
// siblings lost, request closed with a contract. Deny disqualifies the offer
// and restarts the purchaser's decision clock with the time that was left
// when the check began. Calling accept twice is safe; the second call finds
// the contract already present and sends nothing.
func DecideConflict(c echo.Context) error {
	adminID, ok := c.Get("user_id").(string)
	if !ok || adminID == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id := c.Param("id")
	if id == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request id"})
	}

	body := new(conflictDecisionRequest)
	if err := c.Bind(body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if body.Action != "accept" && body.Action != "deny" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "action must be accept or deny"})
	}

	ctx := context.Background()
	now := time.Now()

	out, contractCreated, err := request.Transition(ctx, id, func(req lifecycle.Request, offers []lifecycle.Offer) (lifecycle.Outcome, error) {
		if body.Action == "accept" {
			return lifecycle.ResolveAccept(req, offers, now)
		}
		return lifecycle.ResolveDeny(req, offers, now)
	})
	if err != nil {
		switch {
		case errors.Is(err, request.ErrNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "request not found"})
		case errors.Is(err, lifecycle.ErrNotConflictCheck), errors.Is(err, lifecycle.ErrNoSelectedOffer):
			// A repeated accept lands here: the first call closed the request
			// and cleared the selection. With the contract already in place
			// the retry is a success that changes nothing.
			if body.Action == "accept" {
				if exists, exErr := contract.Exists(ctx, db.Conn, id); exErr == nil && exists {
					return c.JSON(http.StatusOK, echo.Map{
						"message":          "Conflict check decision applied.",
						"action":           "accept",
						"status":           string(lifecycle.StateExpired),
						"contract_created": false,
					})
				}
			}
			return c.JSON(http.StatusConflict, echo.Map{"error": "request is not in conflict check"})
		case errors.Is(err, lifecycle.ErrOfferNotFound):
			return c.JSON(http.StatusConflict, echo.Map{"error": "selected offer no longer belongs to this request"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to apply decision"})
	}

	alerts.Dispatch(ctx, out.Notices, contractCreated)

	resp := echo.Map{
		"message": "Conflict check decision applied.",
		"action":  body.Action,
		"status":  string(out.NextState),
	}
	if body.Action == "accept" {
		resp["contract_created"] = contractCreated
	}
	return c.JSON(http.StatusOK, resp)
}
