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

// ExtendDeadline grants the purchaser 24 more hours to decide. Valid once,
// and only while the request is awaiting selection.
func ExtendDeadline(c echo.Context) error {
	companyID, ok := c.Get("company_id").(string)
	if !ok || companyID == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id := c.Param("id")
	if id == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request id"})
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

	newDeadline, err := lifecycle.ExtendAcceptDeadline(req, time.Now())
	if err != nil {
		switch {
		case errors.Is(err, lifecycle.ErrAlreadyExtended):
			return c.JSON(http.StatusConflict, echo.Map{"error": "deadline can only be extended once"})
		case errors.Is(err, lifecycle.ErrNotOnHold), errors.Is(err, lifecycle.ErrNoDeadline):
			return c.JSON(http.StatusConflict, echo.Map{"error": "request is not awaiting selection"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to extend deadline"})
	}

	if _, err = tx.Exec(ctx, `
        UPDATE requests
        SET accept_deadline = $2, extended_once = TRUE, updated_at = NOW()
        WHERE id = $1
    `, id, newDeadline); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to extend deadline"})
	}
	if err = tx.Commit(ctx); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "commit failed"})
	}

	alerts.Dispatch(ctx, []lifecycle.Notice{
		{Kind: lifecycle.NoticeDeadlineExtended, RequestID: id},
	}, false)

	return c.JSON(http.StatusOK, echo.Map{
		"message":         "Decision deadline extended by 24 hours.",
		"accept_deadline": newDeadline,
	})
}
