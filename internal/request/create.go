package request

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/lexify-app/lexify/internal/db"
)

// Create posts a new request. The winning-offer selection mode is copied from
// the purchaser account at creation time, so later account changes don't
// retroactively change how an open request resolves.
func Create(c echo.Context) error {
	userID, ok := c.Get("user_id").(string)
	if !ok || userID == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	companyID, _ := c.Get("company_id").(string)

	req := new(CreateRequest)
	if err := c.Bind(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if req.Title == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "title is required"})
	}

	pricing := req.Pricing
	if pricing == "" {
		pricing = "fixed"
	}
	if pricing != "fixed" && pricing != "hourly" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "pricing must be fixed or hourly"})
	}
	if req.MaximumPrice != nil && *req.MaximumPrice < 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "maximum_price must not be negative"})
	}

	dateExpired, err := time.Parse(time.RFC3339, req.DateExpired)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "date_expired must be RFC 3339"})
	}
	if !dateExpired.After(time.Now()) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "date_expired must be in the future"})
	}

	currency := req.Currency
	if currency == "" {
		currency = "EUR"
	}

	ctx := context.Background()

	var selectionMode string
	if err := db.Conn.QueryRow(ctx, `
        SELECT selection_mode FROM users WHERE id = $1
    `, userID).Scan(&selectionMode); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load account settings"})
	}

	id := uuid.New().String()
	_, err = db.Conn.Exec(ctx, `
        INSERT INTO requests (id, company_id, user_id, title, description, currency,
                              pricing, maximum_price, selection_mode, date_expired)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
    `, id, companyID, userID, req.Title, req.Description, currency, pricing, req.MaximumPrice, selectionMode, dateExpired)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create request"})
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"id":             id,
		"status":         "pending",
		"selection_mode": selectionMode,
		"date_expired":   dateExpired,
	})
}
