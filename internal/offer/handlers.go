package offer

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/lexify-app/lexify/internal/db"
)

type createOfferRequest struct {
	Price   string `json:"price"`
	Comment string `json:"comment,omitempty"`
}

// Create submits a provider's offer against a request. Offers are only
// accepted while the request is pending and before its submission deadline,
// and a provider company gets one offer per request.
func Create(c echo.Context) error {
	userID, ok := c.Get("user_id").(string)
	if !ok || userID == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	companyID, _ := c.Get("company_id").(string)

	requestID := c.Param("id")
	if requestID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request id"})
	}

	body := new(createOfferRequest)
	if err := c.Bind(body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	body.Price = strings.TrimSpace(body.Price)
	if body.Price == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "price is required"})
	}

	ctx := context.Background()

	var (
		status       string
		dateExpired  time.Time
		ownerCompany string
	)
	err := db.Conn.QueryRow(ctx, `
        SELECT status, date_expired, company_id FROM requests WHERE id = $1
    `, requestID).Scan(&status, &dateExpired, &ownerCompany)
	if err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "request not found"})
	}
	if ownerCompany == companyID {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "cannot offer on your own request"})
	}
	if status != "pending" || !dateExpired.After(time.Now()) {
		return c.JSON(http.StatusConflict, echo.Map{"error": "request is no longer accepting offers"})
	}

	id := uuid.New().String()
	_, err = db.Conn.Exec(ctx, `
        INSERT INTO offers (id, request_id, company_id, user_id, price, comment)
        VALUES ($1, $2, $3, $4, $5, $6)
    `, id, requestID, companyID, userID, body.Price, body.Comment)
	if err != nil {
		// The (request_id, company_id) unique constraint catches repeats.
		return c.JSON(http.StatusConflict, echo.Map{"error": "your company already submitted an offer for this request"})
	}

	return c.JSON(http.StatusCreated, echo.Map{"id": id, "status": "pending"})
}

// GetMyOffers lists the caller company's offers with their outcomes.
func GetMyOffers(c echo.Context) error {
	companyID, ok := c.Get("company_id").(string)
	if !ok || companyID == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx := context.Background()
	rows, err := db.Conn.Query(ctx, `
        SELECT o.id, o.request_id, o.company_id, o.price, r.currency, o.comment, o.status, o.created_at
        FROM offers o
        JOIN requests r ON r.id = o.request_id
        WHERE o.company_id = $1
        ORDER BY o.created_at DESC
    `, companyID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch offers"})
	}
	defer rows.Close()

	offers := []View{}
	for rows.Next() {
		var v View
		if err := rows.Scan(&v.ID, &v.RequestID, &v.CompanyID, &v.Price, &v.Currency, &v.Comment, &v.Status, &v.CreatedAt); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to read offers"})
		}
		offers = append(offers, v)
	}
	return c.JSON(http.StatusOK, offers)
}

// GetRequestOffers lists every offer on a request for its purchaser. Offers
// stay hidden from the purchaser until the submission deadline passes.
func GetRequestOffers(c echo.Context) error {
	companyID, ok := c.Get("company_id").(string)
	if !ok || companyID == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	requestID := c.Param("id")
	if requestID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request id"})
	}

	ctx := context.Background()
	var (
		ownerCompany string
		dateExpired  time.Time
		currency     string
	)
	err := db.Conn.QueryRow(ctx, `
        SELECT company_id, date_expired, currency FROM requests WHERE id = $1
    `, requestID).Scan(&ownerCompany, &dateExpired, &currency)
	if err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "request not found"})
	}
	if ownerCompany != companyID {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "not your request"})
	}
	if dateExpired.After(time.Now()) {
		return c.JSON(http.StatusConflict, echo.Map{"error": "offers are sealed until the submission deadline"})
	}

	rows, err := db.Conn.Query(ctx, `
        SELECT id, request_id, company_id, price, comment, status, created_at
        FROM offers
        WHERE request_id = $1
        ORDER BY created_at, id
    `, requestID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch offers"})
	}
	defer rows.Close()

	offers := []View{}
	for rows.Next() {
		var v View
		if err := rows.Scan(&v.ID, &v.RequestID, &v.CompanyID, &v.Price, &v.Comment, &v.Status, &v.CreatedAt); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to read offers"})
		}
		v.Currency = currency
		offers = append(offers, v)
	}
	return c.JSON(http.StatusOK, offers)
}
