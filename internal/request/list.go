package request

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/lexify-app/lexify/internal/db"
)

const viewColumns = `
    r.id, r.company_id, r.title, r.description, r.currency, r.pricing,
    r.maximum_price, r.selection_mode, r.status, r.date_expired,
    r.accept_deadline, r.contract_result, r.extended_once,
    (SELECT COUNT(*) FROM offers o WHERE o.request_id = r.id), r.created_at`

// GetMyRequests lists the caller company's requests, newest first.
func GetMyRequests(c echo.Context) error {
	companyID, ok := c.Get("company_id").(string)
	if !ok || companyID == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx := context.Background()
	rows, err := db.Conn.Query(ctx, `
        SELECT`+viewColumns+`
        FROM requests r
        WHERE r.company_id = $1
        ORDER BY r.created_at DESC
    `, companyID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch requests"})
	}
	defer rows.Close()

	views := []View{}
	for rows.Next() {
		var v View
		if err := rows.Scan(&v.ID, &v.CompanyID, &v.Title, &v.Description, &v.Currency,
			&v.Pricing, &v.MaximumPrice, &v.SelectionMode, &v.Status, &v.DateExpired,
			&v.AcceptDeadline, &v.ContractResult, &v.ExtendedOnce, &v.OfferCount, &v.CreatedAt); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to read requests"})
		}
		views = append(views, v)
	}
	return c.JSON(http.StatusOK, views)
}

// GetRequest returns one request owned by the caller's company.
func GetRequest(c echo.Context) error {
	companyID, ok := c.Get("company_id").(string)
	if !ok || companyID == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id := c.Param("id")
	if id == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request id"})
	}

	ctx := context.Background()
	var v View
	err := db.Conn.QueryRow(ctx, `
        SELECT`+viewColumns+`
        FROM requests r
        WHERE r.id = $1 AND r.company_id = $2
    `, id, companyID).Scan(&v.ID, &v.CompanyID, &v.Title, &v.Description, &v.Currency,
		&v.Pricing, &v.MaximumPrice, &v.SelectionMode, &v.Status, &v.DateExpired,
		&v.AcceptDeadline, &v.ContractResult, &v.ExtendedOnce, &v.OfferCount, &v.CreatedAt)
	if err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "request not found"})
	}
	return c.JSON(http.StatusOK, v)
}

// ListOpen lists requests still accepting offers, for providers to browse.
func ListOpen(c echo.Context) error {
	ctx := context.Background()
	rows, err := db.Conn.Query(ctx, `
        SELECT`+viewColumns+`
        FROM requests r
        WHERE r.status = 'pending' AND r.date_expired > NOW()
        ORDER BY r.date_expired
    `)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch requests"})
	}
	defer rows.Close()

	views := []View{}
	for rows.Next() {
		var v View
		if err := rows.Scan(&v.ID, &v.CompanyID, &v.Title, &v.Description, &v.Currency,
			&v.Pricing, &v.MaximumPrice, &v.SelectionMode, &v.Status, &v.DateExpired,
			&v.AcceptDeadline, &v.ContractResult, &v.ExtendedOnce, &v.OfferCount, &v.CreatedAt); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to read requests"})
		}
		views = append(views, v)
	}
	return c.JSON(http.StatusOK, views)
}
