package admin

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/lexify-app/lexify/internal/db"
)

// GetRequests lists requests across all companies, optionally filtered by
// status. Conflict-check rows surface the selected offer so an admin can
// review before deciding.
func GetRequests(c echo.Context) error {
	status := c.QueryParam("status")

	ctx := context.Background()
	query := `
        SELECT r.id, r.company_id, r.title, r.status, r.selection_mode,
               r.date_expired, r.accept_deadline,
               COALESCE(r.selected_offer_id::text, ''),
               COALESCE(r.selection_reason, ''),
               COALESCE(r.contract_result, ''),
               (SELECT COUNT(*) FROM offers o WHERE o.request_id = r.id)
        FROM requests r`
	args := []any{}
	if status != "" {
		query += ` WHERE r.status = $1`
		args = append(args, status)
	}
	query += ` ORDER BY r.created_at DESC LIMIT 200`

	rows, err := db.Conn.Query(ctx, query, args...)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch requests"})
	}
	defer rows.Close()

	type adminView struct {
		ID              string     `json:"id"`
		CompanyID       string     `json:"company_id"`
		Title           string     `json:"title"`
		Status          string     `json:"status"`
		SelectionMode   string     `json:"selection_mode"`
		DateExpired     time.Time  `json:"date_expired"`
		AcceptDeadline  *time.Time `json:"accept_deadline,omitempty"`
		SelectedOfferID string     `json:"selected_offer_id,omitempty"`
		SelectionReason string     `json:"selection_reason,omitempty"`
		ContractResult  string     `json:"contract_result,omitempty"`
		OfferCount      int        `json:"offer_count"`
	}

	views := []adminView{}
	for rows.Next() {
		var v adminView
		if err := rows.Scan(&v.ID, &v.CompanyID, &v.Title, &v.Status, &v.SelectionMode,
			&v.DateExpired, &v.AcceptDeadline, &v.SelectedOfferID, &v.SelectionReason,
			&v.ContractResult, &v.OfferCount); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to read requests"})
		}
		views = append(views, v)
	}
	return c.JSON(http.StatusOK, views)
}
