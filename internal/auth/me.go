package auth

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/lexify-app/lexify/internal/db"
)

// Me returns the authenticated user's profile and notification settings.
func Me(c echo.Context) error {
	userID, ok := c.Get("user_id").(string)
	if !ok || userID == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx := context.Background()
	var (
		name, email, role, companyID, companyName, selectionMode string
		notifyNoOffers, notifyNotSelected                        bool
	)
	err := db.Conn.QueryRow(ctx, `
        SELECT name, email, role, company_id, company_name, selection_mode,
               notify_no_offers, notify_not_selected
        FROM users WHERE id = $1
    `, userID).Scan(&name, &email, &role, &companyID, &companyName, &selectionMode,
		&notifyNoOffers, &notifyNotSelected)
	if err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"id":                  userID,
		"name":                name,
		"email":               email,
		"role":                role,
		"company_id":          companyID,
		"company_name":        companyName,
		"selection_mode":      selectionMode,
		"notify_no_offers":    notifyNoOffers,
		"notify_not_selected": notifyNotSelected,
	})
}

// UpdateSettings lets a user change their selection mode and notification
// subscriptions. The selection mode copied onto already-posted requests is
// not rewritten; it applies to future requests.
func UpdateSettings(c echo.Context) error {
	userID, ok := c.Get("user_id").(string)
	if !ok || userID == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	var body struct {
		SelectionMode     *string `json:"selection_mode"`
		NotifyNoOffers    *bool   `json:"notify_no_offers"`
		NotifyNotSelected *bool   `json:"notify_not_selected"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	ctx := context.Background()
	if body.SelectionMode != nil {
		mode := *body.SelectionMode
		if mode != "automatic" && mode != "manual" {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "selection_mode must be automatic or manual"})
		}
		if _, err := db.Conn.Exec(ctx, `UPDATE users SET selection_mode = $1 WHERE id = $2`, mode, userID); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update settings"})
		}
	}
	if body.NotifyNoOffers != nil {
		if _, err := db.Conn.Exec(ctx, `UPDATE users SET notify_no_offers = $1 WHERE id = $2`, *body.NotifyNoOffers, userID); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update settings"})
		}
	}
	if body.NotifyNotSelected != nil {
		if _, err := db.Conn.Exec(ctx, `UPDATE users SET notify_not_selected = $1 WHERE id = $2`, *body.NotifyNotSelected, userID); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update settings"})
		}
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "settings updated"})
}
