package request

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/lexify-app/lexify/internal/config"
	"github.com/lexify-app/lexify/internal/db"
	"github.com/lexify-app/lexify/internal/lifecycle"
)

// GetTopOffers returns the lowest-priced offers for the purchaser to choose
// from while the request awaits selection. The count is one fixed limit
// (TOP_OFFERS_LIMIT, default 3); disqualified offers never reappear here.
func GetTopOffers(c echo.Context) error {
	companyID, ok := c.Get("company_id").(string)
	if !ok || companyID == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id := c.Param("id")
	if id == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request id"})
	}

	ctx := context.Background()
	req, err := Get(ctx, db.Conn, id)
	if err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "request not found"})
	}
	if req.CompanyID != companyID {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "not your request"})
	}
	if req.State != lifecycle.StateOnHold && req.State != lifecycle.StateConflictCheck {
		return c.JSON(http.StatusConflict, echo.Map{"error": "request is not awaiting selection"})
	}

	offers, err := ListOffers(ctx, db.Conn, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch offers"})
	}

	limit := config.App.TopOffersLimit
	if limit <= 0 {
		limit = 3
	}
	top := lifecycle.TopOffers(offers, limit)

	type offerView struct {
		ID     string `json:"id"`
		Price  string `json:"price"`
		Status string `json:"status"`
	}
	views := make([]offerView, 0, len(top))
	for _, o := range top {
		views = append(views, offerView{ID: o.ID, Price: o.Price, Status: string(o.Status)})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"request_id":        id,
		"selected_offer_id": req.SelectedOfferID,
		"offers":            views,
	})
}
