package contract

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/lexify-app/lexify/internal/db"
)

// GetMyContracts lists contracts where the caller's company is a party.
func GetMyContracts(c echo.Context) error {
	companyID, ok := c.Get("company_id").(string)
	if !ok || companyID == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx := context.Background()
	rows, err := db.Conn.Query(ctx, `
        SELECT id, request_id, client_id, provider_id, contract_price, contract_date
        FROM contracts
        WHERE client_id = $1 OR provider_id = $1
        ORDER BY contract_date DESC
    `, companyID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch contracts"})
	}
	defer rows.Close()

	contracts := []Contract{}
	for rows.Next() {
		var ct Contract
		if err := rows.Scan(&ct.ID, &ct.RequestID, &ct.ClientID, &ct.ProviderID, &ct.ContractPrice, &ct.ContractDate); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to read contracts"})
		}
		contracts = append(contracts, ct)
	}
	return c.JSON(http.StatusOK, contracts)
}

// GetRequestContract returns the contract for one request, for a party to it.
func GetRequestContract(c echo.Context) error {
	companyID, ok := c.Get("company_id").(string)
	if !ok || companyID == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	requestID := c.Param("id")
	if requestID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request id"})
	}

	ctx := context.Background()
	var ct Contract
	err := db.Conn.QueryRow(ctx, `
        SELECT id, request_id, client_id, provider_id, contract_price, contract_date
        FROM contracts
        WHERE request_id = $1 AND (client_id = $2 OR provider_id = $2)
    `, requestID, companyID).Scan(&ct.ID, &ct.RequestID, &ct.ClientID, &ct.ProviderID, &ct.ContractPrice, &ct.ContractDate)
	if err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "contract not found"})
	}
	return c.JSON(http.StatusOK, ct)
}
