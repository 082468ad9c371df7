package auth

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"

	"github.com/lexify-app/lexify/internal/config"
	"github.com/lexify-app/lexify/internal/db"
)

type SignupRequest struct {
	Name          string `json:"name"`
	Email         string `json:"email"`
	Password      string `json:"password"`
	Role          string `json:"role"` // purchaser | provider
	CompanyName   string `json:"company_name"`
	SelectionMode string `json:"selection_mode,omitempty"` // purchasers: automatic | manual
}

type SignupResponse struct {
	Token string `json:"token"`
}

// ===== Signup =====
func Signup(c echo.Context) error {
	req := new(SignupRequest)
	if err := c.Bind(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if req.Email == "" || req.Password == "" || req.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name, email and password are required"})
	}

	role := req.Role
	if role != "purchaser" && role != "provider" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "role must be purchaser or provider"})
	}
	// Listed admin emails are promoted at signup.
	for _, admin := range strings.Split(config.App.AdminEmails, ",") {
		if admin != "" && strings.EqualFold(strings.TrimSpace(admin), req.Email) {
			role = "admin"
		}
	}

	mode := req.SelectionMode
	if mode != "automatic" {
		mode = "manual"
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "server error"})
	}

	ctx := context.Background()
	userID := uuid.New().String()
	companyID := uuid.New().String()

	_, err = db.Conn.Exec(ctx, `
        INSERT INTO users (id, name, email, password, role, company_id, company_name, selection_mode)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
    `, userID, req.Name, req.Email, string(hashed), role, companyID, req.CompanyName, mode)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email already exists"})
	}

	signed, err := issueToken(userID, role, companyID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "token generation failed"})
	}
	return c.JSON(http.StatusCreated, SignupResponse{Token: signed})
}

func issueToken(userID, role, companyID string) (string, error) {
	claims := jwt.MapClaims{
		"user_id":    userID,
		"role":       role,
		"company_id": companyID,
		"exp":        time.Now().Add(72 * time.Hour).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(config.App.JWTSecret))
}
