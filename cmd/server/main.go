package main

import (
	"context"
	"log"
	"net/http"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/lexify-app/lexify/internal/admin"
	"github.com/lexify-app/lexify/internal/alerts"
	"github.com/lexify-app/lexify/internal/auth"
	"github.com/lexify-app/lexify/internal/config"
	"github.com/lexify-app/lexify/internal/contract"
	"github.com/lexify-app/lexify/internal/db"
	mware "github.com/lexify-app/lexify/internal/middleware"
	"github.com/lexify-app/lexify/internal/offer"
	"github.com/lexify-app/lexify/internal/request"
	"github.com/lexify-app/lexify/internal/sweep"
)

func main() {
	// Init subsystems
	_ = godotenv.Load()
	cfg, err := config.Load(".")
	if err != nil {
		log.Fatalf("cannot load config: %v", err)
	}
	db.Init(cfg)
	alerts.Init(cfg)
	defer alerts.Close()

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	// Health
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{"status": "ok", "service": "lexify"})
	})
	e.GET("/ready", func(c echo.Context) error {
		if db.Conn == nil {
			return c.JSON(http.StatusServiceUnavailable, echo.Map{"status": "not_ready", "error": "db not initialized"})
		}
		if err := db.Conn.Ping(context.Background()); err != nil {
			return c.JSON(http.StatusServiceUnavailable, echo.Map{"status": "not_ready", "error": "db unreachable"})
		}
		return c.JSON(http.StatusOK, echo.Map{"status": "ready"})
	})

	// Sweep entry point for the external scheduler (shared-secret header)
	e.POST("/sweep", sweep.Handle)

	// Public auth routes with per-IP rate limiting
	authGroup := e.Group("/auth")
	authGroup.Use(middleware.RateLimiter(middleware.NewRateLimiterMemoryStore(20)))
	authGroup.POST("/signup", auth.Signup)
	authGroup.POST("/login", auth.Login)

	// Protected routes
	api := e.Group("")
	api.Use(mware.JWTMiddleware)

	api.GET("/auth/me", auth.Me)
	api.PATCH("/auth/settings", auth.UpdateSettings)

	// Purchaser surface
	api.POST("/requests", request.Create, mware.RequireRoles("purchaser"))
	api.GET("/requests/my", request.GetMyRequests, mware.RequireRoles("purchaser"))
	api.GET("/requests/:id", request.GetRequest, mware.RequireRoles("purchaser"))
	api.GET("/requests/:id/offers", offer.GetRequestOffers, mware.RequireRoles("purchaser"))
	api.GET("/requests/:id/offers/top", request.GetTopOffers, mware.RequireRoles("purchaser"))
	api.POST("/requests/:id/extend", request.ExtendDeadline, mware.RequireRoles("purchaser"))
	api.POST("/requests/:id/select", request.SelectOffer, mware.RequireRoles("purchaser"))

	// Provider surface
	api.GET("/requests", request.ListOpen, mware.RequireRoles("provider"))
	api.POST("/requests/:id/offers", offer.Create, mware.RequireRoles("provider"))
	api.GET("/offers/my", offer.GetMyOffers, mware.RequireRoles("provider"))

	// Contracts (both parties)
	api.GET("/contracts/my", contract.GetMyContracts)
	api.GET("/requests/:id/contract", contract.GetRequestContract)

	// Admin routes
	adm := e.Group("/admin")
	adm.Use(mware.JWTMiddleware)
	adm.Use(mware.AdminGuard)

	adm.GET("/requests", admin.GetRequests)
	adm.POST("/requests/:id/conflict", admin.DecideConflict)

	log.Printf("server is listening on %s...", cfg.ServerAddress)
	if err := e.Start(cfg.ServerAddress); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
