package http

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

type Handler struct{}

func NewHandler() *Handler { return &Handler{} }

func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339Nano),
	})
}

// RegisterRoutes wires the operation groups onto the router. The
// idempotency middleware guards the mutating lending routes only.
func RegisterRoutes(
	e *echo.Echo,
	h *Handler,
	users *UserHandler,
	tokens *TokenHandler,
	loans *LoanHandler,
	prices *PriceHandler,
	auditTrail *AuditHandler,
	analytics *AnalyticsHandler,
	idemp echo.MiddlewareFunc,
) {
	e.GET("/health", h.Health)

	api := e.Group("/api")

	api.POST("/users/register", users.Register)
	api.GET("/users/:account_id", users.Get)

	api.GET("/tokens/user/:account_id", tokens.ListByOwner)

	api.GET("/loans/opportunities", loans.Opportunities)
	api.GET("/loans/:contract_id", loans.Get)

	api.GET("/prices/:commodity", prices.Quote)
	api.GET("/audit/trail", auditTrail.Trail)
	api.GET("/analytics/summary", analytics.Summary)

	mutating := api.Group("")
	if idemp != nil {
		mutating.Use(idemp)
	}
	mutating.POST("/tokens/mint", tokens.Mint)
	mutating.POST("/tokens/:token_id/revalue", tokens.Revalue)
	mutating.POST("/loans/create", loans.Create)
	mutating.POST("/loans/fund", loans.Fund)
	mutating.POST("/loans/close", loans.Close)
}
