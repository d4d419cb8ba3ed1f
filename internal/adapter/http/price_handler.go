package http

import (
	"net/http"

	"agrifund-ledger/internal/usecase/pricing"

	"github.com/labstack/echo/v4"
)

type PriceHandler struct{ uc *pricing.Usecase }

func NewPriceHandler(uc *pricing.Usecase) *PriceHandler { return &PriceHandler{uc: uc} }

// Quote never fails: an unreachable feed degrades to the fallback table.
func (h *PriceHandler) Quote(c echo.Context) error {
	q := h.uc.Quote(c.Request().Context(), c.Param("commodity"))
	return c.JSON(http.StatusOK, map[string]any{
		"commodity": q.Commodity,
		"price":     q.PriceUSD,
		"currency":  "USD",
		"source":    q.Source,
		"timestamp": q.ObservedAt,
	})
}
