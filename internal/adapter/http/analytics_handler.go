package http

import (
	"net/http"

	"agrifund-ledger/internal/usecase/analytics"

	"github.com/labstack/echo/v4"
)

type AnalyticsHandler struct{ uc *analytics.Usecase }

func NewAnalyticsHandler(uc *analytics.Usecase) *AnalyticsHandler {
	return &AnalyticsHandler{uc: uc}
}

func (h *AnalyticsHandler) Summary(c echo.Context) error {
	s, err := h.uc.Summary(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, s)
}
