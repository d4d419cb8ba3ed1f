package http

import (
	"net/http"
	"strconv"

	auditDomain "agrifund-ledger/internal/domain/audit"
	"agrifund-ledger/internal/usecase/audit"

	"github.com/labstack/echo/v4"
)

type AuditHandler struct{ uc *audit.Usecase }

func NewAuditHandler(uc *audit.Usecase) *AuditHandler { return &AuditHandler{uc: uc} }

func (h *AuditHandler) Trail(c echo.Context) error {
	f := auditDomain.Filter{
		EventType: c.QueryParam("event_type"),
		EntityID:  c.QueryParam("entity_id"),
		ActorID:   c.QueryParam("actor_id"),
	}
	if v := c.QueryParam("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "limit must be a non-negative integer"})
		}
		f.Limit = n
	}

	events, err := h.uc.Query(c.Request().Context(), f)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"audit_trail": events})
}
