package http

import (
	"net/http"

	"agrifund-ledger/internal/usecase/collateral"

	"github.com/labstack/echo/v4"
)

type TokenHandler struct{ uc *collateral.Usecase }

func NewTokenHandler(uc *collateral.Usecase) *TokenHandler { return &TokenHandler{uc: uc} }

type mintTokenReq struct {
	OwnerAccountID    string         `json:"owner_account_id" validate:"required,hex32"`
	CropType          string         `json:"crop_type" validate:"required"`
	Quantity          int64          `json:"quantity" validate:"required,gt=0"`
	QualityGrade      string         `json:"quality_grade"`
	WarehouseLocation string         `json:"warehouse_location" validate:"required"`
	HarvestDate       string         `json:"harvest_date"`
	Metadata          map[string]any `json:"metadata"`
}

func (h *TokenHandler) Mint(c echo.Context) error {
	var req mintTokenReq
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	dto, err := h.uc.Mint(c.Request().Context(), collateral.MintInput(req))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, dto)
}

func (h *TokenHandler) ListByOwner(c echo.Context) error {
	tokens, err := h.uc.ListByOwner(c.Request().Context(), c.Param("account_id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"tokens": tokens})
}

func (h *TokenHandler) Revalue(c echo.Context) error {
	price, err := h.uc.Revalue(c.Request().Context(), c.Param("token_id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{
		"token_id":   c.Param("token_id"),
		"unit_price": price,
	})
}
