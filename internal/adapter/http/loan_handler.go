package http

import (
	"net/http"
	"strconv"

	loanDomain "agrifund-ledger/internal/domain/loan"
	"agrifund-ledger/internal/usecase/loan"

	"github.com/labstack/echo/v4"
)

type LoanHandler struct{ uc *loan.Usecase }

func NewLoanHandler(uc *loan.Usecase) *LoanHandler { return &LoanHandler{uc: uc} }

type createLoanReq struct {
	BorrowerAccountID string  `json:"borrower_account_id" validate:"required,hex32"`
	Amount            float64 `json:"amount" validate:"required,gt=0,dec2"`
	InterestRate      float64 `json:"interest_rate" validate:"gte=0,dec2"`
	DurationMonths    int     `json:"duration_months" validate:"required,gt=0"`
	CollateralTokenID string  `json:"collateral_token_id" validate:"required,hex32"`
	Purpose           string  `json:"purpose"`
}

func (h *LoanHandler) Create(c echo.Context) error {
	var req createLoanReq
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	dto, err := h.uc.Create(c.Request().Context(), loan.CreateInput(req))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, dto)
}

type fundLoanReq struct {
	ContractID      string `json:"contract_id" validate:"required,hex32"`
	LenderAccountID string `json:"lender_account_id" validate:"required,hex32"`
}

func (h *LoanHandler) Fund(c echo.Context) error {
	var req fundLoanReq
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	dto, err := h.uc.Fund(c.Request().Context(), loan.FundInput(req))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

type closeLoanReq struct {
	ContractID     string `json:"contract_id" validate:"required,hex32"`
	Outcome        string `json:"outcome" validate:"required,oneof=repaid defaulted liquidated"`
	ActorAccountID string `json:"actor_account_id" validate:"omitempty,hex32"`
}

func (h *LoanHandler) Close(c echo.Context) error {
	var req closeLoanReq
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	dto, err := h.uc.Close(c.Request().Context(), loan.CloseInput(req))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *LoanHandler) Get(c echo.Context) error {
	dto, err := h.uc.Get(c.Request().Context(), c.Param("contract_id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *LoanHandler) Opportunities(c echo.Context) error {
	f := loanDomain.OpportunityFilter{
		CropType:    c.QueryParam("crop_type"),
		MaxLTV:      loanDomain.MaxLTVRatio,
		MinInterest: 0,
	}
	if v := c.QueryParam("max_ltv"); v != "" {
		n, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "max_ltv must be a number"})
		}
		f.MaxLTV = n
	}
	if v := c.QueryParam("min_interest"); v != "" {
		n, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "min_interest must be a number"})
		}
		f.MinInterest = n
	}

	opps, err := h.uc.ListOpportunities(c.Request().Context(), f)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"opportunities": opps})
}
