package http

import (
	"errors"
	"net/http"

	collateralDomain "agrifund-ledger/internal/domain/collateral"
	loanDomain "agrifund-ledger/internal/domain/loan"
	userDomain "agrifund-ledger/internal/domain/user"
	collateralUC "agrifund-ledger/internal/usecase/collateral"
	loanUC "agrifund-ledger/internal/usecase/loan"
	userUC "agrifund-ledger/internal/usecase/user"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// writeError maps domain errors onto HTTP statuses. The first violated
// precondition decides; anything unrecognized is reported as an opaque
// internal failure.
func writeError(c echo.Context, err error) error {
	var ltvErr *loanDomain.LTVExceededError
	switch {
	case errors.Is(err, collateralUC.ErrInvalidInput),
		errors.Is(err, loanUC.ErrInvalidInput),
		errors.Is(err, userUC.ErrInvalidInput),
		errors.Is(err, loanDomain.ErrInvalidOutcome):
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})

	case errors.Is(err, userDomain.ErrNotFound),
		errors.Is(err, collateralDomain.ErrNotFound),
		errors.Is(err, loanDomain.ErrNotFound):
		return c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})

	case errors.Is(err, collateralDomain.ErrNotOwner):
		return c.JSON(http.StatusForbidden, ErrorResponse{Error: err.Error()})

	case errors.Is(err, userDomain.ErrExists),
		errors.Is(err, collateralDomain.ErrAlreadyPledged),
		errors.Is(err, collateralDomain.ErrNotPledged),
		errors.Is(err, loanDomain.ErrNotFundable),
		errors.Is(err, loanDomain.ErrInvalidTransition):
		return c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error()})

	case errors.As(err, &ltvErr):
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: err.Error()})
	}

	log.Error().Err(err).Str("path", c.Path()).Msg("request failed")
	return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
}

// bindAndValidate decodes and validates the request body. When it
// reports !ok the response has already been written.
func bindAndValidate(c echo.Context, req any) (ok bool, err error) {
	if err := c.Bind(req); err != nil {
		return false, c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(req); err != nil {
		return false, c.JSON(http.StatusBadRequest, ErrorResponse{Error: "validation failed", Details: ToFieldErrors(err)})
	}
	return true, nil
}
