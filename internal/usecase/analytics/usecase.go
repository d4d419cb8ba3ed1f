package analytics

import (
	"context"

	"agrifund-ledger/internal/domain/collateral"
	"agrifund-ledger/internal/domain/loan"
	"agrifund-ledger/internal/domain/user"
)

// Usecase aggregates over the ledger without taking locks; it holds no
// mutation capability.
type Usecase struct {
	loans  loan.Repository
	tokens collateral.Repository
	users  user.Repository
}

func NewUsecase(loans loan.Repository, tokens collateral.Repository, users user.Repository) *Usecase {
	return &Usecase{loans: loans, tokens: tokens, users: users}
}

type SummaryDTO struct {
	TotalLoans           int64   `json:"total_loans"`
	FundedLoans          int64   `json:"funded_loans"`
	TotalFundedAmount    float64 `json:"total_funded_amount"`
	TotalCollateralValue float64 `json:"total_collateral_value"`
	AverageInterestRate  float64 `json:"average_interest_rate"`
	DefaultRate          float64 `json:"default_rate"`
	ActiveFarmers        int64   `json:"active_farmers"`
	ActiveLenders        int64   `json:"active_lenders"`
}

func (u *Usecase) Summary(ctx context.Context) (*SummaryDTO, error) {
	s := &SummaryDTO{}
	var err error

	if s.TotalLoans, err = u.loans.Count(ctx); err != nil {
		return nil, err
	}
	if s.FundedLoans, err = u.loans.CountByStatus(ctx, loan.StatusFunded); err != nil {
		return nil, err
	}
	if s.TotalFundedAmount, err = u.loans.SumAmountByStatus(ctx, loan.StatusFunded); err != nil {
		return nil, err
	}
	if s.TotalCollateralValue, err = u.tokens.SumTotalValue(ctx); err != nil {
		return nil, err
	}
	if s.AverageInterestRate, err = u.loans.AvgInterestByStatus(ctx, loan.StatusFunded); err != nil {
		return nil, err
	}

	defaulted, err := u.loans.CountByStatus(ctx, loan.StatusDefaulted)
	if err != nil {
		return nil, err
	}
	funded := s.FundedLoans
	if funded < 1 {
		funded = 1
	}
	s.DefaultRate = float64(defaulted) / float64(funded) * 100

	if s.ActiveFarmers, err = u.users.CountByType(ctx, user.TypeFarmer); err != nil {
		return nil, err
	}
	if s.ActiveLenders, err = u.users.CountByType(ctx, user.TypeLender); err != nil {
		return nil, err
	}
	return s, nil
}
