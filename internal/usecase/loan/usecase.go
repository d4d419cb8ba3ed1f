package loan

import (
	"context"
	"errors"
	"fmt"
	"time"

	"agrifund-ledger/internal/domain/audit"
	"agrifund-ledger/internal/domain/collateral"
	"agrifund-ledger/internal/domain/loan"
	"agrifund-ledger/internal/domain/uow"
	"agrifund-ledger/internal/domain/user"
	"agrifund-ledger/pkg/id"

	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

var ErrInvalidInput = errors.New("invalid input")

type Usecase struct {
	uow uow.UnitOfWork
	log zerolog.Logger
}

func NewUsecase(tx uow.UnitOfWork, log zerolog.Logger) *Usecase {
	return &Usecase{uow: tx, log: log}
}

type CreateInput struct {
	BorrowerAccountID string  `json:"borrower_account_id"`
	Amount            float64 `json:"amount"`
	InterestRate      float64 `json:"interest_rate"`
	DurationMonths    int     `json:"duration_months"`
	CollateralTokenID string  `json:"collateral_token_id"`
	Purpose           string  `json:"purpose"`
}

type LoanDTO struct {
	ContractID        string     `json:"contract_id"`
	BorrowerAccountID string     `json:"borrower_account_id"`
	LenderAccountID   string     `json:"lender_account_id,omitempty"`
	Amount            float64    `json:"amount"`
	InterestRate      float64    `json:"interest_rate"`
	DurationMonths    int        `json:"duration_months"`
	Purpose           string     `json:"purpose,omitempty"`
	CollateralTokenID string     `json:"collateral_token_id"`
	CollateralValue   float64    `json:"collateral_value,omitempty"`
	LTVRatio          float64    `json:"ltv_ratio"`
	Status            string     `json:"status"`
	CreatedAt         time.Time  `json:"created_at"`
	FundedAt          *time.Time `json:"funded_at,omitempty"`
	DueDate           *time.Time `json:"due_date,omitempty"`
}

func toDTO(l *loan.Loan) *LoanDTO {
	return &LoanDTO{
		ContractID:        l.ContractID,
		BorrowerAccountID: l.BorrowerID,
		LenderAccountID:   l.LenderID,
		Amount:            l.Amount,
		InterestRate:      l.InterestRate,
		DurationMonths:    l.DurationMonths,
		Purpose:           l.Purpose,
		CollateralTokenID: l.CollateralTokenID,
		LTVRatio:          l.LTVRatio,
		Status:            string(l.Status),
		CreatedAt:         l.CreatedAt,
		FundedAt:          l.FundedAt,
		DueDate:           l.DueDate,
	}
}

// Create admits a loan request against one unpledged collateral token.
// The pledge check-and-set, the loan insert and the audit event commit
// in a single transaction with the token row locked, so two concurrent
// requests against the same token cannot both succeed.
func (u *Usecase) Create(ctx context.Context, in CreateInput) (*LoanDTO, error) {
	if in.BorrowerAccountID == "" || in.CollateralTokenID == "" {
		return nil, fmt.Errorf("%w: borrower_account_id and collateral_token_id are required", ErrInvalidInput)
	}
	if in.Amount <= 0 {
		return nil, fmt.Errorf("%w: amount must be positive", ErrInvalidInput)
	}
	if in.InterestRate < 0 {
		return nil, fmt.Errorf("%w: interest_rate must not be negative", ErrInvalidInput)
	}
	if in.DurationMonths <= 0 {
		return nil, fmt.Errorf("%w: duration_months must be positive", ErrInvalidInput)
	}

	var dto *LoanDTO
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		borrower, err := r.Users.GetByAccountID(ctx, in.BorrowerAccountID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return user.ErrNotFound
			}
			return err
		}

		// Lock the token row for the rest of the transaction.
		token, err := r.Tokens.GetByTokenIDForUpdate(ctx, in.CollateralTokenID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return collateral.ErrNotFound
			}
			return err
		}
		if token.OwnerID != borrower.AccountID {
			return collateral.ErrNotOwner
		}

		collateralValue := token.TotalValue()
		ltv := in.Amount / collateralValue * 100
		if err := token.Pledge(); err != nil {
			return err
		}
		if ltv > loan.MaxLTVRatio {
			return &loan.LTVExceededError{Ratio: ltv, Max: loan.MaxLTVRatio}
		}
		if err := r.Tokens.Save(ctx, token); err != nil {
			return err
		}

		l := &loan.Loan{
			ContractID:        id.NewID32(),
			BorrowerID:        borrower.AccountID,
			Amount:            in.Amount,
			InterestRate:      in.InterestRate,
			DurationMonths:    in.DurationMonths,
			Purpose:           in.Purpose,
			CollateralTokenID: token.TokenID,
			LTVRatio:          ltv,
			Status:            loan.StatusPending,
		}
		if err := r.Loans.Create(ctx, l); err != nil {
			return err
		}

		ev, err := audit.NewEvent(audit.EventLoanCreated, l.ContractID, borrower.AccountID, map[string]any{
			"amount":           l.Amount,
			"collateral_token": token.TokenID,
			"ltv_ratio":        l.LTVRatio,
		})
		if err != nil {
			return err
		}
		if err := r.Events.Create(ctx, ev); err != nil {
			return err
		}

		dto = toDTO(l)
		dto.CollateralValue = collateralValue
		return nil
	})
	if err != nil {
		return nil, err
	}

	u.log.Info().Str("contract_id", dto.ContractID).Float64("ltv", dto.LTVRatio).Msg("loan created")
	return dto, nil
}

type FundInput struct {
	ContractID      string `json:"contract_id"`
	LenderAccountID string `json:"lender_account_id"`
}

// Fund moves a pending loan to funded under a row lock; funding an
// already-funded loan is rejected with no side effects.
func (u *Usecase) Fund(ctx context.Context, in FundInput) (*LoanDTO, error) {
	if in.ContractID == "" || in.LenderAccountID == "" {
		return nil, fmt.Errorf("%w: contract_id and lender_account_id are required", ErrInvalidInput)
	}

	var dto *LoanDTO
	err := u.uow.WithinLoanTx(ctx, in.ContractID, func(r uow.Repos, l *loan.Loan) error {
		if l.Status != loan.StatusPending {
			return loan.ErrNotFundable
		}

		lender, err := r.Users.GetByAccountID(ctx, in.LenderAccountID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return user.ErrNotFound
			}
			return err
		}

		now := time.Now().UTC()
		due := now.Add(time.Duration(l.DurationMonths) * loan.DaysPerMonth * 24 * time.Hour)
		l.LenderID = lender.AccountID
		l.Status = loan.StatusFunded
		l.FundedAt = &now
		l.DueDate = &due
		if err := r.Loans.Save(ctx, l); err != nil {
			return err
		}

		if lender.UserType == user.TypeLender {
			lender.PortfolioValue += l.Amount
			if err := r.Users.Save(ctx, lender); err != nil {
				return err
			}
		}

		ev, err := audit.NewEvent(audit.EventLoanFunded, l.ContractID, lender.AccountID, map[string]any{
			"amount":   l.Amount,
			"borrower": l.BorrowerID,
		})
		if err != nil {
			return err
		}
		if err := r.Events.Create(ctx, ev); err != nil {
			return err
		}

		dto = toDTO(l)
		return nil
	})
	if err != nil {
		return nil, err
	}

	u.log.Info().Str("contract_id", dto.ContractID).Time("due_date", *dto.DueDate).Msg("loan funded")
	return dto, nil
}

type CloseInput struct {
	ContractID     string `json:"contract_id"`
	Outcome        string `json:"outcome"` // repaid, defaulted or liquidated
	ActorAccountID string `json:"actor_account_id"`
}

var outcomeEvents = map[loan.Status]string{
	loan.StatusRepaid:     audit.EventLoanRepaid,
	loan.StatusDefaulted:  audit.EventLoanDefaulted,
	loan.StatusLiquidated: audit.EventLoanLiquidated,
}

// Close moves a funded loan to one of the three terminal outcomes.
// Collateral is released only on repayment; on default or liquidation
// it stays pledged pending external disposition.
func (u *Usecase) Close(ctx context.Context, in CloseInput) (*LoanDTO, error) {
	if in.ContractID == "" {
		return nil, fmt.Errorf("%w: contract_id is required", ErrInvalidInput)
	}
	outcome := loan.Status(in.Outcome)
	eventType, ok := outcomeEvents[outcome]
	if !ok {
		return nil, fmt.Errorf("%w: outcome must be repaid, defaulted or liquidated", loan.ErrInvalidOutcome)
	}

	var dto *LoanDTO
	err := u.uow.WithinLoanTx(ctx, in.ContractID, func(r uow.Repos, l *loan.Loan) error {
		if l.Status != loan.StatusFunded {
			return loan.ErrInvalidTransition
		}

		l.Status = outcome
		if err := r.Loans.Save(ctx, l); err != nil {
			return err
		}

		if outcome == loan.StatusRepaid {
			token, err := r.Tokens.GetByTokenIDForUpdate(ctx, l.CollateralTokenID)
			if err != nil {
				return err
			}
			if err := token.Release(); err != nil {
				return err
			}
			if err := r.Tokens.Save(ctx, token); err != nil {
				return err
			}
		}

		actor := in.ActorAccountID
		if actor == "" {
			actor = l.BorrowerID
		}
		ev, err := audit.NewEvent(eventType, l.ContractID, actor, map[string]any{
			"amount":  l.Amount,
			"outcome": string(outcome),
		})
		if err != nil {
			return err
		}
		if err := r.Events.Create(ctx, ev); err != nil {
			return err
		}

		dto = toDTO(l)
		return nil
	})
	if err != nil {
		return nil, err
	}

	u.log.Info().Str("contract_id", dto.ContractID).Str("outcome", dto.Status).Msg("loan closed")
	return dto, nil
}

// Get returns one loan by contract id.
func (u *Usecase) Get(ctx context.Context, contractID string) (*LoanDTO, error) {
	var dto *LoanDTO
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		l, err := r.Loans.GetByContractID(ctx, contractID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return loan.ErrNotFound
			}
			return err
		}
		dto = toDTO(l)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return dto, nil
}

type OpportunityDTO struct {
	ContractID   string         `json:"contract_id"`
	BorrowerName string         `json:"borrower_name"`
	CreditScore  int            `json:"borrower_credit_score"`
	Amount       float64        `json:"amount"`
	InterestRate float64        `json:"interest_rate"`
	Duration     int            `json:"duration_months"`
	Purpose      string         `json:"purpose,omitempty"`
	LTVRatio     float64        `json:"ltv_ratio"`
	Collateral   CollateralInfo `json:"collateral"`
	CreatedAt    time.Time      `json:"created_at"`
}

type CollateralInfo struct {
	CropType     string  `json:"crop_type"`
	Quantity     int64   `json:"quantity"`
	QualityGrade string  `json:"quality_grade"`
	Value        float64 `json:"value"`
}

// ListOpportunities returns pending loans for lenders, filtered by
// commodity, LTV ceiling and interest floor, in insertion order.
func (u *Usecase) ListOpportunities(ctx context.Context, f loan.OpportunityFilter) ([]OpportunityDTO, error) {
	if f.MaxLTV <= 0 {
		f.MaxLTV = loan.MaxLTVRatio
	}

	var out []OpportunityDTO
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		opps, err := r.Loans.ListOpportunities(ctx, f)
		if err != nil {
			return err
		}
		out = make([]OpportunityDTO, 0, len(opps))
		for _, o := range opps {
			out = append(out, OpportunityDTO{
				ContractID:   o.Loan.ContractID,
				BorrowerName: o.BorrowerName,
				CreditScore:  o.CreditScore,
				Amount:       o.Loan.Amount,
				InterestRate: o.Loan.InterestRate,
				Duration:     o.Loan.DurationMonths,
				Purpose:      o.Loan.Purpose,
				LTVRatio:     o.Loan.LTVRatio,
				Collateral: CollateralInfo{
					CropType:     o.CropType,
					Quantity:     o.Quantity,
					QualityGrade: o.QualityGrade,
					Value:        o.CollateralValue,
				},
				CreatedAt: o.Loan.CreatedAt,
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
