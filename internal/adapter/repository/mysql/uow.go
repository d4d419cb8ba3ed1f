package mysql

import (
	"context"
	"errors"

	collateralDomain "agrifund-ledger/internal/domain/collateral"
	loanDomain "agrifund-ledger/internal/domain/loan"
	"agrifund-ledger/internal/domain/uow"

	"gorm.io/gorm"
)

type GormUoW struct{ db *gorm.DB }

func NewGormUoW(db *gorm.DB) *GormUoW { return &GormUoW{db: db} }

func reposFor(tx *gorm.DB) uow.Repos {
	return uow.Repos{
		Users:  &UserRepository{db: tx},
		Tokens: &TokenRepository{db: tx},
		Loans:  &LoanRepository{db: tx},
		Quotes: &QuoteRepository{db: tx},
		Events: &EventRepository{db: tx},
	}
}

func (u *GormUoW) WithinTx(ctx context.Context, fn func(r uow.Repos) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(reposFor(tx))
	})
}

func (u *GormUoW) WithinLoanTx(ctx context.Context, contractID string, fn func(r uow.Repos, l *loanDomain.Loan) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		r := reposFor(tx)
		// lock the loan row up-front to prevent races
		l, err := r.Loans.GetByContractIDForUpdate(ctx, contractID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return loanDomain.ErrNotFound
			}
			return err
		}
		return fn(r, l)
	})
}

func (u *GormUoW) WithinTokenTx(ctx context.Context, tokenID string, fn func(r uow.Repos, t *collateralDomain.Token) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		r := reposFor(tx)
		// lock the token row up-front; pledge check-and-set depends on it
		t, err := r.Tokens.GetByTokenIDForUpdate(ctx, tokenID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return collateralDomain.ErrNotFound
			}
			return err
		}
		return fn(r, t)
	})
}
