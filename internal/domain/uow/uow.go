package uow

import (
	"context"

	"agrifund-ledger/internal/domain/audit"
	"agrifund-ledger/internal/domain/collateral"
	"agrifund-ledger/internal/domain/loan"
	"agrifund-ledger/internal/domain/pricing"
	"agrifund-ledger/internal/domain/user"
)

// Repos bundles every repository bound to one transaction. Audit writes
// ride the same transaction as the mutation they describe, so a reader
// never sees a state transition without its event (or vice versa).
type Repos struct {
	Users  user.Repository
	Tokens collateral.Repository
	Loans  loan.Repository
	Quotes pricing.Repository
	Events audit.Repository
}

type UnitOfWork interface {
	// plain tx
	WithinTx(ctx context.Context, fn func(r Repos) error) error
	// convenience: lock the loan row first, then pass it in
	WithinLoanTx(ctx context.Context, contractID string, fn func(r Repos, l *loan.Loan) error) error
	// convenience: lock the collateral token row first, then pass it in
	WithinTokenTx(ctx context.Context, tokenID string, fn func(r Repos, t *collateral.Token) error) error
}
