package loan

import "context"

// OpportunityFilter narrows the pending-loan listing for lenders.
type OpportunityFilter struct {
	CropType    string  // empty = any commodity
	MaxLTV      float64 // inclusive upper bound on ltv_ratio
	MinInterest float64 // inclusive lower bound on interest_rate
}

// Opportunity is a pending loan joined with its collateral snapshot and
// borrower figures, in insertion order.
type Opportunity struct {
	Loan              Loan
	BorrowerName      string
	CreditScore       int
	CropType          string
	Quantity          int64
	QualityGrade      string
	CollateralValue   float64
}

type Repository interface {
	Create(ctx context.Context, l *Loan) error
	GetByContractID(ctx context.Context, contractID string) (*Loan, error)
	// GetByContractIDForUpdate locks the loan row for the duration of the
	// surrounding transaction; status transitions must go through this.
	GetByContractIDForUpdate(ctx context.Context, contractID string) (*Loan, error)
	Save(ctx context.Context, l *Loan) error
	ListOpportunities(ctx context.Context, f OpportunityFilter) ([]Opportunity, error)

	// Aggregates used by the analytics view.
	Count(ctx context.Context) (int64, error)
	CountByStatus(ctx context.Context, s Status) (int64, error)
	SumAmountByStatus(ctx context.Context, s Status) (float64, error)
	AvgInterestByStatus(ctx context.Context, s Status) (float64, error)
}
