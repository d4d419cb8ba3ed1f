package mysql

import (
	"context"

	loanDomain "agrifund-ledger/internal/domain/loan"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type LoanRepository struct{ db *gorm.DB }

func NewLoanRepository(db *gorm.DB) *LoanRepository { return &LoanRepository{db: db} }

func (r *LoanRepository) Create(ctx context.Context, l *loanDomain.Loan) error {
	return r.db.WithContext(ctx).Create(l).Error
}

func (r *LoanRepository) Save(ctx context.Context, l *loanDomain.Loan) error {
	return r.db.WithContext(ctx).Save(l).Error
}

func (r *LoanRepository) GetByContractID(ctx context.Context, contractID string) (*loanDomain.Loan, error) {
	var out loanDomain.Loan
	res := r.db.WithContext(ctx).Where("contract_id = ?", contractID).First(&out)
	return &out, res.Error
}

func (r *LoanRepository) GetByContractIDForUpdate(ctx context.Context, contractID string) (*loanDomain.Loan, error) {
	var out loanDomain.Loan
	res := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("contract_id = ?", contractID).
		First(&out)
	return &out, res.Error
}

// opportunityRow flattens the loan/token/user join for scanning.
type opportunityRow struct {
	loanDomain.Loan
	BorrowerName string
	CreditScore  int
	CropType     string
	Quantity     int64
	QualityGrade string
	UnitPrice    float64
}

func (r *LoanRepository) ListOpportunities(ctx context.Context, f loanDomain.OpportunityFilter) ([]loanDomain.Opportunity, error) {
	q := r.db.WithContext(ctx).Model(&loanDomain.Loan{}).
		Select("loans.*, users.name AS borrower_name, users.credit_score AS credit_score, "+
			"rwa_tokens.crop_type AS crop_type, rwa_tokens.quantity AS quantity, "+
			"rwa_tokens.quality_grade AS quality_grade, rwa_tokens.unit_price AS unit_price").
		Joins("JOIN rwa_tokens ON rwa_tokens.token_id = loans.collateral_token_id").
		Joins("JOIN users ON users.account_id = loans.borrower_id").
		Where("loans.status = ?", loanDomain.StatusPending).
		Where("loans.ltv_ratio <= ?", f.MaxLTV).
		Where("loans.interest_rate >= ?", f.MinInterest)
	if f.CropType != "" {
		q = q.Where("rwa_tokens.crop_type = ?", f.CropType)
	}

	var rows []opportunityRow
	if err := q.Order("loans.created_at ASC, loans.id ASC").Scan(&rows).Error; err != nil {
		return nil, err
	}

	out := make([]loanDomain.Opportunity, 0, len(rows))
	for _, row := range rows {
		out = append(out, loanDomain.Opportunity{
			Loan:            row.Loan,
			BorrowerName:    row.BorrowerName,
			CreditScore:     row.CreditScore,
			CropType:        row.CropType,
			Quantity:        row.Quantity,
			QualityGrade:    row.QualityGrade,
			CollateralValue: float64(row.Quantity) * row.UnitPrice,
		})
	}
	return out, nil
}

func (r *LoanRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	res := r.db.WithContext(ctx).Model(&loanDomain.Loan{}).Count(&n)
	return n, res.Error
}

func (r *LoanRepository) CountByStatus(ctx context.Context, s loanDomain.Status) (int64, error) {
	var n int64
	res := r.db.WithContext(ctx).Model(&loanDomain.Loan{}).Where("status = ?", s).Count(&n)
	return n, res.Error
}

func (r *LoanRepository) SumAmountByStatus(ctx context.Context, s loanDomain.Status) (float64, error) {
	var total float64
	res := r.db.WithContext(ctx).Model(&loanDomain.Loan{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("status = ?", s).
		Scan(&total)
	return total, res.Error
}

func (r *LoanRepository) AvgInterestByStatus(ctx context.Context, s loanDomain.Status) (float64, error) {
	var avg float64
	res := r.db.WithContext(ctx).Model(&loanDomain.Loan{}).
		Select("COALESCE(AVG(interest_rate), 0)").
		Where("status = ?", s).
		Scan(&avg)
	return avg, res.Error
}
