package mysql

import (
	"context"

	pricingDomain "agrifund-ledger/internal/domain/pricing"

	"gorm.io/gorm"
)

type QuoteRepository struct{ db *gorm.DB }

func NewQuoteRepository(db *gorm.DB) *QuoteRepository { return &QuoteRepository{db: db} }

func (r *QuoteRepository) Create(ctx context.Context, q *pricingDomain.Quote) error {
	return r.db.WithContext(ctx).Create(q).Error
}

func (r *QuoteRepository) LatestByCommodity(ctx context.Context, commodity string) (*pricingDomain.Quote, error) {
	var out pricingDomain.Quote
	res := r.db.WithContext(ctx).
		Where("commodity = ?", commodity).
		Order("observed_at DESC, id DESC").
		First(&out)
	return &out, res.Error
}
