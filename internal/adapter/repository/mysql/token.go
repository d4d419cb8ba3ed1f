package mysql

import (
	"context"

	collateralDomain "agrifund-ledger/internal/domain/collateral"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type TokenRepository struct{ db *gorm.DB }

func NewTokenRepository(db *gorm.DB) *TokenRepository { return &TokenRepository{db: db} }

func (r *TokenRepository) Create(ctx context.Context, t *collateralDomain.Token) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *TokenRepository) Save(ctx context.Context, t *collateralDomain.Token) error {
	return r.db.WithContext(ctx).Save(t).Error
}

func (r *TokenRepository) GetByTokenID(ctx context.Context, tokenID string) (*collateralDomain.Token, error) {
	var out collateralDomain.Token
	res := r.db.WithContext(ctx).Where("token_id = ?", tokenID).First(&out)
	return &out, res.Error
}

func (r *TokenRepository) GetByTokenIDForUpdate(ctx context.Context, tokenID string) (*collateralDomain.Token, error) {
	var out collateralDomain.Token
	res := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("token_id = ?", tokenID).
		First(&out)
	return &out, res.Error
}

func (r *TokenRepository) ListByOwner(ctx context.Context, ownerID string) ([]collateralDomain.Token, error) {
	var out []collateralDomain.Token
	res := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at ASC, id ASC").
		Find(&out)
	return out, res.Error
}

func (r *TokenRepository) SumValueByOwner(ctx context.Context, ownerID string) (float64, error) {
	var total float64
	res := r.db.WithContext(ctx).Model(&collateralDomain.Token{}).
		Select("COALESCE(SUM(quantity * unit_price), 0)").
		Where("owner_id = ?", ownerID).
		Scan(&total)
	return total, res.Error
}

func (r *TokenRepository) SumTotalValue(ctx context.Context) (float64, error) {
	var total float64
	res := r.db.WithContext(ctx).Model(&collateralDomain.Token{}).
		Select("COALESCE(SUM(quantity * unit_price), 0)").
		Scan(&total)
	return total, res.Error
}
