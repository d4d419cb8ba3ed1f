package mysql

import (
	"context"

	userDomain "agrifund-ledger/internal/domain/user"

	"gorm.io/gorm"
)

type UserRepository struct{ db *gorm.DB }

func NewUserRepository(db *gorm.DB) *UserRepository { return &UserRepository{db: db} }

func (r *UserRepository) Create(ctx context.Context, u *userDomain.User) error {
	return r.db.WithContext(ctx).Create(u).Error
}

func (r *UserRepository) Save(ctx context.Context, u *userDomain.User) error {
	return r.db.WithContext(ctx).Save(u).Error
}

func (r *UserRepository) GetByAccountID(ctx context.Context, accountID string) (*userDomain.User, error) {
	var out userDomain.User
	res := r.db.WithContext(ctx).Where("account_id = ?", accountID).First(&out)
	return &out, res.Error
}

func (r *UserRepository) CountByType(ctx context.Context, t userDomain.Type) (int64, error) {
	var n int64
	res := r.db.WithContext(ctx).Model(&userDomain.User{}).Where("user_type = ?", t).Count(&n)
	return n, res.Error
}
