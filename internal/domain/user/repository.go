package user

import "context"

type Repository interface {
	Create(ctx context.Context, u *User) error
	GetByAccountID(ctx context.Context, accountID string) (*User, error)
	Save(ctx context.Context, u *User) error
	CountByType(ctx context.Context, t Type) (int64, error)
}
