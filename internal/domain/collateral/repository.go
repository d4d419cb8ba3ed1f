package collateral

import "context"

type Repository interface {
	Create(ctx context.Context, t *Token) error
	GetByTokenID(ctx context.Context, tokenID string) (*Token, error)
	// GetByTokenIDForUpdate locks the token row for the duration of the
	// surrounding transaction. Pledge check-and-set must go through this.
	GetByTokenIDForUpdate(ctx context.Context, tokenID string) (*Token, error)
	ListByOwner(ctx context.Context, ownerID string) ([]Token, error)
	Save(ctx context.Context, t *Token) error

	// Aggregates used by the registry and the analytics view.
	SumValueByOwner(ctx context.Context, ownerID string) (float64, error)
	SumTotalValue(ctx context.Context) (float64, error)
}
