package pricing

import "context"

type Repository interface {
	Create(ctx context.Context, q *Quote) error
	// LatestByCommodity returns the newest quote for the commodity,
	// regardless of freshness.
	LatestByCommodity(ctx context.Context, commodity string) (*Quote, error)
}
