package feedmock

import "context"

// Feed is a function-backed mock that satisfies pricing.Feed.
type Feed struct {
	FetchFn func(ctx context.Context, commodity string) (float64, string, error)
}

func (m *Feed) Fetch(ctx context.Context, commodity string) (float64, string, error) {
	if m.FetchFn != nil {
		return m.FetchFn(ctx, commodity)
	}
	return 0, "", context.Canceled
}

// Fixed returns a feed that always quotes the given price.
func Fixed(price float64) *Feed {
	return &Feed{FetchFn: func(ctx context.Context, commodity string) (float64, string, error) {
		return price, "test_feed", nil
	}}
}
