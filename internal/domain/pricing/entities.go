package pricing

import (
	"context"
	"time"
)

// DefaultFreshness bounds how old a cached quote may be before a new one
// is produced.
const DefaultFreshness = time.Hour

// Quote is one observed unit price for a commodity.
type Quote struct {
	ID         uint64    `gorm:"primaryKey;column:id" json:"-"`
	Commodity  string    `gorm:"size:50;index:idx_quotes_commodity" json:"commodity"`
	PriceUSD   float64   `gorm:"type:decimal(10,2)" json:"price"`
	Source     string    `gorm:"size:100" json:"source"`
	ObservedAt time.Time `gorm:"index:idx_quotes_observed" json:"timestamp"`
}

func (Quote) TableName() string { return "price_quotes" }

// Fresh reports whether the quote is younger than the freshness window.
func (q *Quote) Fresh(window time.Duration, now time.Time) bool {
	return now.Sub(q.ObservedAt) < window
}

// Feed is the external commodity price feed. It may be absent or
// unreachable; valuation then degrades to the fallback table.
type Feed interface {
	Fetch(ctx context.Context, commodity string) (priceUSD float64, source string, err error)
}
