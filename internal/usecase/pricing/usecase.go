package pricing

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"agrifund-ledger/internal/domain/pricing"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

// feedTimeout bounds the wait on the external feed; on expiry the quote
// degrades to the fallback table instead of blocking loan admission.
const feedTimeout = 2 * time.Second

const (
	sourceFeed     = "price_feed"
	sourceFallback = "fallback_table"
)

// fallbackPrices covers the supported commodities when no feed is
// reachable. Unknown commodities get the generic base price.
var fallbackPrices = map[string]float64{
	"maize":   250.00,
	"rice":    420.00,
	"wheat":   300.00,
	"coffee":  1250.00,
	"cocoa":   2800.00,
	"sorghum": 280.00,
	"millet":  320.00,
}

const fallbackBasePrice = 100.00

type Usecase struct {
	repo   pricing.Repository
	feed   pricing.Feed  // nil when no feed is configured
	rdb    *redis.Client // nil disables the hot cache, DB freshness still applies
	window time.Duration
	log    zerolog.Logger
}

func NewUsecase(repo pricing.Repository, feed pricing.Feed, rdb *redis.Client, window time.Duration, log zerolog.Logger) *Usecase {
	if window <= 0 {
		window = pricing.DefaultFreshness
	}
	return &Usecase{repo: repo, feed: feed, rdb: rdb, window: window, log: log}
}

func cacheKey(commodity string) string { return "price:" + commodity }

// Quote returns a unit price for the commodity. It never fails: a stale
// cache falls through to the feed, a missing feed falls through to the
// static table. New quotes are persisted before being returned.
func (u *Usecase) Quote(ctx context.Context, commodity string) *pricing.Quote {
	commodity = strings.ToLower(strings.TrimSpace(commodity))

	if q := u.fromRedis(ctx, commodity); q != nil {
		return q
	}

	now := time.Now().UTC()
	if latest, err := u.repo.LatestByCommodity(ctx, commodity); err == nil {
		if latest.Fresh(u.window, now) {
			u.toRedis(ctx, latest)
			return latest
		}
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		u.log.Warn().Err(err).Str("commodity", commodity).Msg("price store read failed")
	}

	q := u.refresh(ctx, commodity, now)

	// Write-through. Persist failures degrade to an unsaved quote so
	// collateral valuation stays computable.
	if err := u.repo.Create(ctx, q); err != nil {
		u.log.Warn().Err(err).Str("commodity", commodity).Msg("price store write failed")
	}
	u.toRedis(ctx, q)
	return q
}

func (u *Usecase) refresh(ctx context.Context, commodity string, now time.Time) *pricing.Quote {
	if u.feed != nil {
		fctx, cancel := context.WithTimeout(ctx, feedTimeout)
		defer cancel()
		if price, source, err := u.feed.Fetch(fctx, commodity); err == nil && price > 0 {
			if source == "" {
				source = sourceFeed
			}
			return &pricing.Quote{Commodity: commodity, PriceUSD: price, Source: source, ObservedAt: now}
		} else if err != nil {
			u.log.Warn().Err(err).Str("commodity", commodity).Msg("price feed unavailable, using fallback table")
		}
	}

	price, ok := fallbackPrices[commodity]
	if !ok {
		price = fallbackBasePrice
	}
	return &pricing.Quote{Commodity: commodity, PriceUSD: price, Source: sourceFallback, ObservedAt: now}
}

func (u *Usecase) fromRedis(ctx context.Context, commodity string) *pricing.Quote {
	if u.rdb == nil {
		return nil
	}
	raw, err := u.rdb.Get(ctx, cacheKey(commodity)).Bytes()
	if err != nil {
		return nil
	}
	var q pricing.Quote
	if err := json.Unmarshal(raw, &q); err != nil {
		return nil
	}
	return &q
}

func (u *Usecase) toRedis(ctx context.Context, q *pricing.Quote) {
	if u.rdb == nil {
		return
	}
	payload, _ := json.Marshal(q)
	// TTL equals the freshness window, so a redis hit is fresh by
	// construction. Concurrent misses race to set; last writer wins.
	if err := u.rdb.Set(ctx, cacheKey(q.Commodity), payload, u.window).Err(); err != nil {
		u.log.Debug().Err(err).Str("commodity", q.Commodity).Msg("price cache write failed")
	}
}
