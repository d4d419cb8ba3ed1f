package pricing

import (
	"context"
	"errors"
	"testing"
	"time"

	"agrifund-ledger/internal/adapter/repository/mysql"
	auditDomain "agrifund-ledger/internal/domain/audit"
	collateralDomain "agrifund-ledger/internal/domain/collateral"
	loanDomain "agrifund-ledger/internal/domain/loan"
	pricingDomain "agrifund-ledger/internal/domain/pricing"
	userDomain "agrifund-ledger/internal/domain/user"
	"agrifund-ledger/internal/testutil/feedmock"

	"github.com/rs/zerolog"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func openTestRepo(t *testing.T) *mysql.QuoteRepository {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(
		&userDomain.User{},
		&collateralDomain.Token{},
		&loanDomain.Loan{},
		&pricingDomain.Quote{},
		&auditDomain.Event{},
	); err != nil {
		t.Fatalf("auto-migrate: %v", err)
	}
	return mysql.NewQuoteRepository(db)
}

func newTestUsecase(t *testing.T, feed pricingDomain.Feed, window time.Duration) *Usecase {
	t.Helper()
	return NewUsecase(openTestRepo(t), feed, nil, window, zerolog.Nop())
}

func TestQuote_FallbackTable(t *testing.T) {
	uc := newTestUsecase(t, nil, time.Hour)
	ctx := context.Background()

	cases := map[string]float64{
		"maize":  250.00,
		"coffee": 1250.00,
		"Wheat":  300.00, // case-insensitive lookup
	}
	for commodity, want := range cases {
		q := uc.Quote(ctx, commodity)
		if q.PriceUSD != want {
			t.Errorf("Quote(%s) = %v, want %v", commodity, q.PriceUSD, want)
		}
		if q.Source != sourceFallback {
			t.Errorf("Quote(%s) source = %s, want %s", commodity, q.Source, sourceFallback)
		}
	}
}

func TestQuote_UnknownCommodityBasePrice(t *testing.T) {
	uc := newTestUsecase(t, nil, time.Hour)

	q := uc.Quote(context.Background(), "durian")
	if q.PriceUSD != fallbackBasePrice {
		t.Errorf("unknown commodity price = %v, want %v", q.PriceUSD, fallbackBasePrice)
	}
}

func TestQuote_FreshWithinWindow(t *testing.T) {
	uc := newTestUsecase(t, nil, time.Hour)
	ctx := context.Background()

	uc.Quote(ctx, "maize") // cold miss populates the store

	first := uc.Quote(ctx, "maize")
	second := uc.Quote(ctx, "maize")
	if !first.ObservedAt.Equal(second.ObservedAt) {
		t.Errorf("fresh quote not reused: %v vs %v", first.ObservedAt, second.ObservedAt)
	}
	if first.ID == 0 || first.ID != second.ID {
		t.Errorf("expected the same persisted quote, got ids %d and %d", first.ID, second.ID)
	}
}

func TestQuote_RefreshAfterExpiry(t *testing.T) {
	repo := openTestRepo(t)
	uc := NewUsecase(repo, nil, nil, time.Hour, zerolog.Nop())
	ctx := context.Background()

	stale := &pricingDomain.Quote{
		Commodity:  "maize",
		PriceUSD:   999.00,
		Source:     "old_feed",
		ObservedAt: time.Now().UTC().Add(-2 * time.Hour),
	}
	if err := repo.Create(ctx, stale); err != nil {
		t.Fatal(err)
	}

	q := uc.Quote(ctx, "maize")
	if q.ObservedAt.Equal(stale.ObservedAt) {
		t.Fatal("stale quote was reused past the freshness window")
	}
	if q.PriceUSD != 250.00 {
		t.Errorf("refreshed price = %v, want fallback 250", q.PriceUSD)
	}

	// The refreshed quote is persisted (write-through).
	latest, err := repo.LatestByCommodity(ctx, "maize")
	if err != nil {
		t.Fatalf("LatestByCommodity: %v", err)
	}
	if latest.PriceUSD != 250.00 {
		t.Errorf("persisted price = %v, want 250", latest.PriceUSD)
	}
}

func TestQuote_FeedPreferred(t *testing.T) {
	uc := newTestUsecase(t, feedmock.Fixed(2.00), time.Hour)

	q := uc.Quote(context.Background(), "maize")
	if q.PriceUSD != 2.00 || q.Source != "test_feed" {
		t.Errorf("got (%v, %s), want feed price (2, test_feed)", q.PriceUSD, q.Source)
	}
}

func TestQuote_FeedFailureDegradesToFallback(t *testing.T) {
	broken := &feedmock.Feed{FetchFn: func(ctx context.Context, commodity string) (float64, string, error) {
		return 0, "", errors.New("connection refused")
	}}
	uc := newTestUsecase(t, broken, time.Hour)

	q := uc.Quote(context.Background(), "cocoa")
	if q.PriceUSD != 2800.00 || q.Source != sourceFallback {
		t.Errorf("got (%v, %s), want fallback (2800, %s)", q.PriceUSD, q.Source, sourceFallback)
	}
}

func TestQuote_FeedTimeoutDegradesToFallback(t *testing.T) {
	slow := &feedmock.Feed{FetchFn: func(ctx context.Context, commodity string) (float64, string, error) {
		<-ctx.Done()
		return 0, "", ctx.Err()
	}}
	uc := newTestUsecase(t, slow, time.Hour)

	start := time.Now()
	q := uc.Quote(context.Background(), "rice")
	if q.PriceUSD != 420.00 {
		t.Errorf("price = %v, want fallback 420", q.PriceUSD)
	}
	if elapsed := time.Since(start); elapsed > 5*time.Second {
		t.Errorf("feed wait not bounded: %v", elapsed)
	}
}
