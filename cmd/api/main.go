package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"
	"gorm.io/gorm"

	httpadp "agrifund-ledger/internal/adapter/http"
	"agrifund-ledger/internal/adapter/middleware"
	"agrifund-ledger/internal/adapter/repository/mysql"
	"agrifund-ledger/internal/config"
	auditDomain "agrifund-ledger/internal/domain/audit"
	collateralDomain "agrifund-ledger/internal/domain/collateral"
	loanDomain "agrifund-ledger/internal/domain/loan"
	pricingDomain "agrifund-ledger/internal/domain/pricing"
	userDomain "agrifund-ledger/internal/domain/user"
	"agrifund-ledger/internal/infrastructure/cache"
	"agrifund-ledger/internal/infrastructure/db"
	"agrifund-ledger/internal/infrastructure/feed"
	analyticsUC "agrifund-ledger/internal/usecase/analytics"
	auditUC "agrifund-ledger/internal/usecase/audit"
	collateralUC "agrifund-ledger/internal/usecase/collateral"
	loanUC "agrifund-ledger/internal/usecase/loan"
	pricingUC "agrifund-ledger/internal/usecase/pricing"
	userUC "agrifund-ledger/internal/usecase/user"
)

func init() {
	// Pretty logging outside production
	if os.Getenv("ENV") != "production" {
		output := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
		zlog.Logger = zerolog.New(output).With().Timestamp().Logger()
	}
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if os.Getenv("DEBUG") == "true" {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
}

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		zlog.Fatal().Err(err).Msg("invalid config")
	}

	gdb := openDB(cfg)
	if err := gdb.AutoMigrate(
		&userDomain.User{},
		&collateralDomain.Token{},
		&loanDomain.Loan{},
		&pricingDomain.Quote{},
		&auditDomain.Event{},
	); err != nil {
		zlog.Fatal().Err(err).Msg("auto-migrate failed")
	}

	// Redis backs the price hot cache and the idempotency middleware.
	// The engine stays up without it: pricing falls through to the
	// persistent quote store and idempotency replay is disabled.
	var rdb *redis.Client
	if r, err := cache.OpenRedis(cfg.RedisAddr, cfg.RedisDB); err != nil {
		zlog.Warn().Err(err).Str("addr", cfg.RedisAddr).Msg("redis unavailable, running without hot cache")
	} else {
		rdb = r
	}

	var priceFeed pricingDomain.Feed
	if cfg.PriceFeedURL != "" {
		priceFeed = feed.NewHTTPFeed(cfg.PriceFeedURL)
	}

	guow := mysql.NewGormUoW(gdb)
	window := time.Duration(cfg.PriceFreshnessSecs) * time.Second

	prices := pricingUC.NewUsecase(mysql.NewQuoteRepository(gdb), priceFeed, rdb, window, zlog.Logger)
	users := userUC.NewUsecase(guow, zlog.Logger)
	tokens := collateralUC.NewUsecase(guow, prices, zlog.Logger)
	loans := loanUC.NewUsecase(guow, zlog.Logger)
	trail := auditUC.NewUsecase(mysql.NewEventRepository(gdb), zlog.Logger)
	analytics := analyticsUC.NewUsecase(
		mysql.NewLoanRepository(gdb),
		mysql.NewTokenRepository(gdb),
		mysql.NewUserRepository(gdb),
	)

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Logger(), echomw.Recover())
	e.Validator = httpadp.NewValidator()

	var idemp echo.MiddlewareFunc
	if rdb != nil {
		idemp = middleware.Idempotency(rdb, time.Duration(cfg.IdempTTLSecs)*time.Second)
	}
	httpadp.RegisterRoutes(e,
		httpadp.NewHandler(),
		httpadp.NewUserHandler(users),
		httpadp.NewTokenHandler(tokens),
		httpadp.NewLoanHandler(loans),
		httpadp.NewPriceHandler(prices),
		httpadp.NewAuditHandler(trail),
		httpadp.NewAnalyticsHandler(analytics),
		idemp,
	)

	addr := ":" + cfg.AppPort
	go func() {
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			zlog.Fatal().Err(err).Msg("listen")
		}
	}()
	zlog.Info().Str("addr", addr).Msg("listening")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	zlog.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		zlog.Fatal().Err(err).Msg("forced shutdown")
	}
}

func openDB(cfg *config.Config) *gorm.DB {
	var (
		gdb *gorm.DB
		err error
	)
	switch cfg.DBDriver {
	case "sqlite":
		gdb, err = db.OpenSQLite(cfg.SQLitePath)
	default:
		gdb, err = db.OpenGorm(cfg.MySQLDSN())
	}
	if err != nil {
		zlog.Fatal().Err(err).Msg("failed to open database")
	}
	return gdb
}
