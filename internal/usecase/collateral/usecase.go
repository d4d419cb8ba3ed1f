package collateral

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"agrifund-ledger/internal/domain/audit"
	"agrifund-ledger/internal/domain/collateral"
	"agrifund-ledger/internal/domain/pricing"
	"agrifund-ledger/internal/domain/uow"
	"agrifund-ledger/internal/domain/user"
	"agrifund-ledger/pkg/id"

	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

var ErrInvalidInput = errors.New("invalid input")

const defaultQualityGrade = "B"

// Quoter is the slice of the price cache the registry needs.
type Quoter interface {
	Quote(ctx context.Context, commodity string) *pricing.Quote
}

type Usecase struct {
	uow    uow.UnitOfWork
	prices Quoter
	log    zerolog.Logger
}

func NewUsecase(tx uow.UnitOfWork, prices Quoter, log zerolog.Logger) *Usecase {
	return &Usecase{uow: tx, prices: prices, log: log}
}

type MintInput struct {
	OwnerAccountID    string         `json:"owner_account_id"`
	CropType          string         `json:"crop_type"`
	Quantity          int64          `json:"quantity"`
	QualityGrade      string         `json:"quality_grade"`
	WarehouseLocation string         `json:"warehouse_location"`
	HarvestDate       string         `json:"harvest_date"` // YYYY-MM-DD, defaults to today
	Metadata          map[string]any `json:"metadata"`
}

type TokenDTO struct {
	TokenID           string    `json:"token_id"`
	OwnerAccountID    string    `json:"owner_account_id"`
	CropType          string    `json:"crop_type"`
	Quantity          int64     `json:"quantity"`
	QualityGrade      string    `json:"quality_grade"`
	WarehouseLocation string    `json:"warehouse_location"`
	HarvestDate       string    `json:"harvest_date"`
	UnitPrice         float64   `json:"unit_price"`
	TotalValue        float64   `json:"total_value"`
	Pledged           bool      `json:"is_pledged"`
	CreatedAt         time.Time `json:"created_at"`
}

func toDTO(t *collateral.Token) *TokenDTO {
	return &TokenDTO{
		TokenID:           t.TokenID,
		OwnerAccountID:    t.OwnerID,
		CropType:          t.CropType,
		Quantity:          t.Quantity,
		QualityGrade:      t.QualityGrade,
		WarehouseLocation: t.WarehouseLocation,
		HarvestDate:       t.HarvestDate.Format("2006-01-02"),
		UnitPrice:         t.UnitPrice,
		TotalValue:        t.TotalValue(),
		Pledged:           t.Pledged,
		CreatedAt:         t.CreatedAt,
	}
}

// Mint issues a new collateral token at the current unit price and
// refreshes the owner's aggregate collateral value, all in one
// transaction with the TOKEN_MINTED audit event.
func (u *Usecase) Mint(ctx context.Context, in MintInput) (*TokenDTO, error) {
	if in.OwnerAccountID == "" || in.CropType == "" || in.WarehouseLocation == "" {
		return nil, fmt.Errorf("%w: owner_account_id, crop_type and warehouse_location are required", ErrInvalidInput)
	}
	if in.Quantity <= 0 {
		return nil, fmt.Errorf("%w: quantity must be positive", ErrInvalidInput)
	}
	grade := in.QualityGrade
	if grade == "" {
		grade = defaultQualityGrade
	}
	harvest := time.Now().UTC()
	if in.HarvestDate != "" {
		var err error
		harvest, err = time.Parse("2006-01-02", in.HarvestDate)
		if err != nil {
			return nil, fmt.Errorf("%w: harvest_date must be YYYY-MM-DD", ErrInvalidInput)
		}
	}
	var metadata string
	if in.Metadata != nil {
		raw, err := json.Marshal(in.Metadata)
		if err != nil {
			return nil, fmt.Errorf("%w: metadata not serializable", ErrInvalidInput)
		}
		metadata = string(raw)
	}

	// Valuation never blocks admission: the cache degrades to the
	// fallback table rather than erroring.
	quote := u.prices.Quote(ctx, in.CropType)

	t := &collateral.Token{
		TokenID:           id.NewID32(),
		OwnerID:           in.OwnerAccountID,
		CropType:          quote.Commodity,
		Quantity:          in.Quantity,
		QualityGrade:      grade,
		WarehouseLocation: in.WarehouseLocation,
		HarvestDate:       harvest,
		UnitPrice:         quote.PriceUSD,
		Metadata:          metadata,
	}

	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		owner, err := r.Users.GetByAccountID(ctx, in.OwnerAccountID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return user.ErrNotFound
			}
			return err
		}

		if err := r.Tokens.Create(ctx, t); err != nil {
			return err
		}

		if err := refreshOwnerValue(ctx, r, owner); err != nil {
			return err
		}

		ev, err := audit.NewEvent(audit.EventTokenMinted, t.TokenID, owner.AccountID, map[string]any{
			"crop_type": t.CropType,
			"quantity":  t.Quantity,
			"warehouse": t.WarehouseLocation,
		})
		if err != nil {
			return err
		}
		return r.Events.Create(ctx, ev)
	})
	if err != nil {
		return nil, err
	}

	u.log.Info().Str("token_id", t.TokenID).Str("crop", t.CropType).
		Float64("total_value", t.TotalValue()).Msg("collateral token minted")
	return toDTO(t), nil
}

// Revalue re-reads the price cache for the token's commodity, updates
// the stored unit price and the owner's aggregate. Frozen loan LTVs are
// unaffected.
func (u *Usecase) Revalue(ctx context.Context, tokenID string) (float64, error) {
	existing, err := u.getToken(ctx, tokenID)
	if err != nil {
		return 0, err
	}

	quote := u.prices.Quote(ctx, existing.CropType)

	err = u.uow.WithinTokenTx(ctx, tokenID, func(r uow.Repos, t *collateral.Token) error {
		t.UnitPrice = quote.PriceUSD
		if err := r.Tokens.Save(ctx, t); err != nil {
			return err
		}

		owner, err := r.Users.GetByAccountID(ctx, t.OwnerID)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if owner != nil && err == nil {
			if err := refreshOwnerValue(ctx, r, owner); err != nil {
				return err
			}
		}

		ev, err := audit.NewEvent(audit.EventTokenRevalued, t.TokenID, t.OwnerID, map[string]any{
			"crop_type":  t.CropType,
			"unit_price": t.UnitPrice,
			"source":     quote.Source,
		})
		if err != nil {
			return err
		}
		return r.Events.Create(ctx, ev)
	})
	if err != nil {
		return 0, err
	}
	return quote.PriceUSD, nil
}

// ListByOwner returns every token the account holds, oldest first.
func (u *Usecase) ListByOwner(ctx context.Context, accountID string) ([]TokenDTO, error) {
	var out []TokenDTO
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		if _, err := r.Users.GetByAccountID(ctx, accountID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return user.ErrNotFound
			}
			return err
		}
		tokens, err := r.Tokens.ListByOwner(ctx, accountID)
		if err != nil {
			return err
		}
		out = make([]TokenDTO, 0, len(tokens))
		for i := range tokens {
			out = append(out, *toDTO(&tokens[i]))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (u *Usecase) getToken(ctx context.Context, tokenID string) (*collateral.Token, error) {
	var t *collateral.Token
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		got, err := r.Tokens.GetByTokenID(ctx, tokenID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return collateral.ErrNotFound
			}
			return err
		}
		t = got
		return nil
	})
	return t, err
}

// refreshOwnerValue recomputes the farmer aggregate from the stored
// tokens. Lender profiles have no collateral aggregate to maintain.
func refreshOwnerValue(ctx context.Context, r uow.Repos, owner *user.User) error {
	if owner.UserType != user.TypeFarmer {
		return nil
	}
	total, err := r.Tokens.SumValueByOwner(ctx, owner.AccountID)
	if err != nil {
		return err
	}
	owner.TotalCollateralValue = total
	return r.Users.Save(ctx, owner)
}
