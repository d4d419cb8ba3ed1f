package user

import (
	"context"
	"errors"
	"fmt"
	"time"

	"agrifund-ledger/internal/domain/audit"
	"agrifund-ledger/internal/domain/uow"
	"agrifund-ledger/internal/domain/user"

	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

var ErrInvalidInput = errors.New("invalid input")

type Usecase struct {
	uow uow.UnitOfWork
	log zerolog.Logger
}

func NewUsecase(tx uow.UnitOfWork, log zerolog.Logger) *Usecase {
	return &Usecase{uow: tx, log: log}
}

type RegisterInput struct {
	AccountID string `json:"account_id"`
	UserType  string `json:"user_type"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Location  string `json:"location"`
}

type ProfileDTO struct {
	AccountID            string    `json:"account_id"`
	UserType             string    `json:"user_type"`
	Name                 string    `json:"name"`
	Email                string    `json:"email"`
	Phone                string    `json:"phone,omitempty"`
	Location             string    `json:"location,omitempty"`
	KYCStatus            string    `json:"kyc_status"`
	CreditScore          int       `json:"credit_score"`
	TotalCollateralValue float64   `json:"total_collateral_value,omitempty"`
	PortfolioValue       float64   `json:"portfolio_value,omitempty"`
	CreatedAt            time.Time `json:"created_at"`
}

func toDTO(usr *user.User) *ProfileDTO {
	return &ProfileDTO{
		AccountID:            usr.AccountID,
		UserType:             string(usr.UserType),
		Name:                 usr.Name,
		Email:                usr.Email,
		Phone:                usr.Phone,
		Location:             usr.Location,
		KYCStatus:            usr.KYCStatus,
		CreditScore:          usr.CreditScore,
		TotalCollateralValue: usr.TotalCollateralValue,
		PortfolioValue:       usr.PortfolioValue,
		CreatedAt:            usr.CreatedAt,
	}
}

func (u *Usecase) Register(ctx context.Context, in RegisterInput) (*ProfileDTO, error) {
	if in.AccountID == "" || in.Name == "" || in.Email == "" {
		return nil, fmt.Errorf("%w: account_id, name and email are required", ErrInvalidInput)
	}
	t := user.Type(in.UserType)
	if t != user.TypeFarmer && t != user.TypeLender {
		return nil, fmt.Errorf("%w: user_type must be farmer or lender", ErrInvalidInput)
	}

	usr := &user.User{
		AccountID:   in.AccountID,
		UserType:    t,
		Name:        in.Name,
		Email:       in.Email,
		Phone:       in.Phone,
		Location:    in.Location,
		KYCStatus:   "pending",
		CreditScore: 700,
	}

	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		_, err := r.Users.GetByAccountID(ctx, in.AccountID)
		switch {
		case err == nil:
			return user.ErrExists
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return err
		}

		if err := r.Users.Create(ctx, usr); err != nil {
			return err
		}

		ev, err := audit.NewEvent(audit.EventUserRegistered, usr.AccountID, usr.AccountID, map[string]any{
			"user_type": string(usr.UserType),
		})
		if err != nil {
			return err
		}
		return r.Events.Create(ctx, ev)
	})
	if err != nil {
		return nil, err
	}

	u.log.Info().Str("account_id", usr.AccountID).Str("user_type", string(usr.UserType)).Msg("user registered")
	return toDTO(usr), nil
}

func (u *Usecase) Get(ctx context.Context, accountID string) (*ProfileDTO, error) {
	var dto *ProfileDTO
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		usr, err := r.Users.GetByAccountID(ctx, accountID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return user.ErrNotFound
			}
			return err
		}
		dto = toDTO(usr)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return dto, nil
}
