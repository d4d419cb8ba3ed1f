package user

import (
	"errors"
	"time"
)

var (
	ErrNotFound = errors.New("user not found")
	ErrExists   = errors.New("user already exists")
)

type Type string

const (
	TypeFarmer Type = "farmer"
	TypeLender Type = "lender"
)

// User is the identity/profile record the lending core consumes. The
// farmer/lender split is a tagged variant on UserType: farmers carry an
// aggregate collateral value, lenders a portfolio value.
type User struct {
	ID          uint64 `gorm:"primaryKey;column:id" json:"-"`
	AccountID   string `gorm:"size:32;uniqueIndex:ux_users_account_id" json:"account_id"`
	UserType    Type   `gorm:"size:10" json:"user_type"`
	Name        string `gorm:"size:100" json:"name"`
	Email       string `gorm:"size:120;uniqueIndex:ux_users_email" json:"email"`
	Phone       string `gorm:"size:20" json:"phone,omitempty"`
	Location    string `gorm:"size:200" json:"location,omitempty"`
	KYCStatus   string `gorm:"size:20;default:'pending'" json:"kyc_status"`
	CreditScore int    `gorm:"default:700" json:"credit_score"`
	// TotalCollateralValue is maintained for farmers on mint/revalue.
	TotalCollateralValue float64 `gorm:"type:decimal(15,2);default:0" json:"total_collateral_value"`
	// PortfolioValue is maintained for lenders on funding.
	PortfolioValue float64   `gorm:"type:decimal(15,2);default:0" json:"portfolio_value"`
	CreatedAt      time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (User) TableName() string { return "users" }
