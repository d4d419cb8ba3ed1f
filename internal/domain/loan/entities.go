package loan

import (
	"errors"
	"fmt"
	"time"
)

type Status string

const (
	StatusPending    Status = "pending"
	StatusFunded     Status = "funded"
	StatusRepaid     Status = "repaid"
	StatusDefaulted  Status = "defaulted"
	StatusLiquidated Status = "liquidated"
)

// Terminal reports whether no further transition is permitted.
func (s Status) Terminal() bool {
	return s == StatusRepaid || s == StatusDefaulted || s == StatusLiquidated
}

// MaxLTVRatio is the admission threshold: a loan whose amount exceeds
// this percentage of its collateral value is never created.
const MaxLTVRatio = 85.0

// DaysPerMonth is the settlement convention used for due dates.
const DaysPerMonth = 30

var (
	ErrNotFound = errors.New("loan not found")
	// ErrNotFundable guards the pending -> funded transition; funding an
	// already-funded loan is rejected without side effects.
	ErrNotFundable = errors.New("loan is not available for funding")
	// ErrInvalidTransition guards closure: only a funded loan can be
	// repaid, defaulted or liquidated.
	ErrInvalidTransition = errors.New("loan is not in a closable state")
	ErrInvalidOutcome    = errors.New("invalid loan outcome")
)

// LTVExceededError reports a rejected loan admission. The message always
// states both the computed ratio and the threshold.
type LTVExceededError struct {
	Ratio float64
	Max   float64
}

func (e *LTVExceededError) Error() string {
	return fmt.Sprintf("LTV ratio %.2f%% too high, maximum allowed is %.0f%%", e.Ratio, e.Max)
}

type Loan struct {
	ID                uint64     `gorm:"primaryKey;column:id" json:"-"`
	ContractID        string     `gorm:"size:32;uniqueIndex:ux_loans_contract_id" json:"contract_id"`
	BorrowerID        string     `gorm:"size:32;index:idx_loans_borrower" json:"borrower_id"`
	LenderID          string     `gorm:"size:32;index:idx_loans_lender" json:"lender_id"`
	Amount            float64    `gorm:"type:decimal(15,2)" json:"amount"`
	InterestRate      float64    `gorm:"type:decimal(5,2)" json:"interest_rate"`
	DurationMonths    int        `json:"duration_months"`
	Purpose           string     `gorm:"size:200" json:"purpose"`
	CollateralTokenID string     `gorm:"size:32;index:idx_loans_collateral" json:"collateral_token_id"`
	// LTVRatio is frozen at creation time; it is never recomputed as
	// prices move.
	LTVRatio  float64    `gorm:"type:decimal(5,2)" json:"ltv_ratio"`
	Status    Status     `gorm:"size:20;default:'pending';index:idx_loans_status" json:"status"`
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
	FundedAt  *time.Time `json:"funded_at,omitempty"`
	DueDate   *time.Time `json:"due_date,omitempty"`
	UpdatedAt time.Time  `gorm:"autoUpdateTime" json:"-"`
}

func (Loan) TableName() string { return "loans" }
