package views

import (
	"time"

	"creditrust/core"
	"creditrust/pkg/number"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
)

const tokenDecimals = 18

// Human integer token units as a whole token amount
func Human(v decimal.Decimal) decimal.Decimal {
	return number.FromWei(number.ToBig(v), tokenDecimals)
}

// CDP cdp view, amounts in whole tokens
type CDP struct {
	Owner                 string          `json:"owner"`
	Vault                 string          `json:"vault"`
	Collateral            decimal.Decimal `json:"collateral"`
	Debt                  decimal.Decimal `json:"debt"`
	TotalDebtWithInterest decimal.Decimal `json:"total_debt_with_interest"`
	AccruedInterest       decimal.Decimal `json:"accrued_interest"`
	HealthFactor          decimal.Decimal `json:"health_factor"`
	CreditScore           int64           `json:"credit_score"`
	APR                   int64           `json:"apr"`
	DueDate               int64           `json:"due_date,omitempty"`
	IsActive              bool            `json:"is_active"`
	AssignedLender        string          `json:"assigned_lender,omitempty"`
	Stale                 bool            `json:"stale"`
	UpdatedAt             time.Time       `json:"updated_at"`
}

// NewCDP view of a borrowing snapshot
func NewCDP(snapshot *core.BorrowingSnapshot, stale bool) CDP {
	c := snapshot.CDP
	v := CDP{
		Owner:                 c.Owner,
		Vault:                 c.Vault,
		Collateral:            Human(c.CollateralAmount),
		Debt:                  Human(c.DebtAmount),
		TotalDebtWithInterest: Human(snapshot.TotalDebtWithInterest),
		AccruedInterest:       Human(snapshot.AccruedInterest),
		HealthFactor:          Human(snapshot.HealthFactor),
		CreditScore:           c.CreditScore,
		APR:                   c.APR,
		DueDate:               c.DueDate,
		IsActive:              c.IsActive,
		Stale:                 stale,
		UpdatedAt:             snapshot.UpdatedAt,
	}

	if lender := c.LenderAddress(); lender != (common.Address{}) {
		v.AssignedLender = lender.Hex()
	}

	return v
}

// Lender lender position view
type Lender struct {
	Lender         string          `json:"lender"`
	Vault          string          `json:"vault"`
	Staked         decimal.Decimal `json:"staked"`
	AccruedRewards decimal.Decimal `json:"accrued_rewards"`
	Reputation     int64           `json:"reputation"`
	IsActive       bool            `json:"is_active"`
	Stale          bool            `json:"stale"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// NewLender view of a lending snapshot
func NewLender(snapshot *core.LendingSnapshot, stale bool) Lender {
	p := snapshot.Position
	return Lender{
		Lender:         p.Lender,
		Vault:          p.Vault,
		Staked:         Human(p.StakedAmount),
		AccruedRewards: Human(p.AccruedRewards),
		Reputation:     p.Reputation,
		IsActive:       p.IsActive,
		Stale:          stale,
		UpdatedAt:      snapshot.UpdatedAt,
	}
}
