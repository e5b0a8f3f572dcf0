package core

import (
	"context"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
)

// LenderPosition staked liquidity of one lender in one vault
type LenderPosition struct {
	ID             uint64          `sql:"PRIMARY_KEY;AUTO_INCREMENT" json:"-"`
	Vault          string          `sql:"size:42;unique_index:idx_lenders_vault_lender" json:"vault"`
	Lender         string          `sql:"size:42;unique_index:idx_lenders_vault_lender" json:"lender"`
	StakedAmount   decimal.Decimal `sql:"type:decimal(78,0)" json:"staked_amount"`
	AccruedRewards decimal.Decimal `sql:"type:decimal(78,0)" json:"accrued_rewards"`
	Reputation     int64           `json:"reputation"`
	IsActive       bool            `json:"is_active"`
	LastAccrual    int64           `json:"last_accrual"`
	Version        int64           `sql:"default:0" json:"version"`
	CreatedAt      time.Time       `sql:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt      time.Time       `sql:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// LenderAddress lender as address
func (l *LenderPosition) LenderAddress() common.Address {
	return common.HexToAddress(l.Lender)
}

// EmptyLender zeroed tuple for lenders without a position
func EmptyLender(vault, lender common.Address) *LenderPosition {
	return &LenderPosition{
		Vault:          vault.Hex(),
		Lender:         lender.Hex(),
		StakedAmount:   decimal.Zero,
		AccruedRewards: decimal.Zero,
	}
}

// LenderStore lender store interface
type LenderStore interface {
	Find(ctx context.Context, vault, lender common.Address) (*LenderPosition, error)
	Save(ctx context.Context, position *LenderPosition) error
	ListActive(ctx context.Context, vault common.Address) ([]*LenderPosition, error)
}
