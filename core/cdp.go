package core

import (
	"context"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
)

// CDP collateralized debt position of one borrower in one vault.
// Amounts are integer token units (18 decimals).
type CDP struct {
	ID               uint64          `sql:"PRIMARY_KEY;AUTO_INCREMENT" json:"-"`
	Vault            string          `sql:"size:42;unique_index:idx_cdps_vault_owner" json:"vault"`
	Owner            string          `sql:"size:42;unique_index:idx_cdps_vault_owner" json:"owner"`
	CollateralAmount decimal.Decimal `sql:"type:decimal(78,0)" json:"collateral_amount"`
	DebtAmount       decimal.Decimal `sql:"type:decimal(78,0)" json:"debt_amount"`
	// settled but unpaid interest, not part of the on-chain tuple
	InterestAmount decimal.Decimal `sql:"type:decimal(78,0)" json:"interest_amount"`
	CreditScore    int64           `json:"credit_score"`
	APR            int64           `json:"apr"`
	DueDate        int64           `json:"due_date"`
	IsActive       bool            `json:"is_active"`
	AssignedLender string          `sql:"size:42" json:"assigned_lender"`
	LastAccrual    int64           `json:"last_accrual"`
	Version        int64           `sql:"default:0" json:"version"`
	CreatedAt      time.Time       `sql:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt      time.Time       `sql:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// OwnerAddress owner as address
func (c *CDP) OwnerAddress() common.Address {
	return common.HexToAddress(c.Owner)
}

// LenderAddress assigned lender as address, zero if unassigned
func (c *CDP) LenderAddress() common.Address {
	if c.AssignedLender == "" {
		return common.Address{}
	}

	return common.HexToAddress(c.AssignedLender)
}

// Reset zero the on-chain tuple, as the vault does for closed positions
func (c *CDP) Reset() {
	c.CollateralAmount = decimal.Zero
	c.DebtAmount = decimal.Zero
	c.InterestAmount = decimal.Zero
	c.CreditScore = 0
	c.APR = 0
	c.DueDate = 0
	c.IsActive = false
	c.AssignedLender = common.Address{}.Hex()
	c.LastAccrual = 0
}

// EmptyCDP the zeroed tuple getCDPInfo returns for inactive owners
func EmptyCDP(vault, owner common.Address) *CDP {
	c := &CDP{
		Vault: vault.Hex(),
		Owner: owner.Hex(),
	}
	c.Reset()
	return c
}

// CDPStore cdp store interface
type CDPStore interface {
	Find(ctx context.Context, vault, owner common.Address) (*CDP, error)
	Save(ctx context.Context, cdp *CDP) error
	ListActive(ctx context.Context, vault common.Address) ([]*CDP, error)
}
