package core

import (
	"context"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/jmoiron/sqlx/types"
	"github.com/shopspring/decimal"
)

// ContractKind kind of a simulated contract
type ContractKind string

const (
	ContractKindToken       ContractKind = "erc20"
	ContractKindVault       ContractKind = "cdp_vault"
	ContractKindCreditAgent ContractKind = "credit_agent"
	ContractKindRouter      ContractKind = "x402_router"
)

// Balance erc20 balance of an owner on the simulated chain
type Balance struct {
	ID        uint64          `sql:"PRIMARY_KEY;AUTO_INCREMENT" json:"-"`
	Token     string          `sql:"size:42;unique_index:idx_balances_token_owner" json:"token"`
	Owner     string          `sql:"size:42;unique_index:idx_balances_token_owner" json:"owner"`
	Amount    decimal.Decimal `sql:"type:decimal(78,0)" json:"amount"`
	UpdatedAt time.Time       `sql:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// Allowance erc20 allowance on the simulated chain
type Allowance struct {
	ID        uint64          `sql:"PRIMARY_KEY;AUTO_INCREMENT" json:"-"`
	Token     string          `sql:"size:42;unique_index:idx_allowances_token_owner_spender" json:"token"`
	Owner     string          `sql:"size:42;unique_index:idx_allowances_token_owner_spender" json:"owner"`
	Spender   string          `sql:"size:42;unique_index:idx_allowances_token_owner_spender" json:"spender"`
	Amount    decimal.Decimal `sql:"type:decimal(78,0)" json:"amount"`
	UpdatedAt time.Time       `sql:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// Contract a contract deployed on the simulated chain
type Contract struct {
	ID       uint64       `sql:"PRIMARY_KEY;AUTO_INCREMENT" json:"-"`
	Address  string       `sql:"size:42;unique_index:idx_contracts_address" json:"address"`
	Kind     ContractKind `sql:"size:24" json:"kind"`
	Name     string       `sql:"size:64" json:"name"`
	Symbol   string       `sql:"size:16" json:"symbol,omitempty"`
	Decimals uint8        `json:"decimals,omitempty"`
	// vaults only
	CollateralToken string `sql:"size:42" json:"collateral_token,omitempty"`
	DebtToken       string `sql:"size:42" json:"debt_token,omitempty"`
	// constructor parameters
	Params    types.JSONText `sql:"type:TEXT" json:"params,omitempty"`
	Deployer  string         `sql:"size:42" json:"deployer"`
	CreatedAt time.Time      `sql:"default:CURRENT_TIMESTAMP" json:"created_at"`
}

// LedgerStore token ledger and contract registry of the simulated chain
type LedgerStore interface {
	Balance(ctx context.Context, token, owner common.Address) (decimal.Decimal, error)
	SetBalance(ctx context.Context, token, owner common.Address, amount decimal.Decimal) error
	Allowance(ctx context.Context, token, owner, spender common.Address) (decimal.Decimal, error)
	SetAllowance(ctx context.Context, token, owner, spender common.Address, amount decimal.Decimal) error
	FindContract(ctx context.Context, address common.Address) (*Contract, error)
	CreateContract(ctx context.Context, contract *Contract) error
	ListContracts(ctx context.Context) ([]*Contract, error)
}

// ChainState everything a simulated block reads and writes
type ChainState interface {
	CDPs() CDPStore
	Lenders() LenderStore
	Ledger() LedgerStore
	Height(ctx context.Context) (uint64, error)
	SetHeight(ctx context.Context, height uint64) error
}

// ChainStore persistence of the simulated chain
type ChainStore interface {
	// Atomic run fn as one block, nothing fn wrote survives if it fails
	Atomic(ctx context.Context, fn func(state ChainState) error) error
	View() ChainState
}
