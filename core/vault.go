package core

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// TxResult a submitted transaction
type TxResult struct {
	Hash common.Hash `json:"hash"`
	// set once mined, zero while pending
	BlockNumber uint64 `json:"block_number,omitempty"`
}

// Vault the CDPVault contract surface
type Vault interface {
	Address() common.Address

	OpenCDP(ctx context.Context, from common.Address, collateral, creditScore *big.Int) (*TxResult, error)
	RequestLoan(ctx context.Context, from common.Address, amount *big.Int) (*TxResult, error)
	MakeRepayment(ctx context.Context, from common.Address, amount *big.Int) (*TxResult, error)
	AddCollateral(ctx context.Context, from common.Address, amount *big.Int) (*TxResult, error)
	StakeLender(ctx context.Context, from common.Address, amount *big.Int) (*TxResult, error)
	// WithdrawLender amount 0 withdraws stake and rewards in full
	WithdrawLender(ctx context.Context, from common.Address, amount *big.Int) (*TxResult, error)
	CompoundRewards(ctx context.Context, from common.Address) (*TxResult, error)

	GetCDPInfo(ctx context.Context, owner common.Address) (*CDP, error)
	GetLenderInfo(ctx context.Context, lender common.Address) (*LenderPosition, error)
	GetTotalDebtWithInterest(ctx context.Context, owner common.Address) (*big.Int, error)
	CalculateAccruedInterest(ctx context.Context, owner common.Address) (*big.Int, error)
	// GetHealthFactor scaled by 1e18, 1e18 means exactly at MIN_COLLATERAL_RATIO
	GetHealthFactor(ctx context.Context, owner common.Address) (*big.Int, error)
	// MinCollateralRatio in basis points
	MinCollateralRatio(ctx context.Context) (*big.Int, error)
}

// Token the erc20 subset the vault tooling uses
type Token interface {
	Address() common.Address
	Symbol(ctx context.Context) (string, error)
	Decimals(ctx context.Context) (uint8, error)
	BalanceOf(ctx context.Context, owner common.Address) (*big.Int, error)
	Allowance(ctx context.Context, owner, spender common.Address) (*big.Int, error)
	Approve(ctx context.Context, from, spender common.Address, amount *big.Int) (*TxResult, error)
	// Mint only exists on the mock tokens
	Mint(ctx context.Context, from, to common.Address, amount *big.Int) (*TxResult, error)
}

// Chain block and receipt reads shared by both backends.
// *ethclient.Client satisfies it.
type Chain interface {
	ChainID(ctx context.Context) (*big.Int, error)
	BlockNumber(ctx context.Context) (uint64, error)
	TransactionReceipt(ctx context.Context, hash common.Hash) (*types.Receipt, error)
	CodeAt(ctx context.Context, account common.Address, blockNumber *big.Int) ([]byte, error)
}
