package sim

import (
	"context"
	"math/big"

	"creditrust/core"
	"creditrust/pkg/number"

	"github.com/ethereum/go-ethereum/common"
)

// Token mock erc20 on the simulated chain
type Token struct {
	chain    *Chain
	address  common.Address
	symbol   string
	decimals uint8
}

var _ core.Token = (*Token)(nil)

func (t *Token) Address() common.Address {
	return t.address
}

func (t *Token) Symbol(ctx context.Context) (string, error) {
	return t.symbol, nil
}

func (t *Token) Decimals(ctx context.Context) (uint8, error) {
	return t.decimals, nil
}

func (t *Token) BalanceOf(ctx context.Context, owner common.Address) (*big.Int, error) {
	balance, err := t.chain.store.View().Ledger().Balance(ctx, t.address, owner)
	if err != nil {
		return nil, err
	}

	return number.ToBig(balance), nil
}

func (t *Token) Allowance(ctx context.Context, owner, spender common.Address) (*big.Int, error) {
	allowance, err := t.chain.store.View().Ledger().Allowance(ctx, t.address, owner, spender)
	if err != nil {
		return nil, err
	}

	return number.ToBig(allowance), nil
}

func (t *Token) Approve(ctx context.Context, from, spender common.Address, amount *big.Int) (*core.TxResult, error) {
	if !number.FitsUint256(amount) {
		return nil, core.ErrInvalidAmount
	}

	tx := call{from: from, to: t.address, method: "approve", args: []interface{}{spender.Hex(), amount}}
	return t.chain.mine(ctx, tx, func(state core.ChainState, block Block) (*common.Address, error) {
		return nil, state.Ledger().SetAllowance(ctx, t.address, from, spender, number.FromBig(amount))
	})
}

// Mint anyone may mint on the mock tokens
func (t *Token) Mint(ctx context.Context, from, to common.Address, amount *big.Int) (*core.TxResult, error) {
	if !number.FitsUint256(amount) {
		return nil, core.ErrInvalidAmount
	}

	tx := call{from: from, to: t.address, method: "mint", args: []interface{}{to.Hex(), amount}}
	return t.chain.mine(ctx, tx, func(state core.ChainState, block Block) (*common.Address, error) {
		ledger := state.Ledger()
		balance, err := ledger.Balance(ctx, t.address, to)
		if err != nil {
			return nil, err
		}

		return nil, ledger.SetBalance(ctx, t.address, to, balance.Add(number.FromBig(amount)))
	})
}

// Transfer plain erc20 transfer
func (t *Token) Transfer(ctx context.Context, from, to common.Address, amount *big.Int) (*core.TxResult, error) {
	if !number.FitsUint256(amount) {
		return nil, core.ErrInvalidAmount
	}

	tx := call{from: from, to: t.address, method: "transfer", args: []interface{}{to.Hex(), amount}}
	return t.chain.mine(ctx, tx, func(state core.ChainState, block Block) (*common.Address, error) {
		return nil, transfer(ctx, state, t.address, from, to, number.FromBig(amount))
	})
}
