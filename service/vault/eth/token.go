package eth

import (
	"context"
	"math/big"

	"creditrust/core"

	"github.com/ethereum/go-ethereum/common"
)

// Token erc20 over json-rpc
type Token struct {
	contract
}

var _ core.Token = (*Token)(nil)

// NewToken bind the token at address
func NewToken(backend Backend, address common.Address, signer *Signer) *Token {
	return &Token{contract{
		backend: backend,
		address: address,
		abi:     ERC20ABI,
		signer:  signer,
	}}
}

func (t *Token) Address() common.Address {
	return t.address
}

func (t *Token) Symbol(ctx context.Context) (string, error) {
	out, err := t.call(ctx, "symbol")
	if err != nil {
		return "", err
	}

	if len(out) != 1 {
		return "", errUnexpectedOutput
	}

	symbol, _ := out[0].(string)
	return symbol, nil
}

func (t *Token) Decimals(ctx context.Context) (uint8, error) {
	out, err := t.call(ctx, "decimals")
	if err != nil {
		return 0, err
	}

	if len(out) != 1 {
		return 0, errUnexpectedOutput
	}

	decimals, _ := out[0].(uint8)
	return decimals, nil
}

func (t *Token) balance(ctx context.Context, method string, args ...interface{}) (*big.Int, error) {
	out, err := t.call(ctx, method, args...)
	if err != nil {
		return nil, err
	}

	if len(out) != 1 {
		return nil, errUnexpectedOutput
	}

	value, ok := out[0].(*big.Int)
	if !ok {
		return nil, errUnexpectedOutput
	}

	return value, nil
}

func (t *Token) BalanceOf(ctx context.Context, owner common.Address) (*big.Int, error) {
	return t.balance(ctx, "balanceOf", owner)
}

func (t *Token) Allowance(ctx context.Context, owner, spender common.Address) (*big.Int, error) {
	return t.balance(ctx, "allowance", owner, spender)
}

func (t *Token) Approve(ctx context.Context, from, spender common.Address, amount *big.Int) (*core.TxResult, error) {
	return t.transact(ctx, from, "approve", spender, amount)
}

func (t *Token) Mint(ctx context.Context, from, to common.Address, amount *big.Int) (*core.TxResult, error) {
	return t.transact(ctx, from, "mint", to, amount)
}
