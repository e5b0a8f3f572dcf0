package eth

import (
	"context"
	"errors"
	"math/big"

	"creditrust/core"
	"creditrust/pkg/number"

	"github.com/ethereum/go-ethereum/common"
)

var errUnexpectedOutput = errors.New("unexpected abi output")

// Vault CDPVault over json-rpc
type Vault struct {
	contract
}

var _ core.Vault = (*Vault)(nil)

// NewVault bind the vault at address
func NewVault(backend Backend, address common.Address, signer *Signer) *Vault {
	return &Vault{contract{
		backend: backend,
		address: address,
		abi:     VaultABI,
		signer:  signer,
	}}
}

func (v *Vault) Address() common.Address {
	return v.address
}

func (v *Vault) OpenCDP(ctx context.Context, from common.Address, collateral, creditScore *big.Int) (*core.TxResult, error) {
	return v.transact(ctx, from, "openCDP", collateral, creditScore)
}

func (v *Vault) RequestLoan(ctx context.Context, from common.Address, amount *big.Int) (*core.TxResult, error) {
	return v.transact(ctx, from, "requestLoan", amount)
}

func (v *Vault) MakeRepayment(ctx context.Context, from common.Address, amount *big.Int) (*core.TxResult, error) {
	return v.transact(ctx, from, "makeRepayment", amount)
}

func (v *Vault) AddCollateral(ctx context.Context, from common.Address, amount *big.Int) (*core.TxResult, error) {
	return v.transact(ctx, from, "addCollateral", amount)
}

func (v *Vault) StakeLender(ctx context.Context, from common.Address, amount *big.Int) (*core.TxResult, error) {
	return v.transact(ctx, from, "stakeLender", amount)
}

func (v *Vault) WithdrawLender(ctx context.Context, from common.Address, amount *big.Int) (*core.TxResult, error) {
	if amount == nil {
		amount = big.NewInt(0)
	}

	return v.transact(ctx, from, "withdrawLender", amount)
}

func (v *Vault) CompoundRewards(ctx context.Context, from common.Address) (*core.TxResult, error) {
	return v.transact(ctx, from, "compoundRewards")
}

func (v *Vault) GetCDPInfo(ctx context.Context, owner common.Address) (*core.CDP, error) {
	out, err := v.call(ctx, "getCDPInfo", owner)
	if err != nil {
		return nil, err
	}

	if len(out) != 7 {
		return nil, errUnexpectedOutput
	}

	cdp := core.EmptyCDP(v.address, owner)
	cdp.CollateralAmount = number.FromBig(out[0].(*big.Int))
	cdp.DebtAmount = number.FromBig(out[1].(*big.Int))
	cdp.CreditScore = out[2].(*big.Int).Int64()
	cdp.APR = out[3].(*big.Int).Int64()
	cdp.DueDate = out[4].(*big.Int).Int64()
	cdp.IsActive = out[5].(bool)
	cdp.AssignedLender = out[6].(common.Address).Hex()
	return cdp, nil
}

func (v *Vault) GetLenderInfo(ctx context.Context, lender common.Address) (*core.LenderPosition, error) {
	out, err := v.call(ctx, "getLenderInfo", lender)
	if err != nil {
		return nil, err
	}

	if len(out) != 4 {
		return nil, errUnexpectedOutput
	}

	position := core.EmptyLender(v.address, lender)
	position.StakedAmount = number.FromBig(out[0].(*big.Int))
	position.AccruedRewards = number.FromBig(out[1].(*big.Int))
	position.Reputation = out[2].(*big.Int).Int64()
	position.IsActive = out[3].(bool)
	return position, nil
}

func (v *Vault) uintCall(ctx context.Context, method string, args ...interface{}) (*big.Int, error) {
	out, err := v.call(ctx, method, args...)
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

func (v *Vault) GetTotalDebtWithInterest(ctx context.Context, owner common.Address) (*big.Int, error) {
	return v.uintCall(ctx, "getTotalDebtWithInterest", owner)
}

func (v *Vault) CalculateAccruedInterest(ctx context.Context, owner common.Address) (*big.Int, error) {
	return v.uintCall(ctx, "calculateAccruedInterest", owner)
}

func (v *Vault) GetHealthFactor(ctx context.Context, owner common.Address) (*big.Int, error) {
	return v.uintCall(ctx, "getHealthFactor", owner)
}

func (v *Vault) MinCollateralRatio(ctx context.Context) (*big.Int, error) {
	return v.uintCall(ctx, "MIN_COLLATERAL_RATIO")
}
