package sim

import (
	"context"
	"errors"
	"math/big"

	"creditrust/core"
	"creditrust/internal/creditrust"
	"creditrust/pkg/number"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
)

// Vault cdp vault on the simulated chain
type Vault struct {
	chain      *Chain
	address    common.Address
	collateral common.Address
	debt       common.Address
}

var _ core.Vault = (*Vault)(nil)

func (v *Vault) Address() common.Address {
	return v.address
}

// CollateralToken address of the collateral token
func (v *Vault) CollateralToken() common.Address {
	return v.collateral
}

// DebtToken address of the debt token
func (v *Vault) DebtToken() common.Address {
	return v.debt
}

func (v *Vault) minRatio() decimal.Decimal {
	return decimal.NewFromInt(v.chain.cfg.MinCollateralRatio)
}

func (v *Vault) write(ctx context.Context, from common.Address, method string, args []interface{}, fn func(state core.ChainState, block Block) error) (*core.TxResult, error) {
	tx := call{from: from, to: v.address, method: method, args: args}
	return v.chain.mine(ctx, tx, func(state core.ChainState, block Block) (*common.Address, error) {
		return nil, fn(state, block)
	})
}

func isRevert(err error) bool {
	var reverted *core.RevertError
	return errors.As(err, &reverted)
}

func positive(amount *big.Int) bool {
	return amount != nil && amount.Sign() > 0 && number.FitsUint256(amount)
}

// accrue settle pending interest into InterestAmount
func accrue(cdp *core.CDP, now int64) {
	if !cdp.IsActive {
		return
	}

	pending := creditrust.AccruedInterest(cdp.DebtAmount, cdp.APR, now-cdp.LastAccrual)
	cdp.InterestAmount = cdp.InterestAmount.Add(pending)
	cdp.LastAccrual = now
}

func (v *Vault) accrueLender(position *core.LenderPosition, now int64) {
	if !position.IsActive {
		return
	}

	pending := creditrust.LenderRewards(position.StakedAmount, v.chain.cfg.RewardRate, now-position.LastAccrual)
	position.AccruedRewards = position.AccruedRewards.Add(pending)
	position.LastAccrual = now
}

func (v *Vault) OpenCDP(ctx context.Context, from common.Address, collateral, creditScore *big.Int) (*core.TxResult, error) {
	args := []interface{}{collateral, creditScore}
	return v.write(ctx, from, "openCDP", args, func(state core.ChainState, block Block) error {
		if !positive(collateral) {
			return revert(core.ReasonInvalidAmount)
		}

		if creditScore == nil || !creditScore.IsInt64() {
			return revert(core.ReasonInvalidCreditScore)
		}

		apr, ok := creditrust.APRForCreditScore(creditScore.Int64())
		if !ok {
			return revert(core.ReasonInvalidCreditScore)
		}

		cdp, err := state.CDPs().Find(ctx, v.address, from)
		if err != nil {
			return err
		}

		if cdp.IsActive {
			return revert(core.ReasonCDPAlreadyExists)
		}

		amount := number.FromBig(collateral)
		if err := transferFrom(ctx, state, v.collateral, v.address, from, v.address, amount); err != nil {
			if isRevert(err) {
				return revert(core.ReasonCollateralTransferFailed)
			}
			return err
		}

		lender, err := v.assignLender(ctx, state, from, block)
		if err != nil {
			return err
		}

		cdp.Reset()
		cdp.CollateralAmount = amount
		cdp.CreditScore = creditScore.Int64()
		cdp.APR = apr
		cdp.IsActive = true
		cdp.AssignedLender = lender.Hex()
		cdp.LastAccrual = block.Time
		return state.CDPs().Save(ctx, cdp)
	})
}

func (v *Vault) assignLender(ctx context.Context, state core.ChainState, owner common.Address, block Block) (common.Address, error) {
	lenders, err := state.Lenders().ListActive(ctx, v.address)
	if err != nil {
		return common.Address{}, err
	}

	candidates := make([]creditrust.Candidate, 0, len(lenders))
	for _, l := range lenders {
		// a lender is never assigned to their own loan
		if l.LenderAddress() == owner {
			continue
		}

		candidates = append(candidates, creditrust.Candidate{
			Address: l.LenderAddress(),
			Stake:   l.StakedAmount,
		})
	}

	randomness := creditrust.Randomness(owner, block.Number, v.chain.cfg.Seed)
	return creditrust.AssignLender(candidates, randomness), nil
}

func (v *Vault) RequestLoan(ctx context.Context, from common.Address, amount *big.Int) (*core.TxResult, error) {
	return v.write(ctx, from, "requestLoan", []interface{}{amount}, func(state core.ChainState, block Block) error {
		if !positive(amount) {
			return revert(core.ReasonInvalidAmount)
		}

		cdp, err := state.CDPs().Find(ctx, v.address, from)
		if err != nil {
			return err
		}

		if !cdp.IsActive {
			return revert(core.ReasonNoActiveCDP)
		}

		accrue(cdp, block.Time)

		loan := number.FromBig(amount)
		debtAfter := cdp.DebtAmount.Add(cdp.InterestAmount).Add(loan)
		if !creditrust.CheckCollateralRatio(cdp.CollateralAmount, debtAfter, v.minRatio()) {
			return revert(core.ReasonInsufficientCollateralRatio)
		}

		if err := transfer(ctx, state, v.debt, v.address, from, loan); err != nil {
			if isRevert(err) {
				return revert(core.ReasonLoanTransferFailed)
			}
			return err
		}

		cdp.DebtAmount = cdp.DebtAmount.Add(loan)
		if cdp.DueDate == 0 {
			cdp.DueDate = block.Time + v.chain.cfg.LoanTerm
		}

		return state.CDPs().Save(ctx, cdp)
	})
}

func (v *Vault) MakeRepayment(ctx context.Context, from common.Address, amount *big.Int) (*core.TxResult, error) {
	return v.write(ctx, from, "makeRepayment", []interface{}{amount}, func(state core.ChainState, block Block) error {
		if !positive(amount) {
			return revert(core.ReasonInvalidAmount)
		}

		cdp, err := state.CDPs().Find(ctx, v.address, from)
		if err != nil {
			return err
		}

		if !cdp.IsActive {
			return revert(core.ReasonNoActiveCDP)
		}

		accrue(cdp, block.Time)

		hadDebt := cdp.DebtAmount.IsPositive() || cdp.InterestAmount.IsPositive()
		toInterest, toPrincipal := creditrust.SplitRepayment(number.FromBig(amount), cdp.InterestAmount, cdp.DebtAmount)
		if err := transferFrom(ctx, state, v.debt, v.address, from, v.address, toInterest.Add(toPrincipal)); err != nil {
			return err
		}

		cdp.InterestAmount = cdp.InterestAmount.Sub(toInterest)
		cdp.DebtAmount = cdp.DebtAmount.Sub(toPrincipal)

		lender := cdp.LenderAddress()
		if toInterest.IsPositive() && lender != (common.Address{}) {
			if err := v.creditLender(ctx, state, lender, toInterest, 0, block); err != nil {
				return err
			}
		}

		if !hadDebt || cdp.DebtAmount.IsPositive() || cdp.InterestAmount.IsPositive() {
			return state.CDPs().Save(ctx, cdp)
		}

		// fully repaid, close the position and hand the collateral back
		if err := transfer(ctx, state, v.collateral, v.address, from, cdp.CollateralAmount); err != nil {
			return err
		}

		if lender != (common.Address{}) {
			onTime := cdp.DueDate == 0 || block.Time <= cdp.DueDate
			if err := v.creditLender(ctx, state, lender, decimal.Zero, creditrust.ReputationForRepayment(onTime), block); err != nil {
				return err
			}
		}

		cdp.Reset()
		return state.CDPs().Save(ctx, cdp)
	})
}

func (v *Vault) creditLender(ctx context.Context, state core.ChainState, lender common.Address, rewards decimal.Decimal, reputation int64, block Block) error {
	position, err := state.Lenders().Find(ctx, v.address, lender)
	if err != nil {
		return err
	}

	// interest of a lender that already left stays in the vault
	if !position.IsActive {
		return nil
	}

	v.accrueLender(position, block.Time)
	position.AccruedRewards = position.AccruedRewards.Add(rewards)
	position.Reputation += reputation
	return state.Lenders().Save(ctx, position)
}

func (v *Vault) AddCollateral(ctx context.Context, from common.Address, amount *big.Int) (*core.TxResult, error) {
	return v.write(ctx, from, "addCollateral", []interface{}{amount}, func(state core.ChainState, block Block) error {
		if !positive(amount) {
			return revert(core.ReasonInvalidAmount)
		}

		cdp, err := state.CDPs().Find(ctx, v.address, from)
		if err != nil {
			return err
		}

		if !cdp.IsActive {
			return revert(core.ReasonNoActiveCDP)
		}

		collateral := number.FromBig(amount)
		if err := transferFrom(ctx, state, v.collateral, v.address, from, v.address, collateral); err != nil {
			if isRevert(err) {
				return revert(core.ReasonCollateralTransferFailed)
			}
			return err
		}

		accrue(cdp, block.Time)
		cdp.CollateralAmount = cdp.CollateralAmount.Add(collateral)
		return state.CDPs().Save(ctx, cdp)
	})
}

func (v *Vault) StakeLender(ctx context.Context, from common.Address, amount *big.Int) (*core.TxResult, error) {
	return v.write(ctx, from, "stakeLender", []interface{}{amount}, func(state core.ChainState, block Block) error {
		if !positive(amount) {
			return revert(core.ReasonInvalidAmount)
		}

		stake := number.FromBig(amount)
		if err := transferFrom(ctx, state, v.debt, v.address, from, v.address, stake); err != nil {
			return err
		}

		position, err := state.Lenders().Find(ctx, v.address, from)
		if err != nil {
			return err
		}

		v.accrueLender(position, block.Time)
		if position.ID == 0 {
			position.Reputation = v.chain.cfg.Reputation
		}

		position.StakedAmount = position.StakedAmount.Add(stake)
		position.IsActive = true
		position.LastAccrual = block.Time
		return state.Lenders().Save(ctx, position)
	})
}

func (v *Vault) WithdrawLender(ctx context.Context, from common.Address, amount *big.Int) (*core.TxResult, error) {
	return v.write(ctx, from, "withdrawLender", []interface{}{amount}, func(state core.ChainState, block Block) error {
		if amount == nil || amount.Sign() < 0 || !number.FitsUint256(amount) {
			return revert(core.ReasonInvalidAmount)
		}

		position, err := state.Lenders().Find(ctx, v.address, from)
		if err != nil {
			return err
		}

		if !position.IsActive {
			return revert(core.ReasonNoLenderPosition)
		}

		v.accrueLender(position, block.Time)

		total := position.StakedAmount.Add(position.AccruedRewards)
		withdraw := number.FromBig(amount)
		if withdraw.IsZero() {
			withdraw = total
		}

		if withdraw.GreaterThan(total) {
			return revert(core.ReasonInsufficientStake)
		}

		liquidity, err := state.Ledger().Balance(ctx, v.debt, v.address)
		if err != nil {
			return err
		}

		if liquidity.LessThan(withdraw) {
			return revert(core.ReasonInsufficientLiquidity)
		}

		if err := transfer(ctx, state, v.debt, v.address, from, withdraw); err != nil {
			return err
		}

		// rewards go first
		fromRewards := decimal.Min(withdraw, position.AccruedRewards)
		position.AccruedRewards = position.AccruedRewards.Sub(fromRewards)
		position.StakedAmount = position.StakedAmount.Sub(withdraw.Sub(fromRewards))
		if !position.StakedAmount.IsPositive() && !position.AccruedRewards.IsPositive() {
			position.IsActive = false
		}

		return state.Lenders().Save(ctx, position)
	})
}

func (v *Vault) CompoundRewards(ctx context.Context, from common.Address) (*core.TxResult, error) {
	return v.write(ctx, from, "compoundRewards", nil, func(state core.ChainState, block Block) error {
		position, err := state.Lenders().Find(ctx, v.address, from)
		if err != nil {
			return err
		}

		if !position.IsActive {
			return revert(core.ReasonNoLenderPosition)
		}

		v.accrueLender(position, block.Time)
		position.StakedAmount = position.StakedAmount.Add(position.AccruedRewards)
		position.AccruedRewards = decimal.Zero
		return state.Lenders().Save(ctx, position)
	})
}

// views

func (v *Vault) findCDP(ctx context.Context, owner common.Address) (*core.CDP, error) {
	cdp, err := v.chain.store.View().CDPs().Find(ctx, v.address, owner)
	if err != nil {
		return nil, err
	}

	if !cdp.IsActive {
		return core.EmptyCDP(v.address, owner), nil
	}

	return cdp, nil
}

// GetCDPInfo inactive owners get the zeroed tuple
func (v *Vault) GetCDPInfo(ctx context.Context, owner common.Address) (*core.CDP, error) {
	return v.findCDP(ctx, owner)
}

func (v *Vault) GetLenderInfo(ctx context.Context, lender common.Address) (*core.LenderPosition, error) {
	position, err := v.chain.store.View().Lenders().Find(ctx, v.address, lender)
	if err != nil {
		return nil, err
	}

	v.accrueLender(position, v.chain.now())
	return position, nil
}

func (v *Vault) CalculateAccruedInterest(ctx context.Context, owner common.Address) (*big.Int, error) {
	cdp, err := v.findCDP(ctx, owner)
	if err != nil {
		return nil, err
	}

	accrue(cdp, v.chain.now())
	return number.ToBig(cdp.InterestAmount), nil
}

func (v *Vault) GetTotalDebtWithInterest(ctx context.Context, owner common.Address) (*big.Int, error) {
	cdp, err := v.findCDP(ctx, owner)
	if err != nil {
		return nil, err
	}

	accrue(cdp, v.chain.now())
	return number.ToBig(cdp.DebtAmount.Add(cdp.InterestAmount)), nil
}

func (v *Vault) GetHealthFactor(ctx context.Context, owner common.Address) (*big.Int, error) {
	cdp, err := v.findCDP(ctx, owner)
	if err != nil {
		return nil, err
	}

	accrue(cdp, v.chain.now())
	health := creditrust.HealthFactor(cdp.CollateralAmount, cdp.DebtAmount.Add(cdp.InterestAmount), v.minRatio())
	return number.ToBig(health), nil
}

func (v *Vault) MinCollateralRatio(ctx context.Context) (*big.Int, error) {
	return big.NewInt(v.chain.cfg.MinCollateralRatio), nil
}
