package creditrust

import (
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/shopspring/decimal"
)

var (
	// BasisPoints 100%
	BasisPoints = decimal.NewFromInt(10000)
	// WAD 1e18, scale of health factors and token amounts
	WAD = decimal.New(1, 18)
	// MaxUint256 returned for ratios with zero debt
	MaxUint256 = decimal.NewFromBigInt(math.MaxBig256, 0)
	// SecondsPerYear simple interest year
	SecondsPerYear int64 = 365 * 24 * 3600
)

func quo(a, b decimal.Decimal) decimal.Decimal {
	q, _ := a.QuoRem(b, 0)
	return q
}

// CollateralRatio collateral / debt in basis points
// ratio = collateral * 10000 / debt
func CollateralRatio(collateral, debt decimal.Decimal) decimal.Decimal {
	if !debt.IsPositive() {
		return MaxUint256
	}

	return quo(collateral.Mul(BasisPoints), debt)
}

// CheckCollateralRatio collateral * 10000 / debt >= minRatio, compared
// without division so no rounding lets a position slip under the minimum
func CheckCollateralRatio(collateral, debt, minRatio decimal.Decimal) bool {
	if !debt.IsPositive() {
		return true
	}

	return collateral.Mul(BasisPoints).GreaterThanOrEqual(debt.Mul(minRatio))
}

// HealthFactor 1e18 scaled, 1e18 means the position sits exactly at minRatio
// health = collateral * 1e18 * 10000 / (debt * minRatio)
func HealthFactor(collateral, debt, minRatio decimal.Decimal) decimal.Decimal {
	if !debt.IsPositive() || !minRatio.IsPositive() {
		return MaxUint256
	}

	return quo(collateral.Mul(WAD).Mul(BasisPoints), debt.Mul(minRatio))
}

// MaxBorrow largest additional debt that keeps the ratio at minRatio
func MaxBorrow(collateral, debt, minRatio decimal.Decimal) decimal.Decimal {
	if !minRatio.IsPositive() {
		return decimal.Zero
	}

	limit := quo(collateral.Mul(BasisPoints), minRatio)
	if limit.LessThanOrEqual(debt) {
		return decimal.Zero
	}

	return limit.Sub(debt)
}

// AccruedInterest simple interest on principal over elapsed seconds
// interest = principal * apr * elapsed / (10000 * seconds_per_year)
func AccruedInterest(principal decimal.Decimal, aprBps, elapsed int64) decimal.Decimal {
	if elapsed <= 0 || aprBps <= 0 || !principal.IsPositive() {
		return decimal.Zero
	}

	num := principal.Mul(decimal.NewFromInt(aprBps)).Mul(decimal.NewFromInt(elapsed))
	den := BasisPoints.Mul(decimal.NewFromInt(SecondsPerYear))
	return quo(num, den)
}

// LenderRewards base staking reward over elapsed seconds
func LenderRewards(stake decimal.Decimal, rateBps, elapsed int64) decimal.Decimal {
	return AccruedInterest(stake, rateBps, elapsed)
}

// SplitRepayment split a repayment into its interest and principal parts,
// interest first. The payment is capped at what is owed.
func SplitRepayment(amount, interest, principal decimal.Decimal) (toInterest, toPrincipal decimal.Decimal) {
	owed := interest.Add(principal)
	pay := decimal.Min(amount, owed)
	if !pay.IsPositive() {
		return decimal.Zero, decimal.Zero
	}

	toInterest = decimal.Min(pay, interest)
	toPrincipal = pay.Sub(toInterest)
	return
}
