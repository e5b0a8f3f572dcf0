package creditrust

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func d(v string) decimal.Decimal {
	return decimal.RequireFromString(v)
}

func TestCollateralRatio(t *testing.T) {
	assert.Equal(t, "15000", CollateralRatio(d("1500"), d("1000")).String())
	assert.Equal(t, "13333", CollateralRatio(d("4000"), d("3000")).String())
	assert.True(t, CollateralRatio(d("1"), decimal.Zero).Equal(MaxUint256))
}

func TestCheckCollateralRatio(t *testing.T) {
	minRatio := d("12000")

	cases := []struct {
		collateral, debt string
		ok               bool
	}{
		{"1200", "1000", true},
		{"1199", "1000", false},
		{"1000", "0", true},
		{"0", "1", false},
		{"1200000000000000000000", "1000000000000000000000", true},
		{"1200000000000000000000", "1000000000000000000001", false},
	}

	for _, c := range cases {
		assert.Equal(t, c.ok, CheckCollateralRatio(d(c.collateral), d(c.debt), minRatio), "%s/%s", c.collateral, c.debt)
	}
}

func TestHealthFactor(t *testing.T) {
	minRatio := d("12000")
	assert.Equal(t, WAD.String(), HealthFactor(d("1200"), d("1000"), minRatio).String())
	assert.Equal(t, "2000000000000000000", HealthFactor(d("2400"), d("1000"), minRatio).String())
	assert.True(t, HealthFactor(d("1"), decimal.Zero, minRatio).Equal(MaxUint256))
	assert.True(t, HealthFactor(d("1000"), d("1000"), minRatio).LessThan(WAD))
}

func TestMaxBorrow(t *testing.T) {
	minRatio := d("12000")
	assert.Equal(t, "1000", MaxBorrow(d("1200"), decimal.Zero, minRatio).String())
	assert.Equal(t, "400", MaxBorrow(d("1200"), d("600"), minRatio).String())
	assert.True(t, MaxBorrow(d("1200"), d("1000"), minRatio).IsZero())
	assert.True(t, MaxBorrow(d("1200"), d("2000"), minRatio).IsZero())
}

func TestAccruedInterest(t *testing.T) {
	principal := d("1000000000000000000000")

	// 12% for a full year
	assert.Equal(t, "120000000000000000000", AccruedInterest(principal, 1200, SecondsPerYear).String())
	// half a year
	assert.Equal(t, "60000000000000000000", AccruedInterest(principal, 1200, SecondsPerYear/2).String())
	assert.True(t, AccruedInterest(principal, 1200, 0).IsZero())
	assert.True(t, AccruedInterest(principal, 0, 100).IsZero())
	assert.True(t, AccruedInterest(decimal.Zero, 1200, 100).IsZero())
	// truncated, never rounded up
	assert.True(t, AccruedInterest(d("1"), 1200, 1).IsZero())
}

func TestSplitRepayment(t *testing.T) {
	i, p := SplitRepayment(d("50"), d("10"), d("100"))
	assert.Equal(t, "10", i.String())
	assert.Equal(t, "40", p.String())

	i, p = SplitRepayment(d("5"), d("10"), d("100"))
	assert.Equal(t, "5", i.String())
	assert.True(t, p.IsZero())

	// capped at the amount owed
	i, p = SplitRepayment(d("500"), d("10"), d("100"))
	assert.Equal(t, "10", i.String())
	assert.Equal(t, "100", p.String())

	i, p = SplitRepayment(decimal.Zero, d("10"), d("100"))
	assert.True(t, i.IsZero())
	assert.True(t, p.IsZero())
}

func TestAPRForCreditScore(t *testing.T) {
	cases := map[int64]int64{
		850: 500,
		750: 500,
		749: 800,
		700: 800,
		650: 1200,
		600: 1600,
		300: 2000,
	}

	for score, apr := range cases {
		got, ok := APRForCreditScore(score)
		assert.True(t, ok, score)
		assert.Equal(t, apr, got, score)
	}

	for _, score := range []int64{0, 299, 851, -1} {
		_, ok := APRForCreditScore(score)
		assert.False(t, ok, score)
	}
}

func TestAssignLender(t *testing.T) {
	a := common.HexToAddress("0x1000000000000000000000000000000000000001")
	b := common.HexToAddress("0x2000000000000000000000000000000000000002")

	assert.Equal(t, common.Address{}, AssignLender(nil, Randomness(a, 1, "")))
	assert.Equal(t, common.Address{}, AssignLender([]Candidate{{Address: a, Stake: decimal.Zero}}, Randomness(a, 1, "")))

	candidates := []Candidate{
		{Address: b, Stake: d("300")},
		{Address: a, Stake: d("100")},
	}

	// a owns [0,100), b owns [100,400)
	assert.Equal(t, a, AssignLender(candidates, decimalBig("0")))
	assert.Equal(t, a, AssignLender(candidates, decimalBig("99")))
	assert.Equal(t, b, AssignLender(candidates, decimalBig("100")))
	assert.Equal(t, b, AssignLender(candidates, decimalBig("399")))
	assert.Equal(t, a, AssignLender(candidates, decimalBig("400")))

	// same inputs, same lender
	r := Randomness(a, 42, "seed")
	assert.Equal(t, AssignLender(candidates, r), AssignLender(candidates, Randomness(a, 42, "seed")))
}

func TestRandomness(t *testing.T) {
	a := common.HexToAddress("0x1000000000000000000000000000000000000001")
	assert.Equal(t, 0, Randomness(a, 1, "x").Cmp(Randomness(a, 1, "x")))
	assert.NotEqual(t, 0, Randomness(a, 1, "x").Cmp(Randomness(a, 2, "x")))
	assert.NotEqual(t, 0, Randomness(a, 1, "x").Cmp(Randomness(a, 1, "y")))
}

func decimalBig(v string) *big.Int {
	return d(v).BigInt()
}
