package number

import (
	"math/big"
	"testing"

	"github.com/bmizerany/assert"
)

func TestCeil(t *testing.T) {
	data := map[string]string{
		"0.10304":     "0.11",
		"0.100000001": "0.11",
		"0.108":       "0.11",
	}

	for k, v := range data {
		t.Run(k, func(t *testing.T) {
			c := Ceil(Decimal(k), 2)
			assert.Equal(t, v, c.String(), "should be ceil")
		})
	}
}

func TestWei(t *testing.T) {
	data := map[string]string{
		"1":          "1000000000000000000",
		"1500":       "1500000000000000000000",
		"0.5":        "500000000000000000",
		"0.00000001": "10000000000",
	}

	for k, v := range data {
		t.Run(k, func(t *testing.T) {
			wei := ToWei(Decimal(k), 18)
			assert.Equal(t, v, wei.String())
			assert.Equal(t, k, FromWei(wei, 18).String())
		})
	}

	// below one unit is dropped
	assert.Equal(t, "0", ToWei(Decimal("0.0000000000000000001"), 18).String())
	assert.Equal(t, "0", FromWei(nil, 18).String())
}

func TestUint256(t *testing.T) {
	maxUint := new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 256), big.NewInt(1))

	assert.Equal(t, true, FitsUint256(big.NewInt(0)))
	assert.Equal(t, true, FitsUint256(maxUint))
	assert.Equal(t, false, FitsUint256(new(big.Int).Add(maxUint, big.NewInt(1))))
	assert.Equal(t, false, FitsUint256(big.NewInt(-1)))
	assert.Equal(t, false, FitsUint256(nil))

	u, err := Uint256(big.NewInt(42))
	assert.Equal(t, nil, err)
	assert.Equal(t, uint64(42), u.Uint64())
}
