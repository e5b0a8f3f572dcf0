package number

import (
	"errors"
	"math/big"

	"github.com/holiman/uint256"
	"github.com/shopspring/decimal"
)

// ErrOverflow value does not fit in a uint256
var ErrOverflow = errors.New("number: value out of uint256 range")

func Decimal(v string) decimal.Decimal {
	d, _ := decimal.NewFromString(v)
	return d
}

func Ceil(d decimal.Decimal, precision int32) decimal.Decimal {
	return d.Shift(precision).Ceil().Shift(-precision)
}

// FromWei integer token units to a human amount
func FromWei(v *big.Int, decimals int32) decimal.Decimal {
	if v == nil {
		return decimal.Zero
	}

	return decimal.NewFromBigInt(v, -decimals)
}

// ToWei human amount to integer token units, truncating extra precision
func ToWei(d decimal.Decimal, decimals int32) *big.Int {
	return d.Shift(decimals).Truncate(0).BigInt()
}

// FromBig integer units as decimal
func FromBig(v *big.Int) decimal.Decimal {
	if v == nil {
		return decimal.Zero
	}

	return decimal.NewFromBigInt(v, 0)
}

// ToBig integer part of d
func ToBig(d decimal.Decimal) *big.Int {
	return d.Truncate(0).BigInt()
}

// Uint256 checked conversion to a uint256 abi value
func Uint256(v *big.Int) (*uint256.Int, error) {
	if v == nil || v.Sign() < 0 {
		return nil, ErrOverflow
	}

	u, overflow := uint256.FromBig(v)
	if overflow {
		return nil, ErrOverflow
	}

	return u, nil
}

// FitsUint256 v is a valid uint256
func FitsUint256(v *big.Int) bool {
	_, err := Uint256(v)
	return err == nil
}
