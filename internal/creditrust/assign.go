package creditrust

import (
	"math/big"
	"sort"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/shopspring/decimal"
)

// Candidate a lender eligible for assignment
type Candidate struct {
	Address common.Address
	Stake   decimal.Decimal
}

// Randomness deterministic stand-in for the vrf word:
// keccak256(owner ‖ block ‖ seed)
func Randomness(owner common.Address, block uint64, seed string) *big.Int {
	b := new(big.Int).SetUint64(block)
	h := crypto.Keccak256(owner.Bytes(), common.LeftPadBytes(b.Bytes(), 32), []byte(seed))
	return new(big.Int).SetBytes(h)
}

// AssignLender stake weighted pick of a lender. Candidates are ordered by
// address first so the result only depends on the set and the randomness.
// Returns the zero address when nobody has stake.
func AssignLender(candidates []Candidate, randomness *big.Int) common.Address {
	list := make([]Candidate, 0, len(candidates))
	total := decimal.Zero
	for _, c := range candidates {
		if c.Stake.IsPositive() {
			list = append(list, c)
			total = total.Add(c.Stake)
		}
	}

	if len(list) == 0 {
		return common.Address{}
	}

	sort.Slice(list, func(i, j int) bool {
		return list[i].Address.Hex() < list[j].Address.Hex()
	})

	r := new(big.Int).Mod(randomness, total.BigInt())
	point := decimal.NewFromBigInt(r, 0)
	for _, c := range list {
		if point.LessThan(c.Stake) {
			return c.Address
		}
		point = point.Sub(c.Stake)
	}

	return list[len(list)-1].Address
}
