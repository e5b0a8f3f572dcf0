package core

import (
	"context"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
)

// cache key prefixes, kept from the dashboard's localStorage layout
const (
	LendingPositionsKeyPrefix = "lendingPositions_"
	BorrowingLoansKeyPrefix   = "borrowingLoans_"
)

// LendingPositionsKey cache key of a lender snapshot
func LendingPositionsKey(addr common.Address) string {
	return LendingPositionsKeyPrefix + addr.Hex()
}

// BorrowingLoansKey cache key of a borrower snapshot
func BorrowingLoansKey(addr common.Address) string {
	return BorrowingLoansKeyPrefix + addr.Hex()
}

// BorrowingSnapshot cached view of a cdp
type BorrowingSnapshot struct {
	CDP                   *CDP            `json:"cdp"`
	TotalDebtWithInterest decimal.Decimal `json:"total_debt_with_interest"`
	AccruedInterest       decimal.Decimal `json:"accrued_interest"`
	HealthFactor          decimal.Decimal `json:"health_factor"`
	UpdatedAt             time.Time       `json:"updated_at"`
}

// LendingSnapshot cached view of a lender position
type LendingSnapshot struct {
	Position  *LenderPosition `json:"position"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// PositionCache advisory cache of position reads. Entries never override a
// live read, they only fill in when the vault cannot be reached.
type PositionCache interface {
	Borrowing(ctx context.Context, addr common.Address) (*BorrowingSnapshot, bool)
	SaveBorrowing(ctx context.Context, addr common.Address, snapshot *BorrowingSnapshot) error
	Lending(ctx context.Context, addr common.Address) (*LendingSnapshot, bool)
	SaveLending(ctx context.Context, addr common.Address, snapshot *LendingSnapshot) error
}

// PositionView a position read, Stale when served from cache
type PositionView struct {
	Address   string             `json:"address"`
	Borrowing *BorrowingSnapshot `json:"borrowing,omitempty"`
	Lending   *LendingSnapshot   `json:"lending,omitempty"`
	Stale     bool               `json:"stale"`
}

// PositionService live position reads with cache fallback
type PositionService interface {
	Borrowing(ctx context.Context, addr common.Address) (*BorrowingSnapshot, bool, error)
	Lending(ctx context.Context, addr common.Address) (*LendingSnapshot, bool, error)
	View(ctx context.Context, addr common.Address) (*PositionView, error)
}
