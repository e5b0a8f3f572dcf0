package chainstate

import (
	"context"

	"creditrust/core"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
)

// writes through a view still run as their own atomic step

type viewCDPs struct {
	v *viewState
}

func (s *viewCDPs) Find(ctx context.Context, vault, owner common.Address) (*core.CDP, error) {
	s.v.store.mu.RLock()
	defer s.v.store.mu.RUnlock()
	return s.v.locked().CDPs().Find(ctx, vault, owner)
}

func (s *viewCDPs) Save(ctx context.Context, cdp *core.CDP) error {
	return s.v.store.Atomic(ctx, func(state core.ChainState) error {
		return state.CDPs().Save(ctx, cdp)
	})
}

func (s *viewCDPs) ListActive(ctx context.Context, vault common.Address) ([]*core.CDP, error) {
	s.v.store.mu.RLock()
	defer s.v.store.mu.RUnlock()
	return s.v.locked().CDPs().ListActive(ctx, vault)
}

type viewLenders struct {
	v *viewState
}

func (s *viewLenders) Find(ctx context.Context, vault, lender common.Address) (*core.LenderPosition, error) {
	s.v.store.mu.RLock()
	defer s.v.store.mu.RUnlock()
	return s.v.locked().Lenders().Find(ctx, vault, lender)
}

func (s *viewLenders) Save(ctx context.Context, position *core.LenderPosition) error {
	return s.v.store.Atomic(ctx, func(state core.ChainState) error {
		return state.Lenders().Save(ctx, position)
	})
}

func (s *viewLenders) ListActive(ctx context.Context, vault common.Address) ([]*core.LenderPosition, error) {
	s.v.store.mu.RLock()
	defer s.v.store.mu.RUnlock()
	return s.v.locked().Lenders().ListActive(ctx, vault)
}

type viewLedger struct {
	v *viewState
}

func (s *viewLedger) Balance(ctx context.Context, token, owner common.Address) (decimal.Decimal, error) {
	s.v.store.mu.RLock()
	defer s.v.store.mu.RUnlock()
	return s.v.locked().Ledger().Balance(ctx, token, owner)
}

func (s *viewLedger) SetBalance(ctx context.Context, token, owner common.Address, amount decimal.Decimal) error {
	return s.v.store.Atomic(ctx, func(state core.ChainState) error {
		return state.Ledger().SetBalance(ctx, token, owner, amount)
	})
}

func (s *viewLedger) Allowance(ctx context.Context, token, owner, spender common.Address) (decimal.Decimal, error) {
	s.v.store.mu.RLock()
	defer s.v.store.mu.RUnlock()
	return s.v.locked().Ledger().Allowance(ctx, token, owner, spender)
}

func (s *viewLedger) SetAllowance(ctx context.Context, token, owner, spender common.Address, amount decimal.Decimal) error {
	return s.v.store.Atomic(ctx, func(state core.ChainState) error {
		return state.Ledger().SetAllowance(ctx, token, owner, spender, amount)
	})
}

func (s *viewLedger) FindContract(ctx context.Context, address common.Address) (*core.Contract, error) {
	s.v.store.mu.RLock()
	defer s.v.store.mu.RUnlock()
	return s.v.locked().Ledger().FindContract(ctx, address)
}

func (s *viewLedger) CreateContract(ctx context.Context, contract *core.Contract) error {
	return s.v.store.Atomic(ctx, func(state core.ChainState) error {
		return state.Ledger().CreateContract(ctx, contract)
	})
}

func (s *viewLedger) ListContracts(ctx context.Context) ([]*core.Contract, error) {
	s.v.store.mu.RLock()
	defer s.v.store.mu.RUnlock()
	return s.v.locked().Ledger().ListContracts(ctx)
}
