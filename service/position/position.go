package position

import (
	"context"
	"errors"
	"math/big"
	"time"

	"creditrust/core"
	"creditrust/pkg/number"

	"github.com/ethereum/go-ethereum/common"
	"github.com/fox-one/pkg/logger"
	"golang.org/x/sync/singleflight"
)

// New position reads against vault, falling back to cache when the vault
// cannot be reached
func New(vault core.Vault, cache core.PositionCache) core.PositionService {
	return &service{
		vault: vault,
		cache: cache,
		sf:    &singleflight.Group{},
		clock: time.Now,
	}
}

type service struct {
	vault core.Vault
	cache core.PositionCache
	sf    *singleflight.Group
	clock func() time.Time
}

// answered the vault replied, the reply is authoritative even if it is an error
func answered(err error) bool {
	var code core.ErrorCode
	return errors.As(err, &code)
}

func (s *service) readBorrowing(ctx context.Context, addr common.Address) (*core.BorrowingSnapshot, error) {
	cdp, err := s.vault.GetCDPInfo(ctx, addr)
	if err != nil {
		return nil, err
	}

	snapshot := &core.BorrowingSnapshot{
		CDP:       cdp,
		UpdatedAt: s.clock(),
	}

	if !cdp.IsActive {
		return snapshot, nil
	}

	reads := []struct {
		call func(context.Context, common.Address) (*big.Int, error)
		dst  *big.Int
	}{
		{s.vault.GetTotalDebtWithInterest, new(big.Int)},
		{s.vault.CalculateAccruedInterest, new(big.Int)},
		{s.vault.GetHealthFactor, new(big.Int)},
	}

	for _, r := range reads {
		v, err := r.call(ctx, addr)
		if err != nil {
			return nil, err
		}
		r.dst.Set(v)
	}

	snapshot.TotalDebtWithInterest = number.FromBig(reads[0].dst)
	snapshot.AccruedInterest = number.FromBig(reads[1].dst)
	snapshot.HealthFactor = number.FromBig(reads[2].dst)
	return snapshot, nil
}

func (s *service) Borrowing(ctx context.Context, addr common.Address) (*core.BorrowingSnapshot, bool, error) {
	v, err, _ := s.sf.Do(core.BorrowingLoansKey(addr), func() (interface{}, error) {
		snapshot, err := s.readBorrowing(ctx, addr)
		if err != nil {
			return nil, err
		}

		if err := s.cache.SaveBorrowing(ctx, addr, snapshot); err != nil {
			logger.FromContext(ctx).WithError(err).Warnln("cache borrowing")
		}

		return snapshot, nil
	})

	if err == nil {
		return v.(*core.BorrowingSnapshot), false, nil
	}

	if !answered(err) {
		if snapshot, ok := s.cache.Borrowing(ctx, addr); ok {
			logger.FromContext(ctx).WithError(err).Infoln("serving cached borrowing of", addr.Hex())
			return snapshot, true, nil
		}
	}

	return nil, false, err
}

func (s *service) Lending(ctx context.Context, addr common.Address) (*core.LendingSnapshot, bool, error) {
	v, err, _ := s.sf.Do(core.LendingPositionsKey(addr), func() (interface{}, error) {
		position, err := s.vault.GetLenderInfo(ctx, addr)
		if err != nil {
			return nil, err
		}

		snapshot := &core.LendingSnapshot{Position: position, UpdatedAt: s.clock()}
		if err := s.cache.SaveLending(ctx, addr, snapshot); err != nil {
			logger.FromContext(ctx).WithError(err).Warnln("cache lending")
		}

		return snapshot, nil
	})

	if err == nil {
		return v.(*core.LendingSnapshot), false, nil
	}

	if !answered(err) {
		if snapshot, ok := s.cache.Lending(ctx, addr); ok {
			logger.FromContext(ctx).WithError(err).Infoln("serving cached lending of", addr.Hex())
			return snapshot, true, nil
		}
	}

	return nil, false, err
}

func (s *service) View(ctx context.Context, addr common.Address) (*core.PositionView, error) {
	borrowing, staleBorrowing, err := s.Borrowing(ctx, addr)
	if err != nil {
		return nil, err
	}

	lending, staleLending, err := s.Lending(ctx, addr)
	if err != nil {
		return nil, err
	}

	view := &core.PositionView{
		Address: addr.Hex(),
		Stale:   staleBorrowing || staleLending,
	}

	if borrowing.CDP != nil && borrowing.CDP.IsActive {
		view.Borrowing = borrowing
	}

	if lending.Position != nil && lending.Position.IsActive {
		view.Lending = lending
	}

	return view, nil
}
