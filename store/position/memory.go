package position

import (
	"context"
	"time"

	"creditrust/core"

	"github.com/bluele/gcache"
	"github.com/ethereum/go-ethereum/common"
)

// Memory in-process position cache, entries expire after ttl
func Memory(size int, ttl time.Duration) core.PositionCache {
	return &memoryCache{
		cache: gcache.New(size).LRU().Expiration(ttl).Build(),
	}
}

type memoryCache struct {
	cache gcache.Cache
}

func (s *memoryCache) Borrowing(ctx context.Context, addr common.Address) (*core.BorrowingSnapshot, bool) {
	v, err := s.cache.Get(core.BorrowingLoansKey(addr))
	if err != nil {
		return nil, false
	}

	snapshot, ok := v.(*core.BorrowingSnapshot)
	return snapshot, ok
}

func (s *memoryCache) SaveBorrowing(ctx context.Context, addr common.Address, snapshot *core.BorrowingSnapshot) error {
	return s.cache.Set(core.BorrowingLoansKey(addr), snapshot)
}

func (s *memoryCache) Lending(ctx context.Context, addr common.Address) (*core.LendingSnapshot, bool) {
	v, err := s.cache.Get(core.LendingPositionsKey(addr))
	if err != nil {
		return nil, false
	}

	snapshot, ok := v.(*core.LendingSnapshot)
	return snapshot, ok
}

func (s *memoryCache) SaveLending(ctx context.Context, addr common.Address, snapshot *core.LendingSnapshot) error {
	return s.cache.Set(core.LendingPositionsKey(addr), snapshot)
}
