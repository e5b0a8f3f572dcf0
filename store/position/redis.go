package position

import (
	"context"
	"encoding/json"
	"time"

	"creditrust/core"

	"github.com/ethereum/go-ethereum/common"
	"github.com/fox-one/pkg/logger"
	"github.com/redis/go-redis/v9"
)

// Redis position cache shared by every server and worker process
func Redis(client *redis.Client, prefix string, ttl time.Duration) core.PositionCache {
	return &redisCache{
		client: client,
		prefix: prefix,
		ttl:    ttl,
	}
}

type redisCache struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

func (s *redisCache) get(ctx context.Context, key string, v interface{}) bool {
	data, err := s.client.Get(ctx, s.prefix+key).Bytes()
	if err != nil {
		if err != redis.Nil {
			logger.FromContext(ctx).WithError(err).Warnln("redis: get", key)
		}
		return false
	}

	if err := json.Unmarshal(data, v); err != nil {
		logger.FromContext(ctx).WithError(err).Warnln("redis: decode", key)
		return false
	}

	return true
}

func (s *redisCache) set(ctx context.Context, key string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}

	return s.client.Set(ctx, s.prefix+key, data, s.ttl).Err()
}

func (s *redisCache) Borrowing(ctx context.Context, addr common.Address) (*core.BorrowingSnapshot, bool) {
	var snapshot core.BorrowingSnapshot
	if !s.get(ctx, core.BorrowingLoansKey(addr), &snapshot) {
		return nil, false
	}

	return &snapshot, true
}

func (s *redisCache) SaveBorrowing(ctx context.Context, addr common.Address, snapshot *core.BorrowingSnapshot) error {
	return s.set(ctx, core.BorrowingLoansKey(addr), snapshot)
}

func (s *redisCache) Lending(ctx context.Context, addr common.Address) (*core.LendingSnapshot, bool) {
	var snapshot core.LendingSnapshot
	if !s.get(ctx, core.LendingPositionsKey(addr), &snapshot) {
		return nil, false
	}

	return &snapshot, true
}

func (s *redisCache) SaveLending(ctx context.Context, addr common.Address, snapshot *core.LendingSnapshot) error {
	return s.set(ctx, core.LendingPositionsKey(addr), snapshot)
}
