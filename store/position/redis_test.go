package position

import (
	"context"
	"os"
	"testing"
	"time"

	"creditrust/core"

	"github.com/ethereum/go-ethereum/common"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupRedis a cache on CREDITRUST_TEST_REDIS_ADDR under a fresh prefix
func setupRedis(t *testing.T) core.PositionCache {
	t.Helper()

	addr := os.Getenv("CREDITRUST_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("CREDITRUST_TEST_REDIS_ADDR not set")
	}

	client := redis.NewClient(&redis.Options{Addr: addr})
	t.Cleanup(func() { _ = client.Close() })

	ctx := context.Background()
	require.Nil(t, client.Ping(ctx).Err())

	prefix := "creditrust-test:" + time.Now().Format("150405.000000") + ":"
	t.Cleanup(func() {
		keys, _ := client.Keys(ctx, prefix+"*").Result()
		if len(keys) > 0 {
			_ = client.Del(ctx, keys...).Err()
		}
	})

	return Redis(client, prefix, time.Minute)
}

func TestRedisCache(t *testing.T) {
	ctx := context.Background()
	cache := setupRedis(t)
	addr := common.HexToAddress("0x70997970C51812dc3A010C7d01b50e0d17dc79C8")

	_, ok := cache.Borrowing(ctx, addr)
	assert.False(t, ok)

	borrowing := &core.BorrowingSnapshot{
		CDP:                   &core.CDP{Owner: addr.Hex(), IsActive: true},
		TotalDebtWithInterest: decimal.RequireFromString("420.000000000000000001"),
	}
	require.Nil(t, cache.SaveBorrowing(ctx, addr, borrowing))

	got, ok := cache.Borrowing(ctx, addr)
	require.True(t, ok)
	assert.Equal(t, addr.Hex(), got.CDP.Owner)
	assert.Equal(t, "420.000000000000000001", got.TotalDebtWithInterest.String())

	_, ok = cache.Lending(ctx, addr)
	assert.False(t, ok)

	lending := &core.LendingSnapshot{Position: &core.LenderPosition{Lender: addr.Hex(), IsActive: true}}
	require.Nil(t, cache.SaveLending(ctx, addr, lending))

	gotLending, ok := cache.Lending(ctx, addr)
	require.True(t, ok)
	assert.True(t, gotLending.Position.IsActive)
}

func TestRedisCacheUnreachable(t *testing.T) {
	ctx := context.Background()
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer client.Close()

	cache := Redis(client, "creditrust:", time.Minute)
	addr := common.HexToAddress("0x70997970C51812dc3A010C7d01b50e0d17dc79C8")

	// a down redis reads as a miss, saves report the error
	_, ok := cache.Borrowing(ctx, addr)
	assert.False(t, ok)
	assert.NotNil(t, cache.SaveLending(ctx, addr, &core.LendingSnapshot{}))
}
