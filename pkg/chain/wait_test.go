package chain

import (
	"context"
	"errors"
	"math/big"
	"testing"
	"time"

	"creditrust/core"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeNode struct {
	// receipt shows up on this poll, 0 never
	minedAt int
	status  uint64
	block   uint64
	head    uint64
	polls   int
}

func (n *fakeNode) TransactionReceipt(ctx context.Context, hash common.Hash) (*types.Receipt, error) {
	n.polls++
	if n.minedAt == 0 || n.polls < n.minedAt {
		return nil, ethereum.NotFound
	}

	// one block per poll once mined
	n.head++
	return &types.Receipt{
		TxHash:      hash,
		Status:      n.status,
		BlockNumber: new(big.Int).SetUint64(n.block),
	}, nil
}

func (n *fakeNode) BlockNumber(ctx context.Context) (uint64, error) {
	return n.head, nil
}

func fastPolicy(polls int) Policy {
	return Policy{
		Interval:    time.Millisecond,
		MaxInterval: 2 * time.Millisecond,
		MaxPolls:    polls,
	}
}

func TestWaitMined(t *testing.T) {
	node := &fakeNode{minedAt: 3, status: types.ReceiptStatusSuccessful, block: 7, head: 6}
	hash := common.HexToHash("0xabc")

	receipt, err := WaitMined(context.Background(), node, hash, fastPolicy(5))
	require.Nil(t, err)
	assert.Equal(t, hash, receipt.TxHash)
	assert.Equal(t, 3, node.polls)
}

func TestWaitMinedTimeout(t *testing.T) {
	node := &fakeNode{}

	_, err := WaitMined(context.Background(), node, common.HexToHash("0xabc"), fastPolicy(4))
	assert.True(t, errors.Is(err, core.ErrConfirmationTimeout))
	assert.Equal(t, 4, node.polls)
}

func TestWaitMinedReverted(t *testing.T) {
	node := &fakeNode{minedAt: 1, status: types.ReceiptStatusFailed, block: 7}

	_, err := WaitMined(context.Background(), node, common.HexToHash("0xabc"), fastPolicy(5))
	assert.Equal(t, core.ErrTransactionReverted, core.CodeOf(err))
	// reverts are final, no more polling
	assert.Equal(t, 1, node.polls)
}

func TestWaitMinedConfirmations(t *testing.T) {
	node := &fakeNode{minedAt: 1, status: types.ReceiptStatusSuccessful, block: 10, head: 9}
	policy := fastPolicy(10)
	policy.Confirmations = 3

	// head moves 10, 11, 12
	_, err := WaitMined(context.Background(), node, common.HexToHash("0xabc"), policy)
	require.Nil(t, err)
	assert.Equal(t, 3, node.polls)
}

func TestWaitMinedCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := WaitMined(ctx, &fakeNode{}, common.HexToHash("0xabc"), fastPolicy(100))
	assert.NotNil(t, err)
}
