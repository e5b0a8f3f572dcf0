package confirmer

import (
	"context"
	"fmt"
	"testing"
	"time"

	"creditrust/core"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type unfinished struct {
	core.TransactionStore
	txs    []*core.Transaction
	before time.Time
}

func (s *unfinished) ListUnfinished(ctx context.Context, before time.Time, limit int) ([]*core.Transaction, error) {
	s.before = before
	return s.txs, nil
}

type resumer struct {
	core.OperationService
	resumed  []string
	inFlight map[string]bool
}

func (r *resumer) Resume(ctx context.Context, tx *core.Transaction) error {
	r.resumed = append(r.resumed, tx.TraceID)
	if r.inFlight[tx.TraceID] {
		return fmt.Errorf("%w: %s", core.ErrConfirmationTimeout, tx.TraceID)
	}

	tx.Status = core.TransactionStatusComplete
	return nil
}

func TestConfirmer(t *testing.T) {
	now := time.Unix(1700000000, 0)
	store := &unfinished{txs: []*core.Transaction{
		{TraceID: "a", Status: core.TransactionStatusPending},
		{TraceID: "b", Status: core.TransactionStatusApproving},
	}}
	ops := &resumer{}

	w := New("UTC", time.Minute, store, ops)
	w.clock = func() time.Time { return now }

	require.Nil(t, w.Tick(context.Background()))
	assert.Equal(t, []string{"a", "b"}, ops.resumed)
	assert.Equal(t, now.Add(-time.Minute), store.before)
	assert.True(t, store.txs[0].Finished())
}

func TestConfirmerSkipsInFlight(t *testing.T) {
	store := &unfinished{txs: []*core.Transaction{
		{TraceID: "a", Status: core.TransactionStatusPending},
		{TraceID: "b", Status: core.TransactionStatusPending},
	}}
	ops := &resumer{inFlight: map[string]bool{"a": true}}

	w := New("UTC", time.Minute, store, ops)

	require.Nil(t, w.Tick(context.Background()))
	assert.Equal(t, []string{"a", "b"}, ops.resumed)
	assert.Equal(t, core.TransactionStatusPending, store.txs[0].Status)
	assert.True(t, store.txs[1].Finished())
}
