package confirmer

import (
	"context"
	"errors"
	"time"

	"creditrust/core"
	"creditrust/worker"

	"github.com/fox-one/pkg/logger"
)

// Confirmer drives transactions a crashed process left unfinished
type Confirmer struct {
	worker.BaseJob
	transactions core.TransactionStore
	operations   core.OperationService
	// only pick up transactions idle for longer than grace, a live
	// sequencer may still own younger ones
	grace time.Duration
	clock func() time.Time
}

// New new confirmer worker
func New(
	location string,
	grace time.Duration,
	transactions core.TransactionStore,
	operations core.OperationService,
) *Confirmer {
	confirmer := &Confirmer{
		transactions: transactions,
		operations:   operations,
		grace:        grace,
		clock:        time.Now,
	}

	confirmer.Name = "confirmer"
	confirmer.Schedule(location, "@every 10s", confirmer.onWork)
	return confirmer
}

func (w *Confirmer) onWork(ctx context.Context) error {
	log := logger.FromContext(ctx)

	const limit = 100
	txs, err := w.transactions.ListUnfinished(ctx, w.clock().Add(-w.grace), limit)
	if err != nil {
		log.WithError(err).Errorln("transactions.ListUnfinished")
		return err
	}

	for _, tx := range txs {
		if err := w.operations.Resume(ctx, tx); err != nil {
			if errors.Is(err, core.ErrConfirmationTimeout) {
				log.Infoln("still in flight", tx.TraceID)
				continue
			}

			log.WithError(err).Errorln("resume", tx.TraceID)
			return err
		}

		log.Infoln("resumed", tx.TraceID, "->", tx.Status)
	}

	return nil
}
