package syncer

import (
	"context"
	"sync/atomic"
	"time"

	"creditrust/core"
	"creditrust/worker"

	"github.com/ethereum/go-ethereum/common"
	"github.com/fox-one/pkg/logger"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

const checkpointKey = "position_sync_at"

// Syncer refreshes the position cache of every account that ever ran an
// operation
type Syncer struct {
	worker.BaseJob
	transactions core.TransactionStore
	positions    core.PositionService
	checkpoints  worker.Checkpointer
	parallel     int64
}

// New new sync worker
func New(
	location string,
	interval time.Duration,
	parallel int64,
	transactions core.TransactionStore,
	positions core.PositionService,
	checkpoints worker.Checkpointer,
) *Syncer {
	if parallel < 1 {
		parallel = 1
	}

	syncer := &Syncer{
		transactions: transactions,
		positions:    positions,
		checkpoints:  checkpoints,
		parallel:     parallel,
	}

	syncer.Name = "syncer"
	syncer.Schedule(location, "@every "+interval.String(), syncer.onWork)
	return syncer
}

func (w *Syncer) onWork(ctx context.Context) error {
	log := logger.FromContext(ctx)

	accounts, err := w.transactions.Accounts(ctx)
	if err != nil {
		log.WithError(err).Errorln("transactions.Accounts")
		return err
	}

	sem := semaphore.NewWeighted(w.parallel)
	g, gctx := errgroup.WithContext(ctx)

	var stale int64
	for _, account := range accounts {
		if !common.IsHexAddress(account) {
			continue
		}

		addr := common.HexToAddress(account)
		if err := sem.Acquire(gctx, 1); err != nil {
			break
		}

		g.Go(func() error {
			defer sem.Release(1)

			view, err := w.positions.View(gctx, addr)
			if err != nil {
				// one unreachable account does not stop the others
				log.WithError(err).Warnln("positions.View", addr.Hex())
				return nil
			}

			if view.Stale {
				atomic.AddInt64(&stale, 1)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	if err := w.checkpoints.Save(ctx, checkpointKey, time.Now()); err != nil {
		log.WithError(err).Errorln("property.Save", checkpointKey)
		return err
	}

	log.Debugln("synced", len(accounts), "accounts,", atomic.LoadInt64(&stale), "served from cache")
	return nil
}
