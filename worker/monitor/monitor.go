package monitor

import (
	"context"
	"sync"
	"time"

	"creditrust/core"
	"creditrust/internal/creditrust"
	"creditrust/pkg/concurrency"
	"creditrust/pkg/number"
	"creditrust/worker"

	"github.com/ethereum/go-ethereum/common"
	"github.com/fox-one/pkg/logger"
	"github.com/prometheus/client_golang/prometheus"
)

const checkpointKey = "monitor_checkpoint"

var (
	unhealthyGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "creditrust",
		Subsystem: "monitor",
		Name:      "unhealthy_positions",
		Help:      "tracked cdps with health factor below 1",
	})

	overdueGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "creditrust",
		Subsystem: "monitor",
		Name:      "overdue_positions",
		Help:      "tracked cdps with debt past their due date",
	})
)

func init() {
	prometheus.MustRegister(unhealthyGauge, overdueGauge)
}

// Report result of one monitor pass
type Report struct {
	Checked   int
	Unhealthy []common.Address
	Overdue   []common.Address
}

// Monitor watches health factors and due dates of tracked cdps
type Monitor struct {
	worker.BaseJob
	transactions core.TransactionStore
	vault        core.Vault
	checkpoints  worker.Checkpointer
	limit        *concurrency.GoLimit
	clock        func() time.Time
}

// New new monitor worker
func New(
	location string,
	transactions core.TransactionStore,
	vault core.Vault,
	checkpoints worker.Checkpointer,
) *Monitor {
	m := &Monitor{
		transactions: transactions,
		vault:        vault,
		checkpoints:  checkpoints,
		limit:        concurrency.NewGoLimit(8),
		clock:        time.Now,
	}

	m.Name = "monitor"
	m.Schedule(location, "@every 1m", func(ctx context.Context) error {
		_, err := m.Check(ctx)
		return err
	})

	return m
}

// Check one pass over every tracked account
func (w *Monitor) Check(ctx context.Context) (*Report, error) {
	log := logger.FromContext(ctx)

	accounts, err := w.transactions.Accounts(ctx)
	if err != nil {
		log.WithError(err).Errorln("transactions.Accounts")
		return nil, err
	}

	var (
		mu     sync.Mutex
		report Report
		now    = w.clock().Unix()
	)

	fns := make([]func(), 0, len(accounts))
	for _, account := range accounts {
		if !common.IsHexAddress(account) {
			continue
		}

		owner := common.HexToAddress(account)
		fns = append(fns, func() {
			cdp, err := w.vault.GetCDPInfo(ctx, owner)
			if err != nil {
				log.WithError(err).Warnln("GetCDPInfo", owner.Hex())
				return
			}

			if !cdp.IsActive {
				return
			}

			v, err := w.vault.GetHealthFactor(ctx, owner)
			if err != nil {
				log.WithError(err).Warnln("GetHealthFactor", owner.Hex())
				return
			}
			health := number.FromBig(v)

			mu.Lock()
			defer mu.Unlock()

			report.Checked++
			if health.LessThan(creditrust.WAD) {
				report.Unhealthy = append(report.Unhealthy, owner)
				log.WithField("health", health.Div(creditrust.WAD).StringFixed(4)).
					Warnln("cdp below minimum collateral ratio", owner.Hex())
			}

			if cdp.DueDate > 0 && cdp.DueDate < now && cdp.DebtAmount.IsPositive() {
				report.Overdue = append(report.Overdue, owner)
				log.WithField("due", time.Unix(cdp.DueDate, 0).UTC()).Warnln("cdp past due", owner.Hex())
			}
		})
	}

	concurrency.Await(w.limit, fns...)

	unhealthyGauge.Set(float64(len(report.Unhealthy)))
	overdueGauge.Set(float64(len(report.Overdue)))

	if err := w.checkpoints.Save(ctx, checkpointKey, w.clock()); err != nil {
		log.WithError(err).Errorln("property.Save", checkpointKey)
		return nil, err
	}

	return &report, nil
}
