package cmd

import (
	"sync"
	"time"

	"creditrust/worker"
	"creditrust/worker/confirmer"
	"creditrust/worker/monitor"
	"creditrust/worker/syncer"

	"github.com/drone/signal"
	"github.com/fox-one/pkg/logger"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "creditrust job worker",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := signal.WithContext(cmd.Context())
		log := logger.FromContext(ctx)
		ctx = logger.WithContext(ctx, log)

		a, err := provideApp(ctx)
		if err != nil {
			logrus.WithError(err).Fatal("provide app")
		}

		propertyStore := providePropertyStore(a.db)

		interval, _ := cmd.Flags().GetDuration("sync.interval")
		parallel, _ := cmd.Flags().GetInt64("sync.parallel")
		grace, _ := cmd.Flags().GetDuration("confirm.grace")

		workers := []worker.Worker{
			syncer.New(cfg.App.Location, interval, parallel, a.transactions, a.positions, propertyStore),
			confirmer.New(cfg.App.Location, grace, a.transactions, a.operations),
			monitor.New(cfg.App.Location, a.transactions, a.backend.vault, propertyStore),
		}

		wg := sync.WaitGroup{}
		for _, w := range workers {
			wg.Add(1)

			go func(worker worker.Worker) {
				defer wg.Done()
				if err := worker.Run(ctx); err != nil {
					log.WithError(err).Errorln("worker stopped")
				}
			}(w)
		}

		wg.Wait()
	},
}

func init() {
	rootCmd.AddCommand(workerCmd)

	workerCmd.Flags().Duration("sync.interval", time.Minute, "position sync interval")
	workerCmd.Flags().Int64("sync.parallel", 4, "accounts synced in parallel")
	workerCmd.Flags().Duration("confirm.grace", 30*time.Second, "age of an unfinished transaction before it is resumed")
}
