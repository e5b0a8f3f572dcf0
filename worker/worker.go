package worker

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/fox-one/pkg/logger"
	"github.com/robfig/cron/v3"
)

// Worker a background job the worker command runs until ctx is done
type Worker interface {
	Run(ctx context.Context) error
}

// OnWork one tick of a job
type OnWork func(ctx context.Context) error

// Checkpointer where jobs record progress, property.Store satisfies it
type Checkpointer interface {
	Save(ctx context.Context, key string, value interface{}) error
}

// BaseJob cron scheduled job. A tick is skipped while the previous one is
// still running.
type BaseJob struct {
	Name   string
	Cron   *cron.Cron
	OnWork OnWork

	spec    string
	running int32
}

// Schedule set up the cron of the job, location falls back to local time
func (job *BaseJob) Schedule(location, spec string, onWork OnWork) {
	l, err := time.LoadLocation(location)
	if err != nil {
		l = time.Local
	}

	job.Cron = cron.New(cron.WithLocation(l))
	job.spec = spec
	job.OnWork = onWork
}

// Tick run OnWork once unless a run is in progress
func (job *BaseJob) Tick(ctx context.Context) error {
	if !atomic.CompareAndSwapInt32(&job.running, 0, 1) {
		return nil
	}
	defer atomic.StoreInt32(&job.running, 0)

	log := logger.FromContext(ctx).WithField("worker", job.Name)
	if err := job.OnWork(logger.WithContext(ctx, log)); err != nil {
		log.WithError(err).Errorln("work")
		return err
	}

	return nil
}

// IsRunning a tick is in progress
func (job *BaseJob) IsRunning() bool {
	return atomic.LoadInt32(&job.running) == 1
}

// Run start the cron and block until ctx is done
func (job *BaseJob) Run(ctx context.Context) error {
	if _, err := job.Cron.AddFunc(job.spec, func() {
		_ = job.Tick(ctx)
	}); err != nil {
		return err
	}

	job.Cron.Start()
	<-ctx.Done()
	<-job.Cron.Stop().Done()
	return nil
}
