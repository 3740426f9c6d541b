// Package scheduler runs the service's periodic maintenance jobs with
// gocron v2.
package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"

	"github.com/customerly-inc/customerly/internal/shared/biztime"
	"github.com/customerly-inc/customerly/internal/shared/logger"
)

const (
	JobSLAScan     = "sla-overdue-scan"
	JobOrphanSweep = "attachment-orphan-sweep"
)

// BatchJob processes one batch as of now and reports how many items it
// touched.
type BatchJob interface {
	Execute(ctx context.Context, now time.Time) (int, error)
}

// JobObserver records job outcomes. *metrics.Metrics satisfies it.
type JobObserver interface {
	JobRun(job string, err error)
}

// SchedulerManager owns a single gocron scheduler for every job.
type SchedulerManager struct {
	scheduler gocron.Scheduler
	observer  JobObserver
	logger    logger.Interface

	started   bool
	startedMu sync.RWMutex
}

// NewSchedulerManager creates a scheduler in the business timezone.
func NewSchedulerManager(observer JobObserver, log logger.Interface) (*SchedulerManager, error) {
	scheduler, err := gocron.NewScheduler(
		gocron.WithLocation(biztime.Location()),
	)
	if err != nil {
		return nil, err
	}

	return &SchedulerManager{
		scheduler: scheduler,
		observer:  observer,
		logger:    log,
	}, nil
}

// RegisterSLAScanJob logs and counts tickets past their first-response
// deadline.
func (m *SchedulerManager) RegisterSLAScanJob(job BatchJob, interval time.Duration) error {
	return m.register(JobSLAScan, job, interval, []string{"sla", "tickets"})
}

// RegisterOrphanSweepJob removes staged uploads that never joined a
// message.
func (m *SchedulerManager) RegisterOrphanSweepJob(job BatchJob, interval time.Duration) error {
	return m.register(JobOrphanSweep, job, interval, []string{"attachments", "cleanup"})
}

func (m *SchedulerManager) register(name string, job BatchJob, interval time.Duration, tags []string) error {
	timeout := interval
	if timeout > 10*time.Minute {
		timeout = 10 * time.Minute
	}

	_, err := m.scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() {
			ctx, cancel := context.WithTimeout(context.Background(), timeout)
			defer cancel()
			m.run(ctx, name, job)
		}),
		gocron.WithStartAt(gocron.WithStartImmediately()),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithTags(tags...),
		gocron.WithName(name),
	)
	if err != nil {
		return err
	}

	m.logger.Infow("registered scheduled job", "job", name, "interval", interval)
	return nil
}

func (m *SchedulerManager) run(ctx context.Context, name string, job BatchJob) {
	m.logger.Debugw("scheduled job started", "job", name)

	startTime := biztime.NowUTC()
	count, err := job.Execute(ctx, startTime)
	if m.observer != nil {
		m.observer.JobRun(name, err)
	}
	if err != nil {
		// cancelled by shutdown
		if ctx.Err() != nil {
			return
		}
		m.logger.Errorw("scheduled job failed",
			"job", name,
			"error", err,
			"duration", time.Since(startTime),
		)
		return
	}

	m.logger.Debugw("scheduled job completed",
		"job", name,
		"count", count,
		"duration", time.Since(startTime),
	)
}

// Start starts the scheduler and all registered jobs.
func (m *SchedulerManager) Start() {
	m.startedMu.Lock()
	defer m.startedMu.Unlock()

	if m.started {
		return
	}

	m.scheduler.Start()
	m.started = true
	m.logger.Infow("scheduler manager started", "job_count", len(m.scheduler.Jobs()))
}

// Stop waits for running jobs to finish.
func (m *SchedulerManager) Stop() error {
	m.startedMu.Lock()
	defer m.startedMu.Unlock()

	if !m.started {
		return nil
	}

	m.logger.Infow("stopping scheduler manager")

	err := m.scheduler.Shutdown()
	m.started = false

	if err != nil {
		m.logger.Errorw("scheduler manager shutdown with error", "error", err)
		return err
	}

	m.logger.Infow("scheduler manager stopped")
	return nil
}

func (m *SchedulerManager) IsStarted() bool {
	m.startedMu.RLock()
	defer m.startedMu.RUnlock()
	return m.started
}

// Jobs returns all registered jobs for inspection.
func (m *SchedulerManager) Jobs() []gocron.Job {
	return m.scheduler.Jobs()
}
