package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/Sanjey2005/friends-associates/internal/services"
)

// ReminderRunner executes one reminder scan.
type ReminderRunner interface {
	Run(ctx context.Context) (*services.ReminderReport, error)
}

// Scheduler triggers the reminder job in-process on a cron schedule. It is an
// alternative to calling the reminder endpoint from an external scheduler.
type Scheduler struct {
	cron *cron.Cron
	log  *zap.Logger
}

// New registers runner under spec. An empty spec returns nil: the job is
// then expected to be triggered over HTTP.
func New(spec string, runner ReminderRunner, log *zap.Logger) (*Scheduler, error) {
	if spec == "" {
		return nil, nil
	}

	c := cron.New()
	_, err := c.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()

		report, err := runner.Run(ctx)
		if err != nil {
			log.Error("scheduled reminder run failed", zap.Error(err))
			return
		}
		log.Info("scheduled reminder run finished", zap.Int("processed", report.Processed))
	})
	if err != nil {
		return nil, err
	}

	return &Scheduler{cron: c, log: log}, nil
}

// Start begins running scheduled jobs in the background.
func (s *Scheduler) Start() {
	s.cron.Start()
	s.log.Info("reminder scheduler started")
}

// Stop waits for a running job to finish and stops the scheduler.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}
