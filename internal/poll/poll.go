// Package poll runs collection jobs on a cron schedule.
package poll

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// Job is one collection run. The context carries the per-run timeout; a job
// returning an error is logged, never fatal, the schedule keeps going.
type Job func(ctx context.Context) error

type Poller struct {
	cron    *cron.Cron
	logger  *logrus.Logger
	timeout time.Duration
}

func New(logger *logrus.Logger, timeout time.Duration) *Poller {
	return &Poller{
		cron:    cron.New(),
		logger:  logger,
		timeout: timeout,
	}
}

// Schedule registers job under a standard cron expression such as
// "*/15 * * * *".
func (p *Poller) Schedule(spec string, job Job) error {
	_, err := p.cron.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
		defer cancel()

		start := time.Now()
		if err := job(ctx); err != nil {
			p.logger.WithError(err).Error("Scheduled collection failed")
			return
		}
		p.logger.WithField("duration", time.Since(start).String()).Info("Scheduled collection finished")
	})
	return err
}

// Start the scheduler
func (p *Poller) Start() {
	p.cron.Start()
}

// Stop the scheduler
func (p *Poller) Stop() {
	p.cron.Stop()
}
