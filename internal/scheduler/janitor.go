// Package scheduler runs periodic maintenance jobs.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/dtroode/jobboard/internal/logger"
)

// Purger deletes refresh tokens that went stale before cutoff.
type Purger interface {
	Purge(ctx context.Context, cutoff time.Time) (int64, error)
}

// Janitor purges stale refresh tokens on a cron schedule.
type Janitor struct {
	cron      *cron.Cron
	purger    Purger
	spec      string
	retention time.Duration
	logger    *logger.Logger
	now       func() time.Time
}

// NewJanitor creates a Janitor firing on spec, e.g. "@every 1h". Tokens
// expired or revoked longer than retention ago are deleted.
func NewJanitor(purger Purger, spec string, retention time.Duration, logger *logger.Logger) *Janitor {
	return &Janitor{
		cron:      cron.New(cron.WithLogger(cron.DefaultLogger)),
		purger:    purger,
		spec:      spec,
		retention: retention,
		logger:    logger,
		now:       time.Now,
	}
}

// Start registers the job and starts the scheduler. Runs happen in the
// cron goroutine; ctx bounds each run.
func (j *Janitor) Start(ctx context.Context) error {
	if _, err := j.cron.AddFunc(j.spec, func() { j.RunOnce(ctx) }); err != nil {
		return fmt.Errorf("failed to schedule token janitor %q: %w", j.spec, err)
	}

	j.cron.Start()
	j.logger.Info("Token janitor: started", "spec", j.spec, "retention", j.retention.String())

	return nil
}

// Stop waits for a running purge to finish.
func (j *Janitor) Stop() {
	<-j.cron.Stop().Done()
	j.logger.Info("Token janitor: stopped")
}

// RunOnce performs a single purge.
func (j *Janitor) RunOnce(ctx context.Context) {
	cutoff := j.now().Add(-j.retention)

	n, err := j.purger.Purge(ctx, cutoff)
	if err != nil {
		j.logger.Error("Token janitor: purge failed", "error", err.Error())
		return
	}

	j.logger.Info("Token janitor: purge completed",
		"deleted", n,
		"cutoff", cutoff.Format(time.RFC3339))
}
