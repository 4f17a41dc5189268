package utils

import (
	"context"
	"fmt"
	"time"

	"sp500-dashboard/src/logger"

	"github.com/robfig/cron/v3"
)

// RefreshScheduler runs a job on a cron schedule, one run at a time.
type RefreshScheduler struct {
	cron    *cron.Cron
	spec    string
	timeout time.Duration
	logger  *logger.Logger
}

// -----------------------------------------------------------------------------

// NewRefreshScheduler validates spec (standard 5-field or @descriptor) and
// schedules job. Each run gets a context bounded by timeout.
func NewRefreshScheduler(spec string, timeout time.Duration, job func(ctx context.Context) error) (*RefreshScheduler, error) {
	rs := &RefreshScheduler{
		cron:    cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		spec:    spec,
		timeout: timeout,
		logger:  logger.NewLogger("RefreshScheduler"),
	}

	_, err := rs.cron.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), rs.timeout)
		defer cancel()

		start := time.Now()
		if err := job(ctx); err != nil {
			rs.logger.Error("Scheduled refresh failed after %v: %v", time.Since(start), err)
			return
		}
		rs.logger.Info("Scheduled refresh completed in %v", time.Since(start))
	})
	if err != nil {
		return nil, fmt.Errorf("invalid refresh schedule %q: %w", spec, err)
	}
	return rs, nil
}

// -----------------------------------------------------------------------------

func (rs *RefreshScheduler) Start() {
	rs.cron.Start()
	rs.logger.Info("Refresh scheduled with %q", rs.spec)
}

// -----------------------------------------------------------------------------

// Stop halts the schedule and waits for a running job to finish.
func (rs *RefreshScheduler) Stop() {
	<-rs.cron.Stop().Done()
}

// -----------------------------------------------------------------------------

// Next returns the next scheduled run time.
func (rs *RefreshScheduler) Next() time.Time {
	entries := rs.cron.Entries()
	if len(entries) == 0 {
		return time.Time{}
	}
	return entries[0].Next
}
