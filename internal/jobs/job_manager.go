package jobs

import (
	"fmt"

	"go.uber.org/zap"
)

// JobManager coordinates all scheduled jobs in the application.
// Provides a unified interface to start and stop all background jobs.
type JobManager struct {
	unpaidOrderExpiryJob *UnpaidOrderExpiryJob
	realtimeStatsJob     *RealtimeStatsJob
}

// NewJobManager creates a job manager. The expiry handler cancels stale unpaid orders;
// stats may be nil when no local hub runs.
func NewJobManager(expiry *UnpaidOrderExpiryJob, stats RealtimeStats, logger *zap.Logger) *JobManager {
	jm := &JobManager{unpaidOrderExpiryJob: expiry}
	if stats != nil {
		jm.realtimeStatsJob = NewRealtimeStatsJob(stats, DefaultRealtimeStatsSpec, logger)
	}
	return jm
}

// StartAll starts all scheduled jobs.
// Returns an error if any job fails to start.
func (jm *JobManager) StartAll() error {
	if err := jm.unpaidOrderExpiryJob.Start(); err != nil {
		return fmt.Errorf("failed to start unpaid order expiry job: %w", err)
	}

	if jm.realtimeStatsJob != nil {
		if err := jm.realtimeStatsJob.Start(); err != nil {
			// Stop already started jobs if this one fails
			jm.unpaidOrderExpiryJob.Stop()
			return fmt.Errorf("failed to start realtime stats job: %w", err)
		}
	}

	return nil
}

// StopAll stops all scheduled jobs gracefully.
func (jm *JobManager) StopAll() {
	if jm.realtimeStatsJob != nil {
		jm.realtimeStatsJob.Stop()
	}
	jm.unpaidOrderExpiryJob.Stop()
}
