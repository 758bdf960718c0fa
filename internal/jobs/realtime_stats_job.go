package jobs

import (
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

const DefaultRealtimeStatsSpec = "@every 1m"

type RealtimeStats interface {
	Connections() int
	Dropped() uint64
}

// RealtimeStatsJob logs the live connection count and how many notifications were
// dropped since the previous tick.
type RealtimeStatsJob struct {
	stats       RealtimeStats
	spec        string
	cron        *cron.Cron
	lastDropped uint64
	logger      *zap.Logger
}

func NewRealtimeStatsJob(stats RealtimeStats, spec string, logger *zap.Logger) *RealtimeStatsJob {
	if spec == "" {
		spec = DefaultRealtimeStatsSpec
	}
	return &RealtimeStatsJob{
		stats:  stats,
		spec:   spec,
		cron:   cron.New(cron.WithSeconds()),
		logger: logger.With(zap.String("component", "realtime_stats_job")),
	}
}

func (j *RealtimeStatsJob) Start() error {
	if _, err := j.cron.AddFunc(j.spec, j.Run); err != nil {
		return err
	}
	j.cron.Start()
	return nil
}

func (j *RealtimeStatsJob) Stop() {
	<-j.cron.Stop().Done()
}

// Run logs one sample. Drops are logged at warn level.
func (j *RealtimeStatsJob) Run() {
	dropped := j.stats.Dropped()
	delta := dropped - j.lastDropped
	j.lastDropped = dropped

	fields := []zap.Field{zap.Int("connections", j.stats.Connections()), zap.Uint64("dropped", delta)}
	if delta > 0 {
		j.logger.Warn("realtime subscribers are falling behind", fields...)
		return
	}
	j.logger.Debug("realtime stats", fields...)
}
