package jobs

import (
	"context"
	"time"

	"courierflow/internal/core/application/usecases/commands"
	"courierflow/internal/core/domain/model/kernel"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

const (
	DefaultUnpaidOrderSweep = "0 * * * * *"
	DefaultExpiryBatchSize  = 100
)

type ExpireUnpaidOrdersHandler interface {
	Handle(ctx context.Context, command commands.ExpireUnpaidOrdersCommand) ([]kernel.UUID, error)
}

// UnpaidOrderExpiryJob cancels pending orders whose payment did not arrive within ttl.
type UnpaidOrderExpiryJob struct {
	handler   ExpireUnpaidOrdersHandler
	ttl       time.Duration
	batchSize int
	spec      string
	cron      *cron.Cron
	now       func() time.Time
	logger    *zap.Logger
}

func NewUnpaidOrderExpiryJob(
	handler ExpireUnpaidOrdersHandler,
	ttl time.Duration,
	spec string,
	batchSize int,
	logger *zap.Logger,
) *UnpaidOrderExpiryJob {
	if spec == "" {
		spec = DefaultUnpaidOrderSweep
	}
	if batchSize <= 0 {
		batchSize = DefaultExpiryBatchSize
	}
	return &UnpaidOrderExpiryJob{
		handler:   handler,
		ttl:       ttl,
		batchSize: batchSize,
		spec:      spec,
		cron:      cron.New(cron.WithSeconds()),
		now:       func() time.Time { return time.Now().UTC() },
		logger:    logger.With(zap.String("component", "unpaid_order_expiry_job")),
	}
}

// Start schedules Run on the configured spec.
func (j *UnpaidOrderExpiryJob) Start() error {
	if _, err := j.cron.AddFunc(j.spec, func() { j.Run(context.Background()) }); err != nil {
		return err
	}

	j.cron.Start()
	j.logger.Info("unpaid order expiry job started", zap.String("spec", j.spec), zap.Duration("ttl", j.ttl))
	return nil
}

// Stop waits for a running sweep to finish.
func (j *UnpaidOrderExpiryJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.Info("unpaid order expiry job stopped")
}

// Run performs one sweep and returns the ids it cancelled.
func (j *UnpaidOrderExpiryJob) Run(ctx context.Context) []kernel.UUID {
	cmd, err := commands.NewExpireUnpaidOrdersCommand(j.now().Add(-j.ttl), j.batchSize)
	if err != nil {
		j.logger.Error("unpaid order sweep misconfigured", zap.Error(err))
		return nil
	}

	expired, err := j.handler.Handle(ctx, cmd)
	if err != nil {
		j.logger.Error("unpaid order sweep failed", zap.Error(err), zap.Int("expired", len(expired)))
	}
	if len(expired) > 0 {
		j.logger.Info("unpaid orders expired", zap.Int("count", len(expired)))
	}
	return expired
}
