package commands

import (
	"context"
	"errors"
	"time"

	"courierflow/internal/core/domain/model/kernel"
	"courierflow/internal/core/domain/model/order"
	"courierflow/internal/core/ports"
	"courierflow/internal/pkg/errs"
)

// ExpiryReason is recorded as the cancellation reason of expired orders.
const ExpiryReason = "payment not received in time"

var errNoLongerExpired = errors.New("order no longer qualifies for expiry")

// ExpireUnpaidOrdersCommandHandler cancels every qualifying order in its own unit of work,
// so one failure does not hold back the others.
type ExpireUnpaidOrdersCommandHandler struct {
	uowFactory OrderUoWFactory
	publisher  ports.EventPublisher
	policy     order.CancellationPolicy
}

func NewExpireUnpaidOrdersCommandHandler(
	uowFactory OrderUoWFactory,
	publisher ports.EventPublisher,
	policy order.CancellationPolicy,
) ExpireUnpaidOrdersCommandHandler {
	return ExpireUnpaidOrdersCommandHandler{uowFactory: uowFactory, publisher: publisher, policy: policy}
}

// Handle returns the ids of the orders it cancelled. Orders that changed since they were
// listed (paid, cancelled or raced by another writer) are skipped silently; other
// failures are joined into the returned error.
func (h ExpireUnpaidOrdersCommandHandler) Handle(
	ctx context.Context,
	command ExpireUnpaidOrdersCommand,
) ([]kernel.UUID, error) {
	if err := command.Validate(); err != nil {
		return nil, err
	}

	ids, err := h.listCandidates(ctx, command)
	if err != nil {
		return nil, err
	}

	system := kernel.SystemActor()
	var (
		expired  []kernel.UUID
		failures []error
	)
	for _, id := range ids {
		if err = ctx.Err(); err != nil {
			failures = append(failures, err)
			break
		}

		_, err = mutateOrder(ctx, h.uowFactory, h.publisher, id, func(o *order.Order, at time.Time) error {
			if o.Status() != order.Pending || o.PaymentStatus() == order.PaymentPaid {
				return errNoLongerExpired
			}
			return o.Cancel(system, ExpiryReason, h.policy, at)
		})
		switch {
		case err == nil:
			expired = append(expired, id)
		case errors.Is(err, errNoLongerExpired), errors.Is(err, errs.ErrConflict):
			// skipped
		default:
			failures = append(failures, err)
		}
	}

	return expired, errors.Join(failures...)
}

func (h ExpireUnpaidOrdersCommandHandler) listCandidates(
	ctx context.Context,
	command ExpireUnpaidOrdersCommand,
) ([]kernel.UUID, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	return uow.OrderRepository().ListExpiredUnpaid(ctx, command.Cutoff(), command.Limit())
}
