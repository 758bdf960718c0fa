package commands

import (
	"errors"
	"fmt"
	"time"

	"courierflow/internal/pkg/errs"
	"courierflow/internal/pkg/guard"
)

var ErrExpireUnpaidOrdersCommandIsNotConstructed = errors.New(
	"ExpireUnpaidOrdersCommand must be created via NewExpireUnpaidOrdersCommand constructor",
)

// ExpireUnpaidOrdersCommand cancels, as the system actor, pending orders created before
// Cutoff whose payment never arrived. At most Limit orders are handled per run.
type ExpireUnpaidOrdersCommand struct {
	cutoff time.Time
	limit  int

	guard guard.ConstructorGuard
}

func NewExpireUnpaidOrdersCommand(cutoff time.Time, limit int) (ExpireUnpaidOrdersCommand, error) {
	var problems []error
	if cutoff.IsZero() {
		problems = append(problems, errs.NewValueIsRequiredError("cutoff"))
	}
	if limit <= 0 {
		problems = append(problems, errs.NewValueIsInvalidErrorWithCause("limit",
			fmt.Errorf("%d is not greater than 0", limit)))
	}
	if err := errors.Join(problems...); err != nil {
		return ExpireUnpaidOrdersCommand{}, err
	}
	return ExpireUnpaidOrdersCommand{cutoff: cutoff.UTC(), limit: limit, guard: guard.NewConstructorGuard()}, nil
}

func (c ExpireUnpaidOrdersCommand) Validate() error {
	return c.guard.Validate(ErrExpireUnpaidOrdersCommandIsNotConstructed)
}

func (c ExpireUnpaidOrdersCommand) Cutoff() time.Time { return c.cutoff }
func (c ExpireUnpaidOrdersCommand) Limit() int        { return c.limit }
