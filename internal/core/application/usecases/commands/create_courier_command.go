package commands

import (
	"errors"
	"strings"

	"courierflow/internal/core/domain/model/kernel"
	"courierflow/internal/pkg/errs"
	"courierflow/internal/pkg/guard"
)

var ErrCreateCourierCommandIsNotConstructed = errors.New(
	"CreateCourierCommand must be created via NewCreateCourierCommand constructor",
)

// CreateCourierCommand registers a courier. Dispatchers may register anyone; a courier
// may register only its own identity.
type CreateCourierCommand struct { //nolint:recvcheck //using for validation
	courierID kernel.UUID
	name      string

	guard guard.ConstructorGuard
}

func NewCreateCourierCommand(actor kernel.Actor, courierID kernel.UUID, name string) (CreateCourierCommand, error) {
	cmd := CreateCourierCommand{guard: guard.NewConstructorGuard()}

	if err := errors.Join(
		actor.Validate(),
		cmd.setCourierID(courierID),
		cmd.setName(name),
	); err != nil {
		return CreateCourierCommand{}, err
	}

	switch {
	case actor.Is(kernel.RoleDispatcher):
	case actor.Is(kernel.RoleCourier) && actor.ID.IsEqual(courierID):
	default:
		return CreateCourierCommand{}, errs.NewForbiddenError("register courier",
			"only dispatchers or the courier itself may register a courier")
	}

	return cmd, nil
}

func (c CreateCourierCommand) Validate() error {
	return c.guard.Validate(ErrCreateCourierCommandIsNotConstructed)
}

func (c CreateCourierCommand) CourierID() kernel.UUID { return c.courierID }
func (c CreateCourierCommand) Name() string           { return c.name }

func (c *CreateCourierCommand) setCourierID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	c.courierID = id
	return nil
}

func (c *CreateCourierCommand) setName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return errs.NewValueIsRequiredError("name")
	}
	c.name = name
	return nil
}
