package kernel

import (
	"errors"
	"fmt"

	"courierflow/internal/pkg/errs"
)

// Role is the capacity in which an actor asks for a change.
// Its string value is persisted verbatim in the order audit trail.
type Role string

const (
	RoleCustomer   Role = "client"
	RoleDispatcher Role = "admin"
	RoleCourier    Role = "driver"
	RoleSystem     Role = "system"
)

// SystemActorID is recorded as the actor of changes made by scheduled jobs.
var SystemActorID = MustUUID("00000000-0000-4000-8000-000000000001")

// ParseRole maps the persisted role value back to a Role.
func ParseRole(s string) (Role, error) {
	switch r := Role(s); r {
	case RoleCustomer, RoleDispatcher, RoleCourier, RoleSystem:
		return r, nil
	default:
		return "", errs.NewValueIsInvalidErrorWithCause("role", fmt.Errorf("%q is not a known role", s))
	}
}

// Validate rejects roles outside the known set.
func (r Role) Validate() error {
	_, err := ParseRole(string(r))
	return err
}

func (r Role) String() string {
	return string(r)
}

// Actor is the identity supplied by the identity collaborator for every call.
type Actor struct {
	ID   UUID
	Role Role
}

// NewActor validates and builds an Actor.
func NewActor(id UUID, role Role) (Actor, error) {
	if err := errors.Join(id.Validate(), role.Validate()); err != nil {
		return Actor{}, err
	}
	return Actor{ID: id, Role: role}, nil
}

// SystemActor is the actor used by the unpaid order sweeper.
func SystemActor() Actor {
	return Actor{ID: SystemActorID, Role: RoleSystem}
}

// Validate reports whether the actor carries a valid identity and role.
func (a Actor) Validate() error {
	return errors.Join(a.ID.Validate(), a.Role.Validate())
}

// Is reports whether the actor acts in role r.
func (a Actor) Is(r Role) bool {
	return a.Role == r
}
