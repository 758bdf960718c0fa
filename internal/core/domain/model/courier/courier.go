package courier

import (
	"errors"
	"strings"

	"courierflow/internal/core/domain/model/kernel"
	"courierflow/internal/pkg/errs"
	"courierflow/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

var (
	// ErrNameIsRequired is returned when attempting to create a courier without a name.
	ErrNameIsRequired = errs.NewValueIsRequiredError("name")
	// ErrCourierIsNotConstructed is returned when using an improperly initialized Courier.
	ErrCourierIsNotConstructed = errors.New("Courier must be created via NewCourier constructor")

	// DefaultRating is the rating of a courier nobody has rated yet.
	DefaultRating = decimal.NewFromInt(5)
	minRating     = decimal.NewFromInt(1)
	maxRating     = decimal.NewFromInt(5)
)

// Courier is an actor that picks up and delivers orders.
//
// Business rules:
//   - A courier has a valid UUID and a non-empty name
//   - The rating always lies within [1, 5] with one decimal place; it starts at 5
type Courier struct {
	id     kernel.UUID
	name   string
	rating decimal.Decimal
	guard  guard.ConstructorGuard
}

// NewCourier registers a courier with the default rating.
//
// Example:
//
//	c, err := courier.NewCourier(kernel.NewUUID(), "Dana")
//	if err != nil {
//	    return err
//	}
func NewCourier(id kernel.UUID, name string) (*Courier, error) {
	c := &Courier{rating: DefaultRating, guard: guard.NewConstructorGuard()}
	if err := errors.Join(c.setID(id), c.setName(name)); err != nil {
		return nil, err
	}
	return c, nil
}

// RestoreCourier rebuilds a courier from storage.
func RestoreCourier(id kernel.UUID, name string, rating decimal.Decimal) (*Courier, error) {
	c, err := NewCourier(id, name)
	if err != nil {
		return nil, err
	}
	if err := c.SetRating(rating); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Courier) Validate() error {
	if c == nil {
		return ErrCourierIsNotConstructed
	}
	return c.guard.Validate(ErrCourierIsNotConstructed)
}

func (c *Courier) ID() kernel.UUID         { return c.id }
func (c *Courier) Name() string            { return c.name }
func (c *Courier) Rating() decimal.Decimal { return c.rating }

// SetRating replaces the running average. Values are rounded to one decimal and must
// fall within [1, 5].
func (c *Courier) SetRating(rating decimal.Decimal) error {
	rating = rating.Round(1)
	if rating.LessThan(minRating) || rating.GreaterThan(maxRating) {
		return errs.NewValueIsOutOfRangeError("courier rating", rating.String(), minRating.String(), maxRating.String())
	}
	c.rating = rating
	return nil
}

func (c *Courier) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	c.id = id
	return nil
}

func (c *Courier) setName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrNameIsRequired
	}
	c.name = name
	return nil
}
