package order

import (
	"errors"
	"fmt"
	"strings"

	"courierflow/internal/pkg/errs"
	"courierflow/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

var ErrLineItemIsNotConstructed = errors.New("LineItem must be created via NewLineItem")

// LineItem is one ordered entry of an order. Subtotal is always unitPrice * quantity.
type LineItem struct {
	name      string
	unitPrice decimal.Decimal
	quantity  int
	subtotal  decimal.Decimal
	guard     guard.ConstructorGuard
}

// NewLineItem validates the inputs and computes the subtotal rounded to cents.
func NewLineItem(name string, unitPrice decimal.Decimal, quantity int) (LineItem, error) {
	var problems []error
	if strings.TrimSpace(name) == "" {
		problems = append(problems, errs.NewValueIsRequiredError("item name"))
	}
	if unitPrice.IsNegative() {
		problems = append(problems, errs.NewValueIsInvalidErrorWithCause(
			"unit price", fmt.Errorf("%s is negative", unitPrice.StringFixed(2))))
	}
	if quantity < 1 {
		problems = append(problems, errs.NewValueIsInvalidErrorWithCause(
			"quantity", fmt.Errorf("%d is not greater than 0", quantity)))
	}
	if err := errors.Join(problems...); err != nil {
		return LineItem{}, err
	}

	return LineItem{
		name:      strings.TrimSpace(name),
		unitPrice: unitPrice,
		quantity:  quantity,
		subtotal:  unitPrice.Mul(decimal.NewFromInt(int64(quantity))).Round(2),
		guard:     guard.NewConstructorGuard(),
	}, nil
}

func (i LineItem) Validate() error {
	return i.guard.Validate(ErrLineItemIsNotConstructed)
}

func (i LineItem) Name() string               { return i.name }
func (i LineItem) UnitPrice() decimal.Decimal { return i.unitPrice }
func (i LineItem) Quantity() int              { return i.quantity }
func (i LineItem) Subtotal() decimal.Decimal  { return i.subtotal }
