package order

import (
	"fmt"

	"courierflow/internal/pkg/errs"
)

// PaymentStatus is the payment axis of an order, independent from Status.
// Courier assignment is gated on PaymentPaid.
type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentPaid      PaymentStatus = "paid"
	PaymentFailed    PaymentStatus = "failed"
	PaymentCancelled PaymentStatus = "cancelled"
)

func ParsePaymentStatus(s string) (PaymentStatus, error) {
	switch p := PaymentStatus(s); p {
	case PaymentPending, PaymentPaid, PaymentFailed, PaymentCancelled:
		return p, nil
	default:
		return "", errs.NewValueIsInvalidErrorWithCause("payment status", fmt.Errorf("%q is not a valid payment status", s))
	}
}

func (p PaymentStatus) Validate() error {
	_, err := ParsePaymentStatus(string(p))
	return err
}

func (p PaymentStatus) String() string {
	return string(p)
}
