package order

import (
	"fmt"

	"courierflow/internal/pkg/errs"
)

// Status is the lifecycle position of an order.
//
// Forward path:
//
//	Pending ──> Assigned ──> HeadingToRestaurant ──> ReadyForPickup ──> AtRestaurant ──> OnTheWay ──> Delivered ──> Completed
//	               │                                      ▲
//	               └──────────────────────────────────────┘
//	                   (dispatcher may mark ready straight from Assigned)
//
// Any non-terminal status may additionally move to one of the cancellation terminals.
// Completed and every cancellation status are terminal.
//
// The numeric order of the non-terminal values follows the forward path, which lets
// callers compare progress with Before.
type Status int

const (
	// Unknown catches uninitialised Status values.
	Unknown Status = iota

	Pending
	Assigned
	HeadingToRestaurant
	ReadyForPickup
	AtRestaurant
	OnTheWay
	Delivered
	Completed

	Cancelled
	CancelledByClient
	CancelledByClientWithPenalty
	CancelledByAdmin
	CancelledByAdminWithPenalty
	CancelledByDriver
)

// statusNames holds the persisted and wire names of every valid status.
var statusNames = map[Status]string{
	Pending:                      "pending",
	Assigned:                     "assigned",
	HeadingToRestaurant:          "heading_to_restaurant",
	ReadyForPickup:               "ready_for_pickup",
	AtRestaurant:                 "at_restaurant",
	OnTheWay:                     "on_the_way",
	Delivered:                    "delivered",
	Completed:                    "completed",
	Cancelled:                    "cancelled",
	CancelledByClient:            "cancelled_by_client",
	CancelledByClientWithPenalty: "cancelled_by_client_with_penalty",
	CancelledByAdmin:             "cancelled_by_admin",
	CancelledByAdminWithPenalty:  "cancelled_by_admin_with_penalty",
	CancelledByDriver:            "cancelled_by_driver",
}

var statusByName = func() map[string]Status {
	m := make(map[string]Status, len(statusNames))
	for s, name := range statusNames {
		m[name] = s
	}
	return m
}()

// ParseStatus maps a persisted or wire name back to a Status.
func ParseStatus(name string) (Status, error) {
	if s, ok := statusByName[name]; ok {
		return s, nil
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%q is not a valid status", name))
}

// Validate rejects Unknown and out-of-range values.
func (s Status) Validate() error {
	if _, ok := statusNames[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// String returns the persisted name, or "unknown" for invalid values.
func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return "unknown"
}

// IsTerminal reports whether no further transition is defined from s.
func (s Status) IsTerminal() bool {
	return s == Completed || s.IsCancelled()
}

// IsCancelled reports whether s is one of the cancellation terminals.
func (s Status) IsCancelled() bool {
	return s >= Cancelled && s <= CancelledByDriver
}

// Before reports whether s comes strictly earlier than other on the forward path.
// Terminal statuses are never before anything.
func (s Status) Before(other Status) bool {
	if s.IsTerminal() || s.Validate() != nil {
		return false
	}
	return s < other
}

// CanHaveCourier reports whether an order in status s may reference a courier.
// Completed orders keep the courier that delivered them so the rating can be attributed.
func (s Status) CanHaveCourier() bool {
	return s >= Assigned && s <= Completed
}

// MarshalText writes the persisted name into JSON payloads.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}
