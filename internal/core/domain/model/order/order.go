package order

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"courierflow/internal/core/domain/model/kernel"
	"courierflow/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

var (
	// ErrOrderIsNotConstructed is returned when an Order was not created through
	// NewOrder or RestoreOrder.
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder constructor")
)

// CancellationOutcome is the financial and status result of a cancellation.
type CancellationOutcome struct {
	Status  Status
	Penalty decimal.Decimal
	Refund  decimal.Decimal
}

// CancellationPolicy decides the outcome of a cancellation for the requesting role.
// The Order aggregate validates the request and applies the outcome; the policy only
// computes it.
type CancellationPolicy interface {
	Decide(role kernel.Role, payment PaymentStatus, total decimal.Decimal) (CancellationOutcome, error)
}

// Order is the aggregate root of the delivery lifecycle.
//
// Order follows these invariants:
//   - total always equals subtotal + deliveryFee
//   - status only moves along the edges of the transition table
//   - a courier is referenced only while CanHaveCourier holds for the status
//   - the history only grows; every status change appends exactly one entry,
//     a reassignment appends two
//   - each rating is set at most once, only once the order is Completed
//
// Every mutation method either applies completely or returns an error and leaves
// the order untouched.
type Order struct {
	id           kernel.UUID
	customerID   kernel.UUID
	restaurantID kernel.UUID
	courierID    *kernel.UUID

	items       []LineItem
	subtotal    decimal.Decimal
	deliveryFee decimal.Decimal
	total       decimal.Decimal
	penalty     decimal.Decimal
	refund      decimal.Decimal

	status        Status
	paymentStatus PaymentStatus
	history       []HistoryEntry

	courierRating    *Rating
	restaurantRating *Rating

	safetyWord string

	createdAt          time.Time
	updatedAt          time.Time
	deliveredAt        *time.Time
	cancelledAt        *time.Time
	cancelledBy        *kernel.UUID
	cancelledByRole    kernel.Role
	cancellationReason string

	// version, persistedStatus and persistedHistory describe the stored row the order
	// was loaded from; the repository turns them into the update precondition.
	version          int64
	persistedStatus  Status
	persistedHistory int

	events []Event

	isConstructed bool
}

// NewOrder places a new order for customerID at restaurantID.
//
// The order starts Pending with payment Pending, no courier and an empty history.
// Totals are computed from items plus deliveryFee. An OrderPlaced event is recorded.
//
// Example:
//
//	item, _ := order.NewLineItem("Margherita", decimal.RequireFromString("9.50"), 2)
//	o, err := order.NewOrder(kernel.NewUUID(), customerID, restaurantID,
//	    []order.LineItem{item}, decimal.RequireFromString("2.99"), order.NewSafetyWord(), time.Now())
func NewOrder(
	id, customerID, restaurantID kernel.UUID,
	items []LineItem,
	deliveryFee decimal.Decimal,
	safetyWord string,
	at time.Time,
) (*Order, error) {
	o := &Order{
		status:        Pending,
		paymentStatus: PaymentPending,
		penalty:       decimal.Zero,
		refund:        decimal.Zero,
		createdAt:     at,
		updatedAt:     at,
		version:       1,
		isConstructed: true,
	}

	if err := errors.Join(
		o.setIDs(id, customerID, restaurantID),
		o.setItems(items, deliveryFee),
		o.setSafetyWord(safetyWord),
	); err != nil {
		return nil, err
	}

	o.raise(OrderPlaced{Header: o.header(at), Restaurant: restaurantID, Total: o.total})
	return o, nil
}

// Validate ensures the Order was built by NewOrder or RestoreOrder.
func (o *Order) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOrderIsNotConstructed
	}
	return nil
}

// IsEqual compares two orders by identity.
func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

func (o *Order) ID() kernel.UUID                { return o.id }
func (o *Order) CustomerID() kernel.UUID        { return o.customerID }
func (o *Order) RestaurantID() kernel.UUID      { return o.restaurantID }
func (o *Order) Status() Status                 { return o.status }
func (o *Order) PaymentStatus() PaymentStatus   { return o.paymentStatus }
func (o *Order) Subtotal() decimal.Decimal      { return o.subtotal }
func (o *Order) DeliveryFee() decimal.Decimal   { return o.deliveryFee }
func (o *Order) Total() decimal.Decimal         { return o.total }
func (o *Order) PenaltyAmount() decimal.Decimal { return o.penalty }
func (o *Order) RefundAmount() decimal.Decimal  { return o.refund }
func (o *Order) SafetyWord() string             { return o.safetyWord }
func (o *Order) CreatedAt() time.Time           { return o.createdAt }
func (o *Order) UpdatedAt() time.Time           { return o.updatedAt }
func (o *Order) DeliveredAt() *time.Time        { return o.deliveredAt }
func (o *Order) CancelledAt() *time.Time        { return o.cancelledAt }
func (o *Order) CancelledBy() *kernel.UUID      { return o.cancelledBy }
func (o *Order) CancelledByRole() kernel.Role   { return o.cancelledByRole }
func (o *Order) CancellationReason() string     { return o.cancellationReason }
func (o *Order) CourierRating() *Rating         { return o.courierRating }
func (o *Order) RestaurantRating() *Rating      { return o.restaurantRating }
func (o *Order) Version() int64                 { return o.version }

// Courier returns the assigned courier, or nil.
func (o *Order) Courier() *kernel.UUID {
	return o.courierID
}

// Items returns a copy of the line items.
func (o *Order) Items() []LineItem {
	return append([]LineItem(nil), o.items...)
}

// History returns a copy of the audit trail in insertion order.
func (o *Order) History() []HistoryEntry {
	return append([]HistoryEntry(nil), o.history...)
}

// UnsavedHistory returns the entries appended since the order was loaded or last saved.
func (o *Order) UnsavedHistory() []HistoryEntry {
	return append([]HistoryEntry(nil), o.history[o.persistedHistory:]...)
}

// PersistedStatus is the status of the stored row, used as the write precondition.
func (o *Order) PersistedStatus() Status {
	return o.persistedStatus
}

// MarkPersisted records that the current state has been written under the next version.
func (o *Order) MarkPersisted(version int64) {
	o.version = version
	o.persistedStatus = o.status
	o.persistedHistory = len(o.history)
}

// PullEvents returns and clears the recorded events.
func (o *Order) PullEvents() []Event {
	events := o.events
	o.events = nil
	return events
}

// IsVisibleTo reports whether actor may read this order: the owning customer,
// the assigned courier, any dispatcher or the system.
func (o *Order) IsVisibleTo(actor kernel.Actor) bool {
	switch actor.Role {
	case kernel.RoleDispatcher, kernel.RoleSystem:
		return true
	case kernel.RoleCustomer:
		return o.customerID.IsEqual(actor.ID)
	case kernel.RoleCourier:
		return o.isAssignedCourier(actor.ID)
	default:
		return false
	}
}

// Assign sets the first courier of a paid, pending order.
//
// Rejections:
//   - Forbidden: actor is not a dispatcher
//   - InvalidTransition: the order is terminal or not pending
//   - Conflict: a courier is already set, or payment is not confirmed
//
// Appends one history entry and records CourierAssigned and StatusChanged.
func (o *Order) Assign(actor kernel.Actor, courierID kernel.UUID, at time.Time) error {
	if err := courierID.Validate(); err != nil {
		return err
	}
	if !actor.Is(kernel.RoleDispatcher) {
		return errs.NewForbiddenError("assign courier", "only a dispatcher may assign couriers")
	}
	if o.status.IsTerminal() {
		return errs.NewInvalidTransitionErrorWithCause(o.status.String(), Assigned.String(), errOrderIsTerminal)
	}
	if o.courierID != nil {
		return errs.NewConflictError("order", "a courier is already assigned, confirm reassignment instead")
	}
	if o.status != Pending {
		return errs.NewInvalidTransitionError(o.status.String(), Assigned.String())
	}
	if o.paymentStatus != PaymentPaid {
		return errs.NewConflictError("order", fmt.Sprintf("payment is %s, not paid", o.paymentStatus))
	}

	from := o.status
	o.courierID = &courierID
	o.apply(Assigned, actor, "", at)
	o.raise(CourierAssigned{Header: o.header(at), Courier: courierID})
	o.raise(StatusChanged{Header: o.header(at), From: from, To: Assigned})
	return nil
}

// Reassign hands the order to another courier and restarts the courier sub-flow at Assigned.
//
// Rejections:
//   - Forbidden: actor is not a dispatcher
//   - InvalidTransition: no courier is set, the order is terminal, or it is already OnTheWay
//   - ValueIsInvalid: courierID is the current courier
//
// Appends two history entries ("reassigned" with a note naming both couriers, then
// "assigned") and records CourierReassigned and StatusChanged.
func (o *Order) Reassign(actor kernel.Actor, courierID kernel.UUID, at time.Time) error {
	if err := courierID.Validate(); err != nil {
		return err
	}
	if !actor.Is(kernel.RoleDispatcher) {
		return errs.NewForbiddenError("reassign courier", "only a dispatcher may reassign couriers")
	}
	if o.status.IsTerminal() {
		return errs.NewInvalidTransitionErrorWithCause(o.status.String(), Assigned.String(), errOrderIsTerminal)
	}
	if o.courierID == nil {
		return errs.NewInvalidTransitionErrorWithCause(o.status.String(), Assigned.String(),
			errors.New("no courier to reassign from"))
	}
	if !o.status.Before(OnTheWay) {
		return errs.NewInvalidTransitionErrorWithCause(o.status.String(), Assigned.String(),
			errors.New("courier is already en route"))
	}
	previous := *o.courierID
	if previous.IsEqual(courierID) {
		return errs.NewValueIsInvalidErrorWithCause("courier", errors.New("order is already assigned to this courier"))
	}

	from := o.status
	o.history = append(o.history, NewHistoryEntry(HistoryReassigned, actor.ID, actor.Role, at,
		fmt.Sprintf("Reassigned from courier %s to courier %s", previous, courierID)))
	o.courierID = &courierID
	o.apply(Assigned, actor, "", at)
	o.raise(CourierReassigned{Header: o.header(at), PreviousCourier: previous, Courier: courierID})
	o.raise(StatusChanged{Header: o.header(at), From: from, To: Assigned})
	return nil
}

// MarkReadyForPickup is the dispatcher's signal that the food can be collected.
func (o *Order) MarkReadyForPickup(actor kernel.Actor, at time.Time) error {
	return o.transition(ReadyForPickup, actor, at)
}

// AdvanceCourierStatus moves the order along the courier-driven edges:
// HeadingToRestaurant, AtRestaurant, OnTheWay and Delivered. Any other target is
// rejected as an invalid value.
func (o *Order) AdvanceCourierStatus(actor kernel.Actor, target Status, at time.Time) error {
	switch target { //nolint:exhaustive // only courier-driven targets are accepted
	case HeadingToRestaurant, AtRestaurant, OnTheWay, Delivered:
		return o.transition(target, actor, at)
	default:
		return errs.NewValueIsInvalidErrorWithCause("target status",
			fmt.Errorf("%s is not a courier status", target))
	}
}

// ConfirmDelivery is the owning customer's acknowledgement that moves Delivered to Completed.
func (o *Order) ConfirmDelivery(actor kernel.Actor, at time.Time) error {
	return o.transition(Completed, actor, at)
}

// Cancel moves a non-terminal order into the cancellation terminal chosen by policy.
//
// Allowed actors are the owning customer, any dispatcher, and the system while the order
// is still Pending. The courier reference is cleared and the cancellation fields are set
// atomically with the status change. One history entry carrying reason is appended.
func (o *Order) Cancel(actor kernel.Actor, reason string, policy CancellationPolicy, at time.Time) error {
	reason = strings.TrimSpace(reason)

	switch actor.Role { //nolint:exhaustive // couriers fall through to default
	case kernel.RoleCustomer:
		if !o.customerID.IsEqual(actor.ID) {
			return errs.NewForbiddenError("cancel order", "customers may only cancel their own orders")
		}
	case kernel.RoleDispatcher:
	case kernel.RoleSystem:
		if !o.status.IsTerminal() && o.status != Pending {
			return errs.NewForbiddenError("cancel order", "the system may only cancel pending orders")
		}
	default:
		return errs.NewForbiddenError("cancel order", fmt.Sprintf("role %s may not cancel orders", actor.Role))
	}
	if o.status.IsTerminal() {
		return errs.NewInvalidTransitionErrorWithCause(o.status.String(), "cancelled", errOrderIsTerminal)
	}
	if reason == "" {
		return errs.NewValueIsRequiredError("cancellation reason")
	}

	outcome, err := policy.Decide(actor.Role, o.paymentStatus, o.total)
	if err != nil {
		return err
	}
	if !outcome.Status.IsCancelled() {
		return errs.NewInvalidTransitionError(o.status.String(), outcome.Status.String())
	}

	from := o.status
	previous := o.courierID
	cancelledBy := actor.ID
	cancelledAt := at

	o.courierID = nil
	o.penalty = outcome.Penalty
	o.refund = outcome.Refund
	if o.paymentStatus != PaymentPaid {
		o.paymentStatus = PaymentCancelled
	}
	o.cancelledAt = &cancelledAt
	o.cancelledBy = &cancelledBy
	o.cancelledByRole = actor.Role
	o.cancellationReason = reason
	o.apply(outcome.Status, actor, reason, at)

	o.raise(OrderCancelled{
		Header:          o.header(at),
		PreviousCourier: previous,
		Status:          outcome.Status,
		ByRole:          actor.Role,
		Reason:          reason,
		Penalty:         outcome.Penalty,
		Refund:          outcome.Refund,
	})
	o.raise(StatusChanged{Header: o.header(at), From: from, To: outcome.Status})
	return nil
}

// Rate stores the customer's ratings of the courier and/or the restaurant.
//
// Only the owning customer may rate, only a Completed order, at least one rating must be
// given, and each target can be rated once: a second attempt is a Conflict.
// Rating does not change the status and writes no history entry.
func (o *Order) Rate(actor kernel.Actor, courierRating, restaurantRating *Rating, at time.Time) error {
	if !actor.Is(kernel.RoleCustomer) || !o.customerID.IsEqual(actor.ID) {
		return errs.NewForbiddenError("rate order", "only the customer who placed the order may rate it")
	}
	if o.status != Completed {
		return errs.NewInvalidTransitionErrorWithCause(o.status.String(), "rated",
			errors.New("only completed orders can be rated"))
	}
	if courierRating == nil && restaurantRating == nil {
		return errs.NewValueIsRequiredError("rating")
	}

	var problems []error
	if courierRating != nil {
		if err := courierRating.Validate(); err != nil {
			problems = append(problems, err)
		}
		if o.courierID == nil {
			problems = append(problems, errs.NewValueIsInvalidErrorWithCause("courier rating",
				errors.New("order has no courier to rate")))
		}
	}
	if restaurantRating != nil {
		if err := restaurantRating.Validate(); err != nil {
			problems = append(problems, err)
		}
	}
	if err := errors.Join(problems...); err != nil {
		return err
	}

	if courierRating != nil && o.courierRating != nil {
		return errs.NewConflictError("order", "courier has already been rated for this order")
	}
	if restaurantRating != nil && o.restaurantRating != nil {
		return errs.NewConflictError("order", "restaurant has already been rated for this order")
	}

	if courierRating != nil {
		r := *courierRating
		o.courierRating = &r
	}
	if restaurantRating != nil {
		r := *restaurantRating
		o.restaurantRating = &r
	}
	o.updatedAt = at
	return nil
}

// ConfirmPayment applies the payment collaborator's signal.
//
// Pending and Failed payments move to Paid or Failed. Repeating the current payment status
// is a no-op and reports changed=false. Any other change, or any change on a terminal
// order, is a Conflict.
func (o *Order) ConfirmPayment(confirmed bool, at time.Time) (bool, error) {
	target := PaymentFailed
	if confirmed {
		target = PaymentPaid
	}
	if o.paymentStatus == target {
		return false, nil
	}
	if o.status.IsTerminal() {
		return false, errs.NewConflictError("order", fmt.Sprintf("order is %s, payment can no longer change", o.status))
	}
	if o.paymentStatus != PaymentPending && o.paymentStatus != PaymentFailed {
		return false, errs.NewConflictError("order",
			fmt.Sprintf("payment is already %s, cannot become %s", o.paymentStatus, target))
	}

	o.paymentStatus = target
	o.updatedAt = at
	o.raise(PaymentUpdated{Header: o.header(at), PaymentStatus: target})
	return true, nil
}

// CanPublishLocation checks the actor is the assigned courier and the order is between
// Assigned and OnTheWay, the window in which watchers care about the courier's position.
func (o *Order) CanPublishLocation(actor kernel.Actor) error {
	if !actor.Is(kernel.RoleCourier) || !o.isAssignedCourier(actor.ID) {
		return errs.NewForbiddenError("publish location", "only the assigned courier may publish its location")
	}
	if o.status < Assigned || o.status > OnTheWay {
		return errs.NewInvalidTransitionErrorWithCause(o.status.String(), "location",
			errors.New("order is not in delivery"))
	}
	return nil
}

var errOrderIsTerminal = errors.New("order is in a terminal state")

// transitionRule describes how an order may enter a status through the generic path.
type transitionRule struct {
	from            []Status
	role            kernel.Role
	assignedCourier bool
	owner           bool
}

// transitionRules is keyed by the target status. Assigned and the cancellation terminals
// are reached only through Assign, Reassign and Cancel.
//
//nolint:gochecknoglobals // immutable lookup table
var transitionRules = map[Status]transitionRule{
	HeadingToRestaurant: {from: []Status{Assigned}, role: kernel.RoleCourier, assignedCourier: true},
	ReadyForPickup:      {from: []Status{Assigned, HeadingToRestaurant}, role: kernel.RoleDispatcher},
	AtRestaurant:        {from: []Status{ReadyForPickup}, role: kernel.RoleCourier, assignedCourier: true},
	OnTheWay:            {from: []Status{AtRestaurant}, role: kernel.RoleCourier, assignedCourier: true},
	Delivered:           {from: []Status{OnTheWay}, role: kernel.RoleCourier, assignedCourier: true},
	Completed:           {from: []Status{Delivered}, role: kernel.RoleCustomer, owner: true},
}

// transition validates a request against the rule for target and applies it.
// Nothing is mutated when an error is returned.
func (o *Order) transition(target Status, actor kernel.Actor, at time.Time) error {
	if o.status.IsTerminal() {
		return errs.NewInvalidTransitionErrorWithCause(o.status.String(), target.String(), errOrderIsTerminal)
	}
	rule, ok := transitionRules[target]
	if !ok {
		return errs.NewInvalidTransitionError(o.status.String(), target.String())
	}
	if actor.Role != rule.role {
		return errs.NewForbiddenError("move order to "+target.String(),
			fmt.Sprintf("role %s is not allowed, %s is required", actor.Role, rule.role))
	}
	if rule.assignedCourier && !o.isAssignedCourier(actor.ID) {
		return errs.NewForbiddenError("move order to "+target.String(), "only the assigned courier may do this")
	}
	if rule.owner && !o.customerID.IsEqual(actor.ID) {
		return errs.NewForbiddenError("move order to "+target.String(), "only the customer who placed the order may do this")
	}
	if !slices.Contains(rule.from, o.status) {
		return errs.NewInvalidTransitionError(o.status.String(), target.String())
	}

	from := o.status
	o.apply(target, actor, "", at)
	if e := o.transitionEvent(target, at); e != nil {
		o.raise(e)
	}
	o.raise(StatusChanged{Header: o.header(at), From: from, To: target})
	return nil
}

// apply is the only place the status is written.
func (o *Order) apply(target Status, actor kernel.Actor, notes string, at time.Time) {
	o.status = target
	o.updatedAt = at
	if target == Delivered && o.deliveredAt == nil {
		deliveredAt := at
		o.deliveredAt = &deliveredAt
	}
	o.history = append(o.history, NewHistoryEntry(target.String(), actor.ID, actor.Role, at, notes))
}

func (o *Order) transitionEvent(target Status, at time.Time) Event {
	var courierID kernel.UUID
	if o.courierID != nil {
		courierID = *o.courierID
	}
	h := o.header(at)

	switch target { //nolint:exhaustive // only generic-path targets raise specific events
	case HeadingToRestaurant:
		return CourierHeadingToRestaurant{Header: h, Courier: courierID}
	case ReadyForPickup:
		return OrderReadyForPickup{Header: h, Courier: courierID}
	case AtRestaurant:
		return CourierArrivedAtRestaurant{Header: h, Courier: courierID}
	case OnTheWay:
		return OrderOnTheWay{Header: h, Courier: courierID}
	case Delivered:
		return OrderDelivered{Header: h, Courier: courierID}
	case Completed:
		return OrderCompleted{Header: h, Courier: courierID}
	default:
		return nil
	}
}

func (o *Order) isAssignedCourier(id kernel.UUID) bool {
	return o.courierID != nil && o.courierID.IsEqual(id)
}

func (o *Order) header(at time.Time) Header {
	return Header{Order: o.id, Customer: o.customerID, At: at}
}

func (o *Order) raise(e Event) {
	o.events = append(o.events, e)
}

func (o *Order) setIDs(id, customerID, restaurantID kernel.UUID) error {
	if err := errors.Join(id.Validate(), customerID.Validate(), restaurantID.Validate()); err != nil {
		return err
	}
	o.id = id
	o.customerID = customerID
	o.restaurantID = restaurantID
	return nil
}

// setItems stores the items and fee and recomputes subtotal and total.
func (o *Order) setItems(items []LineItem, deliveryFee decimal.Decimal) error {
	if len(items) == 0 {
		return errs.NewValueIsRequiredError("items")
	}
	if deliveryFee.IsNegative() {
		return errs.NewValueIsInvalidErrorWithCause("delivery fee",
			fmt.Errorf("%s is negative", deliveryFee.StringFixed(2)))
	}

	subtotal := decimal.Zero
	for i, item := range items {
		if err := item.Validate(); err != nil {
			return fmt.Errorf("item %d: %w", i, err)
		}
		subtotal = subtotal.Add(item.Subtotal())
	}

	o.items = append([]LineItem(nil), items...)
	o.deliveryFee = deliveryFee.Round(2)
	o.subtotal = subtotal.Round(2)
	o.total = o.subtotal.Add(o.deliveryFee)
	return nil
}

func (o *Order) setSafetyWord(word string) error {
	if strings.TrimSpace(word) == "" {
		return errs.NewValueIsRequiredError("safety word")
	}
	o.safetyWord = word
	return nil
}
