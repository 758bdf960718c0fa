// Package order provides the Order aggregate and the state machine that governs it.
//
// The package includes:
//   - Order: the aggregate root holding items, totals, payment status, courier reference,
//     audit trail and ratings
//   - Status: the lifecycle enumeration and the transition table
//   - PaymentStatus: the independent payment axis that gates courier assignment
//   - HistoryEntry: one record of the append-only audit trail
//   - Event: the closed set of facts an order raises for the notification dispatcher
//
// Key business rules:
//   - Every status change goes through the aggregate; each one appends a history entry
//   - Courier-driven edges are reserved for the specific courier assigned to the order
//   - Assignment requires a paid order; reassignment is frozen once the courier is on the way
//   - Terminal orders (completed or cancelled) accept no further transitions
//   - Ratings can be given once per target, by the owning customer, on completed orders
package order
