// Package kernel provides the shared value objects of the order lifecycle domain.
//
// The package includes:
//   - UUID: identifier value object wrapping github.com/google/uuid
//   - Role and Actor: who is asking for a change (customer, dispatcher, courier, system)
//   - GeoPoint: a courier position relayed to order watchers
//
// All values are immutable and safe for concurrent use. Zero values are invalid and
// fail Validate, so aggregates can reject values that skipped their constructors.
package kernel
