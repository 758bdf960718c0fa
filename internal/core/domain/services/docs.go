// Package services provides domain services that coordinate work the Order aggregate
// cannot do on its own.
//
// The package includes:
//   - AssignmentCoordinator: picks between initial assignment and reassignment of a courier
//   - CancellationPolicy: computes the terminal status, penalty and refund of a cancellation
//   - RatingAggregator: recomputes courier and restaurant averages from stored ratings
package services
