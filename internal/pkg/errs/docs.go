// Package errs provides standardized error types for the order lifecycle service.
// It implements a consistent pattern for error creation, formatting, and unwrapping
// that is used throughout the application.
//
// The package maps the rejection taxonomy of the service onto concrete types:
//   - ObjectNotFoundError: a referenced order or courier does not exist
//   - ForbiddenError: the actor is not allowed to perform the action
//   - InvalidTransitionError: the order's current status has no matching edge
//   - ValueIsRequiredError, ValueIsInvalidError, ValueIsOutOfRangeError: malformed input
//   - ConflictError: the request clashes with the order's current state (payment not
//     confirmed, courier already assigned, stale write)
//   - VersionIsInvalidError: an optimistic concurrency precondition failed
//
// Each error type follows a consistent pattern:
//   - A sentinel error variable (e.g., ErrValueIsRequired)
//   - A struct type with fields for error details
//   - Constructor functions with and without cause
//   - Error() method for formatting the error message
//   - Unwrap() method returning the sentinel, so errors.Is classifies the error
//
// Store connectivity errors are never wrapped into these types; they propagate unchanged.
package errs
