// Package errs provides standardized error types for the atelier application.
// It implements a consistent pattern for error creation, formatting, and unwrapping
// that is used throughout the application.
//
// The package includes two families of errors:
//   - Validation: ValueIsRequiredError, ValueIsInvalidError, ValueIsOutOfRangeError
//   - Workflow: ForbiddenError, InvalidStateError, ClaimConflictError, StoreUnavailableError
//
// plus ObjectNotFoundError for lookups and ErrUnauthenticated for unknown identities.
//
// Each error type follows a consistent pattern:
//   - A sentinel error variable (e.g., ErrClaimConflict)
//   - A struct type with fields for error details
//   - Constructor functions with and without cause
//   - Error() method for formatting the error message
//   - Unwrap() method returning the sentinel, so errors.Is works through %w wrapping
//
// Only StoreUnavailableError is retryable as is. A ClaimConflictError must be followed by
// a fresh read of the order before any new attempt.
package errs
