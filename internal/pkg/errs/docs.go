// Package errs provides standardized error types for the food delivery service.
// It implements a consistent pattern for error creation, formatting, and unwrapping
// that is used throughout the application.
//
// The package includes error types for the scenarios the order workflow surfaces:
//   - ValueIsRequiredError, ValueIsInvalidError, ValueIsOutOfRangeError: validation
//   - ObjectNotFoundError: a referenced record does not exist
//   - ConflictError, InvalidTransitionError: the request lost a race or targets an
//     illegal state
//   - AuthenticationRequiredError: no authenticated identity was supplied
//   - ForbiddenError: the identity may not perform the operation
//
// Each error type follows a consistent pattern:
//   - A sentinel error variable (e.g., ErrValueIsRequired)
//   - A struct type with fields for error details
//   - Constructor functions with and without cause
//   - Error() method for formatting the error message
//   - Unwrap() method for errors.Is support
//
// KindOf classifies any error into a Kind so transports can render exactly one
// clear message per failure.
package errs
