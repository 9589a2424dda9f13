// Package errs provides the error taxonomy shared by the order board.
//
// Every error type follows the same shape:
//   - a sentinel error variable (e.g., ErrValueIsInvalid) usable with errors.Is
//   - a struct carrying details (parameter name, identifier, optional cause)
//   - constructors with and without a cause
//   - Unwrap returning the sentinel
//
// The board maps these onto its categories: ValueIsInvalidError for rejected
// transitions and missing weighing data, ObjectNotFoundError for orders that are
// absent from the store or the board, ValueIsRequiredError for incomplete input.
package errs
