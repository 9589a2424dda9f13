// Package guard provides ConstructorGuard, a marker embedded in commands, queries and
// value objects so that zero values built with a struct literal can be told apart from
// values produced by their constructor.
package guard

import "errors"

// ErrDefaultConstructorGuard is returned by Validate when no specific error is supplied.
var ErrDefaultConstructorGuard = errors.New("object must be created via its constructor")

// ConstructorGuard records whether the enclosing value was created by its constructor.
//
// Example usage:
//
//	var ErrMoveOrderCommandIsNotConstructed = errors.New("MoveOrderCommand must be created via NewMoveOrderCommand")
//
//	type MoveOrderCommand struct {
//	    orderID kernel.UUID
//	    guard   guard.ConstructorGuard
//	}
//
//	func (c MoveOrderCommand) Validate() error {
//	    return c.guard.Validate(ErrMoveOrderCommandIsNotConstructed)
//	}
type ConstructorGuard struct {
	isConstructed bool
}

// NewConstructorGuard returns a guard marked as constructed.
func NewConstructorGuard() ConstructorGuard {
	return ConstructorGuard{isConstructed: true}
}

// Validate returns validationError (or ErrDefaultConstructorGuard when it is nil)
// if the guard is a zero value.
func (g ConstructorGuard) Validate(validationError error) error {
	if validationError == nil {
		validationError = ErrDefaultConstructorGuard
	}
	if !g.isConstructed {
		return validationError
	}
	return nil
}
