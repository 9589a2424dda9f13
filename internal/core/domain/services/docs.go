// Package services provides the domain services of the order board: rules that need
// more than one order, or an outside read, to be evaluated.
//
// The package includes:
//   - WeighingCalculator: turns typed weights into line totals and order totals
//   - TransitionValidator: decides which status changes are legal and checks their gates
package services
