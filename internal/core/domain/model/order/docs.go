// Package order holds the Order aggregate shown on the butcher-shop board, its lines
// (Item) and the Status state machine.
//
// Key business rules:
//   - Order status follows the workflow Placed -> InSeparation -> Finalized, with a
//     revert edge from InSeparation back to Placed
//   - Same-status transitions are rejected
//   - Every item carries an actual weight (zero allowed) before an order is finalized
//   - Orders are immutable values; changes produce new orders
package order
