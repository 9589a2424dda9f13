// Package kernel holds the value objects shared by every board aggregate.
//
// UUID identifies orders, order items and products. Its zero value is invalid and
// must be produced by NewUUID, UUIDFromString or UUIDFromBytes, so identifiers read
// from the database, the change feed or an HTTP request are always checked once at
// the boundary.
package kernel
