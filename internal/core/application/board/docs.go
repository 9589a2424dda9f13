// Package board holds the in-memory order board: three status columns kept in sync
// with the order store.
//
// Store is the single owner of the columns. User actions (Move, ConfirmWeighing,
// LoadAll) and realtime primitives (Upsert, Remove) are serialized by one operation
// lock, so a remote write and the local change that follows it are never interleaved
// with another mutation. Readers get immutable Board snapshots and never wait on
// remote calls.
package board
