// Package persist synchronizes the task collection with the durable store.
//
// The Adapter owns exactly one key in a kv store and reads or writes the whole
// collection there as a JSON array:
//
//	[{"id":"...","title":"Buy milk","completed":false,"status":"todo","createdAt":"..."}]
//
// Stored values are validated against an embedded CUE schema (snapshot.cue)
// before they are accepted. A missing key or a corrupt value loads as an
// empty collection; corruption is logged, never returned.
//
// Saves are full snapshots. Writer queues them in order on a background
// goroutine (fire-and-forget); Direct performs them inline. Neither rolls back
// the in-memory collection when a save fails.
package persist
