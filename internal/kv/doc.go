// Package kv provides the durable key-value store behind task persistence.
//
// The store is deliberately dumb: it maps a string key to an opaque byte
// value and knows nothing about tasks. Two implementations exist:
//
//   - SQLite: a single-table database file, used by the CLI and API
//   - Memory: a map guarded by a mutex, used by tests and the scenario harness
//
// # Database Configuration
//
//   - WAL mode: readers do not block the writer
//   - synchronous=NORMAL: balance durability/performance
//   - busy_timeout=5000: wait for locks up to 5 seconds
//
// Writes replace the whole value for a key (upsert). There is no partial
// update and no multi-key transaction.
package kv
