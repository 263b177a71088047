// Package ident produces task identifiers.
//
// Identifiers are opaque strings, safe to use as map keys and never reused
// for the lifetime of a process.
package ident

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// Generator returns identifiers that have never been returned before.
type Generator interface {
	NewID() string
}

// UUIDv7Generator generates time-sortable UUIDv7 identifiers.
//
// UUIDv7 embeds a millisecond timestamp in the most significant bits and
// fills the rest with random data plus a monotonic sub-millisecond counter,
// so two calls in the same millisecond still produce distinct, ordered ids.
//
// Thread-safety: UUIDv7Generator is stateless and safe for concurrent use.
type UUIDv7Generator struct{}

// NewID creates a new UUIDv7 and returns it as a hyphenated string.
//
// Panics if the random source fails (should never happen in practice).
func (UUIDv7Generator) NewID() string {
	return uuid.Must(uuid.NewV7()).String()
}

// FixedGenerator returns predetermined identifiers for testing.
//
// Tests provide a known sequence of ids so store snapshots and golden traces
// are reproducible. Once the list is exhausted it falls back to
// "<prefix>-<n>" so long-running tests do not need to size the list exactly.
type FixedGenerator struct {
	mu     sync.Mutex
	ids    []string
	idx    int
	prefix string
}

// NewFixedGenerator creates a generator that returns ids in order.
//
//	gen := NewFixedGenerator("t1", "t2")
//	gen.NewID() // "t1"
//	gen.NewID() // "t2"
//	gen.NewID() // "task-3"
func NewFixedGenerator(ids ...string) *FixedGenerator {
	return &FixedGenerator{ids: ids, prefix: "task"}
}

// NewSequenceGenerator creates a generator returning "<prefix>-1", "<prefix>-2", ...
func NewSequenceGenerator(prefix string) *FixedGenerator {
	return &FixedGenerator{prefix: prefix}
}

// NewID returns the next predetermined id.
func (g *FixedGenerator) NewID() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.idx++
	if g.idx <= len(g.ids) {
		return g.ids[g.idx-1]
	}
	return fmt.Sprintf("%s-%d", g.prefix, g.idx)
}
