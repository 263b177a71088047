// Package harness replays YAML task scenarios against a real task store.
//
// Each scenario runs in isolation: a fresh in-memory key-value backend, the
// real persistence adapter, sequential ids ("task-1", "task-2", ...) and a
// clock that advances one second per task created. The same scenario therefore
// always produces the same trace, which makes traces suitable for golden
// file comparison.
//
// A scenario is a list of steps. Steps name tasks by title rather than id:
//
//	name: buy_milk_walk_dog
//	description: Two tasks, complete one, clear it
//	steps:
//	  - op: add
//	    title: Buy milk
//	  - op: add
//	    title: Walk dog
//	  - op: toggle
//	    ref: Buy milk
//	    expect:
//	      stats: {total: 2, active: 1, completed: 1}
//	  - op: clear_completed
//	    expect:
//	      removed: 1
//
// A ref that names no earlier task resolves to an id that does not exist,
// which is how scenarios exercise the not-found no-op paths.
//
// After the last step the harness reloads the persisted snapshot and fails
// the run if it differs from the store's in-memory collection.
package harness
