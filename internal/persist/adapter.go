package persist

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"log/slog"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cuejson "cuelang.org/go/encoding/json"

	"github.com/roach88/neobrutal/internal/task"
)

// DefaultKey is the namespace key used when none is configured. It matches the
// localStorage key of the browser version, so exported snapshots load as is.
const DefaultKey = "neo-brutalism-tasks"

//go:embed snapshot.cue
var snapshotSchema string

// Store is the durable key-value dependency. kv.SQLite and kv.Memory satisfy it.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Put(ctx context.Context, key string, value []byte) error
}

// Adapter loads and saves the full task collection under one key.
// It never reads or writes any other key.
type Adapter struct {
	store Store
	key   string
}

// NewAdapter creates an adapter bound to key. An empty key selects DefaultKey.
func NewAdapter(store Store, key string) *Adapter {
	if key == "" {
		key = DefaultKey
	}
	return &Adapter{store: store, key: key}
}

// Key returns the namespace key this adapter owns.
func (a *Adapter) Key() string {
	return a.key
}

// Load returns the stored collection in stored order.
//
// A missing key yields an empty collection. A value that does not decode into
// valid task records is logged and also yields an empty collection; only a
// failure of the underlying store itself is returned as an error.
func (a *Adapter) Load(ctx context.Context) ([]task.Task, error) {
	raw, found, err := a.store.Get(ctx, a.key)
	if err != nil {
		return nil, fmt.Errorf("load tasks: %w", err)
	}
	if !found {
		slog.Debug("no task snapshot stored", "key", a.key)
		return []task.Task{}, nil
	}

	tasks, err := Decode(raw)
	if err != nil {
		slog.Warn("discarding unreadable task snapshot", "key", a.key, "bytes", len(raw), "error", err)
		return []task.Task{}, nil
	}

	slog.Debug("task snapshot loaded", "key", a.key, "tasks", len(tasks))
	return tasks, nil
}

// Save serializes the whole collection and overwrites the stored value.
func (a *Adapter) Save(ctx context.Context, tasks []task.Task) error {
	data, err := Encode(tasks)
	if err != nil {
		return fmt.Errorf("save tasks: %w", err)
	}
	if err := a.store.Put(ctx, a.key, data); err != nil {
		return fmt.Errorf("save tasks: %w", err)
	}
	return nil
}

// Encode renders tasks as a JSON array. A nil slice encodes as [].
func Encode(tasks []task.Task) ([]byte, error) {
	if tasks == nil {
		tasks = []task.Task{}
	}
	data, err := json.Marshal(tasks)
	if err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}
	return data, nil
}

// Decode validates raw against the snapshot schema and converts it to tasks.
//
// Validation is all-or-nothing: one bad record rejects the snapshot.
// Legacy records without a status get one derived from completed, and
// duplicate ids keep their first occurrence.
func Decode(raw []byte) ([]task.Task, error) {
	if err := validateSnapshot(raw); err != nil {
		return nil, err
	}

	var records []storedTask
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}

	seen := make(map[task.ID]bool, len(records))
	out := make([]task.Task, 0, len(records))
	for i, r := range records {
		t := r.Task
		t.DueDate = r.DueDate.TimePtr()
		if t.ID == "" {
			return nil, fmt.Errorf("decode snapshot: record %d: empty id", i)
		}
		title, err := task.NormalizeTitle(t.Title)
		if err != nil {
			return nil, fmt.Errorf("decode snapshot: record %d: %w", i, err)
		}
		if seen[t.ID] {
			slog.Warn("dropping duplicate task id from snapshot", "id", t.ID, "index", i)
			continue
		}
		seen[t.ID] = true

		t.Title = title
		t.Reconcile()
		out = append(out, t)
	}
	return out, nil
}

// storedTask reads one persisted record. dueDate may be RFC 3339 or a bare
// YYYY-MM-DD date, which date pickers produce.
type storedTask struct {
	task.Task
	DueDate *task.DueDate `json:"dueDate"`
}

// validateSnapshot checks raw JSON against #Snapshot from snapshot.cue.
func validateSnapshot(raw []byte) error {
	ctx := cuecontext.New()

	schema := ctx.CompileString(snapshotSchema, cue.Filename("snapshot.cue"))
	if err := schema.Err(); err != nil {
		return fmt.Errorf("compile snapshot schema: %w", err)
	}

	expr, err := cuejson.Extract("snapshot.json", raw)
	if err != nil {
		return fmt.Errorf("parse snapshot: %w", err)
	}
	data := ctx.BuildExpr(expr)
	if err := data.Err(); err != nil {
		return fmt.Errorf("parse snapshot: %w", err)
	}

	v := schema.LookupPath(cue.ParsePath("#Snapshot")).Unify(data)
	if err := v.Validate(cue.Concrete(true)); err != nil {
		return fmt.Errorf("validate snapshot: %w", err)
	}
	return nil
}
