package persist

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/roach88/neobrutal/internal/task"
)

// Saver persists one full snapshot. *Adapter satisfies it.
type Saver interface {
	Save(ctx context.Context, tasks []task.Task) error
}

// Writer issues saves in submission order without making the caller wait.
//
// Submit returns as soon as the snapshot is queued; a single goroutine drains
// the queue, so the durable value after the queue settles is always the last
// submitted snapshot. A failed save is logged and counted. It does not roll
// back anything, and the next successful save repairs the divergence.
type Writer struct {
	saver    Saver
	q        *saveQueue
	done     chan struct{}
	saved    atomic.Int64
	failures atomic.Int64
}

// NewWriter starts the background save loop.
// Call Close to drain outstanding saves and stop it.
func NewWriter(saver Saver) *Writer {
	w := &Writer{
		saver: saver,
		q:     newSaveQueue(),
		done:  make(chan struct{}),
	}
	go w.loop()
	return w
}

// Submit queues a snapshot for saving. It never blocks on I/O.
// Snapshots submitted after Close are dropped with a warning.
func (w *Writer) Submit(tasks []task.Task) {
	if !w.q.Enqueue(saveRequest{tasks: tasks}) {
		slog.Warn("task snapshot submitted after writer closed; dropped", "tasks", len(tasks))
	}
}

// Flush blocks until every snapshot submitted before the call has been
// attempted, or ctx is done.
func (w *Writer) Flush(ctx context.Context) error {
	barrier := make(chan struct{})
	if !w.q.Enqueue(saveRequest{barrier: barrier}) {
		// Closed: the loop drains everything before exiting.
		select {
		case <-w.done:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	select {
	case <-barrier:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close stops accepting snapshots and waits for queued ones to be saved.
func (w *Writer) Close() error {
	w.q.Close()
	<-w.done
	return nil
}

// Saved returns the number of successful saves.
func (w *Writer) Saved() int64 {
	return w.saved.Load()
}

// Failures returns the number of failed saves.
func (w *Writer) Failures() int64 {
	return w.failures.Load()
}

func (w *Writer) loop() {
	defer close(w.done)

	for {
		req, ok := w.q.TryDequeue()
		if !ok {
			if w.q.Drained() {
				return
			}
			<-w.q.Wait()
			continue
		}

		if req.barrier != nil {
			close(req.barrier)
			continue
		}

		if err := w.saver.Save(context.Background(), req.tasks); err != nil {
			w.failures.Add(1)
			slog.Error("task snapshot save failed", "tasks", len(req.tasks), "error", err)
			continue
		}
		w.saved.Add(1)
	}
}

// Direct saves synchronously on the caller's goroutine.
// It is the Submit-compatible alternative to Writer when callers want every
// mutation durable before the operation returns.
type Direct struct {
	saver    Saver
	failures atomic.Int64
}

// NewDirect wraps saver for synchronous use.
func NewDirect(saver Saver) *Direct {
	return &Direct{saver: saver}
}

// Submit saves tasks immediately. Errors are logged, not returned.
func (d *Direct) Submit(tasks []task.Task) {
	if err := d.saver.Save(context.Background(), tasks); err != nil {
		d.failures.Add(1)
		slog.Error("task snapshot save failed", "tasks", len(tasks), "error", err)
	}
}

// Failures returns the number of failed saves.
func (d *Direct) Failures() int64 {
	return d.failures.Load()
}

type saveRequest struct {
	tasks   []task.Task
	barrier chan struct{}
}

// saveQueue is an unbounded FIFO queue of save requests.
//
// The queue uses a buffered channel of size 1 for signaling so the drain loop
// can sleep without polling; Close closes the channel to wake it for good.
type saveQueue struct {
	mu     sync.Mutex
	items  []saveRequest
	closed bool
	signal chan struct{}
}

func newSaveQueue() *saveQueue {
	return &saveQueue{
		items:  make([]saveRequest, 0, 16),
		signal: make(chan struct{}, 1),
	}
}

// Enqueue adds a request to the back of the queue.
// Returns false if the queue is closed.
func (q *saveQueue) Enqueue(r saveRequest) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return false
	}

	q.items = append(q.items, r)

	// Non-blocking: a buffer of 1 coalesces multiple signals
	select {
	case q.signal <- struct{}{}:
	default:
	}

	return true
}

// TryDequeue removes the front request without blocking.
func (q *saveQueue) TryDequeue() (saveRequest, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.items) == 0 {
		return saveRequest{}, false
	}

	r := q.items[0]
	// Release the snapshot for GC; the backing array outlives the slice header.
	q.items[0] = saveRequest{}

	if len(q.items) == 1 {
		q.items = q.items[:0]
	} else {
		q.items = q.items[1:]
	}

	return r, true
}

// Wait returns a channel that signals when requests may be available.
func (q *saveQueue) Wait() <-chan struct{} {
	return q.signal
}

// Drained reports whether the queue is closed and empty.
func (q *saveQueue) Drained() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.closed && len(q.items) == 0
}

// Close signals that no more requests will be enqueued.
func (q *saveQueue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return
	}

	q.closed = true
	close(q.signal)
}
