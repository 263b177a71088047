package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/roach88/neobrutal/internal/config"
	"github.com/roach88/neobrutal/internal/kv"
	"github.com/roach88/neobrutal/internal/persist"
	"github.com/roach88/neobrutal/internal/taskstore"
)

// session is one command's view of the task list: an open database, the
// store seeded from it, and the saver that writes snapshots back.
type session struct {
	store *taskstore.Store

	db       *kv.SQLite
	writer   *persist.Writer // nil when writes are synchronous
	failures func() int64
}

// openSession opens the configured database and loads the task list.
// Close must be called to drain pending writes.
func openSession(ctx context.Context, cfg *config.Config) (*session, error) {
	db, err := kv.Open(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	adapter := persist.NewAdapter(db, cfg.Namespace)
	slog.Debug("opened database", "path", cfg.Database, "namespace", adapter.Key(), "sync_writes", cfg.SyncWrites)
	s := &session{db: db}

	var saver taskstore.Saver
	if cfg.SyncWrites {
		direct := persist.NewDirect(adapter)
		saver, s.failures = direct, direct.Failures
	} else {
		s.writer = persist.NewWriter(adapter)
		saver, s.failures = s.writer, s.writer.Failures
	}

	s.store, err = taskstore.Open(ctx, adapter, saver)
	if err != nil {
		if s.writer != nil {
			_ = s.writer.Close()
		}
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// Close drains pending saves and closes the database. Saves that failed
// while the command ran are reported as an ExitError.
func (s *session) Close() error {
	var errs []error
	if s.writer != nil {
		errs = append(errs, s.writer.Close())
		slog.Debug("writer drained", "saved", s.writer.Saved(), "failed", s.writer.Failures())
	}
	errs = append(errs, s.db.Close())
	if err := errors.Join(errs...); err != nil {
		return WrapExitError(ExitCommandError, "failed to close database", err)
	}

	if n := s.failures(); n > 0 {
		slog.Error("changes were not saved", "failures", n)
		return NewExitError(ExitFailure, fmt.Sprintf("%d snapshot save(s) failed; changes may be lost", n))
	}
	return nil
}

// withSession runs fn against an open session and always closes it.
// An error from fn wins over an error from Close.
func withSession(ctx context.Context, opts *RootOptions, fn func(*session) error) (err error) {
	s, err := openSession(ctx, opts.Config)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open task list", err)
	}
	defer func() {
		if cerr := s.Close(); err == nil {
			err = cerr
		}
	}()
	return fn(s)
}
