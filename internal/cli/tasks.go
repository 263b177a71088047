package cli

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/roach88/neobrutal/internal/task"
	"github.com/roach88/neobrutal/internal/view"
)

// AddOptions holds flags for the add command.
type AddOptions struct {
	*RootOptions
	Description string
	Due         string
	Status      string
}

// NewAddCommand creates the add command.
func NewAddCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &AddOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Add a task to the top of the list",
		Long: `Add a task to the top of the list.

The title is trimmed and must be 1 to 200 characters long.

Examples:
  neobrutal add "Buy milk"
  neobrutal add "File taxes" --due 2027-04-15 --status in_progress`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAdd(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Description, "description", "", "longer description")
	cmd.Flags().StringVar(&opts.Due, "due", "", "due date (YYYY-MM-DD or RFC 3339)")
	cmd.Flags().StringVar(&opts.Status, "status", "", "initial status (todo|in_progress|completed|cancelled)")

	return cmd
}

func runAdd(opts *AddOptions, title string, cmd *cobra.Command) error {
	out := opts.printer(cmd)

	fields := task.Fields{Description: opts.Description}
	if opts.Due != "" {
		due, err := parseDue(opts.Due)
		if err != nil {
			return out.reject(ErrCodeValidation, ExitFailure, "invalid task", err)
		}
		fields.DueDate = &due
	}
	if opts.Status != "" {
		st, err := task.ParseStatus(opts.Status)
		if err != nil {
			return out.reject(ErrCodeValidation, ExitFailure, "invalid task", err)
		}
		fields.Status = st
	}

	return withSession(cmd.Context(), opts.RootOptions, func(s *session) error {
		created, err := s.store.Add(title, fields)
		if err != nil {
			return out.reject(ErrCodeValidation, ExitFailure, "invalid task", err)
		}
		slog.Debug("added task", "id", created.ID)
		return out.result(view.Card{Task: created, Accent: view.Accent(created.ID)}, formatTask(created))
	})
}

// ListOptions holds flags for the list command.
type ListOptions struct {
	*RootOptions
	Filter string
}

// NewListCommand creates the list command.
func NewListCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ListOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Filter, "filter", "all", "which tasks to show (all|active|completed)")

	return cmd
}

func runList(opts *ListOptions, cmd *cobra.Command) error {
	out := opts.printer(cmd)

	mode, err := view.ParseFilter(opts.Filter)
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid --filter", err)
	}

	return withSession(cmd.Context(), opts.RootOptions, func(s *session) error {
		tasks := s.store.Filtered(mode)
		return out.result(view.Cards(tasks), formatList(tasks, s.store.Stats()))
	})
}

// NewToggleCommand creates the toggle command.
func NewToggleCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "toggle <id>",
		Short: "Flip a task between done and not done",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := task.ID(args[0])
			return withSession(cmd.Context(), rootOpts, func(s *session) error {
				s.store.Toggle(id)
				return reportTask(rootOpts, cmd, s, id, "toggled")
			})
		},
	}
}

// UpdateOptions holds flags for the update command.
type UpdateOptions struct {
	*RootOptions
	Title       string
	Description string
	Due         string
	ClearDue    bool
	Status      string
}

// NewUpdateCommand creates the update command.
func NewUpdateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &UpdateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Change a task's title, description, due date or status",
		Long: `Change a task's title, description, due date or status.

Only the flags given are changed. Setting --status completed marks the task
done; any other status marks it not done.

Examples:
  neobrutal update 0192f0c4-7d1e-7a3b-9c2d-1f2e3d4c5b6a --title "Buy oat milk"
  neobrutal update 0192f0c4-7d1e-7a3b-9c2d-1f2e3d4c5b6a --clear-due`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUpdate(opts, task.ID(args[0]), cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Title, "title", "", "new title")
	cmd.Flags().StringVar(&opts.Description, "description", "", "new description")
	cmd.Flags().StringVar(&opts.Due, "due", "", "new due date (YYYY-MM-DD or RFC 3339)")
	cmd.Flags().BoolVar(&opts.ClearDue, "clear-due", false, "remove the due date")
	cmd.Flags().StringVar(&opts.Status, "status", "", "new status (todo|in_progress|completed|cancelled)")
	cmd.MarkFlagsMutuallyExclusive("due", "clear-due")

	return cmd
}

func runUpdate(opts *UpdateOptions, id task.ID, cmd *cobra.Command) error {
	out := opts.printer(cmd)
	flags := cmd.Flags()

	var patch task.Patch
	if flags.Changed("title") {
		patch.Title = &opts.Title
	}
	if flags.Changed("description") {
		patch.Description = &opts.Description
	}
	if opts.Due != "" {
		due, err := parseDue(opts.Due)
		if err != nil {
			return out.reject(ErrCodeValidation, ExitFailure, "invalid update", err)
		}
		patch.DueDate = &due
	}
	patch.ClearDue = opts.ClearDue
	if flags.Changed("status") {
		st := task.Status(opts.Status)
		patch.Status = &st
	}
	if patch.Empty() {
		return NewExitError(ExitCommandError, "nothing to update: pass at least one of --title, --description, --due, --clear-due, --status")
	}

	return withSession(cmd.Context(), opts.RootOptions, func(s *session) error {
		if err := s.store.Update(id, patch); err != nil {
			return out.reject(ErrCodeValidation, ExitFailure, "invalid update", err)
		}
		return reportTask(opts.RootOptions, cmd, s, id, "updated")
	})
}

// NewDeleteCommand creates the delete command.
func NewDeleteCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Remove a task",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := task.ID(args[0])
			out := rootOpts.printer(cmd)
			return withSession(cmd.Context(), rootOpts, func(s *session) error {
				_, found := s.store.Get(id)
				s.store.Delete(id)

				text := fmt.Sprintf("Deleted %s.", id)
				if !found {
					text = fmt.Sprintf("No task with id %s.", id)
				}
				return out.result(map[string]any{"id": id, "deleted": found}, text)
			})
		},
	}
}

// NewClearCompletedCommand creates the clear-completed command.
func NewClearCompletedCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "clear-completed",
		Short: "Remove every completed task",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := rootOpts.printer(cmd)
			return withSession(cmd.Context(), rootOpts, func(s *session) error {
				removed := s.store.ClearCompleted()
				return out.result(map[string]int{"removed": removed},
					fmt.Sprintf("Removed %d completed task(s).", removed))
			})
		},
	}
}

// NewStatsCommand creates the stats command.
func NewStatsCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show task counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := rootOpts.printer(cmd)
			return withSession(cmd.Context(), rootOpts, func(s *session) error {
				st := s.store.Stats()
				return out.result(st, formatStats(st))
			})
		},
	}
}

// reportTask prints the task after a toggle or update, or notes that the id
// matched nothing. Unknown ids are not an error.
func reportTask(opts *RootOptions, cmd *cobra.Command, s *session, id task.ID, verb string) error {
	out := opts.printer(cmd)
	t, found := s.store.Get(id)
	if !found {
		return out.result(map[string]any{"id": id, verb: false}, fmt.Sprintf("No task with id %s.", id))
	}
	return out.result(view.Card{Task: t, Accent: view.Accent(t.ID)}, formatTask(t))
}
