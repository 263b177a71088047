package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/neobrutal/internal/kv"
)

// NewNamespacesCommand creates the namespaces command.
func NewNamespacesCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "namespaces",
		Short: "List the task lists stored in the database",
		Long: `List the namespace keys stored in the database, one per line.

Each key holds one task list; pass it to --namespace to work with that list.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runNamespaces(rootOpts, cmd)
		},
	}
}

func runNamespaces(opts *RootOptions, cmd *cobra.Command) error {
	db, err := kv.Open(opts.Config.Database)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer db.Close()

	keys, err := db.Keys(cmd.Context())
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to list namespaces", err)
	}

	text := "No task lists."
	if len(keys) > 0 {
		text = strings.Join(keys, "\n")
	}
	return opts.printer(cmd).result(keys, text)
}
