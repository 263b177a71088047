package cli

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/roach88/neobrutal/internal/api"
)

// ServeOptions holds flags for the serve command.
type ServeOptions struct {
	*RootOptions
	Listen string

	// Ready, when set, is called with the bound address once the server
	// accepts connections (for testing).
	Ready func(net.Addr)
}

// NewServeCommand creates the serve command.
func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ServeOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the task list as a JSON API",
		Long: `Serve the task list as a JSON API under /api/v1.

The server owns the database for as long as it runs. Pending saves are
written before it exits on SIGINT or SIGTERM.

Example:
  neobrutal serve --listen 127.0.0.1:8080`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Listen, "listen", "", "address to listen on (overrides config)")

	return cmd
}

func runServe(opts *ServeOptions, cmd *cobra.Command) error {
	addr := opts.Config.Listen
	if opts.Listen != "" {
		addr = opts.Listen
	}
	if !opts.Verbose {
		gin.SetMode(gin.ReleaseMode)
	}

	parentCtx := cmd.Context()
	if parentCtx == nil {
		parentCtx = context.Background()
	}
	ctx, stop := signal.NotifyContext(parentCtx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	return withSession(ctx, opts.RootOptions, func(s *session) error {
		slog.Info("serving task list", "namespace", opts.Config.Namespace, "tasks", s.store.Len())
		ready := func(a net.Addr) {
			fmt.Fprintf(cmd.OutOrStdout(), "Serving %s on http://%s/api/v1\n", opts.Config.Namespace, a)
			if opts.Ready != nil {
				opts.Ready(a)
			}
		}
		if err := api.Serve(ctx, addr, s.store, ready); err != nil {
			return WrapExitError(ExitCommandError, "http server failed", err)
		}
		slog.Info("server stopped")
		return nil
	})
}
