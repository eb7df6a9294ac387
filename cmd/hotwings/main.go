package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/kompox/hotwings/internal/logging"
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "hotwings",
		Short: "hotwings job submission client",
		Long: `hotwings packages the current directory into a job workspace in a shared
staging directory and submits its archive to a remote endpoint.`,
		Version: version,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Show help by default when no subcommand is provided.
			return cmd.Help()
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := cmd.PersistentFlags()
	pf.String("home", "", "hotwings home directory (env HOTWINGS_HOME) (default ~/.hotwings)")
	pf.String("staging", "", "Shared staging directory (env HOTWINGS_STAGING) (default system temp dir)")
	pf.String("history-db", "", "Submission history DB URL (env HOTWINGS_HISTORY_DB) (sqlite:/path/to.db | memory:)")
	pf.String("log-format", "", "Log format (human|text|json) (env HOTWINGS_LOG_FORMAT)")
	pf.BoolP("verbose", "v", false, "Enable debug logging")

	cmd.PersistentPreRunE = setupSession

	cmd.AddCommand(newCmdInit())
	cmd.AddCommand(newCmdSubmit())
	cmd.AddCommand(newCmdList())
	cmd.AddCommand(newCmdStatus())
	cmd.AddCommand(newCmdLogs())
	cmd.AddCommand(newCmdRemote())
	cmd.AddCommand(newCmdClean())
	cmd.AddCommand(newCmdConfig())
	cmd.AddCommand(newCmdVersion())
	return cmd
}

func main() {
	root := newRootCmd()
	root.SetContext(context.Background())
	executed, err := root.ExecuteC()
	ctx := root.Context()
	if executed != nil && executed.Context() != nil {
		ctx = executed.Context()
	}
	if err != nil {
		logging.FromContext(ctx).Errorf(ctx, "Failed: %s", err)
	}
	closeSession(ctx)
	if err != nil {
		os.Exit(1)
	}
}
