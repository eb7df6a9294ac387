package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/kompox/hotwings/usecase/job"
)

func newCmdClean() *cobra.Command {
	var (
		olderThan time.Duration
		dryRun    bool
	)
	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Remove your stale jobs from the staging directory",
		Long: `Remove your jobs created before the retention period. The retention
defaults to staging.ttl in config.yml (168h when unset).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			s, err := sessionFrom(cmd)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("older-than") {
				if olderThan, err = s.env.StagingTTL(); err != nil {
					return err
				}
			}
			u, err := buildJobUseCase(cmd, historyOptional)
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Minute)
			defer cancel()
			ctx, cleanup := withCmdRunLogger(ctx, "job.clean", olderThan.String())
			defer func() { cleanup(err) }()

			out, err := u.Clean(ctx, &job.CleanInput{OlderThan: olderThan, DryRun: dryRun})
			w := cmd.OutOrStdout()
			verb := "Removed"
			if dryRun {
				verb = "Would remove"
			}
			if out != nil {
				for _, j := range out.Jobs {
					fmt.Fprintf(w, "%s %s (created %s)\n", verb, j.Name, j.CreatedAt.Local().Format(time.RFC3339))
				}
				if len(out.Jobs) == 0 {
					fmt.Fprintf(w, "No job older than %s is found.\n", olderThan)
				}
			}
			return err
		},
	}
	cmd.Flags().DurationVar(&olderThan, "older-than", 0, "Retention period (default staging.ttl)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Only print the jobs that would be removed")
	return cmd
}
