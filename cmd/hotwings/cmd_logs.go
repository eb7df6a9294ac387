package main

import (
	"context"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/kompox/hotwings/usecase/job"
)

func newCmdLogs() *cobra.Command {
	var (
		limit   int
		jsonOut bool
	)
	cmd := &cobra.Command{
		Use:   "logs [job]",
		Short: "Show the submission history",
		Long:  "Show the submission history, most recent first, optionally for a single job.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			u, err := buildJobUseCase(cmd, historyRequired)
			if err != nil {
				return err
			}
			in := &job.LogsInput{Limit: limit}
			if len(args) > 0 {
				in.JobName = args[0]
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), time.Minute)
			defer cancel()
			out, err := u.Logs(ctx, in)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			if jsonOut {
				return encodeJSON(w, out.Submissions)
			}
			if len(out.Submissions) == 0 {
				fmt.Fprintln(w, "No submission is found.")
				return nil
			}
			tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "TIME\tJOB\tREMOTE\tSTATUS\tPLAYBOOK\tRESULT")
			for _, s := range out.Submissions {
				result := "ok"
				if !s.Succeeded() {
					result = s.Error
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\t%s\n",
					s.CreatedAt.Local().Format("2006-01-02 15:04:05"), s.JobName, s.RemoteName, s.StatusCode, s.Playbook, result)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of records (0 for all)")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Print records as JSON")
	return cmd
}
