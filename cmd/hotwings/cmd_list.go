package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/kompox/hotwings/domain/model"
	"github.com/kompox/hotwings/usecase/job"
)

const noJobMessage = "No job is found. Run 'hotwings submit' to create one."

func newCmdList() *cobra.Command {
	var jsonOut bool
	cmd := &cobra.Command{
		Use:   "list [N]",
		Short: "List your most recent jobs",
		Long:  "List your jobs in the staging directory, most recent first. N defaults to 10.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			limit := job.DefaultListLimit
			if len(args) > 0 {
				n, err := strconv.Atoi(args[0])
				if err != nil || n <= 0 {
					return fmt.Errorf("invalid job count %q: must be a positive integer", args[0])
				}
				limit = n
			}
			u, err := buildJobUseCase(cmd, historyOptional)
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), time.Minute)
			defer cancel()
			out, err := u.List(ctx, &job.ListInput{Limit: limit})
			if err != nil {
				return err
			}
			if jsonOut {
				return encodeJSON(cmd.OutOrStdout(), out.Jobs)
			}
			if len(out.Jobs) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), noJobMessage)
				return nil
			}
			printJobs(cmd.OutOrStdout(), out.Jobs, true)
			if out.Total > len(out.Jobs) {
				fmt.Fprintf(cmd.OutOrStdout(), "(%d of %d jobs shown)\n", len(out.Jobs), out.Total)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Print jobs as JSON")
	return cmd
}

func newCmdStatus() *cobra.Command {
	var jsonOut bool
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the jobs created from the current directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			u, err := buildJobUseCase(cmd, historyOptional)
			if err != nil {
				return err
			}
			cwd, err := os.Getwd()
			if err != nil {
				return fmt.Errorf("%w: getting working directory: %w", model.ErrIO, err)
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), time.Minute)
			defer cancel()
			out, err := u.Status(ctx, &job.StatusInput{Dir: cwd})
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			if jsonOut {
				return encodeJSON(w, out)
			}
			switch len(out.Jobs) {
			case 0:
				fmt.Fprintf(w, "No job is found for %s.\n", out.Dir)
				return nil
			case 1:
				fmt.Fprintf(w, "1 job is found for %s:\n", out.Dir)
			default:
				fmt.Fprintf(w, "%d jobs are found for %s:\n", len(out.Jobs), out.Dir)
			}
			printJobs(w, out.Jobs, false)
			return nil
		},
	}
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Print jobs as JSON")
	return cmd
}

// printJobs writes a job table. Jobs whose links no longer resolve are
// shown as unresolvable instead of failing the listing.
func printJobs(w io.Writer, jobs []*model.Job, withRef bool) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	if withRef {
		fmt.Fprintln(tw, "NAME\tCREATED\tSTATE\tPLAYBOOK\tDIRECTORY")
	} else {
		fmt.Fprintln(tw, "NAME\tCREATED\tSTATE\tPLAYBOOK")
	}
	for _, j := range jobs {
		playbook, ref := j.Playbook, j.RefDir
		if !j.Resolved() {
			playbook, ref = "-", "(unresolvable)"
		}
		created := j.CreatedAt.Local().Format("2006-01-02 15:04:05")
		if withRef {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", j.Name, created, j.State, playbook, ref)
		} else {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", j.Name, created, j.State, playbook)
		}
	}
	_ = tw.Flush()
}

func encodeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
