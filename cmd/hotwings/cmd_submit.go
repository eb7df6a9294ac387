package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/kompox/hotwings/domain/model"
	"github.com/kompox/hotwings/usecase/job"
)

// submitTimeout bounds archival plus upload.
const submitTimeout = 30 * time.Minute

func newCmdSubmit() *cobra.Command {
	var (
		remoteName string
		jobName    string
		prepare    bool
	)
	cmd := &cobra.Command{
		Use:     "submit [playbook]",
		Aliases: []string{"sub"},
		Short:   "Archive the current directory into a new job and submit it",
		Long: `Archive the current directory into a new job workspace in the staging
directory and post the archive with the playbook path to a remote.

The playbook defaults to playbook.yml and must lie under the current
directory. --prepare stops after archival. --job submits an existing job
instead of creating a new one.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			u, err := buildJobUseCase(cmd, historyRequired)
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), submitTimeout)
			defer cancel()
			w := cmd.OutOrStdout()

			if jobName != "" && len(args) > 0 {
				return errors.New("--job and a playbook argument are mutually exclusive")
			}
			if jobName != "" && prepare {
				return errors.New("--job and --prepare are mutually exclusive")
			}
			if jobName == "" {
				playbook := defaultPlaybookName
				if len(args) > 0 {
					playbook = args[0]
				}
				out, err := createJob(ctx, u, playbook)
				if err != nil {
					return err
				}
				jobName = out.Job.Name
				fmt.Fprintf(w, "Job %s created for %s\n", jobName, out.Job.Playbook)
				if prepare {
					return nil
				}
			}

			ctx, cleanup := withCmdRunLogger(ctx, "job.submit", jobName)
			defer func() { cleanup(err) }()
			out, err := u.Submit(ctx, &job.SubmitInput{JobName: jobName, Remote: remoteName})
			if err != nil {
				if out != nil && out.Submission.StatusCode != 0 {
					fmt.Fprintf(w, "Job %s rejected by %s (%d): %s\n", jobName, out.Submission.RemoteName, out.Submission.StatusCode, out.Submission.Response)
				}
				return err
			}
			fmt.Fprintf(w, "Job %s submitted to %s (%d) id=%s\n", jobName, out.Submission.RemoteName, out.Submission.StatusCode, out.Submission.ID)
			return nil
		},
	}
	cmd.Flags().StringVarP(&remoteName, "remote", "r", "", "Remote name (default: the default remote)")
	cmd.Flags().StringVar(&jobName, "job", "", "Submit an existing job instead of creating one")
	cmd.Flags().BoolVar(&prepare, "prepare", false, "Create and archive the job without submitting it")
	return cmd
}

// createJob creates a job for playbook with the current directory as the
// reference directory.
func createJob(ctx context.Context, u *job.UseCase, playbook string) (out *job.CreateOutput, err error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("%w: getting working directory: %w", model.ErrIO, err)
	}
	pb, err := filepath.Abs(playbook)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", model.ErrPath, err)
	}
	ctx, cleanup := withCmdRunLogger(ctx, "job.create", cwd)
	defer func() { cleanup(err) }()
	return u.Create(ctx, &job.CreateInput{RefDir: cwd, Playbook: pb})
}
