package main

import (
	"os"
	"os/user"

	"github.com/spf13/cobra"

	"github.com/kompox/hotwings/adapters/archive"
	"github.com/kompox/hotwings/adapters/store/cfgfile"
	"github.com/kompox/hotwings/adapters/submit"
	"github.com/kompox/hotwings/usecase/job"
	"github.com/kompox/hotwings/usecase/remote"
)

// buildJobUseCase creates the job use case with repositories and ports.
// Commands that only read jobs pass historyOptional.
func buildJobUseCase(cmd *cobra.Command, mode historyMode) (*job.UseCase, error) {
	s, err := sessionFrom(cmd)
	if err != nil {
		return nil, err
	}
	repos, err := buildRepositories(cmd, mode)
	if err != nil {
		return nil, err
	}
	archiver, err := archive.New(s.env.ArchiverName())
	if err != nil {
		return nil, err
	}
	return &job.UseCase{
		Repos: &job.Repos{
			Job:        repos.Job,
			Remote:     repos.Remote,
			Submission: repos.Submission,
		},
		ArchivePort: archiver,
		SubmitPort:  submit.NewClient(version),
		User:        currentUserName(),
	}, nil
}

// buildRemoteUseCase creates the remote use case over config.yml.
func buildRemoteUseCase(cmd *cobra.Command) (*remote.UseCase, error) {
	s, err := sessionFrom(cmd)
	if err != nil {
		return nil, err
	}
	return &remote.UseCase{Repos: &remote.Repos{Remote: cfgfile.NewRemoteRepository(s.env)}}, nil
}

func currentUserName() string {
	if u, err := user.Current(); err == nil {
		return u.Username
	}
	return os.Getenv("USER")
}
