package job

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/kompox/hotwings/domain"
	"github.com/kompox/hotwings/domain/model"
	"github.com/kompox/hotwings/internal/logging"
)

// SubmitInput selects the job and the destination.
type SubmitInput struct {
	// JobName is the job to submit.
	JobName string `json:"job_name"`
	// Remote is the remote name; empty selects the default remote.
	Remote string `json:"remote,omitempty"`
}

// SubmitOutput holds the recorded submission. It is returned together with
// the error when the remote was reached but rejected the job.
type SubmitOutput struct {
	Submission *model.Submission `json:"submission"`
}

// Submit posts the archive of an archived job to a remote. A job without
// a committed archive is rejected with model.ErrArchiveMissing. Every
// attempt that reaches the submit port is recorded in the history.
func (u *UseCase) Submit(ctx context.Context, in *SubmitInput) (*SubmitOutput, error) {
	if in == nil || in.JobName == "" {
		return nil, fmt.Errorf("%w: job name is required", model.ErrJobInvalid)
	}
	if u.SubmitPort == nil {
		return nil, fmt.Errorf("%w: no submit client configured", model.ErrSubmission)
	}
	j, err := u.Repos.Job.Get(ctx, in.JobName)
	if err != nil {
		return nil, err
	}
	if !u.Repos.Job.HasArchive(ctx, j) {
		return nil, fmt.Errorf("%w: %s is %s", model.ErrArchiveMissing, j.Name, j.State)
	}
	remote, err := u.resolveRemote(ctx, in.Remote)
	if err != nil {
		return nil, err
	}
	playbook, err := u.Repos.Job.TrackedFile(ctx, j)
	if err != nil {
		return nil, err
	}
	archive, err := u.Repos.Job.OpenArchive(ctx, j)
	if err != nil {
		return nil, err
	}
	defer archive.Close()

	logger := logging.FromContext(ctx).With("job", j.Name, "remote", remote.Name)
	sub := &model.Submission{
		ID:         uuid.NewString(),
		JobName:    j.Name,
		RemoteName: remote.Name,
		URL:        remote.URL,
		Playbook:   playbook,
		User:       u.User,
		CreatedAt:  u.now().UTC(),
	}
	res, submitErr := u.SubmitPort.Submit(ctx, &domain.SubmitRequest{
		ID:       sub.ID,
		URL:      remote.URL,
		Playbook: playbook,
		Archive:  archive,
		FileName: model.ArchiveFileName,
	})
	if res != nil {
		sub.StatusCode = res.StatusCode
		sub.Response = res.Body
	}
	if submitErr != nil {
		sub.Error = submitErr.Error()
	}
	if u.Repos.Submission != nil {
		if err := u.Repos.Submission.Create(ctx, sub); err != nil {
			logger.Warn(ctx, "recording submission failed", "id", sub.ID, "err", err)
		}
	}
	out := &SubmitOutput{Submission: sub}
	if submitErr != nil {
		return out, fmt.Errorf("job %s: %w", j.Name, submitErr)
	}
	logger.Info(ctx, "job submitted", "id", sub.ID, "status", sub.StatusCode)
	return out, nil
}

func (u *UseCase) resolveRemote(ctx context.Context, name string) (*model.Remote, error) {
	if u.Repos.Remote == nil {
		return nil, fmt.Errorf("%w: no remote store configured", model.ErrConfig)
	}
	if name != "" {
		return u.Repos.Remote.Resolve(ctx, name)
	}
	return u.Repos.Remote.Default(ctx)
}
