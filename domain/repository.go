package domain

import (
	"context"
	"io"

	"github.com/kompox/hotwings/domain/model"
)

// JobRepository allocates, links and enumerates job workspaces in a shared
// staging root. List returns only jobs owned by the invoking user.
type JobRepository interface {
	Allocate(ctx context.Context) (*model.Job, error)
	Link(ctx context.Context, job *model.Job, refDir, playbook string) error
	List(ctx context.Context) ([]*model.Job, error)
	Get(ctx context.Context, name string) (*model.Job, error)
	ReferenceDirectory(ctx context.Context, job *model.Job) (string, error)
	TrackedFile(ctx context.Context, job *model.Job) (string, error)
	CreateArchive(ctx context.Context, job *model.Job) (ArchiveWriter, error)
	OpenArchive(ctx context.Context, job *model.Job) (io.ReadCloser, error)
	HasArchive(ctx context.Context, job *model.Job) bool
	Remove(ctx context.Context, job *model.Job) error
}

// ArchiveWriter receives the archive of a job. Close without Commit leaves
// the partial data in place for inspection; Commit closes and publishes it.
type ArchiveWriter interface {
	io.WriteCloser
	Commit() error
}

// RemoteRepository stores named upload destinations.
type RemoteRepository interface {
	Resolve(ctx context.Context, name string) (*model.Remote, error)
	Set(ctx context.Context, r *model.Remote) error
	Default(ctx context.Context) (*model.Remote, error)
	List(ctx context.Context) ([]*model.Remote, error)
	Delete(ctx context.Context, name string) error
}

// SubmissionRepository stores the submission history.
type SubmissionRepository interface {
	Create(ctx context.Context, s *model.Submission) error
	List(ctx context.Context) ([]*model.Submission, error)
	ListByJob(ctx context.Context, jobName string) ([]*model.Submission, error)
}

// Repositories groups repository interfaces used by the use cases.
type Repositories struct {
	Job        JobRepository
	Remote     RemoteRepository
	Submission SubmissionRepository
}
