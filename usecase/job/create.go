package job

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/kompox/hotwings/domain/model"
	"github.com/kompox/hotwings/internal/logging"
	"github.com/kompox/hotwings/internal/pathutil"
)

// CreateInput identifies the reference directory and the playbook to track.
type CreateInput struct {
	// RefDir is the directory snapshotted into the job.
	RefDir string `json:"ref_dir"`
	// Playbook is the tracked file, absolute or relative to RefDir.
	Playbook string `json:"playbook"`
}

// CreateOutput contains the created job.
type CreateOutput struct {
	Job *model.Job `json:"job"`
}

// Create allocates a job, links it to the reference directory and playbook,
// and archives the reference directory into it. Archival is complete when
// Create returns. On failure the job is left at the last completed state.
func (u *UseCase) Create(ctx context.Context, in *CreateInput) (*CreateOutput, error) {
	if in == nil || in.RefDir == "" || in.Playbook == "" {
		return nil, fmt.Errorf("%w: reference directory and playbook are required", model.ErrJobInvalid)
	}
	playbook := in.Playbook
	if !filepath.IsAbs(playbook) {
		playbook = filepath.Join(in.RefDir, playbook)
	}
	if err := checkTracked(in.RefDir, playbook); err != nil {
		return nil, err
	}
	logger := logging.FromContext(ctx)

	job, err := u.Repos.Job.Allocate(ctx)
	if err != nil {
		return nil, err
	}
	logger = logger.With("job", job.Name)
	if err := u.Repos.Job.Link(ctx, job, in.RefDir, playbook); err != nil {
		return &CreateOutput{Job: job}, fmt.Errorf("job %s: %w", job.Name, err)
	}
	logger.Info(ctx, "job linked", "ref_dir", job.RefDir, "playbook", job.Playbook)

	if err := u.archive(ctx, job); err != nil {
		return &CreateOutput{Job: job}, fmt.Errorf("job %s: %w", job.Name, err)
	}
	job.State = model.JobStateArchived
	logger.Info(ctx, "job archived")
	return &CreateOutput{Job: job}, nil
}

// checkTracked rejects a playbook outside refDir before any job directory is
// allocated. Paths that do not exist yet are compared through their deepest
// existing ancestor; everything else is left to the job repository.
func checkTracked(refDir, playbook string) error {
	ref, err := pathutil.CanonicalPrefix(refDir)
	if err != nil {
		return nil
	}
	pb, err := pathutil.CanonicalPrefix(playbook)
	if err != nil {
		return nil
	}
	if _, ok := pathutil.Within(ref, pb); !ok {
		return fmt.Errorf("%w: %s is not under %s", model.ErrTrackedFileOutside, pb, ref)
	}
	return nil
}

func (u *UseCase) archive(ctx context.Context, job *model.Job) error {
	if u.ArchivePort == nil {
		return fmt.Errorf("%w: no archiver configured", model.ErrArchive)
	}
	ref, err := u.Repos.Job.ReferenceDirectory(ctx, job)
	if err != nil {
		return err
	}
	w, err := u.Repos.Job.CreateArchive(ctx, job)
	if err != nil {
		return err
	}
	if err := u.ArchivePort.Archive(ctx, ref, w); err != nil {
		_ = w.Close()
		return err
	}
	return w.Commit()
}
