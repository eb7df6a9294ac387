// Package staging implements domain.JobRepository on a shared staging
// directory. Each job is a directory named <prefix>-<suffix> holding two
// symbolic links: .ref points at the reference directory with an absolute
// target, and .playbook points at .ref/<relative path> so that resolving it
// always passes through .ref.
package staging

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/kompox/hotwings/domain"
	"github.com/kompox/hotwings/domain/model"
	"github.com/kompox/hotwings/internal/logging"
	"github.com/kompox/hotwings/internal/naming"
	"github.com/kompox/hotwings/internal/pathutil"
)

// Repository is the filesystem job repository.
type Repository struct {
	// Root is the shared staging directory.
	Root string
	// Prefix is the fixed job name prefix.
	Prefix string
	// UID is the identity jobs are attributed to.
	UID int
}

// NewRepository returns a repository rooted at root attributed to the
// current process user.
func NewRepository(root string) *Repository {
	return &Repository{Root: root, Prefix: model.JobNamePrefix, UID: currentUID()}
}

// Allocate creates a fresh job directory. A name collision is reported as an
// I/O error and never retried.
func (r *Repository) Allocate(ctx context.Context) (*model.Job, error) {
	suffix, err := naming.NewSuffix(model.JobSuffixLength)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", model.ErrIO, err)
	}
	name := naming.JobName(r.Prefix, suffix)
	path := filepath.Join(r.Root, name)
	if err := os.Mkdir(path, 0o700); err != nil {
		return nil, fmt.Errorf("%w: allocating job directory %q: %w", model.ErrIO, path, err)
	}
	st, err := statOwner(path)
	if err != nil {
		return nil, fmt.Errorf("%w: stat %q: %w", model.ErrIO, path, err)
	}
	logging.FromContext(ctx).Debug(ctx, "job directory allocated", "job", name, "path", path)
	return &model.Job{
		Name:      name,
		Path:      path,
		OwnerUID:  st.uid,
		CreatedAt: st.ctime,
		State:     model.JobStateAllocated,
	}, nil
}

// Link creates the .ref and .playbook links of job. The playbook must be the
// reference directory itself or lie below it once both are canonicalized.
func (r *Repository) Link(ctx context.Context, job *model.Job, refDir, playbook string) error {
	if job == nil || job.Path == "" {
		return model.ErrJobInvalid
	}
	ref, err := pathutil.Canonical(refDir)
	if err != nil {
		return fmt.Errorf("%w: reference directory: %w", model.ErrIO, err)
	}
	if pb, err := pathutil.CanonicalPrefix(playbook); err == nil {
		if _, ok := pathutil.Within(ref, pb); !ok {
			return fmt.Errorf("%w: %s is not under %s", model.ErrTrackedFileOutside, pb, ref)
		}
	}
	pb, err := pathutil.Canonical(playbook)
	if err != nil {
		return fmt.Errorf("%w: playbook: %w", model.ErrIO, err)
	}
	rel, ok := pathutil.Within(ref, pb)
	if !ok {
		return fmt.Errorf("%w: %s is not under %s", model.ErrTrackedFileOutside, pb, ref)
	}
	if err := os.Symlink(ref, filepath.Join(job.Path, model.RefLinkName)); err != nil {
		return fmt.Errorf("%w: linking reference directory: %w", model.ErrIO, err)
	}
	target := filepath.Join(model.RefLinkName, rel)
	if err := os.Symlink(target, filepath.Join(job.Path, model.PlaybookLinkName)); err != nil {
		return fmt.Errorf("%w: linking playbook: %w", model.ErrIO, err)
	}
	job.RefDir = ref
	job.Playbook = rel
	job.ResolveErr = nil
	job.State = model.JobStateLinked
	logging.FromContext(ctx).Debug(ctx, "job linked", "job", job.Name, "ref_dir", ref, "playbook", rel)
	return nil
}

// List enumerates the jobs in Root owned by UID. Entries that disappear or
// cannot be inspected are skipped; only failure to read Root is an error.
func (r *Repository) List(ctx context.Context) ([]*model.Job, error) {
	entries, err := os.ReadDir(r.Root)
	if err != nil {
		return nil, fmt.Errorf("%w: enumerating %s: %w", model.ErrIO, r.Root, err)
	}
	logger := logging.FromContext(ctx)
	var out []*model.Job
	for _, e := range entries {
		if !naming.HasJobPrefix(e.Name(), r.Prefix) {
			continue
		}
		job, err := r.inspect(e.Name())
		if err != nil {
			logger.Debug(ctx, "skipping staging entry", "entry", e.Name(), "err", err)
			continue
		}
		r.resolve(ctx, job)
		out = append(out, job)
	}
	return out, nil
}

// Get returns the job named name if it is owned by UID.
func (r *Repository) Get(ctx context.Context, name string) (*model.Job, error) {
	if !naming.HasJobPrefix(name, r.Prefix) || filepath.Base(name) != name {
		return nil, model.ErrJobNotFound
	}
	job, err := r.inspect(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", model.ErrJobNotFound, name, err)
	}
	r.resolve(ctx, job)
	return job, nil
}

// inspect stats an entry and applies the ownership filter before any link is
// touched.
func (r *Repository) inspect(name string) (*model.Job, error) {
	path := filepath.Join(r.Root, name)
	st, err := statOwner(path)
	if err != nil {
		return nil, err
	}
	if st.uid != r.UID {
		return nil, errNotOwned
	}
	if !st.isDir {
		return nil, errNotDir
	}
	return &model.Job{
		Name:      name,
		Path:      path,
		OwnerUID:  st.uid,
		CreatedAt: st.ctime,
		State:     model.JobStateAllocated,
	}, nil
}

// resolve fills the reference directory, playbook and state of job. Failures
// are recorded on the job rather than returned.
func (r *Repository) resolve(ctx context.Context, job *model.Job) {
	if _, err := os.Lstat(filepath.Join(job.Path, model.RefLinkName)); err != nil {
		job.ResolveErr = fmt.Errorf("%w: %w", model.ErrIO, err)
		return
	}
	job.State = model.JobStateLinked
	ref, err := r.ReferenceDirectory(ctx, job)
	if err != nil {
		job.ResolveErr = err
	} else if pb, err := r.TrackedFile(ctx, job); err != nil {
		job.ResolveErr = err
	} else {
		job.RefDir, job.Playbook, job.ResolveErr = ref, pb, nil
	}
	if r.HasArchive(ctx, job) {
		job.State = model.JobStateArchived
	}
}

// ReferenceDirectory resolves the .ref link to a canonical absolute path.
func (r *Repository) ReferenceDirectory(_ context.Context, job *model.Job) (string, error) {
	ref, err := pathutil.Canonical(filepath.Join(job.Path, model.RefLinkName))
	if err != nil {
		return "", fmt.Errorf("%w: resolving %s of %s: %w", model.ErrIO, model.RefLinkName, job.Name, err)
	}
	return ref, nil
}

// TrackedFile resolves the .playbook link and returns it relative to the
// resolved reference directory.
func (r *Repository) TrackedFile(ctx context.Context, job *model.Job) (string, error) {
	pb, err := pathutil.Canonical(filepath.Join(job.Path, model.PlaybookLinkName))
	if err != nil {
		return "", fmt.Errorf("%w: resolving %s of %s: %w", model.ErrIO, model.PlaybookLinkName, job.Name, err)
	}
	ref, err := r.ReferenceDirectory(ctx, job)
	if err != nil {
		return "", err
	}
	rel, ok := pathutil.Within(ref, pb)
	if !ok {
		return "", fmt.Errorf("%w: %s resolves to %s", model.ErrTrackedFileOutside, job.Name, pb)
	}
	return rel, nil
}

// ArchivePath returns the location of the job archive.
func (r *Repository) ArchivePath(job *model.Job) string {
	return filepath.Join(job.Path, model.ArchiveFileName)
}

// CreateArchive opens <job>/a.tgz.partial for writing. Commit renames it to
// a.tgz; Close alone leaves the partial file behind.
func (r *Repository) CreateArchive(_ context.Context, job *model.Job) (domain.ArchiveWriter, error) {
	final := r.ArchivePath(job)
	partial := final + partialSuffix
	f, err := os.OpenFile(partial, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		return nil, fmt.Errorf("%w: creating archive: %w", model.ErrIO, err)
	}
	return &archiveFile{File: f, final: final}, nil
}

// OpenArchive opens the committed archive of job.
func (r *Repository) OpenArchive(ctx context.Context, job *model.Job) (io.ReadCloser, error) {
	if !r.HasArchive(ctx, job) {
		return nil, fmt.Errorf("%w: %s", model.ErrArchiveMissing, job.Name)
	}
	f, err := os.Open(r.ArchivePath(job))
	if err != nil {
		return nil, fmt.Errorf("%w: opening archive: %w", model.ErrIO, err)
	}
	return f, nil
}

// HasArchive reports whether a committed non-empty archive exists in job.
func (r *Repository) HasArchive(_ context.Context, job *model.Job) bool {
	fi, err := os.Lstat(r.ArchivePath(job))
	return err == nil && fi.Mode().IsRegular() && fi.Size() > 0
}

const partialSuffix = ".partial"

type archiveFile struct {
	*os.File
	final string
}

func (a *archiveFile) Commit() error {
	if err := a.File.Sync(); err != nil {
		_ = a.File.Close()
		return fmt.Errorf("%w: syncing archive: %w", model.ErrIO, err)
	}
	if err := a.File.Close(); err != nil {
		return fmt.Errorf("%w: closing archive: %w", model.ErrIO, err)
	}
	if err := os.Rename(a.File.Name(), a.final); err != nil {
		return fmt.Errorf("%w: publishing archive: %w", model.ErrIO, err)
	}
	return nil
}

// Remove deletes the job directory. Only jobs owned by UID below Root are
// removed.
func (r *Repository) Remove(ctx context.Context, job *model.Job) error {
	if job == nil || job.Name == "" {
		return model.ErrJobInvalid
	}
	current, err := r.inspect(job.Name)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", model.ErrJobNotFound, job.Name, err)
	}
	if err := os.RemoveAll(current.Path); err != nil {
		return fmt.Errorf("%w: removing %s: %w", model.ErrIO, current.Path, err)
	}
	logging.FromContext(ctx).Debug(ctx, "job removed", "job", job.Name)
	return nil
}

var (
	errNotOwned = errors.New("not owned by current user")
	errNotDir   = errors.New("not a directory")
)

// Compile-time assertion.
var _ domain.JobRepository = (*Repository)(nil)
