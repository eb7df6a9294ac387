package inmem

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/kompox/hotwings/domain"
	"github.com/kompox/hotwings/domain/model"
	"github.com/kompox/hotwings/internal/naming"
	"github.com/kompox/hotwings/internal/pathutil"
)

// jobEntry keeps the two path references of a job: the absolute reference
// directory and the playbook path relative to it.
type jobEntry struct {
	job      model.Job
	refDir   string
	playbook string
	linked   bool
	archive  []byte
	partial  []byte
}

// JobRepository is a thread-safe in-memory implementation that does not
// touch the filesystem. Paths passed to Link are cleaned, not canonicalized.
type JobRepository struct {
	mu   sync.RWMutex
	jobs map[string]*jobEntry
	// Root is reported as the parent of every job path.
	Root string
	// UID is the owner recorded on allocated jobs and used to filter List.
	UID int
	// Now returns the creation time of allocated jobs.
	Now func() time.Time
}

func NewJobRepository() *JobRepository {
	return &JobRepository{
		jobs: make(map[string]*jobEntry),
		Root: "/staging",
		Now:  func() time.Time { return time.Now().UTC() },
	}
}

func (r *JobRepository) Allocate(_ context.Context) (*model.Job, error) {
	suffix, err := naming.NewSuffix(model.JobSuffixLength)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", model.ErrIO, err)
	}
	name := naming.JobName(model.JobNamePrefix, suffix)
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.jobs[name]; ok {
		return nil, fmt.Errorf("%w: job %s already exists", model.ErrIO, name)
	}
	j := model.Job{
		Name:      name,
		Path:      filepath.Join(r.Root, name),
		OwnerUID:  r.UID,
		CreatedAt: r.Now(),
		State:     model.JobStateAllocated,
	}
	r.jobs[name] = &jobEntry{job: j}
	cp := j
	return &cp, nil
}

// Put stores a job as is; used to seed jobs owned by other users.
func (r *JobRepository) Put(job *model.Job, refDir, playbook string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e := &jobEntry{job: *job, refDir: refDir, playbook: playbook, linked: refDir != ""}
	r.jobs[job.Name] = e
}

func (r *JobRepository) Link(_ context.Context, job *model.Job, refDir, playbook string) error {
	if job == nil {
		return model.ErrJobInvalid
	}
	ref := filepath.Clean(refDir)
	if !filepath.IsAbs(ref) {
		return fmt.Errorf("%w: reference directory %q is not absolute", model.ErrIO, refDir)
	}
	pb := playbook
	if !filepath.IsAbs(pb) {
		pb = filepath.Join(ref, pb)
	}
	rel, ok := pathutil.Within(ref, filepath.Clean(pb))
	if !ok {
		return fmt.Errorf("%w: %s is not under %s", model.ErrTrackedFileOutside, pb, ref)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.jobs[job.Name]
	if !ok {
		return model.ErrJobNotFound
	}
	e.refDir, e.playbook, e.linked = ref, rel, true
	e.job.State = model.JobStateLinked
	job.RefDir, job.Playbook, job.State, job.ResolveErr = ref, rel, model.JobStateLinked, nil
	return nil
}

func (r *JobRepository) List(_ context.Context) ([]*model.Job, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*model.Job, 0, len(r.jobs))
	for _, e := range r.jobs {
		if e.job.OwnerUID != r.UID {
			continue
		}
		out = append(out, r.snapshot(e))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *JobRepository) Get(_ context.Context, name string) (*model.Job, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.jobs[name]
	if !ok || e.job.OwnerUID != r.UID {
		return nil, model.ErrJobNotFound
	}
	return r.snapshot(e), nil
}

// snapshot returns a resolved copy of e. Caller holds the lock.
func (r *JobRepository) snapshot(e *jobEntry) *model.Job {
	cp := e.job
	switch {
	case !e.linked:
		cp.State = model.JobStateAllocated
		cp.ResolveErr = fmt.Errorf("%w: %s is not linked", model.ErrIO, cp.Name)
	case e.archive != nil:
		cp.State = model.JobStateArchived
	default:
		cp.State = model.JobStateLinked
	}
	if e.linked {
		cp.RefDir, cp.Playbook = e.refDir, e.playbook
	}
	return &cp
}

func (r *JobRepository) entry(job *model.Job) (*jobEntry, error) {
	e, ok := r.jobs[job.Name]
	if !ok {
		return nil, model.ErrJobNotFound
	}
	if !e.linked {
		return nil, fmt.Errorf("%w: %s is not linked", model.ErrIO, job.Name)
	}
	return e, nil
}

func (r *JobRepository) ReferenceDirectory(_ context.Context, job *model.Job) (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, err := r.entry(job)
	if err != nil {
		return "", err
	}
	return e.refDir, nil
}

func (r *JobRepository) TrackedFile(_ context.Context, job *model.Job) (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, err := r.entry(job)
	if err != nil {
		return "", err
	}
	rel, ok := pathutil.Within(e.refDir, filepath.Join(e.refDir, e.playbook))
	if !ok {
		return "", fmt.Errorf("%w: %s", model.ErrTrackedFileOutside, job.Name)
	}
	return rel, nil
}

func (r *JobRepository) CreateArchive(_ context.Context, job *model.Job) (domain.ArchiveWriter, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if _, ok := r.jobs[job.Name]; !ok {
		return nil, model.ErrJobNotFound
	}
	return &archiveBuffer{repo: r, name: job.Name}, nil
}

func (r *JobRepository) OpenArchive(_ context.Context, job *model.Job) (io.ReadCloser, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.jobs[job.Name]
	if !ok || e.archive == nil {
		return nil, fmt.Errorf("%w: %s", model.ErrArchiveMissing, job.Name)
	}
	return io.NopCloser(bytes.NewReader(e.archive)), nil
}

func (r *JobRepository) HasArchive(_ context.Context, job *model.Job) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.jobs[job.Name]
	return ok && len(e.archive) > 0
}

// Partial returns the data left by an archive writer closed without commit.
func (r *JobRepository) Partial(name string) []byte {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if e, ok := r.jobs[name]; ok {
		return e.partial
	}
	return nil
}

func (r *JobRepository) Remove(_ context.Context, job *model.Job) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.jobs[job.Name]
	if !ok || e.job.OwnerUID != r.UID {
		return model.ErrJobNotFound
	}
	delete(r.jobs, job.Name)
	return nil
}

type archiveBuffer struct {
	bytes.Buffer
	repo *JobRepository
	name string
}

func (a *archiveBuffer) Close() error {
	a.repo.mu.Lock()
	defer a.repo.mu.Unlock()
	if e, ok := a.repo.jobs[a.name]; ok {
		e.partial = append([]byte(nil), a.Bytes()...)
	}
	return nil
}

func (a *archiveBuffer) Commit() error {
	a.repo.mu.Lock()
	defer a.repo.mu.Unlock()
	e, ok := a.repo.jobs[a.name]
	if !ok {
		return model.ErrJobNotFound
	}
	e.archive = append([]byte{}, a.Bytes()...)
	e.partial = nil
	return nil
}

// Compile-time assertion.
var _ domain.JobRepository = (*JobRepository)(nil)
