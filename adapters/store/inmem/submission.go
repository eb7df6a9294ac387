package inmem

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/kompox/hotwings/domain"
	"github.com/kompox/hotwings/domain/model"
)

// SubmissionRepository is a thread-safe in-memory implementation.
type SubmissionRepository struct {
	mu    sync.RWMutex
	items []*model.Submission
	seq   int64
}

func NewSubmissionRepository() *SubmissionRepository {
	return &SubmissionRepository{}
}

func (r *SubmissionRepository) nextID() string {
	r.seq++
	return fmt.Sprintf("sub-%d-%d", time.Now().UnixNano(), r.seq)
}

func (r *SubmissionRepository) Create(_ context.Context, s *model.Submission) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s.ID == "" {
		s.ID = r.nextID()
	}
	cp := *s
	r.items = append(r.items, &cp)
	return nil
}

// List returns submissions newest first.
func (r *SubmissionRepository) List(_ context.Context) ([]*model.Submission, error) {
	return r.filter(func(*model.Submission) bool { return true }), nil
}

func (r *SubmissionRepository) ListByJob(_ context.Context, jobName string) ([]*model.Submission, error) {
	return r.filter(func(s *model.Submission) bool { return s.JobName == jobName }), nil
}

func (r *SubmissionRepository) filter(keep func(*model.Submission) bool) []*model.Submission {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*model.Submission, 0, len(r.items))
	for _, v := range r.items {
		if keep(v) {
			cp := *v
			out = append(out, &cp)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

// Compile-time assertion.
var _ domain.SubmissionRepository = (*SubmissionRepository)(nil)
