package job

import (
	"context"
	"sort"

	"github.com/kompox/hotwings/domain/model"
	"github.com/kompox/hotwings/internal/logging"
)

// ListInput controls how many jobs are returned.
type ListInput struct {
	// Limit is the maximum number of jobs; 0 means DefaultListLimit and a
	// negative value means no limit.
	Limit int `json:"limit"`
}

// ListOutput contains the most recent jobs first.
type ListOutput struct {
	Jobs []*model.Job `json:"jobs"`
	// Total is the number of jobs before truncation.
	Total int `json:"total"`
}

// List returns the caller's jobs ordered by creation time, most recent
// first.
func (u *UseCase) List(ctx context.Context, in *ListInput) (*ListOutput, error) {
	limit := DefaultListLimit
	if in != nil && in.Limit != 0 {
		limit = in.Limit
	}
	jobs, err := u.listSorted(ctx)
	if err != nil {
		return nil, err
	}
	out := &ListOutput{Total: len(jobs)}
	if limit > 0 && len(jobs) > limit {
		jobs = jobs[:limit]
	}
	u.markSubmitted(ctx, jobs)
	out.Jobs = jobs
	return out, nil
}

func (u *UseCase) listSorted(ctx context.Context) ([]*model.Job, error) {
	jobs, err := u.Repos.Job.List(ctx)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(jobs, func(i, j int) bool {
		if jobs[i].CreatedAt.Equal(jobs[j].CreatedAt) {
			return jobs[i].Name < jobs[j].Name
		}
		return jobs[i].CreatedAt.After(jobs[j].CreatedAt)
	})
	return jobs, nil
}

// markSubmitted promotes archived jobs with a successful submission in the
// history to JobStateSubmitted.
func (u *UseCase) markSubmitted(ctx context.Context, jobs []*model.Job) {
	if u.Repos.Submission == nil {
		return
	}
	for _, j := range jobs {
		if j.State != model.JobStateArchived {
			continue
		}
		subs, err := u.Repos.Submission.ListByJob(ctx, j.Name)
		if err != nil {
			logging.FromContext(ctx).Debug(ctx, "reading submission history failed", "job", j.Name, "err", err)
			continue
		}
		for _, s := range subs {
			if s.Succeeded() {
				j.State = model.JobStateSubmitted
				break
			}
		}
	}
}
