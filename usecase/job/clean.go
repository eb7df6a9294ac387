package job

import (
	"context"
	"fmt"
	"time"

	"github.com/hashicorp/go-multierror"

	"github.com/kompox/hotwings/domain/model"
	"github.com/kompox/hotwings/internal/logging"
)

// CleanInput selects stale jobs.
type CleanInput struct {
	// OlderThan is the retention; jobs created before now-OlderThan are
	// removed.
	OlderThan time.Duration `json:"older_than"`
	// DryRun reports the jobs without removing them.
	DryRun bool `json:"dry_run"`
}

// CleanOutput lists the jobs removed, or that would be removed on a dry run.
type CleanOutput struct {
	Jobs []*model.Job `json:"jobs"`
}

// Clean removes the caller's jobs older than the retention. Removal
// failures do not stop the sweep; they are returned together.
func (u *UseCase) Clean(ctx context.Context, in *CleanInput) (*CleanOutput, error) {
	if in == nil || in.OlderThan < 0 {
		return nil, fmt.Errorf("%w: retention must not be negative", model.ErrConfig)
	}
	jobs, err := u.listSorted(ctx)
	if err != nil {
		return nil, err
	}
	cutoff := u.now().Add(-in.OlderThan)
	logger := logging.FromContext(ctx)
	out := &CleanOutput{Jobs: []*model.Job{}}
	var result *multierror.Error
	for _, j := range jobs {
		if !j.CreatedAt.Before(cutoff) {
			continue
		}
		if in.DryRun {
			out.Jobs = append(out.Jobs, j)
			continue
		}
		if err := u.Repos.Job.Remove(ctx, j); err != nil {
			result = multierror.Append(result, err)
			continue
		}
		logger.Info(ctx, "job removed", "job", j.Name, "created_at", j.CreatedAt)
		out.Jobs = append(out.Jobs, j)
	}
	return out, result.ErrorOrNil()
}
