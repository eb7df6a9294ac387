package job

import (
	"context"
	"fmt"

	"github.com/kompox/hotwings/domain/model"
	"github.com/kompox/hotwings/internal/pathutil"
)

// StatusInput names the directory to match.
type StatusInput struct {
	// Dir is compared with each job's reference directory after both are
	// canonicalized. Only exact matches count.
	Dir string `json:"dir"`
}

// StatusOutput contains the matching jobs, most recent first.
type StatusOutput struct {
	Dir  string       `json:"dir"`
	Jobs []*model.Job `json:"jobs"`
}

// Status returns the jobs whose reference directory is exactly Dir.
// Unresolvable jobs never match.
func (u *UseCase) Status(ctx context.Context, in *StatusInput) (*StatusOutput, error) {
	if in == nil || in.Dir == "" {
		return nil, fmt.Errorf("%w: directory is required", model.ErrJobInvalid)
	}
	dir, err := pathutil.Canonical(in.Dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", model.ErrIO, err)
	}
	jobs, err := u.listSorted(ctx)
	if err != nil {
		return nil, err
	}
	out := &StatusOutput{Dir: dir, Jobs: []*model.Job{}}
	for _, j := range jobs {
		if j.Resolved() && j.RefDir == dir {
			out.Jobs = append(out.Jobs, j)
		}
	}
	u.markSubmitted(ctx, out.Jobs)
	return out, nil
}
