package job

import (
	"context"
	"fmt"

	"github.com/kompox/hotwings/domain/model"
)

type GetInput struct {
	Name string `json:"name"`
}

type GetOutput struct {
	Job *model.Job `json:"job"`
	// Submissions is the history of the job, most recent first.
	Submissions []*model.Submission `json:"submissions,omitempty"`
}

// Get returns one of the caller's jobs with its submission history.
func (u *UseCase) Get(ctx context.Context, in *GetInput) (*GetOutput, error) {
	if in == nil || in.Name == "" {
		return nil, fmt.Errorf("%w: job name is required", model.ErrJobInvalid)
	}
	j, err := u.Repos.Job.Get(ctx, in.Name)
	if err != nil {
		return nil, err
	}
	out := &GetOutput{Job: j}
	if u.Repos.Submission != nil {
		subs, err := u.Repos.Submission.ListByJob(ctx, j.Name)
		if err != nil {
			return nil, err
		}
		out.Submissions = subs
	}
	u.markSubmitted(ctx, []*model.Job{j})
	return out, nil
}
