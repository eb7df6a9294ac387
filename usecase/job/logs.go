package job

import (
	"context"

	"github.com/kompox/hotwings/domain/model"
)

// LogsInput filters the submission history.
type LogsInput struct {
	// JobName restricts the history to one job when set.
	JobName string `json:"job_name,omitempty"`
	// Limit caps the number of records; 0 or negative means all.
	Limit int `json:"limit,omitempty"`
}

type LogsOutput struct {
	Submissions []*model.Submission `json:"submissions"`
}

// Logs returns the submission history, most recent first.
func (u *UseCase) Logs(ctx context.Context, in *LogsInput) (*LogsOutput, error) {
	if in == nil {
		in = &LogsInput{}
	}
	if u.Repos.Submission == nil {
		return &LogsOutput{Submissions: []*model.Submission{}}, nil
	}
	var (
		subs []*model.Submission
		err  error
	)
	if in.JobName != "" {
		subs, err = u.Repos.Submission.ListByJob(ctx, in.JobName)
	} else {
		subs, err = u.Repos.Submission.List(ctx)
	}
	if err != nil {
		return nil, err
	}
	if in.Limit > 0 && len(subs) > in.Limit {
		subs = subs[:in.Limit]
	}
	return &LogsOutput{Submissions: subs}, nil
}
