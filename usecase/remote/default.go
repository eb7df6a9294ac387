package remote

import (
	"context"

	"github.com/kompox/hotwings/domain/model"
)

// DefaultInput optionally names the new default remote.
type DefaultInput struct {
	Name string `json:"name,omitempty"`
}

type DefaultOutput struct {
	Remote *model.Remote `json:"remote"`
}

// Default returns the default remote, first making Name the default when it
// is given.
func (u *UseCase) Default(ctx context.Context, in *DefaultInput) (*DefaultOutput, error) {
	if in != nil && in.Name != "" {
		r, err := u.Repos.Remote.Resolve(ctx, in.Name)
		if err != nil {
			return nil, err
		}
		r.Default = true
		if err := u.Repos.Remote.Set(ctx, r); err != nil {
			return nil, err
		}
	}
	r, err := u.Repos.Remote.Default(ctx)
	if err != nil {
		return nil, err
	}
	return &DefaultOutput{Remote: r}, nil
}
