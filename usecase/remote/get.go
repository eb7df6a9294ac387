package remote

import (
	"context"

	"github.com/kompox/hotwings/domain/model"
)

type GetInput struct {
	Name string `json:"name"`
}

type GetOutput struct {
	Remote *model.Remote `json:"remote"`
}

func (u *UseCase) Get(ctx context.Context, in *GetInput) (*GetOutput, error) {
	if in == nil || in.Name == "" {
		return nil, model.ErrRemoteNotFound
	}
	r, err := u.Repos.Remote.Resolve(ctx, in.Name)
	if err != nil {
		return nil, err
	}
	return &GetOutput{Remote: r}, nil
}
