package remote

import (
	"context"

	"github.com/kompox/hotwings/domain/model"
)

type DeleteInput struct {
	Name string `json:"name"`
}

func (u *UseCase) Delete(ctx context.Context, in *DeleteInput) error {
	if in == nil || in.Name == "" {
		return model.ErrRemoteNotFound
	}
	return u.Repos.Remote.Delete(ctx, in.Name)
}
