package remote

import (
	"context"

	"github.com/kompox/hotwings/domain/model"
)

func (u *UseCase) List(ctx context.Context) ([]*model.Remote, error) {
	return u.Repos.Remote.List(ctx)
}
