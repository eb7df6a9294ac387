package remote

import (
	"context"
	"fmt"

	"github.com/kompox/hotwings/domain/model"
)

// SetInput adds or replaces a remote.
type SetInput struct {
	Name string `json:"name"`
	URL  string `json:"url"`
	// Default marks the remote as the default, clearing the flag elsewhere.
	Default bool `json:"default"`
}

type SetOutput struct {
	Remote *model.Remote `json:"remote"`
}

// Set stores a remote. Setting an existing remote without Default keeps its
// current default flag.
func (u *UseCase) Set(ctx context.Context, in *SetInput) (*SetOutput, error) {
	if in == nil || in.Name == "" || in.URL == "" {
		return nil, fmt.Errorf("%w: name and url are required", model.ErrRemoteInvalid)
	}
	r := &model.Remote{Name: in.Name, URL: in.URL, Default: in.Default}
	if !r.Default {
		if cur, err := u.Repos.Remote.Resolve(ctx, in.Name); err == nil {
			r.Default = cur.Default
		}
	}
	if err := u.Repos.Remote.Set(ctx, r); err != nil {
		return nil, err
	}
	return &SetOutput{Remote: r}, nil
}
