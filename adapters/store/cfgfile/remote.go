// Package cfgfile implements domain.RemoteRepository on top of the remotes
// section of the hotwings config.yml.
package cfgfile

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/kompox/hotwings/config/hotwingsenv"
	"github.com/kompox/hotwings/domain"
	"github.com/kompox/hotwings/domain/model"
)

// RemoteRepository reads and writes remotes through a hotwingsenv.Env.
// Every mutation is saved immediately.
type RemoteRepository struct {
	mu  sync.Mutex
	env *hotwingsenv.Env
}

func NewRemoteRepository(env *hotwingsenv.Env) *RemoteRepository {
	return &RemoteRepository{env: env}
}

func toModel(r hotwingsenv.Remote) *model.Remote {
	return &model.Remote{Name: r.Name, URL: r.URL, Default: r.Default}
}

// Resolve returns the remote called name. More than one entry with the same
// name is reported as model.ErrRemoteAmbiguous.
func (r *RemoteRepository) Resolve(_ context.Context, name string) (*model.Remote, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var found []hotwingsenv.Remote
	for _, v := range r.env.Config.Remotes {
		if v.Name == name {
			found = append(found, v)
		}
	}
	switch len(found) {
	case 0:
		return nil, fmt.Errorf("%w: %s", model.ErrRemoteNotFound, name)
	case 1:
		return toModel(found[0]), nil
	default:
		return nil, fmt.Errorf("%w: %q is defined %d times in %s", model.ErrRemoteAmbiguous, name, len(found), r.env.ConfigPath)
	}
}

// Set adds or replaces a remote. Marking it default clears the flag on the
// others.
func (r *RemoteRepository) Set(_ context.Context, rm *model.Remote) error {
	if rm == nil {
		return model.ErrRemoteInvalid
	}
	if err := hotwingsenv.ValidateRemote(rm.Name, rm.URL); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	remotes := make([]hotwingsenv.Remote, 0, len(r.env.Config.Remotes)+1)
	replaced := 0
	for _, v := range r.env.Config.Remotes {
		if v.Name == rm.Name {
			replaced++
			v.URL, v.Default = rm.URL, rm.Default
		} else if rm.Default {
			v.Default = false
		}
		remotes = append(remotes, v)
	}
	if replaced > 1 {
		return fmt.Errorf("%w: %q is defined %d times", model.ErrRemoteAmbiguous, rm.Name, replaced)
	}
	if replaced == 0 {
		remotes = append(remotes, hotwingsenv.Remote{Name: rm.Name, URL: rm.URL, Default: rm.Default})
	}
	return r.save(remotes)
}

// Default returns the single remote carrying the default flag.
func (r *RemoteRepository) Default(_ context.Context) (*model.Remote, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var found []hotwingsenv.Remote
	for _, v := range r.env.Config.Remotes {
		if v.Default {
			found = append(found, v)
		}
	}
	switch len(found) {
	case 0:
		return nil, model.ErrNoDefaultRemote
	case 1:
		return toModel(found[0]), nil
	default:
		return nil, fmt.Errorf("%w: %d remotes are marked default", model.ErrConfig, len(found))
	}
}

func (r *RemoteRepository) List(_ context.Context) ([]*model.Remote, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*model.Remote, 0, len(r.env.Config.Remotes))
	for _, v := range r.env.Config.Remotes {
		out = append(out, toModel(v))
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// Delete removes every entry called name.
func (r *RemoteRepository) Delete(_ context.Context, name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	remotes := make([]hotwingsenv.Remote, 0, len(r.env.Config.Remotes))
	for _, v := range r.env.Config.Remotes {
		if v.Name != name {
			remotes = append(remotes, v)
		}
	}
	if len(remotes) == len(r.env.Config.Remotes) {
		return fmt.Errorf("%w: %s", model.ErrRemoteNotFound, name)
	}
	return r.save(remotes)
}

// save persists remotes, restoring the previous list if the write fails.
func (r *RemoteRepository) save(remotes []hotwingsenv.Remote) error {
	prev := r.env.Config.Remotes
	r.env.Config.Remotes = remotes
	if err := r.env.Save(); err != nil {
		r.env.Config.Remotes = prev
		return err
	}
	return nil
}

// Compile-time assertion.
var _ domain.RemoteRepository = (*RemoteRepository)(nil)
