package inmem

import (
	"context"
	"sort"
	"sync"

	"github.com/kompox/hotwings/domain"
	"github.com/kompox/hotwings/domain/model"
)

// RemoteRepository is a thread-safe in-memory implementation. Setting a
// default remote clears the flag on all others.
type RemoteRepository struct {
	mu      sync.RWMutex
	remotes map[string]*model.Remote
}

func NewRemoteRepository() *RemoteRepository {
	return &RemoteRepository{remotes: make(map[string]*model.Remote)}
}

func (r *RemoteRepository) Resolve(_ context.Context, name string) (*model.Remote, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.remotes[name]
	if !ok {
		return nil, model.ErrRemoteNotFound
	}
	cp := *v
	return &cp, nil
}

func (r *RemoteRepository) Set(_ context.Context, rm *model.Remote) error {
	if rm == nil || rm.Name == "" {
		return model.ErrRemoteInvalid
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if rm.Default {
		for _, v := range r.remotes {
			v.Default = false
		}
	}
	cp := *rm
	r.remotes[rm.Name] = &cp
	return nil
}

func (r *RemoteRepository) Default(_ context.Context) (*model.Remote, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, v := range r.remotes {
		if v.Default {
			cp := *v
			return &cp, nil
		}
	}
	return nil, model.ErrNoDefaultRemote
}

func (r *RemoteRepository) List(_ context.Context) ([]*model.Remote, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*model.Remote, 0, len(r.remotes))
	for _, v := range r.remotes {
		cp := *v
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *RemoteRepository) Delete(_ context.Context, name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.remotes[name]; !ok {
		return model.ErrRemoteNotFound
	}
	delete(r.remotes, name)
	return nil
}

// Compile-time assertion.
var _ domain.RemoteRepository = (*RemoteRepository)(nil)
