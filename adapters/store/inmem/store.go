package inmem

import (
	"context"

	"github.com/kompox/hotwings/domain"
	"github.com/kompox/hotwings/domain/model"
)

// Store provides a unified interface for all in-memory repositories.
type Store struct {
	JobRepository        *JobRepository
	RemoteRepository     *RemoteRepository
	SubmissionRepository *SubmissionRepository
}

// NewStore creates a new in-memory store with all repositories.
func NewStore() *Store {
	return &Store{
		JobRepository:        NewJobRepository(),
		RemoteRepository:     NewRemoteRepository(),
		SubmissionRepository: NewSubmissionRepository(),
	}
}

// LoadRemotes seeds the remote repository.
func (s *Store) LoadRemotes(ctx context.Context, remotes []*model.Remote) error {
	for _, r := range remotes {
		if err := s.RemoteRepository.Set(ctx, r); err != nil {
			return err
		}
	}
	return nil
}

// Repositories returns the store as domain repositories.
func (s *Store) Repositories() *domain.Repositories {
	return &domain.Repositories{
		Job:        s.JobRepository,
		Remote:     s.RemoteRepository,
		Submission: s.SubmissionRepository,
	}
}
