package remote

import "github.com/kompox/hotwings/domain"

// Repos holds repositories needed for remote use cases.
type Repos struct {
	Remote domain.RemoteRepository
}

// UseCase wires repositories needed for remote use cases.
type UseCase struct {
	Repos *Repos
}
