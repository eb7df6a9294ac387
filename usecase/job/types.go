package job

import (
	"time"

	"github.com/kompox/hotwings/domain"
)

// Repos holds repositories needed for job use cases.
type Repos struct {
	Job        domain.JobRepository
	Remote     domain.RemoteRepository
	Submission domain.SubmissionRepository
}

// UseCase wires repositories and ports needed for job use cases.
type UseCase struct {
	Repos       *Repos
	ArchivePort domain.ArchivePort
	SubmitPort  domain.SubmitPort
	// User is recorded on submissions.
	User string
	// Now defaults to time.Now.
	Now func() time.Time
}

// DefaultListLimit is the number of jobs returned by List when no limit is
// given.
const DefaultListLimit = 10

func (u *UseCase) now() time.Time {
	if u.Now != nil {
		return u.Now()
	}
	return time.Now()
}
