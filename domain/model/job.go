package model

import "time"

// Job file layout inside a staging workspace directory.
const (
	JobNamePrefix    = "hotwings"
	JobSuffixLength  = 6
	RefLinkName      = ".ref"
	PlaybookLinkName = ".playbook"
	ArchiveFileName  = "a.tgz"
)

// JobState is the lifecycle position of a job workspace.
type JobState string

const (
	JobStateEmpty     JobState = "Empty"
	JobStateAllocated JobState = "Allocated"
	JobStateLinked    JobState = "Linked"
	JobStateArchived  JobState = "Archived"
	JobStateSubmitted JobState = "Submitted"
)

// Job is an ephemeral workspace in the shared staging root representing one
// submission attempt.
type Job struct {
	Name      string    `json:"name"`      // directory name, <prefix>-<suffix>
	Path      string    `json:"path"`      // absolute directory path
	OwnerUID  int       `json:"ownerUid"`  // filesystem owner of the directory
	CreatedAt time.Time `json:"createdAt"` // directory change time
	State     JobState  `json:"state"`

	// RefDir and Playbook are filled by resolution helpers; empty when the
	// job is partial or its links no longer resolve.
	RefDir     string `json:"refDir,omitempty"`
	Playbook   string `json:"playbook,omitempty"`
	ResolveErr error  `json:"-"`
}

// Resolved reports whether both links of the job resolved.
func (j *Job) Resolved() bool {
	return j.ResolveErr == nil && j.RefDir != "" && j.Playbook != ""
}
