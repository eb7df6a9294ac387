package model

import "time"

// Submission records one attempt to post a job archive to a remote.
type Submission struct {
	ID         string    `json:"id"`
	JobName    string    `json:"jobName"`
	RemoteName string    `json:"remote"`
	URL        string    `json:"url"`
	Playbook   string    `json:"playbook"`
	User       string    `json:"user,omitempty"`
	StatusCode int       `json:"statusCode"`
	Response   string    `json:"response,omitempty"`
	Error      string    `json:"error,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

// Succeeded reports whether the remote accepted the submission.
func (s *Submission) Succeeded() bool {
	return s.Error == "" && s.StatusCode >= 200 && s.StatusCode < 300
}
