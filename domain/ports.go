package domain

import (
	"context"
	"io"
)

// ArchivePort writes a gzip-compressed tar snapshot of a reference
// directory to w. Archive returns only after the snapshot is complete.
type ArchivePort interface {
	Archive(ctx context.Context, refDir string, w io.Writer) error
}

// SubmitRequest carries everything posted to a remote.
type SubmitRequest struct {
	ID       string
	URL      string
	Playbook string
	Archive  io.Reader
	FileName string
}

// SubmitResult is the remote's answer to a submission.
type SubmitResult struct {
	StatusCode int
	Body       string
}

// SubmitPort posts a job archive to a remote endpoint.
type SubmitPort interface {
	Submit(ctx context.Context, req *SubmitRequest) (*SubmitResult, error)
}
