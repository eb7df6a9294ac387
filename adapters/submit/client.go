// Package submit implements domain.SubmitPort as a multipart/form-data HTTP
// client.
package submit

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/kompox/hotwings/domain"
	"github.com/kompox/hotwings/domain/model"
	"github.com/kompox/hotwings/internal/logging"
)

const (
	FieldArchive  = "job_archive"
	FieldPlaybook = "playbook_name"

	// HeaderSubmission carries the submission ID recorded in the history.
	HeaderSubmission = "X-Hotwings-Submission"

	// MaxResponseBody is the number of response bytes kept in the result.
	MaxResponseBody = 4 << 10
)

// Client posts job archives. It performs a single attempt per call.
type Client struct {
	HTTP      *http.Client
	UserAgent string
}

// NewClient returns a client identifying itself as hotwings/<version>.
func NewClient(version string) *Client {
	return &Client{HTTP: http.DefaultClient, UserAgent: "hotwings/" + version}
}

// Submit streams the archive as the job_archive field and blocks until the
// remote answers. A transport failure or non-2xx status is an
// model.ErrSubmission; the result is returned in both cases when a response
// was received.
func (c *Client) Submit(ctx context.Context, req *domain.SubmitRequest) (*domain.SubmitResult, error) {
	if req == nil || req.Archive == nil {
		return nil, fmt.Errorf("%w: nothing to submit", model.ErrSubmission)
	}
	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)
	go func() {
		pw.CloseWithError(writeForm(mw, req))
	}()

	hreq, err := http.NewRequestWithContext(ctx, http.MethodPost, req.URL, pr)
	if err != nil {
		pr.Close()
		return nil, fmt.Errorf("%w: %w", model.ErrSubmission, err)
	}
	hreq.Header.Set("Content-Type", mw.FormDataContentType())
	hreq.Header.Set("User-Agent", c.UserAgent)
	if req.ID != "" {
		hreq.Header.Set(HeaderSubmission, req.ID)
	}

	logger := logging.FromContext(ctx)
	logger.Debug(ctx, "posting job archive", "url", req.URL, "playbook", req.Playbook, "id", req.ID)
	httpClient := c.HTTP
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	resp, err := httpClient.Do(hreq)
	if err != nil {
		pr.Close()
		return nil, fmt.Errorf("%w: POST %s: %w", model.ErrSubmission, req.URL, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxResponseBody))
	if err != nil {
		logger.Warn(ctx, "reading response body failed", "err", err)
	}
	res := &domain.SubmitResult{StatusCode: resp.StatusCode, Body: string(body)}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return res, fmt.Errorf("%w: POST %s: %s", model.ErrSubmission, req.URL, resp.Status)
	}
	return res, nil
}

func writeForm(mw *multipart.Writer, req *domain.SubmitRequest) error {
	if err := mw.WriteField(FieldPlaybook, req.Playbook); err != nil {
		return err
	}
	name := req.FileName
	if name == "" {
		name = model.ArchiveFileName
	}
	part, err := mw.CreateFormFile(FieldArchive, name)
	if err != nil {
		return err
	}
	if _, err := io.Copy(part, req.Archive); err != nil {
		return err
	}
	return mw.Close()
}

// Compile-time assertion.
var _ domain.SubmitPort = (*Client)(nil)
