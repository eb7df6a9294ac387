package archive

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os/exec"
	"strings"

	"github.com/kompox/hotwings/domain"
	"github.com/kompox/hotwings/domain/model"
	"github.com/kompox/hotwings/internal/logging"
)

// ExecArchiver runs "tar -czf - ." in the reference directory and streams
// its standard output to the archive writer.
type ExecArchiver struct {
	// Command is the tar executable looked up in PATH.
	Command string
}

func NewExecArchiver() *ExecArchiver {
	return &ExecArchiver{Command: "tar"}
}

// Archive blocks until tar exits.
func (a *ExecArchiver) Archive(ctx context.Context, refDir string, w io.Writer) error {
	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, a.Command, "-czf", "-", ".")
	cmd.Dir = refDir
	cmd.Stdout = w
	cmd.Stderr = &stderr
	logging.FromContext(ctx).Debug(ctx, "running archiver", "cmd", cmd.String(), "dir", refDir)
	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg != "" {
			return fmt.Errorf("%w: %s in %s: %w: %s", model.ErrArchive, a.Command, refDir, err, msg)
		}
		return fmt.Errorf("%w: %s in %s: %w", model.ErrArchive, a.Command, refDir, err)
	}
	return nil
}

// Compile-time assertion.
var _ domain.ArchivePort = (*ExecArchiver)(nil)
