// Package archive implements domain.ArchivePort. Two archivers are
// available: exec runs the system tar, builtin writes the tar stream itself.
package archive

import (
	"fmt"

	"github.com/kompox/hotwings/domain"
	"github.com/kompox/hotwings/domain/model"
)

const (
	NameExec    = "exec"
	NameBuiltin = "builtin"
)

// New returns the archiver registered under name.
func New(name string) (domain.ArchivePort, error) {
	switch name {
	case "", NameExec:
		return NewExecArchiver(), nil
	case NameBuiltin:
		return NewBuiltinArchiver(), nil
	default:
		return nil, fmt.Errorf("%w: unknown archiver %q", model.ErrConfig, name)
	}
}
