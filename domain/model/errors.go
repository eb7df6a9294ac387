package model

import (
	"errors"
	"fmt"
)

// Error categories. Concrete errors wrap one of these so callers can test the
// category with errors.Is.
var (
	ErrIO         = errors.New("i/o error")
	ErrPath       = errors.New("path error")
	ErrArchive    = errors.New("archive error")
	ErrSubmission = errors.New("submission error")
	ErrConfig     = errors.New("config error")
	ErrState      = errors.New("state error")
)

var (
	ErrJobNotFound        = fmt.Errorf("%w: job not found", ErrIO)
	ErrJobInvalid         = errors.New("job invalid")
	ErrTrackedFileOutside = fmt.Errorf("%w: tracked file not under reference directory", ErrPath)
	ErrArchiveMissing     = fmt.Errorf("%w: job has no archive", ErrState)

	ErrRemoteNotFound  = errors.New("remote not found")
	ErrRemoteInvalid   = fmt.Errorf("%w: remote invalid", ErrConfig)
	ErrRemoteAmbiguous = fmt.Errorf("%w: ambiguous remote name", ErrConfig)
	ErrNoDefaultRemote = errors.New("no default remote")
)
