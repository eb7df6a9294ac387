package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Output values with a special meaning.
const (
	OutputStderr = "-"
	OutputNone   = "none"
	OutputAuto   = "auto"
)

// LogFilePrefix is the name prefix of generated log files.
const LogFilePrefix = "hotwings-"

// Sink is where log records go: stderr, nowhere, or a file.
type Sink struct {
	Path   string // empty unless writing to a file
	file   *os.File
	writer io.Writer
}

// OpenSink opens the log destination named by output.
//
//   - "" or "-": os.Stderr
//   - "none": io.Discard
//   - "auto": a new hotwings-<timestamp>.log in dir
//   - anything else: a file path, relative paths are taken from dir
//
// Files are opened for appending.
func OpenSink(output, dir string) (*Sink, error) {
	s := &Sink{}
	switch strings.ToLower(output) {
	case "", OutputStderr:
		s.writer = os.Stderr
		return s, nil
	case OutputNone:
		s.writer = io.Discard
		return s, nil
	case OutputAuto:
		s.Path = filepath.Join(dir, GenerateLogFilename(time.Now().UTC()))
	default:
		s.Path = output
		if !filepath.IsAbs(output) {
			s.Path = filepath.Join(dir, output)
		}
	}
	if err := os.MkdirAll(filepath.Dir(s.Path), 0o700); err != nil {
		return nil, fmt.Errorf("creating log directory: %w", err)
	}
	f, err := os.OpenFile(s.Path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, fmt.Errorf("opening log file %q: %w", s.Path, err)
	}
	s.file, s.writer = f, f
	return s, nil
}

func (s *Sink) Writer() io.Writer { return s.writer }

// Close closes the log file if one was opened.
func (s *Sink) Close() error {
	if s.file != nil {
		return s.file.Close()
	}
	return nil
}

// GenerateLogFilename returns hotwings-YYYYMMDD-HHMMSS-mmm.log for t.
func GenerateLogFilename(t time.Time) string {
	return fmt.Sprintf("%s%s-%03d.log", LogFilePrefix, t.Format("20060102-150405"), t.Nanosecond()/1_000_000)
}

// PruneLogFiles removes generated log files in dir not modified within
// retention. Other files are left alone and individual failures are ignored.
func PruneLogFiles(dir string, retention time.Duration, now time.Time) error {
	if retention <= 0 {
		return nil
	}
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("reading log directory %q: %w", dir, err)
	}
	cutoff := now.Add(-retention)
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasPrefix(name, LogFilePrefix) || !strings.HasSuffix(name, ".log") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		if info.ModTime().Before(cutoff) {
			_ = os.Remove(filepath.Join(dir, name))
		}
	}
	return nil
}
