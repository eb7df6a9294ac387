package archive

import (
	"archive/tar"
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/gzip"

	"github.com/kompox/hotwings/domain"
	"github.com/kompox/hotwings/domain/model"
)

// BuiltinArchiver walks the reference directory and writes a gzip
// compressed tar stream without spawning a process. Regular files,
// directories and symbolic links are stored; other file types are skipped.
type BuiltinArchiver struct {
	// Level is the gzip compression level.
	Level int
}

func NewBuiltinArchiver() *BuiltinArchiver {
	return &BuiltinArchiver{Level: gzip.DefaultCompression}
}

func (a *BuiltinArchiver) Archive(ctx context.Context, refDir string, w io.Writer) error {
	zw, err := gzip.NewWriterLevel(w, a.Level)
	if err != nil {
		return fmt.Errorf("%w: %w", model.ErrArchive, err)
	}
	tw := tar.NewWriter(zw)
	walkErr := filepath.WalkDir(refDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		rel, err := filepath.Rel(refDir, path)
		if err != nil {
			return err
		}
		if rel == "." {
			return nil
		}
		return addEntry(tw, path, filepath.ToSlash(rel), d)
	})
	if walkErr != nil {
		return fmt.Errorf("%w: archiving %s: %w", model.ErrArchive, refDir, walkErr)
	}
	if err := tw.Close(); err != nil {
		return fmt.Errorf("%w: %w", model.ErrArchive, err)
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("%w: %w", model.ErrArchive, err)
	}
	return nil
}

func addEntry(tw *tar.Writer, path, name string, d fs.DirEntry) error {
	info, err := d.Info()
	if err != nil {
		return err
	}
	var link string
	switch {
	case info.Mode()&fs.ModeSymlink != 0:
		if link, err = os.Readlink(path); err != nil {
			return err
		}
	case info.IsDir(), info.Mode().IsRegular():
	default:
		return nil
	}
	hdr, err := tar.FileInfoHeader(info, link)
	if err != nil {
		return err
	}
	hdr.Name = "./" + name
	if info.IsDir() {
		hdr.Name += "/"
	}
	if err := tw.WriteHeader(hdr); err != nil {
		return err
	}
	if !info.Mode().IsRegular() {
		return nil
	}
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = io.Copy(tw, f)
	return err
}

// Compile-time assertion.
var _ domain.ArchivePort = (*BuiltinArchiver)(nil)
