package source

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
)

// DirSource reads documents from a local checkout of the content database.
type DirSource struct {
	root fs.FS
	dir  string
}

// NewDirSource creates a source over dir and logs how many documents it holds.
func NewDirSource(dir string) (*DirSource, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("opening content dir: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("content dir %s is not a directory", dir)
	}

	s := &DirSource{root: os.DirFS(dir), dir: dir}
	n, err := s.count()
	if err != nil {
		return nil, fmt.Errorf("scanning content dir: %w", err)
	}
	slog.Info("content directory opened", "dir", dir, "documents", n)
	return s, nil
}

func (s *DirSource) Fetch(ctx context.Context, name string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	name = filepath.ToSlash(filepath.Clean(name))
	if !fs.ValidPath(name) {
		return nil, fmt.Errorf("reading %s: %w", name, ErrNotFound)
	}

	data, err := fs.ReadFile(s.root, name)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("reading %s: %w", name, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", name, err)
	}
	return data, nil
}

func (s *DirSource) count() (int, error) {
	n := 0
	err := fs.WalkDir(s.root, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() {
			n++
		}
		return nil
	})
	return n, err
}
