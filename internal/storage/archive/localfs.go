// internal/storage/archive/localfs.go
package archive

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/newthinker/fxsignals/internal/core"
)

// LocalFS stores workbooks as files in one directory
type LocalFS struct {
	basePath string
}

// NewLocalFS creates a new LocalFS storage, creating basePath if needed
func NewLocalFS(basePath string) (*LocalFS, error) {
	if basePath == "" {
		basePath = "exports"
	}
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("creating base path: %w", err)
	}
	return &LocalFS{basePath: basePath}, nil
}

// Dir returns the directory workbooks are written to.
func (l *LocalFS) Dir() string {
	return l.basePath
}

func (l *LocalFS) fullPath(name string) (string, error) {
	if err := ValidName(name); err != nil {
		return "", err
	}
	return filepath.Join(l.basePath, name), nil
}

func (l *LocalFS) Write(ctx context.Context, name string, data []byte) error {
	full, err := l.fullPath(name)
	if err != nil {
		return err
	}
	tmp := full + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", name, err)
	}
	if err := os.Rename(tmp, full); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("renaming %s: %w", name, err)
	}
	return nil
}

func (l *LocalFS) Read(ctx context.Context, name string) ([]byte, error) {
	full, err := l.fullPath(name)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(full)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, core.WrapError(core.ErrNotFound, fmt.Errorf("%s", name))
	}
	return data, err
}

func (l *LocalFS) List(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(l.basePath)
	if errors.Is(err, fs.ErrNotExist) {
		return []string{}, nil
	}
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) == ".tmp" {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names, nil
}

func (l *LocalFS) Exists(ctx context.Context, name string) (bool, error) {
	full, err := l.fullPath(name)
	if err != nil {
		return false, err
	}
	_, err = os.Stat(full)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return err == nil, err
}
