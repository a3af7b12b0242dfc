// internal/storage/archive/interface.go
package archive

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/newthinker/fxsignals/internal/core"
)

// Storage is where exported workbooks are saved.
type Storage interface {
	// Write stores data under name, replacing any previous object
	Write(ctx context.Context, name string, data []byte) error

	// Read retrieves the object stored under name
	Read(ctx context.Context, name string) ([]byte, error)

	// List returns the names of all stored objects, sorted
	List(ctx context.Context) ([]string, error)

	// Exists checks if an object is stored under name
	Exists(ctx context.Context, name string) (bool, error)
}

// Backend types
const (
	TypeLocalFS = "localfs"
	TypeS3      = "s3"
)

// Config selects and configures a backend
type Config struct {
	Type string
	Path string // For localfs
	S3   S3Config
}

// New creates the backend named by cfg.Type.
func New(cfg Config) (Storage, error) {
	switch cfg.Type {
	case TypeLocalFS, "":
		return NewLocalFS(cfg.Path)
	case TypeS3:
		return NewS3(cfg.S3)
	default:
		return nil, core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("unknown archive type %q", cfg.Type))
	}
}

// ValidName rejects names that are empty or would escape the archive root.
func ValidName(name string) error {
	if name == "" || name == "." || name == ".." {
		return fmt.Errorf("invalid object name %q", name)
	}
	if strings.ContainsAny(name, `/\`) || path.Base(name) != name {
		return fmt.Errorf("object name %q must not contain path separators", name)
	}
	return nil
}
