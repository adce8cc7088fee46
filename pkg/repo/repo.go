package repo

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/odvcencio/gitcat/pkg/object"
)

// DefaultStoreDir is the directory name probed for by Open.
const DefaultStoreDir = ".git"

// ErrNotARepository is returned by Open when no store directory is found.
var ErrNotARepository = errors.New("not a repository")

// Repo represents an opened repository.
type Repo struct {
	RootDir string        // working directory root
	GitDir  string        // store directory, e.g. RootDir/.git
	Store   *object.Store // loose object store
}

type openOptions struct {
	storeDir  string
	storeOpts []object.StoreOption
}

// Option configures Open.
type Option func(*openOptions)

// WithStoreDir changes the directory name Open looks for.
func WithStoreDir(name string) Option {
	return func(o *openOptions) {
		if name != "" {
			o.storeDir = name
		}
	}
}

// WithStoreOptions passes options through to object.NewStore.
func WithStoreOptions(opts ...object.StoreOption) Option {
	return func(o *openOptions) {
		o.storeOpts = append(o.storeOpts, opts...)
	}
}

// Open searches upward from path for a store directory and opens the
// repository found there.
func Open(path string, opts ...Option) (*Repo, error) {
	o := openOptions{storeDir: DefaultStoreDir}
	for _, opt := range opts {
		opt(&o)
	}

	// Resolve to absolute path for consistent traversal.
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("open: abs path: %w", err)
	}

	cur := abs
	for {
		gitDir := filepath.Join(cur, o.storeDir)
		info, err := os.Stat(gitDir)
		if err == nil && info.IsDir() {
			return &Repo{
				RootDir: cur,
				GitDir:  gitDir,
				Store:   object.NewStore(gitDir, o.storeOpts...),
			}, nil
		}

		parent := filepath.Dir(cur)
		if parent == cur {
			return nil, fmt.Errorf("open: %w: no %s in %s or any parent", ErrNotARepository, o.storeDir, abs)
		}
		cur = parent
	}
}
