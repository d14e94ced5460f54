package store

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/matzehuels/cm2kit/pkg/cache"
	"github.com/matzehuels/cm2kit/pkg/errors"
)

const fileExt = ".cm2"

// FileStore keeps artifacts as {dir}/{name}.cm2. The creation time is the
// file's modification time and the hash is recomputed on read.
type FileStore struct {
	dir string
}

// NewFileStore creates dir if needed.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &FileStore{dir: dir}, nil
}

func (s *FileStore) Put(ctx context.Context, a Artifact) error {
	if err := ValidateName(a.Name); err != nil {
		return err
	}
	path := s.path(a.Name)
	if err := os.WriteFile(path, []byte(a.Savestring), 0o644); err != nil {
		return err
	}
	if !a.CreatedAt.IsZero() {
		return os.Chtimes(path, a.CreatedAt, a.CreatedAt)
	}
	return nil
}

func (s *FileStore) Get(ctx context.Context, name string) (*Artifact, error) {
	if err := ValidateName(name); err != nil {
		return nil, err
	}
	return s.read(name)
}

func (s *FileStore) List(ctx context.Context) ([]Artifact, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, err
	}
	var out []Artifact
	for _, e := range entries {
		name, ok := strings.CutSuffix(e.Name(), fileExt)
		if e.IsDir() || !ok || ValidateName(name) != nil {
			continue
		}
		a, err := s.read(name)
		if err != nil {
			return nil, err
		}
		out = append(out, *a)
	}
	slices.SortFunc(out, func(a, b Artifact) int { return strings.Compare(a.Name, b.Name) })
	return out, nil
}

func (s *FileStore) Close() error { return nil }

func (s *FileStore) read(name string) (*Artifact, error) {
	path := s.path(name)
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, errors.New(errors.ErrCodeNotFound, "artifact %q not found", name)
	}
	if err != nil {
		return nil, err
	}
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	return &Artifact{
		Name:       name,
		Savestring: string(data),
		Hash:       cache.Hash(data),
		CreatedAt:  info.ModTime().UTC(),
	}, nil
}

func (s *FileStore) path(name string) string {
	return filepath.Join(s.dir, name+fileExt)
}

var _ Store = (*FileStore)(nil)
