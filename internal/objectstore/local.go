package objectstore

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/afero"
)

// LocalStore keeps objects as files under a root directory.
type LocalStore struct {
	fs afero.Fs
}

// NewLocalStore roots a store at dir on the OS filesystem.
func NewLocalStore(dir string) *LocalStore {
	return &LocalStore{fs: afero.NewBasePathFs(afero.NewOsFs(), dir)}
}

// NewMemStore returns an in-memory store.
func NewMemStore() *LocalStore {
	return &LocalStore{fs: afero.NewMemMapFs()}
}

func (s *LocalStore) Get(_ context.Context, key string) ([]byte, error) {
	data, err := afero.ReadFile(s.fs, filePath(key))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", key, err)
	}
	return data, nil
}

func (s *LocalStore) Put(_ context.Context, key string, data []byte) error {
	p := filePath(key)
	if err := s.fs.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return fmt.Errorf("create directory for %s: %w", key, err)
	}
	if err := afero.WriteFile(s.fs, p, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}

func (s *LocalStore) Exists(_ context.Context, key string) (bool, error) {
	info, err := s.fs.Stat(filePath(key))
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return !info.IsDir(), nil
}

func (s *LocalStore) Delete(_ context.Context, key string) error {
	err := s.fs.Remove(filePath(key))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}

// DeletePrefix removes every object under prefix. A prefix ending in "/"
// removes the whole directory.
func (s *LocalStore) DeletePrefix(ctx context.Context, prefix string) error {
	if strings.HasSuffix(prefix, "/") {
		err := s.fs.RemoveAll(filePath(prefix))
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("delete prefix %s: %w", prefix, err)
		}
		return nil
	}
	keys, err := s.List(ctx, prefix)
	if err != nil {
		return err
	}
	for _, k := range keys {
		if err := s.Delete(ctx, k); err != nil {
			return err
		}
	}
	return nil
}

// List returns keys starting with prefix in lexical order.
func (s *LocalStore) List(_ context.Context, prefix string) ([]string, error) {
	root := path.Dir("/" + prefix)
	if strings.HasSuffix(prefix, "/") {
		root = path.Clean("/" + prefix)
	}

	var keys []string
	err := afero.Walk(s.fs, filepath.FromSlash(root), func(p string, info os.FileInfo, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil
			}
			return err
		}
		if info.IsDir() {
			return nil
		}
		key := strings.TrimPrefix(filepath.ToSlash(p), "/")
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
		return nil
	})
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("list %s: %w", prefix, err)
	}
	sort.Strings(keys)
	return keys, nil
}

func filePath(key string) string {
	return filepath.FromSlash(path.Clean("/" + key))
}
