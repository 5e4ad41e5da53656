package storage

import (
	"context"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

// FileSystemStore is an ObjectStore on a local directory tree. Keys are
// slash separated paths below the configured root.
type FileSystemStore struct {
	root string
	log  *zap.Logger
}

// NewFileSystemStore roots the store at the given directory, creating
// it if needed
func NewFileSystemStore(root string, log *zap.Logger) (*FileSystemStore, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(abs, 0o750); err != nil {
		return nil, err
	}
	return &FileSystemStore{root: abs, log: log}, nil
}

// resolve keeps keys inside the root, anything cleaning up to a parent
// path is refused
func (f *FileSystemStore) resolve(key string) (string, error) {
	if key == "" || strings.Contains(key, "\x00") {
		return "", ErrInvalidKey
	}
	cleaned := path.Clean("/" + key)
	if cleaned == "/" || strings.HasPrefix(cleaned, "/..") {
		return "", ErrInvalidKey
	}
	return filepath.Join(f.root, filepath.FromSlash(cleaned)), nil
}

func (f *FileSystemStore) Put(_ context.Context, key string, r io.Reader) (int64, error) {
	target, err := f.resolve(key)
	if err != nil {
		return 0, err
	}
	if err := os.MkdirAll(filepath.Dir(target), 0o750); err != nil {
		return 0, err
	}
	file, err := os.Create(target)
	if err != nil {
		return 0, err
	}
	written, err := io.Copy(file, r)
	if cerr := file.Close(); cerr != nil && err == nil {
		err = cerr
	}
	if err != nil {
		if rerr := os.Remove(target); rerr != nil {
			f.log.Warn("could not remove partial object", zap.String("key", key), zap.Error(rerr))
		}
		return 0, err
	}
	return written, nil
}

func (f *FileSystemStore) Open(_ context.Context, key string) (io.ReadCloser, error) {
	target, err := f.resolve(key)
	if err != nil {
		return nil, err
	}
	file, err := os.Open(target)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNoSuchObject
		}
		return nil, err
	}
	return file, nil
}

func (f *FileSystemStore) Delete(_ context.Context, key string) error {
	target, err := f.resolve(key)
	if err != nil {
		return err
	}
	err = os.Remove(target)
	if os.IsNotExist(err) {
		return ErrNoSuchObject
	}
	return err
}
