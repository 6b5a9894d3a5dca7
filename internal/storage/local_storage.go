package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

const defaultContentType = "image/svg+xml"

type LocalStorage struct {
	basePath string
}

func NewLocalStorage(basePath string) (*LocalStorage, error) {
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, err
	}
	return &LocalStorage{basePath: basePath}, nil
}

func (ls *LocalStorage) pathFor(userID int64, key string) (string, error) {
	if key == "" || strings.ContainsAny(key, `/\`) || strings.Contains(key, "..") {
		return "", fmt.Errorf("invalid storage key %q", key)
	}
	return filepath.Join(ls.basePath, filepath.FromSlash(ObjectKey(userID, key))), nil
}

// Put writes to a temporary file first so readers never observe a partial blob.
func (ls *LocalStorage) Put(ctx context.Context, userID int64, key string, r io.Reader, size int64, contentType string) error {
	filePath, err := ls.pathFor(userID, key)
	if err != nil {
		return err
	}
	dir := filepath.Dir(filePath)

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".upload-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	written, err := io.Copy(tmp, r)
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return err
	}
	if size >= 0 && written != size {
		return fmt.Errorf("short write: expected %d bytes, wrote %d", size, written)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	return os.Rename(tmp.Name(), filePath)
}

func (ls *LocalStorage) Get(ctx context.Context, userID int64, key string) (*Object, error) {
	filePath, err := ls.pathFor(userID, key)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(filePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	info, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, err
	}

	return &Object{
		Body:        file,
		Size:        info.Size(),
		ETag:        fmt.Sprintf(`"%x-%x"`, info.Size(), info.ModTime().UnixNano()),
		ContentType: defaultContentType,
		ModTime:     info.ModTime(),
	}, nil
}

func (ls *LocalStorage) Delete(ctx context.Context, userID int64, key string) error {
	filePath, err := ls.pathFor(userID, key)
	if err != nil {
		return err
	}

	err = os.Remove(filePath)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}

	return err
}
