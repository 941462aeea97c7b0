package evidence

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// Store holds the evidence binaries backing snipe claims. The engine only
// ever deletes an asset once its reference count reaches zero.
type Store interface {
	Put(ctx context.Context, id string, data []byte) error
	URL(id string) string
	Delete(ctx context.Context, id string) error
}

// DiskStore keeps evidence images as files under a configured directory
// and serves them under a configured base URL.
type DiskStore struct {
	dir     string
	baseURL string
}

func NewDiskStore(dir, baseURL string) (*DiskStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create evidence dir: %w", err)
	}

	return &DiskStore{dir: dir, baseURL: baseURL}, nil
}

func (that *DiskStore) path(id string) string {
	return filepath.Join(that.dir, id+".jpg")
}

func (that *DiskStore) Put(_ context.Context, id string, data []byte) error {
	if err := os.WriteFile(that.path(id), data, 0o644); err != nil {
		return fmt.Errorf("failed to write evidence %s: %w", id, err)
	}

	return nil
}

func (that *DiskStore) URL(id string) string {
	return that.baseURL + "/" + id + ".jpg"
}

func (that *DiskStore) Delete(_ context.Context, id string) error {
	err := os.Remove(that.path(id))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to delete evidence %s: %w", id, err)
	}

	return nil
}

// Exists - reports whether the binary for id is still stored.
func (that *DiskStore) Exists(id string) bool {
	_, err := os.Stat(that.path(id))
	return err == nil
}
