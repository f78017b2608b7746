package oddsapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"
)

// FileCache keeps raw odds documents as <dir>/<event id>.json.
type FileCache struct {
	dir string
	ttl time.Duration
	now func() time.Time
}

// NewFileCache creates a cache over dir. A non-positive ttl disables reads.
func NewFileCache(dir string, ttl time.Duration) *FileCache {
	return &FileCache{dir: dir, ttl: ttl, now: time.Now}
}

func (c *FileCache) path(id string) string {
	return filepath.Join(c.dir, filepath.Base(id)+".json")
}

// Get returns a fresh, well-formed cached document.
func (c *FileCache) Get(id string) ([]byte, bool) {
	if c == nil || c.ttl <= 0 || id == "" {
		return nil, false
	}
	p := c.path(id)
	info, err := os.Stat(p)
	if err != nil || c.now().Sub(info.ModTime()) >= c.ttl {
		return nil, false
	}
	data, err := os.ReadFile(p)
	if err != nil || !json.Valid(data) {
		return nil, false
	}
	return data, true
}

// Put stores data for id, replacing any previous document.
func (c *FileCache) Put(id string, data []byte) error {
	if c == nil || id == "" {
		return nil
	}
	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		return fmt.Errorf("cache dir: %w", err)
	}
	tmp, err := os.CreateTemp(c.dir, filepath.Base(id)+".*.tmp")
	if err != nil {
		return fmt.Errorf("cache write: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("cache write: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("cache write: %w", err)
	}
	return os.Rename(tmp.Name(), c.path(id))
}

// Remove deletes the document for id if present.
func (c *FileCache) Remove(id string) error {
	if c == nil {
		return nil
	}
	err := os.Remove(c.path(id))
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}
