package cache

import (
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/zeebo/blake3"
)

// Cache provides content-addressed file storage.
// Objects are stored by their BLAKE3 hash and verified on retrieval.
// Refs map an arbitrary key (a fetched URL) to an object hash.
type Cache struct {
	dir string
}

// New creates a Cache at the given directory.
// The directory is created if it does not exist.
func New(dir string) (*Cache, error) {
	for _, sub := range []string{"objects", "refs"} {
		d := filepath.Join(dir, sub)
		if err := os.MkdirAll(d, 0755); err != nil {
			return nil, fmt.Errorf("creating cache directory %s: %w", d, err)
		}
	}
	return &Cache{dir: dir}, nil
}

// DefaultDir returns the default cache directory.
// Uses XDG_CACHE_HOME if set, otherwise ~/.cache/ssg.
func DefaultDir() string {
	if xdg := os.Getenv("XDG_CACHE_HOME"); xdg != "" {
		return filepath.Join(xdg, "ssg")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		if runtime.GOOS == "windows" {
			return filepath.Join(os.TempDir(), "ssg-cache")
		}
		return filepath.Join("/tmp", "ssg-cache")
	}
	return filepath.Join(home, ".cache", "ssg")
}

// Get retrieves a cached object by its hash.
// Returns nil, false if not cached or if the stored bytes no longer match
// the hash (the corrupt entry is removed).
func (c *Cache) Get(hash string) ([]byte, bool, error) {
	path := c.objectPath(hash)
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("reading cache entry %s: %w", hash, err)
	}

	if computeHash(data) != hash {
		_ = os.Remove(path)
		return nil, false, nil
	}

	return data, true, nil
}

// Put stores content under its hash. The content must match the declared hash.
// No-op if already cached.
func (c *Cache) Put(hash string, content []byte) error {
	actual := computeHash(content)
	if actual != hash {
		return fmt.Errorf("cache put: content hash %s does not match declared hash %s", actual, hash)
	}

	path := c.objectPath(hash)

	// Objects are immutable.
	if _, err := os.Stat(path); err == nil {
		return nil
	}

	return writeAtomic(path, content)
}

// GetRef returns the object stored under key, if any.
func (c *Cache) GetRef(key string) ([]byte, bool, error) {
	ref, err := os.ReadFile(c.refPath(key))
	if os.IsNotExist(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("reading cache ref for %s: %w", key, err)
	}
	return c.Get(strings.TrimSpace(string(ref)))
}

// PutRef stores content and points key at it. A later PutRef for the same
// key replaces the pointer.
func (c *Cache) PutRef(key string, content []byte) error {
	hash := computeHash(content)
	if err := c.Put(hash, content); err != nil {
		return err
	}
	return writeAtomic(c.refPath(key), []byte(hash+"\n"))
}

// Has checks if a hash exists in the cache without reading content.
func (c *Cache) Has(hash string) bool {
	_, err := os.Stat(c.objectPath(hash))
	return err == nil
}

// Size returns the total size of the cache in bytes.
func (c *Cache) Size() (int64, error) {
	var total int64
	err := filepath.Walk(c.dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() {
			total += info.Size()
		}
		return nil
	})
	return total, err
}

// Path returns the cache directory path.
func (c *Cache) Path() string {
	return c.dir
}

func (c *Cache) objectPath(hash string) string {
	if len(hash) < 2 {
		return filepath.Join(c.dir, "objects", hash)
	}
	return filepath.Join(c.dir, "objects", hash[:2], hash)
}

func (c *Cache) refPath(key string) string {
	return filepath.Join(c.dir, "refs", computeHash([]byte(key)))
}

func writeAtomic(path string, content []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating cache subdirectory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("creating cache temp file: %w", err)
	}
	tmpPath := tmp.Name()

	success := false
	defer func() {
		if !success {
			_ = tmp.Close()
			_ = os.Remove(tmpPath)
		}
	}()

	if _, err := tmp.Write(content); err != nil {
		return fmt.Errorf("writing cache temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("syncing cache temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing cache temp file: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("renaming cache temp file: %w", err)
	}

	success = true
	return nil
}

// ComputeHash computes the BLAKE3 hash of content and returns the hex string.
func ComputeHash(content []byte) string {
	return computeHash(content)
}

func computeHash(content []byte) string {
	h := blake3.Sum256(content)
	return hex.EncodeToString(h[:])
}
