package cache

import (
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultMemoryEntries bounds the in-process cache when no size is configured.
const DefaultMemoryEntries = 256

// Memory is a bounded in-process cache of fetched bodies keyed by URL.
// It is safe for concurrent use.
type Memory struct {
	entries *lru.Cache[string, []byte]
}

// NewMemory creates a Memory holding at most size entries.
func NewMemory(size int) (*Memory, error) {
	if size <= 0 {
		size = DefaultMemoryEntries
	}
	entries, err := lru.New[string, []byte](size)
	if err != nil {
		return nil, fmt.Errorf("creating memory cache: %w", err)
	}
	return &Memory{entries: entries}, nil
}

// Get returns a copy of the body stored under key.
func (m *Memory) Get(key string) ([]byte, bool) {
	body, ok := m.entries.Get(key)
	if !ok {
		return nil, false
	}
	return clone(body), true
}

// Add stores a copy of body under key.
func (m *Memory) Add(key string, body []byte) {
	m.entries.Add(key, clone(body))
}

// Len returns the number of stored entries.
func (m *Memory) Len() int { return m.entries.Len() }

// Layered looks keys up in memory first, then on disk. Either layer may be nil.
type Layered struct {
	Memory *Memory
	Disk   *Cache
}

// Lookup returns the body stored under key. Disk hits are promoted to memory.
func (l *Layered) Lookup(key string) ([]byte, bool) {
	if l == nil {
		return nil, false
	}
	if l.Memory != nil {
		if body, ok := l.Memory.Get(key); ok {
			return body, true
		}
	}
	if l.Disk != nil {
		body, ok, err := l.Disk.GetRef(key)
		if err == nil && ok {
			if l.Memory != nil {
				l.Memory.Add(key, body)
			}
			return body, true
		}
	}
	return nil, false
}

// Store records body under key in every configured layer.
func (l *Layered) Store(key string, body []byte) error {
	if l == nil {
		return nil
	}
	if l.Memory != nil {
		l.Memory.Add(key, body)
	}
	if l.Disk != nil {
		if err := l.Disk.PutRef(key, body); err != nil {
			return err
		}
	}
	return nil
}

func clone(b []byte) []byte {
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
