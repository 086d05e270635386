package identity

import (
	"context"
	"errors"
	"sync"
)

var ErrEmptyKey = errors.New("guest session key is empty")

// Backend persists a guest's Set under an opaque session key, typically the
// value of the guest's session cookie.
type Backend interface {
	// Load returns the set stored under key, or an empty set.
	Load(ctx context.Context, key string) (*Set, error)
	Save(ctx context.Context, key string, set *Set) error
}

// MemoryBackend keeps sets in process memory. Sets are lost on restart.
type MemoryBackend struct {
	mu   sync.Mutex
	sets map[string]map[string][]string
}

var _ Backend = (*MemoryBackend)(nil)

func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{sets: make(map[string]map[string][]string)}
}

func (m *MemoryBackend) Load(ctx context.Context, key string) (*Set, error) {
	if key == "" {
		return nil, ErrEmptyKey
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return SetFrom(m.sets[key]), nil
}

func (m *MemoryBackend) Save(ctx context.Context, key string, set *Set) error {
	if key == "" {
		return ErrEmptyKey
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sets[key] = set.Index()
	set.markClean()
	return nil
}
