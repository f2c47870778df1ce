package avatar

import (
	"fmt"
	"sync"

	"github.com/quasilyte/gdata/v2"
)

// Store persists the last successfully loaded avatar between sessions.
type Store interface {
	// Load returns the stored value and whether the key exists at all. An
	// existing key may hold an empty value.
	Load(key string) (string, bool, error)
	Save(key, value string) error
}

// MemoryStore keeps values for the lifetime of the process.
type MemoryStore struct {
	mu     sync.RWMutex
	values map[string]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string]string)}
}

func (s *MemoryStore) Load(key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[key]
	return v, ok, nil
}

func (s *MemoryStore) Save(key, value string) error {
	s.mu.Lock()
	s.values[key] = value
	s.mu.Unlock()
	return nil
}

const storeObject = "avatar"

// GdataStore keeps values as properties of the "avatar" gdata object. A nil
// manager degrades to memory only, so a sandboxed or read-only environment
// still works for the session.
type GdataStore struct {
	manager  *gdata.Manager
	fallback *MemoryStore
}

func NewGdataStore(manager *gdata.Manager) *GdataStore {
	return &GdataStore{manager: manager, fallback: NewMemoryStore()}
}

// OpenGdataStore opens the platform data directory for appName. When that
// fails the store is returned in degraded mode together with the error.
func OpenGdataStore(appName string) (*GdataStore, error) {
	m, err := gdata.Open(gdata.Config{AppName: appName})
	if err != nil {
		return NewGdataStore(nil), fmt.Errorf("open gdata %q: %w", appName, err)
	}
	return NewGdataStore(m), nil
}

// Degraded reports whether values only live in memory.
func (s *GdataStore) Degraded() bool { return s.manager == nil }

func (s *GdataStore) Load(key string) (string, bool, error) {
	if s.manager == nil {
		return s.fallback.Load(key)
	}
	if !s.manager.ObjectPropExists(storeObject, key) {
		return "", false, nil
	}
	data, err := s.manager.LoadObjectProp(storeObject, key)
	if err != nil {
		return "", false, fmt.Errorf("load %s/%s: %w", storeObject, key, err)
	}
	return string(data), true, nil
}

func (s *GdataStore) Save(key, value string) error {
	if s.manager == nil {
		return s.fallback.Save(key, value)
	}
	if err := s.manager.SaveObjectProp(storeObject, key, []byte(value)); err != nil {
		return fmt.Errorf("save %s/%s: %w", storeObject, key, err)
	}
	return nil
}
