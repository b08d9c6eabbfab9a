package settings

import (
	"fmt"
	"os"
	"sort"
	"sync"

	"gopkg.in/yaml.v3"
)

// ProtectedKeyError is returned when a runtime override targets a key that
// only the settings file may define.
type ProtectedKeyError struct {
	// Key is the rejected key.
	Key string
}

func (e *ProtectedKeyError) Error() string {
	return fmt.Sprintf("settings key %q is protected and cannot be overridden", e.Key)
}

// Store holds the agent's settings: a YAML file plus runtime overrides.
// File values win for protected keys, overrides win for everything else.
type Store struct {
	path      string
	protected map[string]struct{}

	mu        sync.RWMutex
	fromFile  map[string]any
	overrides map[string]any
}

// NewStore creates a store backed by the file at path. The protected keys
// are fixed for the store's lifetime. No I/O happens until Load.
func NewStore(path string, protectedKeys []string) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("settings path cannot be empty")
	}

	protected := make(map[string]struct{}, len(protectedKeys))
	for _, key := range protectedKeys {
		protected[key] = struct{}{}
	}

	return &Store{
		path:      path,
		protected: protected,
		fromFile:  make(map[string]any),
		overrides: make(map[string]any),
	}, nil
}

// Load reads the settings file and replaces the file-backed values. A
// missing file is treated as an empty settings set. Runtime overrides
// survive a reload.
func (s *Store) Load() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			s.mu.Lock()
			s.fromFile = make(map[string]any)
			s.mu.Unlock()
			return nil
		}
		return fmt.Errorf("failed to read settings file %s: %w", s.path, err)
	}

	values := make(map[string]any)
	if err := yaml.Unmarshal(data, &values); err != nil {
		return fmt.Errorf("failed to parse settings file %s: %w", s.path, err)
	}

	s.mu.Lock()
	s.fromFile = values
	s.mu.Unlock()
	return nil
}

// Get returns the effective value for key. Protected keys always answer
// from the file; other keys prefer a runtime override.
func (s *Store) Get(key string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, isProtected := s.protected[key]; !isProtected {
		if value, ok := s.overrides[key]; ok {
			return value, true
		}
	}
	value, ok := s.fromFile[key]
	return value, ok
}

// GetString returns the effective value for key if it is a string.
func (s *Store) GetString(key string) (string, bool) {
	value, ok := s.Get(key)
	if !ok {
		return "", false
	}
	str, ok := value.(string)
	return str, ok
}

// GetBool returns the effective value for key if it is a bool.
func (s *Store) GetBool(key string) (bool, bool) {
	value, ok := s.Get(key)
	if !ok {
		return false, false
	}
	b, ok := value.(bool)
	return b, ok
}

// Set installs a runtime override for key. Protected keys are rejected
// with a ProtectedKeyError.
func (s *Store) Set(key string, value any) error {
	if _, isProtected := s.protected[key]; isProtected {
		return &ProtectedKeyError{Key: key}
	}

	s.mu.Lock()
	s.overrides[key] = value
	s.mu.Unlock()
	return nil
}

// Unset removes a runtime override, restoring the file value (if any).
func (s *Store) Unset(key string) {
	s.mu.Lock()
	delete(s.overrides, key)
	s.mu.Unlock()
}

// IsProtected reports whether key only the settings file may define.
func (s *Store) IsProtected(key string) bool {
	_, ok := s.protected[key]
	return ok
}

// Keys returns every key with an effective value, sorted.
func (s *Store) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[string]struct{}, len(s.fromFile)+len(s.overrides))
	for key := range s.fromFile {
		seen[key] = struct{}{}
	}
	for key := range s.overrides {
		if _, isProtected := s.protected[key]; isProtected {
			continue
		}
		seen[key] = struct{}{}
	}

	keys := make([]string, 0, len(seen))
	for key := range seen {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
