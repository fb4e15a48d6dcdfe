// Package prefs stores user preferences such as the selected graph window.
package prefs

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"gopkg.in/yaml.v3"
)

// GraphWindowPreference is the key holding the selected time window
const GraphWindowPreference = "graphWindowPreference"

// Store reads preference values. Missing keys read as "".
type Store interface {
	GetValue(key string) string
}

// MemoryStore is an in-memory Store
type MemoryStore struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewMemoryStore creates a store holding values
func NewMemoryStore(values map[string]string) *MemoryStore {
	m := &MemoryStore{values: make(map[string]string, len(values))}
	for k, v := range values {
		m.values[k] = v
	}
	return m
}

// GetValue returns the value for key
func (m *MemoryStore) GetValue(key string) string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.values[key]
}

// SetValue sets the value for key
func (m *MemoryStore) SetValue(key, value string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
}

// YAMLStore is a Store persisted as a flat YAML mapping
type YAMLStore struct {
	MemoryStore
	path string
}

// LoadYAMLStore reads preferences from path; a missing file yields an empty store
func LoadYAMLStore(path string) (*YAMLStore, error) {
	s := &YAMLStore{
		MemoryStore: MemoryStore{values: map[string]string{}},
		path:        path,
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read preferences: %w", err)
	}

	if err := yaml.Unmarshal(data, &s.values); err != nil {
		return nil, fmt.Errorf("failed to parse preferences: %w", err)
	}
	if s.values == nil {
		s.values = map[string]string{}
	}
	return s, nil
}

// Path returns the backing file
func (s *YAMLStore) Path() string {
	return s.path
}

// Keys returns the stored keys in sorted order
func (s *YAMLStore) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := make([]string, 0, len(s.values))
	for k := range s.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Save writes the preferences back to their file
func (s *YAMLStore) Save() error {
	s.mu.RLock()
	data, err := yaml.Marshal(s.values)
	s.mu.RUnlock()
	if err != nil {
		return fmt.Errorf("failed to marshal preferences: %w", err)
	}

	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("failed to create preferences directory: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0644); err != nil {
		return fmt.Errorf("failed to write preferences file: %w", err)
	}
	return nil
}
