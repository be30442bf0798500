package settings

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"
)

// Memory is a session-scoped backend that forgets everything on exit.
type Memory struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewMemory returns an empty in-memory backend.
func NewMemory() *Memory {
	return &Memory{values: map[string]string{}}
}

func (m *Memory) Lookup(key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.values[key]
	return v, ok, nil
}

func (m *Memory) Store(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}

// FileBackend keeps the flat key/value map in a YAML document and rewrites
// the whole file on every Store.
type FileBackend struct {
	mu     sync.Mutex
	path   string
	values map[string]string
}

// OpenFile loads path if it exists. A missing file starts empty; a malformed
// one is an error so the caller can decide whether to fall back.
func OpenFile(path string) (*FileBackend, error) {
	f := &FileBackend{path: path, values: map[string]string{}}
	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return f, nil
		}
		return nil, fmt.Errorf("read settings file: %w", err)
	}
	if err := yaml.Unmarshal(raw, &f.values); err != nil {
		return nil, fmt.Errorf("parse settings yaml: %w", err)
	}
	if f.values == nil {
		f.values = map[string]string{}
	}
	return f, nil
}

// Path returns the file the backend writes to.
func (f *FileBackend) Path() string { return f.path }

func (f *FileBackend) Lookup(key string) (string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.values[key]
	return v, ok, nil
}

func (f *FileBackend) Store(key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	prev, had := f.values[key]
	f.values[key] = value
	if err := f.flushLocked(); err != nil {
		if had {
			f.values[key] = prev
		} else {
			delete(f.values, key)
		}
		return err
	}
	return nil
}

func (f *FileBackend) flushLocked() error {
	if err := os.MkdirAll(filepath.Dir(f.path), 0o755); err != nil {
		return fmt.Errorf("create settings directory: %w", err)
	}
	data, err := yaml.Marshal(f.values)
	if err != nil {
		return fmt.Errorf("marshal settings yaml: %w", err)
	}
	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write settings file: %w", err)
	}
	if err := os.Rename(tmp, f.path); err != nil {
		return fmt.Errorf("replace settings file: %w", err)
	}
	return nil
}
