// Package prefs is the persisted user-settings store, a JSON file of string
// key/value pairs.
package prefs

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sync"

	"github.com/hoster-project/portal-sync/internal/core/ports"
)

// File is a JSON-file-backed settings store.
type File struct {
	path string

	mu     sync.RWMutex
	values map[string]string
}

var _ ports.Preferences = (*File)(nil)

// Load opens the store at path. A missing file yields an empty store; the
// file is created on the first Set.
func Load(path string) (*File, error) {
	f := &File{path: path, values: make(map[string]string)}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return f, nil
	}
	if err != nil {
		return nil, fmt.Errorf("settings store: %w", err)
	}
	if err := json.Unmarshal(data, &f.values); err != nil {
		return nil, fmt.Errorf("settings store %q: %w", path, err)
	}
	return f, nil
}

// Get returns the stored value for key.
func (f *File) Get(key string) (string, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	v, ok := f.values[key]
	return v, ok
}

// Set stores the value and persists the file.
func (f *File) Set(key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.values[key] = value
	data, err := json.MarshalIndent(f.values, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(f.path, data, 0o600)
}
