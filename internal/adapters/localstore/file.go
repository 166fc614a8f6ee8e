package localstore

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"
)

// File is a LocalStorage persisted as a flat YAML mapping. Every write rewrites
// the file through a temporary file and rename. Processes sharing the same path
// are not coordinated.
type File struct {
	path string

	mu     sync.RWMutex
	values map[string]string
}

// OpenFile loads the store at path. A missing file is an empty store. A file
// that cannot be decoded is also treated as empty so that a corrupt cache
// never blocks the client; the next Set overwrites it.
func OpenFile(path string) (*File, error) {
	if path == "" {
		return nil, errors.New("local storage path is required")
	}
	f := &File{path: path, values: map[string]string{}}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return f, nil
		}
		return nil, fmt.Errorf("read local storage: %w", err)
	}

	var values map[string]string
	if yaml.Unmarshal(data, &values) == nil && values != nil {
		f.values = values
	}
	return f, nil
}

// Path returns the backing file path.
func (f *File) Path() string { return f.path }

func (f *File) Get(key string) (string, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	v, ok := f.values[key]
	return v, ok
}

func (f *File) Set(key, value string) error {
	return f.SetMany(map[string]string{key: value})
}

// SetMany applies values in memory and flushes the file once. On failure the
// previous values are restored and the file is left untouched.
func (f *File) SetMany(values map[string]string) error {
	if len(values) == 0 {
		return nil
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	prev := make(map[string]*string, len(values))
	for k, v := range values {
		if old, had := f.values[k]; had {
			prev[k] = &old
		} else {
			prev[k] = nil
		}
		f.values[k] = v
	}
	if err := f.flushLocked(); err != nil {
		for k, old := range prev {
			if old == nil {
				delete(f.values, k)
			} else {
				f.values[k] = *old
			}
		}
		return err
	}
	return nil
}

func (f *File) flushLocked() error {
	data, err := yaml.Marshal(f.values)
	if err != nil {
		return fmt.Errorf("encode local storage: %w", err)
	}

	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("create local storage dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".localstorage-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		return errors.Join(fmt.Errorf("write local storage: %w", err), tmp.Close(), os.Remove(tmpName))
	}
	if err := tmp.Close(); err != nil {
		return errors.Join(fmt.Errorf("close local storage: %w", err), os.Remove(tmpName))
	}
	if err := os.Rename(tmpName, f.path); err != nil {
		return errors.Join(fmt.Errorf("replace local storage: %w", err), os.Remove(tmpName))
	}
	return nil
}
