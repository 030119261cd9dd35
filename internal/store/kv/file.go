package kv

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// JSON-backed medium. Single file, human-readable, portable.
// One file is one origin; unrelated keys may live next to task records.
// No cross-process locking; fine for a local single-user CLI.

const DefaultFileName = "tasks.json"

type fileEntry struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// File is a medium persisted to a JSON file after every mutation.
type File struct {
	mu   sync.Mutex
	path string
	e    entries
}

// OpenFile loads path. A missing file is an empty medium.
func OpenFile(path string) (*File, error) {
	if path == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("getwd: %w", err)
		}
		path = filepath.Join(wd, DefaultFileName)
	}
	f := &File{path: path, e: newEntries()}

	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return f, nil
		}
		return nil, fmt.Errorf("read file: %w", err)
	}
	if len(b) == 0 {
		return f, nil
	}
	var list []fileEntry
	if err := json.Unmarshal(b, &list); err != nil {
		return nil, fmt.Errorf("json unmarshal %s: %w", path, err)
	}
	for _, ent := range list {
		f.e.set(ent.Key, ent.Value)
	}
	return f, nil
}

// Path returns the backing file location.
func (f *File) Path() string { return f.path }

func (f *File) Get(key string) (string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.e.get(key)
	return v, ok, nil
}

func (f *File) Set(key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	prev, existed := f.e.get(key)
	f.e.set(key, value)
	if err := f.flush(); err != nil {
		if existed {
			f.e.set(key, prev)
		} else {
			f.e.delete(key)
		}
		return err
	}
	return nil
}

func (f *File) Delete(key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	prev, existed := f.e.get(key)
	if !existed {
		return nil
	}
	keys := f.e.list()
	f.e.delete(key)
	if err := f.flush(); err != nil {
		f.e.set(key, prev)
		f.e.keys = keys
		return err
	}
	return nil
}

func (f *File) Keys() ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.e.list(), nil
}

// flush writes to a temp file in the same directory, then renames it over
// the target so readers never see a half-written file.
func (f *File) flush() error {
	list := make([]fileEntry, 0, len(f.e.keys))
	for _, k := range f.e.keys {
		list = append(list, fileEntry{Key: k, Value: f.e.values[k]})
	}
	b, err := json.MarshalIndent(list, "", "  ")
	if err != nil {
		return fmt.Errorf("json marshal: %w", err)
	}
	b = append(b, '\n')

	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("mkdir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".tasks-*.json")
	if err != nil {
		return fmt.Errorf("create temp: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(b); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp: %w", err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("chmod: %w", err)
	}
	if err := os.Rename(tmpName, f.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("rename: %w", err)
	}
	return nil
}
