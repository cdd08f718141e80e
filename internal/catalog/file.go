package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// FileStore serves catalogs from JSON files on disk, one file per catalog
// (<dir>/<catalog>.json, a flat code-to-description object). This is the
// runtime form of the catalogs the offline generation tooling produces.
//
// Each catalog file is read at most once; the decoded map is never
// written to again, so lookups need no locking after load.
type FileStore struct {
	dir string

	mu     sync.Mutex
	loaded map[Name]map[string]string
}

// NewFileStore creates a store rooted at dir. No I/O happens until the
// first lookup of each catalog.
func NewFileStore(dir string) *FileStore {
	return &FileStore{
		dir:    dir,
		loaded: make(map[Name]map[string]string),
	}
}

// Lookup returns the description registered for code.
func (s *FileStore) Lookup(catalog Name, code string) (string, error) {
	m, err := s.catalog(catalog)
	if err != nil {
		return "", err
	}
	desc, ok := m[code]
	if !ok {
		return "", &NotFoundError{Catalog: catalog, Code: code}
	}
	return desc, nil
}

// Contains reports membership of code in catalog.
func (s *FileStore) Contains(catalog Name, code string) bool {
	m, err := s.catalog(catalog)
	if err != nil {
		return false
	}
	_, ok := m[code]
	return ok
}

func (s *FileStore) catalog(name Name) (map[string]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if m, ok := s.loaded[name]; ok {
		if m == nil {
			return nil, &NotFoundError{Catalog: name}
		}
		return m, nil
	}

	m, err := s.read(name)
	if err != nil {
		if os.IsNotExist(err) {
			// Cache the miss; a missing file will not appear later.
			s.loaded[name] = nil
			return nil, &NotFoundError{Catalog: name}
		}
		return nil, err
	}

	s.loaded[name] = m
	return m, nil
}

func (s *FileStore) read(name Name) (map[string]string, error) {
	path := filepath.Join(s.dir, string(name)+".json")
	if strings.Contains(string(name), "..") || strings.ContainsRune(string(name), os.PathSeparator) {
		return nil, fmt.Errorf("invalid catalog name %q", name)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var m map[string]string
	if err := json.NewDecoder(f).Decode(&m); err != nil {
		return nil, fmt.Errorf("catalog %s: %w", name, err)
	}
	return m, nil
}
