// SPDX-License-Identifier: MIT

package matio

import (
	"fmt"
	"sort"
	"sync"

	"github.com/katalvlaran/matrace/matrix"
)

// Store is a concurrency-safe collection of named matrices. Matrices are
// cloned on the way in and on the way out, so no caller ever shares
// backing storage with the store; Put on an existing name replaces it
// (last write wins).
type Store struct {
	mu sync.RWMutex
	m  map[string]*matrix.Dense
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{m: make(map[string]*matrix.Dense)}
}

// Put stores a clone of m under name, replacing any previous entry.
// Errors: matrix.ErrNilMatrix, ErrBadFormat for an unusable name.
func (s *Store) Put(name string, m *matrix.Dense) error {
	if err := matrix.ValidateNotNil(m); err != nil {
		return fmt.Errorf("Put: %w", err)
	}
	if name == "" {
		return fmt.Errorf("Put: empty name: %w", ErrBadFormat)
	}
	s.mu.Lock()
	s.m[name] = m.Clone()
	s.mu.Unlock()

	return nil
}

// Get returns a clone of the matrix stored under name.
func (s *Store) Get(name string) (*matrix.Dense, error) {
	s.mu.RLock()
	m, ok := s.m[name]
	s.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("Get: %q: %w", name, ErrNotFound)
	}

	return m.Clone(), nil
}

// Delete removes the entry; reports whether it existed.
func (s *Store) Delete(name string) bool {
	s.mu.Lock()
	_, ok := s.m[name]
	delete(s.m, name)
	s.mu.Unlock()

	return ok
}

// Names returns the stored names, sorted.
func (s *Store) Names() []string {
	s.mu.RLock()
	names := make([]string, 0, len(s.m))
	for n := range s.m {
		names = append(names, n)
	}
	s.mu.RUnlock()
	sort.Strings(names)

	return names
}

// Len returns the number of stored matrices.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.m)
}

// LoadFile reads path and stores its matrix under the name embedded in
// the file, returning that name.
func (s *Store) LoadFile(path string) (string, error) {
	name, m, err := LoadFile(path)
	if err != nil {
		return "", err
	}

	return name, s.Put(name, m)
}

// SaveFile writes the matrix stored under name to path.
// Errors: ErrNotFound.
func (s *Store) SaveFile(path, name string) error {
	m, err := s.Get(name)
	if err != nil {
		return err
	}

	return SaveFile(path, name, m)
}
