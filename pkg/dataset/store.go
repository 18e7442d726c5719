// Package dataset implements the dataset store: named, typed tables
// persisted between pipeline stages. The store exclusively owns persisted
// tables; Load hands out copies so callers can never mutate stored state.
package dataset

import (
	"context"
	"fmt"
	"regexp"
	"sync"

	"github.com/hiredata-ai/hiredata-engine/pkg/apperrors"
	"github.com/hiredata-ai/hiredata-engine/pkg/models"
)

// Store loads and persists named tables. Save replaces any previous table
// wholesale: datasets are immutable snapshots recomputed per run.
type Store interface {
	Load(ctx context.Context, name string) (*models.Table, error)
	Save(ctx context.Context, name string, t *models.Table) error
	Close() error
}

// datasetNamePattern restricts dataset names to safe SQL identifiers; the
// SQL-backed stores interpolate them as quoted table names.
var datasetNamePattern = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

func validateName(name string) error {
	if !datasetNamePattern.MatchString(name) {
		return fmt.Errorf("invalid dataset name %q", name)
	}
	return nil
}

// MemoryStore keeps datasets in process memory. Used in tests and for
// single-process runs that do not need durability.
type MemoryStore struct {
	mu     sync.RWMutex
	tables map[string]*models.Table
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{tables: make(map[string]*models.Table)}
}

// Load returns a copy of the named table.
func (s *MemoryStore) Load(_ context.Context, name string) (*models.Table, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.tables[name]
	if !ok {
		return nil, fmt.Errorf("load %q: %w", name, apperrors.ErrDatasetNotFound)
	}
	return t.Clone(), nil
}

// Save stores a copy of the table under the given name.
func (s *MemoryStore) Save(_ context.Context, name string, t *models.Table) error {
	if err := validateName(name); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tables[name] = t.Clone()
	return nil
}

// Close is a no-op for the memory store.
func (s *MemoryStore) Close() error {
	return nil
}
