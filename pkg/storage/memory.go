package storage

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"sync"

	"github.com/zeronethomes/znecalc/pkg/types"
)

// MemoryProvider keeps parameter tables in process memory. It is the default
// provider and is lost on restart.
type MemoryProvider struct {
	mu     sync.Mutex
	tables map[string]types.ParameterTable
}

// NewMemoryProvider returns an empty MemoryProvider.
func NewMemoryProvider() *MemoryProvider {
	return &MemoryProvider{
		tables: make(map[string]types.ParameterTable),
	}
}

// GetParameterTable returns a copy of the named table.
func (m *MemoryProvider) GetParameterTable(ctx context.Context, name string) (types.ParameterTable, error) {
	if err := validateName(name); err != nil {
		return types.ParameterTable{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	t, ok := m.tables[name]
	if !ok {
		return types.ParameterTable{}, fmt.Errorf("%w: %s", ErrTableNotFound, name)
	}
	return t.Clone(), nil
}

// SetParameterTable stores a copy of the table.
func (m *MemoryProvider) SetParameterTable(ctx context.Context, table types.ParameterTable) error {
	if err := validateName(table.Name); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	m.tables[table.Name] = table.Clone()
	return nil
}

// ListParameterTables returns the stored table names, sorted.
func (m *MemoryProvider) ListParameterTables(ctx context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	return slices.Sorted(maps.Keys(m.tables)), nil
}

// Close is a no-op.
func (m *MemoryProvider) Close() error {
	return nil
}
