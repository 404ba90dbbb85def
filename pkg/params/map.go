package params

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"strings"
	"sync"

	"github.com/levenlabs/go-lflag"

	"github.com/zeronethomes/znecalc/pkg/log"
	"github.com/zeronethomes/znecalc/pkg/storage"
	"github.com/zeronethomes/znecalc/pkg/types"
)

// Configured sets up the parameter table registry based on flags. The
// built-in reference table is always available.
func Configured(db storage.Database) *Map {
	files := lflag.String("params-files", "", "comma-delimited list of YAML or JSON parameter table files to load")
	defaultName := lflag.String("params-default", types.DefaultParameterTableName, "Name of the parameter table used when a request names none")

	m := NewMap(db)

	lflag.Do(func() {
		for _, path := range strings.Split(*files, ",") {
			path = strings.TrimSpace(path)
			if path == "" {
				continue
			}
			table, err := LoadFile(path)
			if err != nil {
				panic(fmt.Sprintf("failed to load parameter file: %v", err))
			}
			m.Add(table)
		}
		m.defaultName = *defaultName
	})

	return m
}

// Map manages named parameter tables. Tables added directly take precedence
// over tables in storage.
type Map struct {
	mu          sync.Mutex
	db          storage.Database
	defaultName string
	tables      map[string]types.ParameterTable
}

// NewMap creates a new Map holding only the reference table. db may be nil.
func NewMap(db storage.Database) *Map {
	def := types.DefaultParameterTable()
	return &Map{
		db:          db,
		defaultName: def.Name,
		tables: map[string]types.ParameterTable{
			def.Name: def,
		},
	}
}

// DefaultName returns the name of the table used when none is requested.
func (m *Map) DefaultName() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.defaultName
}

// SetDefaultName changes the table used when none is requested. This is
// primarily used for testing.
func (m *Map) SetDefaultName(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.defaultName = name
}

// Add registers a table under its name, replacing any previous table.
func (m *Map) Add(table types.ParameterTable) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tables[table.Name] = table.Clone()
}

// Table returns a copy of the named table at the current version. An empty
// name returns the default table. Tables found in storage at an older version
// are migrated and written back.
func (m *Map) Table(ctx context.Context, name string) (types.ParameterTable, error) {
	m.mu.Lock()
	if name == "" {
		name = m.defaultName
	}
	t, ok := m.tables[name]
	m.mu.Unlock()
	if ok {
		return t.Clone(), nil
	}

	if m.db == nil {
		return types.ParameterTable{}, fmt.Errorf("%w: %s", storage.ErrTableNotFound, name)
	}
	t, err := m.db.GetParameterTable(ctx, name)
	if errors.Is(err, storage.ErrInvalidTableName) {
		return types.ParameterTable{}, &types.ConfigurationError{
			Field:  "table",
			Value:  name,
			Reason: "name must be non-empty and cannot contain '/'",
		}
	}
	if err != nil {
		return types.ParameterTable{}, err
	}

	// Check for migration
	if t.Version < types.CurrentParameterTableVersion {
		log.Ctx(ctx).InfoContext(ctx, "migrating parameter table", slog.String("table", name), slog.Int("oldVersion", t.Version), slog.Int("newVersion", types.CurrentParameterTableVersion))
		migrated, changed, err := types.MigrateParameterTable(t, t.Version)
		if err != nil {
			return types.ParameterTable{}, fmt.Errorf("failed to migrate parameter table %s: %w", name, err)
		}
		if changed {
			if err := m.db.SetParameterTable(ctx, migrated); err != nil {
				// the migrated table still serves this request
				log.Ctx(ctx).ErrorContext(ctx, "failed to save migrated parameter table", slog.String("table", name), slog.Any("error", err))
			} else {
				log.Ctx(ctx).InfoContext(ctx, "saved migrated parameter table", slog.String("table", name), slog.Int("oldVersion", t.Version), slog.Int("newVersion", types.CurrentParameterTableVersion))
			}
		}
		t = migrated
	}
	return t, nil
}

// Names returns every table name known to the map or storage, sorted. A
// storage failure is logged and only the in-memory names are returned.
func (m *Map) Names(ctx context.Context) []string {
	m.mu.Lock()
	names := slices.Collect(maps.Keys(m.tables))
	m.mu.Unlock()

	if m.db != nil {
		stored, err := m.db.ListParameterTables(ctx)
		if err != nil {
			log.Ctx(ctx).WarnContext(ctx, "failed to list stored parameter tables", slog.Any("error", err))
		}
		names = append(names, stored...)
	}
	slices.Sort(names)
	return slices.Compact(names)
}

// IsNotFound reports whether err means the table does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, storage.ErrTableNotFound)
}
