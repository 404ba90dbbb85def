package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/zeronethomes/znecalc/pkg/types"
)

var (
	ErrTableNotFound    = errors.New("parameter table not found")
	ErrInvalidTableName = errors.New("invalid table name")
)

// Database defines the interface for persisting parameter tables.
type Database interface {
	// GetParameterTable returns the stored table with the version it was
	// stored at. It returns ErrTableNotFound if no table has that name.
	GetParameterTable(ctx context.Context, name string) (types.ParameterTable, error)
	// SetParameterTable creates or replaces the table with the same name.
	SetParameterTable(ctx context.Context, table types.ParameterTable) error
	// ListParameterTables returns the names of every stored table, sorted.
	ListParameterTables(ctx context.Context) ([]string, error)

	// Lifecycle
	Close() error
}

// validateName checks that name can be used as a document ID and a primary
// key.
func validateName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: table name cannot be empty", ErrInvalidTableName)
	}
	if strings.Contains(name, "/") {
		return fmt.Errorf("%w: table name cannot contain '/': %s", ErrInvalidTableName, name)
	}
	return nil
}
