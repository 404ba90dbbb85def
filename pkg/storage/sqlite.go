package storage

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"time"

	"github.com/levenlabs/go-lflag"
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"

	"github.com/zeronethomes/znecalc/pkg/log"
	"github.com/zeronethomes/znecalc/pkg/types"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

const sqliteDialect = "sqlite3"

// SQLiteProvider implements the Database interface on a local SQLite file.
type SQLiteProvider struct {
	db   *sql.DB
	path string
}

// configuredSQLite sets up the SQLite provider.
// It registers flags for configuration.
func configuredSQLite() *SQLiteProvider {
	path := lflag.String("sqlite-path", "znecalc.db", "Path to the SQLite database file")

	s := &SQLiteProvider{}

	lflag.Do(func() {
		s.path = *path
	})

	return s
}

// NewSQLiteProvider returns an uninitialized provider for the file at path.
func NewSQLiteProvider(path string) *SQLiteProvider {
	return &SQLiteProvider{path: path}
}

// Validate checks if the provider is properly configured.
func (s *SQLiteProvider) Validate() error {
	if s.path == "" {
		return errors.New("sqlite-path is required")
	}
	return nil
}

// Init opens the database, sets pragmas and runs any pending migrations.
// This must be called before using the provider methods.
func (s *SQLiteProvider) Init(ctx context.Context) error {
	db, err := sql.Open("sqlite", sqliteDSN(s.path))
	if err != nil {
		return fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return fmt.Errorf("ping sqlite database: %w", err)
	}

	if err := migrateUp(ctx, db); err != nil {
		db.Close()
		return err
	}

	s.db = db
	return nil
}

// sqliteDSN sets the pragmas in the DSN so the driver applies them to every
// pooled connection.
func sqliteDSN(path string) string {
	q := url.Values{"_pragma": {
		"journal_mode(WAL)",
		"foreign_keys(1)",
		"busy_timeout(5000)",
	}}
	return path + "?" + q.Encode()
}

// migrateUp runs all pending embedded migrations.
func migrateUp(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrationsFS)
	goose.SetLogger(gooseLogger{ctx: ctx})
	if err := goose.SetDialect(sqliteDialect); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}
	if err := goose.UpContext(ctx, db, "migrations"); err != nil {
		return fmt.Errorf("run goose up migrations: %w", err)
	}
	return nil
}

// gooseLogger sends goose output to the structured logger.
type gooseLogger struct {
	ctx context.Context
}

func (l gooseLogger) Printf(format string, v ...any) {
	log.Ctx(l.ctx).DebugContext(l.ctx, "goose", slog.String("detail", fmt.Sprintf(format, v...)))
}

func (l gooseLogger) Fatalf(format string, v ...any) {
	log.Ctx(l.ctx).ErrorContext(l.ctx, "goose fatal", slog.String("detail", fmt.Sprintf(format, v...)))
	os.Exit(1)
}

// Close closes the database.
func (s *SQLiteProvider) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// GetParameterTable reads the named row.
func (s *SQLiteProvider) GetParameterTable(ctx context.Context, name string) (types.ParameterTable, error) {
	if err := validateName(name); err != nil {
		return types.ParameterTable{}, err
	}

	var (
		version int
		jsonStr string
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT version, json FROM parameter_tables WHERE name = ?`,
		name,
	).Scan(&version, &jsonStr)
	if errors.Is(err, sql.ErrNoRows) {
		return types.ParameterTable{}, fmt.Errorf("%w: %s", ErrTableNotFound, name)
	}
	if err != nil {
		return types.ParameterTable{}, fmt.Errorf("failed to fetch parameter table %s: %w", name, err)
	}

	var values map[string]float64
	if err := json.Unmarshal([]byte(jsonStr), &values); err != nil {
		log.Ctx(ctx).WarnContext(ctx, "failed to unmarshal parameter table json", slog.String("table", name), slog.Any("error", err))
		return types.ParameterTable{}, fmt.Errorf("failed to unmarshal parameter table %s: %w", name, err)
	}
	return types.ParameterTable{
		Name:    name,
		Version: version,
		Values:  values,
	}, nil
}

// SetParameterTable upserts the table's row.
func (s *SQLiteProvider) SetParameterTable(ctx context.Context, table types.ParameterTable) error {
	if err := validateName(table.Name); err != nil {
		return err
	}
	jsonBytes, err := json.Marshal(table.Values)
	if err != nil {
		return fmt.Errorf("failed to marshal parameter table %s: %w", table.Name, err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO parameter_tables (name, version, json, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			version = excluded.version,
			json = excluded.json,
			updated_at = excluded.updated_at
	`, table.Name, table.Version, string(jsonBytes), time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("failed to save parameter table %s: %w", table.Name, err)
	}
	return nil
}

// ListParameterTables returns every table name, sorted.
func (s *SQLiteProvider) ListParameterTables(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT name FROM parameter_tables ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list parameter tables: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan parameter table name: %w", err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating parameter tables: %w", err)
	}
	return names, nil
}
