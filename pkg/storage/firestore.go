package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"cloud.google.com/go/firestore"
	"github.com/levenlabs/go-lflag"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/zeronethomes/znecalc/pkg/log"
	"github.com/zeronethomes/znecalc/pkg/types"
)

const parameterTablesCollection = "parameter_tables"

// FirestoreProvider implements the Database interface using Google Cloud
// Firestore. Each parameter table is one document in the "parameter_tables"
// collection, keyed by the table name.
type FirestoreProvider struct {
	client    *firestore.Client
	projectID string
	database  string
}

// configuredFirestore sets up the Firestore provider.
// It registers flags for configuration.
func configuredFirestore() *FirestoreProvider {
	projectID := lflag.String("firestore-project-id", "", "Google Cloud Project ID for Firestore")
	database := lflag.String("firestore-database", "", "Google Cloud Firestore Database")
	emulator := lflag.String("firestore-emulator", "", "Use Firestore emulator")

	f := &FirestoreProvider{}

	lflag.Do(func() {
		f.projectID = *projectID
		f.database = *database

		// set this because that's how firestore client expects it
		if *emulator != "" {
			os.Setenv("FIRESTORE_EMULATOR_HOST", *emulator)
		}
	})

	return f
}

// Validate checks if the provider is properly configured.
func (f *FirestoreProvider) Validate() error {
	// an empty project ID is detected from the environment
	return nil
}

// Init initializes the Firestore client.
// This must be called before using the provider methods.
func (f *FirestoreProvider) Init(ctx context.Context) error {
	projectID := f.projectID
	if projectID == "" {
		projectID = firestore.DetectProjectID
	}
	database := f.database
	if database == "" {
		database = firestore.DefaultDatabaseID
	}
	client, err := firestore.NewClientWithDatabase(ctx, projectID, database)
	if err != nil {
		return fmt.Errorf("failed to create firestore client (project=%s, database=%s): %w", projectID, database, err)
	}
	f.client = client
	return nil
}

// Close closes the Firestore client connection.
func (f *FirestoreProvider) Close() error {
	if f.client != nil {
		return f.client.Close()
	}
	return nil
}

// GetParameterTable reads the table from its document. The values are stored
// as a JSON string and the version as a separate field so old documents can
// be found and migrated.
func (f *FirestoreProvider) GetParameterTable(ctx context.Context, name string) (types.ParameterTable, error) {
	if err := validateName(name); err != nil {
		return types.ParameterTable{}, err
	}
	doc, err := f.client.Collection(parameterTablesCollection).Doc(name).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return types.ParameterTable{}, fmt.Errorf("%w: %s", ErrTableNotFound, name)
		}
		return types.ParameterTable{}, fmt.Errorf("failed to fetch parameter table %s: %w", name, err)
	}

	// Read version if available (default 0)
	var version int
	if v, err := doc.DataAt("version"); err == nil {
		if vInt, ok := v.(int64); ok {
			version = int(vInt)
		}
	}

	val, err := doc.DataAt("json")
	if err != nil {
		log.Ctx(ctx).WarnContext(ctx, "parameter table doc missing json", slog.String("table", name))
		return types.ParameterTable{}, fmt.Errorf("parameter table %s missing 'json' field: %w", name, err)
	}
	jsonStr, ok := val.(string)
	if !ok {
		log.Ctx(ctx).WarnContext(ctx, "parameter table doc json not string", slog.String("table", name))
		return types.ParameterTable{}, fmt.Errorf("parameter table %s 'json' field is not a string", name)
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

// SetParameterTable saves the table to its document, replacing any previous
// contents.
func (f *FirestoreProvider) SetParameterTable(ctx context.Context, table types.ParameterTable) error {
	if err := validateName(table.Name); err != nil {
		return err
	}
	jsonBytes, err := json.Marshal(table.Values)
	if err != nil {
		return fmt.Errorf("failed to marshal parameter table %s: %w", table.Name, err)
	}

	_, err = f.client.Collection(parameterTablesCollection).Doc(table.Name).Set(ctx, map[string]any{
		"json":    string(jsonBytes),
		"version": table.Version,
		"updated": firestore.ServerTimestamp,
	})
	if err != nil {
		return fmt.Errorf("failed to save parameter table %s: %w", table.Name, err)
	}
	return nil
}

// ListParameterTables returns the document IDs of the collection. Documents
// come back ordered by ID so the result is already sorted.
func (f *FirestoreProvider) ListParameterTables(ctx context.Context) ([]string, error) {
	iter := f.client.Collection(parameterTablesCollection).Select().OrderBy(firestore.DocumentID, firestore.Asc).Documents(ctx)
	defer iter.Stop()

	var names []string
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error iterating parameter tables: %w", err)
		}
		names = append(names, doc.Ref.ID)
	}
	return names, nil
}
