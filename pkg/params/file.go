package params

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/zeronethomes/znecalc/pkg/types"
)

// LoadFile reads a parameter table from a YAML or JSON file. A table without
// a name is named after the file. A table without a version is treated as an
// overlay on the defaults and migrated to the current version.
func LoadFile(path string) (types.ParameterTable, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return types.ParameterTable{}, fmt.Errorf("failed to read parameter file: %w", err)
	}
	ext := strings.ToLower(filepath.Ext(path))
	table, err := Parse(b, ext == ".json")
	if err != nil {
		return types.ParameterTable{}, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if table.Name == "" {
		table.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return table, nil
}

// Parse decodes a parameter table and migrates it to the current version.
func Parse(b []byte, isJSON bool) (types.ParameterTable, error) {
	var table types.ParameterTable
	if isJSON {
		if err := json.Unmarshal(b, &table); err != nil {
			return types.ParameterTable{}, fmt.Errorf("invalid json: %w", err)
		}
	} else {
		dec := yaml.NewDecoder(bytes.NewReader(b))
		dec.KnownFields(true)
		if err := dec.Decode(&table); err != nil {
			return types.ParameterTable{}, fmt.Errorf("invalid yaml: %w", err)
		}
	}
	if table.Version > types.CurrentParameterTableVersion {
		return types.ParameterTable{}, fmt.Errorf("parameter table version %d is newer than supported version %d", table.Version, types.CurrentParameterTableVersion)
	}
	migrated, _, err := types.MigrateParameterTable(table, table.Version)
	if err != nil {
		return types.ParameterTable{}, err
	}
	return migrated, nil
}

// Marshal encodes a table as YAML, the format LoadFile reads back.
func Marshal(table types.ParameterTable) ([]byte, error) {
	b, err := yaml.Marshal(table)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal parameter table: %w", err)
	}
	return b, nil
}
