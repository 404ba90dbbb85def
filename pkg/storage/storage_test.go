package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeronethomes/znecalc/pkg/types"
)

// testDatabase runs the behavior every provider must share.
func testDatabase(t *testing.T, db Database) {
	ctx := context.Background()

	t.Run("NotFound", func(t *testing.T) {
		_, err := db.GetParameterTable(ctx, "missing")
		assert.ErrorIs(t, err, ErrTableNotFound)
	})

	t.Run("EmptyName", func(t *testing.T) {
		_, err := db.GetParameterTable(ctx, "")
		assert.ErrorIs(t, err, ErrInvalidTableName)
		assert.ErrorContains(t, err, "table name cannot be empty")
		err = db.SetParameterTable(ctx, types.ParameterTable{Values: map[string]float64{}})
		assert.ErrorContains(t, err, "table name cannot be empty")
	})

	t.Run("SlashName", func(t *testing.T) {
		err := db.SetParameterTable(ctx, types.ParameterTable{Name: "a/b"})
		assert.ErrorIs(t, err, ErrInvalidTableName)
		_, err = db.GetParameterTable(ctx, "a/b")
		assert.ErrorIs(t, err, ErrInvalidTableName)
	})

	t.Run("RoundTrip", func(t *testing.T) {
		table := types.DefaultParameterTable()
		require.NoError(t, db.SetParameterTable(ctx, table))

		got, err := db.GetParameterTable(ctx, table.Name)
		require.NoError(t, err)
		assert.Equal(t, table, got)
	})

	t.Run("Replace", func(t *testing.T) {
		old := types.ParameterTable{
			Name:    "illinois",
			Version: 1,
			Values:  map[string]float64{types.ParamBuyPricePerKWH: 0.15},
		}
		require.NoError(t, db.SetParameterTable(ctx, old))

		got, err := db.GetParameterTable(ctx, "illinois")
		require.NoError(t, err)
		assert.Equal(t, 1, got.Version)
		assert.Equal(t, 0.15, got.Values[types.ParamBuyPricePerKWH])

		migrated, _, err := types.MigrateParameterTable(got, got.Version)
		require.NoError(t, err)
		require.NoError(t, db.SetParameterTable(ctx, migrated))

		got, err = db.GetParameterTable(ctx, "illinois")
		require.NoError(t, err)
		assert.Equal(t, types.CurrentParameterTableVersion, got.Version)
		assert.Equal(t, 0.15, got.Values[types.ParamBuyPricePerKWH])
	})

	t.Run("List", func(t *testing.T) {
		names, err := db.ListParameterTables(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"illinois", types.DefaultParameterTableName}, names)
	})
}

func TestMemoryProvider(t *testing.T) {
	m := NewMemoryProvider()
	defer m.Close()
	testDatabase(t, m)

	t.Run("Copies", func(t *testing.T) {
		ctx := context.Background()
		table := types.DefaultParameterTable()
		table.Name = "copy"
		require.NoError(t, m.SetParameterTable(ctx, table))
		table.Values[types.ParamBuyPricePerKWH] = 9

		got, err := m.GetParameterTable(ctx, "copy")
		require.NoError(t, err)
		assert.Equal(t, 0.12, got.Values[types.ParamBuyPricePerKWH])

		got.Values[types.ParamBuyPricePerKWH] = 7
		again, err := m.GetParameterTable(ctx, "copy")
		require.NoError(t, err)
		assert.Equal(t, 0.12, again.Values[types.ParamBuyPricePerKWH])
	})
}
