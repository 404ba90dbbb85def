package params

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/zeronethomes/znecalc/pkg/storage"
	"github.com/zeronethomes/znecalc/pkg/storage/storagemock"
	"github.com/zeronethomes/znecalc/pkg/types"
)

func TestMapTable(t *testing.T) {
	ctx := context.Background()

	t.Run("Default", func(t *testing.T) {
		m := NewMap(nil)
		table, err := m.Table(ctx, "")
		require.NoError(t, err)
		assert.Equal(t, types.DefaultParameterTable(), table)
	})

	t.Run("Returns Copies", func(t *testing.T) {
		m := NewMap(nil)
		table, err := m.Table(ctx, types.DefaultParameterTableName)
		require.NoError(t, err)
		table.Values[types.ParamBuyPricePerKWH] = 5

		again, err := m.Table(ctx, types.DefaultParameterTableName)
		require.NoError(t, err)
		assert.Equal(t, 0.12, again.Values[types.ParamBuyPricePerKWH])
	})

	t.Run("Added Default", func(t *testing.T) {
		m := NewMap(nil)
		custom := types.DefaultParameterTable()
		custom.Name = "texas"
		custom.Values[types.ParamBuyPricePerKWH] = 0.14
		m.Add(custom)
		m.SetDefaultName("texas")

		assert.Equal(t, "texas", m.DefaultName())
		table, err := m.Table(ctx, "")
		require.NoError(t, err)
		assert.Equal(t, 0.14, table.Values[types.ParamBuyPricePerKWH])
	})

	t.Run("Not Found Without Storage", func(t *testing.T) {
		_, err := NewMap(nil).Table(ctx, "mars")
		assert.True(t, IsNotFound(err))
	})

	t.Run("Not Found In Storage", func(t *testing.T) {
		db := new(storagemock.MockDatabase)
		db.On("GetParameterTable", mock.Anything, "mars").Return(types.ParameterTable{}, storage.ErrTableNotFound)

		_, err := NewMap(db).Table(ctx, "mars")
		assert.True(t, IsNotFound(err))
		db.AssertExpectations(t)
	})

	t.Run("Invalid Name", func(t *testing.T) {
		_, err := NewMap(storage.NewMemoryProvider()).Table(ctx, "a/b")
		var cerr *types.ConfigurationError
		require.ErrorAs(t, err, &cerr)
		assert.Equal(t, "table", cerr.Field)
		assert.Equal(t, "a/b", cerr.Value)
		assert.False(t, IsNotFound(err))
	})

	t.Run("Stored Current", func(t *testing.T) {
		stored := types.DefaultParameterTable()
		stored.Name = "ohio"
		db := new(storagemock.MockDatabase)
		db.On("GetParameterTable", mock.Anything, "ohio").Return(stored, nil)

		table, err := NewMap(db).Table(ctx, "ohio")
		require.NoError(t, err)
		assert.Equal(t, stored, table)
		db.AssertNotCalled(t, "SetParameterTable", mock.Anything, mock.Anything)
	})

	t.Run("Stored Migrated And Saved", func(t *testing.T) {
		stored := types.ParameterTable{
			Name:    "ohio",
			Version: 1,
			Values:  map[string]float64{types.ParamBuyPricePerKWH: 0.13},
		}
		db := new(storagemock.MockDatabase)
		db.On("GetParameterTable", mock.Anything, "ohio").Return(stored, nil)
		db.On("SetParameterTable", mock.Anything, mock.MatchedBy(func(t types.ParameterTable) bool {
			return t.Name == "ohio" && t.Version == types.CurrentParameterTableVersion
		})).Return(nil)

		table, err := NewMap(db).Table(ctx, "ohio")
		require.NoError(t, err)
		assert.Equal(t, types.CurrentParameterTableVersion, table.Version)
		assert.Equal(t, 0.13, table.Values[types.ParamBuyPricePerKWH])
		assert.Equal(t, 1.0, table.Values[types.ParamHVACAvoidedSolarPV])
		db.AssertExpectations(t)
	})

	t.Run("Save Failure Still Serves", func(t *testing.T) {
		stored := types.ParameterTable{Name: "ohio", Version: 0}
		db := new(storagemock.MockDatabase)
		db.On("GetParameterTable", mock.Anything, "ohio").Return(stored, nil)
		db.On("SetParameterTable", mock.Anything, mock.Anything).Return(errors.New("read-only"))

		table, err := NewMap(db).Table(ctx, "ohio")
		require.NoError(t, err)
		assert.Equal(t, types.DefaultParameterTable().Values, table.Values)
	})
}

func TestMapNames(t *testing.T) {
	ctx := context.Background()

	t.Run("Merged", func(t *testing.T) {
		db := new(storagemock.MockDatabase)
		db.On("ListParameterTables", mock.Anything).Return([]string{"ohio", types.DefaultParameterTableName}, nil)

		m := NewMap(db)
		m.Add(types.ParameterTable{Name: "alaska"})
		assert.Equal(t, []string{"alaska", "ohio", types.DefaultParameterTableName}, m.Names(ctx))
	})

	t.Run("Storage Failure", func(t *testing.T) {
		db := new(storagemock.MockDatabase)
		db.On("ListParameterTables", mock.Anything).Return(nil, errors.New("offline"))

		assert.Equal(t, []string{types.DefaultParameterTableName}, NewMap(db).Names(ctx))
	})
}
