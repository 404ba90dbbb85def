package storagemock

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/zeronethomes/znecalc/pkg/storage"
	"github.com/zeronethomes/znecalc/pkg/types"
)

type MockDatabase struct {
	mock.Mock
}

var _ storage.Database = (*MockDatabase)(nil)

func (m *MockDatabase) GetParameterTable(ctx context.Context, name string) (types.ParameterTable, error) {
	args := m.Called(ctx, name)
	// return empty if not specified, or checks args
	if len(args) > 0 {
		return args.Get(0).(types.ParameterTable), args.Error(1)
	}
	return types.ParameterTable{}, nil
}

func (m *MockDatabase) SetParameterTable(ctx context.Context, table types.ParameterTable) error {
	args := m.Called(ctx, table)
	return args.Error(0)
}

func (m *MockDatabase) ListParameterTables(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if len(args) > 0 {
		if args.Get(0) == nil {
			return nil, args.Error(1)
		}
		return args.Get(0).([]string), args.Error(1)
	}
	return nil, nil
}

func (m *MockDatabase) Close() error {
	args := m.Called()
	return args.Error(0)
}
