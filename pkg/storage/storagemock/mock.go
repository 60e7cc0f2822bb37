// Package storagemock provides a testify mock of the storage.Database
// interface.
package storagemock

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/juasmart/juasmart/pkg/storage"
	"github.com/juasmart/juasmart/pkg/types"
)

// Database is a mock implementation of storage.Database.
type Database struct {
	mock.Mock
}

var _ storage.Database = (*Database)(nil)

func (m *Database) SaveAssessment(ctx context.Context, a types.Assessment) error {
	args := m.Called(ctx, a)
	return args.Error(0)
}

func (m *Database) GetAssessment(ctx context.Context, userEmail, id string) (types.Assessment, error) {
	args := m.Called(ctx, userEmail, id)
	if len(args) > 0 {
		return args.Get(0).(types.Assessment), args.Error(1)
	}
	return types.Assessment{}, nil
}

func (m *Database) ListAssessments(ctx context.Context, userEmail string) ([]types.Assessment, error) {
	args := m.Called(ctx, userEmail)
	if len(args) > 0 {
		return args.Get(0).([]types.Assessment), args.Error(1)
	}
	return nil, nil
}

func (m *Database) DeleteAssessment(ctx context.Context, userEmail, id string) error {
	args := m.Called(ctx, userEmail, id)
	return args.Error(0)
}

func (m *Database) GetReferenceData(ctx context.Context) (map[string][]byte, error) {
	args := m.Called(ctx)
	if len(args) > 0 {
		return args.Get(0).(map[string][]byte), args.Error(1)
	}
	return nil, nil
}

func (m *Database) SetReferenceData(ctx context.Context, name string, data []byte) error {
	args := m.Called(ctx, name, data)
	return args.Error(0)
}

func (m *Database) Close() error {
	args := m.Called()
	return args.Error(0)
}
