package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockArchiveStorage is a mock implementation of port.ArchiveStorage.
type MockArchiveStorage struct {
	mock.Mock
}

func (m *MockArchiveStorage) Store(ctx context.Context, key, contentType string, body []byte) error {
	args := m.Called(ctx, key, contentType, body)
	return args.Error(0)
}
