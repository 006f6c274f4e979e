package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"finsight/internal/port"
)

// MockAgent is a mock implementation of port.Agent.
type MockAgent struct {
	mock.Mock
}

func (m *MockAgent) Ask(ctx context.Context, prompt string) (*port.AgentAnswer, error) {
	args := m.Called(ctx, prompt)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*port.AgentAnswer), args.Error(1)
}

// MockQueryTools is a mock implementation of port.QueryTools.
type MockQueryTools struct {
	mock.Mock
}

func (m *MockQueryTools) FetchSchema(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

func (m *MockQueryTools) SearchAccountTerm(ctx context.Context, term string) (string, error) {
	args := m.Called(ctx, term)
	return args.String(0), args.Error(1)
}

func (m *MockQueryTools) ExecuteSQL(ctx context.Context, sql string) (string, error) {
	args := m.Called(ctx, sql)
	return args.String(0), args.Error(1)
}
