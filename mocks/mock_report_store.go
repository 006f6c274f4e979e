package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"finsight/internal/domain"
	"finsight/internal/port"
)

// MockReportStore is a mock implementation of port.ReportStore.
type MockReportStore struct {
	mock.Mock
}

func (m *MockReportStore) SaveGraph(ctx context.Context, g *domain.ReportGraph) error {
	args := m.Called(ctx, g)
	return args.Error(0)
}

func (m *MockReportStore) GetReport(ctx context.Context, id uuid.UUID) (*domain.Report, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Report), args.Error(1)
}

func (m *MockReportStore) GetReportGraph(ctx context.Context, id uuid.UUID) (*domain.ReportGraph, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ReportGraph), args.Error(1)
}

func (m *MockReportStore) ListReports(ctx context.Context, offset, limit int) ([]domain.Report, int, error) {
	args := m.Called(ctx, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.Report), args.Int(1), args.Error(2)
}

func (m *MockReportStore) Counts(ctx context.Context) (*port.IngestCounts, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*port.IngestCounts), args.Error(1)
}

func (m *MockReportStore) TotalByGroup(ctx context.Context, group domain.AccountGroup) (decimal.Decimal, error) {
	args := m.Called(ctx, group)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockReportStore) Reset(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
