package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"finsight/internal/domain"
	"finsight/internal/export"
	"finsight/internal/port"
)

// ReportService exposes read access to ingested reports.
type ReportService struct {
	store port.ReportStore
}

func NewReportService(store port.ReportStore) *ReportService {
	return &ReportService{store: store}
}

func (s *ReportService) List(ctx context.Context, offset, limit int) ([]domain.Report, int, error) {
	return s.store.ListReports(ctx, offset, limit)
}

func (s *ReportService) Get(ctx context.Context, id uuid.UUID) (*domain.Report, error) {
	return s.store.GetReport(ctx, id)
}

func (s *ReportService) GetGraph(ctx context.Context, id uuid.UUID) (*domain.ReportGraph, error) {
	return s.store.GetReportGraph(ctx, id)
}

// ExportXLSX renders one report, with its full account tree and entries, as
// an Excel workbook.
func (s *ReportService) ExportXLSX(ctx context.Context, id uuid.UUID) ([]byte, string, error) {
	graph, err := s.store.GetReportGraph(ctx, id)
	if err != nil {
		return nil, "", err
	}
	data, err := export.Workbook(graph)
	if err != nil {
		return nil, "", err
	}
	filename := fmt.Sprintf("report-%s.xlsx", id)
	return data, filename, nil
}
