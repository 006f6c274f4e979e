package ingest

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"finsight/internal/domain"
	"finsight/mocks"
)

const lineItemBatch = `{"data": [
	{"period_start": "2024-01-01", "period_end": "2024-01-31", "rootfi_updated_at": "2024-02-01T00:00:00.000Z",
	 "revenue": [{"name": "Sales", "value": 100}]},
	{"period_start": "2024-02-01", "period_end": "2024-02-29", "rootfi_updated_at": "2024-03-01T00:00:00.000Z",
	 "revenue": [{"name": "Sales", "value": 200}]}
]}`

func writeTemp(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "source.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDetectFormat(t *testing.T) {
	format, err := DetectFormat([]byte(lineItemBatch))
	require.NoError(t, err)
	assert.Equal(t, FormatLineItem, format)

	format, err = DetectFormat([]byte(`{"Header": {"ReportName": "P&L"}, "Columns": {"Column": []}, "Rows": {}}`))
	require.NoError(t, err)
	assert.Equal(t, FormatColumnar, format)

	_, err = DetectFormat([]byte(`{"unrelated": true}`))
	assert.ErrorIs(t, err, domain.ErrUnknownFormat)
}

func TestIngestLineItemsContinuesPastPersistFailure(t *testing.T) {
	store := new(mocks.MockReportStore)
	store.On("SaveGraph", mock.Anything, mock.Anything).Return(errors.New("db down")).Once()
	store.On("SaveGraph", mock.Anything, mock.Anything).Return(nil).Once()

	svc := NewService(store, nil)
	stats, err := svc.IngestLineItems(context.Background(), []byte(lineItemBatch))
	require.NoError(t, err)

	assert.Equal(t, 1, stats.Succeeded)
	assert.Equal(t, 1, stats.Failed)
	assert.Equal(t, 0, stats.Skipped)
	store.AssertExpectations(t)
}

func TestIngestFileArchivesRawDocument(t *testing.T) {
	store := new(mocks.MockReportStore)
	store.On("SaveGraph", mock.Anything, mock.Anything).Return(nil)

	archive := new(mocks.MockArchiveStorage)
	archive.On("Store", mock.Anything, mock.MatchedBy(func(key string) bool {
		return filepath.Ext(key) == ".json"
	}), "application/json", []byte(lineItemBatch)).Return(nil).Once()

	svc := NewService(store, archive)
	stats, err := svc.IngestFile(context.Background(), writeTemp(t, lineItemBatch), "")
	require.NoError(t, err)

	assert.Equal(t, 2, stats.Succeeded)
	archive.AssertExpectations(t)
}

func TestIngestFileArchiveFailureIsNotFatal(t *testing.T) {
	store := new(mocks.MockReportStore)
	store.On("SaveGraph", mock.Anything, mock.Anything).Return(nil)

	archive := new(mocks.MockArchiveStorage)
	archive.On("Store", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(errors.New("bucket gone"))

	svc := NewService(store, archive)
	stats, err := svc.IngestFile(context.Background(), writeTemp(t, lineItemBatch), FormatLineItem)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Succeeded)
}
