package ingest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"finsight/internal/domain"
	"finsight/internal/port"
)

// Format names a supported source document shape.
type Format string

const (
	FormatColumnar Format = "columnar"
	FormatLineItem Format = "lineitem"
)

// Stats counts the outcome of one ingestion run.
type Stats struct {
	Succeeded int
	Failed    int
	Skipped   int
}

// Service runs ingestion: parse a source document into report graphs and
// persist each graph in its own transaction so one bad record never forces
// re-ingesting an otherwise valid file.
type Service struct {
	store   port.ReportStore
	archive port.ArchiveStorage
}

// NewService creates an ingestion service. archive may be nil to disable
// raw-document archiving.
func NewService(store port.ReportStore, archive port.ArchiveStorage) *Service {
	return &Service{store: store, archive: archive}
}

// IngestFile reads and ingests one source file. When format is empty it is
// detected from the document shape.
func (s *Service) IngestFile(ctx context.Context, path string, format Format) (*Stats, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading source file: %w", err)
	}
	if format == "" {
		format, err = DetectFormat(raw)
		if err != nil {
			return nil, err
		}
	}

	var stats *Stats
	switch format {
	case FormatColumnar:
		stats, err = s.IngestColumnar(ctx, raw)
	case FormatLineItem:
		stats, err = s.IngestLineItems(ctx, raw)
	default:
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownFormat, format)
	}
	if err != nil {
		return stats, err
	}

	if s.archive != nil && stats.Succeeded > 0 {
		key := fmt.Sprintf("raw/%s/%s-%s", format, time.Now().UTC().Format("20060102T150405Z"), filepath.Base(path))
		if archiveErr := s.archive.Store(ctx, key, "application/json", raw); archiveErr != nil {
			// Archiving is best-effort; the data is already persisted.
			log.Printf("ingest: archiving %s failed: %v", path, archiveErr)
		}
	}

	log.Printf("ingest: %s done: %d succeeded, %d failed, %d skipped", format, stats.Succeeded, stats.Failed, stats.Skipped)
	return stats, nil
}

// IngestColumnar ingests one columnar document. The whole document is one
// record and one transaction.
func (s *Service) IngestColumnar(ctx context.Context, raw []byte) (*Stats, error) {
	stats := &Stats{}
	graph, err := ParseColumnar(raw)
	if err != nil {
		stats.Failed++
		return stats, err
	}
	if err := s.store.SaveGraph(ctx, graph); err != nil {
		stats.Failed++
		return stats, fmt.Errorf("persisting columnar report: %w", err)
	}
	stats.Succeeded++
	log.Printf("ingest: created report %q (%d accounts, %d entries)", graph.Report.ReportName, len(graph.Accounts), len(graph.Entries))
	return stats, nil
}

// IngestLineItems ingests a line-item document record by record. A record
// that fails to parse is skipped; a record that fails to persist is rolled
// back and counted as failed; the batch always continues.
func (s *Service) IngestLineItems(ctx context.Context, raw []byte) (*Stats, error) {
	graphs, skipped, err := ParseLineItems(raw)
	if err != nil {
		return &Stats{}, err
	}

	stats := &Stats{Skipped: len(skipped)}
	for _, recordErr := range skipped {
		log.Printf("ingest: skipping %v", recordErr)
	}
	for _, graph := range graphs {
		if err := s.store.SaveGraph(ctx, graph); err != nil {
			stats.Failed++
			log.Printf("ingest: persisting report %q failed: %v", graph.Report.ReportName, err)
			continue
		}
		stats.Succeeded++
	}
	return stats, nil
}

// DetectFormat inspects the document shape: a top-level "data" array is the
// line-item format, an object with the columnar header block is columnar.
func DetectFormat(raw []byte) (Format, error) {
	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(raw, &envelope); err == nil && len(envelope.Data) > 0 {
		if trimmed := bytes.TrimSpace(envelope.Data); trimmed[0] == '[' {
			return FormatLineItem, nil
		}
		raw = envelope.Data
	}

	var doc struct {
		Header  json.RawMessage `json:"Header"`
		Columns json.RawMessage `json:"Columns"`
	}
	if err := json.Unmarshal(raw, &doc); err == nil && len(doc.Header) > 0 && len(doc.Columns) > 0 {
		return FormatColumnar, nil
	}
	return "", domain.ErrUnknownFormat
}
