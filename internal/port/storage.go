package port

import "context"

// ArchiveStorage stores raw source documents after successful ingestion.
type ArchiveStorage interface {
	Store(ctx context.Context, key string, contentType string, body []byte) error
}
