package port

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"finsight/internal/domain"
)

// IngestCounts summarizes what is persisted across all ingestion runs.
type IngestCounts struct {
	Reports  int64
	Accounts int64
	Entries  int64
}

// ReportStore defines the contract for persisting and reading report graphs.
type ReportStore interface {
	// SaveGraph persists one report graph inside a single transaction.
	// A failure rolls back the whole record and leaves prior records intact.
	SaveGraph(ctx context.Context, g *domain.ReportGraph) error
	GetReport(ctx context.Context, id uuid.UUID) (*domain.Report, error)
	GetReportGraph(ctx context.Context, id uuid.UUID) (*domain.ReportGraph, error)
	ListReports(ctx context.Context, offset, limit int) ([]domain.Report, int, error)
	// Counts returns the persisted report/account/entry totals.
	Counts(ctx context.Context) (*IngestCounts, error)
	// TotalByGroup sums all entry values for accounts in the given group.
	TotalByGroup(ctx context.Context, group domain.AccountGroup) (decimal.Decimal, error)
	// Reset wipes all reports and, via cascade, their accounts and entries.
	Reset(ctx context.Context) error
}

// ConversationRepository defines the contract for the chat transcript store.
type ConversationRepository interface {
	CreateConversation(ctx context.Context, conv *domain.Conversation) error
	GetConversation(ctx context.Context, id uuid.UUID) (*domain.Conversation, error)
	ListConversations(ctx context.Context, offset, limit int) ([]domain.Conversation, int, error)
	CreateMessage(ctx context.Context, msg *domain.Message) error
	ListMessages(ctx context.Context, conversationID uuid.UUID) ([]domain.Message, error)
}
