package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"finsight/internal/domain"
	"finsight/internal/port"
)

type conversationRepo struct {
	db *sqlx.DB
}

// NewConversationRepo creates a new PostgreSQL-backed ConversationRepository.
func NewConversationRepo(db *sqlx.DB) port.ConversationRepository {
	return &conversationRepo{db: db}
}

func (r *conversationRepo) CreateConversation(ctx context.Context, conv *domain.Conversation) error {
	if err := r.db.GetContext(ctx, conv, `
		INSERT INTO conversations (id, topic)
		VALUES ($1, $2)
		RETURNING *`,
		conv.ID, conv.Topic,
	); err != nil {
		return fmt.Errorf("conversationRepo.CreateConversation: %w", err)
	}
	return nil
}

func (r *conversationRepo) GetConversation(ctx context.Context, id uuid.UUID) (*domain.Conversation, error) {
	var conv domain.Conversation
	err := r.db.GetContext(ctx, &conv, `SELECT * FROM conversations WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrConversationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("conversationRepo.GetConversation: %w", err)
	}
	return &conv, nil
}

func (r *conversationRepo) ListConversations(ctx context.Context, offset, limit int) ([]domain.Conversation, int, error) {
	var convs []domain.Conversation
	if err := r.db.SelectContext(ctx, &convs, `
		SELECT * FROM conversations ORDER BY created_at DESC OFFSET $1 LIMIT $2`,
		offset, limit,
	); err != nil {
		return nil, 0, fmt.Errorf("conversationRepo.ListConversations: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM conversations`); err != nil {
		return nil, 0, fmt.Errorf("conversationRepo.ListConversations count: %w", err)
	}
	return convs, total, nil
}

func (r *conversationRepo) CreateMessage(ctx context.Context, msg *domain.Message) error {
	if err := r.db.GetContext(ctx, msg, `
		INSERT INTO messages (id, conversation_id, sender_type, sender, content, usage)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING *`,
		msg.ID, msg.ConversationID, msg.SenderType, msg.Sender, msg.Content, msg.Usage,
	); err != nil {
		return fmt.Errorf("conversationRepo.CreateMessage: %w", err)
	}
	return nil
}

func (r *conversationRepo) ListMessages(ctx context.Context, conversationID uuid.UUID) ([]domain.Message, error) {
	var msgs []domain.Message
	if err := r.db.SelectContext(ctx, &msgs, `
		SELECT * FROM messages WHERE conversation_id = $1 ORDER BY created_at, id`,
		conversationID,
	); err != nil {
		return nil, fmt.Errorf("conversationRepo.ListMessages: %w", err)
	}
	return msgs, nil
}
