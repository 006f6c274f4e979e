package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"

	"finsight/internal/domain"
	"finsight/internal/port"
)

// ChatService manages conversations and runs agent-backed question
// answering over the ingested financial data.
type ChatService struct {
	repo  port.ConversationRepository
	agent port.Agent
}

// NewChatService creates a chat service. agent may be nil when no model is
// configured; conversation CRUD still works and Ask reports unavailability.
func NewChatService(repo port.ConversationRepository, agent port.Agent) *ChatService {
	return &ChatService{repo: repo, agent: agent}
}

func (s *ChatService) CreateConversation(ctx context.Context, topic *string) (*domain.Conversation, error) {
	conv := &domain.Conversation{ID: uuid.New(), Topic: topic}
	if err := s.repo.CreateConversation(ctx, conv); err != nil {
		return nil, err
	}
	return conv, nil
}

func (s *ChatService) GetConversation(ctx context.Context, id uuid.UUID) (*domain.Conversation, error) {
	return s.repo.GetConversation(ctx, id)
}

func (s *ChatService) ListConversations(ctx context.Context, offset, limit int) ([]domain.Conversation, int, error) {
	return s.repo.ListConversations(ctx, offset, limit)
}

func (s *ChatService) ListMessages(ctx context.Context, conversationID uuid.UUID) ([]domain.Message, error) {
	if _, err := s.repo.GetConversation(ctx, conversationID); err != nil {
		return nil, err
	}
	return s.repo.ListMessages(ctx, conversationID)
}

// Ask records the user's question, runs the agent with the conversation
// history as context, and records and returns the agent's reply.
func (s *ChatService) Ask(ctx context.Context, conversationID uuid.UUID, sender *string, question string) (*domain.Message, error) {
	if s.agent == nil {
		return nil, domain.ErrAgentUnavailable
	}
	if _, err := s.repo.GetConversation(ctx, conversationID); err != nil {
		return nil, err
	}

	history, err := s.repo.ListMessages(ctx, conversationID)
	if err != nil {
		return nil, err
	}

	userMsg := &domain.Message{
		ID:             uuid.New(),
		ConversationID: conversationID,
		SenderType:     domain.SenderTypeUser,
		Sender:         sender,
		Content:        question,
	}
	if err := s.repo.CreateMessage(ctx, userMsg); err != nil {
		return nil, err
	}

	answer, err := s.agent.Ask(ctx, historyPrompt(history, question))
	if err != nil {
		return nil, fmt.Errorf("asking agent: %w", err)
	}

	var usage json.RawMessage
	if answer.Usage != nil {
		usage, err = json.Marshal(answer.Usage)
		if err != nil {
			log.Printf("chat: encoding usage failed: %v", err)
			usage = nil
		}
	}

	reply := &domain.Message{
		ID:             uuid.New(),
		ConversationID: conversationID,
		SenderType:     domain.SenderTypeSystem,
		Content:        answer.Output,
		Usage:          usage,
	}
	if err := s.repo.CreateMessage(ctx, reply); err != nil {
		return nil, err
	}
	return reply, nil
}

// historyPrompt folds the prior transcript into the prompt so a stateless
// agent still answers follow-up questions in context.
func historyPrompt(history []domain.Message, question string) string {
	if len(history) == 0 {
		return question
	}
	var b strings.Builder
	b.WriteString("The past messages of this conversation are:\n")
	for _, msg := range history {
		b.WriteString(fmt.Sprintf("[%s] %s\n", msg.SenderType, msg.Content))
	}
	b.WriteString("\nNow, given the chat history, answer this question: ")
	b.WriteString(question)
	return b.String()
}
