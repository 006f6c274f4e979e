package service

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"finsight/internal/domain"
	"finsight/internal/port"
	"finsight/mocks"
)

func TestCreateConversation(t *testing.T) {
	repo := new(mocks.MockConversationRepo)
	repo.On("CreateConversation", mock.Anything, mock.MatchedBy(func(c *domain.Conversation) bool {
		return c.ID != uuid.Nil && c.Topic != nil && *c.Topic == "Q1 revenue"
	})).Return(nil).Once()

	svc := NewChatService(repo, nil)
	topic := "Q1 revenue"
	conv, err := svc.CreateConversation(context.Background(), &topic)
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, conv.ID)
	repo.AssertExpectations(t)
}

func TestAskWithoutAgent(t *testing.T) {
	svc := NewChatService(new(mocks.MockConversationRepo), nil)
	_, err := svc.Ask(context.Background(), uuid.New(), nil, "what was Q1 revenue?")
	assert.ErrorIs(t, err, domain.ErrAgentUnavailable)
}

func TestAskUnknownConversation(t *testing.T) {
	repo := new(mocks.MockConversationRepo)
	repo.On("GetConversation", mock.Anything, mock.Anything).Return(nil, domain.ErrConversationNotFound)

	svc := NewChatService(repo, new(mocks.MockAgent))
	_, err := svc.Ask(context.Background(), uuid.New(), nil, "anything")
	assert.ErrorIs(t, err, domain.ErrConversationNotFound)
}

func TestAskPersistsBothTurns(t *testing.T) {
	convID := uuid.New()
	repo := new(mocks.MockConversationRepo)
	repo.On("GetConversation", mock.Anything, convID).Return(&domain.Conversation{ID: convID}, nil)
	repo.On("ListMessages", mock.Anything, convID).Return([]domain.Message{
		{SenderType: domain.SenderTypeUser, Content: "hello"},
		{SenderType: domain.SenderTypeSystem, Content: "hi, ask me about your reports"},
	}, nil)

	var persisted []*domain.Message
	repo.On("CreateMessage", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		persisted = append(persisted, args.Get(1).(*domain.Message))
	}).Return(nil).Twice()

	agent := new(mocks.MockAgent)
	agent.On("Ask", mock.Anything, mock.MatchedBy(func(prompt string) bool {
		// History is folded into the prompt, question last.
		return strings.Contains(prompt, "hello") &&
			strings.Contains(prompt, "ask me about your reports") &&
			strings.HasSuffix(prompt, "what was Q1 revenue?")
	})).Return(&port.AgentAnswer{
		Output: "Q1 revenue was 500 USD",
		Usage:  &port.TokenUsage{Requests: 2, TotalTokens: 1234, ModelName: "gemini-2.0-flash"},
	}, nil).Once()

	svc := NewChatService(repo, agent)
	sender := "alex"
	reply, err := svc.Ask(context.Background(), convID, &sender, "what was Q1 revenue?")
	require.NoError(t, err)

	assert.Equal(t, "Q1 revenue was 500 USD", reply.Content)
	assert.Equal(t, domain.SenderTypeSystem, reply.SenderType)

	require.Len(t, persisted, 2)
	assert.Equal(t, domain.SenderTypeUser, persisted[0].SenderType)
	assert.Equal(t, "what was Q1 revenue?", persisted[0].Content)
	require.NotNil(t, persisted[0].Sender)
	assert.Equal(t, "alex", *persisted[0].Sender)

	var usage port.TokenUsage
	require.NoError(t, json.Unmarshal(persisted[1].Usage, &usage))
	assert.Equal(t, 1234, usage.TotalTokens)

	repo.AssertExpectations(t)
	agent.AssertExpectations(t)
}

func TestHistoryPromptWithoutHistory(t *testing.T) {
	assert.Equal(t, "just the question", historyPrompt(nil, "just the question"))
}
