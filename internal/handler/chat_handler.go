package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"finsight/internal/service"
)

// ChatHandler handles conversation and question-answering endpoints.
type ChatHandler struct {
	chatService *service.ChatService
}

// NewChatHandler creates a new ChatHandler.
func NewChatHandler(chatService *service.ChatService) *ChatHandler {
	return &ChatHandler{chatService: chatService}
}

// CreateConversationRequest is the body of POST /conversations.
type CreateConversationRequest struct {
	Topic *string `json:"topic"`
}

// AskRequest is the body of POST /conversations/:id/ask.
type AskRequest struct {
	Question string  `json:"question" binding:"required"`
	Sender   *string `json:"sender"`
}

// CreateConversation handles POST /api/v1/conversations
func (h *ChatHandler) CreateConversation(c *gin.Context) {
	var req CreateConversationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	conv, err := h.chatService.CreateConversation(c.Request.Context(), req.Topic)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondCreated(c, conv)
}

// ListConversations handles GET /api/v1/conversations
func (h *ChatHandler) ListConversations(c *gin.Context) {
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	convs, total, err := h.chatService.ListConversations(c.Request.Context(), offset, limit)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondPaginated(c, convs, PagMeta{Total: total, Offset: offset, Limit: limit})
}

// GetConversation handles GET /api/v1/conversations/:id
func (h *ChatHandler) GetConversation(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid conversation ID")
		return
	}

	conv, err := h.chatService.GetConversation(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, conv)
}

// ListMessages handles GET /api/v1/conversations/:id/messages
func (h *ChatHandler) ListMessages(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid conversation ID")
		return
	}

	msgs, err := h.chatService.ListMessages(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, msgs)
}

// Ask handles POST /api/v1/conversations/:id/ask
func (h *ChatHandler) Ask(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid conversation ID")
		return
	}

	var req AskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	reply, err := h.chatService.Ask(c.Request.Context(), id, req.Sender, req.Question)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, reply)
}
