package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"finsight/internal/port"
)

// QueryHandler exposes the agent's query tools directly over HTTP for
// debugging and non-chat clients.
type QueryHandler struct {
	tools port.QueryTools
}

// NewQueryHandler creates a new QueryHandler.
func NewQueryHandler(tools port.QueryTools) *QueryHandler {
	return &QueryHandler{tools: tools}
}

// QueryRequest is the body of POST /query.
type QueryRequest struct {
	SQL string `json:"sql" binding:"required"`
}

// GetSchema handles GET /api/v1/schema
func (h *QueryHandler) GetSchema(c *gin.Context) {
	schema, err := h.tools.FetchSchema(c.Request.Context())
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, gin.H{"schema": schema})
}

// Execute handles POST /api/v1/query
func (h *QueryHandler) Execute(c *gin.Context) {
	var req QueryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	result, err := h.tools.ExecuteSQL(c.Request.Context(), req.SQL)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, gin.H{"result": result})
}

// SearchAccounts handles GET /api/v1/accounts/search
func (h *QueryHandler) SearchAccounts(c *gin.Context) {
	term := strings.TrimSpace(c.Query("term"))
	if term == "" {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "term query parameter is required")
		return
	}

	result, err := h.tools.SearchAccountTerm(c.Request.Context(), term)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, gin.H{"result": result})
}
