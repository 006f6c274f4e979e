package handler

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"finsight/internal/domain"
)

// APIResponse is the standard envelope for all API responses.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *APIError   `json:"error,omitempty"`
	Meta    *PagMeta    `json:"meta,omitempty"`
}

// APIError holds error details in the response.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// PagMeta holds pagination metadata.
type PagMeta struct {
	Total  int `json:"total"`
	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

// RespondOK sends a 200 success response.
func RespondOK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, APIResponse{Success: true, Data: data})
}

// RespondCreated sends a 201 success response.
func RespondCreated(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, APIResponse{Success: true, Data: data})
}

// RespondPaginated sends a 200 success response with pagination metadata.
func RespondPaginated(c *gin.Context, data interface{}, meta PagMeta) {
	c.JSON(http.StatusOK, APIResponse{Success: true, Data: data, Meta: &meta})
}

// RespondError sends an error response with the given status code.
func RespondError(c *gin.Context, status int, code, msg string) {
	c.JSON(status, APIResponse{
		Success: false,
		Error:   &APIError{Code: code, Message: msg},
	})
}

// MapDomainError translates domain errors to HTTP status codes and error codes.
func MapDomainError(err error) (status int, code, msg string) {
	switch {
	case errors.Is(err, domain.ErrReportNotFound):
		return http.StatusNotFound, "REPORT_NOT_FOUND", "report not found"
	case errors.Is(err, domain.ErrConversationNotFound):
		return http.StatusNotFound, "CONVERSATION_NOT_FOUND", "conversation not found"
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, "NOT_FOUND", "resource not found"
	case errors.Is(err, domain.ErrNotReadOnly):
		return http.StatusBadRequest, "NOT_READ_ONLY", "only single read-only SELECT statements are allowed"
	case errors.Is(err, domain.ErrUnsafeIdentifier):
		return http.StatusBadRequest, "UNSAFE_IDENTIFIER", "table and column names may contain only letters, digits and underscores"
	case errors.Is(err, domain.ErrFuzzyUnavailable):
		return http.StatusServiceUnavailable, "FUZZY_UNAVAILABLE", "fuzzy search requires the pg_trgm extension"
	case errors.Is(err, domain.ErrAgentUnavailable):
		return http.StatusServiceUnavailable, "AGENT_UNAVAILABLE", "no chat model is configured"
	case errors.Is(err, domain.ErrAmbiguousToolCall):
		return http.StatusBadRequest, "AMBIGUOUS_TOOL_CALL", "exactly one query action must be requested"
	case errors.Is(err, domain.ErrUnknownFormat):
		return http.StatusBadRequest, "UNKNOWN_FORMAT", "unrecognized source document format"
	case errors.Is(err, domain.ErrMalformedRecord):
		return http.StatusBadRequest, "MALFORMED_RECORD", "source record is missing required fields"
	default:
		return http.StatusInternalServerError, "INTERNAL_ERROR", "an internal error occurred"
	}
}

// HandleError maps a domain error and sends the appropriate error response.
func HandleError(c *gin.Context, err error) {
	status, code, msg := MapDomainError(err)
	if status >= 500 {
		requestID, _ := c.Get("request_id")
		log.Printf("[%s] internal error: %v", requestID, err)
	}
	RespondError(c, status, code, msg)
}
