package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"finsight/internal/domain"
	"finsight/mocks"
)

func setupQueryRouter(tools *mocks.MockQueryTools) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewQueryHandler(tools)
	r.GET("/schema", h.GetSchema)
	r.POST("/query", h.Execute)
	r.GET("/accounts/search", h.SearchAccounts)
	return r
}

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) APIResponse {
	t.Helper()
	var resp APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestGetSchema(t *testing.T) {
	tools := new(mocks.MockQueryTools)
	tools.On("FetchSchema", mock.Anything).Return("Table: accounts", nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/schema", nil)
	setupQueryRouter(tools).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	resp := decodeResponse(t, w)
	assert.True(t, resp.Success)
}

func TestExecuteQueryRejectsWrites(t *testing.T) {
	tools := new(mocks.MockQueryTools)
	tools.On("ExecuteSQL", mock.Anything, "UPDATE accounts SET name='x'").
		Return("", domain.ErrNotReadOnly)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/query",
		strings.NewReader(`{"sql": "UPDATE accounts SET name='x'"}`))
	req.Header.Set("Content-Type", "application/json")
	setupQueryRouter(tools).ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	resp := decodeResponse(t, w)
	assert.False(t, resp.Success)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "NOT_READ_ONLY", resp.Error.Code)
}

func TestExecuteQueryRequiresBody(t *testing.T) {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/query", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	setupQueryRouter(new(mocks.MockQueryTools)).ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSearchAccountsRequiresTerm(t *testing.T) {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/accounts/search", nil)
	setupQueryRouter(new(mocks.MockQueryTools)).ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSearchAccounts(t *testing.T) {
	tools := new(mocks.MockQueryTools)
	tools.On("SearchAccountTerm", mock.Anything, "operatin expence").
		Return("Account names similar to \"operatin expence\":\n  - Operating Expense (similarity 0.62)\n", nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/accounts/search?term=operatin+expence", nil)
	setupQueryRouter(tools).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Operating Expense")
}
