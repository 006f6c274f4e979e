package agent

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"finsight/internal/domain"
	"finsight/mocks"
)

func TestDecodeToolRequest(t *testing.T) {
	req, err := decodeToolRequest(map[string]any{"sql_query": "select 1"})
	require.NoError(t, err)
	assert.Equal(t, "select 1", req.SQLQuery)
	assert.Equal(t, 1, req.actions())
}

func TestParseToolRequestRepairsJSON(t *testing.T) {
	// Trailing comma and unquoted key, the classic model output defects.
	req, err := parseToolRequest(`{sql_query: "select name from accounts",}`)
	require.NoError(t, err)
	assert.Equal(t, "select name from accounts", req.SQLQuery)
}

func TestDispatchRequiresExactlyOneAction(t *testing.T) {
	tools := new(mocks.MockQueryTools)

	_, err := (&toolRequest{}).dispatch(context.Background(), tools)
	assert.ErrorIs(t, err, domain.ErrAmbiguousToolCall)

	_, err = (&toolRequest{SQLQuery: "select 1", FetchSchema: true}).dispatch(context.Background(), tools)
	assert.ErrorIs(t, err, domain.ErrAmbiguousToolCall)

	_, err = (&toolRequest{SQLQuery: "select 1", SearchAccountTerm: "sales", FetchSchema: true}).dispatch(context.Background(), tools)
	assert.ErrorIs(t, err, domain.ErrAmbiguousToolCall)

	tools.AssertNotCalled(t, "ExecuteSQL", mock.Anything, mock.Anything)
	tools.AssertNotCalled(t, "FetchSchema", mock.Anything)
}

func TestDispatchRoutesActions(t *testing.T) {
	ctx := context.Background()

	tools := new(mocks.MockQueryTools)
	tools.On("FetchSchema", mock.Anything).Return("Table: accounts", nil).Once()
	tools.On("SearchAccountTerm", mock.Anything, "operatin expence").Return("Operating Expense", nil).Once()
	tools.On("ExecuteSQL", mock.Anything, "select 1").Return("| ?column? |", nil).Once()

	out, err := (&toolRequest{FetchSchema: true}).dispatch(ctx, tools)
	require.NoError(t, err)
	assert.Equal(t, "Table: accounts", out)

	out, err = (&toolRequest{SearchAccountTerm: " operatin expence "}).dispatch(ctx, tools)
	require.NoError(t, err)
	assert.Equal(t, "Operating Expense", out)

	out, err = (&toolRequest{SQLQuery: "select 1"}).dispatch(ctx, tools)
	require.NoError(t, err)
	assert.Equal(t, "| ?column? |", out)

	tools.AssertExpectations(t)
}
