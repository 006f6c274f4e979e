package query

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finsight/internal/config"
	"finsight/internal/domain"
)

func testExecutor(maxCell int) *Executor {
	return &Executor{cfg: config.QueryConfig{DefaultLimit: 200, MaxCellLength: maxCell}}
}

func TestExecuteRejectsWritesWithoutTouchingDB(t *testing.T) {
	// db is nil: reaching the database on a rejected statement would panic.
	e := testExecutor(1000)
	_, err := e.Execute(context.Background(), "UPDATE accounts SET name='x'")
	require.ErrorIs(t, err, domain.ErrNotReadOnly)

	_, err = e.Execute(context.Background(), "SELECT * FROM accounts; DROP TABLE accounts;")
	require.ErrorIs(t, err, domain.ErrNotReadOnly)
}

func TestRenderCellTruncates(t *testing.T) {
	e := testExecutor(10)
	long := strings.Repeat("x", 40)
	assert.Equal(t, strings.Repeat("x", 10)+"...", e.renderCell(long))
	assert.Equal(t, "short", e.renderCell("short"))
	assert.Equal(t, "", e.renderCell(nil))
	assert.Equal(t, "bytes", e.renderCell([]byte("bytes")))
	assert.Equal(t, "42", e.renderCell(int64(42)))
}

func TestRenderMarkdown(t *testing.T) {
	out := renderMarkdown(
		[]string{"name", "value"},
		[][]string{{"Sales", "100"}, {"a|b", "200"}},
	)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "| name | value |", lines[0])
	assert.Equal(t, "| --- | --- |", lines[1])
	assert.Equal(t, "| Sales | 100 |", lines[2])
	assert.Equal(t, "| a\\|b | 200 |", lines[3])
}

func TestRenderMarkdownEmpty(t *testing.T) {
	assert.Equal(t, "(no rows)", renderMarkdown([]string{"name"}, nil))
}

func TestFuzzySearchRejectsUnsafeIdentifiers(t *testing.T) {
	e := testExecutor(1000)
	_, err := e.FuzzySearch(context.Background(), "accounts; --", "name", "sales")
	assert.ErrorIs(t, err, domain.ErrUnsafeIdentifier)

	_, err = e.FuzzySearch(context.Background(), "accounts", "name'", "sales")
	assert.ErrorIs(t, err, domain.ErrUnsafeIdentifier)
}
