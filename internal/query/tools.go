package query

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"finsight/internal/domain"
	"finsight/internal/inspect"
	"finsight/internal/port"
)

const (
	accountTable      = "accounts"
	accountNameColumn = "name"
)

type tools struct {
	inspector *inspect.Inspector
	executor  *Executor
}

// NewTools assembles the capability surface handed to the chat agent:
// schema reflection, fuzzy account-name search, and guarded SQL execution.
func NewTools(inspector *inspect.Inspector, executor *Executor) port.QueryTools {
	return &tools{inspector: inspector, executor: executor}
}

func (t *tools) FetchSchema(ctx context.Context) (string, error) {
	return t.inspector.SchemaText(ctx)
}

func (t *tools) SearchAccountTerm(ctx context.Context, term string) (string, error) {
	matches, err := t.executor.FuzzySearch(ctx, accountTable, accountNameColumn, term)
	if errors.Is(err, domain.ErrFuzzyUnavailable) {
		return "Fuzzy search is unavailable: the pg_trgm extension is not installed.", nil
	}
	if err != nil {
		return "", err
	}
	if len(matches) == 0 {
		return fmt.Sprintf("No account names similar to %q.", term), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Account names similar to %q:\n", term)
	for _, m := range matches {
		fmt.Fprintf(&b, "  - %s (similarity %.2f)\n", m.Value, m.Similarity)
	}
	return b.String(), nil
}

func (t *tools) ExecuteSQL(ctx context.Context, sql string) (string, error) {
	return t.executor.Execute(ctx, sql)
}
