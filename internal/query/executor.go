// Package query executes guarded read-only SQL and fuzzy account-name
// lookups on behalf of untrusted callers, primarily the chat agent.
package query

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"finsight/internal/config"
	"finsight/internal/domain"
	"finsight/internal/inspect"
)

// Executor runs caller-supplied SQL after the read-only guard passes.
type Executor struct {
	db  *sqlx.DB
	cfg config.QueryConfig
}

func NewExecutor(db *sqlx.DB, cfg config.QueryConfig) *Executor {
	return &Executor{db: db, cfg: cfg}
}

// Execute validates, caps and runs sql, rendering the rows as a markdown
// table. Rejected statements return domain.ErrNotReadOnly without touching
// the database.
func (e *Executor) Execute(ctx context.Context, sql string) (string, error) {
	if !IsSelectOnly(sql) {
		return "", fmt.Errorf("%w: %q", domain.ErrNotReadOnly, strings.TrimSpace(sql))
	}
	capped := EnsureLimit(sql, e.cfg.DefaultLimit)

	rows, err := e.db.QueryxContext(ctx, capped)
	if err != nil {
		return "", fmt.Errorf("query: executing: %w", err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return "", fmt.Errorf("query: reading columns: %w", err)
	}

	var records [][]string
	for rows.Next() {
		row := map[string]interface{}{}
		if err := rows.MapScan(row); err != nil {
			return "", fmt.Errorf("query: scanning row: %w", err)
		}
		record := make([]string, len(columns))
		for i, col := range columns {
			record[i] = e.renderCell(row[col])
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return "", fmt.Errorf("query: iterating rows: %w", err)
	}

	return renderMarkdown(columns, records), nil
}

// renderCell turns one scanned value into bounded display text.
func (e *Executor) renderCell(v interface{}) string {
	var s string
	switch val := v.(type) {
	case nil:
		return ""
	case []byte:
		s = string(val)
	case time.Time:
		s = val.Format(time.RFC3339)
	default:
		s = fmt.Sprintf("%v", val)
	}
	if max := e.cfg.MaxCellLength; max > 0 && len(s) > max {
		s = s[:max] + "..."
	}
	return s
}

func renderMarkdown(columns []string, records [][]string) string {
	if len(records) == 0 {
		return "(no rows)"
	}
	var b strings.Builder
	b.WriteString("| " + strings.Join(columns, " | ") + " |\n")
	seps := make([]string, len(columns))
	for i := range seps {
		seps[i] = "---"
	}
	b.WriteString("| " + strings.Join(seps, " | ") + " |\n")
	for _, record := range records {
		escaped := make([]string, len(record))
		for i, cell := range record {
			escaped[i] = strings.ReplaceAll(cell, "|", "\\|")
		}
		b.WriteString("| " + strings.Join(escaped, " | ") + " |\n")
	}
	return b.String()
}

// FuzzyMatch is one ranked result of an approximate name search.
type FuzzyMatch struct {
	Value      string  `db:"value"`
	Similarity float64 `db:"similarity"`
}

// FuzzySearch returns the distinct values of table.column ranked by trigram
// similarity to term. A nonexistent table or column yields an empty result;
// a database without the pg_trgm extension yields domain.ErrFuzzyUnavailable.
func (e *Executor) FuzzySearch(ctx context.Context, table, column, term string) ([]FuzzyMatch, error) {
	if !inspect.SafeIdentifier(table) || !inspect.SafeIdentifier(column) {
		return nil, fmt.Errorf("%w: %s.%s", domain.ErrUnsafeIdentifier, table, column)
	}

	var exists bool
	if err := e.db.GetContext(ctx, &exists, `
		SELECT EXISTS (
			SELECT 1 FROM information_schema.columns
			WHERE table_schema = 'public' AND table_name = $1 AND column_name = $2
		)`, table, column,
	); err != nil {
		return nil, fmt.Errorf("query: checking %s.%s: %w", table, column, err)
	}
	if !exists {
		return nil, nil
	}

	var probe float64
	if err := e.db.GetContext(ctx, &probe, `SELECT similarity('test', 'test')`); err != nil {
		return nil, domain.ErrFuzzyUnavailable
	}

	sql := fmt.Sprintf(`
		SELECT DISTINCT %s AS value, similarity(%s, $1) AS similarity
		FROM %s
		WHERE %s IS NOT NULL AND similarity(%s, $1) > $2
		ORDER BY similarity DESC, value
		LIMIT $3`,
		column, column, table, column, column,
	)
	var matches []FuzzyMatch
	if err := e.db.SelectContext(ctx, &matches, sql, term, e.cfg.FuzzyThreshold, e.cfg.FuzzyLimit); err != nil {
		return nil, fmt.Errorf("query: fuzzy search %s.%s: %w", table, column, err)
	}
	return matches, nil
}
