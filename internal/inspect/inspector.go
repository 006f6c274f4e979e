// Package inspect reflects the live PostgreSQL schema into a compact text
// description suitable for prompting a language model.
package inspect

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/jmoiron/sqlx"

	"finsight/internal/domain"
)

// Transcript tables hold chat state, not financial data, so they are hidden
// from the model.
var skipTables = map[string]bool{
	"conversations":     true,
	"messages":          true,
	"schema_migrations": true,
}

// distinctValueColumns lists the columns whose distinct values are small and
// meaningful enough to enumerate inline, so the model can see which account
// names and groups actually exist without dumping whole tables.
var distinctValueColumns = map[string][]string{
	"accounts": {"account_group", "name"},
}

const maxDistinctValues = 50

var identifierPattern = regexp.MustCompile(`^[A-Za-z0-9_]+$`)

// SafeIdentifier reports whether name can be interpolated into SQL as a
// table or column name.
func SafeIdentifier(name string) bool {
	return name != "" && identifierPattern.MatchString(name)
}

// Column describes one column of a reflected table.
type Column struct {
	Name        string
	DataType    string
	Nullable    bool
	Description string
}

// Table describes one reflected table: its columns, its outgoing foreign key
// edges rendered as "column -> table.column", and optional enumerated values.
type Table struct {
	Name           string
	Columns        []Column
	ForeignKeys    []string
	DistinctValues map[string][]string
}

// Inspector reflects table structure from information_schema.
type Inspector struct {
	db       *sqlx.DB
	connHint string
}

// New creates an Inspector. dsn is only ever used, redacted and truncated,
// in error messages to hint which database was unreachable.
func New(db *sqlx.DB, dsn string) *Inspector {
	return &Inspector{db: db, connHint: redactDSN(dsn)}
}

func redactDSN(dsn string) string {
	if at := strings.LastIndex(dsn, "@"); at >= 0 {
		if scheme := strings.Index(dsn, "://"); scheme >= 0 {
			dsn = dsn[:scheme+3] + dsn[at+1:]
		} else {
			dsn = dsn[at+1:]
		}
	}
	if len(dsn) > 64 {
		dsn = dsn[:64] + "..."
	}
	return dsn
}

// Tables returns the reflected public tables in name order, minus the
// transcript tables.
func (i *Inspector) Tables(ctx context.Context) ([]Table, error) {
	var names []string
	if err := i.db.SelectContext(ctx, &names, `
		SELECT table_name FROM information_schema.tables
		WHERE table_schema = 'public' AND table_type = 'BASE TABLE'
		ORDER BY table_name`,
	); err != nil {
		return nil, fmt.Errorf("inspect: listing tables on %s: %w", i.connHint, err)
	}

	var tables []Table
	for _, name := range names {
		if skipTables[name] {
			continue
		}
		t, err := i.describeTable(ctx, name)
		if err != nil {
			return nil, err
		}
		tables = append(tables, *t)
	}
	return tables, nil
}

func (i *Inspector) describeTable(ctx context.Context, name string) (*Table, error) {
	if !SafeIdentifier(name) {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnsafeIdentifier, name)
	}

	t := &Table{Name: name}

	rows, err := i.db.QueryxContext(ctx, `
		SELECT c.column_name, c.data_type, c.is_nullable,
		       COALESCE(col_description(pgc.oid, c.ordinal_position), '') AS description
		FROM information_schema.columns c
		JOIN pg_class pgc ON pgc.relname = c.table_name
		JOIN pg_namespace pgn ON pgn.oid = pgc.relnamespace AND pgn.nspname = c.table_schema
		WHERE c.table_schema = 'public' AND c.table_name = $1
		ORDER BY c.ordinal_position`, name,
	)
	if err != nil {
		return nil, fmt.Errorf("inspect: columns of %s: %w", name, err)
	}
	defer rows.Close()

	for rows.Next() {
		var colName, dataType, isNullable, description string
		if err := rows.Scan(&colName, &dataType, &isNullable, &description); err != nil {
			return nil, fmt.Errorf("inspect: scanning column of %s: %w", name, err)
		}
		t.Columns = append(t.Columns, Column{
			Name:        colName,
			DataType:    dataType,
			Nullable:    isNullable == "YES",
			Description: description,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("inspect: columns of %s: %w", name, err)
	}

	if err := i.db.SelectContext(ctx, &t.ForeignKeys, `
		SELECT kcu.column_name || ' -> ' || ccu.table_name || '.' || ccu.column_name
		FROM information_schema.table_constraints tc
		JOIN information_schema.key_column_usage kcu
		  ON kcu.constraint_name = tc.constraint_name AND kcu.table_schema = tc.table_schema
		JOIN information_schema.constraint_column_usage ccu
		  ON ccu.constraint_name = tc.constraint_name AND ccu.table_schema = tc.table_schema
		WHERE tc.constraint_type = 'FOREIGN KEY'
		  AND tc.table_schema = 'public' AND tc.table_name = $1
		ORDER BY 1`, name,
	); err != nil {
		return nil, fmt.Errorf("inspect: foreign keys of %s: %w", name, err)
	}

	for _, col := range distinctValueColumns[name] {
		values, err := i.distinctValues(ctx, name, col)
		if err != nil {
			return nil, err
		}
		if len(values) == 0 {
			continue
		}
		if t.DistinctValues == nil {
			t.DistinctValues = map[string][]string{}
		}
		t.DistinctValues[col] = values
	}
	return t, nil
}

func (i *Inspector) distinctValues(ctx context.Context, table, column string) ([]string, error) {
	if !SafeIdentifier(table) || !SafeIdentifier(column) {
		return nil, fmt.Errorf("%w: %s.%s", domain.ErrUnsafeIdentifier, table, column)
	}
	var values []string
	query := fmt.Sprintf(
		`SELECT DISTINCT %s::text FROM %s WHERE %s IS NOT NULL ORDER BY 1 LIMIT %d`,
		column, table, column, maxDistinctValues,
	)
	if err := i.db.SelectContext(ctx, &values, query); err != nil {
		return nil, fmt.Errorf("inspect: distinct values of %s.%s: %w", table, column, err)
	}
	return values, nil
}

// SchemaText renders the reflected schema as the flat text block handed to
// the model.
func (i *Inspector) SchemaText(ctx context.Context) (string, error) {
	tables, err := i.Tables(ctx)
	if err != nil {
		return "", err
	}
	return RenderSchemaText(tables), nil
}

// RenderSchemaText formats tables into one description per table: columns
// with types, nullability and comments, then foreign keys, then enumerated
// values.
func RenderSchemaText(tables []Table) string {
	var b strings.Builder
	for idx, t := range tables {
		if idx > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "Table: %s\n", t.Name)
		b.WriteString("Columns:\n")
		for _, c := range t.Columns {
			nullable := "NOT NULL"
			if c.Nullable {
				nullable = "NULL"
			}
			fmt.Fprintf(&b, "  - %s (%s, %s)", c.Name, c.DataType, nullable)
			if c.Description != "" {
				fmt.Fprintf(&b, ": %s", c.Description)
			}
			b.WriteString("\n")
		}
		if len(t.ForeignKeys) > 0 {
			b.WriteString("Foreign keys:\n")
			for _, fk := range t.ForeignKeys {
				fmt.Fprintf(&b, "  - %s\n", fk)
			}
		}
		cols := make([]string, 0, len(t.DistinctValues))
		for col := range t.DistinctValues {
			cols = append(cols, col)
		}
		sort.Strings(cols)
		for _, col := range cols {
			fmt.Fprintf(&b, "Values of %s: %s\n", col, strings.Join(t.DistinctValues[col], ", "))
		}
	}
	return b.String()
}
