package query

import (
	"fmt"
	"regexp"
	"strings"
)

// The guard is a deliberately blunt substring policy: any statement that is
// not plainly a single SELECT is rejected rather than sanitized. False
// positives (e.g. a query mentioning a column named "created") are acceptable;
// false negatives are not.
var writeKeywords = []string{
	"update", "delete", "insert", "alter", "drop",
	"create", "grant", "revoke", "truncate",
}

var (
	limitPattern     = regexp.MustCompile(`(?i)\blimit\s+\d+`)
	aggregatePattern = regexp.MustCompile(`(?i)\b(count|sum|avg|min|max)\s*\(`)
	groupByPattern   = regexp.MustCompile(`(?i)\bgroup\s+by\b`)
)

// IsSelectOnly reports whether sql is a single read-only SELECT statement:
// first keyword SELECT, no write/DDL keyword anywhere, no statement separator
// besides one optional trailing semicolon.
func IsSelectOnly(sql string) bool {
	s := strings.TrimSpace(sql)
	s = strings.TrimSuffix(s, ";")
	if strings.Contains(s, ";") {
		return false
	}
	lower := strings.ToLower(s)
	if !strings.HasPrefix(lower, "select") {
		return false
	}
	for _, kw := range writeKeywords {
		if strings.Contains(lower, kw) {
			return false
		}
	}
	return true
}

// EnsureLimit appends a row cap to queries that have neither an explicit
// LIMIT nor an aggregate-only shape. COUNT/SUM/AVG/MIN/MAX without GROUP BY
// returns a handful of rows by construction and is left alone.
func EnsureLimit(sql string, limit int) string {
	s := strings.TrimSpace(sql)
	s = strings.TrimSuffix(s, ";")
	if limitPattern.MatchString(s) {
		return s
	}
	if aggregatePattern.MatchString(s) && !groupByPattern.MatchString(s) {
		return s
	}
	return fmt.Sprintf("%s LIMIT %d", s, limit)
}
