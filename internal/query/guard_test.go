package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsSelectOnly(t *testing.T) {
	cases := []struct {
		sql  string
		want bool
	}{
		{"select name from accounts", true},
		{"SELECT COUNT(*) FROM accounts", true},
		{"  SELECT * FROM reports;  ", true},
		{"SELECT * FROM accounts; DROP TABLE accounts;", false},
		{"UPDATE accounts SET name='x'", false},
		{"DELETE FROM reports", false},
		{"INSERT INTO accounts VALUES (1)", false},
		{"TRUNCATE accounts", false},
		{"WITH x AS (SELECT 1) SELECT * FROM x", false},
		{"select * from accounts where name = 'drop'", false},
		{"", false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, IsSelectOnly(tc.sql), "query: %s", tc.sql)
	}
}

func TestEnsureLimitAppendsCap(t *testing.T) {
	got := EnsureLimit("select name from accounts", 200)
	assert.Equal(t, "select name from accounts LIMIT 200", got)
}

func TestEnsureLimitStripsTrailingSemicolon(t *testing.T) {
	got := EnsureLimit("select name from accounts;", 50)
	assert.Equal(t, "select name from accounts LIMIT 50", got)
}

func TestEnsureLimitKeepsExistingLimit(t *testing.T) {
	got := EnsureLimit("select name from accounts LIMIT 5", 200)
	assert.Equal(t, "select name from accounts LIMIT 5", got)
}

func TestEnsureLimitSkipsAggregates(t *testing.T) {
	got := EnsureLimit("SELECT COUNT(*) FROM accounts", 200)
	assert.Equal(t, "SELECT COUNT(*) FROM accounts", got)

	got = EnsureLimit("SELECT SUM(value) FROM financial_entries", 200)
	assert.Equal(t, "SELECT SUM(value) FROM financial_entries", got)
}

func TestEnsureLimitCapsGroupedAggregates(t *testing.T) {
	sql := "SELECT account_group, SUM(value) FROM financial_entries GROUP BY account_group"
	got := EnsureLimit(sql, 200)
	assert.Equal(t, sql+" LIMIT 200", got)
}
