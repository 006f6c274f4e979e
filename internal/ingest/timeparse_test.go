package ingest

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finsight/internal/domain"
)

func TestParseTimestamp(t *testing.T) {
	cases := []struct {
		in   string
		want time.Time
	}{
		{"2024-01-31", time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)},
		{"2024-02-01T00:00:00", time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)},
		{"2024-02-01T12:30:45.000", time.Date(2024, 2, 1, 12, 30, 45, 0, time.UTC)},
		{"2024-02-01T00:00:00Z", time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)},
		{"2024-02-01T00:00:00.000Z", time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)},
	}
	for _, tc := range cases {
		got, err := parseTimestamp(tc.in)
		require.NoError(t, err, tc.in)
		assert.True(t, got.Equal(tc.want), "parsing %q: got %v", tc.in, got)
	}

	_, err := parseTimestamp("31/01/2024")
	assert.Error(t, err)
	_, err = parseTimestamp("")
	assert.Error(t, err)
}

func TestClassifyPeriod(t *testing.T) {
	jan1 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, domain.PeriodMonthly, classifyPeriod(jan1, jan1.AddDate(0, 1, 0)))
	assert.Equal(t, domain.PeriodQuarterly, classifyPeriod(jan1, jan1.AddDate(0, 3, 0)))
	assert.Equal(t, domain.PeriodYearly, classifyPeriod(jan1, jan1.AddDate(1, 0, 0)))
	assert.Equal(t, domain.PeriodTotal, classifyPeriod(jan1, jan1.AddDate(3, 0, 0)))
}
