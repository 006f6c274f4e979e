package ingest

import (
	"fmt"
	"time"

	"finsight/internal/domain"
)

// Both source formats emit bare ISO-8601 timestamps, sometimes date-only and
// sometimes with fractional seconds or a zone. Layouts are tried most to
// least specific.
var timeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.000",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

func parseTimestamp(s string) (time.Time, error) {
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable timestamp %q", s)
}

// classifyPeriod tags a reporting period by its approximate length. Sources
// that mix granularities (monthly columns next to a yearly total) rely on
// this tag to keep aggregates separable.
func classifyPeriod(start, end time.Time) domain.PeriodType {
	days := end.Sub(start).Hours() / 24
	switch {
	case days <= 32:
		return domain.PeriodMonthly
	case days <= 95:
		return domain.PeriodQuarterly
	case days <= 370:
		return domain.PeriodYearly
	default:
		return domain.PeriodTotal
	}
}
