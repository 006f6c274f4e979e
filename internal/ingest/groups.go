package ingest

import "finsight/internal/domain"

// lineItemSections maps each of the five fixed section arrays in the
// line-item format to its canonical group. The group of a line-item account
// is determined entirely by the array it came from, regardless of nesting
// depth. Walk order is fixed so ingestion output is deterministic.
var lineItemSections = []struct {
	Key   string
	Group domain.AccountGroup
}{
	{"revenue", domain.GroupIncome},
	{"cost_of_goods_sold", domain.GroupCOGS},
	{"operating_expenses", domain.GroupOperatingExpense},
	{"non_operating_revenue", domain.GroupNonOperatingRevenue},
	{"non_operating_expenses", domain.GroupNonOperatingExpense},
}

// resolveColumnarGroup applies the columnar format's group rules: a row's own
// free-text label wins, otherwise the nearest ancestor's group is inherited,
// defaulting to Other at the root. Labels are taken verbatim; callers are
// expected to flag non-canonical labels as a data-quality issue rather than
// remap them, since remapping would silently change financial totals.
func resolveColumnarGroup(rowLabel string, inherited domain.AccountGroup) domain.AccountGroup {
	if rowLabel != "" {
		return domain.AccountGroup(rowLabel)
	}
	if inherited != "" {
		return inherited
	}
	return domain.GroupOther
}
