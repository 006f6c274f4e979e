package ingest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finsight/internal/domain"
)

func TestParseLineItemsNesting(t *testing.T) {
	raw := []byte(`{"data": [{
		"rootfi_id": 42,
		"rootfi_company_id": 7,
		"rootfi_updated_at": "2024-02-01T00:00:00.000Z",
		"platform_id": "rootfi",
		"currency_id": "USD",
		"period_start": "2024-01-01",
		"period_end": "2024-01-31",
		"net_profit": 500,
		"revenue": [
			{"name": "Sales", "value": 500, "line_items": [
				{"name": "Online", "value": 300},
				{"name": "Retail", "value": 200}
			]}
		],
		"cost_of_goods_sold": [],
		"operating_expenses": [],
		"non_operating_revenue": [],
		"non_operating_expenses": []
	}]}`)

	graphs, skipped, err := ParseLineItems(raw)
	require.NoError(t, err)
	require.Empty(t, skipped)
	require.Len(t, graphs, 1)

	g := graphs[0]
	require.NotNil(t, g.Report.PlatformUniqueID)
	assert.Equal(t, "42", *g.Report.PlatformUniqueID)
	require.NotNil(t, g.Report.SourceCompanyID)
	assert.Equal(t, int64(7), *g.Report.SourceCompanyID)
	assert.True(t, g.Report.NetProfit.Valid)
	assert.True(t, g.Report.NetProfit.Decimal.Equal(mustDecimal(t, "500")))

	require.Len(t, g.Accounts, 3)
	sales, online, retail := g.Accounts[0], g.Accounts[1], g.Accounts[2]
	assert.Equal(t, "Sales", sales.Name)
	assert.Nil(t, sales.ParentID)
	require.NotNil(t, online.ParentID)
	assert.Equal(t, sales.ID, *online.ParentID)
	require.NotNil(t, retail.ParentID)
	assert.Equal(t, sales.ID, *retail.ParentID)
	for _, a := range g.Accounts {
		assert.Equal(t, domain.GroupIncome, a.Group)
		assert.Equal(t, g.Report.ID, a.ReportID)
	}

	require.Len(t, g.Entries, 3)
	for _, e := range g.Entries {
		assert.Equal(t, g.Report.EndPeriod, e.Date)
		require.NotNil(t, e.PeriodType)
		assert.Equal(t, domain.PeriodMonthly, *e.PeriodType)
	}
	assert.True(t, g.Entries[0].Value.Equal(mustDecimal(t, "500")))
	assert.True(t, g.Entries[1].Value.Equal(mustDecimal(t, "300")))
	assert.True(t, g.Entries[2].Value.Equal(mustDecimal(t, "200")))
}

func TestParseLineItemsZeroValueKeepsAccount(t *testing.T) {
	raw := []byte(`{"data": [{
		"rootfi_updated_at": "2024-02-01T00:00:00.000Z",
		"period_start": "2024-01-01",
		"period_end": "2024-01-31",
		"operating_expenses": [
			{"name": "Depreciation", "value": 0, "line_items": [
				{"name": "Equipment", "value": 10}
			]},
			{"name": "Amortization", "value": null}
		]
	}]}`)

	graphs, skipped, err := ParseLineItems(raw)
	require.NoError(t, err)
	require.Empty(t, skipped)
	require.Len(t, graphs, 1)

	g := graphs[0]
	require.Len(t, g.Accounts, 3)
	assert.Equal(t, "Depreciation", g.Accounts[0].Name)
	require.NotNil(t, g.Accounts[1].ParentID)
	assert.Equal(t, g.Accounts[0].ID, *g.Accounts[1].ParentID)

	// Only the nested non-zero item produces an entry.
	require.Len(t, g.Entries, 1)
	assert.Equal(t, g.Accounts[1].ID, g.Entries[0].AccountID)
}

func TestParseLineItemsGroupClosure(t *testing.T) {
	raw := []byte(`{"data": [{
		"rootfi_updated_at": "2024-02-01T00:00:00.000Z",
		"period_start": "2024-01-01",
		"period_end": "2024-12-31",
		"revenue": [{"name": "R", "value": 1}],
		"cost_of_goods_sold": [{"name": "C", "value": 1}],
		"operating_expenses": [{"name": "O", "value": 1}],
		"non_operating_revenue": [{"name": "NR", "value": 1}],
		"non_operating_expenses": [{"name": "NE", "value": 1, "line_items": [{"name": "Deep", "value": 2}]}]
	}]}`)

	graphs, _, err := ParseLineItems(raw)
	require.NoError(t, err)
	require.Len(t, graphs, 1)

	groups := map[string]domain.AccountGroup{}
	for _, a := range graphs[0].Accounts {
		assert.True(t, a.Group.IsCanonical(), "group %q must be canonical", a.Group)
		groups[a.Name] = a.Group
	}
	assert.Equal(t, domain.GroupIncome, groups["R"])
	assert.Equal(t, domain.GroupCOGS, groups["C"])
	assert.Equal(t, domain.GroupOperatingExpense, groups["O"])
	assert.Equal(t, domain.GroupNonOperatingRevenue, groups["NR"])
	assert.Equal(t, domain.GroupNonOperatingExpense, groups["NE"])
	// Nesting depth never changes the group.
	assert.Equal(t, domain.GroupNonOperatingExpense, groups["Deep"])
}

func TestParseLineItemsSkipsMalformedRecords(t *testing.T) {
	raw := []byte(`{"data": [
		{"period_end": "2024-01-31", "rootfi_updated_at": "2024-02-01T00:00:00.000Z"},
		{"period_start": "2024-01-01", "period_end": "2024-01-31", "rootfi_updated_at": "2024-02-01T00:00:00.000Z",
		 "revenue": [{"name": "Sales", "value": 5}]},
		"not an object"
	]}`)

	graphs, skipped, err := ParseLineItems(raw)
	require.NoError(t, err)
	assert.Len(t, graphs, 1)
	require.Len(t, skipped, 2)
	assert.Equal(t, 0, skipped[0].Index)
	assert.ErrorIs(t, skipped[0].Err, domain.ErrMalformedRecord)
	assert.Equal(t, 2, skipped[1].Index)
}

func TestParseLineItemsDefaults(t *testing.T) {
	raw := []byte(`{"data": [{
		"rootfi_updated_at": "2024-02-01T00:00:00.000Z",
		"period_start": "2024-01-01",
		"period_end": "2024-01-31",
		"revenue": [{"value": 12}]
	}]}`)

	graphs, _, err := ParseLineItems(raw)
	require.NoError(t, err)
	require.Len(t, graphs, 1)

	g := graphs[0]
	assert.Equal(t, PlatformRootFi, g.Report.PlatformID)
	assert.Equal(t, "USD", g.Report.Currency)
	assert.Equal(t, "Unknown", g.Report.ReportBasis)
	assert.Contains(t, g.Report.ReportName, "2024-01-01")
	require.Len(t, g.Accounts, 1)
	assert.Equal(t, "Unnamed Account", g.Accounts[0].Name)
}
