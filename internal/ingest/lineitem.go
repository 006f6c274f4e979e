package ingest

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"finsight/internal/domain"
)

// The line-item format is the RootFi-style export: a flat array of
// per-period records, each holding summary profit figures and five fixed
// section arrays of arbitrarily nested line items. Every item carries one
// value for the whole reporting period.

// PlatformRootFi identifies the line-item format's source system when the
// record itself does not name one.
const PlatformRootFi = "rootfi"

// LineItemRecord is one per-period financial record. Section arrays are kept
// raw so a single malformed element cannot fail the whole record decode.
type LineItemRecord struct {
	RootfiID            *int64           `json:"rootfi_id"`
	RootfiCompanyID     *int64           `json:"rootfi_company_id"`
	RootfiUpdatedAt     string           `json:"rootfi_updated_at"`
	PlatformID          string           `json:"platform_id"`
	CurrencyID          string           `json:"currency_id"`
	PeriodStart         string           `json:"period_start"`
	PeriodEnd           string           `json:"period_end"`
	GrossProfit         *decimal.Decimal `json:"gross_profit"`
	OperatingProfit     *decimal.Decimal `json:"operating_profit"`
	NetProfit           *decimal.Decimal `json:"net_profit"`
	EarningsBeforeTaxes *decimal.Decimal `json:"earnings_before_taxes"`
	Taxes               *decimal.Decimal `json:"taxes"`

	Revenue              []json.RawMessage `json:"revenue"`
	CostOfGoodsSold      []json.RawMessage `json:"cost_of_goods_sold"`
	OperatingExpenses    []json.RawMessage `json:"operating_expenses"`
	NonOperatingRevenue  []json.RawMessage `json:"non_operating_revenue"`
	NonOperatingExpenses []json.RawMessage `json:"non_operating_expenses"`
}

// LineItem is one named line item; nested children share the same shape.
type LineItem struct {
	Name      string            `json:"name"`
	Value     *decimal.Decimal  `json:"value"`
	AccountID *string           `json:"account_id"`
	LineItems []json.RawMessage `json:"line_items"`
}

func (r *LineItemRecord) section(key string) []json.RawMessage {
	switch key {
	case "revenue":
		return r.Revenue
	case "cost_of_goods_sold":
		return r.CostOfGoodsSold
	case "operating_expenses":
		return r.OperatingExpenses
	case "non_operating_revenue":
		return r.NonOperatingRevenue
	case "non_operating_expenses":
		return r.NonOperatingExpenses
	}
	return nil
}

// RecordError reports one skipped source record and why.
type RecordError struct {
	Index int
	Err   error
}

func (e RecordError) Error() string {
	return fmt.Sprintf("record %d: %v", e.Index, e.Err)
}

// ParseLineItems decodes a line-item export and produces one report graph per
// valid record. Malformed records are returned as RecordErrors, never
// aborting the batch.
func ParseLineItems(raw []byte) ([]*domain.ReportGraph, []RecordError, error) {
	var envelope struct {
		Data []json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, nil, fmt.Errorf("decoding line-item document: %w", err)
	}

	var graphs []*domain.ReportGraph
	var skipped []RecordError
	for i, rawRecord := range envelope.Data {
		g, err := buildLineItemGraph(rawRecord)
		if err != nil {
			skipped = append(skipped, RecordError{Index: i, Err: err})
			continue
		}
		graphs = append(graphs, g)
	}
	return graphs, skipped, nil
}

func buildLineItemGraph(raw json.RawMessage) (*domain.ReportGraph, error) {
	if !isJSONObject(raw) {
		return nil, fmt.Errorf("%w: not an object", domain.ErrMalformedRecord)
	}

	var record LineItemRecord
	if err := json.Unmarshal(raw, &record); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMalformedRecord, err)
	}
	if record.PeriodStart == "" || record.PeriodEnd == "" || record.RootfiUpdatedAt == "" {
		return nil, fmt.Errorf("%w: missing period bounds or update timestamp", domain.ErrMalformedRecord)
	}

	start, err := parseTimestamp(record.PeriodStart)
	if err != nil {
		return nil, fmt.Errorf("%w: period start: %v", domain.ErrMalformedRecord, err)
	}
	end, err := parseTimestamp(record.PeriodEnd)
	if err != nil {
		return nil, fmt.Errorf("%w: period end: %v", domain.ErrMalformedRecord, err)
	}
	updated, err := parseTimestamp(record.RootfiUpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("%w: update timestamp: %v", domain.ErrMalformedRecord, err)
	}

	platform := record.PlatformID
	if platform == "" {
		platform = PlatformRootFi
	}
	currency := record.CurrencyID
	if currency == "" {
		currency = "USD"
	}
	var platformUniqueID *string
	if record.RootfiID != nil {
		s := fmt.Sprintf("%d", *record.RootfiID)
		platformUniqueID = &s
	}

	g := &domain.ReportGraph{
		Report: domain.Report{
			ID:                  uuid.New(),
			ReportName:          fmt.Sprintf("Financial Statement - %s to %s", record.PeriodStart, record.PeriodEnd),
			ReportBasis:         "Unknown",
			StartPeriod:         start,
			EndPeriod:           end,
			Currency:            currency,
			GeneratedTime:       updated,
			PlatformID:          platform,
			PlatformUniqueID:    platformUniqueID,
			SourceCompanyID:     record.RootfiCompanyID,
			GrossProfit:         nullDecimal(record.GrossProfit),
			OperatingProfit:     nullDecimal(record.OperatingProfit),
			NetProfit:           nullDecimal(record.NetProfit),
			EarningsBeforeTaxes: nullDecimal(record.EarningsBeforeTaxes),
			Taxes:               nullDecimal(record.Taxes),
		},
	}

	periodType := classifyPeriod(start, end)
	w := &lineItemWalker{graph: g, periodType: periodType}
	for _, section := range lineItemSections {
		w.walk(record.section(section.Key), section.Group, nil)
	}
	return g, nil
}

type lineItemWalker struct {
	graph      *domain.ReportGraph
	periodType domain.PeriodType
}

// walk recursively turns a section's items into accounts and entries. The
// group is fixed by the originating section regardless of depth. An item
// with a zero (or absent) value produces no entry, but its account is still
// created so the hierarchy stays intact for its children.
func (w *lineItemWalker) walk(items []json.RawMessage, group domain.AccountGroup, parentID *uuid.UUID) {
	for _, raw := range items {
		if !isJSONObject(raw) {
			continue
		}
		var item LineItem
		if err := json.Unmarshal(raw, &item); err != nil {
			continue
		}

		name := item.Name
		if name == "" {
			name = placeholderAccountName
		}
		account := domain.Account{
			ID:              uuid.New(),
			ReportID:        w.graph.Report.ID,
			ParentID:        parentID,
			Name:            name,
			Group:           group,
			SourceAccountID: item.AccountID,
		}
		w.graph.Accounts = append(w.graph.Accounts, account)

		value := decimal.Zero
		if item.Value != nil {
			value = *item.Value
		}
		if !value.IsZero() {
			pt := w.periodType
			w.graph.Entries = append(w.graph.Entries, domain.FinancialEntry{
				ID:         uuid.New(),
				AccountID:  account.ID,
				Value:      value,
				Date:       w.graph.Report.EndPeriod,
				PeriodType: &pt,
			})
		}

		w.walk(item.LineItems, group, &account.ID)
	}
}

func nullDecimal(d *decimal.Decimal) decimal.NullDecimal {
	if d == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: *d, Valid: true}
}

func isJSONObject(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && trimmed[0] == '{'
}
