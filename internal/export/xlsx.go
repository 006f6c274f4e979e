// Package export renders a report graph as an Excel workbook for download.
package export

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"finsight/internal/domain"
)

const (
	summarySheet  = "Report"
	accountsSheet = "Accounts"
	entriesSheet  = "Entries"
)

// Workbook renders g as an xlsx workbook with a summary sheet, the account
// tree, and the dated entries.
func Workbook(g *domain.ReportGraph) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return nil, fmt.Errorf("export: renaming sheet: %w", err)
	}
	if err := writeSummary(f, g); err != nil {
		return nil, err
	}
	if err := writeAccounts(f, g); err != nil {
		return nil, err
	}
	if err := writeEntries(f, g); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("export: writing workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func writeSummary(f *excelize.File, g *domain.ReportGraph) error {
	rows := [][]interface{}{
		{"Report Name", g.Report.ReportName},
		{"Basis", g.Report.ReportBasis},
		{"Start Period", g.Report.StartPeriod.Format("2006-01-02")},
		{"End Period", g.Report.EndPeriod.Format("2006-01-02")},
		{"Currency", g.Report.Currency},
		{"Platform", g.Report.PlatformID},
		{"Accounts", len(g.Accounts)},
		{"Entries", len(g.Entries)},
	}
	if g.Report.GrossProfit.Valid {
		rows = append(rows, []interface{}{"Gross Profit", g.Report.GrossProfit.Decimal.String()})
	}
	if g.Report.NetProfit.Valid {
		rows = append(rows, []interface{}{"Net Profit", g.Report.NetProfit.Decimal.String()})
	}
	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow(summarySheet, cell, &row); err != nil {
			return fmt.Errorf("export: summary row %d: %w", i+1, err)
		}
	}
	return nil
}

func writeAccounts(f *excelize.File, g *domain.ReportGraph) error {
	if _, err := f.NewSheet(accountsSheet); err != nil {
		return fmt.Errorf("export: creating accounts sheet: %w", err)
	}

	names := make(map[uuid.UUID]string, len(g.Accounts))
	for _, a := range g.Accounts {
		names[a.ID] = a.Name
	}

	header := []interface{}{"Name", "Group", "Parent", "Source Account ID"}
	if err := f.SetSheetRow(accountsSheet, "A1", &header); err != nil {
		return fmt.Errorf("export: accounts header: %w", err)
	}
	for i, a := range g.Accounts {
		parent := ""
		if a.ParentID != nil {
			parent = names[*a.ParentID]
		}
		sourceID := ""
		if a.SourceAccountID != nil {
			sourceID = *a.SourceAccountID
		}
		row := []interface{}{a.Name, string(a.Group), parent, sourceID}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(accountsSheet, cell, &row); err != nil {
			return fmt.Errorf("export: account row %d: %w", i+2, err)
		}
	}
	return nil
}

func writeEntries(f *excelize.File, g *domain.ReportGraph) error {
	if _, err := f.NewSheet(entriesSheet); err != nil {
		return fmt.Errorf("export: creating entries sheet: %w", err)
	}

	names := make(map[uuid.UUID]string, len(g.Accounts))
	for _, a := range g.Accounts {
		names[a.ID] = a.Name
	}

	header := []interface{}{"Account", "Value", "Date", "Period Type"}
	if err := f.SetSheetRow(entriesSheet, "A1", &header); err != nil {
		return fmt.Errorf("export: entries header: %w", err)
	}
	for i, e := range g.Entries {
		periodType := ""
		if e.PeriodType != nil {
			periodType = string(*e.PeriodType)
		}
		row := []interface{}{names[e.AccountID], e.Value.String(), e.Date.Format("2006-01-02"), periodType}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(entriesSheet, cell, &row); err != nil {
			return fmt.Errorf("export: entry row %d: %w", i+2, err)
		}
	}
	return nil
}
