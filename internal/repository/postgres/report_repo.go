package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"finsight/internal/domain"
	"finsight/internal/port"
)

type reportStore struct {
	db *sqlx.DB
}

// NewReportStore creates a new PostgreSQL-backed ReportStore.
func NewReportStore(db *sqlx.DB) port.ReportStore {
	return &reportStore{db: db}
}

func (r *reportStore) SaveGraph(ctx context.Context, g *domain.ReportGraph) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("reportStore.SaveGraph begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO reports (
			id, report_name, report_basis, start_period, end_period, currency,
			generated_time, platform_id, platform_unique_id, source_company_id,
			gross_profit, operating_profit, net_profit, earnings_before_taxes, taxes
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`,
		g.Report.ID, g.Report.ReportName, g.Report.ReportBasis, g.Report.StartPeriod,
		g.Report.EndPeriod, g.Report.Currency, g.Report.GeneratedTime, g.Report.PlatformID,
		g.Report.PlatformUniqueID, g.Report.SourceCompanyID, g.Report.GrossProfit,
		g.Report.OperatingProfit, g.Report.NetProfit, g.Report.EarningsBeforeTaxes,
		g.Report.Taxes,
	); err != nil {
		return fmt.Errorf("reportStore.SaveGraph report: %w", err)
	}

	// Accounts arrive parent-before-child, so plain slice order satisfies the
	// self-referential foreign key.
	for i := range g.Accounts {
		a := &g.Accounts[i]
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO accounts (id, report_id, parent_id, name, account_group, source_account_id)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			a.ID, a.ReportID, a.ParentID, a.Name, a.Group, a.SourceAccountID,
		); err != nil {
			return fmt.Errorf("reportStore.SaveGraph account %q: %w", a.Name, err)
		}
	}

	for i := range g.Entries {
		e := &g.Entries[i]
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO financial_entries (id, account_id, value, date, period_type)
			VALUES ($1, $2, $3, $4, $5)`,
			e.ID, e.AccountID, e.Value, e.Date, e.PeriodType,
		); err != nil {
			return fmt.Errorf("reportStore.SaveGraph entry: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("reportStore.SaveGraph commit: %w", err)
	}
	return nil
}

func (r *reportStore) GetReport(ctx context.Context, id uuid.UUID) (*domain.Report, error) {
	var report domain.Report
	err := r.db.GetContext(ctx, &report, `SELECT * FROM reports WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrReportNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("reportStore.GetReport: %w", err)
	}
	return &report, nil
}

func (r *reportStore) GetReportGraph(ctx context.Context, id uuid.UUID) (*domain.ReportGraph, error) {
	report, err := r.GetReport(ctx, id)
	if err != nil {
		return nil, err
	}

	g := &domain.ReportGraph{Report: *report}
	if err := r.db.SelectContext(ctx, &g.Accounts, `
		SELECT * FROM accounts WHERE report_id = $1 ORDER BY created_at, id`, id,
	); err != nil {
		return nil, fmt.Errorf("reportStore.GetReportGraph accounts: %w", err)
	}
	if err := r.db.SelectContext(ctx, &g.Entries, `
		SELECT e.* FROM financial_entries e
		JOIN accounts a ON a.id = e.account_id
		WHERE a.report_id = $1
		ORDER BY e.date, e.created_at`, id,
	); err != nil {
		return nil, fmt.Errorf("reportStore.GetReportGraph entries: %w", err)
	}
	return g, nil
}

func (r *reportStore) ListReports(ctx context.Context, offset, limit int) ([]domain.Report, int, error) {
	var reports []domain.Report
	if err := r.db.SelectContext(ctx, &reports, `
		SELECT * FROM reports ORDER BY start_period, created_at OFFSET $1 LIMIT $2`,
		offset, limit,
	); err != nil {
		return nil, 0, fmt.Errorf("reportStore.ListReports: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM reports`); err != nil {
		return nil, 0, fmt.Errorf("reportStore.ListReports count: %w", err)
	}
	return reports, total, nil
}

func (r *reportStore) Counts(ctx context.Context) (*port.IngestCounts, error) {
	counts := &port.IngestCounts{}
	if err := r.db.GetContext(ctx, &counts.Reports, `SELECT COUNT(*) FROM reports`); err != nil {
		return nil, fmt.Errorf("reportStore.Counts reports: %w", err)
	}
	if err := r.db.GetContext(ctx, &counts.Accounts, `SELECT COUNT(*) FROM accounts`); err != nil {
		return nil, fmt.Errorf("reportStore.Counts accounts: %w", err)
	}
	if err := r.db.GetContext(ctx, &counts.Entries, `SELECT COUNT(*) FROM financial_entries`); err != nil {
		return nil, fmt.Errorf("reportStore.Counts entries: %w", err)
	}
	return counts, nil
}

func (r *reportStore) TotalByGroup(ctx context.Context, group domain.AccountGroup) (decimal.Decimal, error) {
	var total decimal.Decimal
	if err := r.db.GetContext(ctx, &total, `
		SELECT COALESCE(SUM(e.value), 0)
		FROM financial_entries e
		JOIN accounts a ON a.id = e.account_id
		WHERE a.account_group = $1`, group,
	); err != nil {
		return decimal.Zero, fmt.Errorf("reportStore.TotalByGroup: %w", err)
	}
	return total, nil
}

func (r *reportStore) Reset(ctx context.Context) error {
	// Accounts and entries go with their reports via ON DELETE CASCADE.
	if _, err := r.db.ExecContext(ctx, `DELETE FROM reports`); err != nil {
		return fmt.Errorf("reportStore.Reset: %w", err)
	}
	return nil
}
