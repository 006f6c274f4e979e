package ingest

import (
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"finsight/internal/domain"
)

// The columnar format is the QuickBooks-style P&L export: one header block,
// an ordered column list whose first column is the account label, and a
// recursively nested row tree. A row's numeric cells are matched to dates
// through per-column EndDate metadata.

// ColumnarDocument is the decoded source document.
type ColumnarDocument struct {
	Header  ColumnarHeader  `json:"Header"`
	Columns ColumnarColumns `json:"Columns"`
	Rows    ColumnarRows    `json:"Rows"`
}

// ColumnarHeader is the flat report header block.
type ColumnarHeader struct {
	ReportName  string `json:"ReportName"`
	ReportBasis string `json:"ReportBasis"`
	StartPeriod string `json:"StartPeriod"`
	EndPeriod   string `json:"EndPeriod"`
	Currency    string `json:"Currency"`
	Time        string `json:"Time"`
}

// ColumnarColumns wraps the ordered column list.
type ColumnarColumns struct {
	Column []ColumnarColumn `json:"Column"`
}

// ColumnarColumn carries a column title plus metadata entries; a data column
// is identified by an EndDate metadata entry.
type ColumnarColumn struct {
	ColTitle string         `json:"ColTitle"`
	ColType  string         `json:"ColType"`
	MetaData []ColumnarMeta `json:"MetaData"`
}

// ColumnarMeta is one name/value metadata pair on a column.
type ColumnarMeta struct {
	Name  string `json:"Name"`
	Value string `json:"Value"`
}

// ColumnarRows wraps a row collection.
type ColumnarRows struct {
	Row []ColumnarRow `json:"Row"`
}

// ColumnarRow is one node of the row tree. Exactly one of Header, Summary,
// or the row's own ColData carries the cells; nested rows live under Rows.
type ColumnarRow struct {
	Header  *ColumnarRowBlock `json:"Header"`
	Summary *ColumnarRowBlock `json:"Summary"`
	ColData []ColumnarCell    `json:"ColData"`
	Rows    *ColumnarRows     `json:"Rows"`
	Group   string            `json:"group"`
	Type    string            `json:"type"`
}

// ColumnarRowBlock is a labeled header or summary block within a row.
type ColumnarRowBlock struct {
	ColData []ColumnarCell `json:"ColData"`
}

// ColumnarCell is one cell: column 0 carries the account label and optional
// native id, later columns carry period values as strings.
type ColumnarCell struct {
	ID    string `json:"id"`
	Value string `json:"value"`
}

// PlatformQuickBooks identifies the columnar format's source system.
const PlatformQuickBooks = "qbo"

const placeholderAccountName = "Unnamed Account"

// ParseColumnar decodes and walks a columnar export, producing one report
// graph. The document may arrive bare or wrapped in a {"data": {...}} envelope.
func ParseColumnar(raw []byte) (*domain.ReportGraph, error) {
	raw = unwrapEnvelope(raw)

	var doc ColumnarDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decoding columnar document: %w", err)
	}
	return BuildColumnarGraph(&doc)
}

// BuildColumnarGraph assembles the report graph from a decoded document.
func BuildColumnarGraph(doc *ColumnarDocument) (*domain.ReportGraph, error) {
	if doc.Header.ReportName == "" && doc.Header.StartPeriod == "" {
		return nil, fmt.Errorf("%w: missing report header", domain.ErrMalformedRecord)
	}

	start, err := parseTimestamp(doc.Header.StartPeriod)
	if err != nil {
		return nil, fmt.Errorf("%w: start period: %v", domain.ErrMalformedRecord, err)
	}
	end, err := parseTimestamp(doc.Header.EndPeriod)
	if err != nil {
		return nil, fmt.Errorf("%w: end period: %v", domain.ErrMalformedRecord, err)
	}
	generated, err := parseTimestamp(doc.Header.Time)
	if err != nil {
		// Generation time is informational; fall back to the period end.
		generated = end
	}

	g := &domain.ReportGraph{
		Report: domain.Report{
			ID:            uuid.New(),
			ReportName:    doc.Header.ReportName,
			ReportBasis:   doc.Header.ReportBasis,
			StartPeriod:   start,
			EndPeriod:     end,
			Currency:      doc.Header.Currency,
			GeneratedTime: generated,
			PlatformID:    PlatformQuickBooks,
		},
	}

	w := &columnarWalker{graph: g, dateMap: buildDateMap(doc.Columns.Column)}
	// The identity cache is scoped to this single run and threaded through
	// the recursion; it must never outlive the call.
	w.walk(doc.Rows.Row, nil, "", map[string]uuid.UUID{})
	return g, nil
}

// buildDateMap resolves each column index to its end date. Column 0 is the
// label column and any column without EndDate metadata (e.g. a Total column)
// is unmapped; values in unmapped columns are never ingested.
func buildDateMap(cols []ColumnarColumn) map[int]time.Time {
	dateMap := make(map[int]time.Time, len(cols))
	for i, col := range cols {
		if i == 0 {
			continue
		}
		for _, meta := range col.MetaData {
			if meta.Name != "EndDate" {
				continue
			}
			if t, err := parseTimestamp(meta.Value); err == nil {
				dateMap[i] = t
			}
			break
		}
	}
	return dateMap
}

type columnarWalker struct {
	graph   *domain.ReportGraph
	dateMap map[int]time.Time
}

// walk traverses rows depth-first, carrying down the current parent account
// and the inherited group label. cache maps source-native account ids to the
// accounts already created in this run: the format repeats a subtotal row's
// id across its header and summary rows, and both must attach their cells to
// the same account.
func (w *columnarWalker) walk(rows []ColumnarRow, parentID *uuid.UUID, inherited domain.AccountGroup, cache map[string]uuid.UUID) {
	for _, row := range rows {
		colData := row.cells()
		group := resolveColumnarGroup(row.Group, inherited)
		currentParent := parentID

		if len(colData) == 0 {
			// No recognizable cells on this row; its subtree may still
			// hold valid rows, so keep walking with unchanged state.
			if row.Rows != nil {
				w.walk(row.Rows.Row, currentParent, group, cache)
			}
			continue
		}

		if row.Group != "" && !group.IsCanonical() {
			log.Printf("ingest: unrecognized account group %q on row %q; keeping verbatim", row.Group, colData[0].Value)
		}

		if sourceID := colData[0].ID; sourceID != "" {
			accountID, ok := cache[sourceID]
			if !ok {
				accountID = w.addAccount(sourceID, colData[0].Value, group, parentID)
				cache[sourceID] = accountID
			}
			currentParent = &accountID
			w.addEntries(accountID, colData)
		}

		if row.Rows != nil {
			w.walk(row.Rows.Row, currentParent, group, cache)
		}
	}
}

// cells returns the row's cell list, preferring the Header block, then the
// Summary block, then the row's own ColData.
func (r *ColumnarRow) cells() []ColumnarCell {
	if r.Header != nil && len(r.Header.ColData) > 0 {
		return r.Header.ColData
	}
	if r.Summary != nil && len(r.Summary.ColData) > 0 {
		return r.Summary.ColData
	}
	return r.ColData
}

func (w *columnarWalker) addAccount(sourceID, name string, group domain.AccountGroup, parentID *uuid.UUID) uuid.UUID {
	if name == "" {
		name = placeholderAccountName
	}
	account := domain.Account{
		ID:              uuid.New(),
		ReportID:        w.graph.Report.ID,
		ParentID:        parentID,
		Name:            name,
		Group:           group,
		SourceAccountID: &sourceID,
	}
	w.graph.Accounts = append(w.graph.Accounts, account)
	return account.ID
}

// addEntries creates one entry per mapped, non-empty cell. Missing or
// non-numeric cells are skipped, never stored as zero.
func (w *columnarWalker) addEntries(accountID uuid.UUID, colData []ColumnarCell) {
	for i, cell := range colData {
		date, mapped := w.dateMap[i]
		if !mapped || cell.Value == "" {
			continue
		}
		value, err := decimal.NewFromString(cell.Value)
		if err != nil {
			log.Printf("ingest: skipping non-numeric cell %q in column %d", cell.Value, i)
			continue
		}
		w.graph.Entries = append(w.graph.Entries, domain.FinancialEntry{
			ID:        uuid.New(),
			AccountID: accountID,
			Value:     value,
			Date:      date,
		})
	}
}

// unwrapEnvelope strips an optional {"data": {...}} wrapper around a
// single-object document.
func unwrapEnvelope(raw []byte) []byte {
	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(raw, &envelope); err == nil && len(envelope.Data) > 0 && envelope.Data[0] == '{' {
		return envelope.Data
	}
	return raw
}
