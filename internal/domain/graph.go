package domain

// ReportGraph is the in-memory result of parsing one source record: a report
// plus the flat arena of accounts and entries it owns. Accounts reference
// parents by ID, never by pointer, so the graph stays acyclic and trivially
// serializable. Accounts are ordered parent-before-child, which lets a store
// insert them in slice order without deferring foreign keys.
type ReportGraph struct {
	Report   Report
	Accounts []Account
	Entries  []FinancialEntry
}
