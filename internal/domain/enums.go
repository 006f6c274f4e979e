package domain

// AccountGroup is the standardized category an ingested account is mapped
// onto. Every group-aware query downstream assumes membership in this set.
type AccountGroup string

const (
	GroupIncome              AccountGroup = "Income"
	GroupCOGS                AccountGroup = "Cost of Goods Sold"
	GroupOperatingExpense    AccountGroup = "Operating Expense"
	GroupNonOperatingRevenue AccountGroup = "Non-Operating Revenue"
	GroupNonOperatingExpense AccountGroup = "Non-Operating Expense"
	GroupOther               AccountGroup = "Other"
)

// CanonicalGroups enumerates the six standard account groups.
var CanonicalGroups = []AccountGroup{
	GroupIncome,
	GroupCOGS,
	GroupOperatingExpense,
	GroupNonOperatingRevenue,
	GroupNonOperatingExpense,
	GroupOther,
}

// IsCanonical reports whether g is one of the six standard groups.
func (g AccountGroup) IsCanonical() bool {
	for _, c := range CanonicalGroups {
		if g == c {
			return true
		}
	}
	return false
}

// PeriodType tags an entry's granularity for sources that mix them.
type PeriodType string

const (
	PeriodMonthly   PeriodType = "monthly"
	PeriodQuarterly PeriodType = "quarterly"
	PeriodYearly    PeriodType = "yearly"
	PeriodTotal     PeriodType = "total"
)

// Message sender types for the transcript store.
const (
	SenderTypeUser   = "user"
	SenderTypeSystem = "system"
)
