package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Report stores the metadata of a single ingested financial statement.
// A report owns its accounts; deleting a report cascades to them.
type Report struct {
	ID                  uuid.UUID           `db:"id" json:"id"`
	ReportName          string              `db:"report_name" json:"report_name"`
	ReportBasis         string              `db:"report_basis" json:"report_basis"`
	StartPeriod         time.Time           `db:"start_period" json:"start_period"`
	EndPeriod           time.Time           `db:"end_period" json:"end_period"`
	Currency            string              `db:"currency" json:"currency"`
	GeneratedTime       time.Time           `db:"generated_time" json:"generated_time"`
	PlatformID          string              `db:"platform_id" json:"platform_id"`
	PlatformUniqueID    *string             `db:"platform_unique_id" json:"platform_unique_id"`
	SourceCompanyID     *int64              `db:"source_company_id" json:"source_company_id"`
	GrossProfit         decimal.NullDecimal `db:"gross_profit" json:"gross_profit"`
	OperatingProfit     decimal.NullDecimal `db:"operating_profit" json:"operating_profit"`
	NetProfit           decimal.NullDecimal `db:"net_profit" json:"net_profit"`
	EarningsBeforeTaxes decimal.NullDecimal `db:"earnings_before_taxes" json:"earnings_before_taxes"`
	Taxes               decimal.NullDecimal `db:"taxes" json:"taxes"`
	CreatedAt           time.Time           `db:"created_at" json:"created_at"`
}

// Account is one node in a report's chart-of-accounts tree. The parent
// reference is structural only: it never crosses reports and never cycles.
type Account struct {
	ID              uuid.UUID    `db:"id" json:"id"`
	ReportID        uuid.UUID    `db:"report_id" json:"report_id"`
	ParentID        *uuid.UUID   `db:"parent_id" json:"parent_id"`
	Name            string       `db:"name" json:"name"`
	Group           AccountGroup `db:"account_group" json:"account_group"`
	SourceAccountID *string      `db:"source_account_id" json:"source_account_id"`
	CreatedAt       time.Time    `db:"created_at" json:"created_at"`
}

// FinancialEntry is a single dated monetary value belonging to one account.
type FinancialEntry struct {
	ID         uuid.UUID       `db:"id" json:"id"`
	AccountID  uuid.UUID       `db:"account_id" json:"account_id"`
	Value      decimal.Decimal `db:"value" json:"value"`
	Date       time.Time       `db:"date" json:"date"`
	PeriodType *PeriodType     `db:"period_type" json:"period_type"`
	CreatedAt  time.Time       `db:"created_at" json:"created_at"`
}

// Conversation is one chat thread in the transcript store.
type Conversation struct {
	ID        uuid.UUID `db:"id" json:"id"`
	Topic     *string   `db:"topic" json:"topic"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Message is one turn in a conversation. Usage holds the model's token
// accounting for assistant turns and is null for user turns.
type Message struct {
	ID             uuid.UUID       `db:"id" json:"id"`
	ConversationID uuid.UUID       `db:"conversation_id" json:"conversation_id"`
	SenderType     string          `db:"sender_type" json:"sender_type"`
	Sender         *string         `db:"sender" json:"sender"`
	Content        string          `db:"content" json:"content"`
	Usage          json.RawMessage `db:"usage" json:"usage,omitempty"`
	CreatedAt      time.Time       `db:"created_at" json:"created_at"`
}
