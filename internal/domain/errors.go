package domain

import "errors"

var (
	ErrNotFound             = errors.New("resource not found")
	ErrConversationNotFound = errors.New("conversation not found")
	ErrReportNotFound       = errors.New("report not found")
	ErrMalformedRecord      = errors.New("malformed source record")
	ErrUnknownFormat        = errors.New("unrecognized source document format")
	ErrNotReadOnly          = errors.New("only read-only SELECT statements are allowed")
	ErrUnsafeIdentifier     = errors.New("identifier contains disallowed characters")
	ErrFuzzyUnavailable     = errors.New("fuzzy search is unavailable: pg_trgm extension not enabled")
	ErrAgentUnavailable     = errors.New("language model agent is not configured")
	ErrAmbiguousToolCall    = errors.New("specify exactly one of sql_query, search_account_term, or fetch_schema")
)
