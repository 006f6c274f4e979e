package port

import "context"

// TokenUsage is the model's token accounting for one agent interaction.
type TokenUsage struct {
	Requests       int    `json:"requests"`
	RequestTokens  int    `json:"request_tokens"`
	ResponseTokens int    `json:"response_tokens"`
	TotalTokens    int    `json:"total_tokens"`
	ModelName      string `json:"model_name"`
}

// AgentAnswer is the final output of one agent interaction.
type AgentAnswer struct {
	Output string
	Usage  *TokenUsage
}

// Agent is the natural-language collaborator. Any implementation that can
// answer a prompt with tool access to the database satisfies the contract.
type Agent interface {
	Ask(ctx context.Context, prompt string) (*AgentAnswer, error)
}

// QueryTools is the capability surface the agent may call. Exactly one
// action per call; the implementations live in internal/inspect and
// internal/query.
type QueryTools interface {
	// FetchSchema returns the flattened schema text.
	FetchSchema(ctx context.Context) (string, error)
	// SearchAccountTerm returns ranked fuzzy matches for account names.
	SearchAccountTerm(ctx context.Context, term string) (string, error)
	// ExecuteSQL runs a guarded read-only query and renders the rows.
	ExecuteSQL(ctx context.Context, sql string) (string, error)
}
