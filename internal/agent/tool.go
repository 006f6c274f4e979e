package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	jsonrepair "github.com/RealAlexandreAI/json-repair"
	"google.golang.org/genai"

	"finsight/internal/domain"
	"finsight/internal/port"
)

// queryDatabaseTool is the single tool exposed to the model. The three
// mutually exclusive arguments select which underlying capability runs.
const queryDatabaseTool = "query_database"

var queryDatabaseDeclaration = &genai.FunctionDeclaration{
	Name: queryDatabaseTool,
	Description: "Interact with the financial reports database. Provide exactly one of: " +
		"sql_query (a single read-only SELECT statement to execute), " +
		"search_account_term (a possibly misspelled account name to fuzzy-match), " +
		"fetch_schema (true, to retrieve the table/column schema).",
	Parameters: &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"sql_query": {
				Type:        genai.TypeString,
				Description: "A single read-only SELECT statement.",
			},
			"search_account_term": {
				Type:        genai.TypeString,
				Description: "An account name to match approximately.",
			},
			"fetch_schema": {
				Type:        genai.TypeBoolean,
				Description: "Set true to fetch the database schema.",
			},
		},
	},
}

// toolRequest is one decoded query_database invocation.
type toolRequest struct {
	SQLQuery          string `json:"sql_query"`
	SearchAccountTerm string `json:"search_account_term"`
	FetchSchema       bool   `json:"fetch_schema"`
}

func decodeToolRequest(args map[string]any) (*toolRequest, error) {
	raw, err := json.Marshal(args)
	if err != nil {
		return nil, fmt.Errorf("agent: encoding tool arguments: %w", err)
	}
	return parseToolRequest(string(raw))
}

// parseToolRequest decodes a tool payload, repairing the JSON first since
// model-emitted argument blobs are occasionally truncated or under-quoted.
func parseToolRequest(payload string) (*toolRequest, error) {
	repaired, err := jsonrepair.RepairJSON(payload)
	if err != nil {
		return nil, fmt.Errorf("agent: unreadable tool arguments: %w", err)
	}
	var req toolRequest
	if err := json.Unmarshal([]byte(repaired), &req); err != nil {
		return nil, fmt.Errorf("agent: decoding tool arguments: %w", err)
	}
	return &req, nil
}

// actions reports how many of the mutually exclusive arguments are set.
func (r *toolRequest) actions() int {
	n := 0
	if strings.TrimSpace(r.SQLQuery) != "" {
		n++
	}
	if strings.TrimSpace(r.SearchAccountTerm) != "" {
		n++
	}
	if r.FetchSchema {
		n++
	}
	return n
}

// dispatch runs the requested capability. Exactly one action per call.
func (r *toolRequest) dispatch(ctx context.Context, tools port.QueryTools) (string, error) {
	if r.actions() != 1 {
		return "", fmt.Errorf("%w: got %d actions, want exactly 1", domain.ErrAmbiguousToolCall, r.actions())
	}
	switch {
	case r.FetchSchema:
		return tools.FetchSchema(ctx)
	case strings.TrimSpace(r.SearchAccountTerm) != "":
		return tools.SearchAccountTerm(ctx, strings.TrimSpace(r.SearchAccountTerm))
	default:
		return tools.ExecuteSQL(ctx, r.SQLQuery)
	}
}
