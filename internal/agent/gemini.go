// Package agent answers natural-language questions about the ingested
// financial data by driving a Gemini model with database tool access.
package agent

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"google.golang.org/genai"

	"finsight/internal/config"
	"finsight/internal/domain"
	"finsight/internal/port"
)

const systemPromptTemplate = `You are a financial data analyst answering questions about a PostgreSQL database of ingested profit-and-loss reports.

Today's date is %s.

Database schema:
%s

Rules:
- Use the query_database tool to look up data. Provide exactly one of sql_query, search_account_term, or fetch_schema per call.
- Only read-only SELECT statements are permitted; monetary values are numeric and dates are timestamps.
- If a user mentions an account name that does not match the schema exactly, use search_account_term before querying.
- Answer concisely, citing the figures you found.`

// Gemini is a tool-calling chat agent backed by the Gemini API.
type Gemini struct {
	client *genai.Client
	tools  port.QueryTools
	cfg    config.AgentConfig
}

var _ port.Agent = (*Gemini)(nil)

// NewGemini creates the agent. It fails fast when no API key is configured
// so the chat surface can report unavailability instead of erroring per call.
func NewGemini(ctx context.Context, cfg config.AgentConfig, tools port.QueryTools) (*Gemini, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: no API key configured", domain.ErrAgentUnavailable)
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("creating genai client: %w", err)
	}
	return &Gemini{client: client, tools: tools, cfg: cfg}, nil
}

// Ask runs one model interaction: the model may call query_database up to
// MaxToolTurns times before producing its final text answer.
func (g *Gemini) Ask(ctx context.Context, prompt string) (*port.AgentAnswer, error) {
	if g.cfg.TimeoutSecs > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(g.cfg.TimeoutSecs)*time.Second)
		defer cancel()
	}

	schema, err := g.tools.FetchSchema(ctx)
	if err != nil {
		return nil, fmt.Errorf("agent: fetching schema for prompt: %w", err)
	}

	genConfig := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(float32(0.1)),
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{
				{Text: fmt.Sprintf(systemPromptTemplate, time.Now().Format("2006-01-02"), schema)},
			},
		},
		Tools: []*genai.Tool{
			{FunctionDeclarations: []*genai.FunctionDeclaration{queryDatabaseDeclaration}},
		},
	}

	history := []*genai.Content{
		genai.NewContentFromText(prompt, genai.RoleUser),
	}
	usage := &port.TokenUsage{ModelName: g.cfg.Model}

	for turn := 0; turn <= g.cfg.MaxToolTurns; turn++ {
		resp, err := g.client.Models.GenerateContent(ctx, g.cfg.Model, history, genConfig)
		if err != nil {
			return nil, fmt.Errorf("agent: generation failed: %w", err)
		}
		accumulateUsage(usage, resp)

		calls := resp.FunctionCalls()
		if len(calls) == 0 {
			return &port.AgentAnswer{Output: resp.Text(), Usage: usage}, nil
		}

		if len(resp.Candidates) > 0 && resp.Candidates[0].Content != nil {
			history = append(history, resp.Candidates[0].Content)
		}
		for _, call := range calls {
			result := g.runTool(ctx, call)
			history = append(history, genai.NewContentFromParts(
				[]*genai.Part{genai.NewPartFromFunctionResponse(call.Name, map[string]any{"output": result})},
				genai.RoleUser,
			))
		}
	}
	return nil, fmt.Errorf("agent: no final answer after %d tool turns", g.cfg.MaxToolTurns)
}

// runTool executes one tool call. Tool failures are fed back to the model as
// text so it can correct itself; only infrastructure failures abort the turn
// loop, and those surface through the guarded executor as error text too.
func (g *Gemini) runTool(ctx context.Context, call *genai.FunctionCall) string {
	if call.Name != queryDatabaseTool {
		return fmt.Sprintf("Unknown tool %q; only %s is available.", call.Name, queryDatabaseTool)
	}
	req, err := decodeToolRequest(call.Args)
	if err != nil {
		return fmt.Sprintf("Error: %v", err)
	}
	result, err := req.dispatch(ctx, g.tools)
	if err != nil {
		if errors.Is(err, domain.ErrNotReadOnly) || errors.Is(err, domain.ErrAmbiguousToolCall) {
			return fmt.Sprintf("Error: %v", err)
		}
		log.Printf("agent: tool call failed: %v", err)
		return fmt.Sprintf("Error: %v", err)
	}
	return result
}

func accumulateUsage(usage *port.TokenUsage, resp *genai.GenerateContentResponse) {
	usage.Requests++
	if resp.UsageMetadata == nil {
		return
	}
	usage.RequestTokens += int(resp.UsageMetadata.PromptTokenCount)
	usage.ResponseTokens += int(resp.UsageMetadata.CandidatesTokenCount)
	usage.TotalTokens += int(resp.UsageMetadata.TotalTokenCount)
}
