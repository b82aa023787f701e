package chat

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"trade-ledger-bot/internal/llm"
	"trade-ledger-bot/internal/logger"
	"trade-ledger-bot/internal/search"
	"trade-ledger-bot/internal/trace"
	"trade-ledger-bot/internal/types"
)

// replyInstruction fixes the voice of the assistant's final answer.
const replyInstruction = `You are a concise, friendly assistant for a personal trade ledger.
Answer the user's message in plain language using the structured context below.
If search results are provided, you may cite them. Never invent trades or figures.`

// defaultTriggers is the keyword heuristic for invoking the search tool.
// Coarse by design; overridable from configuration.
var defaultTriggers = []string{"price", "quote", "worth", "trading at", "market"}

// SearchClient is the slice of the search client the composer needs.
type SearchClient interface {
	Search(ctx context.Context, query string) ([]search.Result, error)
}

// ReplyContext carries what the orchestrator computed for this turn into
// the reply prompt.
type ReplyContext struct {
	Action      types.ActionKind   `json:"action"`
	Trade       *types.TradeRecord `json:"trade,omitempty"`
	SummaryText string             `json:"summary,omitempty"`
}

// Composer builds the final natural-language reply, optionally consulting
// the search tool, and records per-reply tool usage.
type Composer struct {
	completer llm.Completer
	search    SearchClient
	triggers  []string
}

func NewComposer(completer llm.Completer, sc SearchClient, triggers []string) *Composer {
	if len(triggers) == 0 {
		triggers = defaultTriggers
	}
	return &Composer{completer: completer, search: sc, triggers: triggers}
}

// Compose returns the reply text and the ToolUsage for exactly this reply.
// Search failures never block the reply; they only change the usage status.
func (c *Composer) Compose(ctx context.Context, message string, rc ReplyContext, history []types.ChatMessage) (string, types.ToolUsage, error) {
	ctx, span := trace.StartSpan(ctx, "chat.Compose")
	defer span.End()

	usage := types.DefaultToolUsage()
	var payload string

	if c.shouldSearch(message) {
		results, err := c.search.Search(ctx, message)
		switch {
		case errors.Is(err, search.ErrNotConfigured):
			usage.Search = types.SearchNotConfigured
		case err != nil:
			logger.Warn(ctx, "Search tool failed", "error", err)
			usage.Search = types.SearchError
		case len(results) == 0:
			usage.Search = types.SearchAttempted
		default:
			usage.Search = types.SearchUsed
			usage.ResultCount = len(results)
			if b, err := json.Marshal(results); err == nil {
				payload = string(b)
			}
		}
	}

	reply, err := c.completer.Complete(ctx, c.buildPrompt(message, rc, payload, history))
	if err != nil {
		return "", usage, err
	}
	return strings.TrimSpace(reply), usage, nil
}

// shouldSearch is a pure predicate over the message text.
func (c *Composer) shouldSearch(message string) bool {
	lowered := strings.ToLower(message)
	for _, kw := range c.triggers {
		if strings.Contains(lowered, kw) {
			return true
		}
	}
	return false
}

func (c *Composer) buildPrompt(message string, rc ReplyContext, searchPayload string, history []types.ChatMessage) string {
	var b strings.Builder
	b.WriteString(replyInstruction)

	if len(history) > 0 {
		b.WriteString("\n\nConversation so far:\n")
		for _, m := range history {
			fmt.Fprintf(&b, "%s: %s\n", m.Role, m.Text)
		}
	}

	if ctxJSON, err := json.Marshal(rc); err == nil {
		b.WriteString("\nContext: ")
		b.Write(ctxJSON)
	}

	if searchPayload != "" {
		b.WriteString("\nSearch results: ")
		b.WriteString(searchPayload)
	}

	b.WriteString("\n\nMessage: ")
	b.WriteString(message)
	return b.String()
}
