package intent

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"trade-ledger-bot/internal/llm"
	"trade-ledger-bot/internal/trace"
	"trade-ledger-bot/internal/types"
)

// instructionBlock pins the model to the command vocabulary. All structure
// is recovered from the raw text afterwards; there is no function calling.
const instructionBlock = `You classify a user's message about their investment portfolio into a command.
Respond ONLY with compact JSON, no prose, matching:
{"action":"log_trade"|"summarize"|"unknown",
 "trade":{"date":"YYYY-MM-DD","side":"Buy|Sell|...","symbol":"...","quantity":0,"price_per_unit":0,"total_amount":0,"fees":0,"account":"..."},
 "symbol":"...","start_date":"YYYY-MM-DD","end_date":"YYYY-MM-DD"}
Include "trade" only for log_trade. The summary filter fields are optional and only meaningful for summarize.
If the message is neither a trade to record nor a summary request, use "unknown".`

// Resolver turns one free-text message into a structured action via the
// completion service.
type Resolver struct {
	completer llm.Completer
}

func NewResolver(completer llm.Completer) *Resolver {
	return &Resolver{completer: completer}
}

// Resolve sends the message plus conversation history to the completion
// service and decodes the structured command from its reply. Malformed model
// output degrades to ActionUnknown; only a transport or credential failure
// of the completion service itself is returned as an error.
func (r *Resolver) Resolve(ctx context.Context, message string, history []types.ChatMessage) (types.ResolvedAction, error) {
	ctx, span := trace.StartSpan(ctx, "intent.Resolve")
	defer span.End()

	raw, err := r.completer.Complete(ctx, buildPrompt(message, history))
	if err != nil {
		return types.ResolvedAction{Kind: types.ActionUnknown}, err
	}
	return decodeAction(raw), nil
}

func buildPrompt(message string, history []types.ChatMessage) string {
	var b strings.Builder
	b.WriteString(instructionBlock)
	if len(history) > 0 {
		b.WriteString("\n\nConversation so far:\n")
		for _, m := range history {
			fmt.Fprintf(&b, "%s: %s\n", m.Role, m.Text)
		}
	}
	b.WriteString("\nMessage: ")
	b.WriteString(message)
	return b.String()
}

// command is the wire shape the model is asked to produce.
type command struct {
	Action    string             `json:"action"`
	Trade     *types.TradeRecord `json:"trade"`
	Symbol    string             `json:"symbol"`
	StartDate string             `json:"start_date"`
	EndDate   string             `json:"end_date"`
}

// decodeAction recovers the command from raw model text. Extraction takes
// the span from the first '{' to the last '}'; a parse failure yields an
// empty command, and any shape violation collapses to ActionUnknown rather
// than an error.
func decodeAction(raw string) types.ResolvedAction {
	unknown := types.ResolvedAction{Kind: types.ActionUnknown}

	var cmd command
	if err := json.Unmarshal([]byte(extractJSON(raw)), &cmd); err != nil {
		cmd = command{}
	}

	switch cmd.Action {
	case string(types.ActionLogTrade):
		if cmd.Trade == nil || strings.TrimSpace(cmd.Trade.Symbol) == "" {
			return unknown
		}
		trade := *cmd.Trade
		return types.ResolvedAction{Kind: types.ActionLogTrade, Trade: &trade}
	case string(types.ActionSummarize):
		return types.ResolvedAction{
			Kind: types.ActionSummarize,
			Summary: types.SummaryQuery{
				Symbol:    cmd.Symbol,
				StartDate: cmd.StartDate,
				EndDate:   cmd.EndDate,
			},
		}
	default:
		return unknown
	}
}

// extractJSON locates the first balanced-looking JSON object span in text.
func extractJSON(text string) string {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return "{}"
	}
	return text[start : end+1]
}
