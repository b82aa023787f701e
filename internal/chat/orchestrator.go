package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"trade-ledger-bot/internal/intent"
	"trade-ledger-bot/internal/llm"
	"trade-ledger-bot/internal/logger"
	"trade-ledger-bot/internal/summary"
	"trade-ledger-bot/internal/trace"
	"trade-ledger-bot/internal/types"
)

// Ledger is the slice of the ledger client the orchestrator needs.
type Ledger interface {
	AppendTrade(ctx context.Context, trade types.TradeRecord) error
	ReadAllTrades(ctx context.Context) ([]map[string]string, error)
}

// IntentResolver abstracts intent.Resolver for testing.
type IntentResolver interface {
	Resolve(ctx context.Context, message string, history []types.ChatMessage) (types.ResolvedAction, error)
}

// Status classifies a turn's outcome for the HTTP layer.
type Status string

const (
	StatusOK Status = "ok"
	// StatusServiceUnavailable marks the manual-fallback prompt sent when
	// the completion service rejected its credential.
	StatusServiceUnavailable Status = "service_unavailable"
	StatusError              Status = "error"
)

// Response is one assistant turn.
type Response struct {
	Reply  string
	Tools  types.ToolUsage
	Status Status
}

// Orchestrator drives one message through resolve, dispatch, and compose.
type Orchestrator struct {
	resolver IntentResolver
	ledger   Ledger
	composer *Composer
	history  *History
	columns  summary.Columns
}

func NewOrchestrator(resolver IntentResolver, ledger Ledger, composer *Composer, history *History, columns summary.Columns) *Orchestrator {
	return &Orchestrator{
		resolver: resolver,
		ledger:   ledger,
		composer: composer,
		history:  history,
		columns:  columns,
	}
}

// HandleMessage processes one user message and returns the assistant turn.
// The history is appended exactly once per turn (user message, then reply)
// regardless of which path produced the reply.
func (o *Orchestrator) HandleMessage(ctx context.Context, message string) Response {
	ctx, span := trace.StartSpan(ctx, "chat.HandleMessage")
	defer span.End()

	resp := o.handle(ctx, message)

	o.history.Append(types.RoleUser, message)
	o.history.Append(types.RoleAssistant, resp.Reply)
	return resp
}

func (o *Orchestrator) handle(ctx context.Context, message string) Response {
	// History is captured before this turn's message is appended.
	priorHistory := o.history.Messages()

	action, err := o.resolver.Resolve(ctx, message, priorHistory)
	if err != nil {
		if errors.Is(err, llm.ErrAuth) {
			logger.Warn(ctx, "Completion credential rejected, using manual fallback", "error", err)
			return o.manualFallback(ctx, message)
		}
		return o.failure(ctx, "resolve intent", err)
	}

	rc := ReplyContext{Action: action.Kind}
	switch action.Kind {
	case types.ActionLogTrade:
		trade := *action.Trade
		trade.Normalize()
		if err := o.ledger.AppendTrade(ctx, trade); err != nil {
			return o.failure(ctx, "append trade", err)
		}
		rc.Trade = &trade

	case types.ActionSummarize:
		rows, err := o.ledger.ReadAllTrades(ctx)
		if err != nil {
			return o.failure(ctx, "read trades", err)
		}
		rc.SummaryText = summary.Summarize(rows, action.Summary, o.columns)
	}

	reply, usage, err := o.composer.Compose(ctx, message, rc, priorHistory)
	if err != nil {
		return o.failure(ctx, "compose reply", err)
	}
	return Response{Reply: reply, Tools: usage, Status: StatusOK}
}

// manualFallback handles a turn without any completion-service traffic.
// A fully labeled message commits straight to the ledger with a
// deterministic confirmation; an incomplete one gets an instructional
// message naming exactly the missing fields.
func (o *Orchestrator) manualFallback(ctx context.Context, message string) Response {
	draft := intent.ParseManual(message)

	if draft.Complete() {
		trade := draft.Trade
		trade.Normalize()
		if err := o.ledger.AppendTrade(ctx, trade); err != nil {
			return o.failure(ctx, "append trade (manual)", err)
		}
		return Response{
			Reply:  "Recorded trade: " + trade.String(),
			Tools:  types.DefaultToolUsage(),
			Status: StatusOK,
		}
	}

	reply := fmt.Sprintf(
		"The assistant is currently unavailable. To log a trade anyway, send each field on its own line as 'Label: value'. Still needed: %s.",
		strings.Join(draft.MissingFields(), ", "),
	)
	return Response{
		Reply:  reply,
		Tools:  types.DefaultToolUsage(),
		Status: StatusServiceUnavailable,
	}
}

func (o *Orchestrator) failure(ctx context.Context, op string, err error) Response {
	logger.ErrorWithErr(ctx, "Message handling failed", err, "op", op)
	return Response{
		Reply:  fmt.Sprintf("Something went wrong while handling that: %v", err),
		Tools:  types.DefaultToolUsage(),
		Status: StatusError,
	}
}
