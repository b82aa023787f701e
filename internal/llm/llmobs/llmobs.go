package llmobs

import (
	"context"
	"time"

	"trade-ledger-bot/internal/llm"
	"trade-ledger-bot/internal/logger"
	"trade-ledger-bot/internal/trace"
)

// observableCompleter wraps a Completer with logging and tracing.
type observableCompleter struct {
	completer llm.Completer
}

var _ llm.Completer = (*observableCompleter)(nil)

// Wrap wraps a completer with observability middleware.
func Wrap(completer llm.Completer) llm.Completer {
	return &observableCompleter{completer: completer}
}

func (oc *observableCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	ctx, span := trace.StartSpan(ctx, "llm.Complete")
	defer span.End()

	// Skip(1) so logs report the actual caller, not this middleware.
	logger.DebugSkip(ctx, 1, "Requesting completion", "promptChars", len(prompt))
	if logger.IsDebugEnabled() {
		// Full prompts are large; only build the log record when debug is on.
		logger.DebugSkip(ctx, 1, "Completion prompt", "prompt", prompt)
	}

	start := time.Now()
	text, err := oc.completer.Complete(ctx, prompt)
	if err != nil {
		logger.ErrorWithErrSkip(ctx, 1, "Completion failed", err)
		return "", err
	}

	logger.InfoSkip(ctx, 1, "Completion received",
		"responseChars", len(text),
		"duration_ms", time.Since(start).Milliseconds())
	return text, nil
}
