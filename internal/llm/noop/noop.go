package noop

import (
	"context"

	"trade-ledger-bot/internal/llm"
)

// Completer answers every prompt with an unknown-action command. Used for
// wiring tests and as a safe default when no provider is configured.
type Completer struct{}

var _ llm.Completer = (*Completer)(nil)

func New() *Completer {
	return &Completer{}
}

func (c *Completer) Complete(_ context.Context, _ string) (string, error) {
	return `{"action":"unknown"}`, nil
}
