package llm

import (
	"context"
	"errors"
)

// Completer is an opaque text-completion service: prompt in, free text out.
// All structure is recovered downstream from the raw text.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// ErrAuth marks credential-class failures of the completion service: a
// rejected key or no key at all. The conversation orchestrator switches to
// the manual fallback path when it sees this.
var ErrAuth = errors.New("completion service credential missing or rejected")
