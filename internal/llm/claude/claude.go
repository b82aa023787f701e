package claude

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"trade-ledger-bot/internal/api"
	"trade-ledger-bot/internal/llm"
	"trade-ledger-bot/internal/store"
	"trade-ledger-bot/internal/trace"
)

// default messages endpoint (public Anthropic); override with
// CLAUDE_API_ENDPOINT for proxy setups.
const defaultEndpoint = "https://api.anthropic.com/v1/messages"

type Completer struct {
	cfg      *store.Config
	client   *api.Client
	endpoint string
}

var _ llm.Completer = (*Completer)(nil)

func New(cfg *store.Config) *Completer {
	endpoint := defaultEndpoint
	if ep := os.Getenv("CLAUDE_API_ENDPOINT"); ep != "" {
		endpoint = ep
	}
	return &Completer{
		cfg: cfg,
		client: api.NewClient(
			api.WithLogging(true),
			api.WithTimeout(60*time.Second),
			api.WithHeader("anthropic-version", "2023-06-01"),
		),
		endpoint: endpoint,
	}
}

func (c *Completer) Complete(ctx context.Context, prompt string) (string, error) {
	ctx, span := trace.StartSpan(ctx, "claude-api-call")
	defer span.End()

	apiKey := os.Getenv("CLAUDE_API_KEY")
	if apiKey == "" {
		return "", fmt.Errorf("%w: CLAUDE_API_KEY missing", llm.ErrAuth)
	}

	body := map[string]any{
		"model":      c.cfg.LLM.Model,
		"max_tokens": c.cfg.LLM.MaxTokens,
		"messages":   []map[string]string{{"role": "user", "content": prompt}},
	}

	resp, err := c.client.POST(ctx, c.endpoint, body, map[string]string{
		"x-api-key": apiKey,
	})
	if err != nil {
		var serr *api.StatusError
		if errors.As(err, &serr) && (serr.Code == http.StatusUnauthorized || serr.Code == http.StatusForbidden) {
			return "", fmt.Errorf("%w: claude http %d", llm.ErrAuth, serr.Code)
		}
		return "", fmt.Errorf("claude request: %w", err)
	}

	var r struct {
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"content"`
	}
	if err := resp.ParseJSON(&r); err != nil {
		return "", err
	}
	for _, block := range r.Content {
		if block.Type == "text" && strings.TrimSpace(block.Text) != "" {
			return strings.TrimSpace(block.Text), nil
		}
	}
	return "", errors.New("claude: no text content in response")
}
