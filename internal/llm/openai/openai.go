package openai

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

const defaultEndpoint = "https://api.openai.com/v1/chat/completions"

type Completer struct {
	cfg      *store.Config
	client   *api.Client
	endpoint string
}

var _ llm.Completer = (*Completer)(nil)

func New(cfg *store.Config) *Completer {
	endpoint := defaultEndpoint
	if ep := os.Getenv("OPENAI_API_ENDPOINT"); ep != "" {
		endpoint = ep
	}
	return &Completer{
		cfg: cfg,
		client: api.NewClient(
			api.WithLogging(true),
			api.WithTimeout(60*time.Second),
		),
		endpoint: endpoint,
	}
}

func (c *Completer) Complete(ctx context.Context, prompt string) (string, error) {
	ctx, span := trace.StartSpan(ctx, "openai-api-call")
	defer span.End()

	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		return "", fmt.Errorf("%w: OPENAI_API_KEY missing", llm.ErrAuth)
	}

	body := map[string]any{
		"model":       c.cfg.LLM.Model,
		"messages":    []map[string]string{{"role": "user", "content": prompt}},
		"temperature": c.cfg.LLM.Temperature,
		"max_tokens":  c.cfg.LLM.MaxTokens,
	}

	resp, err := c.client.POST(ctx, c.endpoint, body, map[string]string{
		"Authorization": "Bearer " + apiKey,
	})
	if err != nil {
		var serr *api.StatusError
		if errors.As(err, &serr) && (serr.Code == http.StatusUnauthorized || serr.Code == http.StatusForbidden) {
			return "", fmt.Errorf("%w: openai http %d", llm.ErrAuth, serr.Code)
		}
		return "", fmt.Errorf("openai request: %w", err)
	}

	var r struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := resp.ParseJSON(&r); err != nil {
		return "", err
	}
	if len(r.Choices) == 0 {
		return "", errors.New("openai: no choices in response")
	}
	return strings.TrimSpace(r.Choices[0].Message.Content), nil
}
