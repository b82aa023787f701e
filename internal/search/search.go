package search

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"trade-ledger-bot/internal/api"
	"trade-ledger-bot/internal/store"
	"trade-ledger-bot/internal/trace"
)

// ErrNotConfigured means no search credential is present. Callers degrade
// gracefully; this is never fatal.
var ErrNotConfigured = errors.New("search credential not configured")

// Result is one search hit as exposed to the reply prompt.
type Result struct {
	Name    string `json:"name"`
	URL     string `json:"url"`
	Content string `json:"content"`
}

// Client calls a Tavily-style search API. Transient upstream failures are
// retried before a search is reported as failed tool usage.
type Client struct {
	api        *api.Client
	retry      *api.RetryConfig
	endpoint   string
	depth      string
	maxResults int
}

func NewClient(cfg *store.Config) *Client {
	return &Client{
		api: api.NewClient(
			api.WithLogging(true),
			api.WithTimeout(15*time.Second),
		),
		retry:      api.DefaultRetryConfig(),
		endpoint:   cfg.Search.Endpoint,
		depth:      cfg.Search.Depth,
		maxResults: cfg.Search.MaxResults,
	}
}

// Configured reports whether a search credential is available.
func (c *Client) Configured() bool {
	return os.Getenv("TAVILY_API_KEY") != ""
}

// Search runs one query. Returns ErrNotConfigured without any network
// traffic when the credential is absent.
func (c *Client) Search(ctx context.Context, query string) ([]Result, error) {
	ctx, span := trace.StartSpan(ctx, "search.Search")
	defer span.End()

	apiKey := os.Getenv("TAVILY_API_KEY")
	if apiKey == "" {
		return nil, ErrNotConfigured
	}

	body := map[string]any{
		"api_key":      apiKey,
		"query":        query,
		"search_depth": c.depth,
		"max_results":  c.maxResults,
	}

	resp, err := c.api.POSTWithRetry(ctx, c.endpoint, body, c.retry)
	if err != nil {
		return nil, fmt.Errorf("search request: %w", err)
	}

	var r struct {
		Results []struct {
			Title   string `json:"title"`
			URL     string `json:"url"`
			Content string `json:"content"`
		} `json:"results"`
	}
	if err := resp.ParseJSON(&r); err != nil {
		return nil, err
	}

	results := make([]Result, 0, len(r.Results))
	for _, hit := range r.Results {
		results = append(results, Result{
			Name:    hit.Title,
			URL:     hit.URL,
			Content: stripHTML(hit.Content),
		})
	}
	return results, nil
}

// stripHTML flattens any markup in a result snippet to plain text before it
// is fed into the reply prompt. Plain text passes through untouched.
func stripHTML(s string) string {
	if !strings.Contains(s, "<") {
		return s
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return s
	}
	return strings.TrimSpace(doc.Text())
}
