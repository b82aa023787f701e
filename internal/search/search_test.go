package search

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"trade-ledger-bot/internal/api"
	"trade-ledger-bot/internal/store"
)

func clientFor(endpoint string) *Client {
	cfg := &store.Config{}
	cfg.Search.Endpoint = endpoint
	cfg.Search.Depth = "basic"
	cfg.Search.MaxResults = 5
	c := NewClient(cfg)
	c.retry = &api.RetryConfig{MaxAttempts: 2, InitialWait: time.Millisecond, MaxWait: time.Millisecond}
	return c
}

func TestSearchNotConfigured(t *testing.T) {
	t.Setenv("TAVILY_API_KEY", "")
	c := clientFor("http://example.invalid")

	if c.Configured() {
		t.Error("Expected Configured to be false without a key")
	}
	_, err := c.Search(context.Background(), "price of AAPL")
	if !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("Expected ErrNotConfigured, got %v", err)
	}
}

func TestSearchParsesResults(t *testing.T) {
	t.Setenv("TAVILY_API_KEY", "test-key")

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("Expected JSON request body, got %v", err)
		}
		if body["query"] != "price of AAPL" {
			t.Errorf("Expected query forwarded, got %v", body["query"])
		}
		if body["max_results"] != float64(5) {
			t.Errorf("Expected max_results 5, got %v", body["max_results"])
		}
		json.NewEncoder(w).Encode(map[string]any{
			"results": []map[string]string{
				{"title": "AAPL quote", "url": "https://example.com/aapl", "content": "<p>AAPL at <b>192.50</b></p>"},
			},
		})
	}))
	defer srv.Close()

	c := clientFor(srv.URL)
	results, err := c.Search(context.Background(), "price of AAPL")
	if err != nil {
		t.Fatalf("Expected search to succeed, got %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("Expected 1 result, got %d", len(results))
	}
	if results[0].Name != "AAPL quote" {
		t.Errorf("Expected title mapped to Name, got %q", results[0].Name)
	}
	if results[0].Content != "AAPL at 192.50" {
		t.Errorf("Expected HTML stripped from content, got %q", results[0].Content)
	}
}

func TestSearchRetriesTransientFailure(t *testing.T) {
	t.Setenv("TAVILY_API_KEY", "test-key")

	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		json.NewEncoder(w).Encode(map[string]any{
			"results": []map[string]string{
				{"title": "recovered", "url": "https://example.com", "content": "ok"},
			},
		})
	}))
	defer srv.Close()

	c := clientFor(srv.URL)
	results, err := c.Search(context.Background(), "price of AAPL")
	if err != nil {
		t.Fatalf("Expected search to recover after a transient failure, got %v", err)
	}
	if calls != 2 {
		t.Errorf("Expected 2 attempts, got %d", calls)
	}
	if len(results) != 1 || results[0].Name != "recovered" {
		t.Errorf("Unexpected results after retry: %v", results)
	}
}

func TestSearchNonSuccessStatus(t *testing.T) {
	t.Setenv("TAVILY_API_KEY", "test-key")

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := clientFor(srv.URL)
	_, err := c.Search(context.Background(), "anything")
	if err == nil {
		t.Fatal("Expected error on non-success status")
	}
	if errors.Is(err, ErrNotConfigured) {
		t.Error("Expected a transport error, not ErrNotConfigured")
	}
}

func TestStripHTMLPassthrough(t *testing.T) {
	if got := stripHTML("plain text snippet"); got != "plain text snippet" {
		t.Errorf("Expected plain text untouched, got %q", got)
	}
}
