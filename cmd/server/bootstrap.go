package main

import (
	"context"
	"fmt"
	"os"

	"trade-ledger-bot/internal/chat"
	"trade-ledger-bot/internal/intent"
	"trade-ledger-bot/internal/ledger"
	"trade-ledger-bot/internal/llm"
	"trade-ledger-bot/internal/llm/claude"
	"trade-ledger-bot/internal/llm/llmobs"
	"trade-ledger-bot/internal/llm/noop"
	"trade-ledger-bot/internal/llm/openai"
	"trade-ledger-bot/internal/logger"
	"trade-ledger-bot/internal/search"
	"trade-ledger-bot/internal/store"
	"trade-ledger-bot/internal/summary"
)

// buildOrchestrator wires the ledger, completion provider, search client
// and conversation state into a ready orchestrator.
func buildOrchestrator(ctx context.Context, cfg *store.Config) (*chat.Orchestrator, error) {
	spreadsheetID := os.Getenv("SPREADSHEET_ID")
	if spreadsheetID == "" {
		return nil, fmt.Errorf("SPREADSHEET_ID not set")
	}

	tp, err := ledger.NewSheetsTransport(ctx, spreadsheetID)
	if err != nil {
		return nil, fmt.Errorf("sheets transport: %w", err)
	}
	ledgerClient := ledger.NewClient(tp, ledger.SchemaFromConfig(cfg))

	completer := llmobs.Wrap(newCompleter(cfg))
	resolver := intent.NewResolver(completer)

	searchClient := search.NewClient(cfg)
	if !searchClient.Configured() {
		logger.Info(ctx, "Search not configured, replies will skip market lookups")
	}

	composer := chat.NewComposer(completer, searchClient, cfg.Search.Triggers)
	history := chat.NewHistory(cfg.History.Capacity)

	return chat.NewOrchestrator(resolver, ledgerClient, composer, history, summaryColumns(cfg)), nil
}

func newCompleter(cfg *store.Config) llm.Completer {
	switch cfg.LLM.Provider {
	case "CLAUDE":
		return claude.New(cfg)
	case "NOOP":
		return noop.New()
	default:
		return openai.New(cfg)
	}
}

func summaryColumns(cfg *store.Config) summary.Columns {
	cols := cfg.Ledger.Columns
	return summary.Columns{
		Date:         cols[ledger.FieldDate],
		Side:         cols[ledger.FieldSide],
		Symbol:       cols[ledger.FieldSymbol],
		Quantity:     cols[ledger.FieldQuantity],
		PricePerUnit: cols[ledger.FieldPricePerUnit],
		TotalAmount:  cols[ledger.FieldTotalAmount],
	}
}
