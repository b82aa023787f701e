package types

import (
	"fmt"
	"strings"
)

// TradeRecord is one logical ledger row. Created by the intent resolver or
// the manual fallback parser, normalized once, then handed to the ledger
// client. Never mutated after Normalize.
type TradeRecord struct {
	Date         string  `json:"date"`
	Side         string  `json:"side"`
	Symbol       string  `json:"symbol"`
	Quantity     float64 `json:"quantity"`
	PricePerUnit float64 `json:"price_per_unit"`
	TotalAmount  float64 `json:"total_amount"`
	Fees         float64 `json:"fees"`
	Account      string  `json:"account"`
}

// canonicalSides is the fixed transaction-type vocabulary of the ledger.
var canonicalSides = []string{
	"Buy",
	"Sell",
	"Dividend",
	"Split",
	"Return of capital",
	"Cost Base Adj.",
	"Reinvested capital gain distribution",
}

// CanonicalSide maps a free-form side label onto the ledger vocabulary,
// case-insensitively. Unmatched input is returned trimmed as-is.
func CanonicalSide(raw string) string {
	trimmed := strings.TrimSpace(raw)
	for _, s := range canonicalSides {
		if strings.EqualFold(trimmed, s) {
			return s
		}
	}
	return trimmed
}

// Normalize applies the record invariants: the side label is canonicalized
// and a zero total defaults to quantity * price per unit.
func (t *TradeRecord) Normalize() {
	t.Side = CanonicalSide(t.Side)
	t.Symbol = strings.TrimSpace(t.Symbol)
	if t.TotalAmount == 0 {
		t.TotalAmount = t.Quantity * t.PricePerUnit
	}
}

func (t TradeRecord) String() string {
	return fmt.Sprintf("%s %s %.2f %s @ %.2f (total %.2f)", t.Date, t.Side, t.Quantity, t.Symbol, t.PricePerUnit, t.TotalAmount)
}

// ActionKind classifies a resolved user message.
type ActionKind string

const (
	ActionLogTrade  ActionKind = "log_trade"
	ActionSummarize ActionKind = "summarize"
	ActionUnknown   ActionKind = "unknown"
)

// SummaryQuery filters a trade summary. Empty fields mean no filter.
type SummaryQuery struct {
	Symbol    string `json:"symbol,omitempty"`
	StartDate string `json:"start_date,omitempty"`
	EndDate   string `json:"end_date,omitempty"`
}

// ResolvedAction is the structured intent extracted from one message.
// Trade is set only for ActionLogTrade.
type ResolvedAction struct {
	Kind    ActionKind
	Trade   *TradeRecord
	Summary SummaryQuery
}

// SearchStatus records how the search tool behaved for one reply.
type SearchStatus string

const (
	SearchUsed          SearchStatus = "used"
	SearchAttempted     SearchStatus = "attempted"
	SearchNotConfigured SearchStatus = "not_configured"
	SearchError         SearchStatus = "error"
	SearchSkipped       SearchStatus = "skipped"
)

// ToolUsage is attached 1:1 to each assistant reply.
type ToolUsage struct {
	Search      SearchStatus `json:"search"`
	ResultCount int          `json:"resultCount"`
}

// DefaultToolUsage is the state of a reply that never touched the search tool.
func DefaultToolUsage() ToolUsage {
	return ToolUsage{Search: SearchSkipped}
}

// Chat roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ChatMessage is one entry in the bounded conversation history.
type ChatMessage struct {
	Role string `json:"role"`
	Text string `json:"text"`
}
