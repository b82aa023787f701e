package summary

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"trade-ledger-bot/internal/types"
)

// NoTradesMessage is returned whenever the filter matches nothing.
const NoTradesMessage = "No trades found for that filter."

// Columns names the ledger headers the summarizer reads from each row.
type Columns struct {
	Date         string
	Side         string
	Symbol       string
	Quantity     string
	PricePerUnit string
	TotalAmount  string
}

// aggRow accumulates one symbol's buy/sell totals.
type aggRow struct {
	Symbol    string
	BuyQty    decimal.Decimal
	BuyValue  decimal.Decimal
	SellQty   decimal.Decimal
	SellValue decimal.Decimal
}

// dateLayouts are tried in order when a date filter is active.
var dateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"02/01/2006",
	"Jan 2, 2006",
	"2 Jan 2006",
}

// Summarize filters raw ledger rows by the query and aggregates per-symbol
// buy/sell statistics. Blank rows are dropped first; when a date bound is
// set, rows whose date column cannot be parsed are dropped too. Output lists
// symbols in first-seen order.
func Summarize(rows []map[string]string, q types.SummaryQuery, cols Columns) string {
	start, hasStart := parseBound(q.StartDate)
	end, hasEnd := parseBound(q.EndDate)
	wantSymbol := strings.TrimSpace(q.Symbol)

	var filtered []map[string]string
	for _, row := range rows {
		if rowIsBlank(row) {
			continue
		}
		if wantSymbol != "" && !strings.EqualFold(strings.TrimSpace(row[cols.Symbol]), wantSymbol) {
			continue
		}
		if hasStart || hasEnd {
			d, ok := parseDate(row[cols.Date])
			if !ok {
				continue
			}
			if hasStart && d.Before(start) {
				continue
			}
			if hasEnd && d.After(end) {
				continue
			}
		}
		filtered = append(filtered, row)
	}

	if len(filtered) == 0 {
		return NoTradesMessage
	}

	aggs := map[string]*aggRow{}
	var order []string
	for _, row := range filtered {
		symbol := strings.ToUpper(strings.TrimSpace(row[cols.Symbol]))
		agg := aggs[symbol]
		if agg == nil {
			agg = &aggRow{Symbol: symbol}
			aggs[symbol] = agg
			order = append(order, symbol)
		}

		qty := parseNumber(row[cols.Quantity])
		value := parseNumber(row[cols.TotalAmount])
		if value.IsZero() {
			value = qty.Mul(parseNumber(row[cols.PricePerUnit]))
		}

		side := row[cols.Side]
		switch {
		case strings.EqualFold(strings.TrimSpace(side), "buy"):
			agg.BuyQty = agg.BuyQty.Add(qty)
			agg.BuyValue = agg.BuyValue.Add(value)
		case strings.EqualFold(strings.TrimSpace(side), "sell"):
			agg.SellQty = agg.SellQty.Add(qty)
			agg.SellValue = agg.SellValue.Add(value)
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Found %d matching trades:\n", len(filtered))
	for _, symbol := range order {
		agg := aggs[symbol]
		fmt.Fprintf(&b, "%s: bought %s @ avg %s, sold %s @ avg %s\n",
			agg.Symbol,
			agg.BuyQty.StringFixed(2), avgPrice(agg.BuyValue, agg.BuyQty),
			agg.SellQty.StringFixed(2), avgPrice(agg.SellValue, agg.SellQty),
		)
	}
	return strings.TrimRight(b.String(), "\n")
}

// avgPrice is the value-weighted average, "0.00" on zero quantity.
func avgPrice(value, qty decimal.Decimal) string {
	if qty.IsZero() {
		return "0.00"
	}
	return value.Div(qty).StringFixed(2)
}

func rowIsBlank(row map[string]string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// parseNumber reads a ledger cell as a decimal, tolerating currency symbols
// and thousands separators. Unparseable cells count as zero.
func parseNumber(s string) decimal.Decimal {
	cleaned := strings.Map(func(r rune) rune {
		if (r >= '0' && r <= '9') || r == '.' || r == '-' {
			return r
		}
		return -1
	}, s)
	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero
	}
	return d
}

func parseDate(s string) (time.Time, bool) {
	trimmed := strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if d, err := time.Parse(layout, trimmed); err == nil {
			return d, true
		}
	}
	return time.Time{}, false
}

// parseBound parses a query date bound; an unparseable bound is treated as
// absent rather than failing the whole summary.
func parseBound(s string) (time.Time, bool) {
	if strings.TrimSpace(s) == "" {
		return time.Time{}, false
	}
	return parseDate(s)
}
