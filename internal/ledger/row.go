package ledger

import (
	"strconv"

	"trade-ledger-bot/internal/types"
)

// tradeFields fixes the set of logical fields a trade row can carry.
var tradeFields = []string{
	FieldDate,
	FieldSide,
	FieldSymbol,
	FieldQuantity,
	FieldPricePerUnit,
	FieldTotalAmount,
	FieldFees,
	FieldAccount,
}

// fieldValues serializes every logical field of a trade to its string form.
// The date is carried verbatim; numbers use the shortest exact representation
// so the backing store can re-type them on write.
func fieldValues(t types.TradeRecord) map[string]string {
	return map[string]string{
		FieldDate:         t.Date,
		FieldSide:         t.Side,
		FieldSymbol:       t.Symbol,
		FieldQuantity:     formatNumber(t.Quantity),
		FieldPricePerUnit: formatNumber(t.PricePerUnit),
		FieldTotalAmount:  formatNumber(t.TotalAmount),
		FieldFees:         formatNumber(t.Fees),
		FieldAccount:      t.Account,
	}
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// BuildRow maps a trade onto a positional row using the live header index.
// Fields whose header is unconfigured, or configured but absent from the
// sheet, are skipped; the row is left-padded with empty strings so resolved
// values land at their absolute column positions. Returns
// ErrNoMatchingHeaders only when no configured field resolves at all.
func BuildRow(trade types.TradeRecord, idx HeaderIndex, schema Schema) ([]string, error) {
	values := fieldValues(trade)

	maxCol := -1
	placed := map[int]string{}
	for _, field := range tradeFields {
		header, ok := schema.Columns[field]
		if !ok || header == "" {
			continue
		}
		col, ok := idx[header]
		if !ok {
			continue
		}
		placed[col] = values[field]
		if col > maxCol {
			maxCol = col
		}
	}

	if maxCol < 0 {
		return nil, ErrNoMatchingHeaders
	}

	row := make([]string, maxCol+1)
	for col, val := range placed {
		row[col] = val
	}
	return row, nil
}
