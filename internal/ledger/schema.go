package ledger

import (
	"strings"

	"trade-ledger-bot/internal/store"
)

// Logical field names used as keys in the schema column mapping.
const (
	FieldDate         = "date"
	FieldSide         = "side"
	FieldSymbol       = "symbol"
	FieldQuantity     = "quantity"
	FieldPricePerUnit = "price_per_unit"
	FieldTotalAmount  = "total_amount"
	FieldFees         = "fees"
	FieldAccount      = "account"
)

// Schema describes where the ledger lives inside the spreadsheet: the sheet
// title, the 1-based header row, the first data row, and the header text
// configured for each logical field. Loaded once at startup, never mutated.
type Schema struct {
	SheetName    string
	HeaderRow    int
	FirstDataRow int
	Columns      map[string]string
}

// SchemaFromConfig builds the ledger schema from loaded configuration.
func SchemaFromConfig(cfg *store.Config) Schema {
	s := Schema{
		SheetName:    cfg.Ledger.SheetName,
		HeaderRow:    cfg.Ledger.HeaderRow,
		FirstDataRow: cfg.Ledger.FirstDataRow,
		Columns:      cfg.Ledger.Columns,
	}
	if s.FirstDataRow == 0 {
		s.FirstDataRow = s.HeaderRow + 1
	}
	return s
}

// HeaderIndex maps trimmed header text to its zero-based column position.
// It is rebuilt from the live header row on every ledger operation so that
// column reordering between calls stays survivable; it is never cached.
type HeaderIndex map[string]int

// BuildHeaderIndex indexes a raw header row. Matching is case-sensitive on
// trimmed text; the first occurrence of a duplicate header wins.
func BuildHeaderIndex(headerRow []string) HeaderIndex {
	idx := make(HeaderIndex, len(headerRow))
	for col, cell := range headerRow {
		name := strings.TrimSpace(cell)
		if name == "" {
			continue
		}
		if _, seen := idx[name]; !seen {
			idx[name] = col
		}
	}
	return idx
}
