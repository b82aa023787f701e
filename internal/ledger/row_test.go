package ledger

import (
	"errors"
	"testing"

	"trade-ledger-bot/internal/types"
)

func testSchema() Schema {
	return Schema{
		SheetName:    "Transactions",
		HeaderRow:    1,
		FirstDataRow: 2,
		Columns: map[string]string{
			FieldDate:         "Date",
			FieldSide:         "Transaction Type",
			FieldSymbol:       "Stock",
			FieldQuantity:     "Quantity",
			FieldPricePerUnit: "Amount per unit",
			FieldTotalAmount:  "Total Amount",
			FieldFees:         "Trading Fees",
			FieldAccount:      "Investment Account",
		},
	}
}

func testTrade() types.TradeRecord {
	return types.TradeRecord{
		Date:         "2026-01-20",
		Side:         "Buy",
		Symbol:       "AAPL",
		Quantity:     10,
		PricePerUnit: 192.50,
		TotalAmount:  1925,
		Fees:         9.95,
		Account:      "Brokerage",
	}
}

func TestBuildHeaderIndex(t *testing.T) {
	idx := BuildHeaderIndex([]string{" Date ", "", "Stock", "Stock"})

	if got := idx["Date"]; got != 0 {
		t.Errorf("Expected Date at column 0, got %d", got)
	}
	if got := idx["Stock"]; got != 2 {
		t.Errorf("Expected first Stock occurrence at column 2, got %d", got)
	}
	if _, ok := idx[""]; ok {
		t.Error("Expected blank headers to be skipped")
	}
}

func TestBuildRowFullMatch(t *testing.T) {
	schema := testSchema()
	idx := BuildHeaderIndex([]string{
		"Date", "Transaction Type", "Stock", "Quantity",
		"Amount per unit", "Total Amount", "Trading Fees", "Investment Account",
	})

	row, err := BuildRow(testTrade(), idx, schema)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if len(row) != 8 {
		t.Fatalf("Expected row length 8, got %d", len(row))
	}
	if row[0] != "2026-01-20" {
		t.Errorf("Expected date in column 0, got %q", row[0])
	}
	if row[3] != "10" {
		t.Errorf("Expected quantity '10', got %q", row[3])
	}
	if row[4] != "192.5" {
		t.Errorf("Expected price '192.5', got %q", row[4])
	}
}

func TestBuildRowLeftPadding(t *testing.T) {
	schema := testSchema()
	// Only the symbol column exists, at position 3.
	idx := BuildHeaderIndex([]string{"A", "B", "C", "Stock"})

	row, err := BuildRow(testTrade(), idx, schema)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if len(row) != 4 {
		t.Fatalf("Expected row length 4 (max index + 1), got %d", len(row))
	}
	for i := 0; i < 3; i++ {
		if row[i] != "" {
			t.Errorf("Expected empty padding at column %d, got %q", i, row[i])
		}
	}
	if row[3] != "AAPL" {
		t.Errorf("Expected symbol at column 3, got %q", row[3])
	}
}

func TestBuildRowPartialMatchTolerated(t *testing.T) {
	schema := testSchema()
	idx := BuildHeaderIndex([]string{"Date", "Stock"})

	row, err := BuildRow(testTrade(), idx, schema)
	if err != nil {
		t.Fatalf("Expected partial match to succeed, got %v", err)
	}
	if len(row) != 2 {
		t.Errorf("Expected row length 2, got %d", len(row))
	}
}

func TestBuildRowNoMatchingHeaders(t *testing.T) {
	schema := testSchema()
	idx := BuildHeaderIndex([]string{"Foo", "Bar"})

	_, err := BuildRow(testTrade(), idx, schema)
	if !errors.Is(err, ErrNoMatchingHeaders) {
		t.Fatalf("Expected ErrNoMatchingHeaders, got %v", err)
	}
}

func TestBuildRowUnconfiguredFieldSkipped(t *testing.T) {
	schema := testSchema()
	delete(schema.Columns, FieldFees)
	idx := BuildHeaderIndex([]string{"Date", "Trading Fees"})

	row, err := BuildRow(testTrade(), idx, schema)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(row) != 1 {
		t.Fatalf("Expected only the date column to resolve, got length %d", len(row))
	}
}
