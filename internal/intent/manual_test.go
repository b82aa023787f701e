package intent

import (
	"strings"
	"testing"
)

const completeMessage = `Date: 2026-01-20
Transaction type: Buy
Stock: AAPL
Quantity: 10
Amount per unit: $192.50
Total amount: $1,925.00
Trading fees: 9.95
Investment account: Brokerage`

func TestParseManualComplete(t *testing.T) {
	d := ParseManual(completeMessage)

	if missing := d.MissingFields(); len(missing) != 0 {
		t.Fatalf("Expected zero missing fields, got %v", missing)
	}
	if !d.Complete() {
		t.Error("Expected draft to be complete")
	}
	if d.Trade.Symbol != "AAPL" {
		t.Errorf("Expected symbol AAPL, got %q", d.Trade.Symbol)
	}
	if d.Trade.Quantity != 10 {
		t.Errorf("Expected quantity 10, got %f", d.Trade.Quantity)
	}
	if d.Trade.PricePerUnit != 192.50 {
		t.Errorf("Expected price 192.50, got %f", d.Trade.PricePerUnit)
	}
	if d.Trade.TotalAmount != 1925 {
		t.Errorf("Expected total 1925, got %f", d.Trade.TotalAmount)
	}
	if d.Trade.Date != "2026-01-20" {
		t.Errorf("Expected date preserved verbatim, got %q", d.Trade.Date)
	}
}

func TestParseManualEachMissingLabelReported(t *testing.T) {
	lines := strings.Split(completeMessage, "\n")
	for i, removed := range requiredFields {
		without := append(append([]string{}, lines[:i]...), lines[i+1:]...)
		d := ParseManual(strings.Join(without, "\n"))

		missing := d.MissingFields()
		if len(missing) != 1 {
			t.Fatalf("Removing %q: expected exactly one missing field, got %v", removed, missing)
		}
		if missing[0] != removed {
			t.Errorf("Removing %q: expected it reported missing, got %v", removed, missing)
		}
	}
}

func TestParseManualBulletsAndEmphasis(t *testing.T) {
	d := ParseManual("- **Stock:** MSFT\n* _Quantity_: 3")

	if d.Trade.Symbol != "MSFT" {
		t.Errorf("Expected markup-stripped symbol MSFT, got %q", d.Trade.Symbol)
	}
	if d.Trade.Quantity != 3 {
		t.Errorf("Expected quantity 3, got %f", d.Trade.Quantity)
	}
}

func TestParseManualAlternateLabels(t *testing.T) {
	d := ParseManual("Symbol: NVDA\nPrice per unit: 120\nFees: 1.50\nAccount: Super")

	if !d.seen["stock"] {
		t.Error("Expected 'symbol' label to map to the stock field")
	}
	if d.Trade.PricePerUnit != 120 {
		t.Errorf("Expected 'price per unit' label to map to price, got %f", d.Trade.PricePerUnit)
	}
	if d.Trade.Fees != 1.50 {
		t.Errorf("Expected 'fees' label to map to fees, got %f", d.Trade.Fees)
	}
	if d.Trade.Account != "Super" {
		t.Errorf("Expected 'account' label to map to account, got %q", d.Trade.Account)
	}
}

func TestParseManualUnparseableNumberBecomesZero(t *testing.T) {
	d := ParseManual("Quantity: lots")
	if d.Trade.Quantity != 0 {
		t.Errorf("Expected unparseable quantity to be 0, got %f", d.Trade.Quantity)
	}
	if !d.seen["quantity"] {
		t.Error("Expected the label itself to still count as present")
	}
}

func TestParseManualIgnoresUnknownLabels(t *testing.T) {
	d := ParseManual("Mood: optimistic\nStock: AAPL")
	if d.Trade.Symbol != "AAPL" {
		t.Errorf("Expected known label parsed, got %q", d.Trade.Symbol)
	}
	if len(d.MissingFields()) != 7 {
		t.Errorf("Expected 7 fields still missing, got %v", d.MissingFields())
	}
}
