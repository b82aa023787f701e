package intent

import (
	"strconv"
	"strings"

	"trade-ledger-bot/internal/types"
)

// requiredFields is every field a committable trade needs, in report order.
var requiredFields = []string{
	"date",
	"transaction type",
	"stock",
	"quantity",
	"amount per unit",
	"total amount",
	"trading fees",
	"investment account",
}

// Draft is a partially extracted trade from the manual fallback path.
type Draft struct {
	Trade types.TradeRecord
	seen  map[string]bool
}

// ParseManual deterministically extracts trade fields from a message laid
// out as "label: value" lines. Purely local: this is the path used when the
// completion service is unreachable, so it must never touch the network.
func ParseManual(message string) Draft {
	d := Draft{seen: make(map[string]bool)}

	for _, line := range strings.Split(message, "\n") {
		line = stripMarkup(line)
		if line == "" {
			continue
		}
		label, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		label = strings.ToLower(strings.TrimSpace(label))
		value = strings.TrimSpace(value)
		if value == "" {
			continue
		}

		switch {
		case strings.Contains(label, "transaction type"):
			d.Trade.Side = value
			d.seen["transaction type"] = true
		case strings.Contains(label, "stock"), strings.Contains(label, "symbol"):
			d.Trade.Symbol = value
			d.seen["stock"] = true
		case strings.Contains(label, "amount per unit"), strings.Contains(label, "price per unit"):
			d.Trade.PricePerUnit = parseNumber(value)
			d.seen["amount per unit"] = true
		case strings.Contains(label, "total amount"):
			d.Trade.TotalAmount = parseNumber(value)
			d.seen["total amount"] = true
		case strings.Contains(label, "quantity"):
			d.Trade.Quantity = parseNumber(value)
			d.seen["quantity"] = true
		case strings.Contains(label, "trading fees"), strings.Contains(label, "fees"):
			d.Trade.Fees = parseNumber(value)
			d.seen["trading fees"] = true
		case strings.Contains(label, "investment account"), strings.Contains(label, "account"):
			d.Trade.Account = value
			d.seen["investment account"] = true
		case label == "date":
			d.Trade.Date = value
			d.seen["date"] = true
		}
	}
	return d
}

// MissingFields lists the required fields still absent, in a fixed order.
// A non-empty result means the message cannot be committed as a trade.
func (d Draft) MissingFields() []string {
	var missing []string
	for _, f := range requiredFields {
		if !d.seen[f] {
			missing = append(missing, f)
		}
	}
	return missing
}

// Complete reports whether every required field was extracted.
func (d Draft) Complete() bool {
	return len(d.MissingFields()) == 0
}

// stripMarkup drops leading bullet markers and emphasis characters so
// "- **Quantity:** 10" parses the same as "Quantity: 10".
func stripMarkup(line string) string {
	line = strings.TrimSpace(line)
	line = strings.TrimLeft(line, "-*•> \t")
	line = strings.ReplaceAll(line, "**", "")
	line = strings.ReplaceAll(line, "*", "")
	line = strings.ReplaceAll(line, "_", "")
	line = strings.ReplaceAll(line, "`", "")
	return strings.TrimSpace(line)
}

// parseNumber keeps only digits, '.', and '-' before parsing; anything
// still unparseable counts as zero.
func parseNumber(s string) float64 {
	cleaned := strings.Map(func(r rune) rune {
		if (r >= '0' && r <= '9') || r == '.' || r == '-' {
			return r
		}
		return -1
	}, s)
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0
	}
	return v
}
