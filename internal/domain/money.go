package domain

import (
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"
)

// CoerceAmount turns whatever the upstream put in a price field into a decimal
// amount. Prices arrive as JSON numbers, integers, or strings dressed up with
// currency symbols and thousands separators ("€1.234,50", "$ 1,234.50").
// Upstream data is untrusted but must never crash the aggregator: anything
// that can't be read as a number coerces to 0.
func CoerceAmount(v any) decimal.Decimal {
	switch x := v.(type) {
	case float64:
		return decimal.NewFromFloat(x)
	case float32:
		return decimal.NewFromFloat(float64(x))
	case int:
		return decimal.NewFromInt(int64(x))
	case int64:
		return decimal.NewFromInt(x)
	case json.Number:
		if d, err := decimal.NewFromString(x.String()); err == nil {
			return d
		}
		return decimal.Zero
	case string:
		return coerceAmountString(x)
	default:
		return decimal.Zero
	}
}

func coerceAmountString(s string) decimal.Decimal {
	// Comma-as-decimal-mark forms: "8,0" (no dot, short fraction) and
	// "1.234,50" (comma after the last dot). Everything else treats commas
	// as thousands separators, which the filter below drops.
	ci, di := strings.LastIndexByte(s, ','), strings.LastIndexByte(s, '.')
	switch {
	case ci >= 0 && di < 0:
		if tail := strings.TrimSpace(s[ci+1:]); tail == digitsOnly(tail) && len(tail) >= 1 && len(tail) <= 2 {
			s = s[:ci] + "." + s[ci+1:]
		}
	case ci >= 0 && ci > di:
		s = strings.ReplaceAll(s, ".", "")
		ci = strings.LastIndexByte(s, ',')
		s = s[:ci] + "." + s[ci+1:]
	}
	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9', r == '.', r == '-', r == '+':
			b.WriteRune(r)
		}
	}
	cleaned := b.String()
	if cleaned == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero
	}
	return d
}

func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
