// Package core provides the transaction model shared by storage, the
// repository and the analytics engine.
//
// This file contains amount parsing and display helpers.
package core

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

func init() {
	// Amounts are persisted as JSON numbers, not quoted strings. Decoding
	// still accepts both.
	decimal.MarshalJSONWithoutQuotes = true
}

var moneyPrinter = message.NewPrinter(language.AmericanEnglish)

// ParseAmount converts a user-entered decimal string into an amount.
//
// It accepts both dot (12.34) and comma (12,34) decimal separators and
// rejects signs, thousands separators, non-digits and zero.
//
// Examples:
//
//	ParseAmount("12.34") -> 12.34, nil
//	ParseAmount("12,34") -> 12.34, nil
//	ParseAmount("-1")    -> 0, ErrInvalidAmount
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, ErrInvalidAmount
	}
	s = strings.ReplaceAll(s, ",", ".")
	if strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-") {
		return decimal.Zero, ErrInvalidAmount
	}
	parts := strings.Split(s, ".")
	if len(parts) > 2 {
		return decimal.Zero, ErrInvalidAmount
	}
	for _, part := range parts {
		for _, r := range part {
			if !unicode.IsDigit(r) {
				return decimal.Zero, ErrInvalidAmount
			}
		}
	}
	d, err := decimal.NewFromString(s)
	if err != nil || !d.IsPositive() {
		return decimal.Zero, ErrInvalidAmount
	}
	return d, nil
}

// FormatMoney renders an amount the way the dashboard shows it: en-US digit
// grouping, two decimals and a leading dollar sign. Amounts are rounded
// half away from zero to cents without passing through float64.
func FormatMoney(d decimal.Decimal) string {
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Neg()
	}
	whole, cents, _ := strings.Cut(d.StringFixed(2), ".")
	return sign + "$" + groupThousands(whole) + "." + cents
}

// groupThousands inserts en-US group separators into a string of digits.
func groupThousands(digits string) string {
	if n, err := strconv.ParseInt(digits, 10, 64); err == nil {
		return moneyPrinter.Sprintf("%d", n)
	}
	var b strings.Builder
	lead := len(digits) % 3
	if lead == 0 {
		lead = 3
	}
	b.WriteString(digits[:lead])
	for i := lead; i < len(digits); i += 3 {
		b.WriteByte(',')
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}

// FormatSigned renders an amount with the +/- prefix used in activity lists.
func FormatSigned(t Transaction) string {
	if t.Type == Income {
		return "+" + FormatMoney(t.Amount)
	}
	return "-" + FormatMoney(t.Amount)
}
