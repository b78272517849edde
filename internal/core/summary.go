package core

import "github.com/shopspring/decimal"

// TotalFor sums the amounts of list. An empty list totals zero.
func TotalFor(list []Transaction) decimal.Decimal {
	total := decimal.Zero
	for _, t := range list {
		total = total.Add(t.Amount)
	}
	return total
}

// FilterByType returns a newly allocated slice holding the transactions of
// type typ, in their original order.
func FilterByType(list []Transaction, typ Type) []Transaction {
	out := make([]Transaction, 0, len(list))
	for _, t := range list {
		if t.Type == typ {
			out = append(out, t)
		}
	}
	return out
}
