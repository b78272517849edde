// Package analytics derives chart and summary data from a transaction
// snapshot. Every function is pure: the snapshot is never modified and each
// result is newly allocated.
package analytics

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"

	"spendwise/internal/core"
)

// CategoryAmount is the summed amount of one category.
type CategoryAmount struct {
	Category string          `json:"category"`
	Amount   decimal.Decimal `json:"amount"`
}

// CategoryTotals lists category sums in first-encounter order. It encodes
// as a JSON object whose keys keep that order.
type CategoryTotals []CategoryAmount

// DailyTotal is the summed amount of one calendar date.
type DailyTotal struct {
	Date   string          `json:"date"`
	Amount decimal.Decimal `json:"amount"`
}

// DailySeries lists consecutive dates, oldest first. It encodes as a JSON
// object keyed by date.
type DailySeries []DailyTotal

// ByCategory sums the amounts of transactions of type typ per category.
// Categories without transactions are absent.
func ByCategory(snapshot []core.Transaction, typ core.Type) CategoryTotals {
	out := CategoryTotals{}
	pos := make(map[string]int)
	for _, t := range snapshot {
		if t.Type != typ {
			continue
		}
		i, ok := pos[t.Category]
		if !ok {
			i = len(out)
			pos[t.Category] = i
			out = append(out, CategoryAmount{Category: t.Category, Amount: decimal.Zero})
		}
		out[i].Amount = out[i].Amount.Add(t.Amount)
	}
	return out
}

// DailyTotals returns exactly days entries covering the window that ends on
// today's calendar date, zero-filled. Transactions of type typ dated inside
// the window are summed per date; everything else is ignored.
func DailyTotals(snapshot []core.Transaction, days int, typ core.Type, today time.Time) DailySeries {
	if days <= 0 {
		return DailySeries{}
	}
	out := make(DailySeries, days)
	pos := make(map[string]int, days)
	y, m, d := today.Date()
	for i := 0; i < days; i++ {
		date := core.FormatDate(time.Date(y, m, d-(days-1-i), 0, 0, 0, 0, time.UTC))
		out[i] = DailyTotal{Date: date, Amount: decimal.Zero}
		pos[date] = i
	}
	for _, t := range snapshot {
		if t.Type != typ {
			continue
		}
		if i, ok := pos[t.Date]; ok {
			out[i].Amount = out[i].Amount.Add(t.Amount)
		}
	}
	return out
}

// CalendarData sums expense amounts per date over the whole snapshot.
func CalendarData(snapshot []core.Transaction) map[string]decimal.Decimal {
	out := make(map[string]decimal.Decimal)
	for _, t := range snapshot {
		if t.Type != core.Expense {
			continue
		}
		if cur, ok := out[t.Date]; ok {
			out[t.Date] = cur.Add(t.Amount)
		} else {
			out[t.Date] = t.Amount
		}
	}
	return out
}

// Map returns the totals keyed by category.
func (c CategoryTotals) Map() map[string]decimal.Decimal {
	m := make(map[string]decimal.Decimal, len(c))
	for _, ca := range c {
		m[ca.Category] = ca.Amount
	}
	return m
}

// Total sums every category.
func (c CategoryTotals) Total() decimal.Decimal {
	total := decimal.Zero
	for _, ca := range c {
		total = total.Add(ca.Amount)
	}
	return total
}

func (c CategoryTotals) MarshalJSON() ([]byte, error) {
	keys := make([]string, len(c))
	vals := make([]decimal.Decimal, len(c))
	for i, ca := range c {
		keys[i], vals[i] = ca.Category, ca.Amount
	}
	return orderedObject(keys, vals)
}

// Map returns the totals keyed by date.
func (s DailySeries) Map() map[string]decimal.Decimal {
	m := make(map[string]decimal.Decimal, len(s))
	for _, dt := range s {
		m[dt.Date] = dt.Amount
	}
	return m
}

// Total sums every day of the series.
func (s DailySeries) Total() decimal.Decimal {
	total := decimal.Zero
	for _, dt := range s {
		total = total.Add(dt.Amount)
	}
	return total
}

func (s DailySeries) MarshalJSON() ([]byte, error) {
	keys := make([]string, len(s))
	vals := make([]decimal.Decimal, len(s))
	for i, dt := range s {
		keys[i], vals[i] = dt.Date, dt.Amount
	}
	return orderedObject(keys, vals)
}

func orderedObject(keys []string, vals []decimal.Decimal) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		buf.WriteString(vals[i].String())
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
