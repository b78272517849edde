package analytics

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

var (
	lowShare  = decimal.RequireFromString("0.25")
	highShare = decimal.RequireFromString("0.60")
)

// HeatDay is one cell of the spending calendar.
type HeatDay struct {
	Day     int             `json:"day"`
	Date    string          `json:"date"`
	Amount  decimal.Decimal `json:"amount"`
	Level   int             `json:"level"`
	IsToday bool            `json:"is_today,omitempty"`
}

// Heatmap is the spending calendar of one month. Max is the largest daily
// amount of the month, never below 1.
type Heatmap struct {
	Year          int             `json:"year"`
	Month         int             `json:"month"`
	Label         string          `json:"label"`
	LeadingBlanks int             `json:"leading_blanks"`
	Max           decimal.Decimal `json:"max"`
	Days          []HeatDay       `json:"days"`
}

// HeatLevel classifies amount relative to max: 0 for no spending, 1 below a
// quarter of max, 2 below 60% of max, 3 otherwise.
func HeatLevel(amount, max decimal.Decimal) int {
	switch {
	case !amount.IsPositive():
		return 0
	case amount.LessThan(max.Mul(lowShare)):
		return 1
	case amount.LessThan(max.Mul(highShare)):
		return 2
	default:
		return 3
	}
}

// MonthHeatmap builds the calendar for year/month from per-date expense
// totals. today marks the matching cell; pass "" to mark none.
func MonthHeatmap(calendar map[string]decimal.Decimal, year int, month time.Month, today string) Heatmap {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	daysInMonth := first.AddDate(0, 1, -1).Day()

	days := make([]HeatDay, daysInMonth)
	max := decimal.NewFromInt(1)
	for i := range days {
		date := fmt.Sprintf("%04d-%02d-%02d", year, int(month), i+1)
		amount, ok := calendar[date]
		if !ok {
			amount = decimal.Zero
		}
		days[i] = HeatDay{Day: i + 1, Date: date, Amount: amount, IsToday: date == today}
		if amount.GreaterThan(max) {
			max = amount
		}
	}
	for i := range days {
		days[i].Level = HeatLevel(days[i].Amount, max)
	}

	return Heatmap{
		Year:          year,
		Month:         int(month),
		Label:         fmt.Sprintf("%s %d", month.String(), year),
		LeadingBlanks: (int(first.Weekday()) + 6) % 7, // weeks start on Monday
		Max:           max,
		Days:          days,
	}
}
