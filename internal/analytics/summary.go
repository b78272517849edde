package analytics

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"spendwise/internal/core"
)

var hundred = decimal.NewFromInt(100)

// BreakdownRow is one category line of the analysis view.
type BreakdownRow struct {
	Category string          `json:"category"`
	Amount   decimal.Decimal `json:"amount"`
	Percent  decimal.Decimal `json:"percent"`
	Color    string          `json:"color"`
}

// Breakdown is the category distribution of one transaction type.
type Breakdown struct {
	Type  core.Type       `json:"type"`
	Total decimal.Decimal `json:"total"`
	Rows  []BreakdownRow  `json:"rows"`
}

// MonthTotal holds income and expense sums of one calendar month.
type MonthTotal struct {
	Year    int             `json:"year"`
	Month   int             `json:"month"`
	Label   string          `json:"label"`
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
}

// RecentItem is a transaction prepared for the activity list.
type RecentItem struct {
	core.Transaction
	Signed  string `json:"signed"`
	TimeAgo string `json:"time_ago"`
}

// DashboardSummary feeds the dashboard cards and activity list.
type DashboardSummary struct {
	Balance      decimal.Decimal `json:"balance"`
	TotalIncome  decimal.Decimal `json:"total_income"`
	TotalExpense decimal.Decimal `json:"total_expense"`
	MonthIncome  decimal.Decimal `json:"month_income"`
	MonthExpense decimal.Decimal `json:"month_expense"`
	Recent       []RecentItem    `json:"recent"`
}

// BreakdownFor computes each category's share of the type total, rounded
// to one decimal place.
func BreakdownFor(snapshot []core.Transaction, typ core.Type) Breakdown {
	totals := ByCategory(snapshot, typ)
	total := totals.Total()
	rows := make([]BreakdownRow, len(totals))
	for i, ca := range totals {
		pct := decimal.Zero
		if total.IsPositive() {
			pct = ca.Amount.Div(total).Mul(hundred).Round(1)
		}
		rows[i] = BreakdownRow{
			Category: ca.Category,
			Amount:   ca.Amount,
			Percent:  pct,
			Color:    core.CategoryColor(ca.Category),
		}
	}
	return Breakdown{Type: typ, Total: total, Rows: rows}
}

// MonthlyTotals returns income and expense per month for the months ending
// with now's month, oldest first.
func MonthlyTotals(snapshot []core.Transaction, months int, now time.Time) []MonthTotal {
	if months <= 0 {
		return []MonthTotal{}
	}
	out := make([]MonthTotal, months)
	pos := make(map[string]int, months)
	y, m, _ := now.Date()
	for i := 0; i < months; i++ {
		first := time.Date(y, m-time.Month(months-1-i), 1, 0, 0, 0, 0, time.UTC)
		out[i] = MonthTotal{
			Year:    first.Year(),
			Month:   int(first.Month()),
			Label:   first.Format("Jan 06"),
			Income:  decimal.Zero,
			Expense: decimal.Zero,
		}
		pos[first.Format("2006-01")] = i
	}
	for _, t := range snapshot {
		if len(t.Date) < 7 {
			continue
		}
		i, ok := pos[t.Date[:7]]
		if !ok {
			continue
		}
		switch t.Type {
		case core.Income:
			out[i].Income = out[i].Income.Add(t.Amount)
		case core.Expense:
			out[i].Expense = out[i].Expense.Add(t.Amount)
		}
	}
	return out
}

// Dashboard computes the all-time balance, this month's income and expense
// and the recent newest transactions.
func Dashboard(snapshot []core.Transaction, now time.Time, recent int) DashboardSummary {
	income := core.FilterByType(snapshot, core.Income)
	expenses := core.FilterByType(snapshot, core.Expense)
	month := now.Format("2006-01") + "-"

	sum := DashboardSummary{
		TotalIncome:  core.TotalFor(income),
		TotalExpense: core.TotalFor(expenses),
		MonthIncome:  decimal.Zero,
		MonthExpense: decimal.Zero,
	}
	sum.Balance = sum.TotalIncome.Sub(sum.TotalExpense)
	for _, t := range snapshot {
		if !strings.HasPrefix(t.Date, month) {
			continue
		}
		switch t.Type {
		case core.Income:
			sum.MonthIncome = sum.MonthIncome.Add(t.Amount)
		case core.Expense:
			sum.MonthExpense = sum.MonthExpense.Add(t.Amount)
		}
	}

	if recent < 0 {
		recent = 0
	}
	if recent > len(snapshot) {
		recent = len(snapshot)
	}
	sum.Recent = make([]RecentItem, recent)
	for i, t := range snapshot[:recent] {
		sum.Recent[i] = RecentItem{
			Transaction: t,
			Signed:      core.FormatSigned(t),
			TimeAgo:     TimeAgo(t.Date, now),
		}
	}
	return sum
}

// TimeAgo describes how many whole days lie between date and now's
// calendar date. Unparseable dates yield "".
func TimeAgo(date string, now time.Time) string {
	d, err := core.ParseDate(date)
	if err != nil {
		return ""
	}
	y, m, dd := now.Date()
	today := time.Date(y, m, dd, 0, 0, 0, 0, time.UTC)
	days := int(today.Sub(d).Hours() / 24)
	switch {
	case days < 0:
		return "Upcoming"
	case days == 0:
		return "Today"
	case days == 1:
		return "1 day ago"
	default:
		return fmt.Sprintf("%d days ago", days)
	}
}
