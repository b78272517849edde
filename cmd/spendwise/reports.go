package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"spendwise/internal/analytics"
	"spendwise/internal/backend"
	"spendwise/internal/core"
)

var weekdayHeader = []string{"Mo", "Tu", "We", "Th", "Fr", "Sa", "Su"}

func (a *app) summaryCmd() *cobra.Command {
	var recent int
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Balance, this month's totals and recent activity",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withBackend(cmd, func(res *backend.BackendResult) error {
				d := res.Analytics.Dashboard(recent)
				out := cmd.OutOrStdout()

				greeting := "SpendWise"
				if u := res.Sessions.GetUser(cmd.Context()); u != nil {
					greeting = "Hello, " + u.Name
				}
				printTitle(out, greeting)

				w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
				fmt.Fprintf(w, "Balance\t%s\n", core.FormatMoney(d.Balance))
				fmt.Fprintf(w, "Income this month\t%s\n", incomeStyle.Render(core.FormatMoney(d.MonthIncome)))
				fmt.Fprintf(w, "Expenses this month\t%s\n", expenseStyle.Render(core.FormatMoney(d.MonthExpense)))
				if err := w.Flush(); err != nil {
					return err
				}

				if len(d.Recent) == 0 {
					return nil
				}
				fmt.Fprintln(out)
				fmt.Fprintln(out, headerStyle.Render("Recent activity"))
				w = tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
				for _, item := range d.Recent {
					fmt.Fprintf(w, "%s %s\t%s\t%s\n",
						categoryDot(item.Category), item.Title, mutedStyle.Render(item.TimeAgo), signedAmount(item.Transaction))
				}
				return w.Flush()
			})
		},
	}
	cmd.Flags().IntVar(&recent, "recent", 5, "number of recent transactions")
	return cmd
}

func (a *app) categoriesCmd() *cobra.Command {
	var typ string
	cmd := &cobra.Command{
		Use:   "categories",
		Short: "Totals and shares per category",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			t, err := core.ParseType(typ)
			if err != nil {
				return err
			}
			return a.withBackend(cmd, func(res *backend.BackendResult) error {
				b := res.Analytics.Breakdown(t)
				out := cmd.OutOrStdout()
				printTitle(out, fmt.Sprintf("%s by category", strings.ToUpper(string(t[:1]))+string(t[1:])))
				if len(b.Rows) == 0 {
					fmt.Fprintln(out, mutedStyle.Render("No data yet."))
					return nil
				}
				max := decimal.Zero
				for _, row := range b.Rows {
					max = decimal.Max(max, row.Amount)
				}
				w := tabwriter.NewWriter(out, 0, 0, 2, ' ', tabwriter.AlignRight)
				for _, row := range b.Rows {
					fmt.Fprintf(w, "%s %s\t%s\t%s%%\t%s\t\n",
						categoryDot(row.Category), row.Category,
						core.FormatMoney(row.Amount),
						row.Percent.StringFixed(1),
						bar(row.Amount, max, 20))
				}
				fmt.Fprintf(w, "%s\t%s\t\t\t\n", headerStyle.Render("Total"), core.FormatMoney(b.Total))
				return w.Flush()
			})
		},
	}
	cmd.Flags().StringVar(&typ, "type", string(core.Expense), "income or expense")
	return cmd
}

func (a *app) dailyCmd() *cobra.Command {
	var (
		days int
		typ  string
	)
	cmd := &cobra.Command{
		Use:   "daily",
		Short: "Totals per day for the last days",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			t, err := core.ParseType(typ)
			if err != nil {
				return err
			}
			if days < 1 {
				return fmt.Errorf("days must be at least 1")
			}
			return a.withBackend(cmd, func(res *backend.BackendResult) error {
				series := res.Analytics.DailyTotals(days, t)
				out := cmd.OutOrStdout()
				printTitle(out, fmt.Sprintf("Daily %s, last %d days", t, days))
				max := decimal.Zero
				for _, d := range series {
					max = decimal.Max(max, d.Amount)
				}
				w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
				for _, d := range series {
					fmt.Fprintf(w, "%s\t%s\t%s\n", d.Date, core.FormatMoney(d.Amount), bar(d.Amount, max, 30))
				}
				fmt.Fprintf(w, "%s\t%s\t\n", headerStyle.Render("Total"), core.FormatMoney(series.Total()))
				return w.Flush()
			})
		},
	}
	cmd.Flags().IntVar(&days, "days", 7, "window length ending today")
	cmd.Flags().StringVar(&typ, "type", string(core.Expense), "income or expense")
	return cmd
}

func (a *app) calendarCmd() *cobra.Command {
	var month string
	cmd := &cobra.Command{
		Use:   "calendar",
		Short: "Spending heat calendar for a month",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			year, m := a.now().Year(), a.now().Month()
			if month != "" {
				t, err := time.Parse("2006-01", month)
				if err != nil {
					return fmt.Errorf("month must be formatted as YYYY-MM")
				}
				year, m = t.Year(), t.Month()
			}
			return a.withBackend(cmd, func(res *backend.BackendResult) error {
				renderHeatmap(cmd.OutOrStdout(), res.Analytics.Heatmap(year, m))
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&month, "month", "", "month YYYY-MM (default current)")
	return cmd
}

// renderHeatmap draws a Monday-first grid, one cell per day, colored by
// spending level.
func renderHeatmap(w io.Writer, hm analytics.Heatmap) {
	printTitle(w, hm.Label)

	header := make([]string, len(weekdayHeader))
	for i, d := range weekdayHeader {
		header[i] = headerStyle.Render(fmt.Sprintf("%3s", d))
	}
	fmt.Fprintln(w, strings.Join(header, " "))

	cells := make([]string, 0, hm.LeadingBlanks+len(hm.Days))
	for i := 0; i < hm.LeadingBlanks; i++ {
		cells = append(cells, "   ")
	}
	for _, d := range hm.Days {
		cell := heatStyles[d.Level].Render(fmt.Sprintf("%3d", d.Day))
		if d.IsToday {
			cell = todayStyle.Inherit(heatStyles[d.Level]).Render(fmt.Sprintf("%3d", d.Day))
		}
		cells = append(cells, cell)
	}
	for i := 0; i < len(cells); i += 7 {
		end := min(i+7, len(cells))
		fmt.Fprintln(w, strings.Join(cells[i:end], " "))
	}

	fmt.Fprintln(w)
	legend := make([]string, len(heatStyles))
	for i, s := range heatStyles {
		legend[i] = s.Render(fmt.Sprintf(" %d ", i))
	}
	fmt.Fprintf(w, "%s  %s %s\n", mutedStyle.Render("less"), strings.Join(legend, ""), mutedStyle.Render("more"))
	fmt.Fprintf(w, "%s %s\n", mutedStyle.Render("busiest day:"), core.FormatMoney(hm.Max))
}

func (a *app) monthlyCmd() *cobra.Command {
	var months int
	cmd := &cobra.Command{
		Use:   "monthly",
		Short: "Income and expenses per month",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if months < 1 {
				return fmt.Errorf("months must be at least 1")
			}
			return a.withBackend(cmd, func(res *backend.BackendResult) error {
				out := cmd.OutOrStdout()
				printTitle(out, fmt.Sprintf("Last %d months", months))
				w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
					headerStyle.Render("Month"),
					headerStyle.Render("Income"),
					headerStyle.Render("Expenses"),
					headerStyle.Render("Net"))
				for _, mt := range res.Analytics.MonthlyTotals(months) {
					fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
						mt.Label,
						incomeStyle.Render(core.FormatMoney(mt.Income)),
						expenseStyle.Render(core.FormatMoney(mt.Expense)),
						core.FormatMoney(mt.Income.Sub(mt.Expense)))
				}
				return w.Flush()
			})
		},
	}
	cmd.Flags().IntVar(&months, "months", 6, "number of months ending with the current one")
	return cmd
}
