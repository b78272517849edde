package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"spendwise/internal/core"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("99"))
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	incomeStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#22c55e"))
	expenseStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#ef4444"))
	todayStyle   = lipgloss.NewStyle().Bold(true).Underline(true)

	heatStyles = [4]lipgloss.Style{
		lipgloss.NewStyle().Foreground(lipgloss.Color("#6b7280")),
		lipgloss.NewStyle().Foreground(lipgloss.Color("#000000")).Background(lipgloss.Color("#bbf7d0")),
		lipgloss.NewStyle().Foreground(lipgloss.Color("#000000")).Background(lipgloss.Color("#4ade80")),
		lipgloss.NewStyle().Foreground(lipgloss.Color("#ffffff")).Background(lipgloss.Color("#15803d")),
	}
)

func printTitle(w io.Writer, title string) {
	fmt.Fprintln(w, titleStyle.Render(title))
	fmt.Fprintln(w)
}

func signedAmount(t core.Transaction) string {
	s := core.FormatSigned(t)
	if t.Type == core.Income {
		return incomeStyle.Render(s)
	}
	return expenseStyle.Render(s)
}

func categoryDot(category string) string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(core.CategoryColor(category))).Render("●")
}

// bar renders amount as a block bar scaled so max fills width.
func bar(amount, max decimal.Decimal, width int) string {
	if !max.IsPositive() || !amount.IsPositive() {
		return ""
	}
	n := int(amount.Div(max).Mul(decimal.NewFromInt(int64(width))).Round(0).IntPart())
	if n < 1 {
		n = 1
	}
	return strings.Repeat("█", n)
}
