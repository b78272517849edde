package storage

import (
	"github.com/shopspring/decimal"

	"spendwise/internal/core"
)

// DemoTransactions returns the fixture used to populate a first run: twelve
// transactions across January and February 2026.
func DemoTransactions() []core.Transaction {
	d := decimal.RequireFromString
	return []core.Transaction{
		{ID: 1, Title: "Salary Deposit", Amount: d("3100"), Type: core.Income, Category: core.CategorySalary, Date: "2026-02-01", Notes: "February salary"},
		{ID: 2, Title: "Freelance Project", Amount: d("900"), Type: core.Income, Category: core.CategorySalary, Date: "2026-02-05", Notes: "Client website"},
		{ID: 3, Title: "Apartment Rent", Amount: d("1200"), Type: core.Expense, Category: core.CategoryHousing, Date: "2026-02-02", Notes: "Monthly rent"},
		{ID: 4, Title: "Grocery Market", Amount: d("64.20"), Type: core.Expense, Category: core.CategoryFood, Date: "2026-02-18", Notes: ""},
		{ID: 5, Title: "Apple Subscription", Amount: d("14.99"), Type: core.Expense, Category: core.CategoryEntertainment, Date: "2026-02-21", Notes: "Apple Music"},
		{ID: 6, Title: "Netflix", Amount: d("18"), Type: core.Expense, Category: core.CategoryEntertainment, Date: "2026-02-10", Notes: ""},
		{ID: 7, Title: "Uber Ride", Amount: d("22.5"), Type: core.Expense, Category: core.CategoryTransport, Date: "2026-02-12", Notes: "Airport pickup"},
		{ID: 8, Title: "Online Shopping", Amount: d("135"), Type: core.Expense, Category: core.CategoryShopping, Date: "2026-02-15", Notes: "Clothes"},
		{ID: 9, Title: "Electricity Bill", Amount: d("85"), Type: core.Expense, Category: core.CategoryHousing, Date: "2026-02-08", Notes: ""},
		{ID: 10, Title: "Salary Deposit", Amount: d("3100"), Type: core.Income, Category: core.CategorySalary, Date: "2026-01-01", Notes: "January salary"},
		{ID: 11, Title: "Restaurant Dinner", Amount: d("47"), Type: core.Expense, Category: core.CategoryFood, Date: "2026-02-20", Notes: "Date night"},
		{ID: 12, Title: "Gym Membership", Amount: d("40"), Type: core.Expense, Category: core.CategoryEntertainment, Date: "2026-02-03", Notes: ""},
	}
}
