package core

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)

func TestParseType(t *testing.T) {
	cases := []struct {
		in   string
		want Type
		ok   bool
	}{
		{"income", Income, true},
		{"EXPENSE", Expense, true},
		{" expense ", Expense, true},
		{"transfer", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		got, err := ParseType(tc.in)
		if tc.ok {
			require.NoError(t, err, tc.in)
			assert.Equal(t, tc.want, got)
		} else {
			assert.ErrorIs(t, err, ErrInvalidType, tc.in)
		}
	}
}

func TestInputValidate(t *testing.T) {
	good := Input{
		Title:    "Coffee",
		Amount:   decimal.NewFromInt(5),
		Type:     Expense,
		Category: CategoryFood,
		Date:     "2026-03-01",
	}
	require.NoError(t, good.Validate(fixedNow))

	noDate := good
	noDate.Date = ""
	assert.NoError(t, noDate.Validate(fixedNow), "date is optional")

	today := good
	today.Date = "2026-03-15"
	assert.NoError(t, today.Validate(fixedNow))

	cases := map[string]struct {
		mutate func(*Input)
		want   error
	}{
		"empty title":   {func(in *Input) { in.Title = "  " }, ErrEmptyTitle},
		"short title":   {func(in *Input) { in.Title = "a" }, ErrShortTitle},
		"zero amount":   {func(in *Input) { in.Amount = decimal.Zero }, ErrInvalidAmount},
		"negative":      {func(in *Input) { in.Amount = decimal.NewFromInt(-3) }, ErrInvalidAmount},
		"bad type":      {func(in *Input) { in.Type = "gift" }, ErrInvalidType},
		"bad date":      {func(in *Input) { in.Date = "01/03/2026" }, ErrInvalidDate},
		"future date":   {func(in *Input) { in.Date = "2026-03-16" }, ErrFutureDate},
		"impossible dt": {func(in *Input) { in.Date = "2026-02-30" }, ErrInvalidDate},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			in := good
			tc.mutate(&in)
			assert.ErrorIs(t, in.Validate(fixedNow), tc.want)
		})
	}
}

func TestPatchApplyPreservesUntouchedFields(t *testing.T) {
	orig := Transaction{
		ID:       7,
		Title:    "Netflix",
		Amount:   decimal.NewFromInt(18),
		Type:     Expense,
		Category: CategoryEntertainment,
		Date:     "2026-02-10",
		Notes:    "monthly",
	}
	title := "Netflix Premium"
	notes := ""
	got := Patch{Title: &title, Notes: &notes}.Apply(orig)

	assert.Equal(t, int64(7), got.ID)
	assert.Equal(t, "Netflix Premium", got.Title)
	assert.Equal(t, "", got.Notes)
	assert.True(t, got.Amount.Equal(orig.Amount))
	assert.Equal(t, orig.Type, got.Type)
	assert.Equal(t, orig.Category, got.Category)
	assert.Equal(t, orig.Date, got.Date)
	assert.Equal(t, "Netflix", orig.Title, "input must not be mutated")
}

func TestPatchIsEmptyAndValidate(t *testing.T) {
	assert.True(t, Patch{}.IsEmpty())

	bad := Type("gift")
	assert.ErrorIs(t, Patch{Type: &bad}.Validate(fixedNow), ErrInvalidType)

	date := "2027-01-01"
	assert.ErrorIs(t, Patch{Date: &date}.Validate(fixedNow), ErrFutureDate)

	amount := decimal.NewFromFloat(9.5)
	p := Patch{Amount: &amount}
	assert.False(t, p.IsEmpty())
	assert.NoError(t, p.Validate(fixedNow))
}

func TestTransactionJSONShape(t *testing.T) {
	tx := Transaction{
		ID:       1,
		Title:    "Coffee",
		Amount:   decimal.NewFromInt(5),
		Type:     Expense,
		Category: CategoryFood,
		Date:     "2026-03-01",
	}
	b, err := json.Marshal(tx)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":1,"title":"Coffee","amount":5,"type":"expense","category":"Food & Grocery","date":"2026-03-01","notes":""}`, string(b))
}

func TestTransactionDecodesNumericStrings(t *testing.T) {
	var tx Transaction
	require.NoError(t, json.Unmarshal([]byte(`{"id":4,"amount":"64.20","type":"expense"}`), &tx))
	assert.True(t, tx.Amount.Equal(decimal.RequireFromString("64.2")))

	err := json.Unmarshal([]byte(`{"id":4,"amount":"lots","type":"expense"}`), &tx)
	assert.Error(t, err, "non-numeric amounts must not decode")
}

func TestValidateUserName(t *testing.T) {
	assert.NoError(t, ValidateUserName("alice"))
	assert.ErrorIs(t, ValidateUserName("al"), ErrInvalidName)
	assert.ErrorIs(t, ValidateUserName("abcdefghijklmnopqrstu"), ErrInvalidName)
}

func TestToday(t *testing.T) {
	assert.Equal(t, "2026-03-15", Today(fixedNow))
}
