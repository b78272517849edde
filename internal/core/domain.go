package core

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	Income  Type = "income"
	Expense Type = "expense"
)

// DateLayout is the calendar-date format used for every stored date.
const DateLayout = "2006-01-02"

type (
	Type string

	// Transaction is a single recorded money movement. Amount is always a
	// non-negative magnitude; direction is carried by Type.
	Transaction struct {
		ID       int64           `json:"id"`
		Title    string          `json:"title"`
		Amount   decimal.Decimal `json:"amount"`
		Type     Type            `json:"type"`
		Category string          `json:"category"`
		Date     string          `json:"date"`
		Notes    string          `json:"notes"`
	}

	// Input is a transaction as supplied by a caller, before an id is assigned.
	// An empty Date is replaced by the current calendar date on add.
	Input struct {
		Title    string          `json:"title"`
		Amount   decimal.Decimal `json:"amount"`
		Type     Type            `json:"type"`
		Category string          `json:"category"`
		Date     string          `json:"date,omitempty"`
		Notes    string          `json:"notes,omitempty"`
	}

	// Patch holds the fields of a shallow update. Nil fields are left untouched.
	Patch struct {
		Title    *string          `json:"title,omitempty"`
		Amount   *decimal.Decimal `json:"amount,omitempty"`
		Type     *Type            `json:"type,omitempty"`
		Category *string          `json:"category,omitempty"`
		Date     *string          `json:"date,omitempty"`
		Notes    *string          `json:"notes,omitempty"`
	}

	// User is the display-only session marker.
	User struct {
		Name string `json:"name"`
	}
)

var (
	ErrInvalidType   = errors.New("invalid transaction type")
	ErrInvalidDate   = errors.New("invalid date")
	ErrInvalidAmount = errors.New("invalid amount")
	ErrEmptyTitle    = errors.New("empty title")
	ErrShortTitle    = errors.New("title too short (min 2 characters)")
	ErrFutureDate    = errors.New("date cannot be in the future")
	ErrInvalidName   = errors.New("name must be between 3 and 20 characters")
)

func (t Type) Valid() bool {
	return t == Income || t == Expense
}

func (t Type) String() string {
	return string(t)
}

// ParseType accepts "income" or "expense" in any case.
func ParseType(s string) (Type, error) {
	t := Type(strings.ToLower(strings.TrimSpace(s)))
	if !t.Valid() {
		return "", ErrInvalidType
	}
	return t, nil
}

// Transaction builds the stored record for the given id.
func (in Input) Transaction(id int64) Transaction {
	return Transaction{
		ID:       id,
		Title:    in.Title,
		Amount:   in.Amount,
		Type:     in.Type,
		Category: in.Category,
		Date:     in.Date,
		Notes:    in.Notes,
	}
}

// Validate applies the form rules used by the entry screens. The repository
// never calls it; callers that accept user input do.
func (in Input) Validate(now time.Time) error {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return ErrEmptyTitle
	}
	if len([]rune(title)) < 2 {
		return ErrShortTitle
	}
	if !in.Amount.IsPositive() {
		return ErrInvalidAmount
	}
	if !in.Type.Valid() {
		return ErrInvalidType
	}
	if in.Date != "" {
		if _, err := ParseDate(in.Date); err != nil {
			return err
		}
		if in.Date > Today(now) {
			return ErrFutureDate
		}
	}
	return nil
}

// Apply returns t with every non-nil field of p merged over it. The id is
// never changed.
func (p Patch) Apply(t Transaction) Transaction {
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Amount != nil {
		t.Amount = *p.Amount
	}
	if p.Type != nil {
		t.Type = *p.Type
	}
	if p.Category != nil {
		t.Category = *p.Category
	}
	if p.Date != nil {
		t.Date = *p.Date
	}
	if p.Notes != nil {
		t.Notes = *p.Notes
	}
	return t
}

// IsEmpty reports whether the patch changes nothing.
func (p Patch) IsEmpty() bool {
	return p.Title == nil && p.Amount == nil && p.Type == nil &&
		p.Category == nil && p.Date == nil && p.Notes == nil
}

// Validate checks the fields present in the patch with the same rules as Input.
func (p Patch) Validate(now time.Time) error {
	if p.Title != nil {
		title := strings.TrimSpace(*p.Title)
		if title == "" {
			return ErrEmptyTitle
		}
		if len([]rune(title)) < 2 {
			return ErrShortTitle
		}
	}
	if p.Amount != nil && !p.Amount.IsPositive() {
		return ErrInvalidAmount
	}
	if p.Type != nil && !p.Type.Valid() {
		return ErrInvalidType
	}
	if p.Date != nil {
		if _, err := ParseDate(*p.Date); err != nil {
			return err
		}
		if *p.Date > Today(now) {
			return ErrFutureDate
		}
	}
	return nil
}

// ValidateUserName applies the sign-up length rule to a session name.
func ValidateUserName(name string) error {
	n := len([]rune(strings.TrimSpace(name)))
	if n < 3 || n > 20 {
		return ErrInvalidName
	}
	return nil
}

// ParseDate parses a YYYY-MM-DD calendar date.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	return t, nil
}

// FormatDate renders the calendar date of t, ignoring its time of day.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// Today returns the calendar date of now as a date string.
func Today(now time.Time) string {
	return FormatDate(now)
}
