package core

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type (
	// Date is a calendar date without a time-of-day component.
	Date struct {
		time.Time
	}

	// Transaction is a single bank-statement line. Amount is signed:
	// positive for income, negative for an expense, zero for neither.
	Transaction struct {
		PostedDate  Date
		Description string
		Amount      decimal.Decimal
	}

	// Summary aggregates one calendar month of transactions.
	// ByCategory lists expense categories only, largest total first.
	Summary struct {
		Month        string
		IncomeTotal  decimal.Decimal
		ExpenseTotal decimal.Decimal
		NetTotal     decimal.Decimal
		ByCategory   []CategoryTotal
	}

	// CategoryTotal is a per-category expense total within a month.
	CategoryTotal struct {
		Category string
		Total    decimal.Decimal
	}

	// Alert flags a single expense as unusually large for its
	// (month, category) bucket.
	Alert struct {
		Month      string
		Category   string
		PostedDate Date
		Merchant   string
		Amount     decimal.Decimal
		Reason     string
	}
)

var (
	ErrInvalidDate      = errors.New("invalid date")
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrEmptyDescription = errors.New("empty description")
	ErrInvalidMonth     = errors.New("month must be in YYYY-MM format (example: 2026-01)")
)

var monthKeyRe = regexp.MustCompile(`^\d{4}-\d{2}$`)

// NewDate creates a Date from year, month and day.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

// MonthKey returns the canonical "YYYY-MM" bucket key for the date.
func (d Date) MonthKey() string {
	return fmt.Sprintf("%04d-%02d", d.Year(), int(d.Month()))
}

// String renders the date as YYYY-MM-DD.
func (d Date) String() string {
	return d.Format("2006-01-02")
}

// ValidateMonth checks a month key in the form YYYY-MM and returns the
// trimmed key if valid.
func ValidateMonth(month string) (string, error) {
	month = strings.TrimSpace(month)
	if !monthKeyRe.MatchString(month) {
		return "", ErrInvalidMonth
	}
	return month, nil
}

func (t Transaction) Validate() error {
	if err := t.PostedDate.Validate(); err != nil {
		return err
	}
	if len(strings.TrimSpace(t.Description)) == 0 {
		return ErrEmptyDescription
	}
	return nil
}

// IsIncome reports whether the transaction counts as income (amount > 0).
func (t Transaction) IsIncome() bool {
	return t.Amount.Sign() > 0
}

// IsExpense reports whether the transaction counts as an expense
// (amount < 0). Zero-amount transactions are neither income nor expense.
func (t Transaction) IsExpense() bool {
	return t.Amount.Sign() < 0
}

// Magnitude returns the absolute value of the transaction amount.
func (t Transaction) Magnitude() decimal.Decimal {
	return t.Amount.Abs()
}
