package core

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// DetectorParams tune unusual-spending detection. The zero value is not
// useful; start from DefaultDetectorParams. The detector does not clamp
// or validate these, so nonsensical values (a negative MinSamples flags
// every bucket) are the caller's responsibility.
type DetectorParams struct {
	// Multiplier is how many times the bucket average an expense must
	// reach before it is considered unusual.
	Multiplier decimal.Decimal

	// MinAmount is the floor below which an expense is never flagged,
	// however skewed its bucket is.
	MinAmount decimal.Decimal

	// MinSamples is the smallest bucket size worth comparing against.
	MinSamples int
}

// DefaultDetectorParams returns the standard thresholds: 2.5x the bucket
// average, at least 50.00, with at least 3 expenses in the bucket.
func DefaultDetectorParams() DetectorParams {
	return DetectorParams{
		Multiplier: decimal.NewFromFloat(2.5),
		MinAmount:  decimal.NewFromInt(50),
		MinSamples: 3,
	}
}

type bucketKey struct {
	month    string
	category string
}

type bucketStats struct {
	sum   decimal.Decimal
	count int
}

// DetectUnusualSpending flags expenses that dwarf their (month, category)
// bucket. The bucket average is the arithmetic mean of all expense
// magnitudes in the bucket, the candidate included. An expense is flagged
// iff its magnitude is at least MinAmount, at least Multiplier times the
// bucket average, and the bucket holds at least MinSamples expenses; all
// three comparisons are inclusive.
//
// Alerts are grouped by month; within a month they keep the input
// transaction order. Income and zero-amount transactions never alert.
func DetectUnusualSpending(transactions []Transaction, rules []CategoryRule, params DetectorParams) map[string][]Alert {
	stats := make(map[bucketKey]bucketStats)
	categories := make([]string, len(transactions))

	for i, txn := range transactions {
		if !txn.IsExpense() {
			continue
		}
		cat := CategorizeTransaction(txn, rules)
		categories[i] = cat

		key := bucketKey{month: txn.PostedDate.MonthKey(), category: cat}
		s := stats[key]
		s.sum = s.sum.Add(txn.Magnitude())
		s.count++
		stats[key] = s
	}

	alerts := make(map[string][]Alert)

	for i, txn := range transactions {
		if !txn.IsExpense() {
			continue
		}

		month := txn.PostedDate.MonthKey()
		key := bucketKey{month: month, category: categories[i]}
		s := stats[key]
		if s.count < params.MinSamples {
			continue
		}

		average := s.sum.Div(decimal.NewFromInt(int64(s.count)))
		magnitude := txn.Magnitude()

		if magnitude.Cmp(params.MinAmount) < 0 {
			continue
		}
		if magnitude.Cmp(params.Multiplier.Mul(average)) < 0 {
			continue
		}

		rounded := magnitude.Round(2)
		alerts[month] = append(alerts[month], Alert{
			Month:      month,
			Category:   key.category,
			PostedDate: txn.PostedDate,
			Merchant:   NormalizeDescription(txn.Description),
			Amount:     rounded,
			Reason: fmt.Sprintf("expense of %s is %s or more times the %s average of %s for %s",
				rounded.StringFixed(2), params.Multiplier.String(), key.category, average.Round(2).StringFixed(2), month),
		})
	}

	return alerts
}
