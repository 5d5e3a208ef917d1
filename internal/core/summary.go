package core

import (
	"sort"

	"github.com/shopspring/decimal"
)

// BuildMonthlySummary buckets transactions by calendar month and produces
// one Summary per month. Income and expense totals accumulate at full
// precision and are rounded to two decimals only when placed into the
// Summary. Zero-amount transactions contribute to neither side.
//
// ByCategory is ordered by descending total; equal totals fall back to
// category name ascending so the ordering is stable across runs.
func BuildMonthlySummary(transactions []Transaction, rules []CategoryRule) map[string]Summary {
	type monthAccum struct {
		income     decimal.Decimal
		expenses   decimal.Decimal
		byCategory map[string]decimal.Decimal
		catOrder   []string
	}

	buckets := make(map[string]*monthAccum)

	for _, txn := range transactions {
		key := txn.PostedDate.MonthKey()
		acc, ok := buckets[key]
		if !ok {
			acc = &monthAccum{byCategory: make(map[string]decimal.Decimal)}
			buckets[key] = acc
		}

		switch {
		case txn.IsIncome():
			acc.income = acc.income.Add(txn.Amount)
		case txn.IsExpense():
			spent := txn.Magnitude()
			acc.expenses = acc.expenses.Add(spent)

			cat := CategorizeTransaction(txn, rules)
			if _, seen := acc.byCategory[cat]; !seen {
				acc.catOrder = append(acc.catOrder, cat)
			}
			acc.byCategory[cat] = acc.byCategory[cat].Add(spent)
		}
	}

	results := make(map[string]Summary, len(buckets))

	for month, acc := range buckets {
		byCategory := make([]CategoryTotal, 0, len(acc.byCategory))
		for _, cat := range acc.catOrder {
			byCategory = append(byCategory, CategoryTotal{
				Category: cat,
				Total:    acc.byCategory[cat].Round(2),
			})
		}
		sort.Slice(byCategory, func(i, j int) bool {
			if c := byCategory[i].Total.Cmp(byCategory[j].Total); c != 0 {
				return c > 0
			}
			return byCategory[i].Category < byCategory[j].Category
		})

		results[month] = Summary{
			Month:        month,
			IncomeTotal:  acc.income.Round(2),
			ExpenseTotal: acc.expenses.Round(2),
			NetTotal:     acc.income.Sub(acc.expenses).Round(2),
			ByCategory:   byCategory,
		}
	}

	return results
}

// SortedMonths returns the month keys of a summary map in ascending
// order, which is chronological for well-formed YYYY-MM keys.
func SortedMonths(summaries map[string]Summary) []string {
	months := make([]string, 0, len(summaries))
	for month := range summaries {
		months = append(months, month)
	}
	sort.Strings(months)
	return months
}
