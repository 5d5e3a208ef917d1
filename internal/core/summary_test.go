package core

import (
	"testing"

	"github.com/shopspring/decimal"
)

func requireSummary(t *testing.T, summaries map[string]Summary, month string) Summary {
	t.Helper()
	s, ok := summaries[month]
	if !ok {
		t.Fatalf("no summary for month %q (have %v)", month, SortedMonths(summaries))
	}
	return s
}

func decEqual(t *testing.T, name string, got decimal.Decimal, want string) {
	t.Helper()
	if !got.Equal(decimal.RequireFromString(want)) {
		t.Errorf("%s = %s, want %s", name, got.String(), want)
	}
}

func TestBuildMonthlySummary_Math(t *testing.T) {
	txns := []Transaction{
		txn(2026, 1, 1, "Salary", "1000.00"),
		txn(2026, 1, 2, "STARBUCKS", "-5.00"),
		txn(2026, 1, 3, "RENT", "-400.00"),
	}

	summaries := BuildMonthlySummary(txns, DefaultRules())
	s := requireSummary(t, summaries, "2026-01")

	decEqual(t, "IncomeTotal", s.IncomeTotal, "1000.00")
	decEqual(t, "ExpenseTotal", s.ExpenseTotal, "405.00")
	decEqual(t, "NetTotal", s.NetTotal, "595.00")
}

func TestBuildMonthlySummary_ByCategoryOrdering(t *testing.T) {
	txns := []Transaction{
		txn(2026, 1, 2, "STARBUCKS", "-5.00"),
		txn(2026, 1, 3, "RENT", "-400.00"),
		txn(2026, 1, 5, "WHOLE FOODS", "-60.00"),
		txn(2026, 1, 9, "STARBUCKS", "-4.00"),
	}

	s := requireSummary(t, BuildMonthlySummary(txns, DefaultRules()), "2026-01")

	want := []struct {
		category string
		total    string
	}{
		{"Rent", "400.00"},
		{"Groceries", "60.00"},
		{"Coffee", "9.00"},
	}

	if len(s.ByCategory) != len(want) {
		t.Fatalf("ByCategory has %d entries, want %d", len(s.ByCategory), len(want))
	}
	for i, w := range want {
		if s.ByCategory[i].Category != w.category {
			t.Errorf("ByCategory[%d] = %q, want %q", i, s.ByCategory[i].Category, w.category)
		}
		decEqual(t, "ByCategory total", s.ByCategory[i].Total, w.total)
	}
}

func TestBuildMonthlySummary_TiesBreakByCategoryName(t *testing.T) {
	txns := []Transaction{
		txn(2026, 3, 1, "UBER", "-25.00"),
		txn(2026, 3, 2, "NETFLIX", "-25.00"),
	}

	s := requireSummary(t, BuildMonthlySummary(txns, DefaultRules()), "2026-03")

	if len(s.ByCategory) != 2 {
		t.Fatalf("ByCategory has %d entries, want 2", len(s.ByCategory))
	}
	if s.ByCategory[0].Category != "Subscriptions" || s.ByCategory[1].Category != "Transport" {
		t.Errorf("tie order = [%s %s], want [Subscriptions Transport]",
			s.ByCategory[0].Category, s.ByCategory[1].Category)
	}
}

func TestBuildMonthlySummary_MonthsSortAscending(t *testing.T) {
	txns := []Transaction{
		txn(2026, 3, 1, "Salary", "900.00"),
		txn(2025, 12, 15, "RENT", "-400.00"),
		txn(2026, 1, 4, "STARBUCKS", "-5.00"),
	}

	months := SortedMonths(BuildMonthlySummary(txns, DefaultRules()))
	want := []string{"2025-12", "2026-01", "2026-03"}
	if len(months) != len(want) {
		t.Fatalf("got %d months, want %d", len(months), len(want))
	}
	for i := range want {
		if months[i] != want[i] {
			t.Errorf("months[%d] = %q, want %q", i, months[i], want[i])
		}
	}
}

func TestBuildMonthlySummary_NoExpenses(t *testing.T) {
	txns := []Transaction{
		txn(2026, 2, 1, "Salary", "1200.00"),
	}

	s := requireSummary(t, BuildMonthlySummary(txns, DefaultRules()), "2026-02")

	decEqual(t, "ExpenseTotal", s.ExpenseTotal, "0")
	if len(s.ByCategory) != 0 {
		t.Errorf("ByCategory has %d entries, want 0", len(s.ByCategory))
	}
}

func TestBuildMonthlySummary_ZeroAmountExcluded(t *testing.T) {
	txns := []Transaction{
		txn(2026, 2, 1, "STARBUCKS", "0"),
		txn(2026, 2, 2, "RENT", "-400.00"),
	}

	s := requireSummary(t, BuildMonthlySummary(txns, DefaultRules()), "2026-02")

	decEqual(t, "IncomeTotal", s.IncomeTotal, "0")
	decEqual(t, "ExpenseTotal", s.ExpenseTotal, "400.00")
	if len(s.ByCategory) != 1 || s.ByCategory[0].Category != "Rent" {
		t.Errorf("ByCategory = %v, want only Rent", s.ByCategory)
	}
}

func TestBuildMonthlySummary_EmptyInput(t *testing.T) {
	summaries := BuildMonthlySummary(nil, DefaultRules())
	if summaries == nil {
		t.Fatal("BuildMonthlySummary(nil) returned nil map")
	}
	if len(summaries) != 0 {
		t.Errorf("got %d summaries, want 0", len(summaries))
	}
}

func TestBuildMonthlySummary_Invariants(t *testing.T) {
	txns := []Transaction{
		txn(2026, 1, 1, "Salary", "2543.17"),
		txn(2026, 1, 2, "STARBUCKS", "-4.55"),
		txn(2026, 1, 3, "WHOLE FOODS", "-81.13"),
		txn(2026, 1, 4, "UBER", "-17.80"),
		txn(2026, 1, 9, "NETFLIX", "-15.99"),
		txn(2026, 1, 11, "HARDWARE STORE", "-42.07"),
		txn(2026, 1, 15, "Payroll Deposit", "1200.00"),
	}

	s := requireSummary(t, BuildMonthlySummary(txns, DefaultRules()), "2026-01")

	tolerance := decimal.RequireFromString("0.01")
	drift := s.IncomeTotal.Sub(s.ExpenseTotal).Sub(s.NetTotal).Abs()
	if drift.Cmp(tolerance) > 0 {
		t.Errorf("income - expense - net drift = %s, want <= %s", drift, tolerance)
	}

	catSum := decimal.Zero
	for _, ct := range s.ByCategory {
		catSum = catSum.Add(ct.Total)
	}
	catTolerance := decimal.RequireFromString("0.005").Mul(decimal.NewFromInt(int64(len(s.ByCategory))))
	if catSum.Sub(s.ExpenseTotal).Abs().Cmp(catTolerance) > 0 {
		t.Errorf("sum(ByCategory) = %s, ExpenseTotal = %s, drift beyond %s", catSum, s.ExpenseTotal, catTolerance)
	}
}

func TestBuildMonthlySummary_Idempotent(t *testing.T) {
	txns := []Transaction{
		txn(2026, 1, 1, "Salary", "1000.00"),
		txn(2026, 1, 2, "STARBUCKS", "-5.00"),
	}

	first := BuildMonthlySummary(txns, DefaultRules())
	second := BuildMonthlySummary(txns, DefaultRules())

	a := requireSummary(t, first, "2026-01")
	b := requireSummary(t, second, "2026-01")
	if !a.IncomeTotal.Equal(b.IncomeTotal) || !a.ExpenseTotal.Equal(b.ExpenseTotal) || !a.NetTotal.Equal(b.NetTotal) {
		t.Errorf("repeated aggregation differs: %+v vs %+v", a, b)
	}
}
