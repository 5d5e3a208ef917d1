package core

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
)

func TestDetectUnusualSpending_FlagsLargeOutlier(t *testing.T) {
	// Groceries average lands at 80; only the 200 crosses 2.5x.
	txns := []Transaction{
		txn(2026, 1, 1, "Whole Foods", "-35.00"),
		txn(2026, 1, 2, "Whole Foods", "-45.00"),
		txn(2026, 1, 3, "Whole Foods", "-40.00"),
		txn(2026, 1, 4, "Whole Foods", "-200.00"),
	}

	alerts := DetectUnusualSpending(txns, DefaultRules(), DefaultDetectorParams())

	jan := alerts["2026-01"]
	if len(jan) != 1 {
		t.Fatalf("got %d alerts for 2026-01, want 1: %+v", len(jan), jan)
	}

	a := jan[0]
	if !a.Amount.Equal(decimal.RequireFromString("200.00")) {
		t.Errorf("Amount = %s, want 200.00", a.Amount)
	}
	if a.Category != "Groceries" {
		t.Errorf("Category = %q, want Groceries", a.Category)
	}
	if a.Merchant != "WHOLE FOODS" {
		t.Errorf("Merchant = %q, want WHOLE FOODS", a.Merchant)
	}
	if a.Month != "2026-01" {
		t.Errorf("Month = %q, want 2026-01", a.Month)
	}
	if !strings.Contains(a.Reason, "80.00") {
		t.Errorf("Reason = %q, want the bucket average 80.00 mentioned", a.Reason)
	}
}

func TestDetectUnusualSpending_MinSamplesBoundary(t *testing.T) {
	// Two entries only; the 900 would be flagged in any bigger bucket.
	txns := []Transaction{
		txn(2026, 1, 1, "Whole Foods", "-30.00"),
		txn(2026, 1, 2, "Whole Foods", "-900.00"),
	}

	alerts := DetectUnusualSpending(txns, DefaultRules(), DefaultDetectorParams())
	if len(alerts["2026-01"]) != 0 {
		t.Errorf("bucket below MinSamples produced alerts: %+v", alerts["2026-01"])
	}
}

func TestDetectUnusualSpending_InclusiveThresholds(t *testing.T) {
	// Bucket sums to 60 over 3 entries: average 20. The 50 sits exactly
	// at MinAmount and exactly at 2.5x the average, and must be flagged.
	txns := []Transaction{
		txn(2026, 1, 1, "Hardware Store", "-5.00"),
		txn(2026, 1, 2, "Hardware Store", "-5.00"),
		txn(2026, 1, 3, "Hardware Store", "-50.00"),
	}

	alerts := DetectUnusualSpending(txns, DefaultRules(), DefaultDetectorParams())
	jan := alerts["2026-01"]
	if len(jan) != 1 {
		t.Fatalf("got %d alerts, want 1 (thresholds are inclusive)", len(jan))
	}
	if !jan[0].Amount.Equal(decimal.RequireFromString("50.00")) {
		t.Errorf("Amount = %s, want 50.00", jan[0].Amount)
	}
}

func TestDetectUnusualSpending_IncomeAndZeroExcluded(t *testing.T) {
	txns := []Transaction{
		txn(2026, 1, 1, "Salary", "5000.00"),
		txn(2026, 1, 2, "STARBUCKS", "0"),
		txn(2026, 1, 3, "Whole Foods", "-30.00"),
		txn(2026, 1, 4, "Whole Foods", "-30.00"),
		txn(2026, 1, 5, "Whole Foods", "-30.00"),
	}

	alerts := DetectUnusualSpending(txns, DefaultRules(), DefaultDetectorParams())
	if len(alerts["2026-01"]) != 0 {
		t.Errorf("got alerts %+v, want none", alerts["2026-01"])
	}
}

func TestDetectUnusualSpending_AlertsKeepInputOrder(t *testing.T) {
	// Two spikes in the same bucket; both flagged, in input order.
	txns := []Transaction{
		txn(2026, 1, 9, "Whole Foods", "-300.00"),
		txn(2026, 1, 1, "Whole Foods", "-10.00"),
		txn(2026, 1, 2, "Whole Foods", "-10.00"),
		txn(2026, 1, 3, "Whole Foods", "-10.00"),
		txn(2026, 1, 4, "Whole Foods", "-10.00"),
		txn(2026, 1, 5, "Whole Foods", "-10.00"),
		txn(2026, 1, 6, "Whole Foods", "-10.00"),
		txn(2026, 1, 7, "Whole Foods", "-10.00"),
		txn(2026, 1, 2, "Whole Foods", "-290.00"),
	}

	alerts := DetectUnusualSpending(txns, DefaultRules(), DefaultDetectorParams())
	jan := alerts["2026-01"]
	if len(jan) != 2 {
		t.Fatalf("got %d alerts, want 2: %+v", len(jan), jan)
	}
	if !jan[0].Amount.Equal(decimal.NewFromInt(300)) || !jan[1].Amount.Equal(decimal.NewFromInt(290)) {
		t.Errorf("alert order = [%s %s], want [300 290]", jan[0].Amount, jan[1].Amount)
	}
}

func TestDetectUnusualSpending_CustomParams(t *testing.T) {
	txns := []Transaction{
		txn(2026, 1, 1, "Whole Foods", "-35.00"),
		txn(2026, 1, 2, "Whole Foods", "-45.00"),
		txn(2026, 1, 3, "Whole Foods", "-40.00"),
		txn(2026, 1, 4, "Whole Foods", "-200.00"),
	}

	// Raising the floor above the spike silences the detector.
	params := DefaultDetectorParams()
	params.MinAmount = decimal.NewFromInt(250)

	alerts := DetectUnusualSpending(txns, DefaultRules(), params)
	if len(alerts["2026-01"]) != 0 {
		t.Errorf("got alerts %+v, want none with MinAmount=250", alerts["2026-01"])
	}
}

func TestDetectUnusualSpending_EmptyInput(t *testing.T) {
	alerts := DetectUnusualSpending(nil, DefaultRules(), DefaultDetectorParams())
	if alerts == nil {
		t.Fatal("DetectUnusualSpending(nil) returned nil map")
	}
	if len(alerts) != 0 {
		t.Errorf("got %d months with alerts, want 0", len(alerts))
	}
}

func TestDetectUnusualSpending_Idempotent(t *testing.T) {
	txns := []Transaction{
		txn(2026, 1, 1, "Whole Foods", "-35.00"),
		txn(2026, 1, 2, "Whole Foods", "-45.00"),
		txn(2026, 1, 3, "Whole Foods", "-40.00"),
		txn(2026, 1, 4, "Whole Foods", "-200.00"),
	}

	first := DetectUnusualSpending(txns, DefaultRules(), DefaultDetectorParams())
	second := DetectUnusualSpending(txns, DefaultRules(), DefaultDetectorParams())
	if len(first["2026-01"]) != len(second["2026-01"]) {
		t.Fatalf("repeated detection differs: %d vs %d alerts", len(first["2026-01"]), len(second["2026-01"]))
	}
	for i := range first["2026-01"] {
		a, b := first["2026-01"][i], second["2026-01"][i]
		if !a.Amount.Equal(b.Amount) || a.Category != b.Category || a.Merchant != b.Merchant || a.Reason != b.Reason {
			t.Errorf("alert %d differs between runs: %+v vs %+v", i, a, b)
		}
	}
}
