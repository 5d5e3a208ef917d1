// Package report serializes monthly summaries to JSON files.
package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/shopspring/decimal"

	"spendscope/internal/core"
)

type summaryPayload struct {
	Month        string             `json:"month"`
	IncomeTotal  float64            `json:"income_total"`
	ExpenseTotal float64            `json:"expense_total"`
	NetTotal     float64            `json:"net_total"`
	ByCategory   map[string]float64 `json:"by_category"`
}

// EnsureDir makes sure the report output directory exists and returns
// its absolute path.
func EnsureDir(dir string) (string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolve reports directory: %w", err)
	}
	if err := os.MkdirAll(abs, 0755); err != nil {
		return "", fmt.Errorf("create reports directory: %w", err)
	}
	return abs, nil
}

// WriteMonthlySummary writes one summary as summary_<YYYY-MM>.json in
// dir and returns the file path.
func WriteMonthlySummary(dir string, s core.Summary) (string, error) {
	payload := summaryPayload{
		Month:      s.Month,
		ByCategory: make(map[string]float64, len(s.ByCategory)),
	}
	payload.IncomeTotal, _ = s.IncomeTotal.Float64()
	payload.ExpenseTotal, _ = s.ExpenseTotal.Float64()
	payload.NetTotal, _ = s.NetTotal.Float64()
	for _, ct := range s.ByCategory {
		payload.ByCategory[ct.Category], _ = ct.Total.Float64()
	}

	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode summary: %w", err)
	}

	path := filepath.Join(dir, fmt.Sprintf("summary_%s.json", s.Month))
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("write summary: %w", err)
	}
	return path, nil
}

// ReadMonthlySummary reads a summary file back, restoring the
// by-category display order (descending total, category name ascending).
func ReadMonthlySummary(path string) (core.Summary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return core.Summary{}, fmt.Errorf("read summary: %w", err)
	}

	var payload summaryPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return core.Summary{}, fmt.Errorf("decode summary: %w", err)
	}
	if _, err := core.ValidateMonth(payload.Month); err != nil {
		return core.Summary{}, fmt.Errorf("decode summary: %w", err)
	}

	byCategory := make([]core.CategoryTotal, 0, len(payload.ByCategory))
	for category, total := range payload.ByCategory {
		byCategory = append(byCategory, core.CategoryTotal{
			Category: category,
			Total:    decimal.NewFromFloat(total),
		})
	}
	sort.Slice(byCategory, func(i, j int) bool {
		if c := byCategory[i].Total.Cmp(byCategory[j].Total); c != 0 {
			return c > 0
		}
		return byCategory[i].Category < byCategory[j].Category
	})

	return core.Summary{
		Month:        payload.Month,
		IncomeTotal:  decimal.NewFromFloat(payload.IncomeTotal),
		ExpenseTotal: decimal.NewFromFloat(payload.ExpenseTotal),
		NetTotal:     decimal.NewFromFloat(payload.NetTotal),
		ByCategory:   byCategory,
	}, nil
}
