package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/shopspring/decimal"
)

// BudgetSettings hold the presentation-layer targets: expected income,
// desired savings and per-category spending budgets. They never feed
// back into aggregation.
type BudgetSettings struct {
	IncomeTarget    decimal.Decimal
	SavingsGoal     decimal.Decimal
	CategoryBudgets map[string]decimal.Decimal
}

type settingsPayload struct {
	IncomeTarget    float64            `json:"income_target"`
	SavingsGoal     float64            `json:"savings_goal"`
	CategoryBudgets map[string]float64 `json:"category_budgets"`
}

// DefaultSettings returns zeroed targets for the built-in expense
// categories.
func DefaultSettings() BudgetSettings {
	return BudgetSettings{
		IncomeTarget: decimal.Zero,
		SavingsGoal:  decimal.Zero,
		CategoryBudgets: map[string]decimal.Decimal{
			"Rent":          decimal.Zero,
			"Groceries":     decimal.Zero,
			"Coffee":        decimal.Zero,
			"Transport":     decimal.Zero,
			"Subscriptions": decimal.Zero,
			"Uncategorized": decimal.Zero,
		},
	}
}

// SettingsStore reads and writes budget settings as a JSON snapshot.
type SettingsStore struct {
	path string
}

func NewSettingsStore(path string) *SettingsStore {
	return &SettingsStore{path: path}
}

// Load returns the stored settings merged over the defaults, so known
// categories are always present. A missing or malformed file yields the
// defaults rather than an error; settings are advisory.
func (s *SettingsStore) Load() BudgetSettings {
	settings := DefaultSettings()

	data, err := os.ReadFile(s.path)
	if err != nil {
		return settings
	}

	var payload settingsPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return settings
	}

	settings.IncomeTarget = decimal.NewFromFloat(payload.IncomeTarget)
	settings.SavingsGoal = decimal.NewFromFloat(payload.SavingsGoal)
	for category, budget := range payload.CategoryBudgets {
		settings.CategoryBudgets[category] = decimal.NewFromFloat(budget)
	}

	return settings
}

// Save writes the settings snapshot, creating the data directory if
// needed.
func (s *SettingsStore) Save(settings BudgetSettings) error {
	payload := settingsPayload{
		CategoryBudgets: make(map[string]float64, len(settings.CategoryBudgets)),
	}
	payload.IncomeTarget, _ = settings.IncomeTarget.Float64()
	payload.SavingsGoal, _ = settings.SavingsGoal.Float64()
	for category, budget := range settings.CategoryBudgets {
		payload.CategoryBudgets[category], _ = budget.Float64()
	}

	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("create data directory: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0644); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}
	return nil
}
