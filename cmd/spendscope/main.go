package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"spendscope/internal/cli"
	"spendscope/internal/config"
	"spendscope/internal/core"
	"spendscope/internal/ingest"
	"spendscope/internal/log"
	"spendscope/internal/report"
	"spendscope/internal/storage"
)

const usage = `Usage: spendscope <command> [options]

Commands:
  preview  <statement.csv...>   show parsed transactions
  summary  [-month YYYY-MM] [-no-entries] <statement.csv...>
                                monthly income/expense/net summaries
  alerts   [-month YYYY-MM] [-no-entries] <statement.csv...>
                                unusual-spending alerts
  report   [-month YYYY-MM] [-no-entries] <statement.csv...>
                                write summary JSON files to the reports dir
  add      -date YYYY-MM-DD -desc TEXT -amount N
                                record a manual entry
  entries                       list manual entries
  remove   -id ID               delete a manual entry
  budget   [show|set] ...       budget targets and progress
`

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(os.Getenv("LOG_LEVEL"))
	cfg := cli.LoadAndValidateConfig(logger)

	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	ctx := context.Background()
	args := os.Args[2:]

	var err error
	switch os.Args[1] {
	case "preview":
		err = runPreview(ctx, cfg, logger, args)
	case "summary":
		err = runSummary(ctx, cfg, logger, args)
	case "alerts":
		err = runAlerts(ctx, cfg, logger, args)
	case "report":
		err = runReport(ctx, cfg, logger, args)
	case "add":
		err = runAdd(cfg, logger, args)
	case "entries":
		err = runEntries(cfg, logger)
	case "remove":
		err = runRemove(cfg, logger, args)
	case "budget":
		err = runBudget(ctx, cfg, logger, args)
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n%s", os.Args[1], usage)
		os.Exit(2)
	}

	if err != nil {
		logger.Error("Command failed", log.FieldOperation, os.Args[1], log.FieldError, err)
		os.Exit(1)
	}
}

// analysisFlags are shared by every command that reads statements.
type analysisFlags struct {
	fs        *flag.FlagSet
	month     *string
	noEntries *bool
}

func newAnalysisFlags(name string) analysisFlags {
	fs := flag.NewFlagSet(name, flag.ExitOnError)
	return analysisFlags{
		fs:        fs,
		month:     fs.String("month", "", "only show the given month (YYYY-MM)"),
		noEntries: fs.Bool("no-entries", false, "ignore stored manual entries"),
	}
}

// loadTransactions reads the statement files named on the command line
// and appends the stored manual entries unless -no-entries was given.
func loadTransactions(ctx context.Context, cfg *config.Config, logger *log.Logger, f analysisFlags) ([]core.Transaction, error) {
	paths := f.fs.Args()
	if len(paths) == 0 && *f.noEntries {
		return nil, fmt.Errorf("no statement files given")
	}

	txns, err := ingest.LoadFiles(ctx, paths)
	if err != nil {
		return nil, err
	}

	if !*f.noEntries {
		store := cli.OpenEntryStore(logger, cfg.EntriesFile)
		txns = append(txns, store.Transactions()...)
	}

	logger.Debug("Loaded transactions", log.FieldTransactions, len(txns))
	return txns, nil
}

func monthFilter(f analysisFlags) (string, error) {
	if *f.month == "" {
		return "", nil
	}
	return core.ValidateMonth(*f.month)
}

func runPreview(ctx context.Context, cfg *config.Config, logger *log.Logger, args []string) error {
	f := newAnalysisFlags("preview")
	if err := f.fs.Parse(args); err != nil {
		return err
	}

	txns, err := loadTransactions(ctx, cfg, logger, f)
	if err != nil {
		return err
	}

	fmt.Printf("Loaded: %d transactions\n", len(txns))
	limit := len(txns)
	if limit > 10 {
		limit = 10
	}
	for _, t := range txns[:limit] {
		merchant := core.NormalizeDescription(t.Description)
		category := core.CategorizeTransaction(t, core.DefaultRules())
		fmt.Printf("- %s | %9s | %-14s | %-20s | %s\n",
			t.PostedDate, t.Amount.StringFixed(2), category, merchant, t.Description)
	}
	return nil
}

func runSummary(ctx context.Context, cfg *config.Config, logger *log.Logger, args []string) error {
	f := newAnalysisFlags("summary")
	if err := f.fs.Parse(args); err != nil {
		return err
	}
	month, err := monthFilter(f)
	if err != nil {
		return err
	}

	txns, err := loadTransactions(ctx, cfg, logger, f)
	if err != nil {
		return err
	}

	summaries := core.BuildMonthlySummary(txns, core.DefaultRules())
	for _, key := range core.SortedMonths(summaries) {
		if month != "" && key != month {
			continue
		}
		printSummary(summaries[key])
	}
	return nil
}

func printSummary(s core.Summary) {
	fmt.Printf("%s\n", s.Month)
	fmt.Printf("  Income:   %s\n", s.IncomeTotal.StringFixed(2))
	fmt.Printf("  Expenses: %s\n", s.ExpenseTotal.StringFixed(2))
	fmt.Printf("  Net:      %s\n", s.NetTotal.StringFixed(2))
	if len(s.ByCategory) > 0 {
		fmt.Println("  Spending by category:")
		for _, ct := range s.ByCategory {
			fmt.Printf("    - %s: %s\n", ct.Category, ct.Total.StringFixed(2))
		}
	}
	fmt.Println()
}

func runAlerts(ctx context.Context, cfg *config.Config, logger *log.Logger, args []string) error {
	f := newAnalysisFlags("alerts")
	if err := f.fs.Parse(args); err != nil {
		return err
	}
	month, err := monthFilter(f)
	if err != nil {
		return err
	}

	txns, err := loadTransactions(ctx, cfg, logger, f)
	if err != nil {
		return err
	}

	alerts := core.DetectUnusualSpending(txns, core.DefaultRules(), core.DetectorParams{
		Multiplier: cfg.OutlierMultiplier,
		MinAmount:  cfg.OutlierMinAmount,
		MinSamples: cfg.OutlierMinSamples,
	})

	alertCount := 0
	for _, monthAlerts := range alerts {
		alertCount += len(monthAlerts)
	}
	logger.Debug("Detection finished", log.FieldAlerts, alertCount,
		log.FieldTransactions, len(txns))

	total := 0
	for _, key := range sortedAlertMonths(alerts) {
		if month != "" && key != month {
			continue
		}
		for _, a := range alerts[key] {
			fmt.Printf("%s | %-14s | %-20s | %9s | %s\n",
				a.PostedDate, a.Category, a.Merchant, a.Amount.StringFixed(2), a.Reason)
			total++
		}
	}
	if total == 0 {
		fmt.Println("No unusual spending found.")
	}
	return nil
}

func sortedAlertMonths(alerts map[string][]core.Alert) []string {
	months := make([]string, 0, len(alerts))
	for month := range alerts {
		months = append(months, month)
	}
	sort.Strings(months)
	return months
}

func runReport(ctx context.Context, cfg *config.Config, logger *log.Logger, args []string) error {
	f := newAnalysisFlags("report")
	if err := f.fs.Parse(args); err != nil {
		return err
	}
	month, err := monthFilter(f)
	if err != nil {
		return err
	}

	txns, err := loadTransactions(ctx, cfg, logger, f)
	if err != nil {
		return err
	}

	dir, err := report.EnsureDir(cfg.ReportsDir)
	if err != nil {
		return err
	}

	summaries := core.BuildMonthlySummary(txns, core.DefaultRules())
	for _, key := range core.SortedMonths(summaries) {
		if month != "" && key != month {
			continue
		}
		path, err := report.WriteMonthlySummary(dir, summaries[key])
		if err != nil {
			return err
		}
		logger.Info("Wrote monthly report", log.FieldMonth, key, log.FieldPath, path)
		fmt.Println(path)
	}
	return nil
}

func runAdd(cfg *config.Config, logger *log.Logger, args []string) error {
	fs := flag.NewFlagSet("add", flag.ExitOnError)
	date := fs.String("date", "", "posting date (YYYY-MM-DD)")
	desc := fs.String("desc", "", "transaction description")
	amount := fs.String("amount", "", "signed amount (negative = expense)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	posted, err := time.Parse("2006-01-02", *date)
	if err != nil {
		return fmt.Errorf("invalid -date %q: %w", *date, core.ErrInvalidDate)
	}
	value, err := decimal.NewFromString(strings.TrimSpace(*amount))
	if err != nil {
		return fmt.Errorf("invalid -amount %q: %w", *amount, core.ErrInvalidAmount)
	}

	store := cli.OpenEntryStore(logger, cfg.EntriesFile)
	id, err := store.Add(core.Transaction{
		PostedDate:  core.Date{Time: posted},
		Description: *desc,
		Amount:      value,
	})
	if err != nil {
		return err
	}

	logger.Info("Manual entry saved", log.FieldEntryID, id, log.FieldAmount, value.StringFixed(2))
	fmt.Println(id)
	return nil
}

func runEntries(cfg *config.Config, logger *log.Logger) error {
	store := cli.OpenEntryStore(logger, cfg.EntriesFile)

	entries := store.Entries()
	if len(entries) == 0 {
		fmt.Println("No manual entries.")
		return nil
	}
	for _, e := range entries {
		fmt.Printf("%s | %s | %9s | %s\n",
			e.ID, e.Transaction.PostedDate, e.Transaction.Amount.StringFixed(2), e.Transaction.Description)
	}
	return nil
}

func runRemove(cfg *config.Config, logger *log.Logger, args []string) error {
	fs := flag.NewFlagSet("remove", flag.ExitOnError)
	id := fs.String("id", "", "entry id to delete")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *id == "" {
		return fmt.Errorf("-id is required")
	}

	store := cli.OpenEntryStore(logger, cfg.EntriesFile)
	if err := store.Remove(*id); err != nil {
		return err
	}
	logger.Info("Manual entry removed", log.FieldEntryID, *id)
	return nil
}

func runBudget(ctx context.Context, cfg *config.Config, logger *log.Logger, args []string) error {
	if len(args) > 0 && args[0] == "set" {
		return runBudgetSet(cfg, args[1:])
	}
	if len(args) > 0 && args[0] == "show" {
		args = args[1:]
	}
	return runBudgetShow(ctx, cfg, logger, args)
}

func runBudgetSet(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("budget set", flag.ExitOnError)
	income := fs.String("income", "", "monthly income target")
	savings := fs.String("savings", "", "monthly savings goal")
	if err := fs.Parse(args); err != nil {
		return err
	}

	store := storage.NewSettingsStore(cfg.SettingsFile)
	settings := store.Load()

	if *income != "" {
		target, err := decimal.NewFromString(*income)
		if err != nil {
			return fmt.Errorf("invalid -income %q: %w", *income, core.ErrInvalidAmount)
		}
		settings.IncomeTarget = target
	}
	if *savings != "" {
		goal, err := decimal.NewFromString(*savings)
		if err != nil {
			return fmt.Errorf("invalid -savings %q: %w", *savings, core.ErrInvalidAmount)
		}
		settings.SavingsGoal = goal
	}

	// Remaining args are Category=Amount budget assignments.
	for _, arg := range fs.Args() {
		category, raw, ok := strings.Cut(arg, "=")
		if !ok {
			return fmt.Errorf("budget assignment %q must look like Category=Amount", arg)
		}
		budget, err := decimal.NewFromString(strings.TrimSpace(raw))
		if err != nil {
			return fmt.Errorf("invalid budget for %q: %w", category, core.ErrInvalidAmount)
		}
		settings.CategoryBudgets[strings.TrimSpace(category)] = budget
	}

	return store.Save(settings)
}

func runBudgetShow(ctx context.Context, cfg *config.Config, logger *log.Logger, args []string) error {
	f := newAnalysisFlags("budget")
	if err := f.fs.Parse(args); err != nil {
		return err
	}
	month, err := monthFilter(f)
	if err != nil {
		return err
	}

	settings := storage.NewSettingsStore(cfg.SettingsFile).Load()

	fmt.Printf("Income target: %s\n", settings.IncomeTarget.StringFixed(2))
	fmt.Printf("Savings goal:  %s\n", settings.SavingsGoal.StringFixed(2))

	// Without statements there is nothing to compare against.
	if len(f.fs.Args()) == 0 && *f.noEntries {
		return nil
	}

	txns, err := loadTransactions(ctx, cfg, logger, f)
	if err != nil {
		return err
	}
	if len(txns) == 0 {
		return nil
	}

	summaries := core.BuildMonthlySummary(txns, core.DefaultRules())
	for _, key := range core.SortedMonths(summaries) {
		if month != "" && key != month {
			continue
		}
		printBudgetProgress(summaries[key], settings)
	}
	return nil
}

func printBudgetProgress(s core.Summary, settings storage.BudgetSettings) {
	fmt.Printf("\n%s\n", s.Month)
	if settings.IncomeTarget.Sign() > 0 {
		fmt.Printf("  Income:  %s of %s target\n", s.IncomeTotal.StringFixed(2), settings.IncomeTarget.StringFixed(2))
	}
	if settings.SavingsGoal.Sign() > 0 {
		fmt.Printf("  Savings: %s of %s goal\n", s.NetTotal.StringFixed(2), settings.SavingsGoal.StringFixed(2))
	}
	for _, ct := range s.ByCategory {
		budget, ok := settings.CategoryBudgets[ct.Category]
		if !ok || budget.Sign() <= 0 {
			continue
		}
		percent := ct.Total.Div(budget).Mul(decimal.NewFromInt(100)).Round(0)
		fmt.Printf("  %s: %s of %s (%s%%)\n",
			ct.Category, ct.Total.StringFixed(2), budget.StringFixed(2), percent)
	}
}
