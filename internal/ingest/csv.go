// Package ingest loads bank-statement transactions from CSV files.
// All parsing and validation failures surface here; the analysis core
// only ever sees well-formed transactions.
package ingest

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"spendscope/internal/core"
)

var (
	ErrMissingColumns = errors.New("CSV must contain columns: amount, date, description")
	ErrMissingValue   = errors.New("missing value")
)

// requiredColumns are matched against the header row case-insensitively;
// column order in the file does not matter.
var requiredColumns = []string{"date", "description", "amount"}

// Parse reads transactions from a CSV stream with a header row holding
// at least the columns date (YYYY-MM-DD), description and amount
// (signed decimal; negative = expense, positive = income).
func Parse(r io.Reader) ([]core.Transaction, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if err == io.EOF {
			return nil, ErrMissingColumns
		}
		return nil, fmt.Errorf("read CSV header: %w", err)
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, name := range requiredColumns {
		if _, ok := index[name]; !ok {
			return nil, ErrMissingColumns
		}
	}

	var txns []core.Transaction

	// Data rows start on line 2, after the header.
	for line := 2; ; line++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		txn, err := parseRecord(record, index)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		txns = append(txns, txn)
	}

	return txns, nil
}

func parseRecord(record []string, index map[string]int) (core.Transaction, error) {
	field := func(name string) string {
		i := index[name]
		if i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	rawDate := field("date")
	rawDesc := field("description")
	rawAmount := field("amount")

	if rawDate == "" || rawDesc == "" || rawAmount == "" {
		return core.Transaction{}, ErrMissingValue
	}

	posted, err := time.Parse("2006-01-02", rawDate)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("invalid date %q: %w", rawDate, core.ErrInvalidDate)
	}

	amount, err := decimal.NewFromString(rawAmount)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("invalid amount %q: %w", rawAmount, core.ErrInvalidAmount)
	}

	return core.Transaction{
		PostedDate:  core.Date{Time: posted},
		Description: rawDesc,
		Amount:      amount,
	}, nil
}

// LoadFile loads transactions from a single CSV statement file.
func LoadFile(path string) ([]core.Transaction, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open statement file: %w", err)
	}
	defer f.Close()

	txns, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return txns, nil
}

// LoadFiles loads several statement files concurrently. Results are
// concatenated in the order the paths were given, so the input-order
// guarantees of the analysis core hold across files.
func LoadFiles(ctx context.Context, paths []string) ([]core.Transaction, error) {
	results := make([][]core.Transaction, len(paths))

	g, _ := errgroup.WithContext(ctx)
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			txns, err := LoadFile(path)
			if err != nil {
				return err
			}
			results[i] = txns
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var all []core.Transaction
	for _, txns := range results {
		all = append(all, txns...)
	}
	return all, nil
}
