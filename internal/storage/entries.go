// Package storage persists manual transaction entries and budget
// settings as flat JSON snapshots on disk.
package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"spendscope/internal/core"
)

// Entry is a manually recorded transaction. The ID lets callers remove
// a specific entry without relying on list positions.
type Entry struct {
	ID          string
	Transaction core.Transaction
}

type entryPayload struct {
	ID          string  `json:"id"`
	PostedDate  string  `json:"posted_date"`
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
}

// EntryStore keeps manual entries in memory and snapshots them to a
// single JSON file. Safe for concurrent use.
type EntryStore struct {
	mu      sync.Mutex
	path    string
	entries []Entry
}

// NewEntryStore opens the store backed by the given file. A missing
// file is not an error; the store starts empty.
func NewEntryStore(path string) (*EntryStore, error) {
	s := &EntryStore{path: path}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *EntryStore) load() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read manual entries: %w", err)
	}

	var payload []entryPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return fmt.Errorf("decode manual entries: %w", err)
	}

	entries := make([]Entry, 0, len(payload))
	for _, p := range payload {
		posted, err := time.Parse("2006-01-02", p.PostedDate)
		if err != nil {
			return fmt.Errorf("decode manual entries: invalid date %q: %w", p.PostedDate, core.ErrInvalidDate)
		}
		id := p.ID
		if id == "" {
			// Entries written by older snapshots had no ids.
			id = uuid.NewString()
		}
		entries = append(entries, Entry{
			ID: id,
			Transaction: core.Transaction{
				PostedDate:  core.Date{Time: posted},
				Description: p.Description,
				Amount:      decimal.NewFromFloat(p.Amount),
			},
		})
	}

	s.entries = entries
	return nil
}

func (s *EntryStore) save() error {
	payload := make([]entryPayload, 0, len(s.entries))
	for _, e := range s.entries {
		amount, _ := e.Transaction.Amount.Float64()
		payload = append(payload, entryPayload{
			ID:          e.ID,
			PostedDate:  e.Transaction.PostedDate.String(),
			Description: e.Transaction.Description,
			Amount:      amount,
		})
	}

	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return fmt.Errorf("encode manual entries: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("create data directory: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0644); err != nil {
		return fmt.Errorf("write manual entries: %w", err)
	}
	return nil
}

// Add validates, stores and persists a manual transaction, returning
// the generated entry id.
func (s *EntryStore) Add(txn core.Transaction) (string, error) {
	if err := txn.Validate(); err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	entry := Entry{ID: uuid.NewString(), Transaction: txn}
	s.entries = append(s.entries, entry)
	if err := s.save(); err != nil {
		s.entries = s.entries[:len(s.entries)-1]
		return "", err
	}
	return entry.ID, nil
}

// Remove deletes the entry with the given id and persists the change.
func (s *EntryStore) Remove(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, e := range s.entries {
		if e.ID == id {
			s.entries = append(s.entries[:i], s.entries[i+1:]...)
			return s.save()
		}
	}
	return fmt.Errorf("manual entry %q not found", id)
}

// Entries returns a copy of all stored entries in insertion order.
func (s *EntryStore) Entries() []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Entry(nil), s.entries...)
}

// Transactions returns the stored transactions in insertion order,
// ready to append to a statement load.
func (s *EntryStore) Transactions() []core.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()

	txns := make([]core.Transaction, 0, len(s.entries))
	for _, e := range s.entries {
		txns = append(txns, e.Transaction)
	}
	return txns
}
