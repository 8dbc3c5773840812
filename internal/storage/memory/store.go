package memory

import (
	"context"
	"sync"

	"saldo/internal/core"
)

// Store keeps the snapshot in process memory. Nothing survives a restart.
type Store struct {
	mu     sync.Mutex
	ledger core.Ledger
	saves  int
}

func New() *Store {
	return &Store{}
}

// NewWithLedger returns a store preloaded with l.
func NewWithLedger(l core.Ledger) *Store {
	return &Store{ledger: clone(l)}
}

// Load implements storage.LedgerLoader.
func (s *Store) Load(_ context.Context) (core.Ledger, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return clone(s.ledger), nil
}

// Save implements storage.LedgerSaver.
func (s *Store) Save(ctx context.Context, l core.Ledger) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ledger = clone(l)
	s.saves++
	return nil
}

// Saves returns how many snapshots were written.
func (s *Store) Saves() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saves
}

func clone(l core.Ledger) core.Ledger {
	if l.Transactions != nil {
		l.Transactions = append([]core.Transaction(nil), l.Transactions...)
	}
	return l
}
