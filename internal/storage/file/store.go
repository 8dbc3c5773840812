// Package file stores the ledger as a single JSON document on disk.
package file

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"sync"

	"saldo/internal/core"
	"saldo/internal/storage"
)

type Store struct {
	path string
	mu   sync.Mutex
}

func New(path string) *Store {
	return &Store{path: path}
}

func (s *Store) Path() string { return s.path }

// Load implements storage.LedgerLoader. A missing file is an empty ledger.
func (s *Store) Load(ctx context.Context) (core.Ledger, error) {
	if err := ctx.Err(); err != nil {
		return core.Ledger{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return core.EmptyLedger(), nil
	}
	if err != nil {
		return core.Ledger{}, fmt.Errorf("read ledger file: %w", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return core.EmptyLedger(), nil
	}
	return storage.DecodeLedger(bytes.NewReader(data))
}

// Save implements storage.LedgerSaver by atomically replacing the file.
func (s *Store) Save(ctx context.Context, l core.Ledger) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	return storage.WriteFileAtomic(s.path, func(w io.Writer) error {
		return storage.EncodeLedger(w, l)
	})
}
