package storage

import (
	"context"
	"errors"

	"saldo/internal/core"
)

// ErrCorrupt marks a persisted snapshot that cannot be decoded into a ledger.
var ErrCorrupt = errors.New("corrupt ledger record")

// Ports for persistence adapters. A store holds exactly one ledger snapshot
// and every Save overwrites it completely.
type (
	LedgerLoader interface {
		// Load returns the last saved snapshot, or an empty ledger when
		// nothing was saved yet.
		Load(ctx context.Context) (core.Ledger, error)
	}

	LedgerSaver interface {
		Save(ctx context.Context, l core.Ledger) error
	}

	LedgerStore interface {
		LedgerLoader
		LedgerSaver
	}
)
