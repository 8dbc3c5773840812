// Package export produces the one-way export snapshot of a ledger.
//
// Exports are never read back by the application: they go to a file, an HTTP
// download or a message broker for other tools to consume.
package export

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/shopspring/decimal"

	"saldo/internal/core"
	"saldo/internal/storage"
)

// Snapshot is the exported document.
type Snapshot struct {
	Transactions   []storage.TransactionRecord `json:"transactions"`
	InitialBalance decimal.Decimal             `json:"initialBalance"`
	InitialDate    string                      `json:"initialDate,omitempty"`
	ExportDate     time.Time                   `json:"exportDate"`
	AppVersion     string                      `json:"appVersion"`
}

// Publisher ships a snapshot to an external consumer.
type Publisher interface {
	PublishExport(ctx context.Context, s Snapshot) error
}

// Build captures l at now. Transactions keep their insertion order.
func Build(l core.Ledger, now time.Time, version string) Snapshot {
	rec := storage.NewLedgerRecord(l)
	return Snapshot{
		Transactions:   rec.Transactions,
		InitialBalance: rec.InitialBalance,
		InitialDate:    rec.InitialDate,
		ExportDate:     now.UTC(),
		AppVersion:     version,
	}
}

// Encode writes s as indented JSON.
func Encode(w io.Writer, s Snapshot) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(s); err != nil {
		return fmt.Errorf("encode export: %w", err)
	}
	return nil
}

// WriteFile atomically writes s to path.
func WriteFile(path string, s Snapshot) error {
	return storage.WriteFileAtomic(path, func(w io.Writer) error {
		return Encode(w, s)
	})
}

// FileName is the suggested name of an export taken at now.
func FileName(now time.Time) string {
	return fmt.Sprintf("saldo-export-%s.json", now.UTC().Format("2006-01-02T150405Z"))
}
