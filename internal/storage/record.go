package storage

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/shopspring/decimal"

	"saldo/internal/core"
)

// LedgerRecord is the serialized snapshot: ISO-8601 dates and decimal amounts
// in major units.
type LedgerRecord struct {
	InitialBalance decimal.Decimal     `json:"initialBalance"`
	InitialDate    string              `json:"initialDate,omitempty"`
	Transactions   []TransactionRecord `json:"transactions"`
}

type TransactionRecord struct {
	ID          string          `json:"id"`
	Type        string          `json:"type"`
	Amount      decimal.Decimal `json:"amount"`
	Date        string          `json:"date"`
	Description string          `json:"description"`
	Recurrence  string          `json:"recurrence"`
}

func NewLedgerRecord(l core.Ledger) LedgerRecord {
	rec := LedgerRecord{
		InitialBalance: l.InitialBalance.Decimal(),
		InitialDate:    l.InitialDate.String(),
		Transactions:   make([]TransactionRecord, 0, len(l.Transactions)),
	}
	for _, t := range l.Transactions {
		rec.Transactions = append(rec.Transactions, NewTransactionRecord(t))
	}
	return rec
}

func NewTransactionRecord(t core.Transaction) TransactionRecord {
	return TransactionRecord{
		ID:          t.ID,
		Type:        string(t.Kind),
		Amount:      t.Amount.Decimal(),
		Date:        t.Date.String(),
		Description: t.Description,
		Recurrence:  string(t.Recurrence),
	}
}

// Ledger decodes the record, rejecting unknown kinds and recurrences.
func (r LedgerRecord) Ledger() (core.Ledger, error) {
	l := core.Ledger{InitialBalance: core.MoneyFromDecimal(r.InitialBalance)}
	if r.InitialDate != "" {
		d, err := core.ParseDate(r.InitialDate)
		if err != nil {
			return core.Ledger{}, fmt.Errorf("%w: initial date: %v", ErrCorrupt, err)
		}
		l.InitialDate = d
	}
	if len(r.Transactions) > 0 {
		l.Transactions = make([]core.Transaction, 0, len(r.Transactions))
	}
	for i, tr := range r.Transactions {
		t, err := tr.Transaction()
		if err != nil {
			return core.Ledger{}, fmt.Errorf("transaction %d: %w", i, err)
		}
		l.Transactions = append(l.Transactions, t)
	}
	return l, nil
}

func (r TransactionRecord) Transaction() (core.Transaction, error) {
	return decodeTransaction(r.ID, r.Type, core.MoneyFromDecimal(r.Amount), r.Date, r.Description, r.Recurrence)
}

func decodeTransaction(id, kind string, amount core.Money, date, description, recurrence string) (core.Transaction, error) {
	if id == "" {
		return core.Transaction{}, fmt.Errorf("%w: missing id", ErrCorrupt)
	}
	k, err := core.ParseKind(kind)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("%w: %s: %v", ErrCorrupt, id, err)
	}
	rec, err := core.ParseRecurrence(recurrence)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("%w: %s: %v", ErrCorrupt, id, err)
	}
	d, err := core.ParseDate(date)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("%w: %s: %v", ErrCorrupt, id, err)
	}
	if err := amount.Validate(); err != nil {
		return core.Transaction{}, fmt.Errorf("%w: %s: %v", ErrCorrupt, id, err)
	}
	return core.Transaction{
		ID:          id,
		Kind:        k,
		Amount:      amount,
		Date:        d,
		Description: description,
		Recurrence:  rec,
	}, nil
}

// EncodeLedger writes l as indented JSON.
func EncodeLedger(w io.Writer, l core.Ledger) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(NewLedgerRecord(l))
}

// DecodeLedger reads a JSON snapshot written by EncodeLedger.
func DecodeLedger(r io.Reader) (core.Ledger, error) {
	var rec LedgerRecord
	if err := json.NewDecoder(r).Decode(&rec); err != nil {
		return core.Ledger{}, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	return rec.Ledger()
}

// WriteFileAtomic writes through a temporary file in the target directory and
// renames it over path, so readers never see a partial file.
func WriteFileAtomic(path string, write func(io.Writer) error) (err error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	if err = write(tmp); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err = tmp.Sync(); err != nil {
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}
