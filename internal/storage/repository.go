package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"saldo/internal/core"

	_ "modernc.org/sqlite"
)

// SQLiteRepository persists the ledger in two tables: a single-row anchor and
// the transactions in insertion order.
type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	// SQLite allows one writer; a single connection avoids SQLITE_BUSY between saves.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Ping reports whether the database is reachable.
func (r *SQLiteRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

const (
	selectAnchorSQL       = `SELECT initial_balance_cents, initial_date FROM ledger_anchor WHERE id = 1`
	selectTransactionsSQL = `SELECT id, kind, amount_cents, date, description, recurrence FROM transactions ORDER BY position`
	deleteTransactionsSQL = `DELETE FROM transactions`
	insertTransactionSQL  = `INSERT INTO transactions (id, position, kind, amount_cents, date, description, recurrence) VALUES (?, ?, ?, ?, ?, ?, ?)`
	upsertAnchorSQL       = `INSERT INTO ledger_anchor (id, initial_balance_cents, initial_date, updated_at)
VALUES (1, ?, ?, strftime('%Y-%m-%dT%H:%M:%fZ', 'now'))
ON CONFLICT(id) DO UPDATE SET
    initial_balance_cents = excluded.initial_balance_cents,
    initial_date = excluded.initial_date,
    updated_at = excluded.updated_at`
)

// Load implements LedgerLoader. An empty database yields an empty ledger.
func (r *SQLiteRepository) Load(ctx context.Context) (core.Ledger, error) {
	var (
		l           core.Ledger
		cents       int64
		initialDate sql.NullString
	)
	err := r.db.QueryRowContext(ctx, selectAnchorSQL).Scan(&cents, &initialDate)
	switch {
	case errors.Is(err, sql.ErrNoRows):
	case err != nil:
		return core.Ledger{}, fmt.Errorf("get anchor: %w", err)
	default:
		l.InitialBalance = core.Money{Cents: cents}
		if initialDate.Valid && initialDate.String != "" {
			d, err := core.ParseDate(initialDate.String)
			if err != nil {
				return core.Ledger{}, fmt.Errorf("%w: initial date: %v", ErrCorrupt, err)
			}
			l.InitialDate = d
		}
	}

	rows, err := r.db.QueryContext(ctx, selectTransactionsSQL)
	if err != nil {
		return core.Ledger{}, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			id, kind, date, desc, rec string
			amount                    int64
		)
		if err := rows.Scan(&id, &kind, &amount, &date, &desc, &rec); err != nil {
			return core.Ledger{}, fmt.Errorf("scan transaction: %w", err)
		}
		t, err := decodeTransaction(id, kind, core.Money{Cents: amount}, date, desc, rec)
		if err != nil {
			return core.Ledger{}, err
		}
		l.Transactions = append(l.Transactions, t)
	}
	if err := rows.Err(); err != nil {
		return core.Ledger{}, fmt.Errorf("iterate transactions: %w", err)
	}

	return l, nil
}

// Save implements LedgerSaver: the whole snapshot is replaced in one SQL transaction.
func (r *SQLiteRepository) Save(ctx context.Context, l core.Ledger) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, deleteTransactionsSQL); err != nil {
		return fmt.Errorf("delete transactions: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, insertTransactionSQL)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, t := range l.Transactions {
		if _, err := stmt.ExecContext(ctx, t.ID, i, string(t.Kind), t.Amount.Cents, t.Date.String(), t.Description, string(t.Recurrence)); err != nil {
			return fmt.Errorf("insert transaction %s: %w", t.ID, err)
		}
	}

	var initialDate sql.NullString
	if l.HasAnchor() {
		initialDate = sql.NullString{String: l.InitialDate.String(), Valid: true}
	}
	if _, err := tx.ExecContext(ctx, upsertAnchorSQL, l.InitialBalance.Cents, initialDate); err != nil {
		return fmt.Errorf("upsert anchor: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	slog.DebugContext(ctx, "Ledger saved to SQLite",
		"transactions", len(l.Transactions),
		"has_anchor", l.HasAnchor())
	return nil
}
