package services

import (
	"context"
	"fmt"
	"sync"

	"saldo/internal/cache"
	"saldo/internal/core"
	"saldo/internal/log"
	"saldo/internal/storage"
)

// SnapshotSink receives every new ledger snapshot for persistence.
type SnapshotSink interface {
	Enqueue(l core.Ledger) bool
}

// Tracker owns the current ledger snapshot for a process.
//
// The engine in core is pure and single-owner; Tracker serializes mutations so
// concurrent HTTP handlers see a consistent snapshot, bumps a revision on every
// change and hands each new snapshot to the sink.
type Tracker struct {
	mu       sync.RWMutex
	ledger   core.Ledger
	revision uint64
	target   core.Date

	sink   SnapshotSink
	cache  cache.Cache[core.Money]
	logger *log.Logger
	events *log.StructuredLogger
}

// TrackerOption configures optional Tracker collaborators.
type TrackerOption func(*Tracker)

// WithSink persists every committed snapshot through s.
func WithSink(s SnapshotSink) TrackerOption {
	return func(t *Tracker) { t.sink = s }
}

// WithProjectionCache memoizes BalanceAt per revision and date.
func WithProjectionCache(c cache.Cache[core.Money]) TrackerOption {
	return func(t *Tracker) { t.cache = c }
}

func WithLogger(l *log.Logger) TrackerOption {
	return func(t *Tracker) { t.logger = l }
}

func NewTracker(initial core.Ledger, opts ...TrackerOption) *Tracker {
	t := &Tracker{ledger: initial}
	for _, opt := range opts {
		opt(t)
	}
	if t.logger == nil {
		t.logger = log.Discard()
	}
	t.logger = t.logger.WithComponent(log.ComponentLedger)
	t.events = log.NewStructuredLogger(t.logger)
	return t
}

// LoadLedger reads the stored snapshot. Load failures are logged and yield an
// empty ledger so the process can still start.
func LoadLedger(ctx context.Context, loader storage.LedgerLoader, logger *log.Logger) core.Ledger {
	l, err := loader.Load(ctx)
	if err != nil {
		if logger != nil {
			log.NewStructuredLogger(logger).LogError(ctx, "Ledger load failed, starting empty", err,
				log.ComponentStorage, log.OpLoad, log.NewFields().WithErrorType(log.ErrorTypeDatabase))
		}
		return core.EmptyLedger()
	}
	if logger != nil {
		logger.WithComponent(log.ComponentStorage).InfoContext(ctx, "Ledger loaded",
			log.FieldCount, len(l.Transactions),
			"has_anchor", l.HasAnchor())
	}
	return l
}

func (t *Tracker) Ledger() core.Ledger {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.ledger
}

func (t *Tracker) Revision() uint64 {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.revision
}

// AddTransaction validates d and appends it.
func (t *Tracker) AddTransaction(ctx context.Context, d core.Draft) (core.Transaction, error) {
	d = d.Normalize()
	if err := d.Validate(); err != nil {
		return core.Transaction{}, err
	}

	t.mu.Lock()
	l, tx := t.ledger.AddTransaction(d)
	rev := t.commit(l)
	t.mu.Unlock()

	t.events.LogTransactionAdded(ctx, tx.ID, string(tx.Kind), tx.Amount.Cents, tx.Date.String(), string(tx.Recurrence), rev)
	return tx, nil
}

// DeleteTransaction removes id and reports whether it existed.
// Unknown IDs leave the ledger and revision untouched.
func (t *Tracker) DeleteTransaction(ctx context.Context, id string) bool {
	t.mu.Lock()
	if _, ok := t.ledger.Find(id); !ok {
		rev := t.revision
		t.mu.Unlock()
		t.events.LogTransactionDeleted(ctx, id, false, rev)
		return false
	}
	rev := t.commit(t.ledger.DeleteTransaction(id))
	t.mu.Unlock()

	t.events.LogTransactionDeleted(ctx, id, true, rev)
	return true
}

// SetInitialBalance validates and overwrites the anchor.
func (t *Tracker) SetInitialBalance(ctx context.Context, amount core.Money, date core.Date) error {
	if err := core.ValidateAnchor(amount, date); err != nil {
		return err
	}

	t.mu.Lock()
	rev := t.commit(t.ledger.SetInitialBalance(amount, date))
	t.mu.Unlock()

	t.events.LogAnchorSet(ctx, amount.Cents, date.String(), rev)
	return nil
}

// ClearAll resets the ledger. The session target date is kept.
func (t *Tracker) ClearAll(ctx context.Context) {
	t.mu.Lock()
	removed := len(t.ledger.Transactions)
	rev := t.commit(t.ledger.ClearAll())
	t.mu.Unlock()

	t.events.LogLedgerCleared(ctx, removed, rev)
}

// commit installs l as the current snapshot. Callers hold t.mu.
func (t *Tracker) commit(l core.Ledger) uint64 {
	t.ledger = l
	t.revision++
	if t.cache != nil {
		t.cache.Purge()
	}
	if t.sink != nil && !t.sink.Enqueue(l) {
		t.logger.Warn("Snapshot not accepted for saving", log.FieldRevision, t.revision)
	}
	return t.revision
}

// BalanceAt projects the current snapshot on target.
func (t *Tracker) BalanceAt(target core.Date) core.Money {
	t.mu.RLock()
	l, rev := t.ledger, t.revision
	t.mu.RUnlock()

	if t.cache == nil {
		return core.BalanceAt(l, target)
	}
	key := projectionKey(rev, target)
	if m, ok := t.cache.Get(key); ok {
		return m
	}
	m := core.BalanceAt(l, target)
	t.cache.Set(key, m)
	return m
}

func projectionKey(rev uint64, d core.Date) string {
	return fmt.Sprintf("%d|%s", rev, d)
}

// CurrentBalance is BalanceAt(today).
func (t *Tracker) CurrentBalance() core.Money {
	return t.BalanceAt(core.Today())
}

// SetTargetDate stores the session target date used by ProjectedBalance.
func (t *Tracker) SetTargetDate(d core.Date) error {
	if err := d.Validate(); err != nil {
		return err
	}
	t.mu.Lock()
	t.target = d
	t.mu.Unlock()
	return nil
}

// TargetDate returns the session target date, if one was chosen.
func (t *Tracker) TargetDate() (core.Date, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.target, !t.target.IsZero()
}

// ProjectedBalance is BalanceAt on the session target date.
func (t *Tracker) ProjectedBalance() (core.Money, bool) {
	target, ok := t.TargetDate()
	if !ok {
		return core.Money{}, false
	}
	return t.BalanceAt(target), true
}

// Transactions returns the transactions newest first.
func (t *Tracker) Transactions() []core.Transaction {
	return t.Ledger().SortedByDateDesc()
}

func (t *Tracker) RecentAggregates(end core.Date, months int) []core.MonthOverview {
	return core.RecentAggregates(t.Ledger(), end, months)
}

func (t *Tracker) ProjectionSeries(from core.Date, months int) []core.BalancePoint {
	return core.ProjectionSeries(t.Ledger(), from, months)
}
