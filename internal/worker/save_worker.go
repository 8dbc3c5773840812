package worker

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"saldo/internal/core"
	"saldo/internal/log"
	"saldo/internal/storage"
)

// ErrClosed is returned by Start after Close.
var ErrClosed = errors.New("save worker closed")

// SaveWorker persists ledger snapshots in the background.
//
// It holds at most one pending snapshot: enqueueing while a save is queued
// replaces the queued snapshot, so a burst of mutations costs one write of the
// latest state. Saves are best-effort; failures are logged and dropped.
type SaveWorker struct {
	saver   storage.LedgerSaver
	timeout time.Duration
	logger  *log.Logger
	events  *log.StructuredLogger

	mu      sync.Mutex
	pending chan core.Ledger
	done    chan struct{}
	closed  bool
	started bool
	group   *errgroup.Group

	saved  atomic.Int64
	failed atomic.Int64
}

func NewSaveWorker(saver storage.LedgerSaver, timeout time.Duration, logger *log.Logger) *SaveWorker {
	if logger == nil {
		logger = log.Discard()
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	logger = logger.WithComponent(log.ComponentWorker)
	return &SaveWorker{
		saver:   saver,
		timeout: timeout,
		logger:  logger,
		events:  log.NewStructuredLogger(logger),
		pending: make(chan core.Ledger, 1),
		done:    make(chan struct{}),
	}
}

// Start launches the save loop. It stops when ctx is cancelled or Close is called;
// in both cases the pending snapshot is written first.
func (w *SaveWorker) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return ErrClosed
	}
	if w.started {
		return nil
	}
	w.started = true

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return w.run(gctx)
	})
	w.group = g
	return nil
}

// Enqueue schedules l for saving and reports whether it was accepted.
// It never blocks.
func (w *SaveWorker) Enqueue(l core.Ledger) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return false
	}
	select {
	case <-w.pending:
		w.logger.Debug("Pending snapshot superseded")
	default:
	}
	w.pending <- l
	return true
}

// Close stops accepting snapshots, writes the pending one and waits for the loop.
// Anything still pending once the loop is gone is written synchronously.
func (w *SaveWorker) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	close(w.done)
	g := w.group
	w.mu.Unlock()

	var err error
	if g != nil {
		err = g.Wait()
	}
	// The loop may have exited on ctx cancellation before the last Enqueue.
	w.drain()
	return err
}

// Saved and Failed count completed save attempts.
func (w *SaveWorker) Saved() int64  { return w.saved.Load() }
func (w *SaveWorker) Failed() int64 { return w.failed.Load() }

func (w *SaveWorker) run(ctx context.Context) error {
	for {
		select {
		case l := <-w.pending:
			w.save(l)
		case <-w.done:
			w.drain()
			return nil
		case <-ctx.Done():
			w.drain()
			return nil
		}
	}
}

func (w *SaveWorker) drain() {
	select {
	case l := <-w.pending:
		w.save(l)
	default:
	}
}

func (w *SaveWorker) save(l core.Ledger) {
	// Detached from the caller's context so shutdown still flushes the last snapshot.
	ctx, cancel := context.WithTimeout(context.Background(), w.timeout)
	defer cancel()

	start := time.Now()
	if err := w.saver.Save(ctx, l); err != nil {
		w.failed.Add(1)
		fields := log.NewFields().WithErrorType(log.ErrorTypeDatabase)
		if errors.Is(err, context.DeadlineExceeded) {
			fields.WithErrorType(log.ErrorTypeTimeout)
		}
		w.events.LogError(ctx, "Ledger save failed", err, log.ComponentWorker, log.OpSave, fields)
		return
	}
	w.saved.Add(1)
	w.logger.Debug("Ledger saved",
		log.FieldCount, len(l.Transactions),
		log.FieldDuration, time.Since(start).Milliseconds())
}
