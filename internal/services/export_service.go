package services

import (
	"context"
	"io"
	"time"

	"saldo/internal/export"
	"saldo/internal/log"
)

// ExportService produces export snapshots of the tracked ledger and forwards
// them to an optional publisher.
type ExportService struct {
	tracker   *Tracker
	publisher export.Publisher
	version   string
	now       func() time.Time
	logger    *log.Logger
	events    *log.StructuredLogger
}

// NewExportService wires an export service. publisher may be nil.
func NewExportService(tracker *Tracker, publisher export.Publisher, version string, logger *log.Logger) *ExportService {
	if logger == nil {
		logger = log.Discard()
	}
	logger = logger.WithComponent(log.ComponentExport)
	return &ExportService{
		tracker:   tracker,
		publisher: publisher,
		version:   version,
		now:       time.Now,
		logger:    logger,
		events:    log.NewStructuredLogger(logger),
	}
}

// Snapshot captures the current ledger.
func (s *ExportService) Snapshot() export.Snapshot {
	return export.Build(s.tracker.Ledger(), s.now(), s.version)
}

// Export writes the current snapshot to w and publishes it.
// Publishing failures are logged; the export itself still succeeds.
func (s *ExportService) Export(ctx context.Context, w io.Writer) (export.Snapshot, error) {
	snap := s.Snapshot()
	if err := export.Encode(w, snap); err != nil {
		return snap, err
	}
	s.publish(ctx, snap)
	return snap, nil
}

// ExportFile atomically writes the current snapshot to path and publishes it.
func (s *ExportService) ExportFile(ctx context.Context, path string) (export.Snapshot, error) {
	snap := s.Snapshot()
	if err := export.WriteFile(path, snap); err != nil {
		return snap, err
	}
	s.logger.InfoContext(ctx, "Ledger exported",
		"path", path,
		log.FieldCount, len(snap.Transactions))
	s.publish(ctx, snap)
	return snap, nil
}

func (s *ExportService) publish(ctx context.Context, snap export.Snapshot) {
	if s.publisher == nil {
		s.logger.DebugContext(ctx, "No export publisher configured, skipping publish")
		return
	}
	if err := s.publisher.PublishExport(ctx, snap); err != nil {
		s.events.LogError(ctx, "Failed to publish export", err,
			log.ComponentExport, log.OpPublish, log.NewFields().WithErrorType(log.ErrorTypeNetwork))
	}
}

// SuggestedFileName names an export taken now.
func (s *ExportService) SuggestedFileName() string {
	return export.FileName(s.now())
}
