// Package worker copies closed periods from the shared snapshot store to an
// external spreadsheet.
package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"pocket/internal/amqp"
	"pocket/internal/cache"
	"pocket/internal/core"
	"pocket/internal/ledger"
	"pocket/internal/sheets"
)

// ErrHistoryNotFound means the event refers to a period that is not yet in
// the stored snapshot. The save may still be in flight; the consumer retries a
// few times and reconcile picks up the period after that.
var ErrHistoryNotFound = errors.New("history item not found in snapshot")

const (
	seenCacheSize = 1024
	seenCacheTTL  = 24 * time.Hour
)

// SnapshotLoader reads the persisted ledger state.
type SnapshotLoader interface {
	LoadSnapshot(ctx context.Context) (core.Snapshot, bool)
}

// ArchiveWorker appends each reset period to the archive sheet exactly once.
type ArchiveWorker struct {
	loader SnapshotLoader
	writer sheets.HistoryWriter
	lister sheets.ArchiveLister
	logger *slog.Logger

	// seen maps history ids known to be archived to their sheet reference.
	// It saves a sheet listing for redelivered events.
	seen *cache.LRU[string]
}

// NewArchiveWorker builds a worker. lister may be nil, in which case
// duplicate deliveries are not detected.
func NewArchiveWorker(loader SnapshotLoader, writer sheets.HistoryWriter, lister sheets.ArchiveLister, logger *slog.Logger) *ArchiveWorker {
	if logger == nil {
		logger = slog.Default()
	}
	return &ArchiveWorker{
		loader: loader,
		writer: writer,
		lister: lister,
		logger: logger,
		seen:   cache.NewLRU[string](seenCacheSize, seenCacheTTL),
	}
}

// Cache exposes the archived-id cache so the caller can expire it.
func (w *ArchiveWorker) Cache() cache.Cleaner {
	return w.seen
}

// HandleLedgerEvent archives the period named by a period_reset event. Other
// event types are acknowledged without work.
func (w *ArchiveWorker) HandleLedgerEvent(ctx context.Context, msg *amqp.LedgerEventMessage) error {
	if msg.Type != string(ledger.PeriodReset) {
		w.logger.DebugContext(ctx, "Ignoring ledger event", "type", msg.Type)
		return nil
	}
	if msg.HistoryID == "" {
		w.logger.WarnContext(ctx, "Period reset event without history id, skipping")
		return nil
	}

	if w.seen.Contains(msg.HistoryID) {
		w.logger.InfoContext(ctx, "Period already archived", "history_id", msg.HistoryID, "cached", true)
		return nil
	}
	archived, err := w.archivedIDs(ctx)
	if err != nil {
		return err
	}
	if slices.Contains(archived, msg.HistoryID) {
		w.logger.InfoContext(ctx, "Period already archived", "history_id", msg.HistoryID)
		return nil
	}

	snap, ok := w.loader.LoadSnapshot(ctx)
	if !ok {
		return fmt.Errorf("load snapshot for %s: %w", msg.HistoryID, ErrHistoryNotFound)
	}
	idx := slices.IndexFunc(snap.History, func(h core.HistoryItem) bool { return h.ID == msg.HistoryID })
	if idx < 0 {
		return fmt.Errorf("history %s: %w", msg.HistoryID, ErrHistoryNotFound)
	}

	return w.archive(ctx, snap.History[idx], snap)
}

// Reconcile archives every stored period missing from the sheet, oldest
// first. It recovers from events lost while the worker was down.
func (w *ArchiveWorker) Reconcile(ctx context.Context) error {
	if w.lister == nil {
		w.logger.InfoContext(ctx, "No archive lister configured, skipping reconcile")
		return nil
	}

	snap, ok := w.loader.LoadSnapshot(ctx)
	if !ok {
		w.logger.InfoContext(ctx, "No stored snapshot, nothing to reconcile")
		return nil
	}

	archived, err := w.archivedIDs(ctx)
	if err != nil {
		return err
	}

	synced, failed := 0, 0
	for i := len(snap.History) - 1; i >= 0; i-- {
		h := snap.History[i]
		if slices.Contains(archived, h.ID) || w.seen.Contains(h.ID) {
			continue
		}
		if err := w.archive(ctx, h, snap); err != nil {
			failed++
			continue
		}
		synced++
	}

	w.logger.InfoContext(ctx, "Archive reconcile completed",
		"periods", len(snap.History),
		"synced", synced,
		"errors", failed)
	if failed > 0 {
		return fmt.Errorf("reconcile: %d periods failed", failed)
	}
	return nil
}

func (w *ArchiveWorker) archive(ctx context.Context, h core.HistoryItem, snap core.Snapshot) error {
	ref, err := w.writer.AppendHistory(ctx, h, snap.Currency)
	if err != nil {
		w.logger.ErrorContext(ctx, "Failed to archive period",
			"history_id", h.ID,
			"error", err)
		return fmt.Errorf("append history %s: %w", h.ID, err)
	}
	w.seen.Set(h.ID, ref)
	w.logger.InfoContext(ctx, "Archived period",
		"history_id", h.ID,
		"expenses", len(h.Expenses),
		"total", h.Total.String(),
		"ref", ref)
	return nil
}

func (w *ArchiveWorker) archivedIDs(ctx context.Context) ([]string, error) {
	if w.lister == nil {
		return nil, nil
	}
	ids, err := w.lister.ArchivedIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("list archived periods: %w", err)
	}
	for _, id := range ids {
		if !w.seen.Contains(id) {
			w.seen.Set(id, "")
		}
	}
	return ids, nil
}
