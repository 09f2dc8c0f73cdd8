// Package persistence stores the ledger snapshot as one JSON document under
// a fixed key of a kv.Store.
package persistence

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"pocket/internal/core"
	"pocket/internal/kv"
)

// SnapshotKey is the single key the whole application state lives under.
const SnapshotKey = "@FinanceAppStore"

// Gateway loads and saves snapshots. Failures are logged here and never
// crash the caller.
type Gateway struct {
	store  kv.Store
	logger *slog.Logger
}

func NewGateway(store kv.Store, logger *slog.Logger) *Gateway {
	if logger == nil {
		logger = slog.Default()
	}
	return &Gateway{store: store, logger: logger}
}

// LoadSnapshot reads the stored snapshot. ok is false on first run, when the
// store cannot be read, or when the stored document does not parse; the
// returned snapshot is then empty. Fields missing from the document default
// independently.
func (g *Gateway) LoadSnapshot(ctx context.Context) (snap core.Snapshot, ok bool) {
	empty := core.Snapshot{}.Normalize()

	raw, found, err := g.store.Get(ctx, SnapshotKey)
	if err != nil {
		g.logger.ErrorContext(ctx, "Failed to load data", "key", SnapshotKey, "error", err)
		return empty, false
	}
	if !found {
		g.logger.InfoContext(ctx, "No stored data, starting empty", "key", SnapshotKey)
		return empty, false
	}

	if err := json.Unmarshal([]byte(raw), &snap); err != nil {
		g.logger.ErrorContext(ctx, "Failed to parse stored data", "key", SnapshotKey, "error", err)
		return empty, false
	}
	return snap.Normalize(), true
}

// SaveSnapshot writes s under SnapshotKey. The error is logged and returned
// for callers that want to report it; in-memory state stays authoritative.
func (g *Gateway) SaveSnapshot(ctx context.Context, s core.Snapshot) error {
	body, err := json.Marshal(s.Normalize())
	if err != nil {
		g.logger.ErrorContext(ctx, "Failed to encode data", "error", err)
		return fmt.Errorf("encode snapshot: %w", err)
	}
	if err := g.store.Set(ctx, SnapshotKey, string(body)); err != nil {
		g.logger.ErrorContext(ctx, "Failed to save data", "key", SnapshotKey, "error", err)
		return fmt.Errorf("save snapshot: %w", err)
	}
	return nil
}
