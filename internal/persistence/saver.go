package persistence

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"

	"pocket/internal/core"
	"pocket/internal/ledger"
)

// Ensure interface conformance
var (
	_ ledger.Saver = (*AsyncSaver)(nil)
	_ ledger.Saver = (*DirectSaver)(nil)
)

// AsyncSaver writes snapshots in the background. Save never blocks; a newer
// snapshot replaces one that has not been written yet, and writes never
// overlap. Every snapshot is complete, so dropping an intermediate one loses
// nothing.
type AsyncSaver struct {
	gw     *Gateway
	logger *slog.Logger

	mu      sync.Mutex
	pending *core.Snapshot
	wake    chan struct{}

	// writeMu spans take-and-write so an older snapshot can never land after
	// a newer one.
	writeMu sync.Mutex

	written  atomic.Int64
	failures atomic.Int64
}

func NewAsyncSaver(gw *Gateway, logger *slog.Logger) *AsyncSaver {
	if logger == nil {
		logger = slog.Default()
	}
	return &AsyncSaver{
		gw:     gw,
		logger: logger,
		wake:   make(chan struct{}, 1),
	}
}

// Save queues s for writing and returns immediately.
func (s *AsyncSaver) Save(snap core.Snapshot) {
	s.mu.Lock()
	s.pending = &snap
	s.mu.Unlock()

	select {
	case s.wake <- struct{}{}:
	default:
	}
}

// Run writes queued snapshots until ctx is done, then flushes whatever is
// still pending and returns.
func (s *AsyncSaver) Run(ctx context.Context) error {
	s.logger.InfoContext(ctx, "Snapshot saver started")
	for {
		select {
		case <-ctx.Done():
			s.Flush(context.WithoutCancel(ctx))
			s.logger.InfoContext(ctx, "Snapshot saver stopped",
				"written", s.written.Load(),
				"failures", s.failures.Load())
			return nil
		case <-s.wake:
			s.Flush(context.WithoutCancel(ctx))
		}
	}
}

// Flush writes the pending snapshot, if any, before returning.
func (s *AsyncSaver) Flush(ctx context.Context) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.Lock()
	snap := s.pending
	s.pending = nil
	s.mu.Unlock()

	if snap == nil {
		return
	}
	if err := s.gw.SaveSnapshot(ctx, *snap); err != nil {
		s.failures.Add(1)
		return
	}
	s.written.Add(1)
}

// Written returns the number of snapshots successfully written.
func (s *AsyncSaver) Written() int64 { return s.written.Load() }

// Failures returns the number of failed writes.
func (s *AsyncSaver) Failures() int64 { return s.failures.Load() }

// DirectSaver writes each snapshot before returning. It suits one-shot
// commands that exit right after a mutation.
type DirectSaver struct {
	gw  *Gateway
	ctx context.Context

	mu      sync.Mutex
	lastErr error
}

func NewDirectSaver(ctx context.Context, gw *Gateway) *DirectSaver {
	return &DirectSaver{gw: gw, ctx: ctx}
}

// Save writes s synchronously. Failures are logged by the gateway and kept
// for Err.
func (s *DirectSaver) Save(snap core.Snapshot) {
	err := s.gw.SaveSnapshot(s.ctx, snap)
	s.mu.Lock()
	s.lastErr = err
	s.mu.Unlock()
}

// Err returns the outcome of the most recent Save.
func (s *DirectSaver) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}
