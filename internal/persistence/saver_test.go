package persistence

import (
	"context"
	"errors"
	"testing"
	"time"

	"pocket/internal/core"
	"pocket/internal/kv/memory"
)

func snapshotWithAccounts(n int) core.Snapshot {
	s := core.Snapshot{}.Normalize()
	for i := 0; i < n; i++ {
		s.Accounts = append(s.Accounts, core.Account{ID: string(rune('a' + i)), Name: "acc"})
	}
	return s
}

func TestAsyncSaverLatestWins(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	gw := NewGateway(store, quietLogger())
	saver := NewAsyncSaver(gw, quietLogger())

	// No loop running yet: each Save replaces the pending snapshot.
	for i := 1; i <= 5; i++ {
		saver.Save(snapshotWithAccounts(i))
	}
	saver.Flush(ctx)

	if store.Writes() != 1 {
		t.Errorf("writes = %d, want 1", store.Writes())
	}
	got, ok := gw.LoadSnapshot(ctx)
	if !ok || len(got.Accounts) != 5 {
		t.Fatalf("expected latest snapshot with 5 accounts, got ok=%v %d", ok, len(got.Accounts))
	}

	saver.Flush(ctx)
	if store.Writes() != 1 {
		t.Errorf("flush with nothing pending wrote again: %d", store.Writes())
	}
}

func TestAsyncSaverFlushesOnShutdown(t *testing.T) {
	store := memory.New()
	gw := NewGateway(store, quietLogger())
	saver := NewAsyncSaver(gw, quietLogger())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- saver.Run(ctx) }()

	saver.Save(snapshotWithAccounts(1))
	saver.Save(snapshotWithAccounts(2))
	saver.Save(snapshotWithAccounts(3))
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("run returned %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("saver did not stop")
	}

	got, ok := gw.LoadSnapshot(context.Background())
	if !ok || len(got.Accounts) != 3 {
		t.Fatalf("expected final snapshot with 3 accounts, got ok=%v %d", ok, len(got.Accounts))
	}
	if saver.Written() < 1 || saver.Failures() != 0 {
		t.Errorf("written=%d failures=%d", saver.Written(), saver.Failures())
	}
}

func TestAsyncSaverCountsFailures(t *testing.T) {
	gw := NewGateway(failingStore{setErr: errors.New("full")}, quietLogger())
	saver := NewAsyncSaver(gw, quietLogger())

	saver.Save(snapshotWithAccounts(1))
	saver.Flush(context.Background())

	if saver.Failures() != 1 || saver.Written() != 0 {
		t.Errorf("written=%d failures=%d", saver.Written(), saver.Failures())
	}
}

func TestDirectSaver(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	saver := NewDirectSaver(ctx, NewGateway(store, quietLogger()))

	saver.Save(snapshotWithAccounts(2))
	if saver.Err() != nil {
		t.Fatalf("unexpected error: %v", saver.Err())
	}
	if store.Writes() != 1 {
		t.Errorf("writes = %d, want 1", store.Writes())
	}

	failing := NewDirectSaver(ctx, NewGateway(failingStore{setErr: errors.New("nope")}, quietLogger()))
	failing.Save(snapshotWithAccounts(1))
	if failing.Err() == nil {
		t.Error("expected error to be kept")
	}
}
