package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"pocket/internal/amqp"
	"pocket/internal/core"
	"pocket/internal/ledger"
)

type fakePublisher struct {
	mu       sync.Mutex
	messages []*amqp.LedgerEventMessage
	err      error
	block    chan struct{}
}

func (f *fakePublisher) PublishLedgerEvent(ctx context.Context, msg *amqp.LedgerEventMessage) error {
	if f.block != nil {
		<-f.block
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.messages = append(f.messages, msg)
	return nil
}

func (f *fakePublisher) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.messages)
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestEventDispatcherPublishesAndDrains(t *testing.T) {
	pub := &fakePublisher{}
	d := NewEventDispatcher(pub, 8, quietLogger())

	at := time.Date(2024, 2, 3, 4, 5, 6, 0, time.UTC)
	d.Publish(ledger.Event{Type: ledger.ExpenseAdded, ExpenseID: "e1", AccountID: "a1", Amount: core.MustMoney("9.99"), At: at})
	d.Publish(ledger.Event{Type: ledger.PeriodReset, HistoryID: "h1", At: at})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := d.Run(ctx); err != nil {
		t.Fatalf("run: %v", err)
	}

	if pub.count() != 2 {
		t.Fatalf("published %d messages, want 2", pub.count())
	}
	first := pub.messages[0]
	if first.Type != "expense_added" || first.ExpenseID != "e1" || first.AccountID != "a1" {
		t.Errorf("unexpected message: %+v", first)
	}
	if !first.Amount.Equal(core.MustMoney("9.99")) || !first.Timestamp.Equal(at) {
		t.Errorf("amount or timestamp lost: %+v", first)
	}
	if published, failed, dropped := d.Stats(); published != 2 || failed != 0 || dropped != 0 {
		t.Errorf("stats = %d/%d/%d", published, failed, dropped)
	}
}

func TestEventDispatcherDropsWhenFull(t *testing.T) {
	d := NewEventDispatcher(&fakePublisher{}, 2, quietLogger())

	for i := 0; i < 5; i++ {
		d.Publish(ledger.Event{Type: ledger.AccountAdded})
	}

	if _, _, dropped := d.Stats(); dropped != 3 {
		t.Errorf("dropped = %d, want 3", dropped)
	}
}

func TestEventDispatcherPublishNeverBlocks(t *testing.T) {
	pub := &fakePublisher{block: make(chan struct{})}
	d := NewEventDispatcher(pub, 1, quietLogger())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		_ = d.Run(ctx)
		close(done)
	}()

	finished := make(chan struct{})
	go func() {
		for i := 0; i < 10; i++ {
			d.Publish(ledger.Event{Type: ledger.ExpenseAdded})
		}
		close(finished)
	}()

	select {
	case <-finished:
	case <-time.After(time.Second):
		t.Fatal("Publish blocked on a stalled broker")
	}

	cancel()
	close(pub.block)
	<-done
}

func TestEventDispatcherCountsFailures(t *testing.T) {
	pub := &fakePublisher{err: errors.New("broker down")}
	d := NewEventDispatcher(pub, 4, quietLogger())
	d.Publish(ledger.Event{Type: ledger.CurrencyChanged, Currency: "EUR"})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_ = d.Run(ctx)

	if _, failed, _ := d.Stats(); failed != 1 {
		t.Errorf("failed = %d, want 1", failed)
	}
}

func TestToMessage(t *testing.T) {
	msg := ToMessage(ledger.Event{Type: ledger.CurrencyChanged, Currency: "JPY"})
	if msg.Type != "currency_changed" || msg.Currency != "JPY" {
		t.Errorf("unexpected message: %+v", msg)
	}
}
