package outbox_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
	"github.com/vladislavdragonenkov/storefront/internal/service/outbox"
	"github.com/vladislavdragonenkov/storefront/internal/storage/memory"
)

type fakePublisher struct {
	mu       sync.Mutex
	failures int
	events   []domain.OutboxMessage
}

func (p *fakePublisher) Publish(event domain.OutboxMessage) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.failures > 0 {
		p.failures--
		return errors.New("broker unavailable")
	}
	p.events = append(p.events, event)
	return nil
}

func (p *fakePublisher) published() []domain.OutboxMessage {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]domain.OutboxMessage(nil), p.events...)
}

func enqueue(t *testing.T, repo *memory.OutboxRepository, eventType string) domain.OutboxMessage {
	t.Helper()
	msg, err := repo.Enqueue(domain.OutboxMessage{
		AggregateType: domain.AggregateOrder,
		AggregateID:   "order-1",
		EventType:     eventType,
		Payload:       []byte(`{"order_id":"order-1"}`),
	})
	if err != nil {
		t.Fatalf("enqueue failed: %v", err)
	}
	return msg
}

func TestWorker_PublishesPendingAndMarksSent(t *testing.T) {
	repo := memory.NewOutboxRepository()
	publisher := &fakePublisher{}
	enqueue(t, repo, domain.EventTypeOrderConfirmed)
	enqueue(t, repo, domain.EventTypeOrderCancelled)

	worker := outbox.NewWorker(repo, publisher, nil, outbox.Config{})
	worker.ProcessOnce(context.Background())

	events := publisher.published()
	if len(events) != 2 {
		t.Fatalf("expected 2 published events, got %d", len(events))
	}
	if events[0].EventType != domain.EventTypeOrderConfirmed {
		t.Fatalf("expected order.confirmed first, got %s", events[0].EventType)
	}

	pending, err := repo.PullPending(10)
	if err != nil {
		t.Fatalf("pull failed: %v", err)
	}
	if len(pending) != 0 {
		t.Fatalf("expected empty backlog, got %d", len(pending))
	}
}

func TestWorker_RetriesTransientFailure(t *testing.T) {
	repo := memory.NewOutboxRepository()
	publisher := &fakePublisher{failures: 2}
	msg := enqueue(t, repo, domain.EventTypeOrderConfirmed)

	worker := outbox.NewWorker(repo, publisher, nil, outbox.Config{MaxAttempts: 3})
	worker.ProcessOnce(context.Background())

	events := publisher.published()
	if len(events) != 1 || events[0].ID != msg.ID {
		t.Fatalf("expected event published after retries, got %+v", events)
	}
}

func TestWorker_SendsToDLQAfterExhaustedRetries(t *testing.T) {
	repo := memory.NewOutboxRepository()
	publisher := &fakePublisher{failures: 100}
	dlq := &fakePublisher{}
	msg := enqueue(t, repo, domain.EventTypeOrderConfirmed)

	worker := outbox.NewWorker(repo, publisher, dlq, outbox.Config{MaxAttempts: 2})
	worker.ProcessOnce(context.Background())

	dlqEvents := dlq.published()
	if len(dlqEvents) != 1 {
		t.Fatalf("expected 1 DLQ event, got %d", len(dlqEvents))
	}
	if dlqEvents[0].ID != msg.ID || dlqEvents[0].EventType != domain.EventTypeOrderConfirmed {
		t.Fatalf("unexpected DLQ event: %+v", dlqEvents[0])
	}

	// Сообщение помечено failed и больше не возвращается как pending.
	pending, err := repo.PullPending(10)
	if err != nil {
		t.Fatalf("pull failed: %v", err)
	}
	if len(pending) != 0 {
		t.Fatalf("expected message out of backlog, got %d pending", len(pending))
	}
}

func TestWorker_ContextCancelStopsProcessing(t *testing.T) {
	repo := memory.NewOutboxRepository()
	publisher := &fakePublisher{}
	enqueue(t, repo, domain.EventTypeOrderConfirmed)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	worker := outbox.NewWorker(repo, publisher, nil, outbox.Config{})
	worker.ProcessOnce(ctx)

	if len(publisher.published()) != 0 {
		t.Fatal("expected no events published after cancel")
	}
}
