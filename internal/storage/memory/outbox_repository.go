package memory

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
)

type outboxStatus string

const (
	outboxStatusPending outboxStatus = "pending"
	outboxStatusSent    outboxStatus = "sent"
	outboxStatusFailed  outboxStatus = "failed"
)

type outboxRecord struct {
	msg       domain.OutboxMessage
	status    outboxStatus
	createdAt time.Time
}

// OutboxRepository — in-memory реализация transactional outbox.
type OutboxRepository struct {
	mu      sync.RWMutex
	records []outboxRecord
}

// NewOutboxRepository возвращает пустой in-memory outbox.
func NewOutboxRepository() *OutboxRepository {
	return &OutboxRepository{}
}

// Enqueue ставит событие в очередь публикации.
func (r *OutboxRepository) Enqueue(msg domain.OutboxMessage) (domain.OutboxMessage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if msg.ID == "" {
		msg.ID = uuid.NewString()
	}
	r.records = append(r.records, outboxRecord{
		msg:       msg,
		status:    outboxStatusPending,
		createdAt: time.Now().UTC(),
	})
	return msg, nil
}

// PullPending возвращает до limit неопубликованных событий в порядке постановки.
func (r *OutboxRepository) PullPending(limit int) ([]domain.OutboxMessage, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]domain.OutboxMessage, 0, limit)
	for _, record := range r.records {
		if record.status != outboxStatusPending {
			continue
		}
		result = append(result, record.msg)
		if limit > 0 && len(result) >= limit {
			break
		}
	}
	return result, nil
}

// Stats возвращает состояние backlog.
func (r *OutboxRepository) Stats() (domain.OutboxStats, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stats := domain.OutboxStats{}
	for _, record := range r.records {
		if record.status != outboxStatusPending {
			continue
		}
		stats.PendingCount++
		if stats.OldestPendingAt.IsZero() || record.createdAt.Before(stats.OldestPendingAt) {
			stats.OldestPendingAt = record.createdAt
		}
	}
	return stats, nil
}

// MarkSent помечает событие опубликованным.
func (r *OutboxRepository) MarkSent(id string) error {
	return r.mark(id, outboxStatusSent)
}

// MarkFailed помечает событие неопубликованным после исчерпания retry.
func (r *OutboxRepository) MarkFailed(id string) error {
	return r.mark(id, outboxStatusFailed)
}

func (r *OutboxRepository) mark(id string, status outboxStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.records {
		if r.records[i].msg.ID == id {
			r.records[i].status = status
			return nil
		}
	}
	return domain.ErrOutboxPublish
}

func (r *OutboxRepository) snapshot() []outboxRecord {
	r.mu.RLock()
	defer r.mu.RUnlock()

	copied := make([]outboxRecord, len(r.records))
	copy(copied, r.records)
	return copied
}

func (r *OutboxRepository) restore(records []outboxRecord) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.records = records
}

var _ domain.OutboxRepository = (*OutboxRepository)(nil)
