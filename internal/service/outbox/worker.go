package outbox

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
)

const (
	defaultPollInterval   = time.Second
	defaultBatchSize      = 50
	defaultMaxAttempts    = 3
	defaultRetryBaseDelay = 100 * time.Millisecond
)

var (
	publishAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_outbox_publish_attempts_total",
		Help: "Total number of outbox publish attempts grouped by result.",
	}, []string{"result"})
	pendingRecords = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "storefront_outbox_pending_records",
		Help: "Current number of pending records in the transactional outbox.",
	})
	oldestPendingAge = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "storefront_outbox_oldest_pending_age_seconds",
		Help: "Age in seconds of the oldest pending outbox record.",
	})
)

// Config задаёт параметры воркера. Нулевые значения заменяются умолчаниями.
type Config struct {
	PollInterval   time.Duration
	BatchSize      int
	MaxAttempts    int
	RetryBaseDelay time.Duration
}

func (c Config) withDefaults() Config {
	if c.PollInterval <= 0 {
		c.PollInterval = defaultPollInterval
	}
	if c.BatchSize <= 0 {
		c.BatchSize = defaultBatchSize
	}
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = defaultMaxAttempts
	}
	if c.RetryBaseDelay < 0 {
		c.RetryBaseDelay = 0
	}
	return c
}

// Worker опрашивает transactional outbox и доставляет события заказов в брокер.
// Сообщение, которое не удалось опубликовать после всех попыток, уходит в DLQ
// и помечается в outbox как failed.
type Worker struct {
	repo      domain.OutboxRepository
	publisher domain.OutboxPublisher
	dlq       domain.OutboxPublisher
	cfg       Config
	logger    *log.Entry
}

// NewWorker создаёт воркера. dlq может быть nil, тогда неудачные сообщения
// только помечаются как failed.
func NewWorker(repo domain.OutboxRepository, publisher domain.OutboxPublisher, dlq domain.OutboxPublisher, cfg Config) *Worker {
	return &Worker{
		repo:      repo,
		publisher: publisher,
		dlq:       dlq,
		cfg:       cfg.withDefaults(),
		logger:    log.WithField("component", "outbox_worker"),
	}
}

// Run опрашивает outbox с заданным интервалом до отмены ctx.
func (w *Worker) Run(ctx context.Context) {
	if w.repo == nil || w.publisher == nil {
		w.logger.Warn("Outbox worker выключен: нет репозитория или паблишера")
		return
	}

	ticker := time.NewTicker(w.cfg.PollInterval)
	defer ticker.Stop()

	w.ProcessOnce(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.ProcessOnce(ctx)
		}
	}
}

// ProcessOnce выполняет один цикл: вытащить pending-сообщения и опубликовать их.
func (w *Worker) ProcessOnce(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}

	w.updateBacklogGauges()

	batch, err := w.repo.PullPending(w.cfg.BatchSize)
	if err != nil {
		w.logger.WithError(err).Warn("Не удалось получить pending-сообщения outbox")
		return
	}

	for _, msg := range batch {
		if ctx.Err() != nil {
			return
		}

		if err := w.deliver(ctx, msg); err != nil {
			publishAttempts.WithLabelValues("failed").Inc()
			w.logger.WithError(err).WithFields(log.Fields{
				"outbox_id":  msg.ID,
				"event_type": msg.EventType,
			}).Error("Публикация события не удалась после всех попыток")

			w.sendToDLQ(msg, err)
			if markErr := w.repo.MarkFailed(msg.ID); markErr != nil {
				w.logger.WithError(markErr).WithField("outbox_id", msg.ID).Warn("Не удалось пометить сообщение как failed")
			}
			continue
		}

		if err := w.repo.MarkSent(msg.ID); err != nil {
			w.logger.WithError(err).WithField("outbox_id", msg.ID).Warn("Не удалось пометить сообщение как sent")
		}
	}

	w.updateBacklogGauges()
}

// deliver публикует одно сообщение с exponential backoff между попытками.
func (w *Worker) deliver(ctx context.Context, msg domain.OutboxMessage) error {
	delay := w.cfg.RetryBaseDelay

	var lastErr error
	for attempt := 1; attempt <= w.cfg.MaxAttempts; attempt++ {
		err := w.publisher.Publish(msg)
		if err == nil {
			publishAttempts.WithLabelValues("sent").Inc()
			return nil
		}
		lastErr = err
		publishAttempts.WithLabelValues("retry_error").Inc()

		if attempt == w.cfg.MaxAttempts || delay <= 0 {
			continue
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
		delay *= 2
	}

	return fmt.Errorf("%w: after %d attempts: %v", domain.ErrOutboxPublish, w.cfg.MaxAttempts, lastErr)
}

func (w *Worker) sendToDLQ(msg domain.OutboxMessage, cause error) {
	if w.dlq == nil {
		return
	}

	payload, err := json.Marshal(map[string]any{
		"outbox_id":      msg.ID,
		"aggregate_type": msg.AggregateType,
		"aggregate_id":   msg.AggregateID,
		"event_type":     msg.EventType,
		"payload":        json.RawMessage(msg.Payload),
		"publish_error":  cause.Error(),
		"failed_at":      time.Now().UTC().Format(time.RFC3339Nano),
	})
	if err != nil {
		w.logger.WithError(err).WithField("outbox_id", msg.ID).Warn("Не удалось сериализовать DLQ-сообщение")
		return
	}

	dlqMsg := msg
	dlqMsg.Payload = payload
	if err := w.dlq.Publish(dlqMsg); err != nil {
		publishAttempts.WithLabelValues("dlq_failed").Inc()
		w.logger.WithError(err).WithField("outbox_id", msg.ID).Warn("Не удалось отправить сообщение в DLQ")
	}
}

func (w *Worker) updateBacklogGauges() {
	stats, err := w.repo.Stats()
	if err != nil {
		w.logger.WithError(err).Warn("Не удалось собрать статистику outbox")
		return
	}

	pendingRecords.Set(float64(stats.PendingCount))
	if stats.PendingCount == 0 || stats.OldestPendingAt.IsZero() {
		oldestPendingAge.Set(0)
		return
	}
	age := time.Since(stats.OldestPendingAt).Seconds()
	if age < 0 {
		age = 0
	}
	oldestPendingAge.Set(age)
}
