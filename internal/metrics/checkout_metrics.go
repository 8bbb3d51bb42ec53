package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// CheckoutMetrics содержит метрики checkout и отмены заказов.
type CheckoutMetrics struct {
	// Счётчики операций
	checkoutsStarted   prometheus.Counter
	checkoutsConfirmed prometheus.Counter
	checkoutsFailed    prometheus.Counter
	cancellations      prometheus.Counter
	cancellationErrors prometheus.Counter

	// Отдельный счётчик отказов по остаткам: главный бизнес-сигнал магазина
	insufficientStock prometheus.Counter

	// Гистограммы времени выполнения
	checkoutDuration prometheus.Histogram

	// Счётчик событий outbox
	outboxEvents prometheus.Counter
}

// NewCheckoutMetrics создаёт новый экземпляр метрик checkout.
func NewCheckoutMetrics() *CheckoutMetrics {
	return newCheckoutMetricsWithRegisterer(prometheus.DefaultRegisterer)
}

func newCheckoutMetricsWithRegisterer(registerer prometheus.Registerer) *CheckoutMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	return &CheckoutMetrics{
		checkoutsStarted: registerCounter(registerer, prometheus.CounterOpts{
			Name: "storefront_checkouts_started_total",
			Help: "Total number of checkout attempts",
		}),
		checkoutsConfirmed: registerCounter(registerer, prometheus.CounterOpts{
			Name: "storefront_checkouts_confirmed_total",
			Help: "Total number of checkouts that produced a confirmed order",
		}),
		checkoutsFailed: registerCounter(registerer, prometheus.CounterOpts{
			Name: "storefront_checkouts_failed_total",
			Help: "Total number of checkouts rejected or rolled back",
		}),
		cancellations: registerCounter(registerer, prometheus.CounterOpts{
			Name: "storefront_order_cancellations_total",
			Help: "Total number of orders cancelled with stock restored",
		}),
		cancellationErrors: registerCounter(registerer, prometheus.CounterOpts{
			Name: "storefront_order_cancellation_errors_total",
			Help: "Total number of cancellation attempts that failed",
		}),
		insufficientStock: registerCounter(registerer, prometheus.CounterOpts{
			Name: "storefront_checkout_insufficient_stock_total",
			Help: "Total number of checkouts rejected because of insufficient stock",
		}),
		checkoutDuration: registerHistogram(registerer, prometheus.HistogramOpts{
			Name:    "storefront_checkout_duration_seconds",
			Help:    "Duration of checkout transactions in seconds",
			Buckets: prometheus.DefBuckets,
		}),
		outboxEvents: registerCounter(registerer, prometheus.CounterOpts{
			Name: "storefront_outbox_events_total",
			Help: "Total number of order events enqueued to the transactional outbox",
		}),
	}
}

func registerCounter(registerer prometheus.Registerer, opts prometheus.CounterOpts) prometheus.Counter {
	collector := prometheus.NewCounter(opts)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(prometheus.Counter)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register counter %q: %v", opts.Name, err))
	}
	return collector
}

func registerHistogram(registerer prometheus.Registerer, opts prometheus.HistogramOpts) prometheus.Histogram {
	collector := prometheus.NewHistogram(opts)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(prometheus.Histogram)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register histogram %q: %v", opts.Name, err))
	}
	return collector
}

// RecordCheckoutStarted увеличивает счётчик попыток checkout.
func (m *CheckoutMetrics) RecordCheckoutStarted() {
	m.checkoutsStarted.Inc()
}

// RecordCheckoutConfirmed увеличивает счётчик подтверждённых заказов.
func (m *CheckoutMetrics) RecordCheckoutConfirmed() {
	m.checkoutsConfirmed.Inc()
}

// RecordCheckoutFailed увеличивает счётчик неудачных checkout.
func (m *CheckoutMetrics) RecordCheckoutFailed() {
	m.checkoutsFailed.Inc()
}

// RecordInsufficientStock увеличивает счётчик отказов по остаткам.
func (m *CheckoutMetrics) RecordInsufficientStock() {
	m.insufficientStock.Inc()
}

// RecordCancellation увеличивает счётчик отменённых заказов.
func (m *CheckoutMetrics) RecordCancellation() {
	m.cancellations.Inc()
}

// RecordCancellationError увеличивает счётчик неудачных отмен.
func (m *CheckoutMetrics) RecordCancellationError() {
	m.cancellationErrors.Inc()
}

// RecordCheckoutDuration записывает время выполнения checkout.
func (m *CheckoutMetrics) RecordCheckoutDuration(duration time.Duration) {
	m.checkoutDuration.Observe(duration.Seconds())
}

// RecordOutboxEvent увеличивает счётчик событий outbox.
func (m *CheckoutMetrics) RecordOutboxEvent() {
	m.outboxEvents.Inc()
}
