package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

func TestNewCheckoutMetricsRecords(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := newCheckoutMetricsWithRegisterer(registry)

	m.RecordCheckoutStarted()
	m.RecordCheckoutConfirmed()
	m.RecordCheckoutFailed()
	m.RecordInsufficientStock()
	m.RecordCancellation()
	m.RecordCancellationError()
	m.RecordOutboxEvent()
	m.RecordCheckoutDuration(25 * time.Millisecond)

	families, err := registry.Gather()
	if err != nil {
		t.Fatalf("gather failed: %v", err)
	}
	if len(families) == 0 {
		t.Fatal("expected registered metric families")
	}

	found := map[string]bool{}
	for _, family := range families {
		found[family.GetName()] = true
	}
	for _, name := range []string{
		"storefront_checkouts_started_total",
		"storefront_checkouts_confirmed_total",
		"storefront_checkout_insufficient_stock_total",
		"storefront_checkout_duration_seconds",
	} {
		if !found[name] {
			t.Fatalf("expected metric %s to be registered", name)
		}
	}
}

func TestNewCheckoutMetricsReusesCollectors(t *testing.T) {
	registry := prometheus.NewRegistry()

	first := newCheckoutMetricsWithRegisterer(registry)
	// Повторная регистрация в том же registry не должна паниковать.
	second := newCheckoutMetricsWithRegisterer(registry)

	first.RecordCheckoutStarted()
	second.RecordCheckoutStarted()

	families, err := registry.Gather()
	if err != nil {
		t.Fatalf("gather failed: %v", err)
	}
	for _, family := range families {
		if family.GetName() == "storefront_checkouts_started_total" {
			if got := family.GetMetric()[0].GetCounter().GetValue(); got != 2 {
				t.Fatalf("expected shared counter value 2, got %v", got)
			}
			return
		}
	}
	t.Fatal("checkouts started counter not found")
}
