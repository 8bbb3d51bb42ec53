package main

import (
	"testing"
)

func TestReadConfigDefaults(t *testing.T) {
	t.Setenv("STOREFRONT_HTTP_ADDR", "")
	t.Setenv("STOREFRONT_METRICS_ADDR", "")
	t.Setenv("STOREFRONT_POSTGRES_DSN", "")
	t.Setenv("KAFKA_BROKERS", "")

	cfg := readConfig()
	if cfg.HTTPAddr != ":8080" || cfg.MetricsAddr != ":9090" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.PostgresDSN != "" || len(cfg.KafkaBrokers) != 0 {
		t.Fatalf("expected empty storage settings: %+v", cfg)
	}
}

func TestReadConfigOverrides(t *testing.T) {
	t.Setenv("STOREFRONT_HTTP_ADDR", ":8181")
	t.Setenv("STOREFRONT_METRICS_ADDR", ":9191")
	t.Setenv("STOREFRONT_POSTGRES_DSN", "postgres://localhost/storefront")
	t.Setenv("KAFKA_BROKERS", "broker-1:9092,broker-2:9092")

	cfg := readConfig()
	if cfg.HTTPAddr != ":8181" || cfg.MetricsAddr != ":9191" {
		t.Fatalf("unexpected overrides: %+v", cfg)
	}
	if cfg.PostgresDSN != "postgres://localhost/storefront" {
		t.Fatalf("unexpected dsn: %s", cfg.PostgresDSN)
	}
	if len(cfg.KafkaBrokers) != 2 || cfg.KafkaBrokers[1] != "broker-2:9092" {
		t.Fatalf("unexpected brokers: %v", cfg.KafkaBrokers)
	}
}
