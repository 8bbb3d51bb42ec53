package app

import (
	"context"
	"testing"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.HTTPAddr != ":8080" {
		t.Fatalf("unexpected http addr: %s", cfg.HTTPAddr)
	}
	if cfg.MetricsAddr != ":9090" {
		t.Fatalf("unexpected metrics addr: %s", cfg.MetricsAddr)
	}
	if cfg.PostgresDSN != "" || len(cfg.KafkaBrokers) != 0 {
		t.Fatal("expected empty storage and broker settings by default")
	}
}

func TestInitStorage_MemoryFallback(t *testing.T) {
	logger := log.WithField("component", "app_test")

	storage, err := initStorage(context.Background(), Config{}, logger)
	if err != nil {
		t.Fatalf("init storage failed: %v", err)
	}
	defer storage.Close(logger)

	if storage.Ping != nil {
		t.Fatal("in-memory storage must not expose ping")
	}

	// Единица работы связана с теми же репозиториями.
	err = storage.UnitOfWork.Execute(context.Background(), func(repos domain.Repositories) error {
		return repos.Products.Create(domain.Product{ID: "p-1", Name: "Widget", PriceMinor: 100, Stock: 1})
	})
	if err != nil {
		t.Fatalf("execute failed: %v", err)
	}

	if _, err := storage.Products.Get("p-1"); err != nil {
		t.Fatalf("expected product visible outside unit of work: %v", err)
	}
}
