package memory_test

import (
	"testing"
	"time"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
	"github.com/vladislavdragonenkov/storefront/internal/storage/memory"
)

func newOrder(id string, createdAt time.Time) domain.Order {
	return domain.Order{
		ID:         id,
		UserID:     "user-1",
		Status:     domain.OrderStatusConfirmed,
		TotalMinor: 1500,
		Lines: []domain.OrderLine{
			{ID: id + "-line-1", ProductID: "p-1", ProductName: "Widget", Qty: 3, UnitPriceMinor: 500, SubtotalMinor: 1500, CreatedAt: createdAt},
		},
		Version:   0,
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}
}

func TestOrderRepository_CreateGet(t *testing.T) {
	repo := memory.NewOrderRepository()
	order := newOrder("order-1", time.Now().UTC())

	if err := repo.Create(order); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	stored, err := repo.Get(order.ID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if len(stored.Lines) != 1 {
		t.Fatalf("expected lines to load eagerly, got %d", len(stored.Lines))
	}

	if _, err := repo.Get("missing"); err != domain.ErrOrderNotFound {
		t.Fatalf("expected ErrOrderNotFound, got %v", err)
	}
}

func TestOrderRepository_ListAll_MostRecentFirst(t *testing.T) {
	repo := memory.NewOrderRepository()
	base := time.Now().UTC()
	for i, id := range []string{"order-1", "order-2", "order-3"} {
		if err := repo.Create(newOrder(id, base.Add(time.Duration(i)*time.Minute))); err != nil {
			t.Fatalf("create failed: %v", err)
		}
	}

	orders, err := repo.ListAll()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(orders) != 3 {
		t.Fatalf("expected 3 orders, got %d", len(orders))
	}
	if orders[0].ID != "order-3" || orders[2].ID != "order-1" {
		t.Fatalf("expected most recent first, got %s..%s", orders[0].ID, orders[2].ID)
	}
}

func TestOrderRepository_ListByStatus(t *testing.T) {
	repo := memory.NewOrderRepository()
	confirmed := newOrder("order-1", time.Now().UTC())
	cancelled := newOrder("order-2", time.Now().UTC())
	cancelled.Status = domain.OrderStatusCancelled

	if err := repo.Create(confirmed); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if err := repo.Create(cancelled); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	got, err := repo.ListByStatus(domain.OrderStatusCancelled)
	if err != nil {
		t.Fatalf("list by status failed: %v", err)
	}
	if len(got) != 1 || got[0].ID != "order-2" {
		t.Fatalf("unexpected result: %+v", got)
	}
}

func TestOrderRepository_ListCreatedBetween(t *testing.T) {
	repo := memory.NewOrderRepository()
	base := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	if err := repo.Create(newOrder("order-1", base)); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if err := repo.Create(newOrder("order-2", base.Add(48*time.Hour))); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	got, err := repo.ListCreatedBetween(base, base.Add(24*time.Hour))
	if err != nil {
		t.Fatalf("list created between failed: %v", err)
	}
	if len(got) != 1 || got[0].ID != "order-1" {
		t.Fatalf("unexpected result: %+v", got)
	}
}

func TestOrderRepository_Save_StatusOnly(t *testing.T) {
	repo := memory.NewOrderRepository()
	order := newOrder("order-1", time.Now().UTC())
	if err := repo.Create(order); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	order.Status = domain.OrderStatusCancelled
	order.UpdatedAt = time.Now().UTC()
	if err := repo.Save(order); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	updated, err := repo.Get(order.ID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if updated.Status != domain.OrderStatusCancelled {
		t.Fatalf("expected cancelled, got %s", updated.Status)
	}
	if updated.Version != order.Version+1 {
		t.Fatalf("expected version increment, got %d", updated.Version)
	}
	if updated.TotalMinor != 1500 || len(updated.Lines) != 1 {
		t.Fatal("lines and total must stay untouched by Save")
	}
}

func TestOrderRepository_SaveVersionConflict(t *testing.T) {
	repo := memory.NewOrderRepository()
	order := newOrder("order-1", time.Now().UTC())
	if err := repo.Create(order); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	order.Version = 42
	if err := repo.Save(order); !domain.IsVersionConflict(err) {
		t.Fatalf("expected version conflict, got %v", err)
	}
}
