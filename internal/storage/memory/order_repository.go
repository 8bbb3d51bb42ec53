package memory

import (
	"sort"
	"sync"
	"time"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
)

// OrderRepository — in-memory реализация domain.OrderRepository.
type OrderRepository struct {
	mu    sync.RWMutex
	items map[string]domain.Order
}

// NewOrderRepository возвращает in-memory хранилище заказов.
func NewOrderRepository() *OrderRepository {
	return &OrderRepository{
		items: make(map[string]domain.Order),
	}
}

// Create сохраняет заказ вместе с позициями.
func (r *OrderRepository) Create(order domain.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.items[order.ID]; exists {
		return domain.ErrOrderVersionConflict
	}
	r.items[order.ID] = cloneOrder(order)
	return nil
}

// Get возвращает заказ или ErrOrderNotFound.
func (r *OrderRepository) Get(id string) (domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	order, ok := r.items[id]
	if !ok {
		return domain.Order{}, domain.ErrOrderNotFound
	}
	return cloneOrder(order), nil
}

// ListAll возвращает все заказы, новые первыми.
func (r *OrderRepository) ListAll() ([]domain.Order, error) {
	return r.list(func(domain.Order) bool { return true })
}

// ListByStatus возвращает заказы в указанном статусе.
func (r *OrderRepository) ListByStatus(status domain.OrderStatus) ([]domain.Order, error) {
	return r.list(func(o domain.Order) bool { return o.Status == status })
}

// ListByUser возвращает заказы пользователя.
func (r *OrderRepository) ListByUser(userID string) ([]domain.Order, error) {
	return r.list(func(o domain.Order) bool { return o.UserID == userID })
}

// ListCreatedBetween возвращает заказы, созданные в интервале [from, to).
func (r *OrderRepository) ListCreatedBetween(from, to time.Time) ([]domain.Order, error) {
	return r.list(func(o domain.Order) bool {
		return !o.CreatedAt.Before(from) && o.CreatedAt.Before(to)
	})
}

// Save применяет смену статуса, проверяя версию (optimistic locking).
// Позиции заказа неизменяемы и не переписываются.
func (r *OrderRepository) Save(order domain.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.items[order.ID]
	if !ok {
		return domain.ErrOrderNotFound
	}
	if current.Version != order.Version {
		return domain.ErrOrderVersionConflict
	}

	current.Status = order.Status
	current.UpdatedAt = order.UpdatedAt
	current.Version++
	r.items[order.ID] = current
	return nil
}

func (r *OrderRepository) list(keep func(domain.Order) bool) ([]domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]domain.Order, 0, len(r.items))
	for _, order := range r.items {
		if keep(order) {
			result = append(result, cloneOrder(order))
		}
	}

	sort.Slice(result, func(i, j int) bool {
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.After(result[j].CreatedAt)
		}
		return result[i].ID > result[j].ID
	})

	return result, nil
}

func (r *OrderRepository) snapshot() map[string]domain.Order {
	r.mu.RLock()
	defer r.mu.RUnlock()

	copied := make(map[string]domain.Order, len(r.items))
	for id, order := range r.items {
		copied[id] = cloneOrder(order)
	}
	return copied
}

func (r *OrderRepository) restore(items map[string]domain.Order) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items = items
}

// cloneOrder копирует заказ вместе со срезом позиций, чтобы вызывающая
// сторона не могла мутировать состояние хранилища.
func cloneOrder(order domain.Order) domain.Order {
	lines := make([]domain.OrderLine, len(order.Lines))
	copy(lines, order.Lines)
	order.Lines = lines
	return order
}

var _ domain.OrderRepository = (*OrderRepository)(nil)
