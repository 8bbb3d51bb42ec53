package memory

import (
	"context"
	"sync"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
)

// UnitOfWork — in-memory единица работы. Транзакции сериализуются общим
// мьютексом; перед выполнением fn снимается снимок состояния репозиториев,
// и при ошибке он восстанавливается целиком. Этого достаточно, чтобы
// checkout и отмена заказа вели себя атомарно в разработке и тестах;
// изоляцию уровня БД in-memory хранилище не обещает.
type UnitOfWork struct {
	mu       sync.Mutex
	products *ProductRepository
	orders   *OrderRepository
	outbox   *OutboxRepository
}

// NewUnitOfWork связывает единицу работы с конкретными in-memory репозиториями.
func NewUnitOfWork(products *ProductRepository, orders *OrderRepository, outbox *OutboxRepository) *UnitOfWork {
	return &UnitOfWork{
		products: products,
		orders:   orders,
		outbox:   outbox,
	}
}

// Execute выполняет fn атомарно: все изменения фиксируются вместе
// или откатываются к снимку при любой ошибке.
func (u *UnitOfWork) Execute(ctx context.Context, fn func(domain.Repositories) error) error {
	u.mu.Lock()
	defer u.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	productsBefore := u.products.snapshot()
	ordersBefore := u.orders.snapshot()
	outboxBefore := u.outbox.snapshot()

	repos := domain.Repositories{
		Products: u.products,
		Orders:   u.orders,
		Outbox:   u.outbox,
	}

	if err := fn(repos); err != nil {
		u.products.restore(productsBefore)
		u.orders.restore(ordersBefore)
		u.outbox.restore(outboxBefore)
		return err
	}

	return nil
}

var _ domain.UnitOfWork = (*UnitOfWork)(nil)
