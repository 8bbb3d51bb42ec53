package postgres

import (
	"context"
	"fmt"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
)

// UnitOfWork исполняет fn в одной транзакции PostgreSQL. Репозитории внутри
// fn привязаны к этой транзакции, поэтому SELECT ... FOR UPDATE удерживает
// блокировки строк до commit или rollback.
type UnitOfWork struct {
	store *Store
}

// NewUnitOfWork создаёт транзакционную единицу работы поверх Store.
func NewUnitOfWork(store *Store) *UnitOfWork {
	return &UnitOfWork{store: store}
}

// Execute открывает транзакцию, передаёт tx-привязанные репозитории в fn
// и коммитит при успехе. Любая ошибка откатывает транзакцию целиком.
func (u *UnitOfWork) Execute(ctx context.Context, fn func(domain.Repositories) error) error {
	if u == nil || u.store == nil || u.store.db == nil {
		return fmt.Errorf("postgres unit of work is not initialized")
	}

	tx, err := u.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin unit of work: %w", err)
	}

	repos := domain.Repositories{
		Products: &productRepository{q: tx, ctx: ctx},
		Orders:   &orderRepository{q: tx, ctx: ctx},
		Outbox:   &outboxRepository{q: tx, ctx: ctx},
	}

	if err := fn(repos); err != nil {
		_ = tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit unit of work: %w", err)
	}
	return nil
}

var _ domain.UnitOfWork = (*UnitOfWork)(nil)
