package app

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
	"github.com/vladislavdragonenkov/storefront/internal/storage/memory"
	"github.com/vladislavdragonenkov/storefront/internal/storage/postgres"
)

// Storage объединяет репозитории и единицу работы выбранного хранилища.
type Storage struct {
	Products   domain.ProductRepository
	Orders     domain.OrderRepository
	Users      domain.UserRepository
	Outbox     domain.OutboxRepository
	UnitOfWork domain.UnitOfWork

	// Ping проверяет доступность хранилища; nil для in-memory.
	Ping func() error

	closeFn func() error
}

// Close освобождает ресурсы хранилища.
func (s *Storage) Close(logger *log.Entry) {
	if s == nil || s.closeFn == nil {
		return
	}
	if err := s.closeFn(); err != nil {
		logger.WithError(err).Warn("Не удалось закрыть хранилище")
	}
}

// initStorage выбирает хранилище: PostgreSQL при заданном DSN, иначе in-memory.
func initStorage(ctx context.Context, cfg Config, logger *log.Entry) (*Storage, error) {
	if cfg.PostgresDSN == "" {
		logger.Info("PostgreSQL DSN не задан, используем in-memory хранилище")

		products := memory.NewProductRepository()
		orders := memory.NewOrderRepository()
		outboxRepo := memory.NewOutboxRepository()
		return &Storage{
			Products:   products,
			Orders:     orders,
			Users:      memory.NewUserRepository(),
			Outbox:     outboxRepo,
			UnitOfWork: memory.NewUnitOfWork(products, orders, outboxRepo),
		}, nil
	}

	store, err := postgres.Open(ctx, cfg.PostgresDSN)
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}

	if err := store.MigrateUp(ctx, 0); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("apply migrations: %w", err)
	}
	logger.Info("PostgreSQL хранилище готово, миграции применены")

	return &Storage{
		Products:   postgres.NewProductRepository(store),
		Orders:     postgres.NewOrderRepository(store),
		Users:      postgres.NewUserRepository(store),
		Outbox:     postgres.NewOutboxRepository(store),
		UnitOfWork: postgres.NewUnitOfWork(store),
		Ping: func() error {
			return store.Ping(context.Background())
		},
		closeFn: store.Close,
	}, nil
}
