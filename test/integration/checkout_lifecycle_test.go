package integration

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
	"github.com/vladislavdragonenkov/storefront/internal/service/catalog"
	"github.com/vladislavdragonenkov/storefront/internal/service/checkout"
	"github.com/vladislavdragonenkov/storefront/internal/service/outbox"
	"github.com/vladislavdragonenkov/storefront/internal/storage/memory"
)

// capturePublisher собирает опубликованные события вместо брокера.
type capturePublisher struct {
	mu     sync.Mutex
	events []domain.OutboxMessage
}

func (p *capturePublisher) Publish(event domain.OutboxMessage) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *capturePublisher) eventTypes() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	types := make([]string, 0, len(p.events))
	for _, event := range p.events {
		types = append(types, event.EventType)
	}
	return types
}

// CheckoutLifecycleTestSuite тестирует полный жизненный цикл заказа:
// каталог, checkout, доставку событий и отмену с возвратом остатков.
type CheckoutLifecycleTestSuite struct {
	suite.Suite
	products  *memory.ProductRepository
	outboxRep *memory.OutboxRepository
	catalog   *catalog.Service
	engine    *checkout.Engine
	worker    *outbox.Worker
	publisher *capturePublisher
}

func (suite *CheckoutLifecycleTestSuite) SetupTest() {
	suite.products = memory.NewProductRepository()
	orders := memory.NewOrderRepository()
	suite.outboxRep = memory.NewOutboxRepository()
	uow := memory.NewUnitOfWork(suite.products, orders, suite.outboxRep)

	suite.catalog = catalog.NewService(suite.products)
	suite.engine = checkout.NewEngineWithoutMetrics(uow, orders)
	suite.publisher = &capturePublisher{}
	suite.worker = outbox.NewWorker(suite.outboxRep, suite.publisher, nil, outbox.Config{
		PollInterval: 10 * time.Millisecond,
	})
}

func (suite *CheckoutLifecycleTestSuite) TestFullOrderLifecycle() {
	ctx := context.Background()

	// 1. Наполняем каталог.
	laptop, err := suite.catalog.Create(ctx, catalog.ProductInput{
		Name: "Laptop Pro", Category: "laptops", PriceMinor: 199900, Stock: 5,
	})
	require.NoError(suite.T(), err)
	mouse, err := suite.catalog.Create(ctx, catalog.ProductInput{
		Name: "Wireless Mouse", Category: "peripherals", PriceMinor: 4900, Stock: 10,
	})
	require.NoError(suite.T(), err)

	// 2. Оформляем заказ.
	order, err := suite.engine.Checkout(ctx, "customer-123", []domain.CartLine{
		{ProductID: laptop.ID, Qty: 1},
		{ProductID: mouse.ID, Qty: 2},
	})
	require.NoError(suite.T(), err)
	require.Equal(suite.T(), domain.OrderStatusConfirmed, order.Status)
	require.Equal(suite.T(), int64(199900+2*4900), order.TotalMinor)

	storedLaptop, err := suite.products.Get(laptop.ID)
	require.NoError(suite.T(), err)
	require.Equal(suite.T(), int32(4), storedLaptop.Stock)

	// 3. Outbox worker доставляет событие подтверждения.
	suite.worker.ProcessOnce(ctx)
	require.Equal(suite.T(), []string{domain.EventTypeOrderConfirmed}, suite.publisher.eventTypes())

	// 4. Отменяем заказ, остатки возвращаются.
	cancelled, err := suite.engine.Cancel(ctx, order.ID)
	require.NoError(suite.T(), err)
	require.Equal(suite.T(), domain.OrderStatusCancelled, cancelled.Status)

	storedLaptop, err = suite.products.Get(laptop.ID)
	require.NoError(suite.T(), err)
	require.Equal(suite.T(), int32(5), storedLaptop.Stock)

	suite.worker.ProcessOnce(ctx)
	require.Equal(suite.T(),
		[]string{domain.EventTypeOrderConfirmed, domain.EventTypeOrderCancelled},
		suite.publisher.eventTypes(),
	)

	// 5. Backlog пуст, повторная отмена отклоняется.
	stats, err := suite.outboxRep.Stats()
	require.NoError(suite.T(), err)
	require.Equal(suite.T(), 0, stats.PendingCount)

	_, err = suite.engine.Cancel(ctx, order.ID)
	require.ErrorIs(suite.T(), err, domain.ErrOrderAlreadyCancelled)
}

func (suite *CheckoutLifecycleTestSuite) TestFailedCheckoutLeavesNoEvents() {
	ctx := context.Background()

	product, err := suite.catalog.Create(ctx, catalog.ProductInput{
		Name: "Laptop Pro", Category: "laptops", PriceMinor: 199900, Stock: 1,
	})
	require.NoError(suite.T(), err)

	_, err = suite.engine.Checkout(ctx, "customer-123", []domain.CartLine{
		{ProductID: product.ID, Qty: 3},
	})
	var stockErr *domain.InsufficientStockError
	require.ErrorAs(suite.T(), err, &stockErr)

	suite.worker.ProcessOnce(ctx)
	require.Empty(suite.T(), suite.publisher.eventTypes())

	stored, err := suite.products.Get(product.ID)
	require.NoError(suite.T(), err)
	require.Equal(suite.T(), int32(1), stored.Stock)
}

func TestCheckoutLifecycleTestSuite(t *testing.T) {
	suite.Run(t, new(CheckoutLifecycleTestSuite))
}
