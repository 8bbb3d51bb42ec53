package checkout

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
	"github.com/vladislavdragonenkov/storefront/internal/metrics"
)

// Engine проводит checkout и отмену заказов. Вся работа с остатками
// выполняется внутри одной единицы работы: либо списываются остатки по
// всем позициям и сохраняется подтверждённый заказ, либо не меняется ничего.
type Engine struct {
	uow    domain.UnitOfWork
	orders domain.OrderRepository

	logger  *log.Entry
	metrics *metrics.CheckoutMetrics
}

// NewEngine создаёт движок checkout с метриками.
func NewEngine(uow domain.UnitOfWork, orders domain.OrderRepository, checkoutMetrics *metrics.CheckoutMetrics) *Engine {
	return &Engine{
		uow:     uow,
		orders:  orders,
		logger:  log.WithField("component", "checkout_engine"),
		metrics: checkoutMetrics,
	}
}

// NewEngineWithoutMetrics создаёт движок checkout без метрик (для тестов).
func NewEngineWithoutMetrics(uow domain.UnitOfWork, orders domain.OrderRepository) *Engine {
	return NewEngine(uow, orders, nil)
}

// Checkout превращает корзину в подтверждённый заказ.
//
// Позиции обрабатываются строго в порядке корзины, первая же проблема
// прерывает всю операцию. Для каждой позиции остаток проверяется и
// списывается под блокировкой, цена и название товара замораживаются
// в позиции заказа. Заказ сохраняется сразу в статусе confirmed,
// событие order.confirmed попадает в outbox той же транзакцией.
func (e *Engine) Checkout(ctx context.Context, userID string, cart []domain.CartLine) (domain.Order, error) {
	start := time.Now()
	if e.metrics != nil {
		e.metrics.RecordCheckoutStarted()
		defer func() {
			e.metrics.RecordCheckoutDuration(time.Since(start))
		}()
	}

	if len(cart) == 0 {
		e.recordCheckoutFailure()
		return domain.Order{}, domain.ErrCartEmpty
	}

	var confirmed domain.Order
	err := e.uow.Execute(ctx, func(repos domain.Repositories) error {
		now := time.Now().UTC()
		order := domain.Order{
			ID:        uuid.NewString(),
			UserID:    userID,
			Status:    domain.OrderStatusPending,
			CreatedAt: now,
			UpdatedAt: now,
		}

		for _, line := range cart {
			if line.Qty <= 0 {
				return &domain.InvalidValueError{Field: "quantity", Value: line.Qty}
			}

			product, err := repos.Products.GetForUpdate(line.ProductID)
			if err != nil {
				if errors.Is(err, domain.ErrProductNotFound) {
					return &domain.NotFoundError{Kind: domain.ResourceProduct, ID: line.ProductID}
				}
				return fmt.Errorf("lock product %s: %w", line.ProductID, err)
			}

			if product.Stock < line.Qty {
				if e.metrics != nil {
					e.metrics.RecordInsufficientStock()
				}
				return &domain.InsufficientStockError{
					ProductName: product.Name,
					Requested:   line.Qty,
					Available:   product.Stock,
				}
			}

			product.Stock -= line.Qty
			product.UpdatedAt = now
			if err := repos.Products.Save(product); err != nil {
				return fmt.Errorf("save product %s: %w", product.ID, err)
			}

			order.AddLine(domain.OrderLine{
				ID:             uuid.NewString(),
				ProductID:      product.ID,
				ProductName:    product.Name,
				Qty:            line.Qty,
				UnitPriceMinor: product.PriceMinor,
				SubtotalMinor:  int64(line.Qty) * product.PriceMinor,
				CreatedAt:      now,
			})
		}

		order.Status = domain.OrderStatusConfirmed
		if errs := order.ValidateInvariants(); len(errs) > 0 {
			return fmt.Errorf("order %s violates invariants: %w", order.ID, errors.Join(errs...))
		}

		if err := repos.Orders.Create(order); err != nil {
			return fmt.Errorf("create order %s: %w", order.ID, err)
		}
		if err := e.emitOrderEvent(repos.Outbox, order, domain.EventTypeOrderConfirmed, now); err != nil {
			return err
		}

		confirmed = order
		return nil
	})
	if err != nil {
		e.recordCheckoutFailure()
		e.logger.WithError(err).Warn("Checkout отклонён")
		return domain.Order{}, err
	}

	if e.metrics != nil {
		e.metrics.RecordCheckoutConfirmed()
	}
	e.logger.WithFields(log.Fields{
		"order_id":    confirmed.ID,
		"lines":       len(confirmed.Lines),
		"total_minor": confirmed.TotalMinor,
	}).Info("Заказ подтверждён")

	return confirmed, nil
}

// Cancel отменяет подтверждённый заказ и возвращает остатки на склад.
// Повторная отмена возвращает ErrOrderAlreadyCancelled, не трогая остатки.
func (e *Engine) Cancel(ctx context.Context, orderID string) (domain.Order, error) {
	var cancelled domain.Order
	err := e.uow.Execute(ctx, func(repos domain.Repositories) error {
		order, err := repos.Orders.Get(orderID)
		if err != nil {
			if errors.Is(err, domain.ErrOrderNotFound) {
				return &domain.NotFoundError{Kind: domain.ResourceOrder, ID: orderID}
			}
			return fmt.Errorf("load order %s: %w", orderID, err)
		}

		if order.Status == domain.OrderStatusCancelled {
			return domain.ErrOrderAlreadyCancelled
		}

		now := time.Now().UTC()
		for _, line := range order.Lines {
			product, err := repos.Products.GetForUpdate(line.ProductID)
			if err != nil {
				if errors.Is(err, domain.ErrProductNotFound) {
					return &domain.NotFoundError{Kind: domain.ResourceProduct, ID: line.ProductID}
				}
				return fmt.Errorf("lock product %s: %w", line.ProductID, err)
			}

			product.Stock += line.Qty
			product.UpdatedAt = now
			if err := repos.Products.Save(product); err != nil {
				return fmt.Errorf("restore stock for product %s: %w", product.ID, err)
			}
		}

		order.Status = domain.OrderStatusCancelled
		order.UpdatedAt = now
		if err := repos.Orders.Save(order); err != nil {
			return fmt.Errorf("save order %s: %w", order.ID, err)
		}
		if err := e.emitOrderEvent(repos.Outbox, order, domain.EventTypeOrderCancelled, now); err != nil {
			return err
		}

		cancelled, err = repos.Orders.Get(order.ID)
		if err != nil {
			return fmt.Errorf("reload order %s: %w", order.ID, err)
		}
		return nil
	})
	if err != nil {
		if e.metrics != nil {
			e.metrics.RecordCancellationError()
		}
		e.logger.WithError(err).WithField("order_id", orderID).Warn("Отмена заказа отклонена")
		return domain.Order{}, err
	}

	if e.metrics != nil {
		e.metrics.RecordCancellation()
	}
	e.logger.WithFields(log.Fields{
		"order_id": cancelled.ID,
		"lines":    len(cancelled.Lines),
	}).Info("Заказ отменён, остатки возвращены")

	return cancelled, nil
}

// GetOrder возвращает заказ по идентификатору.
func (e *Engine) GetOrder(ctx context.Context, orderID string) (domain.Order, error) {
	order, err := e.orders.Get(orderID)
	if err != nil {
		if errors.Is(err, domain.ErrOrderNotFound) {
			return domain.Order{}, &domain.NotFoundError{Kind: domain.ResourceOrder, ID: orderID}
		}
		return domain.Order{}, fmt.Errorf("load order %s: %w", orderID, err)
	}
	return order, nil
}

// ListOrders возвращает все заказы, новые первыми.
func (e *Engine) ListOrders(ctx context.Context) ([]domain.Order, error) {
	return e.orders.ListAll()
}

// ListOrdersByStatus возвращает заказы в указанном статусе.
func (e *Engine) ListOrdersByStatus(ctx context.Context, status domain.OrderStatus) ([]domain.Order, error) {
	return e.orders.ListByStatus(status)
}

// ListOrdersByUser возвращает заказы пользователя.
func (e *Engine) ListOrdersByUser(ctx context.Context, userID string) ([]domain.Order, error) {
	return e.orders.ListByUser(userID)
}

// ListOrdersCreatedBetween возвращает заказы, созданные в интервале [from, to).
func (e *Engine) ListOrdersCreatedBetween(ctx context.Context, from, to time.Time) ([]domain.Order, error) {
	if !from.Before(to) {
		return nil, &domain.InvalidValueError{Field: "to", Value: to.Format(time.RFC3339)}
	}
	return e.orders.ListCreatedBetween(from, to)
}

// orderEvent — полезная нагрузка событий order.confirmed и order.cancelled.
type orderEvent struct {
	OrderID    string    `json:"order_id"`
	UserID     string    `json:"user_id,omitempty"`
	Status     string    `json:"status"`
	TotalMinor int64     `json:"total_minor"`
	LineCount  int       `json:"line_count"`
	OccurredAt time.Time `json:"occurred_at"`
}

func (e *Engine) emitOrderEvent(outbox domain.OutboxRepository, order domain.Order, eventType string, occurredAt time.Time) error {
	payload, err := json.Marshal(orderEvent{
		OrderID:    order.ID,
		UserID:     order.UserID,
		Status:     string(order.Status),
		TotalMinor: order.TotalMinor,
		LineCount:  len(order.Lines),
		OccurredAt: occurredAt,
	})
	if err != nil {
		return fmt.Errorf("marshal %s event: %w", eventType, err)
	}

	if _, err := outbox.Enqueue(domain.OutboxMessage{
		AggregateType: domain.AggregateOrder,
		AggregateID:   order.ID,
		EventType:     eventType,
		Payload:       payload,
	}); err != nil {
		return fmt.Errorf("enqueue %s event: %w", eventType, err)
	}

	if e.metrics != nil {
		e.metrics.RecordOutboxEvent()
	}
	return nil
}

func (e *Engine) recordCheckoutFailure() {
	if e.metrics != nil {
		e.metrics.RecordCheckoutFailed()
	}
}
