package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrCartEmpty — checkout вызван с пустой корзиной.
	ErrCartEmpty = errors.New("cart must contain at least one line")
	// ErrOrderLinesRequired — заказ без единой позиции.
	ErrOrderLinesRequired = errors.New("order must contain at least one line")
	// ErrOrderStatusUnknown — неизвестный статус заказа.
	ErrOrderStatusUnknown = errors.New("order status is unknown")
	// ErrLineQtyInvalid — некорректное количество в позиции (<= 0).
	ErrLineQtyInvalid = errors.New("line qty must be greater than zero")
	// ErrLinePriceInvalid — цена позиции должна быть положительной.
	ErrLinePriceInvalid = errors.New("line unit price must be greater than zero")
	// ErrLineSubtotalMismatch — подытог позиции не равен qty * unit price.
	ErrLineSubtotalMismatch = errors.New("line subtotal does not match qty * unit price")
	// ErrTotalMismatch — итог заказа не равен сумме подытогов позиций.
	ErrTotalMismatch = errors.New("order total does not match lines sum")
	// ErrProductNotFound возвращается, если товар не найден в хранилище.
	ErrProductNotFound = errors.New("product not found")
	// ErrOrderNotFound возвращается, если заказ не найден в хранилище.
	ErrOrderNotFound = errors.New("order not found")
	// ErrUserNotFound возвращается, если пользователь не найден.
	ErrUserNotFound = errors.New("user not found")
	// ErrOrderAlreadyCancelled — повторная отмена терминального заказа.
	// Явная бизнес-ошибка, а не тихий no-op: остатки при этом не трогаются.
	ErrOrderAlreadyCancelled = errors.New("order is already cancelled")
	// ErrOrderVersionConflict сигнализирует о конфликте версий при сохранении.
	ErrOrderVersionConflict = errors.New("order version conflict")
	// ErrInvalidCredentials — неизвестный пользователь или неверный пароль.
	// Формулировка едина, чтобы не раскрывать, что именно не совпало.
	ErrInvalidCredentials = errors.New("invalid username or password")
	// ErrUserAlreadyExists — имя или email уже заняты.
	ErrUserAlreadyExists = errors.New("user already exists")
	// ErrOutboxPublish — ошибка при публикации сообщения из outbox.
	ErrOutboxPublish = errors.New("outbox publish failed")
)

// Виды ресурсов для NotFoundError.
const (
	ResourceProduct = "product"
	ResourceOrder   = "order"
	ResourceUser    = "user"
)

// NotFoundError уточняет, какой именно ресурс и с каким идентификатором не найден.
// Разворачивается в соответствующую sentinel-ошибку, поэтому errors.Is продолжает работать.
type NotFoundError struct {
	Kind string
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Kind, e.ID)
}

func (e *NotFoundError) Unwrap() error {
	switch e.Kind {
	case ResourceProduct:
		return ErrProductNotFound
	case ResourceOrder:
		return ErrOrderNotFound
	case ResourceUser:
		return ErrUserNotFound
	default:
		return nil
	}
}

// InsufficientStockError — позиция корзины превышает доступный остаток.
type InsufficientStockError struct {
	ProductName string
	Requested   int32
	Available   int32
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %q: requested %d, available %d",
		e.ProductName, e.Requested, e.Available)
}

// InvalidValueError — значение поля нарушает бизнес-правила записи товара.
type InvalidValueError struct {
	Field string
	Value any
}

func (e *InvalidValueError) Error() string {
	return fmt.Sprintf("invalid value for %s: %v", e.Field, e.Value)
}

// IsNotFound проверяет, является ли ошибка отсутствием ресурса любого вида.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrProductNotFound) ||
		errors.Is(err, ErrOrderNotFound) ||
		errors.Is(err, ErrUserNotFound)
}

// IsVersionConflict проверяет, является ли ошибка конфликтом версий.
func IsVersionConflict(err error) bool {
	return errors.Is(err, ErrOrderVersionConflict)
}
