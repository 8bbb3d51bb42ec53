package domain

import "time"

// OrderStatus описывает жизненный цикл заказа.
type OrderStatus string

const (
	// OrderStatusPending — временный статус строящегося заказа.
	// Заказ никогда не сохраняется в этом статусе: checkout подтверждает его до первой записи.
	OrderStatusPending OrderStatus = "pending"
	// OrderStatusConfirmed — заказ подтверждён, остатки списаны.
	OrderStatusConfirmed OrderStatus = "confirmed"
	// OrderStatusCancelled — терминальный статус; остатки возвращены на склад.
	OrderStatusCancelled OrderStatus = "cancelled"
)

// ParseOrderStatus разбирает статус из внешнего представления.
func ParseOrderStatus(raw string) (OrderStatus, bool) {
	switch OrderStatus(raw) {
	case OrderStatusPending, OrderStatusConfirmed, OrderStatusCancelled:
		return OrderStatus(raw), true
	default:
		return "", false
	}
}

// OrderLine представляет одну позицию заказа.
// Цена и подытог фиксируются в момент покупки и больше не меняются,
// даже если цена товара в каталоге изменится.
type OrderLine struct {
	ID        string
	ProductID string
	// ProductName — снимок названия товара на момент покупки.
	ProductName string
	// Qty — количество единиц товара.
	Qty int32
	// UnitPriceMinor — замороженная цена за единицу в минимальных денежных единицах.
	UnitPriceMinor int64
	// SubtotalMinor = Qty * UnitPriceMinor, вычисляется один раз при добавлении позиции.
	SubtotalMinor int64
	CreatedAt     time.Time
}

// Order — агрегат заказа. Позиции принадлежат заказу целиком:
// они сохраняются и удаляются только вместе с ним.
type Order struct {
	ID     string
	UserID string
	Status OrderStatus
	// TotalMinor всегда равен сумме подытогов позиций.
	TotalMinor int64
	Lines      []OrderLine
	Version    int64
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// AddLine добавляет позицию и пересчитывает итог заказа.
func (o *Order) AddLine(line OrderLine) {
	o.Lines = append(o.Lines, line)
	o.recalculateTotal()
}

func (o *Order) recalculateTotal() {
	var total int64
	for _, line := range o.Lines {
		total += line.SubtotalMinor
	}
	o.TotalMinor = total
}

// ValidateInvariants проверяет базовые инварианты заказа и возвращает список замечаний.
func (o *Order) ValidateInvariants() []error {
	var errs []error

	switch o.Status {
	case OrderStatusPending, OrderStatusConfirmed, OrderStatusCancelled:
	default:
		errs = append(errs, ErrOrderStatusUnknown)
	}
	if len(o.Lines) == 0 {
		errs = append(errs, ErrOrderLinesRequired)
	}

	// Сверяем итог заказа с суммой позиций: qty * unit price.
	var calc int64
	for _, line := range o.Lines {
		if line.Qty <= 0 {
			errs = append(errs, ErrLineQtyInvalid)
		}
		if line.UnitPriceMinor <= 0 {
			errs = append(errs, ErrLinePriceInvalid)
		}
		if line.SubtotalMinor != int64(line.Qty)*line.UnitPriceMinor {
			errs = append(errs, ErrLineSubtotalMismatch)
		}
		calc += line.SubtotalMinor
	}
	if calc != o.TotalMinor {
		errs = append(errs, ErrTotalMismatch)
	}

	return errs
}
