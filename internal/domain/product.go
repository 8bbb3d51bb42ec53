package domain

import "time"

// Product — товар каталога. Цена хранится в минимальных денежных единицах.
type Product struct {
	ID       string
	Name     string
	Category string
	// PriceMinor — цена за единицу в минимальных денежных единицах (например, центы).
	PriceMinor int64
	// Stock — остаток на складе; инвариант Stock >= 0 поддерживается каждой мутацией.
	Stock int32
	// Image — опциональная ссылка на изображение товара.
	Image     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Validate проверяет бизнес-правила товара перед записью.
// Возвращает первое найденное нарушение (fail fast).
func (p *Product) Validate() error {
	if p.Name == "" {
		return &InvalidValueError{Field: "name", Value: p.Name}
	}
	if p.PriceMinor <= 0 {
		return &InvalidValueError{Field: "price_minor", Value: p.PriceMinor}
	}
	if p.Stock < 0 {
		return &InvalidValueError{Field: "stock", Value: p.Stock}
	}
	return nil
}
