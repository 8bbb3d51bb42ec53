package domain

// CartLine — одна позиция корзины на входе checkout.
// Цена здесь не передаётся: она берётся из каталога в момент покупки.
type CartLine struct {
	ProductID string
	Qty       int32
}
