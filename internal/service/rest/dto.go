package rest

import (
	"time"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
)

// ProductRequest — тело запроса создания и полного обновления товара.
type ProductRequest struct {
	Name       string `json:"name"`
	Category   string `json:"category"`
	PriceMinor int64  `json:"price_minor"`
	Stock      int32  `json:"stock"`
	Image      string `json:"image"`
}

// ProductResponse — внешнее представление товара.
type ProductResponse struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Category   string    `json:"category"`
	PriceMinor int64     `json:"price_minor"`
	Stock      int32     `json:"stock"`
	Image      string    `json:"image,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// ProductPageResponse — страница каталога с метаданными пагинации.
type ProductPageResponse struct {
	Content       []ProductResponse `json:"content"`
	Page          int               `json:"page"`
	Size          int               `json:"size"`
	TotalElements int64             `json:"total_elements"`
	TotalPages    int               `json:"total_pages"`
}

// CheckoutItem — одна позиция корзины в запросе checkout.
type CheckoutItem struct {
	ProductID string `json:"product_id" binding:"required"`
	Qty       int32  `json:"qty"`
}

// CheckoutRequest — тело запроса оформления заказа.
type CheckoutRequest struct {
	UserID string         `json:"user_id"`
	Items  []CheckoutItem `json:"items"`
}

// OrderLineResponse — внешнее представление позиции заказа.
type OrderLineResponse struct {
	ID             string `json:"id"`
	ProductID      string `json:"product_id"`
	ProductName    string `json:"product_name"`
	Qty            int32  `json:"qty"`
	UnitPriceMinor int64  `json:"unit_price_minor"`
	SubtotalMinor  int64  `json:"subtotal_minor"`
}

// OrderResponse — внешнее представление заказа.
type OrderResponse struct {
	ID         string              `json:"id"`
	UserID     string              `json:"user_id,omitempty"`
	Status     string              `json:"status"`
	TotalMinor int64               `json:"total_minor"`
	Lines      []OrderLineResponse `json:"lines"`
	CreatedAt  time.Time           `json:"created_at"`
	UpdatedAt  time.Time           `json:"updated_at"`
}

// LoginRequest — тело запроса входа.
type LoginRequest struct {
	Name     string `json:"name" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// RegisterRequest — тело запроса регистрации.
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// UserResponse — внешнее представление пользователя. Хэш пароля не выдаётся.
type UserResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// ErrorResponse — единый формат ошибок API.
type ErrorResponse struct {
	Timestamp time.Time `json:"timestamp"`
	Status    int       `json:"status"`
	Error     string    `json:"error"`
	Message   string    `json:"message"`
	Path      string    `json:"path"`
}

func toProductResponse(product domain.Product) ProductResponse {
	return ProductResponse{
		ID:         product.ID,
		Name:       product.Name,
		Category:   product.Category,
		PriceMinor: product.PriceMinor,
		Stock:      product.Stock,
		Image:      product.Image,
		CreatedAt:  product.CreatedAt,
		UpdatedAt:  product.UpdatedAt,
	}
}

func toProductResponses(products []domain.Product) []ProductResponse {
	out := make([]ProductResponse, 0, len(products))
	for _, product := range products {
		out = append(out, toProductResponse(product))
	}
	return out
}

func toProductPageResponse(page domain.ProductPage) ProductPageResponse {
	return ProductPageResponse{
		Content:       toProductResponses(page.Items),
		Page:          page.Page,
		Size:          page.Size,
		TotalElements: page.TotalItems,
		TotalPages:    page.TotalPages,
	}
}

func toOrderResponse(order domain.Order) OrderResponse {
	lines := make([]OrderLineResponse, 0, len(order.Lines))
	for _, line := range order.Lines {
		lines = append(lines, OrderLineResponse{
			ID:             line.ID,
			ProductID:      line.ProductID,
			ProductName:    line.ProductName,
			Qty:            line.Qty,
			UnitPriceMinor: line.UnitPriceMinor,
			SubtotalMinor:  line.SubtotalMinor,
		})
	}
	return OrderResponse{
		ID:         order.ID,
		UserID:     order.UserID,
		Status:     string(order.Status),
		TotalMinor: order.TotalMinor,
		Lines:      lines,
		CreatedAt:  order.CreatedAt,
		UpdatedAt:  order.UpdatedAt,
	}
}

func toOrderResponses(orders []domain.Order) []OrderResponse {
	out := make([]OrderResponse, 0, len(orders))
	for _, order := range orders {
		out = append(out, toOrderResponse(order))
	}
	return out
}

func toUserResponse(user domain.User) UserResponse {
	return UserResponse{
		ID:    user.ID,
		Name:  user.Name,
		Email: user.Email,
		Role:  user.Role,
	}
}
