package domain

import (
	"context"
	"time"
)

// ListParams задаёт страницу, размер и сортировку выборки каталога.
type ListParams struct {
	Page int
	Size int
	// SortField — одно из полей из списка допустимых (см. catalog.Service).
	SortField string
	SortAsc   bool
}

// ProductPage — одна страница каталога вместе с метаданными пагинации.
type ProductPage struct {
	Items      []Product
	Page       int
	Size       int
	TotalItems int64
	TotalPages int
}

// ProductRepository описывает требования к хранилищу товаров.
type ProductRepository interface {
	// Create сохраняет новый товар.
	Create(product Product) error
	// Get возвращает товар по идентификатору или ErrProductNotFound.
	Get(id string) (Product, error)
	// GetForUpdate возвращает товар, удерживая блокировку строки до конца
	// текущей единицы работы. Вне транзакции эквивалентен Get.
	GetForUpdate(id string) (Product, error)
	// Save перезаписывает изменяемые поля существующего товара.
	Save(product Product) error
	// Delete удаляет товар или возвращает ErrProductNotFound.
	Delete(id string) error
	// List возвращает страницу каталога с сортировкой.
	List(params ListParams) (ProductPage, error)
	// ListAll возвращает весь каталог без пагинации.
	ListAll() ([]Product, error)
	// SearchByName ищет товары по подстроке имени без учёта регистра (постранично).
	SearchByName(text string, params ListParams) (ProductPage, error)
	// SearchAllByName — та же выборка без пагинации.
	SearchAllByName(text string) ([]Product, error)
	// ListInStock возвращает товары с остатком строго больше min.
	ListInStock(min int32) ([]Product, error)
	// Count возвращает общее количество товаров.
	Count() (int64, error)
}

// OrderRepository описывает требования к хранилищу заказов.
// Все методы чтения возвращают заказы с загруженными позициями.
type OrderRepository interface {
	// Create сохраняет заказ вместе со всеми позициями одной операцией.
	Create(order Order) error
	// Get возвращает заказ по идентификатору или ErrOrderNotFound.
	Get(id string) (Order, error)
	// ListAll возвращает все заказы, новые первыми.
	ListAll() ([]Order, error)
	// ListByStatus возвращает заказы в указанном статусе, новые первыми.
	ListByStatus(status OrderStatus) ([]Order, error)
	// ListByUser возвращает заказы пользователя, новые первыми.
	ListByUser(userID string) ([]Order, error)
	// ListCreatedBetween возвращает заказы, созданные в интервале [from, to).
	ListCreatedBetween(from, to time.Time) ([]Order, error)
	// Save применяет смену статуса с учётом optimistic locking.
	// Позиции заказа неизменяемы и этим методом не переписываются.
	Save(order Order) error
}

// UserRepository описывает требования к хранилищу пользователей.
type UserRepository interface {
	// Create сохраняет пользователя; имя и email уникальны.
	Create(user User) error
	// GetByName возвращает пользователя по логину или ErrUserNotFound.
	GetByName(name string) (User, error)
	// GetByEmail возвращает пользователя по email или ErrUserNotFound.
	GetByEmail(email string) (User, error)
}

// Repositories — набор репозиториев, привязанных к одной единице работы.
type Repositories struct {
	Products ProductRepository
	Orders   OrderRepository
	Outbox   OutboxRepository
}

// UnitOfWork исполняет fn атомарно: все записи репозиториев из Repositories
// фиксируются вместе или откатываются целиком при любой ошибке.
// Это единственная граница транзакций checkout и отмены заказа.
type UnitOfWork interface {
	Execute(ctx context.Context, fn func(Repositories) error) error
}
