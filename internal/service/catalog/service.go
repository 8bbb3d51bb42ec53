package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
)

// Значения пагинации по умолчанию.
const (
	DefaultPage     = 0
	DefaultPageSize = 10
	DefaultSort     = "name"
)

// sortableFields — белый список полей сортировки каталога.
// Всё, что не перечислено здесь, отклоняется до обращения к хранилищу.
var sortableFields = map[string]struct{}{
	"id":          {},
	"name":        {},
	"category":    {},
	"price_minor": {},
	"stock":       {},
	"created_at":  {},
}

// ProductInput — данные товара при создании или полном обновлении.
type ProductInput struct {
	Name       string
	Category   string
	PriceMinor int64
	Stock      int32
	Image      string
}

// PageQuery — параметры постраничной выборки во внешнем виде:
// sort задаётся строкой вида "field,asc" или "field,desc".
type PageQuery struct {
	Page int
	Size int
	Sort string
}

// Service предоставляет CRUD и выборки каталога товаров.
type Service struct {
	products domain.ProductRepository
	logger   *log.Entry
}

// NewService создаёт сервис каталога.
func NewService(products domain.ProductRepository) *Service {
	return &Service{
		products: products,
		logger:   log.WithField("component", "catalog_service"),
	}
}

// Create валидирует и сохраняет новый товар.
func (s *Service) Create(ctx context.Context, input ProductInput) (domain.Product, error) {
	now := time.Now().UTC()
	product := domain.Product{
		ID:         uuid.NewString(),
		Name:       strings.TrimSpace(input.Name),
		Category:   strings.TrimSpace(input.Category),
		PriceMinor: input.PriceMinor,
		Stock:      input.Stock,
		Image:      input.Image,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := product.Validate(); err != nil {
		return domain.Product{}, err
	}

	if err := s.products.Create(product); err != nil {
		return domain.Product{}, fmt.Errorf("create product: %w", err)
	}

	s.logger.WithFields(log.Fields{
		"product_id": product.ID,
		"name":       product.Name,
	}).Info("Товар добавлен в каталог")

	return product, nil
}

// Get возвращает товар по идентификатору.
func (s *Service) Get(ctx context.Context, id string) (domain.Product, error) {
	product, err := s.products.Get(id)
	if err != nil {
		if errors.Is(err, domain.ErrProductNotFound) {
			return domain.Product{}, &domain.NotFoundError{Kind: domain.ResourceProduct, ID: id}
		}
		return domain.Product{}, fmt.Errorf("load product %s: %w", id, err)
	}
	return product, nil
}

// Update полностью заменяет изменяемые поля существующего товара.
// Идентификатор и время создания остаются прежними.
func (s *Service) Update(ctx context.Context, id string, input ProductInput) (domain.Product, error) {
	current, err := s.Get(ctx, id)
	if err != nil {
		return domain.Product{}, err
	}

	current.Name = strings.TrimSpace(input.Name)
	current.Category = strings.TrimSpace(input.Category)
	current.PriceMinor = input.PriceMinor
	current.Stock = input.Stock
	current.Image = input.Image
	current.UpdatedAt = time.Now().UTC()
	if err := current.Validate(); err != nil {
		return domain.Product{}, err
	}

	if err := s.products.Save(current); err != nil {
		return domain.Product{}, fmt.Errorf("save product %s: %w", id, err)
	}
	return current, nil
}

// Delete удаляет товар из каталога.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.products.Delete(id); err != nil {
		if errors.Is(err, domain.ErrProductNotFound) {
			return &domain.NotFoundError{Kind: domain.ResourceProduct, ID: id}
		}
		return fmt.Errorf("delete product %s: %w", id, err)
	}

	s.logger.WithField("product_id", id).Info("Товар удалён из каталога")
	return nil
}

// List возвращает страницу каталога.
func (s *Service) List(ctx context.Context, query PageQuery) (domain.ProductPage, error) {
	params, err := resolveListParams(query)
	if err != nil {
		return domain.ProductPage{}, err
	}
	page, err := s.products.List(params)
	if err != nil {
		return domain.ProductPage{}, fmt.Errorf("list products: %w", err)
	}
	return page, nil
}

// ListAll возвращает весь каталог без пагинации.
func (s *Service) ListAll(ctx context.Context) ([]domain.Product, error) {
	products, err := s.products.ListAll()
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return products, nil
}

// Search возвращает страницу товаров, имя которых содержит text (без учёта регистра).
func (s *Service) Search(ctx context.Context, text string, query PageQuery) (domain.ProductPage, error) {
	params, err := resolveListParams(query)
	if err != nil {
		return domain.ProductPage{}, err
	}
	page, err := s.products.SearchByName(strings.TrimSpace(text), params)
	if err != nil {
		return domain.ProductPage{}, fmt.Errorf("search products: %w", err)
	}
	return page, nil
}

// SearchAll — та же выборка без пагинации.
func (s *Service) SearchAll(ctx context.Context, text string) ([]domain.Product, error) {
	products, err := s.products.SearchAllByName(strings.TrimSpace(text))
	if err != nil {
		return nil, fmt.Errorf("search products: %w", err)
	}
	return products, nil
}

// ListInStock возвращает товары с положительным остатком.
func (s *Service) ListInStock(ctx context.Context) ([]domain.Product, error) {
	products, err := s.products.ListInStock(0)
	if err != nil {
		return nil, fmt.Errorf("list in-stock products: %w", err)
	}
	return products, nil
}

// resolveListParams применяет значения по умолчанию и проверяет сортировку
// по белому списку полей.
func resolveListParams(query PageQuery) (domain.ListParams, error) {
	if query.Page < 0 {
		return domain.ListParams{}, &domain.InvalidValueError{Field: "page", Value: query.Page}
	}
	if query.Size < 0 {
		return domain.ListParams{}, &domain.InvalidValueError{Field: "size", Value: query.Size}
	}

	size := query.Size
	if size == 0 {
		size = DefaultPageSize
	}

	field := DefaultSort
	asc := true
	if raw := strings.TrimSpace(query.Sort); raw != "" {
		parts := strings.SplitN(raw, ",", 2)
		field = strings.ToLower(strings.TrimSpace(parts[0]))
		if len(parts) == 2 {
			switch strings.ToLower(strings.TrimSpace(parts[1])) {
			case "asc", "":
				asc = true
			case "desc":
				asc = false
			default:
				return domain.ListParams{}, &domain.InvalidValueError{Field: "sort", Value: raw}
			}
		}
		if _, ok := sortableFields[field]; !ok {
			return domain.ListParams{}, &domain.InvalidValueError{Field: "sort", Value: raw}
		}
	}

	return domain.ListParams{
		Page:      query.Page,
		Size:      size,
		SortField: field,
		SortAsc:   asc,
	}, nil
}
