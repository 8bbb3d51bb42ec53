package memory

import (
	"sort"
	"strings"
	"sync"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
)

// ProductRepository — in-memory реализация domain.ProductRepository
// для локальной разработки и тестов.
type ProductRepository struct {
	mu    sync.RWMutex
	items map[string]domain.Product
}

// NewProductRepository возвращает пустой in-memory каталог.
func NewProductRepository() *ProductRepository {
	return &ProductRepository{
		items: make(map[string]domain.Product),
	}
}

// Create сохраняет новый товар.
func (r *ProductRepository) Create(product domain.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	// Сохраняем копию, чтобы избежать непредсказуемых мутаций извне.
	r.items[product.ID] = product
	return nil
}

// Get возвращает товар или ErrProductNotFound.
func (r *ProductRepository) Get(id string) (domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	product, ok := r.items[id]
	if !ok {
		return domain.Product{}, domain.ErrProductNotFound
	}
	return product, nil
}

// GetForUpdate эквивалентен Get: единицы работы in-memory хранилища
// сериализуются целиком, отдельная блокировка строки не нужна.
func (r *ProductRepository) GetForUpdate(id string) (domain.Product, error) {
	return r.Get(id)
}

// Save перезаписывает существующий товар.
func (r *ProductRepository) Save(product domain.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[product.ID]; !ok {
		return domain.ErrProductNotFound
	}
	r.items[product.ID] = product
	return nil
}

// Delete удаляет товар или возвращает ErrProductNotFound.
func (r *ProductRepository) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[id]; !ok {
		return domain.ErrProductNotFound
	}
	delete(r.items, id)
	return nil
}

// List возвращает страницу каталога с сортировкой.
func (r *ProductRepository) List(params domain.ListParams) (domain.ProductPage, error) {
	r.mu.RLock()
	all := r.collect(func(domain.Product) bool { return true })
	r.mu.RUnlock()

	return paginate(all, params), nil
}

// ListAll возвращает весь каталог, отсортированный по имени.
func (r *ProductRepository) ListAll() ([]domain.Product, error) {
	r.mu.RLock()
	all := r.collect(func(domain.Product) bool { return true })
	r.mu.RUnlock()

	sortProducts(all, "name", true)
	return all, nil
}

// SearchByName ищет по подстроке имени без учёта регистра (постранично).
func (r *ProductRepository) SearchByName(text string, params domain.ListParams) (domain.ProductPage, error) {
	needle := strings.ToLower(text)

	r.mu.RLock()
	matched := r.collect(func(p domain.Product) bool {
		return strings.Contains(strings.ToLower(p.Name), needle)
	})
	r.mu.RUnlock()

	return paginate(matched, params), nil
}

// SearchAllByName — та же выборка без пагинации.
func (r *ProductRepository) SearchAllByName(text string) ([]domain.Product, error) {
	needle := strings.ToLower(text)

	r.mu.RLock()
	matched := r.collect(func(p domain.Product) bool {
		return strings.Contains(strings.ToLower(p.Name), needle)
	})
	r.mu.RUnlock()

	sortProducts(matched, "name", true)
	return matched, nil
}

// ListInStock возвращает товары с остатком строго больше min.
func (r *ProductRepository) ListInStock(min int32) ([]domain.Product, error) {
	r.mu.RLock()
	matched := r.collect(func(p domain.Product) bool { return p.Stock > min })
	r.mu.RUnlock()

	sortProducts(matched, "name", true)
	return matched, nil
}

// Count возвращает общее количество товаров.
func (r *ProductRepository) Count() (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return int64(len(r.items)), nil
}

func (r *ProductRepository) collect(keep func(domain.Product) bool) []domain.Product {
	result := make([]domain.Product, 0, len(r.items))
	for _, product := range r.items {
		if keep(product) {
			result = append(result, product)
		}
	}
	return result
}

func (r *ProductRepository) snapshot() map[string]domain.Product {
	r.mu.RLock()
	defer r.mu.RUnlock()

	copied := make(map[string]domain.Product, len(r.items))
	for id, product := range r.items {
		copied[id] = product
	}
	return copied
}

func (r *ProductRepository) restore(items map[string]domain.Product) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items = items
}

func paginate(products []domain.Product, params domain.ListParams) domain.ProductPage {
	if params.Size <= 0 {
		params.Size = 10
	}
	if params.Page < 0 {
		params.Page = 0
	}

	sortProducts(products, params.SortField, params.SortAsc)

	total := int64(len(products))
	totalPages := int((total + int64(params.Size) - 1) / int64(params.Size))

	start := params.Page * params.Size
	if start > len(products) {
		start = len(products)
	}
	end := start + params.Size
	if end > len(products) {
		end = len(products)
	}

	return domain.ProductPage{
		Items:      products[start:end],
		Page:       params.Page,
		Size:       params.Size,
		TotalItems: total,
		TotalPages: totalPages,
	}
}

func sortProducts(products []domain.Product, field string, asc bool) {
	less := func(a, b domain.Product) bool { return a.Name < b.Name }
	switch field {
	case "category":
		less = func(a, b domain.Product) bool { return a.Category < b.Category }
	case "price_minor":
		less = func(a, b domain.Product) bool { return a.PriceMinor < b.PriceMinor }
	case "stock":
		less = func(a, b domain.Product) bool { return a.Stock < b.Stock }
	case "created_at":
		less = func(a, b domain.Product) bool { return a.CreatedAt.Before(b.CreatedAt) }
	case "id":
		less = func(a, b domain.Product) bool { return a.ID < b.ID }
	}

	sort.SliceStable(products, func(i, j int) bool {
		if asc {
			return less(products[i], products[j])
		}
		return less(products[j], products[i])
	})
}

var _ domain.ProductRepository = (*ProductRepository)(nil)
