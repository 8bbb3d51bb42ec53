package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
)

// sortColumns отображает внешние имена полей сортировки на колонки таблицы.
// Значение из map подставляется в ORDER BY, пользовательский ввод — никогда.
var sortColumns = map[string]string{
	"id":          "id",
	"name":        "name",
	"category":    "category",
	"price_minor": "price_minor",
	"stock":       "stock",
	"created_at":  "created_at",
}

const productColumns = "id, name, category, price_minor, stock, image, created_at, updated_at"

type productRepository struct {
	q   querier
	ctx context.Context
}

// NewProductRepository создаёт PostgreSQL-реализацию ProductRepository.
func NewProductRepository(store *Store) domain.ProductRepository {
	return &productRepository{q: store.DB()}
}

func (r *productRepository) Create(product domain.Product) error {
	ctx, cancel := opContext(r.ctx)
	defer cancel()

	_, err := r.q.ExecContext(ctx, `
		INSERT INTO products (`+productColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
	`,
		product.ID, product.Name, product.Category, product.PriceMinor,
		product.Stock, product.Image, product.CreatedAt, product.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

func (r *productRepository) Get(id string) (domain.Product, error) {
	return r.get(id, false)
}

// GetForUpdate блокирует строку товара до конца текущей транзакции.
func (r *productRepository) GetForUpdate(id string) (domain.Product, error) {
	return r.get(id, true)
}

func (r *productRepository) get(id string, forUpdate bool) (domain.Product, error) {
	ctx, cancel := opContext(r.ctx)
	defer cancel()

	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`
	if forUpdate {
		query += ` FOR UPDATE`
	}

	var product domain.Product
	err := r.q.QueryRowContext(ctx, query, id).Scan(
		&product.ID, &product.Name, &product.Category, &product.PriceMinor,
		&product.Stock, &product.Image, &product.CreatedAt, &product.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Product{}, domain.ErrProductNotFound
		}
		return domain.Product{}, fmt.Errorf("select product: %w", err)
	}
	return product, nil
}

func (r *productRepository) Save(product domain.Product) error {
	ctx, cancel := opContext(r.ctx)
	defer cancel()

	res, err := r.q.ExecContext(ctx, `
		UPDATE products
		SET name = $1,
		    category = $2,
		    price_minor = $3,
		    stock = $4,
		    image = $5,
		    updated_at = $6
		WHERE id = $7
	`,
		product.Name, product.Category, product.PriceMinor,
		product.Stock, product.Image, product.UpdatedAt, product.ID,
	)
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return domain.ErrProductNotFound
	}
	return nil
}

func (r *productRepository) Delete(id string) error {
	ctx, cancel := opContext(r.ctx)
	defer cancel()

	res, err := r.q.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return domain.ErrProductNotFound
	}
	return nil
}

func (r *productRepository) List(params domain.ListParams) (domain.ProductPage, error) {
	return r.page(``, nil, params)
}

func (r *productRepository) SearchByName(text string, params domain.ListParams) (domain.ProductPage, error) {
	return r.page(`WHERE name ILIKE '%' || $1 || '%'`, []any{text}, params)
}

// page выполняет постраничную выборку: COUNT по фильтру плюс страница данных.
func (r *productRepository) page(where string, args []any, params domain.ListParams) (domain.ProductPage, error) {
	ctx, cancel := opContext(r.ctx)
	defer cancel()

	if params.Page < 0 {
		params.Page = 0
	}
	if params.Size <= 0 {
		params.Size = 10
	}

	column, ok := sortColumns[params.SortField]
	if !ok {
		column = "name"
	}
	direction := "ASC"
	if !params.SortAsc {
		direction = "DESC"
	}

	var total int64
	countQuery := `SELECT COUNT(*) FROM products ` + where
	if err := r.q.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return domain.ProductPage{}, fmt.Errorf("count products: %w", err)
	}

	limitPos := len(args) + 1
	query := fmt.Sprintf(`
		SELECT %s FROM products %s
		ORDER BY %s %s, id ASC
		LIMIT $%d OFFSET $%d
	`, productColumns, where, column, direction, limitPos, limitPos+1)

	pageArgs := append(append([]any{}, args...), params.Size, params.Page*params.Size)
	items, err := r.queryProducts(ctx, query, pageArgs...)
	if err != nil {
		return domain.ProductPage{}, err
	}

	totalPages := int(total) / params.Size
	if int(total)%params.Size != 0 {
		totalPages++
	}

	return domain.ProductPage{
		Items:      items,
		Page:       params.Page,
		Size:       params.Size,
		TotalItems: total,
		TotalPages: totalPages,
	}, nil
}

func (r *productRepository) ListAll() ([]domain.Product, error) {
	ctx, cancel := opContext(r.ctx)
	defer cancel()

	return r.queryProducts(ctx, `
		SELECT `+productColumns+` FROM products ORDER BY name ASC, id ASC
	`)
}

func (r *productRepository) SearchAllByName(text string) ([]domain.Product, error) {
	ctx, cancel := opContext(r.ctx)
	defer cancel()

	return r.queryProducts(ctx, `
		SELECT `+productColumns+` FROM products
		WHERE name ILIKE '%' || $1 || '%'
		ORDER BY name ASC, id ASC
	`, text)
}

func (r *productRepository) ListInStock(min int32) ([]domain.Product, error) {
	ctx, cancel := opContext(r.ctx)
	defer cancel()

	return r.queryProducts(ctx, `
		SELECT `+productColumns+` FROM products
		WHERE stock > $1
		ORDER BY name ASC, id ASC
	`, min)
}

func (r *productRepository) Count() (int64, error) {
	ctx, cancel := opContext(r.ctx)
	defer cancel()

	var count int64
	if err := r.q.QueryRowContext(ctx, `SELECT COUNT(*) FROM products`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count products: %w", err)
	}
	return count, nil
}

func (r *productRepository) queryProducts(ctx context.Context, query string, args ...any) ([]domain.Product, error) {
	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query products: %w", err)
	}
	defer rows.Close()

	products := make([]domain.Product, 0)
	for rows.Next() {
		var product domain.Product
		if err := rows.Scan(
			&product.ID, &product.Name, &product.Category, &product.PriceMinor,
			&product.Stock, &product.Image, &product.CreatedAt, &product.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan product row: %w", err)
		}
		products = append(products, product)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate product rows: %w", err)
	}
	return products, nil
}

var _ domain.ProductRepository = (*productRepository)(nil)
