package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
)

type orderRepository struct {
	q   querier
	ctx context.Context
}

// NewOrderRepository создаёт PostgreSQL-реализацию OrderRepository.
func NewOrderRepository(store *Store) domain.OrderRepository {
	return &orderRepository{q: store.DB()}
}

// txBeginner реализуется *sql.DB: вне единицы работы Create открывает
// собственную транзакцию, чтобы заказ и позиции записались атомарно.
type txBeginner interface {
	BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error)
}

func (r *orderRepository) Create(order domain.Order) error {
	ctx, cancel := opContext(r.ctx)
	defer cancel()

	if beginner, ok := r.q.(txBeginner); ok {
		tx, err := beginner.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("begin tx: %w", err)
		}
		if err := insertOrder(ctx, tx, order); err != nil {
			_ = tx.Rollback()
			return err
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit create order: %w", err)
		}
		return nil
	}

	return insertOrder(ctx, r.q, order)
}

func insertOrder(ctx context.Context, q querier, order domain.Order) error {
	_, err := q.ExecContext(ctx, `
		INSERT INTO orders (id, user_id, status, total_minor, version, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
	`,
		order.ID, order.UserID, string(order.Status), order.TotalMinor,
		order.Version, order.CreatedAt, order.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrOrderVersionConflict
		}
		return fmt.Errorf("insert order: %w", err)
	}

	for _, line := range order.Lines {
		if _, err := q.ExecContext(ctx, `
			INSERT INTO order_lines (
				id, order_id, product_id, product_name, qty,
				unit_price_minor, subtotal_minor, created_at
			) VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		`,
			line.ID, order.ID, line.ProductID, line.ProductName,
			line.Qty, line.UnitPriceMinor, line.SubtotalMinor, line.CreatedAt,
		); err != nil {
			return fmt.Errorf("insert order line: %w", err)
		}
	}

	return nil
}

func (r *orderRepository) Get(id string) (domain.Order, error) {
	ctx, cancel := opContext(r.ctx)
	defer cancel()

	var (
		order  domain.Order
		status string
	)
	err := r.q.QueryRowContext(ctx, `
		SELECT id, user_id, status, total_minor, version, created_at, updated_at
		FROM orders
		WHERE id = $1
	`, id).Scan(
		&order.ID, &order.UserID, &status, &order.TotalMinor,
		&order.Version, &order.CreatedAt, &order.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Order{}, domain.ErrOrderNotFound
		}
		return domain.Order{}, fmt.Errorf("select order: %w", err)
	}
	order.Status = domain.OrderStatus(status)

	lines, err := r.loadLines(ctx, order.ID)
	if err != nil {
		return domain.Order{}, err
	}
	order.Lines = lines

	return order, nil
}

func (r *orderRepository) ListAll() ([]domain.Order, error) {
	return r.list(``, nil)
}

func (r *orderRepository) ListByStatus(status domain.OrderStatus) ([]domain.Order, error) {
	return r.list(`WHERE status = $1`, []any{string(status)})
}

func (r *orderRepository) ListByUser(userID string) ([]domain.Order, error) {
	return r.list(`WHERE user_id = $1`, []any{userID})
}

func (r *orderRepository) ListCreatedBetween(from, to time.Time) ([]domain.Order, error) {
	return r.list(`WHERE created_at >= $1 AND created_at < $2`, []any{from, to})
}

func (r *orderRepository) list(where string, args []any) ([]domain.Order, error) {
	ctx, cancel := opContext(r.ctx)
	defer cancel()

	rows, err := r.q.QueryContext(ctx, `
		SELECT id, user_id, status, total_minor, version, created_at, updated_at
		FROM orders `+where+`
		ORDER BY created_at DESC, id DESC
	`, args...)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	orders := make([]domain.Order, 0)
	for rows.Next() {
		var (
			order  domain.Order
			status string
		)
		if err := rows.Scan(
			&order.ID, &order.UserID, &status, &order.TotalMinor,
			&order.Version, &order.CreatedAt, &order.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan order row: %w", err)
		}
		order.Status = domain.OrderStatus(status)
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate order rows: %w", err)
	}

	if err := r.attachLines(ctx, orders); err != nil {
		return nil, err
	}

	return orders, nil
}

// attachLines загружает позиции всех заказов одним запросом и раскладывает
// их по заказам в памяти, без отдельного запроса на каждый заказ.
func (r *orderRepository) attachLines(ctx context.Context, orders []domain.Order) error {
	if len(orders) == 0 {
		return nil
	}

	ids := make([]string, 0, len(orders))
	for _, order := range orders {
		ids = append(ids, order.ID)
	}

	rows, err := r.q.QueryContext(ctx, `
		SELECT order_id, id, product_id, product_name, qty, unit_price_minor, subtotal_minor, created_at
		FROM order_lines
		WHERE order_id = ANY($1)
		ORDER BY created_at ASC, id ASC
	`, ids)
	if err != nil {
		return fmt.Errorf("load order lines: %w", err)
	}
	defer rows.Close()

	byOrder := make(map[string][]domain.OrderLine, len(orders))
	for rows.Next() {
		var (
			orderID string
			line    domain.OrderLine
		)
		if err := rows.Scan(
			&orderID, &line.ID, &line.ProductID, &line.ProductName,
			&line.Qty, &line.UnitPriceMinor, &line.SubtotalMinor, &line.CreatedAt,
		); err != nil {
			return fmt.Errorf("scan order line: %w", err)
		}
		byOrder[orderID] = append(byOrder[orderID], line)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate order lines: %w", err)
	}

	for i := range orders {
		lines := byOrder[orders[i].ID]
		if lines == nil {
			lines = make([]domain.OrderLine, 0)
		}
		orders[i].Lines = lines
	}
	return nil
}

// Save применяет только смену статуса с optimistic locking по version.
func (r *orderRepository) Save(order domain.Order) error {
	ctx, cancel := opContext(r.ctx)
	defer cancel()

	res, err := r.q.ExecContext(ctx, `
		UPDATE orders
		SET status = $1,
		    version = version + 1,
		    updated_at = $2
		WHERE id = $3
		  AND version = $4
	`, string(order.Status), order.UpdatedAt, order.ID, order.Version)
	if err != nil {
		return fmt.Errorf("update order: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		var id string
		err := r.q.QueryRowContext(ctx, `SELECT id FROM orders WHERE id = $1`, order.ID).Scan(&id)
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrOrderNotFound
		}
		if err != nil {
			return fmt.Errorf("check order exists: %w", err)
		}
		return domain.ErrOrderVersionConflict
	}

	return nil
}

func (r *orderRepository) loadLines(ctx context.Context, orderID string) ([]domain.OrderLine, error) {
	rows, err := r.q.QueryContext(ctx, `
		SELECT id, product_id, product_name, qty, unit_price_minor, subtotal_minor, created_at
		FROM order_lines
		WHERE order_id = $1
		ORDER BY created_at ASC, id ASC
	`, orderID)
	if err != nil {
		return nil, fmt.Errorf("load order lines: %w", err)
	}
	defer rows.Close()

	lines := make([]domain.OrderLine, 0)
	for rows.Next() {
		var line domain.OrderLine
		if err := rows.Scan(
			&line.ID, &line.ProductID, &line.ProductName, &line.Qty,
			&line.UnitPriceMinor, &line.SubtotalMinor, &line.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan order line: %w", err)
		}
		lines = append(lines, line)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate order lines: %w", err)
	}

	return lines, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}

var _ domain.OrderRepository = (*orderRepository)(nil)
