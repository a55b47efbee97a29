package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"orders-ms/internal/domain"
	"orders-ms/internal/port"
)

var ErrNotFound = errors.New("order not found")

// querier is satisfied by both *pgxpool.Pool and pgx.Tx
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

const (
	insertOrderSQL = `INSERT INTO orders (status, paid, total_amount, total_items)
		VALUES ($1, $2, $3, $4)
		RETURNING id, status, paid, total_amount, total_items, created_at, updated_at`

	insertOrderItemSQL = `INSERT INTO order_items (order_id, product_id, price, quantity)
		VALUES ($1, $2, $3, $4)`

	getOrderSQL = `SELECT id, status, paid, total_amount, total_items, created_at, updated_at
		FROM orders WHERE id = $1`

	getOrderItemsSQL = `SELECT product_id, price, quantity
		FROM order_items WHERE order_id = $1 ORDER BY product_id`

	countOrdersSQL = `SELECT count(*) FROM orders WHERE ($1::text IS NULL OR status = $1)`

	listOrdersSQL = `SELECT id, status, paid, total_amount, total_items, created_at, updated_at
		FROM orders WHERE ($1::text IS NULL OR status = $1)
		ORDER BY created_at DESC, id
		LIMIT $2 OFFSET $3`

	updateOrderStatusSQL = `UPDATE orders SET status = $2, updated_at = now()
		WHERE id = $1
		RETURNING id, status, paid, total_amount, total_items, created_at, updated_at`
)

type orderRepository struct {
	pool *pgxpool.Pool
}

func NewOrder(pool *pgxpool.Pool) port.OrderRepository {
	return &orderRepository{pool: pool}
}

func (r *orderRepository) InsertOrder(ctx context.Context, order domain.Order) (domain.Order, error) {
	var o domain.Order

	if len(order.Items) == 0 {
		return o, errors.New("no items in order")
	}

	created, err := withTx(ctx, r.pool, func(tx pgx.Tx) (domain.Order, error) {
		row := tx.QueryRow(ctx, insertOrderSQL,
			string(order.Status), order.Paid, order.TotalAmount, order.TotalItems)

		inserted, err := scanOrder(row)
		if err != nil {
			return o, fmt.Errorf("scanOrder: %w", err)
		}

		for _, item := range order.Items {
			if _, err := tx.Exec(ctx, insertOrderItemSQL,
				inserted.ID, item.ProductID, item.Price, item.Quantity); err != nil {
				return o, fmt.Errorf("tx.Exec insert item[%d]: %w", item.ProductID, err)
			}
		}

		inserted.Items = order.Items
		return inserted, nil
	})
	if err != nil {
		return o, fmt.Errorf("withTx: %w", err)
	}

	return created, nil
}

func (r *orderRepository) GetOrder(ctx context.Context, orderID uuid.UUID) (domain.Order, error) {
	var o domain.Order

	if orderID == uuid.Nil {
		return o, fmt.Errorf("orderID is empty")
	}

	order, err := withTx(ctx, r.pool, func(tx pgx.Tx) (domain.Order, error) {
		order, err := getOrder(ctx, tx, orderID)
		if err != nil {
			return o, fmt.Errorf("getOrder: %w", err)
		}

		items, err := getOrderItems(ctx, tx, orderID)
		if err != nil {
			return o, fmt.Errorf("getOrderItems: %w", err)
		}

		order.Items = items
		return order, nil
	})
	if err != nil {
		return o, fmt.Errorf("withTx: %w", err)
	}

	return order, nil
}

func (r *orderRepository) ListOrders(ctx context.Context, req domain.PageRequest) ([]domain.Order, error) {
	req = req.Normalize()

	rows, err := r.pool.Query(ctx, listOrdersSQL,
		statusArg(req.Status), req.Limit, req.Offset())
	if err != nil {
		return nil, fmt.Errorf("pool.Query: %w", err)
	}
	defer rows.Close()

	var orders []domain.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scanOrder: %w", err)
		}
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows.Err: %w", err)
	}

	return orders, nil
}

func (r *orderRepository) CountOrders(ctx context.Context, status *domain.OrderStatus) (int64, error) {
	var count int64

	if err := r.pool.QueryRow(ctx, countOrdersSQL, statusArg(status)).Scan(&count); err != nil {
		return 0, fmt.Errorf("pool.QueryRow: %w", err)
	}

	return count, nil
}

func (r *orderRepository) UpdateOrderStatus(ctx context.Context, orderID uuid.UUID, status domain.OrderStatus) (domain.Order, error) {
	var o domain.Order

	if orderID == uuid.Nil {
		return o, fmt.Errorf("orderID is empty")
	}
	if status == "" {
		return o, fmt.Errorf("status is empty")
	}

	row := r.pool.QueryRow(ctx, updateOrderStatusSQL, orderID, string(status))

	order, err := scanOrder(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return o, fmt.Errorf("scanOrder: %w", ErrNotFound)
		}
		return o, fmt.Errorf("scanOrder: %w", err)
	}

	return order, nil
}

func getOrder(ctx context.Context, q querier, orderID uuid.UUID) (domain.Order, error) {
	var o domain.Order

	order, err := scanOrder(q.QueryRow(ctx, getOrderSQL, orderID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return o, ErrNotFound
		}
		return o, err
	}

	return order, nil
}

func getOrderItems(ctx context.Context, q querier, orderID uuid.UUID) ([]domain.OrderItem, error) {
	rows, err := q.Query(ctx, getOrderItemsSQL, orderID)
	if err != nil {
		return nil, fmt.Errorf("q.Query: %w", err)
	}
	defer rows.Close()

	var items []domain.OrderItem
	for rows.Next() {
		var item domain.OrderItem
		if err := rows.Scan(&item.ProductID, &item.Price, &item.Quantity); err != nil {
			return nil, fmt.Errorf("rows.Scan: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows.Err: %w", err)
	}

	return items, nil
}

func scanOrder(row pgx.Row) (domain.Order, error) {
	var (
		o      domain.Order
		status string
	)

	if err := row.Scan(&o.ID, &status, &o.Paid, &o.TotalAmount, &o.TotalItems,
		&o.CreatedAt, &o.UpdatedAt); err != nil {
		return o, err
	}

	parsed, err := domain.ToOrderStatus(status)
	if err != nil {
		return o, fmt.Errorf("domain.ToOrderStatus[%s]: %w", status, err)
	}
	o.Status = parsed

	return o, nil
}

func statusArg(status *domain.OrderStatus) *string {
	if status == nil {
		return nil
	}
	s := string(*status)
	return &s
}
