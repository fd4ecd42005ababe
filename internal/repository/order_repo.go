package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"smart-erp/internal/model"
)

type OrderRepository struct {
	pool *pgxpool.Pool
}

func NewOrderRepository(pool *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{pool: pool}
}

func (r *OrderRepository) List(ctx context.Context) ([]model.Order, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, customer_name, email, items, total_amount, status, shipping_address, created_at, updated_at
		 FROM orders ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	orders := make([]model.Order, 0)
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

func (r *OrderRepository) Create(ctx context.Context, order model.Order) (model.Order, error) {
	now := time.Now().UTC()
	order.ID = uuid.NewString()
	order.CreatedAt = now
	order.UpdatedAt = now

	itemsJSON, err := marshalOrderItems(order.Items)
	if err != nil {
		return model.Order{}, err
	}

	_, err = r.pool.Exec(ctx,
		`INSERT INTO orders (id, customer_name, email, items, total_amount, status, shipping_address, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		order.ID, order.CustomerName, order.Email, itemsJSON, order.TotalAmount,
		order.Status, order.ShippingAddress, order.CreatedAt, order.UpdatedAt)
	if err != nil {
		return model.Order{}, fmt.Errorf("create order: %w", err)
	}
	return order, nil
}

func (r *OrderRepository) Update(ctx context.Context, id string, order model.Order) (model.Order, error) {
	itemsJSON, err := marshalOrderItems(order.Items)
	if err != nil {
		return model.Order{}, err
	}

	row := r.pool.QueryRow(ctx,
		`UPDATE orders
		 SET customer_name = $2, email = $3, items = $4, total_amount = $5,
		     status = $6, shipping_address = $7, updated_at = $8
		 WHERE id = $1
		 RETURNING id, customer_name, email, items, total_amount, status, shipping_address, created_at, updated_at`,
		id, order.CustomerName, order.Email, itemsJSON, order.TotalAmount,
		order.Status, order.ShippingAddress, time.Now().UTC())

	updated, err := scanOrder(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Order{}, model.ErrNotFound
	}
	if err != nil {
		return model.Order{}, fmt.Errorf("update order: %w", err)
	}
	return updated, nil
}

func (r *OrderRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM orders WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete order: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNotFound
	}
	return nil
}

func (r *OrderRepository) DeleteMany(ctx context.Context, ids []string) (int64, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM orders WHERE id = ANY($1)`, ids)
	if err != nil {
		return 0, fmt.Errorf("bulk delete orders: %w", err)
	}
	return tag.RowsAffected(), nil
}

func marshalOrderItems(items []model.OrderItem) ([]byte, error) {
	if items == nil {
		items = []model.OrderItem{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		return nil, fmt.Errorf("marshal order items: %w", err)
	}
	return data, nil
}

func scanOrder(row pgx.Row) (model.Order, error) {
	var o model.Order
	var itemsJSON []byte
	if err := row.Scan(&o.ID, &o.CustomerName, &o.Email, &itemsJSON, &o.TotalAmount,
		&o.Status, &o.ShippingAddress, &o.CreatedAt, &o.UpdatedAt); err != nil {
		return model.Order{}, err
	}

	if len(itemsJSON) > 0 {
		if err := json.Unmarshal(itemsJSON, &o.Items); err != nil {
			return model.Order{}, fmt.Errorf("unmarshal order items: %w", err)
		}
	}
	if o.Items == nil {
		o.Items = []model.OrderItem{}
	}
	return o, nil
}
