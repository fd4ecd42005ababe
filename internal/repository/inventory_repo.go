package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"smart-erp/internal/model"
)

type InventoryRepository struct {
	pool *pgxpool.Pool
}

func NewInventoryRepository(pool *pgxpool.Pool) *InventoryRepository {
	return &InventoryRepository{pool: pool}
}

func (r *InventoryRepository) List(ctx context.Context) ([]model.InventoryItem, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, item_name, sku, current_stock, reorder_point, unit_price, supplier, created_at, updated_at
		 FROM inventory_items ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list inventory items: %w", err)
	}
	defer rows.Close()

	items := make([]model.InventoryItem, 0)
	for rows.Next() {
		var i model.InventoryItem
		if err := rows.Scan(&i.ID, &i.ItemName, &i.SKU, &i.CurrentStock, &i.ReorderPoint,
			&i.UnitPrice, &i.Supplier, &i.CreatedAt, &i.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan inventory item: %w", err)
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

func (r *InventoryRepository) Create(ctx context.Context, item model.InventoryItem) (model.InventoryItem, error) {
	now := time.Now().UTC()
	item.ID = uuid.NewString()
	item.CreatedAt = now
	item.UpdatedAt = now

	_, err := r.pool.Exec(ctx,
		`INSERT INTO inventory_items (id, item_name, sku, current_stock, reorder_point, unit_price, supplier, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		item.ID, item.ItemName, item.SKU, item.CurrentStock, item.ReorderPoint,
		item.UnitPrice, item.Supplier, item.CreatedAt, item.UpdatedAt)

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return model.InventoryItem{}, fmt.Errorf("sku %q: %w", item.SKU, model.ErrInvalidInput)
	}
	if err != nil {
		return model.InventoryItem{}, fmt.Errorf("create inventory item: %w", err)
	}
	return item, nil
}

func (r *InventoryRepository) Update(ctx context.Context, id string, item model.InventoryItem) (model.InventoryItem, error) {
	err := r.pool.QueryRow(ctx,
		`UPDATE inventory_items
		 SET item_name = $2, sku = $3, current_stock = $4, reorder_point = $5,
		     unit_price = $6, supplier = $7, updated_at = $8
		 WHERE id = $1
		 RETURNING id, item_name, sku, current_stock, reorder_point, unit_price, supplier, created_at, updated_at`,
		id, item.ItemName, item.SKU, item.CurrentStock, item.ReorderPoint,
		item.UnitPrice, item.Supplier, time.Now().UTC()).
		Scan(&item.ID, &item.ItemName, &item.SKU, &item.CurrentStock, &item.ReorderPoint,
			&item.UnitPrice, &item.Supplier, &item.CreatedAt, &item.UpdatedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		return model.InventoryItem{}, model.ErrNotFound
	}
	if err != nil {
		return model.InventoryItem{}, fmt.Errorf("update inventory item: %w", err)
	}
	return item, nil
}

func (r *InventoryRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM inventory_items WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete inventory item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNotFound
	}
	return nil
}

func (r *InventoryRepository) DeleteMany(ctx context.Context, ids []string) (int64, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM inventory_items WHERE id = ANY($1)`, ids)
	if err != nil {
		return 0, fmt.Errorf("bulk delete inventory items: %w", err)
	}
	return tag.RowsAffected(), nil
}
