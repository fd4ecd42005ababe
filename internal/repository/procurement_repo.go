package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"smart-erp/internal/model"
)

type ProcurementRepository struct {
	pool *pgxpool.Pool
}

func NewProcurementRepository(pool *pgxpool.Pool) *ProcurementRepository {
	return &ProcurementRepository{pool: pool}
}

func (r *ProcurementRepository) List(ctx context.Context) ([]model.Procurement, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, item_name, department, quantity, budget, status, created_at, updated_at
		 FROM procurements ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list procurements: %w", err)
	}
	defer rows.Close()

	procurements := make([]model.Procurement, 0)
	for rows.Next() {
		var p model.Procurement
		if err := rows.Scan(&p.ID, &p.ItemName, &p.Department, &p.Quantity,
			&p.Budget, &p.Status, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan procurement: %w", err)
		}
		procurements = append(procurements, p)
	}
	return procurements, rows.Err()
}

func (r *ProcurementRepository) Create(ctx context.Context, p model.Procurement) (model.Procurement, error) {
	now := time.Now().UTC()
	p.ID = uuid.NewString()
	p.CreatedAt = now
	p.UpdatedAt = now

	_, err := r.pool.Exec(ctx,
		`INSERT INTO procurements (id, item_name, department, quantity, budget, status, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		p.ID, p.ItemName, p.Department, p.Quantity, p.Budget, p.Status, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return model.Procurement{}, fmt.Errorf("create procurement: %w", err)
	}
	return p, nil
}

func (r *ProcurementRepository) Update(ctx context.Context, id string, p model.Procurement) (model.Procurement, error) {
	err := r.pool.QueryRow(ctx,
		`UPDATE procurements
		 SET item_name = $2, department = $3, quantity = $4, budget = $5, status = $6, updated_at = $7
		 WHERE id = $1
		 RETURNING id, item_name, department, quantity, budget, status, created_at, updated_at`,
		id, p.ItemName, p.Department, p.Quantity, p.Budget, p.Status, time.Now().UTC()).
		Scan(&p.ID, &p.ItemName, &p.Department, &p.Quantity,
			&p.Budget, &p.Status, &p.CreatedAt, &p.UpdatedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		return model.Procurement{}, model.ErrNotFound
	}
	if err != nil {
		return model.Procurement{}, fmt.Errorf("update procurement: %w", err)
	}
	return p, nil
}

func (r *ProcurementRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM procurements WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete procurement: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNotFound
	}
	return nil
}

func (r *ProcurementRepository) DeleteMany(ctx context.Context, ids []string) (int64, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM procurements WHERE id = ANY($1)`, ids)
	if err != nil {
		return 0, fmt.Errorf("bulk delete procurements: %w", err)
	}
	return tag.RowsAffected(), nil
}
