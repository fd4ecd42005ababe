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

type LeadRepository struct {
	pool *pgxpool.Pool
}

func NewLeadRepository(pool *pgxpool.Pool) *LeadRepository {
	return &LeadRepository{pool: pool}
}

func (r *LeadRepository) List(ctx context.Context) ([]model.Lead, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, customer_name, phone, interest_level, status, created_at, updated_at
		 FROM leads ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list leads: %w", err)
	}
	defer rows.Close()

	leads := make([]model.Lead, 0)
	for rows.Next() {
		var l model.Lead
		if err := rows.Scan(&l.ID, &l.CustomerName, &l.Phone,
			&l.InterestLevel, &l.Status, &l.CreatedAt, &l.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan lead: %w", err)
		}
		leads = append(leads, l)
	}
	return leads, rows.Err()
}

func (r *LeadRepository) Create(ctx context.Context, l model.Lead) (model.Lead, error) {
	now := time.Now().UTC()
	l.ID = uuid.NewString()
	l.CreatedAt = now
	l.UpdatedAt = now

	_, err := r.pool.Exec(ctx,
		`INSERT INTO leads (id, customer_name, phone, interest_level, status, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		l.ID, l.CustomerName, l.Phone, l.InterestLevel, l.Status, l.CreatedAt, l.UpdatedAt)
	if err != nil {
		return model.Lead{}, fmt.Errorf("create lead: %w", err)
	}
	return l, nil
}

func (r *LeadRepository) Update(ctx context.Context, id string, l model.Lead) (model.Lead, error) {
	err := r.pool.QueryRow(ctx,
		`UPDATE leads
		 SET customer_name = $2, phone = $3, interest_level = $4, status = $5, updated_at = $6
		 WHERE id = $1
		 RETURNING id, customer_name, phone, interest_level, status, created_at, updated_at`,
		id, l.CustomerName, l.Phone, l.InterestLevel, l.Status, time.Now().UTC()).
		Scan(&l.ID, &l.CustomerName, &l.Phone,
			&l.InterestLevel, &l.Status, &l.CreatedAt, &l.UpdatedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		return model.Lead{}, model.ErrNotFound
	}
	if err != nil {
		return model.Lead{}, fmt.Errorf("update lead: %w", err)
	}
	return l, nil
}

func (r *LeadRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM leads WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete lead: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNotFound
	}
	return nil
}

func (r *LeadRepository) DeleteMany(ctx context.Context, ids []string) (int64, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM leads WHERE id = ANY($1)`, ids)
	if err != nil {
		return 0, fmt.Errorf("bulk delete leads: %w", err)
	}
	return tag.RowsAffected(), nil
}
