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

type ComplaintRepository struct {
	pool *pgxpool.Pool
}

func NewComplaintRepository(pool *pgxpool.Pool) *ComplaintRepository {
	return &ComplaintRepository{pool: pool}
}

func (r *ComplaintRepository) List(ctx context.Context) ([]model.Complaint, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, customer_name, issue_type, description, priority, status, created_at, updated_at
		 FROM complaints ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list complaints: %w", err)
	}
	defer rows.Close()

	complaints := make([]model.Complaint, 0)
	for rows.Next() {
		var c model.Complaint
		if err := rows.Scan(&c.ID, &c.CustomerName, &c.IssueType, &c.Description,
			&c.Priority, &c.Status, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan complaint: %w", err)
		}
		complaints = append(complaints, c)
	}
	return complaints, rows.Err()
}

func (r *ComplaintRepository) Create(ctx context.Context, c model.Complaint) (model.Complaint, error) {
	now := time.Now().UTC()
	c.ID = uuid.NewString()
	c.CreatedAt = now
	c.UpdatedAt = now

	_, err := r.pool.Exec(ctx,
		`INSERT INTO complaints (id, customer_name, issue_type, description, priority, status, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		c.ID, c.CustomerName, c.IssueType, c.Description, c.Priority, c.Status, c.CreatedAt, c.UpdatedAt)
	if err != nil {
		return model.Complaint{}, fmt.Errorf("create complaint: %w", err)
	}
	return c, nil
}

func (r *ComplaintRepository) Update(ctx context.Context, id string, c model.Complaint) (model.Complaint, error) {
	err := r.pool.QueryRow(ctx,
		`UPDATE complaints
		 SET customer_name = $2, issue_type = $3, description = $4, priority = $5, status = $6, updated_at = $7
		 WHERE id = $1
		 RETURNING id, customer_name, issue_type, description, priority, status, created_at, updated_at`,
		id, c.CustomerName, c.IssueType, c.Description, c.Priority, c.Status, time.Now().UTC()).
		Scan(&c.ID, &c.CustomerName, &c.IssueType, &c.Description,
			&c.Priority, &c.Status, &c.CreatedAt, &c.UpdatedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		return model.Complaint{}, model.ErrNotFound
	}
	if err != nil {
		return model.Complaint{}, fmt.Errorf("update complaint: %w", err)
	}
	return c, nil
}

func (r *ComplaintRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM complaints WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete complaint: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNotFound
	}
	return nil
}

func (r *ComplaintRepository) DeleteMany(ctx context.Context, ids []string) (int64, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM complaints WHERE id = ANY($1)`, ids)
	if err != nil {
		return 0, fmt.Errorf("bulk delete complaints: %w", err)
	}
	return tag.RowsAffected(), nil
}
