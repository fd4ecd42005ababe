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

type IncidentRepository struct {
	pool *pgxpool.Pool
}

func NewIncidentRepository(pool *pgxpool.Pool) *IncidentRepository {
	return &IncidentRepository{pool: pool}
}

func (r *IncidentRepository) List(ctx context.Context) ([]model.Incident, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, requester_name, issue_description, priority, status, created_at, updated_at
		 FROM incidents ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list incidents: %w", err)
	}
	defer rows.Close()

	incidents := make([]model.Incident, 0)
	for rows.Next() {
		var i model.Incident
		if err := rows.Scan(&i.ID, &i.RequesterName, &i.IssueDescription,
			&i.Priority, &i.Status, &i.CreatedAt, &i.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan incident: %w", err)
		}
		incidents = append(incidents, i)
	}
	return incidents, rows.Err()
}

func (r *IncidentRepository) Create(ctx context.Context, i model.Incident) (model.Incident, error) {
	now := time.Now().UTC()
	i.ID = uuid.NewString()
	i.CreatedAt = now
	i.UpdatedAt = now

	_, err := r.pool.Exec(ctx,
		`INSERT INTO incidents (id, requester_name, issue_description, priority, status, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		i.ID, i.RequesterName, i.IssueDescription, i.Priority, i.Status, i.CreatedAt, i.UpdatedAt)
	if err != nil {
		return model.Incident{}, fmt.Errorf("create incident: %w", err)
	}
	return i, nil
}

func (r *IncidentRepository) Update(ctx context.Context, id string, i model.Incident) (model.Incident, error) {
	err := r.pool.QueryRow(ctx,
		`UPDATE incidents
		 SET requester_name = $2, issue_description = $3, priority = $4, status = $5, updated_at = $6
		 WHERE id = $1
		 RETURNING id, requester_name, issue_description, priority, status, created_at, updated_at`,
		id, i.RequesterName, i.IssueDescription, i.Priority, i.Status, time.Now().UTC()).
		Scan(&i.ID, &i.RequesterName, &i.IssueDescription,
			&i.Priority, &i.Status, &i.CreatedAt, &i.UpdatedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		return model.Incident{}, model.ErrNotFound
	}
	if err != nil {
		return model.Incident{}, fmt.Errorf("update incident: %w", err)
	}
	return i, nil
}

func (r *IncidentRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM incidents WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete incident: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNotFound
	}
	return nil
}

func (r *IncidentRepository) DeleteMany(ctx context.Context, ids []string) (int64, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM incidents WHERE id = ANY($1)`, ids)
	if err != nil {
		return 0, fmt.Errorf("bulk delete incidents: %w", err)
	}
	return tag.RowsAffected(), nil
}
