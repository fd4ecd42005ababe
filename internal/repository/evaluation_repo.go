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

type EvaluationRepository struct {
	pool *pgxpool.Pool
}

func NewEvaluationRepository(pool *pgxpool.Pool) *EvaluationRepository {
	return &EvaluationRepository{pool: pool}
}

func (r *EvaluationRepository) List(ctx context.Context) ([]model.Evaluation, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, employee_name, review_period, score, comments, created_at, updated_at
		 FROM evaluations ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list evaluations: %w", err)
	}
	defer rows.Close()

	evaluations := make([]model.Evaluation, 0)
	for rows.Next() {
		var e model.Evaluation
		if err := rows.Scan(&e.ID, &e.EmployeeName, &e.ReviewPeriod,
			&e.Score, &e.Comments, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan evaluation: %w", err)
		}
		evaluations = append(evaluations, e)
	}
	return evaluations, rows.Err()
}

func (r *EvaluationRepository) Create(ctx context.Context, e model.Evaluation) (model.Evaluation, error) {
	now := time.Now().UTC()
	e.ID = uuid.NewString()
	e.CreatedAt = now
	e.UpdatedAt = now

	_, err := r.pool.Exec(ctx,
		`INSERT INTO evaluations (id, employee_name, review_period, score, comments, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		e.ID, e.EmployeeName, e.ReviewPeriod, e.Score, e.Comments, e.CreatedAt, e.UpdatedAt)
	if err != nil {
		return model.Evaluation{}, fmt.Errorf("create evaluation: %w", err)
	}
	return e, nil
}

func (r *EvaluationRepository) Update(ctx context.Context, id string, e model.Evaluation) (model.Evaluation, error) {
	err := r.pool.QueryRow(ctx,
		`UPDATE evaluations
		 SET employee_name = $2, review_period = $3, score = $4, comments = $5, updated_at = $6
		 WHERE id = $1
		 RETURNING id, employee_name, review_period, score, comments, created_at, updated_at`,
		id, e.EmployeeName, e.ReviewPeriod, e.Score, e.Comments, time.Now().UTC()).
		Scan(&e.ID, &e.EmployeeName, &e.ReviewPeriod,
			&e.Score, &e.Comments, &e.CreatedAt, &e.UpdatedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		return model.Evaluation{}, model.ErrNotFound
	}
	if err != nil {
		return model.Evaluation{}, fmt.Errorf("update evaluation: %w", err)
	}
	return e, nil
}

func (r *EvaluationRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM evaluations WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete evaluation: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNotFound
	}
	return nil
}

func (r *EvaluationRepository) DeleteMany(ctx context.Context, ids []string) (int64, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM evaluations WHERE id = ANY($1)`, ids)
	if err != nil {
		return 0, fmt.Errorf("bulk delete evaluations: %w", err)
	}
	return tag.RowsAffected(), nil
}
