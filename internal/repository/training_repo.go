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

type TrainingRepository struct {
	pool *pgxpool.Pool
}

func NewTrainingRepository(pool *pgxpool.Pool) *TrainingRepository {
	return &TrainingRepository{pool: pool}
}

func (r *TrainingRepository) List(ctx context.Context) ([]model.Training, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, employee_name, training_topic, completion_date, status, created_at, updated_at
		 FROM trainings ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list trainings: %w", err)
	}
	defer rows.Close()

	trainings := make([]model.Training, 0)
	for rows.Next() {
		var t model.Training
		if err := rows.Scan(&t.ID, &t.EmployeeName, &t.TrainingTopic,
			&t.CompletionDate, &t.Status, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan training: %w", err)
		}
		trainings = append(trainings, t)
	}
	return trainings, rows.Err()
}

func (r *TrainingRepository) Create(ctx context.Context, t model.Training) (model.Training, error) {
	now := time.Now().UTC()
	t.ID = uuid.NewString()
	t.CreatedAt = now
	t.UpdatedAt = now

	_, err := r.pool.Exec(ctx,
		`INSERT INTO trainings (id, employee_name, training_topic, completion_date, status, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		t.ID, t.EmployeeName, t.TrainingTopic, t.CompletionDate, t.Status, t.CreatedAt, t.UpdatedAt)
	if err != nil {
		return model.Training{}, fmt.Errorf("create training: %w", err)
	}
	return t, nil
}

func (r *TrainingRepository) Update(ctx context.Context, id string, t model.Training) (model.Training, error) {
	err := r.pool.QueryRow(ctx,
		`UPDATE trainings
		 SET employee_name = $2, training_topic = $3, completion_date = $4, status = $5, updated_at = $6
		 WHERE id = $1
		 RETURNING id, employee_name, training_topic, completion_date, status, created_at, updated_at`,
		id, t.EmployeeName, t.TrainingTopic, t.CompletionDate, t.Status, time.Now().UTC()).
		Scan(&t.ID, &t.EmployeeName, &t.TrainingTopic,
			&t.CompletionDate, &t.Status, &t.CreatedAt, &t.UpdatedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		return model.Training{}, model.ErrNotFound
	}
	if err != nil {
		return model.Training{}, fmt.Errorf("update training: %w", err)
	}
	return t, nil
}

func (r *TrainingRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM trainings WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete training: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNotFound
	}
	return nil
}

func (r *TrainingRepository) DeleteMany(ctx context.Context, ids []string) (int64, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM trainings WHERE id = ANY($1)`, ids)
	if err != nil {
		return 0, fmt.Errorf("bulk delete trainings: %w", err)
	}
	return tag.RowsAffected(), nil
}
