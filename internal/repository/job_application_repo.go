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

type JobApplicationRepository struct {
	pool *pgxpool.Pool
}

func NewJobApplicationRepository(pool *pgxpool.Pool) *JobApplicationRepository {
	return &JobApplicationRepository{pool: pool}
}

func (r *JobApplicationRepository) List(ctx context.Context) ([]model.JobApplication, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, candidate_name, position, email, status, resume_link, created_at, updated_at
		 FROM job_applications ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list job applications: %w", err)
	}
	defer rows.Close()

	applications := make([]model.JobApplication, 0)
	for rows.Next() {
		var j model.JobApplication
		if err := rows.Scan(&j.ID, &j.CandidateName, &j.Position, &j.Email,
			&j.Status, &j.ResumeLink, &j.CreatedAt, &j.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan job application: %w", err)
		}
		applications = append(applications, j)
	}
	return applications, rows.Err()
}

func (r *JobApplicationRepository) Create(ctx context.Context, app model.JobApplication) (model.JobApplication, error) {
	now := time.Now().UTC()
	app.ID = uuid.NewString()
	app.CreatedAt = now
	app.UpdatedAt = now

	_, err := r.pool.Exec(ctx,
		`INSERT INTO job_applications (id, candidate_name, position, email, status, resume_link, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		app.ID, app.CandidateName, app.Position, app.Email, app.Status,
		app.ResumeLink, app.CreatedAt, app.UpdatedAt)
	if err != nil {
		return model.JobApplication{}, fmt.Errorf("create job application: %w", err)
	}
	return app, nil
}

func (r *JobApplicationRepository) Update(ctx context.Context, id string, app model.JobApplication) (model.JobApplication, error) {
	err := r.pool.QueryRow(ctx,
		`UPDATE job_applications
		 SET candidate_name = $2, position = $3, email = $4, status = $5, resume_link = $6, updated_at = $7
		 WHERE id = $1
		 RETURNING id, candidate_name, position, email, status, resume_link, created_at, updated_at`,
		id, app.CandidateName, app.Position, app.Email, app.Status, app.ResumeLink, time.Now().UTC()).
		Scan(&app.ID, &app.CandidateName, &app.Position, &app.Email,
			&app.Status, &app.ResumeLink, &app.CreatedAt, &app.UpdatedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		return model.JobApplication{}, model.ErrNotFound
	}
	if err != nil {
		return model.JobApplication{}, fmt.Errorf("update job application: %w", err)
	}
	return app, nil
}

func (r *JobApplicationRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM job_applications WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete job application: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNotFound
	}
	return nil
}

func (r *JobApplicationRepository) DeleteMany(ctx context.Context, ids []string) (int64, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM job_applications WHERE id = ANY($1)`, ids)
	if err != nil {
		return 0, fmt.Errorf("bulk delete job applications: %w", err)
	}
	return tag.RowsAffected(), nil
}
