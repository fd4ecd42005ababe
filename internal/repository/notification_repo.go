package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"smart-erp/internal/model"
)

type NotificationRepository struct {
	pool *pgxpool.Pool
}

func NewNotificationRepository(pool *pgxpool.Pool) *NotificationRepository {
	return &NotificationRepository{pool: pool}
}

func (r *NotificationRepository) ListByUser(ctx context.Context, userID string) ([]model.Notification, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, user_id, kind, title, message, read, created_at
		 FROM notifications
		 WHERE user_id = $1
		 ORDER BY created_at DESC, id DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	defer rows.Close()

	notifications := make([]model.Notification, 0)
	for rows.Next() {
		var n model.Notification
		if err := rows.Scan(&n.ID, &n.UserID, &n.Kind, &n.Title, &n.Message, &n.Read, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan notification: %w", err)
		}
		notifications = append(notifications, n)
	}
	return notifications, rows.Err()
}

func (r *NotificationRepository) FindByID(ctx context.Context, id string) (model.Notification, error) {
	var n model.Notification
	err := r.pool.QueryRow(ctx,
		`SELECT id, user_id, kind, title, message, read, created_at
		 FROM notifications WHERE id = $1`, id).
		Scan(&n.ID, &n.UserID, &n.Kind, &n.Title, &n.Message, &n.Read, &n.CreatedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		return model.Notification{}, model.ErrNotificationNotFound
	}
	if err != nil {
		return model.Notification{}, fmt.Errorf("find notification: %w", err)
	}
	return n, nil
}

func (r *NotificationRepository) Create(ctx context.Context, n model.Notification) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO notifications (id, user_id, kind, title, message, read, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		n.ID, n.UserID, n.Kind, n.Title, n.Message, n.Read, n.CreatedAt)
	if err != nil {
		return fmt.Errorf("create notification: %w", err)
	}
	return nil
}

func (r *NotificationRepository) MarkRead(ctx context.Context, id string) (model.Notification, error) {
	var n model.Notification
	err := r.pool.QueryRow(ctx,
		`UPDATE notifications SET read = TRUE WHERE id = $1
		 RETURNING id, user_id, kind, title, message, read, created_at`, id).
		Scan(&n.ID, &n.UserID, &n.Kind, &n.Title, &n.Message, &n.Read, &n.CreatedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		return model.Notification{}, model.ErrNotificationNotFound
	}
	if err != nil {
		return model.Notification{}, fmt.Errorf("mark notification read: %w", err)
	}
	return n, nil
}

func (r *NotificationRepository) MarkAllRead(ctx context.Context, userID string) (int64, error) {
	tag, err := r.pool.Exec(ctx,
		`UPDATE notifications SET read = TRUE WHERE user_id = $1 AND read = FALSE`, userID)
	if err != nil {
		return 0, fmt.Errorf("mark all notifications read: %w", err)
	}
	return tag.RowsAffected(), nil
}
