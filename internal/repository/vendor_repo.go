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

type VendorRepository struct {
	pool *pgxpool.Pool
}

func NewVendorRepository(pool *pgxpool.Pool) *VendorRepository {
	return &VendorRepository{pool: pool}
}

func (r *VendorRepository) List(ctx context.Context) ([]model.Vendor, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, vendor_name, service_type, contact_email, rating, status, created_at, updated_at
		 FROM vendors ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list vendors: %w", err)
	}
	defer rows.Close()

	vendors := make([]model.Vendor, 0)
	for rows.Next() {
		var v model.Vendor
		if err := rows.Scan(&v.ID, &v.VendorName, &v.ServiceType, &v.ContactEmail,
			&v.Rating, &v.Status, &v.CreatedAt, &v.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan vendor: %w", err)
		}
		vendors = append(vendors, v)
	}
	return vendors, rows.Err()
}

func (r *VendorRepository) Create(ctx context.Context, v model.Vendor) (model.Vendor, error) {
	now := time.Now().UTC()
	v.ID = uuid.NewString()
	v.CreatedAt = now
	v.UpdatedAt = now

	_, err := r.pool.Exec(ctx,
		`INSERT INTO vendors (id, vendor_name, service_type, contact_email, rating, status, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		v.ID, v.VendorName, v.ServiceType, v.ContactEmail, v.Rating, v.Status, v.CreatedAt, v.UpdatedAt)
	if err != nil {
		return model.Vendor{}, fmt.Errorf("create vendor: %w", err)
	}
	return v, nil
}

func (r *VendorRepository) Update(ctx context.Context, id string, v model.Vendor) (model.Vendor, error) {
	err := r.pool.QueryRow(ctx,
		`UPDATE vendors
		 SET vendor_name = $2, service_type = $3, contact_email = $4, rating = $5, status = $6, updated_at = $7
		 WHERE id = $1
		 RETURNING id, vendor_name, service_type, contact_email, rating, status, created_at, updated_at`,
		id, v.VendorName, v.ServiceType, v.ContactEmail, v.Rating, v.Status, time.Now().UTC()).
		Scan(&v.ID, &v.VendorName, &v.ServiceType, &v.ContactEmail,
			&v.Rating, &v.Status, &v.CreatedAt, &v.UpdatedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		return model.Vendor{}, model.ErrNotFound
	}
	if err != nil {
		return model.Vendor{}, fmt.Errorf("update vendor: %w", err)
	}
	return v, nil
}

func (r *VendorRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM vendors WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete vendor: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNotFound
	}
	return nil
}

func (r *VendorRepository) DeleteMany(ctx context.Context, ids []string) (int64, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM vendors WHERE id = ANY($1)`, ids)
	if err != nil {
		return 0, fmt.Errorf("bulk delete vendors: %w", err)
	}
	return tag.RowsAffected(), nil
}
