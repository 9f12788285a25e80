package postgres

import (
	"context"
	"errors"
	"fmt"

	"vendor-settlement-service/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// VendorRepo implements ports.VendorRepository.
type VendorRepo struct {
	pool Pool
}

// NewVendorRepo creates a new VendorRepo.
func NewVendorRepo(pool Pool) *VendorRepo {
	return &VendorRepo{pool: pool}
}

// GetByID fetches a vendor by its UUID (without locking).
func (r *VendorRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Vendor, error) {
	query := `SELECT id, name, email, store_name, status, created_at, updated_at
		FROM vendors WHERE id = $1`

	v := &domain.Vendor{}
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&v.ID, &v.Name, &v.Email, &v.StoreName, &v.Status,
		&v.CreatedAt, &v.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get vendor by id: %w", err)
	}
	return v, nil
}

// GetByIDForUpdate fetches a vendor by ID with pessimistic locking.
// This MUST be called within a transaction.
func (r *VendorRepo) GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*domain.Vendor, error) {
	query := `SELECT id, name, email, store_name, status, created_at, updated_at
		FROM vendors WHERE id = $1 FOR UPDATE`

	v := &domain.Vendor{}
	err := tx.QueryRow(ctx, query, id).Scan(
		&v.ID, &v.Name, &v.Email, &v.StoreName, &v.Status,
		&v.CreatedAt, &v.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get vendor for update: %w", err)
	}
	return v, nil
}
