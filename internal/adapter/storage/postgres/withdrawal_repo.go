package postgres

import (
	"context"
	"errors"
	"fmt"

	"vendor-settlement-service/internal/core/domain"
	"vendor-settlement-service/internal/core/ports"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

const withdrawalColumns = `id, vendor_id, amount::text, bank_name, account_number, account_name,
		status, admin_notes, reviewed_by, reviewed_at, created_at, updated_at`

// WithdrawalRepo implements ports.WithdrawalRepository.
type WithdrawalRepo struct {
	pool Pool
}

// NewWithdrawalRepo creates a new WithdrawalRepo.
func NewWithdrawalRepo(pool Pool) *WithdrawalRepo {
	return &WithdrawalRepo{pool: pool}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanWithdrawal(row rowScanner) (*domain.WithdrawalRequest, error) {
	w := &domain.WithdrawalRequest{}
	var amount string
	err := row.Scan(
		&w.ID, &w.VendorID, &amount, &w.BankName, &w.AccountNumber, &w.AccountName,
		&w.Status, &w.AdminNotes, &w.ReviewedBy, &w.ReviewedAt, &w.CreatedAt, &w.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if w.Amount, err = decimal.NewFromString(amount); err != nil {
		return nil, fmt.Errorf("parse withdrawal amount: %w", err)
	}
	return w, nil
}

// Create inserts a new pending request within the submission transaction.
func (r *WithdrawalRepo) Create(ctx context.Context, tx pgx.Tx, w *domain.WithdrawalRequest) error {
	query := `INSERT INTO withdrawal_requests
		(id, vendor_id, amount, bank_name, account_number, account_name, status, admin_notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err := tx.Exec(ctx, query,
		w.ID, w.VendorID, w.Amount.String(), w.BankName, w.AccountNumber,
		w.AccountName, w.Status, w.AdminNotes, w.CreatedAt, w.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert withdrawal request: %w", err)
	}
	return nil
}

// GetByID fetches a withdrawal request by its UUID.
func (r *WithdrawalRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.WithdrawalRequest, error) {
	query := `SELECT ` + withdrawalColumns + ` FROM withdrawal_requests WHERE id = $1`

	w, err := scanWithdrawal(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get withdrawal by id: %w", err)
	}
	return w, nil
}

// ListByVendor returns all of a vendor's requests, newest first.
func (r *WithdrawalRepo) ListByVendor(ctx context.Context, vendorID uuid.UUID) ([]domain.WithdrawalRequest, error) {
	query := `SELECT ` + withdrawalColumns + `
		FROM withdrawal_requests WHERE vendor_id = $1 ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, vendorID)
	if err != nil {
		return nil, fmt.Errorf("list withdrawals by vendor: %w", err)
	}
	defer rows.Close()

	return collectWithdrawals(rows)
}

// List returns a filtered, paginated page of requests plus the total count.
func (r *WithdrawalRepo) List(ctx context.Context, params ports.WithdrawalListParams) ([]domain.WithdrawalRequest, int64, error) {
	where := " WHERE 1=1"
	args := []any{}
	if params.VendorID != nil {
		args = append(args, *params.VendorID)
		where += fmt.Sprintf(" AND vendor_id = $%d", len(args))
	}
	if params.Status != nil {
		args = append(args, *params.Status)
		where += fmt.Sprintf(" AND status = $%d", len(args))
	}

	var total int64
	countQuery := `SELECT COUNT(*) FROM withdrawal_requests` + where
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count withdrawals: %w", err)
	}

	args = append(args, params.PageSize, (params.Page-1)*params.PageSize)
	query := `SELECT ` + withdrawalColumns + ` FROM withdrawal_requests` + where +
		fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list withdrawals: %w", err)
	}
	defer rows.Close()

	list, err := collectWithdrawals(rows)
	if err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

func collectWithdrawals(rows pgx.Rows) ([]domain.WithdrawalRequest, error) {
	var list []domain.WithdrawalRequest
	for rows.Next() {
		w, err := scanWithdrawal(rows)
		if err != nil {
			return nil, fmt.Errorf("scan withdrawal: %w", err)
		}
		list = append(list, *w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate withdrawals: %w", err)
	}
	return list, nil
}

// SumByStatus computes the vendor's approved and pending totals inside the
// caller's transaction.
func (r *WithdrawalRepo) SumByStatus(ctx context.Context, tx pgx.Tx, vendorID uuid.UUID) (decimal.Decimal, decimal.Decimal, error) {
	query := `SELECT
		COALESCE(SUM(amount) FILTER (WHERE status = 'approved'), 0)::text,
		COALESCE(SUM(amount) FILTER (WHERE status = 'pending'), 0)::text
		FROM withdrawal_requests WHERE vendor_id = $1`

	var approvedStr, pendingStr string
	if err := tx.QueryRow(ctx, query, vendorID).Scan(&approvedStr, &pendingStr); err != nil {
		return decimal.Zero, decimal.Zero, fmt.Errorf("sum withdrawals by status: %w", err)
	}
	approved, err := decimal.NewFromString(approvedStr)
	if err != nil {
		return decimal.Zero, decimal.Zero, fmt.Errorf("parse approved sum: %w", err)
	}
	pending, err := decimal.NewFromString(pendingStr)
	if err != nil {
		return decimal.Zero, decimal.Zero, fmt.Errorf("parse pending sum: %w", err)
	}
	return approved, pending, nil
}

// UpdateStatusIfPending applies a terminal status atomically. The status
// predicate in the WHERE clause guarantees a request is reviewed at most
// once regardless of concurrent admins. Returns false when no row was
// updated (request missing or already terminal).
func (r *WithdrawalRepo) UpdateStatusIfPending(ctx context.Context, id uuid.UUID, status domain.WithdrawalStatus, adminNotes *string, reviewedBy uuid.UUID) (bool, error) {
	query := `UPDATE withdrawal_requests
		SET status = $1, admin_notes = $2, reviewed_by = $3, reviewed_at = NOW(), updated_at = NOW()
		WHERE id = $4 AND status = 'pending'`

	tag, err := r.pool.Exec(ctx, query, status, adminNotes, reviewedBy, id)
	if err != nil {
		return false, fmt.Errorf("update withdrawal status: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}
