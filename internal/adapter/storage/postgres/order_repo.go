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

// OrderRepo implements ports.OrderRepository.
//
// NUMERIC columns are selected as text and parsed with shopspring/decimal
// so amounts never round-trip through float64.
type OrderRepo struct {
	pool Pool
}

// NewOrderRepo creates a new OrderRepo.
func NewOrderRepo(pool Pool) *OrderRepo {
	return &OrderRepo{pool: pool}
}

// Create inserts an order recorded from a verified payment event.
func (r *OrderRepo) Create(ctx context.Context, o *domain.Order) error {
	query := `INSERT INTO orders (id, event_id, vendor_id, total_amount, payment_status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.pool.Exec(ctx, query,
		o.ID, o.EventID, o.VendorID, o.TotalAmount.String(),
		o.PaymentStatus, o.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}
	return nil
}

// GetByEventID fetches an order by its payment event ID. Used for
// idempotent event ingestion.
func (r *OrderRepo) GetByEventID(ctx context.Context, eventID string) (*domain.Order, error) {
	query := `SELECT id, event_id, vendor_id, total_amount::text, payment_status, created_at
		FROM orders WHERE event_id = $1`

	o := &domain.Order{}
	var amount string
	err := r.pool.QueryRow(ctx, query, eventID).Scan(
		&o.ID, &o.EventID, &o.VendorID, &amount, &o.PaymentStatus, &o.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get order by event id: %w", err)
	}
	if o.TotalAmount, err = decimal.NewFromString(amount); err != nil {
		return nil, fmt.Errorf("parse order amount: %w", err)
	}
	return o, nil
}

// ListPaidByVendor returns the vendor's revenue-bearing orders, oldest first.
func (r *OrderRepo) ListPaidByVendor(ctx context.Context, vendorID uuid.UUID) ([]domain.Order, error) {
	query := `SELECT id, event_id, vendor_id, total_amount::text, payment_status, created_at
		FROM orders
		WHERE vendor_id = $1 AND payment_status IN ('success', 'paid')
		ORDER BY created_at ASC`

	rows, err := r.pool.Query(ctx, query, vendorID)
	if err != nil {
		return nil, fmt.Errorf("list paid orders: %w", err)
	}
	defer rows.Close()

	var orders []domain.Order
	for rows.Next() {
		var o domain.Order
		var amount string
		if err := rows.Scan(&o.ID, &o.EventID, &o.VendorID, &amount, &o.PaymentStatus, &o.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		if o.TotalAmount, err = decimal.NewFromString(amount); err != nil {
			return nil, fmt.Errorf("parse order amount: %w", err)
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate orders: %w", err)
	}
	return orders, nil
}

// SumPaidByVendor computes the vendor's gross revenue inside the caller's
// transaction, so the figure is consistent with the vendor row lock.
func (r *OrderRepo) SumPaidByVendor(ctx context.Context, tx pgx.Tx, vendorID uuid.UUID) (decimal.Decimal, error) {
	query := `SELECT COALESCE(SUM(total_amount), 0)::text
		FROM orders
		WHERE vendor_id = $1 AND payment_status IN ('success', 'paid')`

	var sum string
	if err := tx.QueryRow(ctx, query, vendorID).Scan(&sum); err != nil {
		return decimal.Zero, fmt.Errorf("sum paid orders: %w", err)
	}
	d, err := decimal.NewFromString(sum)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parse revenue sum: %w", err)
	}
	return d, nil
}

// GetPlatformStats returns platform-wide totals over paid orders.
func (r *OrderRepo) GetPlatformStats(ctx context.Context) (*ports.PlatformStats, error) {
	query := `SELECT COALESCE(SUM(total_amount), 0)::text, COUNT(*)
		FROM orders WHERE payment_status IN ('success', 'paid')`

	var total string
	stats := &ports.PlatformStats{}
	if err := r.pool.QueryRow(ctx, query).Scan(&total, &stats.TotalOrders); err != nil {
		return nil, fmt.Errorf("platform stats: %w", err)
	}
	var err error
	if stats.TotalRevenue, err = decimal.NewFromString(total); err != nil {
		return nil, fmt.Errorf("parse platform revenue: %w", err)
	}
	return stats, nil
}

// RevenueByStore aggregates paid-order revenue per vendor store,
// highest revenue first.
func (r *OrderRepo) RevenueByStore(ctx context.Context) ([]ports.StoreRevenue, error) {
	query := `SELECT o.vendor_id, v.store_name, COALESCE(SUM(o.total_amount), 0)::text, COUNT(*)
		FROM orders o
		JOIN vendors v ON v.id = o.vendor_id
		WHERE o.payment_status IN ('success', 'paid')
		GROUP BY o.vendor_id, v.store_name
		ORDER BY SUM(o.total_amount) DESC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("revenue by store: %w", err)
	}
	defer rows.Close()

	var result []ports.StoreRevenue
	for rows.Next() {
		var s ports.StoreRevenue
		var revenue string
		if err := rows.Scan(&s.VendorID, &s.StoreName, &revenue, &s.OrderCount); err != nil {
			return nil, fmt.Errorf("scan store revenue: %w", err)
		}
		if s.Revenue, err = decimal.NewFromString(revenue); err != nil {
			return nil, fmt.Errorf("parse store revenue: %w", err)
		}
		result = append(result, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate store revenue: %w", err)
	}
	return result, nil
}

// RevenueByMonth buckets paid-order revenue by calendar month in UTC,
// keyed YYYY-MM.
func (r *OrderRepo) RevenueByMonth(ctx context.Context) (map[string]decimal.Decimal, error) {
	query := `SELECT to_char(created_at AT TIME ZONE 'UTC', 'YYYY-MM'), COALESCE(SUM(total_amount), 0)::text
		FROM orders
		WHERE payment_status IN ('success', 'paid')
		GROUP BY 1
		ORDER BY 1`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("revenue by month: %w", err)
	}
	defer rows.Close()

	result := make(map[string]decimal.Decimal)
	for rows.Next() {
		var month, revenue string
		if err := rows.Scan(&month, &revenue); err != nil {
			return nil, fmt.Errorf("scan month revenue: %w", err)
		}
		d, err := decimal.NewFromString(revenue)
		if err != nil {
			return nil, fmt.Errorf("parse month revenue: %w", err)
		}
		result[month] = d
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate month revenue: %w", err)
	}
	return result, nil
}
