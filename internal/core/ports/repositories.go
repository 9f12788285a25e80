package ports

import (
	"context"

	"vendor-settlement-service/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// VendorRepository defines persistence operations for vendors.
type VendorRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Vendor, error)
	// GetByIDForUpdate locks the vendor row for the duration of the
	// transaction. Used to serialize withdrawal submissions per vendor.
	GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*domain.Vendor, error)
}

// OrderRepository defines persistence for orders. Orders are written once,
// from verified payment events, and only ever read afterwards.
type OrderRepository interface {
	Create(ctx context.Context, order *domain.Order) error
	GetByEventID(ctx context.Context, eventID string) (*domain.Order, error)
	ListPaidByVendor(ctx context.Context, vendorID uuid.UUID) ([]domain.Order, error)
	// SumPaidByVendor computes gross revenue inside a transaction, so the
	// figure is consistent with the vendor row lock held by the caller.
	SumPaidByVendor(ctx context.Context, tx pgx.Tx, vendorID uuid.UUID) (decimal.Decimal, error)
	// Reporting queries
	GetPlatformStats(ctx context.Context) (*PlatformStats, error)
	RevenueByStore(ctx context.Context) ([]StoreRevenue, error)
	RevenueByMonth(ctx context.Context) (map[string]decimal.Decimal, error)
}

// PlatformStats holds platform-wide totals over paid orders.
type PlatformStats struct {
	TotalRevenue decimal.Decimal
	TotalOrders  int64
}

// StoreRevenue is one per-store revenue bucket.
type StoreRevenue struct {
	VendorID   uuid.UUID       `json:"vendor_id"`
	StoreName  string          `json:"store_name"`
	Revenue    decimal.Decimal `json:"revenue"`
	OrderCount int64           `json:"order_count"`
}

// WithdrawalListParams holds filter + pagination for listing withdrawal requests.
type WithdrawalListParams struct {
	VendorID *uuid.UUID
	Status   *domain.WithdrawalStatus
	Page     int
	PageSize int
}

// WithdrawalRepository defines persistence for withdrawal requests.
type WithdrawalRepository interface {
	// Create inserts a new pending request within the submission transaction.
	Create(ctx context.Context, tx pgx.Tx, w *domain.WithdrawalRequest) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.WithdrawalRequest, error)
	ListByVendor(ctx context.Context, vendorID uuid.UUID) ([]domain.WithdrawalRequest, error)
	List(ctx context.Context, params WithdrawalListParams) ([]domain.WithdrawalRequest, int64, error)
	// SumByStatus computes approved and pending totals inside a transaction.
	SumByStatus(ctx context.Context, tx pgx.Tx, vendorID uuid.UUID) (approved, pending decimal.Decimal, err error)
	// UpdateStatusIfPending applies a terminal status atomically:
	// UPDATE ... WHERE id = $n AND status = 'pending'. Returns false when no
	// row was updated (request missing or already terminal).
	UpdateStatusIfPending(ctx context.Context, id uuid.UUID, status domain.WithdrawalStatus, adminNotes *string, reviewedBy uuid.UUID) (bool, error)
}

// SettingsRepository reads the platform settings singleton.
// Returns nil when the row has never been written.
type SettingsRepository interface {
	Get(ctx context.Context) (*domain.PlatformSettings, error)
}

// DBTransactor provides database transaction management.
type DBTransactor interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}
