package ports

import (
	"context"
	"time"

	"vendor-settlement-service/internal/core/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TokenService validates bearer tokens issued by the platform identity
// provider. This service never issues tokens.
type TokenService interface {
	Validate(tokenString string) (*TokenClaims, error)
}

// TokenClaims holds the parsed JWT claims.
type TokenClaims struct {
	SubjectID uuid.UUID // vendor id, or admin id for role "admin"
	Role      string    // "vendor" or "admin"
}

// SettingsService resolves the effective platform settings, applying the
// documented defaults when the singleton row is unset.
type SettingsService interface {
	Get(ctx context.Context) (domain.PlatformSettings, error)
}

// LedgerService computes the derived settlement view for a vendor.
type LedgerService interface {
	GetVendorLedger(ctx context.Context, vendorID uuid.UUID) (*LedgerView, error)
}

// LedgerView is the vendor ledger plus the commission breakdown at the
// current platform rate.
type LedgerView struct {
	Ledger     domain.VendorLedger
	Commission domain.CommissionBreakdown
	Settings   domain.PlatformSettings
}

// SubmitWithdrawalRequest holds validated input for a withdrawal submission.
type SubmitWithdrawalRequest struct {
	VendorID      uuid.UUID
	Amount        decimal.Decimal
	BankName      string
	AccountNumber string
	AccountName   string
}

// ReviewWithdrawalRequest holds validated input for an admin review action.
type ReviewWithdrawalRequest struct {
	RequestID  uuid.UUID
	AdminID    uuid.UUID
	Status     domain.WithdrawalStatus // approved or rejected
	AdminNotes *string
}

// WithdrawalService owns the withdrawal request workflow.
type WithdrawalService interface {
	Submit(ctx context.Context, req SubmitWithdrawalRequest) (*domain.WithdrawalRequest, error)
	Review(ctx context.Context, req ReviewWithdrawalRequest) (*domain.WithdrawalRequest, error)
	ListForVendor(ctx context.Context, vendorID uuid.UUID, params WithdrawalListParams) ([]domain.WithdrawalRequest, int64, error)
	ListForReview(ctx context.Context, params WithdrawalListParams) ([]domain.WithdrawalRequest, int64, error)
}

// PlatformReport aggregates all paid orders platform-wide.
// Month buckets are keyed YYYY-MM in UTC.
type PlatformReport struct {
	TotalRevenue   decimal.Decimal            `json:"total_revenue"`
	TotalOrders    int64                      `json:"total_orders"`
	RevenueByStore []StoreRevenue             `json:"revenue_by_store"`
	RevenueByMonth map[string]decimal.Decimal `json:"revenue_by_month"`
}

// ReportingService defines admin revenue reporting.
type ReportingService interface {
	GetPlatformReport(ctx context.Context) (*PlatformReport, error)
}

// PaymentEventRequest is a verified payment event from the gateway collaborator.
type PaymentEventRequest struct {
	EventID     string
	VendorID    uuid.UUID
	TotalAmount decimal.Decimal
	Status      domain.PaymentStatus
	OccurredAt  time.Time
}

// OrderIngestService records paid orders from payment events.
type OrderIngestService interface {
	RecordPaymentEvent(ctx context.Context, req PaymentEventRequest) (*domain.Order, error)
}

// WithdrawalNotification is the payload delivered to the vendor when an
// admin reviews a withdrawal request.
type WithdrawalNotification struct {
	VendorName    string
	VendorEmail   string
	Amount        decimal.Decimal
	Status        domain.WithdrawalStatus
	BankName      string
	AccountNumber string // masked
	AdminNotes    *string
}

// NotificationSender delivers vendor notifications. Implementations are
// best-effort: a failure is logged by the caller and never rolls back the
// state transition that triggered it.
type NotificationSender interface {
	SendWithdrawalReviewed(ctx context.Context, n WithdrawalNotification) error
}

// WithdrawalEvent is published to the settlement event stream.
type WithdrawalEvent struct {
	Type       string          `json:"type"` // withdrawal.requested|approved|rejected
	RequestID  uuid.UUID       `json:"request_id"`
	VendorID   uuid.UUID       `json:"vendor_id"`
	Amount     decimal.Decimal `json:"amount"`
	Status     string          `json:"status"`
	OccurredAt time.Time       `json:"occurred_at"`
}

// EventPublisher publishes settlement events. Best-effort, like
// NotificationSender.
type EventPublisher interface {
	PublishWithdrawalEvent(ctx context.Context, evt WithdrawalEvent) error
}
