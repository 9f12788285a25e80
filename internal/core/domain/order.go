package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentStatus is the payment state reported by the gateway collaborator.
type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusSuccess PaymentStatus = "success"
	PaymentStatusPaid    PaymentStatus = "paid"
	PaymentStatusFailed  PaymentStatus = "failed"
)

// Valid reports whether s is a payment status this service understands.
func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentStatusPending, PaymentStatusSuccess, PaymentStatusPaid, PaymentStatusFailed:
		return true
	}
	return false
}

// CountsTowardRevenue reports whether an order in this payment state
// contributes to vendor gross revenue.
func (s PaymentStatus) CountsTowardRevenue() bool {
	return s == PaymentStatusSuccess || s == PaymentStatusPaid
}

// Order is a customer order as recorded from a verified payment event.
// Immutable once paid; this service never mutates orders.
type Order struct {
	ID            uuid.UUID       `json:"id"`
	EventID       string          `json:"event_id"` // gateway event id, unique
	VendorID      uuid.UUID       `json:"vendor_id"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	PaymentStatus PaymentStatus   `json:"payment_status"`
	CreatedAt     time.Time       `json:"created_at"`
}
