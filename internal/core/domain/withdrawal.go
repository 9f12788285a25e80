package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// WithdrawalStatus represents the lifecycle state of a withdrawal request.
// pending is the only non-terminal state.
type WithdrawalStatus string

const (
	WithdrawalStatusPending  WithdrawalStatus = "pending"
	WithdrawalStatusApproved WithdrawalStatus = "approved"
	WithdrawalStatusRejected WithdrawalStatus = "rejected"
)

// Valid reports whether s is a known withdrawal status.
func (s WithdrawalStatus) Valid() bool {
	switch s {
	case WithdrawalStatusPending, WithdrawalStatusApproved, WithdrawalStatusRejected:
		return true
	}
	return false
}

// IsTerminal returns true for approved and rejected.
func (s WithdrawalStatus) IsTerminal() bool {
	return s == WithdrawalStatusApproved || s == WithdrawalStatusRejected
}

// CanTransition reports whether a status transition is permitted.
// The only legal transitions are pending -> approved and pending -> rejected.
func CanTransition(from, to WithdrawalStatus) bool {
	return from == WithdrawalStatusPending && to.IsTerminal()
}

// WithdrawalRequest is a vendor-initiated claim against available balance.
// Created by a vendor, terminated exactly once by an admin, never deleted.
type WithdrawalRequest struct {
	ID            uuid.UUID        `json:"id"`
	VendorID      uuid.UUID        `json:"vendor_id"`
	Amount        decimal.Decimal  `json:"amount"`
	BankName      string           `json:"bank_name"`
	AccountNumber string           `json:"account_number"`
	AccountName   string           `json:"account_name"`
	Status        WithdrawalStatus `json:"status"`
	AdminNotes    *string          `json:"admin_notes,omitempty"`
	ReviewedBy    *uuid.UUID       `json:"reviewed_by,omitempty"`
	ReviewedAt    *time.Time       `json:"reviewed_at,omitempty"`
	CreatedAt     time.Time        `json:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at"`
}

// IsTerminal returns true if the request has been reviewed.
func (w *WithdrawalRequest) IsTerminal() bool {
	return w.Status.IsTerminal()
}

// MaskedAccountNumber returns the account number with the middle digits
// hidden, for responses and notification emails.
func (w *WithdrawalRequest) MaskedAccountNumber() string {
	n := w.AccountNumber
	if len(n) <= 6 {
		return n
	}
	return n[:4] + "****" + n[len(n)-4:]
}

// ValidateAmount reports whether amount is a legal withdrawal amount (> 0).
func ValidateAmount(amount decimal.Decimal) bool {
	return amount.IsPositive()
}
